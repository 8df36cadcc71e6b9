package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// normalizePane forces s to exactly width columns (ANSI-aware) and height lines so
// panes line up under lipgloss.JoinHorizontal.
func normalizePane(s string, width, height int) string {
	width = max(width, 0)
	height = max(height, 0)

	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}
	for i, ln := range lines {
		lines[i] = fitWidth(ln, width)
	}
	return strings.Join(lines, "\n")
}

// fitWidth truncates (with an ellipsis) or pads ln to width display columns.
func fitWidth(ln string, width int) string {
	if width <= 0 {
		return ""
	}
	if xansi.StringWidth(ln) > width {
		ln = xansi.Truncate(ln, width, "…")
	}
	if w := xansi.StringWidth(ln); w < width {
		ln += strings.Repeat(" ", width-w)
	}
	return ln
}

// cellLines wraps a cell value into at most rows lines of width columns.
// Newlines in the value are kept; overflow is marked on the last line.
func cellLines(v string, width, rows int) []string {
	out := make([]string, 0, rows)
	v = strings.TrimSpace(v)
	if v != "" && width > 0 {
		wrapped := xansi.Wrap(v, width, " ")
		all := strings.Split(wrapped, "\n")
		if len(all) > rows {
			all = all[:rows]
			last := xansi.Truncate(all[rows-1], width-1, "")
			all[rows-1] = last + "…"
		}
		out = append(out, all...)
	}
	for len(out) < rows {
		out = append(out, "")
	}
	for i := range out {
		out[i] = centerText(out[i], width)
	}
	return out
}

func centerText(s string, width int) string {
	w := xansi.StringWidth(s)
	if w >= width {
		return fitWidth(s, width)
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}
