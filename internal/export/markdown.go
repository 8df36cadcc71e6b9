package export

import (
	"fmt"
	"strings"

	"mandalart-cli/internal/model"
)

const untitled = "(untitled)"

// RenderMarkdown renders g as a Markdown outline: the central keyword as the
// document title, one section per key area, sub-goals as a bullet list.
// Blank sub-goals are skipped; blank titles render as "(untitled)".
func RenderMarkdown(g model.Grid) string {
	var b strings.Builder

	b.WriteString("# ")
	b.WriteString(oneLine(g.CentralKeyword(), untitled))
	b.WriteString("\n")

	for i, blk := range model.Surrounding {
		b.WriteString("\n")
		b.WriteString(RenderBlockMarkdown(g, blk, i+1))
	}
	return b.String()
}

// RenderBlockMarkdown renders a single key area. n is the 1-based area number (0 omits it).
func RenderBlockMarkdown(g model.Grid, block int, n int) string {
	var b strings.Builder
	title := oneLine(g.Title(block), untitled)
	if block == model.CenterBlock {
		title = oneLine(g.CentralKeyword(), untitled)
	}
	if n > 0 {
		fmt.Fprintf(&b, "## %d. %s\n", n, title)
	} else {
		fmt.Fprintf(&b, "## %s\n", title)
	}

	items := g.NonBlankItems(block)
	if len(items) == 0 {
		b.WriteString("\n_No sub-goals yet._\n")
		return b.String()
	}
	b.WriteString("\n")
	for _, it := range items {
		b.WriteString("- ")
		b.WriteString(oneLine(it, ""))
		b.WriteString("\n")
	}
	return b.String()
}

func oneLine(s, fallback string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return fallback
	}
	return s
}
