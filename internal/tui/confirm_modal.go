package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

func (f confirmModalFocus) toggle() confirmModalFocus {
	if f == confirmFocusConfirm {
		return confirmFocusCancel
	}
	return confirmFocusConfirm
}

func modalBodyWidth(width int) int {
	return min(max(width-12, 24), 64)
}

func renderModalBox(width int, title string, content string) string {
	bodyW := modalBodyWidth(width)
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorAccentFg).
		Background(colorAccent).
		Padding(0, 1).
		Width(bodyW).
		Render(title)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)
	return box.Render(header + "\n\n" + lipgloss.NewStyle().Width(bodyW).Render(content))
}

func renderConfirmModal(width int, title string, body string, confirmLabel string, cancelLabel string, focus confirmModalFocus) string {
	btnBase := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	btnActive := btnBase.
		Foreground(colorCursorFg).
		Background(colorCursorBg).
		Bold(true)

	confirm := btnBase.Render(confirmLabel)
	cancel := btnBase.Render(cancelLabel)
	if focus == confirmFocusConfirm {
		confirm = btnActive.Render(confirmLabel)
	} else {
		cancel = btnActive.Render(cancelLabel)
	}
	controls := lipgloss.JoinHorizontal(lipgloss.Top, confirm, " ", cancel)

	help := styleMuted().Render("tab: focus   enter: select   esc: cancel")
	return renderModalBox(width, title, strings.Join([]string{body, "", controls, "", help}, "\n"))
}

func renderInputModal(width int, title string, input string, hint string) string {
	return renderModalBox(width, title, strings.Join([]string{input, "", styleMuted().Render(hint)}, "\n"))
}
