package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palette. Everything goes through lipgloss.AdaptiveColor so the grid stays readable on
// light and dark terminals; faint styling is only applied on dark backgrounds.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted     = ac("240", "243")
	colorSurfaceFg = ac("235", "252")
	colorControlBg = ac("252", "235")
	colorAccent    = ac("27", "62")
	colorAccentFg  = ac("255", "235")
	colorBorder    = ac("250", "240")

	// Cell roles.
	colorKeywordBg = ac("#1e3a8a", "#1e3a8a")
	colorKeywordFg = ac("255", "255")
	colorTitleBg   = ac("#dbeafe", "#1e293b")
	colorTitleFg   = ac("#1e3a8a", "#bfdbfe")
	colorCursorBg  = ac("#fde68a", "#facc15")
	colorCursorFg  = ac("235", "235")

	colorWarnBg = ac("214", "130")
	colorWarnFg = ac("235", "255")
	colorErrBg  = ac("196", "160")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleHeading() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg)
}

func styleAccent() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
}

// applyColorProfilePreference honors NO_COLOR and otherwise trusts TERM/COLORTERM when
// they claim more than termenv detects.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	switch {
	case profile == termenv.Ascii:
	case strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit"):
		profile = termenv.TrueColor
	case strings.Contains(term, "256color") && profile == termenv.ANSI:
		profile = termenv.ANSI256
	}
	lipgloss.SetColorProfile(profile)
}

// applyThemePreference decides the background variant.
//
// Priority:
// 1) MANDALART_TUI_THEME=light|dark|auto
// 2) the configured theme (config.json tui.theme)
// 3) COLORFGBG ("fg;bg", bg < 7 means dark)
func applyThemePreference(configured string) {
	for _, v := range []string{os.Getenv("MANDALART_TUI_THEME"), configured} {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "light":
			lipgloss.SetHasDarkBackground(false)
			return
		case "dark":
			lipgloss.SetHasDarkBackground(true)
			return
		}
	}

	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			lipgloss.SetHasDarkBackground(bg < 7)
		}
	}
}

// markdownStyle picks the glamour palette matching the current background.
func markdownStyle() string {
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}
