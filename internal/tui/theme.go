package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted          lipgloss.TerminalColor = ac("240", "243")
	colorAccent         lipgloss.TerminalColor = ac("27", "62")
	colorAccentFg       lipgloss.TerminalColor = ac("255", "235")
	colorCardBorder     lipgloss.TerminalColor = ac("250", "243")
	colorSelectedBorder lipgloss.TerminalColor = ac("232", "255")
	colorDropBorder     lipgloss.TerminalColor = ac("28", "78")
	colorError          lipgloss.TerminalColor = ac("160", "203")
)

func styleMuted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorMuted)
}

func styleTabActive() lipgloss.Style {
	return lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(colorAccentFg).Background(colorAccent)
}

func styleTab() lipgloss.Style {
	return lipgloss.NewStyle().Padding(0, 1).Foreground(colorMuted)
}

func styleListHeader(hovered bool) lipgloss.Style {
	st := lipgloss.NewStyle().Bold(true)
	if hovered {
		st = st.Foreground(colorDropBorder)
	}
	return st
}

func styleCard(selected, dropTarget bool) lipgloss.Style {
	st := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorCardBorder)
	switch {
	case dropTarget:
		st = st.BorderForeground(colorDropBorder)
	case selected:
		st = st.BorderForeground(colorSelectedBorder).Border(lipgloss.ThickBorder())
	}
	return st
}

func styleStatus(isErr bool) lipgloss.Style {
	if isErr {
		return lipgloss.NewStyle().Foreground(colorError).Bold(true)
	}
	return lipgloss.NewStyle()
}

// applyColorProfile sets Lip Gloss's color profile. "never" and NO_COLOR force plain output,
// "always" forces true color, "auto" follows the terminal with a nudge from TERM/COLORTERM
// when the detector under-reports.
func applyColorProfile(pref string) {
	pref = strings.ToLower(strings.TrimSpace(pref))
	if pref == "never" || strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	if pref == "always" {
		lipgloss.SetColorProfile(termenv.TrueColor)
		return
	}

	profile := termenv.ColorProfile()
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	switch {
	case strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit"):
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	case strings.Contains(term, "256color"):
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}
	lipgloss.SetColorProfile(profile)
}
