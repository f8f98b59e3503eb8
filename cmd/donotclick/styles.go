package main

import "github.com/charmbracelet/lipgloss"

// tuiStyles are the lipgloss styles for the terminal mode. The palette
// matches the desktop theme.
type tuiStyles struct {
	Title        lipgloss.Style
	Counter      lipgloss.Style
	Message      lipgloss.Style
	Button       lipgloss.Style
	IndicatorOn  lipgloss.Style
	IndicatorOff lipgloss.Style
	Help         lipgloss.Style
	Debug        lipgloss.Style
}

func defaultTUIStyles() tuiStyles {
	return tuiStyles{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6666")).
			Bold(true),

		Counter: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F2F4F8")).
			Bold(true),

		Message: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A9B3C2")).
			Italic(true),

		Button: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#100D14")).
			Background(lipgloss.Color("#FF6666")).
			Bold(true),

		IndicatorOn: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7FD4A8")).
			Bold(true),

		IndicatorOff: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF8282")).
			Bold(true),

		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")),

		Debug: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF9F5A")),
	}
}
