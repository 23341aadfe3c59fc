package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.ANSIColor(termenv.ANSIBrightGreen)).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff0000")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.ANSIColor(termenv.ANSIBrightYellow))

	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#767676"))
)
