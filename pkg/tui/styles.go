package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color constants
const (
	ColorActive   = "170" // Purple/magenta for the selected tab
	ColorInactive = "240" // Gray for other tabs
	ColorSelected = "236" // Dark gray background for the selected tab
	ColorNormal   = "245" // Light gray for normal text
	ColorDim      = "241" // Dimmer gray for help text
	ColorWarning  = "214" // Orange/yellow for warnings
	ColorSuccess  = "28"  // Green for a correct proof
	ColorError    = "196" // Red for fatal feedback
	ColorWhite    = "255"
	ColorPrimary  = "33" // Blue for prompts
)

var (
	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorActive)).
			Background(lipgloss.Color(ColorSelected)).
			Bold(true).
			Padding(0, 1)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorInactive)).
				Padding(0, 1)

	TargetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorNormal)).
			Italic(true)

	CorrectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSuccess)).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorWarning))

	FatalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError)).
			Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")).
			Padding(0, 1)

	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorDim))

	PromptLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorPrimary)).
				Bold(true)

	PromptCursorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorDim)).
				Background(lipgloss.Color(ColorWhite))

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError))
)
