package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/fitchpad/fitchpad-cli/pkg/fitch"
	"github.com/fitchpad/fitchpad-cli/pkg/oracle"
	"github.com/fitchpad/fitchpad-cli/pkg/session"
)

const (
	// feedbackLines is the height reserved for checker output
	feedbackLines = 3
	gutterWidth   = 2
)

func truncateHelp(width int) string {
	help := helpText()
	if width <= 0 {
		return help
	}
	return truncate.StringWithTail(help, uint(width), "…")
}

func renderTabBar(tabs []session.Tab, current, width int) string {
	rendered := make([]string, len(tabs))
	for i, tab := range tabs {
		name := tab.Name
		if tab.ConfettiPlayed {
			name += " ✓"
		}
		if i == current {
			rendered[i] = ActiveTabStyle.Render(name)
		} else {
			rendered[i] = InactiveTabStyle.Render(name)
		}
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	if width > 0 && lipgloss.Width(bar) > width {
		bar = truncate.StringWithTail(bar, uint(width), "…")
	}
	return bar
}

func renderTarget(tab session.Tab) string {
	if tab.ProofTarget == "" {
		return TargetStyle.Render("No proof target (ctrl+t to set one)")
	}
	line := "Target: " + tab.ProofTarget
	if tab.ConfettiPlayed {
		return CorrectStyle.Render(line + "  reached!")
	}
	return TargetStyle.Render(line)
}

// renderFeedback wraps checker output into at most feedbackLines lines
func renderFeedback(report oracle.Report, width int) string {
	if report.Message == "" {
		return ""
	}
	text := report.Message
	if width > 0 {
		text = wordwrap.String(text, width)
	}
	lines := strings.Split(text, "\n")
	if len(lines) > feedbackLines {
		lines = append(lines[:feedbackLines-1], lines[feedbackLines-1]+" …")
	}
	text = strings.Join(lines, "\n")

	switch report.Status {
	case oracle.StatusCorrect:
		return CorrectStyle.Render(text)
	case oracle.StatusFatal:
		return FatalStyle.Render(text)
	default:
		return WarningStyle.Render(text)
	}
}

// gutterMarker labels a row with its structural role; the row the checker
// complains about gets "!"
func gutterMarker(layout *fitch.Layout, report oracle.Report, row int) string {
	if layout == nil || row >= layout.Len() {
		return strings.Repeat(" ", gutterWidth)
	}
	if report.HasRow && report.Row == row {
		return "! "
	}
	switch layout.Role(row) {
	case fitch.RoleScopeBar:
		return "─ "
	case fitch.RolePremise:
		return "P "
	default:
		return "  "
	}
}
