package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/plantr/internal/care"
)

// Garden palette. The four status colours follow care.Status.
var (
	colorPrimary   = lipgloss.Color("#3FA34D")
	colorMuted     = lipgloss.Color("#666666")
	colorFg        = lipgloss.Color("#D8E8D0")
	colorSubtle    = lipgloss.Color("#3C5A3E")
	colorHighlight = lipgloss.Color("#8BC34A")

	colorOk      = lipgloss.Color("#2ECC71")
	colorDueSoon = lipgloss.Color("#F1C40F")
	colorOverdue = lipgloss.Color("#E74C3C")
	colorUnknown = lipgloss.Color("#7F8C8D")
)

// Styles
var (
	// Tabs
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 2)

	// Panels
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Padding(1, 2)

	// Text
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	successStyle = lipgloss.NewStyle().
			Foreground(colorOk)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorDueSoon)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorOverdue)

	unknownStyle = lipgloss.NewStyle().
			Foreground(colorUnknown)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	highlightStyle = lipgloss.NewStyle().
			Foreground(colorHighlight)

	// Header/footer
	headerStyle = lipgloss.NewStyle().
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	// List items
	selectedItemStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)
)

var statusStyles = map[care.Status]lipgloss.Style{
	care.StatusOk:      successStyle,
	care.StatusDueSoon: warningStyle,
	care.StatusOverdue: errorStyle,
}

// statusStyle colours a care status: green, yellow, red or gray.
func statusStyle(s care.Status) lipgloss.Style {
	if st, ok := statusStyles[s]; ok {
		return st
	}
	return unknownStyle
}

func statusDot(s care.Status) string {
	return statusStyle(s).Render("●")
}
