package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/sadopc/plantr/internal/care"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
	boldStyle    = lipgloss.NewStyle().Bold(true)
)

func printSuccess(format string, args ...any) {
	fmt.Fprintln(os.Stderr, successStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

func printError(format string, args ...any) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

func printWarning(format string, args ...any) {
	fmt.Fprintln(os.Stderr, warnStyle.Render("⚠ "+fmt.Sprintf(format, args...)))
}

// statusDot renders the coloured marker for a watering status.
func statusDot(s care.Status) string {
	switch s {
	case care.StatusOk:
		return successStyle.Render("●")
	case care.StatusDueSoon:
		return warnStyle.Render("●")
	case care.StatusOverdue:
		return errorStyle.Render("●")
	}
	return dimStyle.Render("●")
}

// newTable returns a borderless table with a bold header row.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.HiddenBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return boldStyle.PaddingRight(1)
			}
			return lipgloss.NewStyle().PaddingRight(1)
		})
}
