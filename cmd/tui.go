package cmd

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sadopc/plantr/internal/tui"
)

func runTUI(cmd *cobra.Command, _ []string) error {
	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.cfg.WatchDB {
		if err := a.store.StartFileWatch(); err != nil {
			slog.Warn("database file watch unavailable", "error", err)
		}
	}

	p := tea.NewProgram(tui.NewApp(a.store, a.garden), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	_, err = p.Run()
	return err
}
