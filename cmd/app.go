package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sadopc/plantr/internal/catalog"
	"github.com/sadopc/plantr/internal/config"
	"github.com/sadopc/plantr/internal/garden"
	"github.com/sadopc/plantr/internal/store"
)

// app is what every command needs once configuration is loaded.
type app struct {
	cfg    config.Config
	store  *store.Store
	garden *garden.Service
	closer io.Closer // log file, if any
}

// openApp loads config, sets up logging and opens the database. When
// logToFile is set, log output goes next to the database instead of
// stderr so it does not draw over the TUI.
func openApp(logToFile bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
	}

	a := &app{cfg: cfg}
	if err := a.setupLogging(dbPath, logToFile); err != nil {
		return nil, err
	}

	s, err := store.New(dbPath)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	a.store = s

	client := catalog.New(cfg.Catalog.BaseURL, cfg.Catalog.APIKey, cfg.Catalog.Timeout)
	a.garden = garden.NewService(s, client, catalog.NewMapper(cfg.Language()))

	slog.Debug("database opened", "path", dbPath)
	return a, nil
}

func (a *app) setupLogging(dbPath string, logToFile bool) error {
	level, err := a.cfg.Level()
	if err != nil {
		return err
	}

	var w io.Writer = os.Stderr
	if logToFile {
		dir := filepath.Dir(dbPath)
		if dbPath == ":memory:" {
			dir = os.TempDir()
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(filepath.Join(dir, "plantr.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		a.closer = f
		w = f
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return nil
}

func (a *app) Close() error {
	var err error
	if a.store != nil {
		err = a.store.Close()
	}
	if a.closer != nil {
		a.closer.Close()
	}
	return err
}
