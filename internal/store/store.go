package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	_ "modernc.org/sqlite"
)

const currentVersion = 2

const memoryPath = ":memory:"

type Store struct {
	db   *sql.DB
	path string

	mu      sync.Mutex
	subs    map[int]chan struct{}
	nextSub int

	watcher   *fsnotify.Watcher
	watchDone chan struct{}
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if dbPath != memoryPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{
		db:   db,
		path: dbPath,
		subs: make(map[int]chan struct{}),
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(memoryPath)
}

// Close stops the file watcher, if any, and closes the database.
func (s *Store) Close() error {
	s.stopFileWatch()
	return s.db.Close()
}

// Path returns the database path the store was opened with.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}
	if version < 2 {
		if err := s.migrateV2(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS plants (
		id                        INTEGER PRIMARY KEY AUTOINCREMENT,
		catalog_id                INTEGER,
		name                      TEXT NOT NULL,
		species_family            TEXT,
		location                  TEXT NOT NULL DEFAULT '',
		watering_interval_days    INTEGER NOT NULL DEFAULT 0,
		fertilizing_interval_days INTEGER NOT NULL DEFAULT 0,
		repotting_interval_months INTEGER NOT NULL DEFAULT 0,
		last_watered_at           INTEGER NOT NULL DEFAULT 0,
		last_fertilized_at        INTEGER NOT NULL DEFAULT 0,
		last_repotted_at          INTEGER NOT NULL DEFAULT 0,
		image_url                 TEXT NOT NULL DEFAULT '',
		created_at                TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at                TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE INDEX IF NOT EXISTS idx_plants_name ON plants(name);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('locations',        'Living room,Bedroom,Kitchen,Bathroom,Office,Balcony,Garden'),
		('search_min_chars', '3');
	`
	_, err := s.db.Exec(ddl)
	return err
}

func (s *Store) migrateV2() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS care_events (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		plant_id  INTEGER NOT NULL REFERENCES plants(id) ON DELETE CASCADE,
		kind      TEXT NOT NULL,
		at        INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_care_events_plant ON care_events(plant_id, at);
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/plantr/plantr.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "plantr", "plantr.db"), nil
}
