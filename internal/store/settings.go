package store

import (
	"fmt"
	"strconv"
	"strings"
)

// Setting keys.
const (
	SettingLocations      = "locations"
	SettingSearchMinChars = "search_min_chars"
)

const defaultSearchMinChars = 3

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// Locations returns the location vocabulary offered when creating a plant.
func (s *Store) Locations() []string {
	v, err := s.GetSetting(SettingLocations)
	if err != nil {
		return nil
	}
	return SplitList(v)
}

// SearchMinChars is the query length at which the add form starts
// searching the catalog on its own.
func (s *Store) SearchMinChars() int {
	v, err := s.GetSetting(SettingSearchMinChars)
	if err != nil {
		return defaultSearchMinChars
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return defaultSearchMinChars
	}
	return n
}

// SplitList splits a comma-separated setting, dropping blanks.
func SplitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
