package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sadopc/plantr/internal/store"
)

type document struct {
	ExportedAt string     `json:"exported_at" toml:"exported_at"`
	Count      int        `json:"count" toml:"count"`
	Plants     []plantRow `json:"plants" toml:"plant"`
}

func newDocument(plants []store.Plant, now time.Time) document {
	return document{
		ExportedAt: now.UTC().Format(time.RFC3339),
		Count:      len(plants),
		Plants:     rowsOf(plants, now),
	}
}

func ToJSON(plants []store.Plant, now time.Time, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create json file: %w", err)
	}
	defer f.Close()
	return WriteJSON(f, plants, now)
}

func WriteJSON(w io.Writer, plants []store.Plant, now time.Time) error {
	data, err := json.MarshalIndent(newDocument(plants, now), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}
