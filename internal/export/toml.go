package export

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/sadopc/plantr/internal/store"
)

func ToTOML(plants []store.Plant, now time.Time, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create toml file: %w", err)
	}
	defer f.Close()
	return WriteTOML(f, plants, now)
}

// WriteTOML writes one [[plant]] table per plant.
func WriteTOML(w io.Writer, plants []store.Plant, now time.Time) error {
	data, err := toml.Marshal(newDocument(plants, now))
	if err != nil {
		return fmt.Errorf("marshal toml: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write toml: %w", err)
	}
	return nil
}
