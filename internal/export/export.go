// Package export writes the garden out as CSV, JSON or TOML, including the
// status and next due dates as of a given moment.
package export

import (
	"fmt"
	"time"

	"github.com/sadopc/plantr/internal/care"
	"github.com/sadopc/plantr/internal/garden"
	"github.com/sadopc/plantr/internal/store"
)

// Format names accepted by Write.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatTOML = "toml"
)

type plantRow struct {
	ID                      int64  `json:"id" toml:"id"`
	Name                    string `json:"name" toml:"name"`
	SpeciesFamily           string `json:"species_family,omitempty" toml:"species_family,omitempty"`
	Location                string `json:"location,omitempty" toml:"location,omitempty"`
	Status                  string `json:"status" toml:"status"`
	WateringIntervalDays    int    `json:"watering_interval_days" toml:"watering_interval_days"`
	FertilizingIntervalDays int    `json:"fertilizing_interval_days" toml:"fertilizing_interval_days"`
	RepottingIntervalMonths int    `json:"repotting_interval_months" toml:"repotting_interval_months"`
	LastWatered             string `json:"last_watered,omitempty" toml:"last_watered,omitempty"`
	NextWatering            string `json:"next_watering,omitempty" toml:"next_watering,omitempty"`
	LastFertilized          string `json:"last_fertilized,omitempty" toml:"last_fertilized,omitempty"`
	NextFertilizing         string `json:"next_fertilizing,omitempty" toml:"next_fertilizing,omitempty"`
	LastRepotted            string `json:"last_repotted,omitempty" toml:"last_repotted,omitempty"`
	NextRepotting           string `json:"next_repotting,omitempty" toml:"next_repotting,omitempty"`
}

func rowsOf(plants []store.Plant, now time.Time) []plantRow {
	rows := make([]plantRow, 0, len(plants))
	for _, p := range plants {
		r := plantRow{
			ID:                      p.ID,
			Name:                    p.Name,
			SpeciesFamily:           p.Family(),
			Location:                p.Location,
			Status:                  garden.StatusOf(now, p).String(),
			WateringIntervalDays:    p.WateringIntervalDays,
			FertilizingIntervalDays: p.FertilizingIntervalDays,
			RepottingIntervalMonths: p.RepottingIntervalMonths,
		}
		r.LastWatered, r.NextWatering = dates(p.LastWateredAt, p.WateringIntervalDays)
		r.LastFertilized, r.NextFertilizing = dates(p.LastFertilizedAt, p.FertilizingIntervalDays)
		r.LastRepotted, r.NextRepotting = dates(p.LastRepottedAt, care.RepottingDays(p.RepottingIntervalMonths))
		rows = append(rows, r)
	}
	return rows
}

// dates formats when an action was last done and when it is next due.
// Actions that were never recorded or have no interval leave fields empty.
func dates(lastAt int64, intervalDays int) (last, next string) {
	if lastAt <= 0 {
		return "", ""
	}
	last = formatMillis(lastAt)
	if intervalDays > 0 {
		next = formatMillis(care.DueAt(lastAt, intervalDays))
	}
	return last, next
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).Local().Format(time.RFC3339)
}

// Write exports plants in the named format to path.
func Write(format string, plants []store.Plant, now time.Time, path string) error {
	switch format {
	case FormatCSV:
		return ToCSV(plants, now, path)
	case FormatJSON:
		return ToJSON(plants, now, path)
	case FormatTOML:
		return ToTOML(plants, now, path)
	}
	return fmt.Errorf("unknown export format %q", format)
}
