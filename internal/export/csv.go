package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/plantr/internal/store"
)

var csvHeader = []string{
	"ID", "Name", "Family", "Location", "Status",
	"Water every (days)", "Fertilize every (days)", "Repot every (months)",
	"Last watered", "Next watering",
	"Last fertilized", "Next fertilizing",
	"Last repotted", "Next repotting",
}

func ToCSV(plants []store.Plant, now time.Time, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()
	return WriteCSV(f, plants, now)
}

func WriteCSV(out io.Writer, plants []store.Plant, now time.Time) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range rowsOf(plants, now) {
		row := []string{
			strconv.FormatInt(r.ID, 10),
			r.Name,
			r.SpeciesFamily,
			r.Location,
			r.Status,
			strconv.Itoa(r.WateringIntervalDays),
			strconv.Itoa(r.FertilizingIntervalDays),
			strconv.Itoa(r.RepottingIntervalMonths),
			r.LastWatered, r.NextWatering,
			r.LastFertilized, r.NextFertilizing,
			r.LastRepotted, r.NextRepotting,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
