package garden

import (
	"time"

	"github.com/sadopc/plantr/internal/care"
	"github.com/sadopc/plantr/internal/store"
)

// StatusOf is the watering status of p at now.
func StatusOf(now time.Time, p store.Plant) care.Status {
	return care.WateringStatus(now.UnixMilli(), p.LastWateredAt, p.WateringIntervalDays)
}

// Countdowns returns watering, fertilizing and repotting countdowns in that
// order. Repotting months are converted with care.RepottingDays.
func Countdowns(now time.Time, p store.Plant) []care.Countdown {
	ms := now.UnixMilli()
	return []care.Countdown{
		care.NewCountdown(ms, care.Watering, p.LastWateredAt, p.WateringIntervalDays),
		care.NewCountdown(ms, care.Fertilizing, p.LastFertilizedAt, p.FertilizingIntervalDays),
		care.NewCountdown(ms, care.Repotting, p.LastRepottedAt, care.RepottingDays(p.RepottingIntervalMonths)),
	}
}

// Overview is a plant together with what the list view shows for it.
type Overview struct {
	Plant  store.Plant
	Status care.Status
	// WaterInDays is the truncated number of days until watering is due.
	// Meaningless when Status is care.StatusUnknown.
	WaterInDays int64
}

// Overviews derives the list view for a snapshot. It is recomputed on every
// snapshot; nothing is cached.
func Overviews(now time.Time, plants []store.Plant) []Overview {
	ms := now.UnixMilli()
	out := make([]Overview, 0, len(plants))
	for _, p := range plants {
		out = append(out, Overview{
			Plant:       p,
			Status:      care.WateringStatus(ms, p.LastWateredAt, p.WateringIntervalDays),
			WaterInDays: care.DaysBetween(ms, care.DueAt(p.LastWateredAt, p.WateringIntervalDays)),
		})
	}
	return out
}
