package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Plant is a tracked plant. Timestamps of care actions are epoch
// milliseconds; 0 means the action was never recorded. Interval fields of 0
// mean "unset".
type Plant struct {
	ID                      int64
	CatalogID               *int64
	Name                    string
	SpeciesFamily           *string
	Location                string
	WateringIntervalDays    int
	FertilizingIntervalDays int
	RepottingIntervalMonths int
	LastWateredAt           int64
	LastFertilizedAt        int64
	LastRepottedAt          int64
	ImageURL                string
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// Family returns the species family or "" when unset.
func (p Plant) Family() string {
	if p.SpeciesFamily == nil {
		return ""
	}
	return *p.SpeciesFamily
}

// CareKind names a care action in the care_events table.
type CareKind string

const (
	KindWatering    CareKind = "watering"
	KindFertilizing CareKind = "fertilizing"
	KindRepotting   CareKind = "repotting"
)

// CareEvent is one recorded care action.
type CareEvent struct {
	ID      int64
	PlantID int64
	Kind    CareKind
	At      int64 // epoch ms
}

type Setting struct {
	Key   string
	Value string
}
