// Package garden ties the store, the species catalog and the care rules
// together into the operations the TUI, CLI and HTTP API call.
package garden

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/sadopc/plantr/internal/care"
	"github.com/sadopc/plantr/internal/catalog"
	"github.com/sadopc/plantr/internal/store"
)

// PlantStore is the persistence the service needs. *store.Store
// implements it.
type PlantStore interface {
	InsertPlant(p store.Plant) (*store.Plant, error)
	UpdatePlant(p store.Plant) error
	DeletePlant(id int64) error
	GetPlant(id int64) (*store.Plant, error)
	ListPlants() ([]store.Plant, error)
	AddCareEvent(plantID int64, kind store.CareKind, at int64) (*store.CareEvent, error)
}

var _ PlantStore = (*store.Store)(nil)

type Service struct {
	store   PlantStore
	catalog catalog.Service
	mapper  catalog.Mapper
	now     func() time.Time
}

func NewService(s PlantStore, c catalog.Service, m catalog.Mapper) *Service {
	return &Service{
		store:   s,
		catalog: c,
		mapper:  m,
		now:     time.Now,
	}
}

// SetClock replaces the service clock. The mapper keeps its own.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Mapper returns the catalog mapper used for lookups.
func (s *Service) Mapper() catalog.Mapper {
	return s.mapper
}

// Validate reports whether p may be saved: it needs a non-blank name, a
// positive watering interval and no negative interval.
func Validate(p store.Plant) error {
	if strings.TrimSpace(p.Name) == "" {
		return &ValidationError{Field: "name", Message: "Please enter a name for the plant."}
	}
	if p.WateringIntervalDays <= 0 {
		return &ValidationError{Field: "watering", Message: "Please set how often the plant needs watering."}
	}
	if p.FertilizingIntervalDays < 0 {
		return &ValidationError{Field: "fertilizing", Message: "The fertilizing interval cannot be negative."}
	}
	if p.RepottingIntervalMonths < 0 {
		return &ValidationError{Field: "repotting", Message: "The repotting interval cannot be negative."}
	}
	return nil
}

// Create validates and saves a draft, returning the stored plant.
func (s *Service) Create(p store.Plant) (*store.Plant, error) {
	if err := Validate(p); err != nil {
		return nil, err
	}
	saved, err := s.store.InsertPlant(p)
	if err != nil {
		return nil, &StoreError{Op: "save plant", Err: err}
	}
	slog.Debug("plant saved", "id", saved.ID, "name", saved.Name)
	return saved, nil
}

func (s *Service) Get(id int64) (*store.Plant, error) {
	p, err := s.store.GetPlant(id)
	if err != nil {
		return nil, &StoreError{Op: "load plant", Err: err}
	}
	return p, nil
}

func (s *Service) List() ([]store.Plant, error) {
	plants, err := s.store.ListPlants()
	if err != nil {
		return nil, &StoreError{Op: "list plants", Err: err}
	}
	return plants, nil
}

func (s *Service) Delete(id int64) error {
	if err := s.store.DeletePlant(id); err != nil {
		return &StoreError{Op: "delete plant", Err: err}
	}
	return nil
}

// Search returns catalog matches for query, best first. Failures are
// returned as *LookupError.
func (s *Service) Search(ctx context.Context, query string) ([]catalog.Record, error) {
	records, err := s.catalog.Search(ctx, query)
	if err != nil {
		return nil, &LookupError{Query: query, Err: err}
	}
	return records, nil
}

// Lookup maps the best catalog match for query into a draft plant. It
// returns nil when the catalog has no match.
func (s *Service) Lookup(ctx context.Context, query string) (*store.Plant, error) {
	records, err := s.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	p := s.mapper.Map(records[0])
	return &p, nil
}

// SearchAndSave stores the best catalog match for query without asking the
// user. A failed or empty lookup only gets logged and creates nothing; a
// failing insert is still returned.
func (s *Service) SearchAndSave(ctx context.Context, query string) (*store.Plant, error) {
	p, err := s.Lookup(ctx, query)
	if err != nil {
		slog.Warn("search and save: lookup failed", "query", query, "error", err)
		return nil, nil
	}
	if p == nil {
		slog.Info("search and save: no catalog match", "query", query)
		return nil, nil
	}
	saved, err := s.store.InsertPlant(*p)
	if err != nil {
		return nil, &StoreError{Op: "save plant", Err: err}
	}
	return saved, nil
}

func (s *Service) RecordWatering(id int64) (*store.Plant, error) {
	return s.Record(id, care.Watering)
}

func (s *Service) RecordFertilizing(id int64) (*store.Plant, error) {
	return s.Record(id, care.Fertilizing)
}

func (s *Service) RecordRepotting(id int64) (*store.Plant, error) {
	return s.Record(id, care.Repotting)
}

// Record sets the timestamp of one care action to now and leaves every
// other field untouched.
func (s *Service) Record(id int64, action care.Action) (*store.Plant, error) {
	current, err := s.store.GetPlant(id)
	if err != nil {
		return nil, &StoreError{Op: "record " + action.String(), Err: err}
	}
	now := s.now().UnixMilli()
	updated := *current
	switch action {
	case care.Watering:
		updated.LastWateredAt = now
	case care.Fertilizing:
		updated.LastFertilizedAt = now
	case care.Repotting:
		updated.LastRepottedAt = now
	default:
		return nil, errors.New("unknown care action")
	}
	if err := s.store.UpdatePlant(updated); err != nil {
		return nil, &StoreError{Op: "record " + action.String(), Err: err}
	}
	if _, err := s.store.AddCareEvent(id, KindOf(action), now); err != nil {
		slog.Warn("care event not logged", "plant", id, "action", action.String(), "error", err)
	}
	return &updated, nil
}

// KindOf maps a care action to its history kind.
func KindOf(a care.Action) store.CareKind {
	switch a {
	case care.Fertilizing:
		return store.KindFertilizing
	case care.Repotting:
		return store.KindRepotting
	default:
		return store.KindWatering
	}
}

// ParseAction accepts "water", "watering", "fertilize", "repot" and so on.
func ParseAction(s string) (care.Action, bool) {
	switch strings.ToLower(s) {
	case "water", "watering":
		return care.Watering, true
	case "fertilize", "fertilise", "fertilizing":
		return care.Fertilizing, true
	case "repot", "repotting":
		return care.Repotting, true
	}
	return 0, false
}
