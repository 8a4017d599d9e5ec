package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func insertPlant(t *testing.T, s *Store, name string, waterDays int) *Plant {
	t.Helper()
	p, err := s.InsertPlant(Plant{Name: name, WateringIntervalDays: waterDays})
	if err != nil {
		t.Fatalf("insert plant: %v", err)
	}
	return p
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != currentVersion {
		t.Fatalf("expected user_version %d, got %d", currentVersion, version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/plantr.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	insertPlant(t, s, "Fern", 7)
	s.Close()

	// Reopen: should not re-migrate and the row should survive.
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	plants, _ := s2.ListPlants()
	if len(plants) != 1 {
		t.Fatalf("expected 1 plant after reopen, got %d", len(plants))
	}
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "plantr.db" {
		t.Fatalf("unexpected path %q", path)
	}
}

func TestDefaultSettingsSeeded(t *testing.T) {
	s := newTestStore(t)
	if len(s.Locations()) == 0 {
		t.Fatal("expected seeded location vocabulary")
	}
	if s.SearchMinChars() != 3 {
		t.Fatalf("SearchMinChars = %d, want 3", s.SearchMinChars())
	}
}

// ============================================================
// Plants
// ============================================================

func TestInsertAndGetPlant(t *testing.T) {
	s := newTestStore(t)
	cid := int64(42)
	fam := "Moraceae"
	p, err := s.InsertPlant(Plant{
		CatalogID:               &cid,
		Name:                    "Rubber plant",
		SpeciesFamily:           &fam,
		Location:                "Office",
		WateringIntervalDays:    7,
		FertilizingIntervalDays: 70,
		RepottingIntervalMonths: 12,
		LastWateredAt:           1000,
		LastFertilizedAt:        2000,
		LastRepottedAt:          3000,
		ImageURL:                "https://example.com/ficus.jpg",
	})
	if err != nil {
		t.Fatal(err)
	}
	if p.ID == 0 {
		t.Fatal("expected assigned ID")
	}

	got, err := s.GetPlant(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Rubber plant" || got.Location != "Office" || got.ImageURL == "" {
		t.Fatalf("unexpected plant: %+v", got)
	}
	if got.CatalogID == nil || *got.CatalogID != 42 {
		t.Fatal("catalog id not persisted")
	}
	if got.Family() != "Moraceae" {
		t.Fatalf("family = %q", got.Family())
	}
	if got.WateringIntervalDays != 7 || got.FertilizingIntervalDays != 70 || got.RepottingIntervalMonths != 12 {
		t.Fatalf("intervals not persisted: %+v", got)
	}
	if got.LastWateredAt != 1000 || got.LastFertilizedAt != 2000 || got.LastRepottedAt != 3000 {
		t.Fatalf("timestamps not persisted: %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("created_at not set")
	}
}

func TestInsertPlantNullables(t *testing.T) {
	s := newTestStore(t)
	p := insertPlant(t, s, "Unknown", 3)
	if p.CatalogID != nil || p.SpeciesFamily != nil {
		t.Fatalf("expected nil optional fields: %+v", p)
	}
	if p.Family() != "" {
		t.Fatal("Family() should be empty")
	}
}

func TestGetPlantNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetPlant(999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListPlantsOrderedByName(t *testing.T) {
	s := newTestStore(t)
	insertPlant(t, s, "Monstera", 7)
	insertPlant(t, s, "Aloe", 14)
	insertPlant(t, s, "Fern", 3)

	plants, err := s.ListPlants()
	if err != nil {
		t.Fatal(err)
	}
	if len(plants) != 3 {
		t.Fatalf("expected 3 plants, got %d", len(plants))
	}
	if plants[0].Name != "Aloe" || plants[1].Name != "Fern" || plants[2].Name != "Monstera" {
		t.Fatalf("not sorted by name: %s, %s, %s", plants[0].Name, plants[1].Name, plants[2].Name)
	}
}

func TestListPlantsEmpty(t *testing.T) {
	s := newTestStore(t)
	plants, err := s.ListPlants()
	if err != nil {
		t.Fatal(err)
	}
	if plants != nil {
		t.Fatalf("expected nil slice, got %d items", len(plants))
	}
}

func TestUpdatePlant(t *testing.T) {
	s := newTestStore(t)
	p := insertPlant(t, s, "Fern", 3)
	p.LastWateredAt = 12345
	p.Location = "Bathroom"
	if err := s.UpdatePlant(*p); err != nil {
		t.Fatal(err)
	}
	got, _ := s.GetPlant(p.ID)
	if got.LastWateredAt != 12345 || got.Location != "Bathroom" {
		t.Fatalf("update failed: %+v", got)
	}
	if got.Name != "Fern" || got.WateringIntervalDays != 3 {
		t.Fatal("untouched fields changed")
	}
}

func TestUpdatePlantNotFound(t *testing.T) {
	s := newTestStore(t)
	err := s.UpdatePlant(Plant{ID: 77, Name: "Ghost"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeletePlant(t *testing.T) {
	s := newTestStore(t)
	p := insertPlant(t, s, "Fern", 3)
	s.AddCareEvent(p.ID, KindWatering, 100)

	if err := s.DeletePlant(p.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetPlant(p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatal("plant should be gone")
	}
	events, _ := s.ListCareEvents(p.ID, 0)
	if len(events) != 0 {
		t.Fatal("care events should cascade on delete")
	}
	if err := s.DeletePlant(p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}

// ============================================================
// Care events
// ============================================================

func TestCareEvents(t *testing.T) {
	s := newTestStore(t)
	p := insertPlant(t, s, "Fern", 3)
	s.AddCareEvent(p.ID, KindWatering, 100)
	s.AddCareEvent(p.ID, KindFertilizing, 300)
	s.AddCareEvent(p.ID, KindRepotting, 200)

	events, err := s.ListCareEvents(p.ID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].Kind != KindFertilizing || events[2].Kind != KindWatering {
		t.Fatalf("expected newest first: %+v", events)
	}

	limited, _ := s.ListCareEvents(p.ID, 2)
	if len(limited) != 2 {
		t.Fatalf("limit ignored: got %d", len(limited))
	}
}

func TestCareEventInvalidPlant(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.AddCareEvent(999, KindWatering, 1); err == nil {
		t.Fatal("expected foreign key error for non-existent plant")
	}
}

// ============================================================
// Settings
// ============================================================

func TestSetAndGetSetting(t *testing.T) {
	s := newTestStore(t)
	if err := s.SetSetting(SettingLocations, "Porch, Attic ,,"); err != nil {
		t.Fatal(err)
	}
	locs := s.Locations()
	if len(locs) != 2 || locs[0] != "Porch" || locs[1] != "Attic" {
		t.Fatalf("unexpected locations: %v", locs)
	}
}

func TestSearchMinCharsInvalid(t *testing.T) {
	s := newTestStore(t)
	s.SetSetting(SettingSearchMinChars, "abc")
	if s.SearchMinChars() != 3 {
		t.Fatal("invalid value should fall back to 3")
	}
	s.SetSetting(SettingSearchMinChars, "5")
	if s.SearchMinChars() != 5 {
		t.Fatal("expected 5")
	}
}

func TestGetAllSettings(t *testing.T) {
	s := newTestStore(t)
	settings, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(settings) != 2 {
		t.Fatalf("expected 2 settings, got %d", len(settings))
	}
	if settings[0].Key != SettingLocations {
		t.Fatalf("expected sorted keys, got %s first", settings[0].Key)
	}
}

// ============================================================
// Live queries
// ============================================================

func recvPlants(t *testing.T, ch <-chan Snapshot[[]Plant]) []Plant {
	t.Helper()
	select {
	case snap, ok := <-ch:
		if !ok {
			t.Fatal("channel closed")
		}
		if snap.Err != nil {
			t.Fatal(snap.Err)
		}
		return snap.Value
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return nil
}

func TestWatchPlantsInitialAndChange(t *testing.T) {
	s := newTestStore(t)
	insertPlant(t, s, "Fern", 3)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := s.WatchPlants(ctx)

	if got := recvPlants(t, ch); len(got) != 1 {
		t.Fatalf("initial snapshot: expected 1 plant, got %d", len(got))
	}

	insertPlant(t, s, "Aloe", 14)
	got := recvPlants(t, ch)
	if len(got) != 2 || got[0].Name != "Aloe" {
		t.Fatalf("second snapshot: %+v", got)
	}
}

func TestWatchPlantsCancel(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	ch := s.WatchPlants(ctx)
	recvPlants(t, ch)
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			// A snapshot racing with cancel is fine; the next read must close.
			if _, ok := <-ch; ok {
				t.Fatal("channel should close after cancel")
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}

	s.mu.Lock()
	n := len(s.subs)
	s.mu.Unlock()
	if n != 0 {
		t.Fatalf("expected subscription to be removed, %d left", n)
	}
}

func TestWatchPlantDeleted(t *testing.T) {
	s := newTestStore(t)
	p := insertPlant(t, s, "Fern", 3)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := s.WatchPlant(ctx, p.ID)

	snap := <-ch
	if snap.Err != nil || snap.Value.Name != "Fern" {
		t.Fatalf("unexpected first snapshot: %+v", snap)
	}

	p.LastWateredAt = 99
	s.UpdatePlant(*p)
	snap = <-ch
	if snap.Value.LastWateredAt != 99 {
		t.Fatalf("expected updated snapshot, got %+v", snap.Value)
	}

	s.DeletePlant(p.ID)
	snap = <-ch
	if !errors.Is(snap.Err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", snap.Err)
	}
	if _, ok := <-ch; ok {
		t.Fatal("channel should close after the plant is deleted")
	}
}

func TestWatchPlantSeesCareEvent(t *testing.T) {
	s := newTestStore(t)
	p := insertPlant(t, s, "Fern", 3)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := s.WatchPlant(ctx, p.ID)
	<-ch

	if _, err := s.AddCareEvent(p.ID, KindWatering, 1000); err != nil {
		t.Fatal(err)
	}
	select {
	case snap := <-ch:
		if snap.Err != nil {
			t.Fatal(snap.Err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot after a care event")
	}

	events, err := s.ListCareEvents(p.ID, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].At != 1000 {
		t.Fatalf("newest event missing: %+v", events)
	}
}

func TestStartFileWatchMemoryNoop(t *testing.T) {
	s := newTestStore(t)
	if err := s.StartFileWatch(); err != nil {
		t.Fatal(err)
	}
	if s.watcher != nil {
		t.Fatal("in-memory store should not watch files")
	}
}

func TestFileWatchSeesOtherConnection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plantr.db")
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if err := s.StartFileWatch(); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := s.WatchPlants(ctx)
	recvPlants(t, ch)

	// A second handle simulates another process writing to the file.
	other, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer other.Close()
	insertPlant(t, other, "Cactus", 30)

	deadline := time.After(3 * time.Second)
	for {
		select {
		case snap := <-ch:
			if len(snap.Value) == 1 {
				return
			}
		case <-deadline:
			t.Fatal("file watcher did not report the external write")
		}
	}
}
