package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/language"

	"github.com/sadopc/plantr/internal/catalog"
	"github.com/sadopc/plantr/internal/garden"
	"github.com/sadopc/plantr/internal/store"
)

var fixedNow = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

type stubCatalog struct {
	records []catalog.Record
	err     error
}

func (s stubCatalog) Search(context.Context, string) ([]catalog.Record, error) {
	return s.records, s.err
}

func setupHandler(t *testing.T, cat catalog.Service) (http.Handler, *store.Store) {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("NewMemory failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	m := catalog.NewMapper(language.English)
	m.Now = func() time.Time { return fixedNow }
	svc := garden.NewService(s, cat, m)
	svc.SetClock(func() time.Time { return fixedNow })

	return NewHandler(Deps{Garden: svc, Now: func() time.Time { return fixedNow }}), s
}

func do(h http.Handler, method, url, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, url, reader)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func errorType(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error.Type
}

func TestHealth(t *testing.T) {
	h, _ := setupHandler(t, stubCatalog{})
	w := do(h, "GET", "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestCreateAndGetPlant(t *testing.T) {
	h, _ := setupHandler(t, stubCatalog{})

	w := do(h, "POST", "/plants", `{"name":"Fern","location":"Kitchen","watering_interval_days":7}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created plantResponse
	json.NewDecoder(w.Body).Decode(&created)
	if created.ID == 0 || created.Name != "Fern" {
		t.Fatalf("unexpected plant %+v", created)
	}
	// Never watered: due at the epoch, so overdue.
	if created.Status != "overdue" {
		t.Errorf("status = %q, want overdue", created.Status)
	}
	if len(created.Countdowns) != 3 {
		t.Fatalf("expected 3 countdowns, got %d", len(created.Countdowns))
	}

	w = do(h, "GET", fmt.Sprintf("/plants/%d", created.ID), "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestCreatePlantValidation(t *testing.T) {
	h, s := setupHandler(t, stubCatalog{})

	tests := []string{
		`{"name":"","watering_interval_days":7}`,
		`{"name":"Fern","watering_interval_days":0}`,
		`{"name":"Fern","watering_interval_days":7,"fertilizing_interval_days":-3}`,
		`{"name":"Fern","watering_interval_days":7,"repotting_interval_months":-1}`,
		`not json`,
	}
	for _, body := range tests {
		w := do(h, "POST", "/plants", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", body, w.Code)
			continue
		}
		if typ := errorType(t, w); typ != "invalid_request_error" {
			t.Errorf("%s: error type %q", body, typ)
		}
	}
	if plants, _ := s.ListPlants(); len(plants) != 0 {
		t.Fatalf("no plant should be stored, got %d", len(plants))
	}
}

func TestCreatePlantFromCatalog(t *testing.T) {
	cat := stubCatalog{records: []catalog.Record{{
		ID: 7, CommonName: "snake plant", Family: "Asparagaceae",
		WateringLabel: "Minimum", FertilizingLabel: "Minimum", RepottingLabel: "Minimum",
	}}}
	h, _ := setupHandler(t, cat)

	w := do(h, "POST", "/plants", `{"catalog_query":"snake","location":"Office"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var p plantResponse
	json.NewDecoder(w.Body).Decode(&p)
	if p.Name != "Snake plant" || p.Location != "Office" || p.WateringIntervalDays != 14 {
		t.Fatalf("unexpected plant %+v", p)
	}
	if p.Status != "ok" {
		t.Errorf("freshly catalogued plant should be ok, got %q", p.Status)
	}
}

func TestCreatePlantCatalogErrors(t *testing.T) {
	h, _ := setupHandler(t, stubCatalog{err: errors.New("down")})
	w := do(h, "POST", "/plants", `{"catalog_query":"snake"}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}

	h, _ = setupHandler(t, stubCatalog{})
	w = do(h, "POST", "/plants", `{"catalog_query":"snake"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestListPlants(t *testing.T) {
	h, s := setupHandler(t, stubCatalog{})

	w := do(h, "GET", "/plants", "")
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %s", w.Body.String())
	}

	s.InsertPlant(store.Plant{Name: "b", WateringIntervalDays: 3})
	s.InsertPlant(store.Plant{Name: "a", WateringIntervalDays: 3})
	w = do(h, "GET", "/plants", "")
	var plants []plantResponse
	json.NewDecoder(w.Body).Decode(&plants)
	if len(plants) != 2 || plants[0].Name != "a" {
		t.Fatalf("unexpected list %+v", plants)
	}
}

func TestRecordCare(t *testing.T) {
	h, s := setupHandler(t, stubCatalog{})
	p, _ := s.InsertPlant(store.Plant{Name: "Fern", WateringIntervalDays: 7, FertilizingIntervalDays: 30})

	w := do(h, "POST", fmt.Sprintf("/plants/%d/water", p.ID), "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var got plantResponse
	json.NewDecoder(w.Body).Decode(&got)
	if got.LastWateredAt != fixedNow.UnixMilli() || got.Status != "ok" {
		t.Fatalf("watering not recorded: %+v", got)
	}
	if got.Countdowns[0].Next != "Next watering in 7 days" {
		t.Errorf("unexpected countdown %q", got.Countdowns[0].Next)
	}

	w = do(h, "POST", fmt.Sprintf("/plants/%d/prune", p.ID), "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown action: expected 404, got %d", w.Code)
	}

	w = do(h, "POST", "/plants/999/repot", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing plant: expected 404, got %d", w.Code)
	}
}

func TestDeletePlant(t *testing.T) {
	h, s := setupHandler(t, stubCatalog{})
	p, _ := s.InsertPlant(store.Plant{Name: "Fern", WateringIntervalDays: 7})

	if w := do(h, "DELETE", fmt.Sprintf("/plants/%d", p.ID), ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	w := do(h, "DELETE", fmt.Sprintf("/plants/%d", p.ID), "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if typ := errorType(t, w); typ != "not_found" {
		t.Fatalf("error type %q", typ)
	}
}

func TestBadID(t *testing.T) {
	h, _ := setupHandler(t, stubCatalog{})
	for _, path := range []string{"/plants/abc", "/plants/-1", "/plants/0"} {
		if w := do(h, "GET", path, ""); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, w.Code)
		}
	}
}

func TestCatalogSearch(t *testing.T) {
	cat := stubCatalog{records: []catalog.Record{{ID: 1, CommonName: "fern", WateringLabel: "Frequent"}}}
	h, _ := setupHandler(t, cat)

	w := do(h, "GET", "/catalog/search?q=fern", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var out []recordResponse
	json.NewDecoder(w.Body).Decode(&out)
	if len(out) != 1 || out[0].CommonName != "fern" || out[0].Watering != "Frequent" {
		t.Fatalf("unexpected results %+v", out)
	}

	if w := do(h, "GET", "/catalog/search", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("missing q: expected 400, got %d", w.Code)
	}

	h, _ = setupHandler(t, stubCatalog{err: errors.New("timeout")})
	w = do(h, "GET", "/catalog/search?q=fern", "")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	if typ := errorType(t, w); typ != "lookup_error" {
		t.Fatalf("error type %q", typ)
	}
}
