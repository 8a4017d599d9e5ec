// Package api serves the garden over a small JSON HTTP interface.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sadopc/plantr/internal/care"
	"github.com/sadopc/plantr/internal/catalog"
	"github.com/sadopc/plantr/internal/garden"
	"github.com/sadopc/plantr/internal/store"
)

const maxBodySize = 1 << 20 // 1MB

type Deps struct {
	Garden *garden.Service
	Now    func() time.Time // optional; defaults to time.Now
}

type CreatePlantRequest struct {
	Name                    string `json:"name"`
	Location                string `json:"location"`
	WateringIntervalDays    int    `json:"watering_interval_days"`
	FertilizingIntervalDays int    `json:"fertilizing_interval_days"`
	RepottingIntervalMonths int    `json:"repotting_interval_months"`
	// CatalogQuery, when set, fills the plant from the best catalog match.
	// Name and Location from the request still win.
	CatalogQuery string `json:"catalog_query"`
}

type countdownResponse struct {
	Action        string `json:"action"`
	IntervalDays  int    `json:"interval_days"`
	DueAt         int64  `json:"due_at,omitempty"`
	RemainingDays int64  `json:"remaining_days"`
	Next          string `json:"next"`
	Last          string `json:"last,omitempty"`
}

type plantResponse struct {
	ID                      int64               `json:"id"`
	CatalogID               *int64              `json:"catalog_id,omitempty"`
	Name                    string              `json:"name"`
	SpeciesFamily           string              `json:"species_family,omitempty"`
	Location                string              `json:"location"`
	WateringIntervalDays    int                 `json:"watering_interval_days"`
	FertilizingIntervalDays int                 `json:"fertilizing_interval_days"`
	RepottingIntervalMonths int                 `json:"repotting_interval_months"`
	LastWateredAt           int64               `json:"last_watered_at"`
	LastFertilizedAt        int64               `json:"last_fertilized_at"`
	LastRepottedAt          int64               `json:"last_repotted_at"`
	ImageURL                string              `json:"image_url,omitempty"`
	Status                  string              `json:"status"`
	Countdowns              []countdownResponse `json:"countdowns"`
}

type recordResponse struct {
	ID              int64    `json:"id"`
	CommonName      string   `json:"common_name"`
	Family          string   `json:"family,omitempty"`
	ScientificNames []string `json:"scientific_names"`
	Watering        string   `json:"watering"`
	Fertilizing     string   `json:"fertilizing"`
	Repotting       string   `json:"repotting"`
	ImageURL        string   `json:"image_url,omitempty"`
}

func NewHandler(deps Deps) http.Handler {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	r := chi.NewRouter()

	r.Get("/health", handleHealth)
	r.Get("/plants", handleListPlants(deps))
	r.Post("/plants", handleCreatePlant(deps))
	r.Get("/plants/{id}", handleGetPlant(deps))
	r.Delete("/plants/{id}", handleDeletePlant(deps))
	r.Post("/plants/{id}/{action}", handleRecordCare(deps))
	r.Get("/catalog/search", handleCatalogSearch(deps))

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleListPlants(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		plants, err := deps.Garden.List()
		if err != nil {
			writeError(w, err)
			return
		}
		now := deps.Now()
		out := make([]plantResponse, 0, len(plants))
		for _, p := range plants {
			out = append(out, toPlantResponse(now, p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleGetPlant(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := plantID(w, r)
		if !ok {
			return
		}
		p, err := deps.Garden.Get(id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPlantResponse(deps.Now(), *p))
	}
}

func handleCreatePlant(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
		defer r.Body.Close()

		var req CreatePlantRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		draft := store.Plant{
			Name:                    req.Name,
			Location:                req.Location,
			WateringIntervalDays:    req.WateringIntervalDays,
			FertilizingIntervalDays: req.FertilizingIntervalDays,
			RepottingIntervalMonths: req.RepottingIntervalMonths,
		}
		if q := strings.TrimSpace(req.CatalogQuery); q != "" {
			match, err := deps.Garden.Lookup(r.Context(), q)
			if err != nil {
				writeError(w, err)
				return
			}
			if match == nil {
				httpError(w, http.StatusNotFound, "not_found", "no catalog match for %q", q)
				return
			}
			draft = catalog.Merge(draft, *match)
		}

		saved, err := deps.Garden.Create(draft)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toPlantResponse(deps.Now(), *saved))
	}
}

func handleDeletePlant(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := plantID(w, r)
		if !ok {
			return
		}
		if err := deps.Garden.Delete(id); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

func handleRecordCare(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := plantID(w, r)
		if !ok {
			return
		}
		action, ok := garden.ParseAction(chi.URLParam(r, "action"))
		if !ok {
			httpError(w, http.StatusNotFound, "not_found", "unknown care action %q", chi.URLParam(r, "action"))
			return
		}
		p, err := deps.Garden.Record(id, action)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPlantResponse(deps.Now(), *p))
	}
}

func handleCatalogSearch(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := strings.TrimSpace(r.URL.Query().Get("q"))
		if q == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "query parameter q is required")
			return
		}
		records, err := deps.Garden.Search(r.Context(), q)
		if err != nil {
			writeError(w, err)
			return
		}
		out := make([]recordResponse, 0, len(records))
		for _, rec := range records {
			out = append(out, recordResponse{
				ID:              rec.ID,
				CommonName:      rec.CommonName,
				Family:          rec.Family,
				ScientificNames: append([]string{}, rec.ScientificNames...),
				Watering:        rec.WateringLabel,
				Fertilizing:     rec.FertilizingLabel,
				Repotting:       rec.RepottingLabel,
				ImageURL:        rec.ImageURL,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func toPlantResponse(now time.Time, p store.Plant) plantResponse {
	out := plantResponse{
		ID:                      p.ID,
		CatalogID:               p.CatalogID,
		Name:                    p.Name,
		SpeciesFamily:           p.Family(),
		Location:                p.Location,
		WateringIntervalDays:    p.WateringIntervalDays,
		FertilizingIntervalDays: p.FertilizingIntervalDays,
		RepottingIntervalMonths: p.RepottingIntervalMonths,
		LastWateredAt:           p.LastWateredAt,
		LastFertilizedAt:        p.LastFertilizedAt,
		LastRepottedAt:          p.LastRepottedAt,
		ImageURL:                p.ImageURL,
		Status:                  garden.StatusOf(now, p).String(),
	}
	for _, cd := range garden.Countdowns(now, p) {
		out.Countdowns = append(out.Countdowns, countdownResponse{
			Action:        cd.Action.String(),
			IntervalDays:  cd.IntervalDays,
			DueAt:         dueAt(cd),
			RemainingDays: cd.RemainingDays,
			Next:          cd.Next,
			Last:          cd.Last,
		})
	}
	return out
}

func dueAt(cd care.Countdown) int64 {
	if cd.IntervalDays <= 0 {
		return 0
	}
	return cd.DueAt
}

func plantID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid plant id %q", raw)
		return 0, false
	}
	return id, true
}

// writeError maps garden errors onto status codes.
func writeError(w http.ResponseWriter, err error) {
	var ve *garden.ValidationError
	var le *garden.LookupError
	switch {
	case errors.As(err, &ve):
		httpError(w, http.StatusBadRequest, "invalid_request_error", "%s", ve.Message)
	case errors.Is(err, store.ErrNotFound):
		httpError(w, http.StatusNotFound, "not_found", "plant not found")
	case errors.As(err, &le):
		httpError(w, http.StatusBadGateway, "lookup_error", "catalog lookup failed: %v", le.Err)
	default:
		httpError(w, http.StatusInternalServerError, "api_error", "%v", err)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
