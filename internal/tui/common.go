package tui

import (
	"fmt"
	"time"

	"github.com/sadopc/plantr/internal/care"
	"github.com/sadopc/plantr/internal/catalog"
	"github.com/sadopc/plantr/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewGarden viewState = iota
	viewAdd
	viewSchedule
	viewSettings
)

var viewNames = []string{"Garden", "Add", "Schedule", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

// plantsSubMsg hands the garden subscription to the app once it exists.
type plantsSubMsg struct {
	ch <-chan store.Snapshot[[]store.Plant]
}

type plantsMsg struct {
	plants []store.Plant
	err    error
}

type plantsClosedMsg struct{}

// plantMsg is a snapshot from a detail subscription. sub identifies the
// subscription so stale ones can be ignored.
type plantMsg struct {
	sub    int
	plant  *store.Plant
	err    error
	closed bool
}

type eventsMsg struct {
	plantID int64
	events  []store.CareEvent
}

type careRecordedMsg struct {
	plant  *store.Plant
	action care.Action
}

type searchDueMsg struct{ seq int }

type searchResultMsg struct {
	seq     int
	records []catalog.Record
	err     error
}

type draftSavedMsg struct {
	plant *store.Plant
	err   error
}

type switchViewMsg struct{ view viewState }

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func lastActionAt(p store.Plant, a care.Action) int64 {
	switch a {
	case care.Fertilizing:
		return p.LastFertilizedAt
	case care.Repotting:
		return p.LastRepottedAt
	}
	return p.LastWateredAt
}

func formatDate(ms int64) string {
	if ms <= 0 {
		return "never"
	}
	return time.UnixMilli(ms).Local().Format("Jan 02, 2006")
}

func formatInterval(n int, unit string) string {
	if n <= 0 {
		return "not set"
	}
	if n == 1 {
		return fmt.Sprintf("every %s", unit)
	}
	return fmt.Sprintf("every %d %ss", n, unit)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
