package garden

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sadopc/plantr/internal/catalog"
	"github.com/sadopc/plantr/internal/store"
)

// DraftState is everything the add-plant screen shows. It is only ever
// changed through Reduce.
type DraftState struct {
	Plant        store.Plant
	SearchQuery  string
	Searching    bool
	Results      []catalog.Record
	ErrorMessage string
	// Pending is set once a save passed validation and is waiting for the
	// store.
	Pending bool
	Saved   bool
}

// Event is something that happened on the add-plant screen.
type Event interface{ draftEvent() }

type (
	NameChanged        struct{ Name string }
	LocationChanged    struct{ Location string }
	WateringChanged    struct{ Value string }
	FertilizingChanged struct{ Value string }
	RepottingChanged   struct{ Value string }
	SearchQueryChanged struct{ Query string }
	SearchStarted      struct{}
	SearchSucceeded    struct{ Results []catalog.Record }
	SearchFailed       struct{ Err error }
	// SpeciesMatched carries a catalog record already mapped to a plant.
	SpeciesMatched struct{ Plant store.Plant }
	SaveRequested  struct{}
	SaveSucceeded  struct{ Plant store.Plant }
	SaveFailed     struct{ Err error }
	Retry          struct{}
)

func (NameChanged) draftEvent()        {}
func (LocationChanged) draftEvent()    {}
func (WateringChanged) draftEvent()    {}
func (FertilizingChanged) draftEvent() {}
func (RepottingChanged) draftEvent()   {}
func (SearchQueryChanged) draftEvent() {}
func (SearchStarted) draftEvent()      {}
func (SearchSucceeded) draftEvent()    {}
func (SearchFailed) draftEvent()       {}
func (SpeciesMatched) draftEvent()     {}
func (SaveRequested) draftEvent()      {}
func (SaveSucceeded) draftEvent()      {}
func (SaveFailed) draftEvent()         {}
func (Retry) draftEvent()              {}

const (
	msgLookupFailed = "Could not reach the plant catalog."
	msgSaveFailed   = "Could not save the plant."
)

// Reduce returns the state after ev. It never mutates s.
func Reduce(s DraftState, ev Event) DraftState {
	switch e := ev.(type) {
	case NameChanged:
		s.Plant.Name = e.Name
		s.ErrorMessage = ""
	case LocationChanged:
		s.Plant.Location = e.Location
	case WateringChanged:
		s.Plant.WateringIntervalDays = ParseInterval(e.Value)
		s.ErrorMessage = ""
	case FertilizingChanged:
		s.Plant.FertilizingIntervalDays = ParseInterval(e.Value)
	case RepottingChanged:
		s.Plant.RepottingIntervalMonths = ParseInterval(e.Value)
	case SearchQueryChanged:
		s.SearchQuery = e.Query
	case SearchStarted:
		s.Searching = true
		s.ErrorMessage = ""
	case SearchSucceeded:
		s.Searching = false
		s.Results = append([]catalog.Record(nil), e.Results...)
		if len(e.Results) == 0 {
			s.ErrorMessage = fmt.Sprintf("No plant found for %q.", s.SearchQuery)
		}
	case SearchFailed:
		s.Searching = false
		s.Results = nil
		s.ErrorMessage = msgLookupFailed
	case SpeciesMatched:
		s.Plant = catalog.Merge(s.Plant, e.Plant)
		s.SearchQuery = ""
		s.Results = nil
		s.ErrorMessage = ""
	case SaveRequested:
		if s.Pending || s.Saved {
			return s
		}
		if err := Validate(s.Plant); err != nil {
			s.ErrorMessage = err.Error()
			return s
		}
		s.ErrorMessage = ""
		s.Pending = true
	case SaveSucceeded:
		s.Pending = false
		s.Saved = true
		s.Plant = e.Plant
	case SaveFailed:
		s.Pending = false
		var ve *ValidationError
		if errors.As(e.Err, &ve) {
			s.ErrorMessage = ve.Message
		} else {
			s.ErrorMessage = msgSaveFailed
		}
	case Retry:
		s.ErrorMessage = ""
		s.Searching = strings.TrimSpace(s.SearchQuery) != ""
	}
	return s
}

// ParseInterval reads a whole number of days or months from user input.
// Anything that is not a non-negative number counts as 0.
func ParseInterval(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ShouldAutoSearch reports whether query is long enough to search while
// the user is still typing.
func ShouldAutoSearch(query string, minChars int) bool {
	if minChars < 1 {
		minChars = 1
	}
	return utf8.RuneCountInString(strings.TrimSpace(query)) >= minChars
}
