package catalog

import (
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sadopc/plantr/internal/care"
	"github.com/sadopc/plantr/internal/store"
)

// Mapper converts catalog records into draft plants.
type Mapper struct {
	Policy care.IntervalPolicy
	Locale language.Tag
	Now    func() time.Time
}

// NewMapper returns a Mapper using the default interval policy.
func NewMapper(locale language.Tag) Mapper {
	return Mapper{
		Policy: care.DefaultPolicy(),
		Locale: locale,
		Now:    time.Now,
	}
}

// Map builds an unsaved plant from r. A freshly catalogued plant counts as
// just cared for, so all three last-action timestamps are set to now.
func (m Mapper) Map(r Record) store.Plant {
	now := m.now().UnixMilli()
	id := r.ID
	p := store.Plant{
		CatalogID:               &id,
		Name:                    TitleFirst(r.CommonName, m.Locale),
		SpeciesFamily:           speciesFamily(r),
		WateringIntervalDays:    m.Policy.WateringDays(r.WateringLabel),
		FertilizingIntervalDays: m.Policy.FertilizingDays(r.FertilizingLabel),
		RepottingIntervalMonths: m.Policy.RepottingMonths(r.RepottingLabel),
		LastWateredAt:           now,
		LastFertilizedAt:        now,
		LastRepottedAt:          now,
		ImageURL:                r.ImageURL,
	}
	return p
}

func (m Mapper) now() time.Time {
	if m.Now == nil {
		return time.Now()
	}
	return m.Now()
}

// Merge folds a catalog match into a draft the user is editing. A non-blank
// name and a non-empty location typed by the user win; every other field
// comes from the match.
func Merge(draft, match store.Plant) store.Plant {
	out := match
	if strings.TrimSpace(draft.Name) != "" {
		out.Name = draft.Name
	}
	if draft.Location != "" {
		out.Location = draft.Location
	}
	return out
}

func speciesFamily(r Record) *string {
	if r.Family != "" {
		f := r.Family
		return &f
	}
	if len(r.ScientificNames) > 0 {
		f := r.ScientificNames[0]
		return &f
	}
	return nil
}

// TitleFirst title-cases the first rune of s and leaves the rest as is.
func TitleFirst(s string, locale language.Tag) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	return cases.Title(locale).String(s[:size]) + s[size:]
}
