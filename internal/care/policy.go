package care

import "strings"

// Frequency labels used by the species catalog.
const (
	LabelFrequent = "frequent"
	LabelAverage  = "average"
	LabelMinimum  = "minimum"
	LabelNone     = "none"
)

// Table maps a frequency label to a number of days or months. Fallback is
// returned for any label the table does not know, including "".
type Table struct {
	Frequent int
	Average  int
	Minimum  int
	None     int
	Fallback int
}

// Lookup resolves label case-insensitively. It never fails.
func (t Table) Lookup(label string) int {
	switch strings.ToLower(label) {
	case LabelFrequent:
		return t.Frequent
	case LabelAverage:
		return t.Average
	case LabelMinimum:
		return t.Minimum
	case LabelNone:
		return t.None
	}
	return t.Fallback
}

// IntervalPolicy turns catalog frequency labels into care intervals.
type IntervalPolicy struct {
	Watering    Table // days
	Fertilizing Table // days
	Repotting   Table // months
}

// DefaultPolicy returns the built-in interval tables.
func DefaultPolicy() IntervalPolicy {
	return IntervalPolicy{
		Watering:    Table{Frequent: 3, Average: 7, Minimum: 14, None: 30, Fallback: 7},
		Fertilizing: Table{Frequent: 30, Average: 70, Minimum: 140, None: 300, Fallback: 70},
		Repotting:   Table{Frequent: 3, Average: 7, Minimum: 12, None: 24, Fallback: 7},
	}
}

func (p IntervalPolicy) WateringDays(label string) int    { return p.Watering.Lookup(label) }
func (p IntervalPolicy) FertilizingDays(label string) int { return p.Fertilizing.Lookup(label) }
func (p IntervalPolicy) RepottingMonths(label string) int { return p.Repotting.Lookup(label) }
