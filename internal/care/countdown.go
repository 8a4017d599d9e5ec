package care

import "fmt"

// Action is one of the three care actions a plant can receive.
type Action int

const (
	Watering Action = iota
	Fertilizing
	Repotting
)

type actionWords struct {
	noun  string // "watering"
	verb  string // "Water"
	past  string // "watered"
	title string // "Watering"
}

var words = map[Action]actionWords{
	Watering:    {noun: "watering", verb: "Water", past: "watered", title: "Watering"},
	Fertilizing: {noun: "fertilizing", verb: "Fertilize", past: "fertilized", title: "Fertilizing"},
	Repotting:   {noun: "repotting", verb: "Repot", past: "repotted", title: "Repotting"},
}

// Actions lists every care action in display order.
var Actions = []Action{Watering, Fertilizing, Repotting}

func (a Action) String() string { return words[a].noun }

// Title is the capitalised noun, e.g. "Watering".
func (a Action) Title() string { return words[a].title }

// Past is the past participle, e.g. "watered".
func (a Action) Past() string { return words[a].past }

// Countdown is the detail-view text for one care action.
type Countdown struct {
	Action        Action
	IntervalDays  int
	DueAt         int64
	RemainingDays int64
	Next          string
	// Last is empty when the action was never recorded.
	Last string
}

// DaysBetween returns whole days from a to b, truncated toward zero.
func DaysBetween(a, b int64) int64 {
	return (b - a) / DayMillis
}

// NewCountdown builds the countdown for action. Repotting callers pass the
// interval already converted with RepottingDays.
func NewCountdown(now int64, action Action, lastActionAt int64, intervalDays int) Countdown {
	due := DueAt(lastActionAt, intervalDays)
	remaining := DaysBetween(now, due)
	c := Countdown{
		Action:        action,
		IntervalDays:  intervalDays,
		DueAt:         due,
		RemainingDays: remaining,
		Next:          NextText(action, remaining),
	}
	if lastActionAt > 0 {
		c.Last = LastText(action, DaysBetween(lastActionAt, now))
	}
	return c
}

// NextText renders the "next action" line for a number of remaining days.
func NextText(action Action, remaining int64) string {
	w := words[action]
	switch {
	case remaining > 1:
		return fmt.Sprintf("Next %s in %d days", w.noun, remaining)
	case remaining == 1:
		return fmt.Sprintf("Next %s tomorrow", w.noun)
	case remaining == 0:
		return fmt.Sprintf("%s today", w.verb)
	default:
		return fmt.Sprintf("%s is overdue by %d days", w.title, -remaining)
	}
}

// LastText renders the "last action" line.
func LastText(action Action, daysAgo int64) string {
	return fmt.Sprintf("Last %s %d days ago", words[action].past, daysAgo)
}
