// Package care derives care status and countdowns from last-action
// timestamps and intervals. Everything here is pure: the current time is
// always passed in.
package care

import "fmt"

const (
	// DayMillis is one day in epoch milliseconds.
	DayMillis int64 = 86_400_000

	// DaysPerMonth approximates a month when converting repotting intervals.
	DaysPerMonth = 30

	// DueSoonDays is how long before the due time a plant turns DueSoon.
	DueSoonDays = 2
)

// Status is the watering tier shown next to each plant in the garden list.
type Status int

const (
	StatusUnknown Status = iota
	StatusOk
	StatusDueSoon
	StatusOverdue
)

var statusNames = map[Status]string{
	StatusUnknown: "unknown",
	StatusOk:      "ok",
	StatusDueSoon: "due soon",
	StatusOverdue: "overdue",
}

func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// DueAt returns the epoch millisecond at which the next action is due.
func DueAt(lastActionAt int64, intervalDays int) int64 {
	return lastActionAt + int64(intervalDays)*DayMillis
}

// RepottingDays converts a repotting interval in months to days.
func RepottingDays(months int) int {
	return months * DaysPerMonth
}

// WateringStatus classifies a plant for the list view. A non-positive
// interval means the schedule is unknown.
func WateringStatus(now, lastWateredAt int64, intervalDays int) Status {
	if intervalDays <= 0 {
		return StatusUnknown
	}
	due := DueAt(lastWateredAt, intervalDays)
	warnAt := due - DueSoonDays*DayMillis
	switch {
	case now >= due:
		return StatusOverdue
	case now >= warnAt:
		return StatusDueSoon
	default:
		return StatusOk
	}
}
