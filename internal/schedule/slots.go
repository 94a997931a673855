package schedule

import (
	"errors"
	"time"
)

// Courts are bookable from 06:00 to 21:00 in half-hour steps.
const (
	OpeningHour = 6
	ClosingHour = 21
	SlotStep    = 30 * time.Minute
)

var ErrInvalidDuration = errors.New("duration must be 30, 60, 90 or 120 minutes")

var validDurations = map[int]bool{30: true, 60: true, 90: true, 120: true}

type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotTaken     SlotStatus = "taken"
)

type Slot struct {
	Start  time.Time  `json:"start"`
	End    time.Time  `json:"end"`
	Status SlotStatus `json:"status"`
}

// ValidDuration reports whether the preset duration is one the platform
// offers.
func ValidDuration(minutes int) bool {
	return validDurations[minutes]
}

// EnumerateDay lists the candidate start times for bookings of the given
// duration on the given day, each marked available or taken against the
// supplied entries. The result is advisory: availability can change between
// preview and reserve, and the ledger re-checks under its lock.
func EnumerateDay(entries []Entry, day time.Time, durationMinutes int) ([]Slot, error) {
	if !ValidDuration(durationMinutes) {
		return nil, ErrInvalidDuration
	}
	duration := time.Duration(durationMinutes) * time.Minute

	opening := time.Date(day.Year(), day.Month(), day.Day(), OpeningHour, 0, 0, 0, day.Location())
	closing := time.Date(day.Year(), day.Month(), day.Day(), ClosingHour, 0, 0, 0, day.Location())

	var slots []Slot
	for start := opening; !start.Add(duration).After(closing); start = start.Add(SlotStep) {
		iv, err := NewInterval(start, start.Add(duration))
		if err != nil {
			return nil, err
		}

		status := SlotAvailable
		for _, e := range entries {
			if e.Interval.Overlaps(iv) {
				status = SlotTaken
				break
			}
		}

		slots = append(slots, Slot{Start: iv.Start(), End: iv.End(), Status: status})
	}

	return slots, nil
}
