package booking

import (
	"errors"
	"fmt"
)

var (
	ErrPastStart        = errors.New("booking must start in the future")
	ErrUnknownCourt     = errors.New("court not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrNotOwner         = errors.New("can only cancel own bookings")
	ErrAlreadyCancelled = errors.New("booking already cancelled")
)

// ConflictError rejects a reservation whose interval overlaps confirmed
// bookings. It carries the conflicting entries so callers can explain the
// rejection.
type ConflictError struct {
	CourtID   int
	Conflicts []ConflictDetail
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("time slot already booked on court %d (%d conflict(s))", e.CourtID, len(e.Conflicts))
}
