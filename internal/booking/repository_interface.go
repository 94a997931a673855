package booking

import (
	"context"
	"time"
)

type Repository interface {
	CreateBooking(ctx context.Context, courtID, playerID int, start, end time.Time) (*Booking, error)
	GetBookingByID(ctx context.Context, id int) (*Booking, error)
	CancelBooking(ctx context.Context, id int) error
	ListConfirmed(ctx context.Context) ([]Booking, error)
	GetPlayerBookings(ctx context.Context, playerID int) ([]BookingWithCourt, error)
	GetCourtBookings(ctx context.Context, courtID int, from, to *time.Time) ([]Booking, error)
}
