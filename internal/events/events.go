package events

import "context"

// BookingChanged is emitted after a reserve or cancel commits. Delivery is
// best effort; the booking itself never depends on it.
type BookingChanged struct {
	BookingID int    `json:"booking_id"`
	CourtID   int    `json:"court_id"`
	Status    string `json:"status"`
}

type Publisher interface {
	PublishBookingChanged(ctx context.Context, evt BookingChanged) error
	Close() error
}

// NopPublisher discards events. Used in tests and when no broker is
// configured.
type NopPublisher struct{}

func (NopPublisher) PublishBookingChanged(ctx context.Context, evt BookingChanged) error { return nil }

func (NopPublisher) Close() error { return nil }
