package booking

import "time"

const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

type Booking struct {
	ID        int       `db:"id" json:"id"`
	CourtID   int       `db:"court_id" json:"court_id"`
	PlayerID  int       `db:"player_id" json:"player_id"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type BookingWithCourt struct {
	Booking
	CourtName     string `db:"court_name" json:"court_name"`
	CourtLocation string `db:"court_location" json:"court_location"`
}

type CreateBookingRequest struct {
	CourtID   int    `json:"court_id" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

// ConflictDetail describes one confirmed booking that blocked admission.
type ConflictDetail struct {
	BookingID int       `json:"booking_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type CancelBookingResponse struct {
	Message string   `json:"message" example:"Booking cancelled successfully"`
	Booking *Booking `json:"booking"`
}
