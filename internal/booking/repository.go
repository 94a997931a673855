package booking

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrBookingNotFoundOrAlreadyCancelled = errors.New("booking not found or already cancelled")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBooking(ctx context.Context, courtID, playerID int, start, end time.Time) (*Booking, error) {
	query := `
		INSERT INTO bookings (court_id, player_id, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, 'confirmed')
		RETURNING id, court_id, player_id, start_time, end_time, status, created_at
	`

	var booking Booking
	err := r.db.GetContext(ctx, &booking, query, courtID, playerID, start, end)
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

func (r *repository) GetBookingByID(ctx context.Context, id int) (*Booking, error) {
	query := `
		SELECT id, court_id, player_id, start_time, end_time, status, created_at
		FROM bookings
		WHERE id = $1
	`

	var booking Booking
	err := r.db.GetContext(ctx, &booking, query, id)
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

func (r *repository) CancelBooking(ctx context.Context, id int) error {
	query := `
		UPDATE bookings
		SET status = 'cancelled'
		WHERE id = $1 AND status = 'confirmed'
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrBookingNotFoundOrAlreadyCancelled
	}

	return nil
}

// ListConfirmed returns every confirmed booking, ordered per court by start
// time. Used to rebuild the in-memory conflict indexes on startup.
func (r *repository) ListConfirmed(ctx context.Context) ([]Booking, error) {
	query := `
		SELECT id, court_id, player_id, start_time, end_time, status, created_at
		FROM bookings
		WHERE status = 'confirmed'
		ORDER BY court_id, start_time
	`

	var bookings []Booking
	err := r.db.SelectContext(ctx, &bookings, query)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *repository) GetPlayerBookings(ctx context.Context, playerID int) ([]BookingWithCourt, error) {
	query := `
		SELECT
			b.id,
			b.court_id,
			b.player_id,
			b.start_time,
			b.end_time,
			b.status,
			b.created_at,
			c.name AS court_name,
			c.location AS court_location
		FROM bookings b
		JOIN courts c ON b.court_id = c.id
		WHERE b.player_id = $1
		ORDER BY b.created_at DESC
	`

	var bookings []BookingWithCourt
	err := r.db.SelectContext(ctx, &bookings, query, playerID)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *repository) GetCourtBookings(ctx context.Context, courtID int, from, to *time.Time) ([]Booking, error) {
	query := `
		SELECT id, court_id, player_id, start_time, end_time, status, created_at
		FROM bookings
		WHERE court_id = $1
	`
	args := []interface{}{courtID}

	if from != nil {
		args = append(args, *from)
		query += ` AND start_time >= $2`
	}
	if to != nil {
		args = append(args, *to)
		if from != nil {
			query += ` AND end_time <= $3`
		} else {
			query += ` AND end_time <= $2`
		}
	}
	query += ` ORDER BY start_time`

	var bookings []Booking
	err := r.db.SelectContext(ctx, &bookings, query, args...)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}
