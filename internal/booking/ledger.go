package booking

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/srihari2761/pickleball-platform/internal/court"
	"github.com/srihari2761/pickleball-platform/internal/events"
	"github.com/srihari2761/pickleball-platform/internal/logger"
	"github.com/srihari2761/pickleball-platform/internal/metrics"
	"github.com/srihari2761/pickleball-platform/internal/schedule"
	"github.com/srihari2761/pickleball-platform/internal/user"
)

// CourtCatalog is the slice of the court service the ledger needs: existence
// checks and names for notifications.
type CourtCatalog interface {
	GetCourtByID(ctx context.Context, id int) (*court.Court, error)
}

// PlayerDirectory resolves player contact details for notifications.
type PlayerDirectory interface {
	FindByID(ctx context.Context, id int) (*user.User, error)
}

// Notifier queues outbound booking emails. Failures are logged, never
// surfaced to the booking caller.
type Notifier interface {
	QueueBookingConfirmation(ctx context.Context, to, name, courtName string, start, end time.Time) error
	QueueBookingCancellation(ctx context.Context, to, name, courtName string, start time.Time) error
}

// Ledger is the sole authority for creating and cancelling bookings. It owns
// one conflict index per court and serializes reserve/cancel per court while
// letting different courts proceed in parallel. The check-and-insert pair
// runs under the court lock, so two admitted bookings on the same court can
// never overlap.
type Ledger struct {
	repo      Repository
	catalog   CourtCatalog
	players   PlayerDirectory
	notifier  Notifier
	publisher events.Publisher
	now       func() time.Time

	mu     sync.Mutex
	courts map[int]*courtState
}

type courtState struct {
	mu    sync.Mutex
	index *schedule.ConflictIndex
}

func NewLedger(repo Repository, catalog CourtCatalog, players PlayerDirectory, notifier Notifier, publisher events.Publisher) *Ledger {
	return &Ledger{
		repo:      repo,
		catalog:   catalog,
		players:   players,
		notifier:  notifier,
		publisher: publisher,
		now:       time.Now,
		courts:    make(map[int]*courtState),
	}
}

func (l *Ledger) state(courtID int) *courtState {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, ok := l.courts[courtID]
	if !ok {
		st = &courtState{index: schedule.NewConflictIndex()}
		l.courts[courtID] = st
	}
	return st
}

// Rebuild loads every confirmed booking from the store and reconstructs the
// per-court conflict indexes. Called once at startup, before the server
// accepts traffic.
func (l *Ledger) Rebuild(ctx context.Context) error {
	bookings, err := l.repo.ListConfirmed(ctx)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.courts = make(map[int]*courtState)
	for _, b := range bookings {
		iv, err := schedule.NewInterval(b.StartTime, b.EndTime)
		if err != nil {
			logger.Errorf("Skipping malformed stored booking %d: %v", b.ID, err)
			continue
		}

		st, ok := l.courts[b.CourtID]
		if !ok {
			st = &courtState{index: schedule.NewConflictIndex()}
			l.courts[b.CourtID] = st
		}
		st.index.Insert(schedule.Entry{BookingID: b.ID, Interval: iv})
	}

	for courtID, st := range l.courts {
		metrics.ConfirmedIntervals.WithLabelValues(strconv.Itoa(courtID)).Set(float64(st.index.Len()))
	}

	logger.Infof("Conflict indexes rebuilt: %d confirmed bookings across %d courts", len(bookings), len(l.courts))
	return nil
}

// Reserve admits or rejects a booking for the given interval. On admission
// the booking is persisted, the index updated, and a booking-changed event
// emitted after the atomic section commits.
func (l *Ledger) Reserve(ctx context.Context, courtID, playerID int, iv schedule.Interval) (*Booking, error) {
	if iv.Start().Before(l.now()) {
		return nil, ErrPastStart
	}

	crt, err := l.catalog.GetCourtByID(ctx, courtID)
	if err != nil {
		return nil, ErrUnknownCourt
	}

	st := l.state(courtID)
	booking, err := func() (*Booking, error) {
		st.mu.Lock()
		defer st.mu.Unlock()

		decision := schedule.Check(st.index, iv)
		if !decision.Admitted {
			conflicts := make([]ConflictDetail, 0, len(decision.Conflicts))
			for _, e := range decision.Conflicts {
				conflicts = append(conflicts, ConflictDetail{
					BookingID: e.BookingID,
					StartTime: e.Interval.Start(),
					EndTime:   e.Interval.End(),
				})
			}
			return nil, &ConflictError{CourtID: courtID, Conflicts: conflicts}
		}

		b, err := l.repo.CreateBooking(ctx, courtID, playerID, iv.Start(), iv.End())
		if err != nil {
			return nil, err
		}

		st.index.Insert(schedule.Entry{BookingID: b.ID, Interval: iv})
		metrics.ConfirmedIntervals.WithLabelValues(strconv.Itoa(courtID)).Set(float64(st.index.Len()))
		return b, nil
	}()
	if err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			metrics.RecordReservation("conflict")
			metrics.RecordSlotConflict()
		} else {
			metrics.RecordReservation("error")
		}
		return nil, err
	}

	metrics.RecordReservation("confirmed")
	l.publish(ctx, events.BookingChanged{BookingID: booking.ID, CourtID: courtID, Status: StatusConfirmed})
	l.notifyConfirmation(ctx, booking, crt.Name)

	return booking, nil
}

// Cancel transitions a confirmed booking to cancelled and frees its interval.
// Only the original requester may cancel; a second cancel fails with
// ErrAlreadyCancelled so callers can tell "nothing happened" from "I just
// freed this slot".
func (l *Ledger) Cancel(ctx context.Context, bookingID, playerID int) (*Booking, error) {
	b, err := l.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, ErrBookingNotFound
	}

	if b.PlayerID != playerID {
		return nil, ErrNotOwner
	}

	st := l.state(b.CourtID)
	err = func() error {
		st.mu.Lock()
		defer st.mu.Unlock()

		if b.Status == StatusCancelled {
			return ErrAlreadyCancelled
		}

		if err := l.repo.CancelBooking(ctx, b.ID); err != nil {
			if errors.Is(err, ErrBookingNotFoundOrAlreadyCancelled) {
				return ErrAlreadyCancelled
			}
			return err
		}

		st.index.Remove(b.ID)
		metrics.ConfirmedIntervals.WithLabelValues(strconv.Itoa(b.CourtID)).Set(float64(st.index.Len()))
		return nil
	}()
	if err != nil {
		return nil, err
	}

	b.Status = StatusCancelled
	metrics.RecordCancellation()
	l.publish(ctx, events.BookingChanged{BookingID: b.ID, CourtID: b.CourtID, Status: StatusCancelled})
	l.notifyCancellation(ctx, b)

	return b, nil
}

// PreviewDay enumerates the bookable start times for a court on a given day.
// The snapshot is taken under the court lock, so readers never observe a
// half-applied mutation, but the result is advisory: Reserve re-checks.
func (l *Ledger) PreviewDay(ctx context.Context, courtID int, day time.Time, durationMinutes int) ([]schedule.Slot, error) {
	if _, err := l.catalog.GetCourtByID(ctx, courtID); err != nil {
		return nil, ErrUnknownCourt
	}

	st := l.state(courtID)
	st.mu.Lock()
	entries := st.index.Entries()
	st.mu.Unlock()

	slots, err := schedule.EnumerateDay(entries, day, durationMinutes)
	if err != nil {
		return nil, err
	}

	metrics.RecordAvailabilityPreview()
	return slots, nil
}

func (l *Ledger) PlayerBookings(ctx context.Context, playerID int) ([]BookingWithCourt, error) {
	return l.repo.GetPlayerBookings(ctx, playerID)
}

func (l *Ledger) CourtBookings(ctx context.Context, courtID int, from, to *time.Time) ([]Booking, error) {
	if _, err := l.catalog.GetCourtByID(ctx, courtID); err != nil {
		return nil, ErrUnknownCourt
	}
	return l.repo.GetCourtBookings(ctx, courtID, from, to)
}

func (l *Ledger) publish(ctx context.Context, evt events.BookingChanged) {
	if err := l.publisher.PublishBookingChanged(ctx, evt); err != nil {
		metrics.RecordEventPublished("error")
		logger.Errorf("Failed to publish booking event for booking %d: %v", evt.BookingID, err)
		return
	}
	metrics.RecordEventPublished("ok")
}

func (l *Ledger) notifyConfirmation(ctx context.Context, b *Booking, courtName string) {
	player, err := l.players.FindByID(ctx, b.PlayerID)
	if err != nil || player == nil {
		return
	}
	if err := l.notifier.QueueBookingConfirmation(ctx, player.Email, player.Name, courtName, b.StartTime, b.EndTime); err != nil {
		logger.Errorf("Failed to queue confirmation for booking %d: %v", b.ID, err)
	}
}

func (l *Ledger) notifyCancellation(ctx context.Context, b *Booking) {
	player, err := l.players.FindByID(ctx, b.PlayerID)
	if err != nil || player == nil {
		return
	}

	courtName := "your court"
	if crt, err := l.catalog.GetCourtByID(ctx, b.CourtID); err == nil {
		courtName = crt.Name
	}

	if err := l.notifier.QueueBookingCancellation(ctx, player.Email, player.Name, courtName, b.StartTime); err != nil {
		logger.Errorf("Failed to queue cancellation notice for booking %d: %v", b.ID, err)
	}
}
