package booking

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srihari2761/pickleball-platform/internal/court"
	"github.com/srihari2761/pickleball-platform/internal/events"
	"github.com/srihari2761/pickleball-platform/internal/logger"
	"github.com/srihari2761/pickleball-platform/internal/schedule"
	"github.com/srihari2761/pickleball-platform/internal/user"
)

func TestMain(m *testing.M) {
	logger.Init()
	m.Run()
}

// fakeRepo is an in-memory Repository so ledger tests can exercise real
// concurrency without a database.
type fakeRepo struct {
	mu       sync.Mutex
	nextID   int
	bookings map[int]*Booking
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bookings: make(map[int]*Booking)}
}

func (f *fakeRepo) CreateBooking(ctx context.Context, courtID, playerID int, start, end time.Time) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	b := &Booking{
		ID:        f.nextID,
		CourtID:   courtID,
		PlayerID:  playerID,
		StartTime: start,
		EndTime:   end,
		Status:    StatusConfirmed,
		CreatedAt: time.Now(),
	}
	f.bookings[b.ID] = b

	copied := *b
	return &copied, nil
}

func (f *fakeRepo) GetBookingByID(ctx context.Context, id int) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *b
	return &copied, nil
}

func (f *fakeRepo) CancelBooking(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok || b.Status != StatusConfirmed {
		return ErrBookingNotFoundOrAlreadyCancelled
	}
	b.Status = StatusCancelled
	return nil
}

func (f *fakeRepo) ListConfirmed(ctx context.Context) ([]Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Booking
	for _, b := range f.bookings {
		if b.Status == StatusConfirmed {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetPlayerBookings(ctx context.Context, playerID int) ([]BookingWithCourt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []BookingWithCourt
	for _, b := range f.bookings {
		if b.PlayerID == playerID {
			out = append(out, BookingWithCourt{Booking: *b})
		}
	}
	return out, nil
}

func (f *fakeRepo) GetCourtBookings(ctx context.Context, courtID int, from, to *time.Time) ([]Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Booking
	for _, b := range f.bookings {
		if b.CourtID == courtID {
			out = append(out, *b)
		}
	}
	return out, nil
}

type fakeCatalog struct {
	courts map[int]*court.Court
}

func (f *fakeCatalog) GetCourtByID(ctx context.Context, id int) (*court.Court, error) {
	c, ok := f.courts[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return c, nil
}

type fakePlayers struct{}

func (fakePlayers) FindByID(ctx context.Context, id int) (*user.User, error) {
	return &user.User{ID: id, Name: "Test Player", Email: "player@example.com"}, nil
}

type fakeNotifier struct {
	mu            sync.Mutex
	confirmations int
	cancellations int
}

func (f *fakeNotifier) QueueBookingConfirmation(ctx context.Context, to, name, courtName string, start, end time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmations++
	return nil
}

func (f *fakeNotifier) QueueBookingCancellation(ctx context.Context, to, name, courtName string, start time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancellations++
	return nil
}

const testCourtID = 7

func newTestLedger() (*Ledger, *fakeRepo, *fakeNotifier) {
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	catalog := &fakeCatalog{courts: map[int]*court.Court{
		testCourtID: {ID: testCourtID, Name: "Center Court", Location: "Downtown"},
	}}

	ledger := NewLedger(repo, catalog, fakePlayers{}, notifier, events.NopPublisher{})
	// Pin the clock well before the test intervals.
	ledger.now = func() time.Time {
		return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	}
	return ledger, repo, notifier
}

func ivAt(t *testing.T, startHour, startMin, endHour, endMin int) schedule.Interval {
	t.Helper()
	iv, err := schedule.NewInterval(
		time.Date(2025, 6, 15, startHour, startMin, 0, 0, time.UTC),
		time.Date(2025, 6, 15, endHour, endMin, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return iv
}

func TestLedger_Reserve(t *testing.T) {
	ledger, _, notifier := newTestLedger()
	ctx := context.Background()

	b, err := ledger.Reserve(ctx, testCourtID, 1, ivAt(t, 9, 0, 10, 0))
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, b.Status)
	assert.Equal(t, testCourtID, b.CourtID)
	assert.Equal(t, 1, b.PlayerID)
	assert.Equal(t, 1, notifier.confirmations)
}

func TestLedger_Reserve_PastStart(t *testing.T) {
	ledger, _, _ := newTestLedger()
	ledger.now = func() time.Time {
		return time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	}

	_, err := ledger.Reserve(context.Background(), testCourtID, 1, ivAt(t, 9, 0, 10, 0))
	assert.ErrorIs(t, err, ErrPastStart)
}

func TestLedger_Reserve_UnknownCourt(t *testing.T) {
	ledger, _, _ := newTestLedger()

	_, err := ledger.Reserve(context.Background(), 999, 1, ivAt(t, 9, 0, 10, 0))
	assert.ErrorIs(t, err, ErrUnknownCourt)
}

func TestLedger_Reserve_Conflict(t *testing.T) {
	ledger, _, _ := newTestLedger()
	ctx := context.Background()

	first, err := ledger.Reserve(ctx, testCourtID, 1, ivAt(t, 9, 0, 10, 0))
	require.NoError(t, err)

	_, err = ledger.Reserve(ctx, testCourtID, 2, ivAt(t, 9, 30, 10, 30))
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	require.Len(t, conflict.Conflicts, 1)
	assert.Equal(t, first.ID, conflict.Conflicts[0].BookingID)
	assert.Equal(t, first.StartTime, conflict.Conflicts[0].StartTime)

	// Identical retry fails identically; no success without a cancellation.
	_, err = ledger.Reserve(ctx, testCourtID, 2, ivAt(t, 9, 30, 10, 30))
	require.ErrorAs(t, err, &conflict)
}

func TestLedger_Reserve_BackToBack(t *testing.T) {
	ledger, _, _ := newTestLedger()
	ctx := context.Background()

	_, err := ledger.Reserve(ctx, testCourtID, 1, ivAt(t, 11, 0, 12, 0))
	require.NoError(t, err)

	// [10:00, 11:00) touches but does not overlap [11:00, 12:00).
	_, err = ledger.Reserve(ctx, testCourtID, 2, ivAt(t, 10, 0, 11, 0))
	assert.NoError(t, err)
}

func TestLedger_Cancel(t *testing.T) {
	ledger, _, notifier := newTestLedger()
	ctx := context.Background()

	b, err := ledger.Reserve(ctx, testCourtID, 1, ivAt(t, 9, 0, 10, 0))
	require.NoError(t, err)

	t.Run("not found", func(t *testing.T) {
		_, err := ledger.Cancel(ctx, 999, 1)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("not owner", func(t *testing.T) {
		_, err := ledger.Cancel(ctx, b.ID, 2)
		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("success frees the interval", func(t *testing.T) {
		cancelled, err := ledger.Cancel(ctx, b.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, cancelled.Status)
		assert.Equal(t, 1, notifier.cancellations)

		_, err = ledger.Reserve(ctx, testCourtID, 2, ivAt(t, 9, 0, 10, 0))
		assert.NoError(t, err, "cancelled interval must be bookable again")
	})

	t.Run("double cancel", func(t *testing.T) {
		_, err := ledger.Cancel(ctx, b.ID, 1)
		assert.ErrorIs(t, err, ErrAlreadyCancelled)
	})
}

func TestLedger_Scenario(t *testing.T) {
	ledger, _, _ := newTestLedger()
	ctx := context.Background()

	// Court has a confirmed booking [09:00, 10:00).
	first, err := ledger.Reserve(ctx, testCourtID, 1, ivAt(t, 9, 0, 10, 0))
	require.NoError(t, err)

	// Overlapping attempt is rejected citing that booking.
	_, err = ledger.Reserve(ctx, testCourtID, 2, ivAt(t, 9, 30, 10, 30))
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	require.Len(t, conflict.Conflicts, 1)
	assert.Equal(t, first.ID, conflict.Conflicts[0].BookingID)

	// A back-to-back attempt succeeds.
	_, err = ledger.Reserve(ctx, testCourtID, 2, ivAt(t, 10, 0, 10, 30))
	require.NoError(t, err)

	// Cancelling the first booking frees its interval.
	_, err = ledger.Cancel(ctx, first.ID, 1)
	require.NoError(t, err)

	_, err = ledger.Reserve(ctx, testCourtID, 3, ivAt(t, 9, 0, 9, 45))
	assert.NoError(t, err)
}

func TestLedger_Rebuild(t *testing.T) {
	ledger, repo, _ := newTestLedger()
	ctx := context.Background()

	b, err := ledger.Reserve(ctx, testCourtID, 1, ivAt(t, 9, 0, 10, 0))
	require.NoError(t, err)

	// A fresh ledger over the same store must reload the confirmed interval.
	rebuilt := NewLedger(repo, &fakeCatalog{courts: map[int]*court.Court{
		testCourtID: {ID: testCourtID, Name: "Center Court"},
	}}, fakePlayers{}, &fakeNotifier{}, events.NopPublisher{})
	rebuilt.now = ledger.now
	require.NoError(t, rebuilt.Rebuild(ctx))

	_, err = rebuilt.Reserve(ctx, testCourtID, 2, ivAt(t, 9, 30, 10, 30))
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, b.ID, conflict.Conflicts[0].BookingID)
}

func TestLedger_ConcurrentReserves(t *testing.T) {
	ledger, repo, _ := newTestLedger()
	ctx := context.Background()

	const n = 16
	var wg sync.WaitGroup
	results := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(playerID int) {
			defer wg.Done()
			_, err := ledger.Reserve(ctx, testCourtID, playerID, ivAt(t, 9, 0, 10, 0))
			results <- err
		}(i + 1)
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)
		conflicts++
	}

	assert.Equal(t, 1, successes, "exactly one concurrent reserve may win")
	assert.Equal(t, n-1, conflicts)

	confirmed, err := repo.ListConfirmed(ctx)
	require.NoError(t, err)
	assert.Len(t, confirmed, 1)
}

func TestLedger_ConcurrentMixedIntervals_InvariantHolds(t *testing.T) {
	ledger, repo, _ := newTestLedger()
	ctx := context.Background()

	// Overlapping and non-overlapping intervals racing on one court.
	starts := []int{9, 9, 10, 10, 11, 12, 12, 13}
	var wg sync.WaitGroup
	for i, h := range starts {
		wg.Add(1)
		go func(playerID, hour int) {
			defer wg.Done()
			_, _ = ledger.Reserve(ctx, testCourtID, playerID, ivAt(t, hour, 0, hour+1, 30))
		}(i+1, h)
	}
	wg.Wait()

	confirmed, err := repo.ListConfirmed(ctx)
	require.NoError(t, err)

	for i := range confirmed {
		for j := i + 1; j < len(confirmed); j++ {
			a, b := confirmed[i], confirmed[j]
			overlap := a.StartTime.Before(b.EndTime) && b.StartTime.Before(a.EndTime)
			assert.False(t, overlap, "confirmed bookings %d and %d overlap", a.ID, b.ID)
		}
	}
}

func TestLedger_PreviewDay(t *testing.T) {
	ledger, _, _ := newTestLedger()
	ctx := context.Background()
	day := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	_, err := ledger.Reserve(ctx, testCourtID, 1, ivAt(t, 9, 0, 10, 0))
	require.NoError(t, err)

	slots, err := ledger.PreviewDay(ctx, testCourtID, day, 60)
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	var taken int
	for _, s := range slots {
		if s.Status == schedule.SlotTaken {
			taken++
		}
	}
	// 08:30, 09:00 and 09:30 starts all collide with [09:00, 10:00).
	assert.Equal(t, 3, taken)

	_, err = ledger.PreviewDay(ctx, 999, day, 60)
	assert.ErrorIs(t, err, ErrUnknownCourt)

	_, err = ledger.PreviewDay(ctx, testCourtID, day, 45)
	assert.ErrorIs(t, err, schedule.ErrInvalidDuration)
}
