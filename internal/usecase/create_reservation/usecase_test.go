package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	"github.com/m04kA/SMC-TableBooking/internal/infra/lock"
	"github.com/m04kA/SMC-TableBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-TableBooking/internal/service/floorplan"
	"github.com/m04kA/SMC-TableBooking/internal/service/guard"
	"github.com/m04kA/SMC-TableBooking/internal/service/settings"
	"github.com/m04kA/SMC-TableBooking/pkg/logger"
	"github.com/m04kA/SMC-TableBooking/pkg/metrics"
	"github.com/m04kA/SMC-TableBooking/pkg/types"
)

var (
	testDate = time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	testNow  = time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
)

// MockTimeProvider фиксированное время
type MockTimeProvider struct {
	now time.Time
}

func (m *MockTimeProvider) Now() time.Time {
	return m.now
}

// MockRecorder запоминает исходы бронирований
type MockRecorder struct {
	mu       sync.Mutex
	outcomes []string
	retries  int
}

func (m *MockRecorder) ObserveBooking(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
}

func (m *MockRecorder) ObserveConflictRetry() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.retries++
}

func (m *MockRecorder) ObserveSearch(string, time.Duration) {}

// MockGuard возвращает заданную ошибку, не вызывая fn
type MockGuard struct {
	err error
}

func (m *MockGuard) Run(ctx context.Context, date time.Time, fn func(ctx context.Context) error) error {
	return m.err
}

type fixture struct {
	store    *memory.Store
	recorder *MockRecorder
	uc       *UseCase
}

func newStore(capacities ...int) *memory.Store {
	s := memory.NewStore()
	s.PutRoom(domain.Room{ID: 1, Name: "Main", Active: true, AreaType: domain.AreaIndoor, Priority: 1})
	for i, c := range capacities {
		s.PutTable(domain.Table{
			ID:         int64(i + 1),
			RoomID:     1,
			Name:       fmt.Sprintf("T%d", i+1),
			Capacity:   c,
			Combinable: true,
			Active:     true,
		})
	}
	for day := time.Sunday; day <= time.Saturday; day++ {
		s.SetWeekday(day, domain.DaySchedule{IsOpen: true, OpenTime: "10:00", CloseTime: "22:00"})
	}
	return s
}

func newFixture(store *memory.Store, repo ReservationRepository) *fixture {
	log := logger.NewNop()
	recorder := &MockRecorder{}
	g := guard.New(lock.NewLocal(5*time.Second), store, metrics.Nop{})
	settingsService := settings.NewService(store, domain.DefaultBookingSettings(), log)

	uc := NewUseCase(repo, floorplan.NewService(store), store, settingsService, g, recorder, time.UTC, log).
		WithTimeProvider(&MockTimeProvider{now: testNow})

	return &fixture{store: store, recorder: recorder, uc: uc}
}

func newRequest(start string, party int) *Request {
	return &Request{
		Date:      testDate,
		StartTime: types.TimeString(start),
		PartySize: party,
		Customer:  domain.Customer{Name: "Guest"},
	}
}

func TestUseCase_CreatesWithDefaults(t *testing.T) {
	store := newStore(4, 2, 6)
	f := newFixture(store, store)

	resp, err := f.uc.Execute(context.Background(), newRequest("19:00", 5))

	require.NoError(t, err)
	assert.Equal(t, []int64{3}, resp.TableIDs)
	assert.Equal(t, int64(1), resp.RoomID)
	assert.Equal(t, 6, resp.TotalCapacity)
	assert.Equal(t, domain.DefaultDurationMinutes, resp.DurationMinutes)
	assert.Equal(t, domain.StatusConfirmed, resp.Status)
	assert.Equal(t, domain.DefaultReservationCategory, resp.Category)
	assert.False(t, resp.Retried)
	assert.Equal(t, []string{outcomeCommitted}, f.recorder.outcomes)

	stored, err := store.GetReservation(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, stored.TableIDs)
	assert.True(t, stored.RoomFilter.IsAny())
}

func TestUseCase_CombinesTables(t *testing.T) {
	store := newStore(4, 4, 2, 6)
	f := newFixture(store, store)

	resp, err := f.uc.Execute(context.Background(), newRequest("19:00", 10))

	require.NoError(t, err)
	assert.Equal(t, []int64{1, 4}, resp.TableIDs)
	assert.Equal(t, 10, resp.TotalCapacity)
}

func TestUseCase_Validation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(req *Request)
	}{
		{name: "missing date", modify: func(req *Request) { req.Date = time.Time{} }},
		{name: "bad start time", modify: func(req *Request) { req.StartTime = "7pm" }},
		{name: "zero party", modify: func(req *Request) { req.PartySize = 0 }},
		{name: "party over limit", modify: func(req *Request) { req.PartySize = 21 }},
		{name: "duration too short", modify: func(req *Request) { req.DurationMinutes = 5 }},
		{name: "completed status", modify: func(req *Request) { req.Status = domain.StatusCompleted }},
		{name: "blank name", modify: func(req *Request) { req.Customer.Name = "  " }},
		{name: "inside min lead", modify: func(req *Request) { req.Date = testNow.Truncate(24 * time.Hour); req.StartTime = "12:30" }},
		{name: "beyond max lead", modify: func(req *Request) { req.Date = testDate.AddDate(0, 3, 0) }},
		{name: "ends after close", modify: func(req *Request) { req.StartTime = "21:00" }},
		{name: "starts before open", modify: func(req *Request) { req.StartTime = "09:30" }},
		{name: "unknown room", modify: func(req *Request) { req.RoomFilter = domain.SpecificRoom(42) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(4)
			f := newFixture(store, store)
			req := newRequest("19:00", 2)
			tt.modify(req)

			_, err := f.uc.Execute(context.Background(), req)

			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, []string{outcomeInvalid}, f.recorder.outcomes)
		})
	}
}

func TestUseCase_ClosedDay(t *testing.T) {
	store := newStore(4)
	store.AddSpecialDay(domain.SpecialDay{Date: testDate, Schedule: domain.Closed()})
	f := newFixture(store, store)

	_, err := f.uc.Execute(context.Background(), newRequest("19:00", 2))

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUseCase_NoAvailability(t *testing.T) {
	store := newStore(4, 2)
	f := newFixture(store, store)

	_, err := f.uc.Execute(context.Background(), newRequest("19:00", 8))

	assert.ErrorIs(t, err, ErrNoAvailability)
	assert.Equal(t, []string{outcomeNoAvailability}, f.recorder.outcomes)
}

func TestUseCase_AdjacentWindowsShareTable(t *testing.T) {
	store := newStore(4)
	f := newFixture(store, store)

	first, err := f.uc.Execute(context.Background(), newRequest("17:00", 4))
	require.NoError(t, err)

	second, err := f.uc.Execute(context.Background(), newRequest("19:00", 4))
	require.NoError(t, err)
	assert.Equal(t, first.TableIDs, second.TableIDs)

	_, err = f.uc.Execute(context.Background(), newRequest("18:30", 4))
	assert.ErrorIs(t, err, ErrNoAvailability)
}

func TestUseCase_CancelThenRebookGetsSameTable(t *testing.T) {
	store := newStore(4)
	f := newFixture(store, store)
	ctx := context.Background()

	first, err := f.uc.Execute(ctx, newRequest("19:00", 4))
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, newRequest("19:00", 4))
	require.ErrorIs(t, err, ErrNoAvailability)

	require.NoError(t, store.CancelReservation(ctx, first.ID, nil, testNow))

	second, err := f.uc.Execute(ctx, newRequest("19:00", 4))
	require.NoError(t, err)
	assert.Equal(t, first.TableIDs, second.TableIDs)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestUseCase_GuardErrors(t *testing.T) {
	tests := []struct {
		name     string
		guardErr error
		want     error
		outcome  string
	}{
		{name: "busy", guardErr: fmt.Errorf("%w: lock wait", guard.ErrBusy), want: ErrBusy, outcome: outcomeBusy},
		{name: "serialization", guardErr: fmt.Errorf("%w: 40001", guard.ErrConflict), want: ErrConflict, outcome: outcomeConflict},
		{name: "other", guardErr: errors.New("connection reset"), want: ErrInternal, outcome: outcomeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(4)
			log := logger.NewNop()
			recorder := &MockRecorder{}
			uc := NewUseCase(store, floorplan.NewService(store), store,
				settings.NewService(store, domain.DefaultBookingSettings(), log),
				&MockGuard{err: tt.guardErr}, recorder, time.UTC, log).
				WithTimeProvider(&MockTimeProvider{now: testNow})

			_, err := uc.Execute(context.Background(), newRequest("19:00", 2))

			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, []string{tt.outcome}, recorder.outcomes)
		})
	}
}

// racingRepository занимает стол 1 параллельным бронированием перед первой фиксацией
type racingRepository struct {
	*memory.Store
	raced bool
}

func (r *racingRepository) LockTables(ctx context.Context, tableIDs []int64) error {
	if !r.raced {
		r.raced = true
		_, err := r.Store.CreateReservation(ctx, &domain.Reservation{
			PartySize:       4,
			Date:            testDate,
			StartTime:       "18:30",
			DurationMinutes: 120,
			Status:          domain.StatusConfirmed,
			Category:        domain.DefaultReservationCategory,
			Customer:        domain.Customer{Name: "Walk-in"},
			TableIDs:        []int64{1},
		})
		if err != nil {
			return err
		}
	}
	return r.Store.LockTables(ctx, tableIDs)
}

func TestUseCase_ConflictRetryPicksAnotherCombination(t *testing.T) {
	store := newStore(4, 4)
	f := newFixture(store, &racingRepository{Store: store})

	resp, err := f.uc.Execute(context.Background(), newRequest("19:00", 4))

	require.NoError(t, err)
	assert.True(t, resp.Retried)
	assert.Equal(t, []int64{2}, resp.TableIDs)
	assert.Equal(t, 1, f.recorder.retries)
	assert.Equal(t, []string{outcomeRetryCommitted}, f.recorder.outcomes)
}

func TestUseCase_ConflictRetryWithoutAlternative(t *testing.T) {
	store := newStore(4)
	f := newFixture(store, &racingRepository{Store: store})

	_, err := f.uc.Execute(context.Background(), newRequest("19:00", 4))

	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, []string{outcomeConflict}, f.recorder.outcomes)

	// Транзакция откатилась целиком
	list, err := store.ListReservations(context.Background(), domain.ReservationsFilter{Date: testDate})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUseCase_ConcurrentBookingsOfLastTable(t *testing.T) {
	store := newStore(4)
	f := newFixture(store, store)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failures  []error
	)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := f.uc.Execute(context.Background(), newRequest("19:00", 4))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			failures = append(failures, err)
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	for _, err := range failures {
		assert.True(t, errors.Is(err, ErrConflict) || errors.Is(err, ErrNoAvailability), "unexpected error: %v", err)
	}
}

func TestUseCase_ConcurrentRandomBookingsNeverOverlap(t *testing.T) {
	store := newStore(2, 2, 4, 4, 6, 8)
	f := newFixture(store, store)

	starts := []string{"12:00", "12:30", "13:00", "14:00", "15:30", "17:00", "18:00", "19:00", "19:30", "20:00"}

	var wg sync.WaitGroup
	for w := 0; w < 16; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rnd := rand.New(rand.NewSource(seed))
			for i := 0; i < 10; i++ {
				req := newRequest(starts[rnd.Intn(len(starts))], 1+rnd.Intn(10))
				req.DurationMinutes = 60 + 30*rnd.Intn(3)
				_, err := f.uc.Execute(context.Background(), req)
				if err != nil && !errors.Is(err, ErrConflict) && !errors.Is(err, ErrNoAvailability) &&
					!errors.Is(err, ErrInvalidInput) {
					t.Errorf("unexpected error: %v", err)
				}
			}
		}(int64(w + 1))
	}
	wg.Wait()

	list, err := store.ListReservations(context.Background(), domain.ReservationsFilter{Date: testDate})
	require.NoError(t, err)
	require.NotEmpty(t, list)

	for i, a := range list {
		wa, err := a.Window()
		require.NoError(t, err)
		for _, b := range list[i+1:] {
			wb, err := b.Window()
			require.NoError(t, err)
			if !wa.Overlaps(wb) {
				continue
			}
			for _, id := range a.TableIDs {
				assert.NotContains(t, b.TableIDs, id, "reservations %d and %d share table %d", a.ID, b.ID, id)
			}
		}
	}
}
