package update_reservation

import (
	"context"
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
	"github.com/m04kA/SMC-TableBooking/pkg/ptr"
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

func newStore() *memory.Store {
	s := memory.NewStore()
	s.PutRoom(domain.Room{ID: 1, Name: "Main", Active: true, AreaType: domain.AreaIndoor, Priority: 1})
	s.PutTable(domain.Table{ID: 1, RoomID: 1, Capacity: 4, Combinable: true, Active: true})
	s.PutTable(domain.Table{ID: 2, RoomID: 1, Capacity: 2, Combinable: true, Active: true})
	s.PutTable(domain.Table{ID: 3, RoomID: 1, Capacity: 6, Combinable: true, Active: true})
	for day := time.Sunday; day <= time.Saturday; day++ {
		s.SetWeekday(day, domain.DaySchedule{IsOpen: true, OpenTime: "10:00", CloseTime: "22:00"})
	}
	return s
}

func newUseCase(store *memory.Store, now time.Time) *UseCase {
	log := logger.NewNop()
	return NewUseCase(
		store,
		store,
		floorplan.NewService(store),
		store,
		settings.NewService(store, domain.DefaultBookingSettings(), log),
		guard.New(lock.NewLocal(time.Second), store, metrics.Nop{}),
		time.UTC,
		log,
	).WithTimeProvider(&MockTimeProvider{now: now})
}

func seed(t *testing.T, store *memory.Store, start string, party int, shortage bool, tableIDs ...int64) *domain.Reservation {
	t.Helper()
	res, err := store.CreateReservation(context.Background(), &domain.Reservation{
		PartySize:        party,
		Date:             testDate,
		StartTime:        types.TimeString(start),
		DurationMinutes:  120,
		Status:           domain.StatusConfirmed,
		Category:         domain.DefaultReservationCategory,
		Customer:         domain.Customer{Name: "Guest"},
		TableIDs:         tableIDs,
		CapacityShortage: shortage,
	})
	require.NoError(t, err)
	return res
}

func TestUseCase_ExtendKeepsTables(t *testing.T) {
	store := newStore()
	res := seed(t, store, "19:00", 4, false, 1)
	uc := newUseCase(store, testNow)

	resp, err := uc.Execute(context.Background(), &Request{ReservationID: res.ID, DurationMinutes: ptr.Ptr(180)})

	require.NoError(t, err)
	assert.False(t, resp.Reseated)
	assert.Equal(t, []int64{1}, resp.TableIDs)
	assert.Equal(t, 180, resp.DurationMinutes)

	stored, err := store.GetReservation(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, 180, stored.DurationMinutes)
}

func TestUseCase_MoveIntoConflictReseats(t *testing.T) {
	store := newStore()
	res := seed(t, store, "19:00", 4, false, 1)
	seed(t, store, "15:00", 4, false, 1)
	uc := newUseCase(store, testNow)

	resp, err := uc.Execute(context.Background(), &Request{ReservationID: res.ID, StartTime: ptr.Ptr(types.TimeString("16:00"))})

	require.NoError(t, err)
	assert.True(t, resp.Reseated)
	assert.Equal(t, []int64{3}, resp.TableIDs)
	assert.Equal(t, types.TimeString("16:00"), resp.StartTime)

	stored, err := store.GetReservation(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, stored.TableIDs)
	assert.Equal(t, types.TimeString("16:00"), stored.StartTime)
}

func TestUseCase_LargerPartyReseats(t *testing.T) {
	store := newStore()
	res := seed(t, store, "19:00", 4, false, 1)
	uc := newUseCase(store, testNow)

	resp, err := uc.Execute(context.Background(), &Request{ReservationID: res.ID, PartySize: ptr.Ptr(6)})

	require.NoError(t, err)
	assert.True(t, resp.Reseated)
	assert.Equal(t, []int64{3}, resp.TableIDs)
	assert.Equal(t, 6, resp.PartySize)
}

func TestUseCase_NoAvailabilityLeavesReservationUntouched(t *testing.T) {
	store := newStore()
	res := seed(t, store, "19:00", 4, false, 1)
	uc := newUseCase(store, testNow)

	_, err := uc.Execute(context.Background(), &Request{ReservationID: res.ID, PartySize: ptr.Ptr(13)})

	assert.ErrorIs(t, err, ErrNoAvailability)
	stored, err := store.GetReservation(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.PartySize)
	assert.Equal(t, []int64{1}, stored.TableIDs)
}

func TestUseCase_ShortageOverride(t *testing.T) {
	store := newStore()
	res := seed(t, store, "19:00", 6, true, 1)
	uc := newUseCase(store, testNow)

	// Нехватка мест сохраняется, пока компания не выросла
	resp, err := uc.Execute(context.Background(), &Request{ReservationID: res.ID, DurationMinutes: ptr.Ptr(90)})
	require.NoError(t, err)
	assert.False(t, resp.Reseated)
	assert.True(t, resp.CapacityShortage)
	assert.Equal(t, []int64{1}, resp.TableIDs)

	// Компания уменьшилась до вместимости стола: флаг снимается
	resp, err = uc.Execute(context.Background(), &Request{ReservationID: res.ID, PartySize: ptr.Ptr(4)})
	require.NoError(t, err)
	assert.False(t, resp.Reseated)
	assert.False(t, resp.CapacityShortage)

	stored, err := store.GetReservation(context.Background(), res.ID)
	require.NoError(t, err)
	assert.False(t, stored.CapacityShortage)
}

func TestUseCase_ShortageOverrideGrowingPartyReseats(t *testing.T) {
	store := newStore()
	res := seed(t, store, "19:00", 6, true, 1)
	uc := newUseCase(store, testNow)

	resp, err := uc.Execute(context.Background(), &Request{ReservationID: res.ID, PartySize: ptr.Ptr(7)})

	require.NoError(t, err)
	assert.True(t, resp.Reseated)
	assert.False(t, resp.CapacityShortage)
	assert.Equal(t, []int64{2, 3}, resp.TableIDs)
}

func TestUseCase_LeadCheckedOnlyWhenStartMoves(t *testing.T) {
	store := newStore()
	res := seed(t, store, "19:00", 4, false, 1)
	uc := newUseCase(store, time.Date(2025, 10, 15, 18, 30, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{ReservationID: res.ID, DurationMinutes: ptr.Ptr(150)})
	require.NoError(t, err)
	assert.Equal(t, 150, resp.DurationMinutes)

	_, err = uc.Execute(context.Background(), &Request{ReservationID: res.ID, StartTime: ptr.Ptr(types.TimeString("19:15"))})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUseCase_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		req  func(id int64) *Request
	}{
		{name: "nothing to update", req: func(id int64) *Request { return &Request{ReservationID: id} }},
		{name: "bad start", req: func(id int64) *Request {
			return &Request{ReservationID: id, StartTime: ptr.Ptr(types.TimeString("24:00"))}
		}},
		{name: "duration too short", req: func(id int64) *Request { return &Request{ReservationID: id, DurationMinutes: ptr.Ptr(10)} }},
		{name: "zero party", req: func(id int64) *Request { return &Request{ReservationID: id, PartySize: ptr.Ptr(0)} }},
		{name: "party over limit", req: func(id int64) *Request { return &Request{ReservationID: id, PartySize: ptr.Ptr(21)} }},
		{name: "past closing", req: func(id int64) *Request {
			return &Request{ReservationID: id, StartTime: ptr.Ptr(types.TimeString("21:00"))}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore()
			res := seed(t, store, "19:00", 4, false, 1)
			uc := newUseCase(store, testNow)

			_, err := uc.Execute(context.Background(), tt.req(res.ID))

			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestUseCase_NotFoundAndNotActive(t *testing.T) {
	store := newStore()
	res := seed(t, store, "19:00", 4, false, 1)
	uc := newUseCase(store, testNow)

	_, err := uc.Execute(context.Background(), &Request{ReservationID: 99, PartySize: ptr.Ptr(2)})
	assert.ErrorIs(t, err, ErrReservationNotFound)

	require.NoError(t, store.CancelReservation(context.Background(), res.ID, nil, testNow))
	_, err = uc.Execute(context.Background(), &Request{ReservationID: res.ID, PartySize: ptr.Ptr(2)})
	assert.ErrorIs(t, err, ErrNotActive)
}
