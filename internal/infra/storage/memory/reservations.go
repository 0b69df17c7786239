package memory

import (
	"context"
	"slices"
	"time"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	"github.com/m04kA/SMC-TableBooking/pkg/types"
)

// CreateReservation сохраняет бронирование вместе с занятыми столами
func (s *Store) CreateReservation(ctx context.Context, r *domain.Reservation) (*domain.Reservation, error) {
	defer s.write(ctx)()

	s.nextID++
	now := s.now()

	stored := cloneReservation(r)
	stored.ID = s.nextID
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.reservations[stored.ID] = stored

	return cloneReservation(stored), nil
}

// GetReservation возвращает бронирование по ID
func (s *Store) GetReservation(ctx context.Context, id int64) (*domain.Reservation, error) {
	defer s.read(ctx)()

	r, ok := s.reservations[id]
	if !ok {
		return nil, ErrReservationNotFound
	}
	return cloneReservation(r), nil
}

// ListReservations возвращает бронирования на дату, отсортированные по времени начала
func (s *Store) ListReservations(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	defer s.read(ctx)()

	result := make([]*domain.Reservation, 0)
	for _, r := range s.reservations {
		if !sameDate(r.Date, filter.Date) {
			continue
		}
		if !filter.IncludeInactive && !r.IsActive() {
			continue
		}
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		if filter.RoomID != nil && !s.touchesRoomLocked(r, *filter.RoomID) {
			continue
		}
		result = append(result, cloneReservation(r))
	}

	slices.SortFunc(result, func(a, b *domain.Reservation) int {
		if a.StartTime != b.StartTime {
			if a.StartTime.IsBefore(b.StartTime) {
				return -1
			}
			return 1
		}
		return compareInt64(a.ID, b.ID)
	})
	return result, nil
}

// ListActiveClaims возвращает активные занятия столов на дату в указанных залах (nil = во всех)
func (s *Store) ListActiveClaims(ctx context.Context, date time.Time, roomIDs []int64) ([]domain.ClaimWindow, error) {
	defer s.read(ctx)()

	return s.claimsLocked(date, func(t *domain.Table) bool {
		return roomIDs == nil || slices.Contains(roomIDs, t.RoomID)
	}), nil
}

// ListActiveClaimsForTables возвращает активные занятия указанных столов на дату
func (s *Store) ListActiveClaimsForTables(ctx context.Context, date time.Time, tableIDs []int64) ([]domain.ClaimWindow, error) {
	defer s.read(ctx)()

	return s.claimsLocked(date, func(t *domain.Table) bool {
		return slices.Contains(tableIDs, t.ID)
	}), nil
}

// LockTables в памяти ничего не делает: транзакция и так эксклюзивна
func (s *Store) LockTables(ctx context.Context, tableIDs []int64) error {
	defer s.read(ctx)()

	for _, id := range tableIDs {
		if _, ok := s.tables[id]; !ok {
			return ErrTableNotFound
		}
	}
	return nil
}

// UpdateReservationStatus меняет статус бронирования
func (s *Store) UpdateReservationStatus(ctx context.Context, id int64, status domain.ReservationStatus) error {
	defer s.write(ctx)()

	r, ok := s.reservations[id]
	if !ok {
		return ErrReservationNotFound
	}
	r.Status = status
	r.UpdatedAt = s.now()
	return nil
}

// CancelReservation переводит бронирование в cancelled. Занятия столов сохраняются для истории.
func (s *Store) CancelReservation(ctx context.Context, id int64, reason *string, at time.Time) error {
	defer s.write(ctx)()

	r, ok := s.reservations[id]
	if !ok {
		return ErrReservationNotFound
	}
	r.Status = domain.StatusCancelled
	r.CancellationReason = cloneString(reason)
	cancelledAt := at
	r.CancelledAt = &cancelledAt
	r.UpdatedAt = s.now()
	return nil
}

// ReplaceClaims заменяет набор столов бронирования
func (s *Store) ReplaceClaims(ctx context.Context, id int64, tableIDs []int64, capacityShortage bool) error {
	defer s.write(ctx)()

	r, ok := s.reservations[id]
	if !ok {
		return ErrReservationNotFound
	}
	r.TableIDs = sortedIDs(tableIDs)
	r.CapacityShortage = capacityShortage
	r.UpdatedAt = s.now()
	return nil
}

// UpdateSchedule меняет время, длительность и размер компании
func (s *Store) UpdateSchedule(ctx context.Context, id int64, start types.TimeString, durationMinutes, partySize int) error {
	defer s.write(ctx)()

	r, ok := s.reservations[id]
	if !ok {
		return ErrReservationNotFound
	}
	r.StartTime = start
	r.DurationMinutes = durationMinutes
	r.PartySize = partySize
	r.UpdatedAt = s.now()
	return nil
}

func (s *Store) claimsLocked(date time.Time, include func(t *domain.Table) bool) []domain.ClaimWindow {
	claims := make([]domain.ClaimWindow, 0)
	for _, r := range s.reservations {
		if !r.IsActive() || !sameDate(r.Date, date) {
			continue
		}
		for _, tableID := range r.TableIDs {
			t, ok := s.tables[tableID]
			if !ok || !include(t) {
				continue
			}
			claims = append(claims, domain.ClaimWindow{
				ReservationID:   r.ID,
				TableID:         tableID,
				RoomID:          t.RoomID,
				StartTime:       r.StartTime,
				DurationMinutes: r.DurationMinutes,
			})
		}
	}
	return claims
}

func (s *Store) touchesRoomLocked(r *domain.Reservation, roomID int64) bool {
	for _, tableID := range r.TableIDs {
		if t, ok := s.tables[tableID]; ok && t.RoomID == roomID {
			return true
		}
	}
	return false
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func sortedIDs(ids []int64) []int64 {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	return sorted
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneReservation(r *domain.Reservation) *domain.Reservation {
	c := *r
	c.TableIDs = sortedIDs(r.TableIDs)
	c.CancellationReason = cloneString(r.CancellationReason)
	if r.CancelledAt != nil {
		at := *r.CancelledAt
		c.CancelledAt = &at
	}
	c.Customer.Phone = cloneString(r.Customer.Phone)
	c.Customer.Email = cloneString(r.Customer.Email)
	c.Customer.Notes = cloneString(r.Customer.Notes)
	return &c
}
