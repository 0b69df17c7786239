package reassign_tables

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	"github.com/m04kA/SMC-TableBooking/internal/engine/ledger"
	reservationRepo "github.com/m04kA/SMC-TableBooking/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-TableBooking/internal/service/guard"
)

// UseCase ручное назначение столов персоналом.
// Пересечения по времени запрещены, нехватка мест только помечается.
type UseCase struct {
	reservations ReservationRepository
	catalog      CatalogRepository
	guard        Guard
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(reservations ReservationRepository, catalog CatalogRepository, guard Guard, logger Logger) *UseCase {
	return &UseCase{
		reservations: reservations,
		catalog:      catalog,
		guard:        guard,
		logger:       logger,
	}
}

// Execute заменяет столы бронирования на указанные
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReassignTables: reservation id=%d, tables=%v", req.ReservationID, req.TableIDs)

	// 1. Валидация входных данных
	tableIDs, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("ReassignTables: validation failed: %v", err)
		return nil, err
	}

	// 2. Дата бронирования нужна для ключа блокировки
	current, err := uc.reservations.GetReservation(ctx, req.ReservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			uc.logger.Warn("ReassignTables: reservation id=%d not found", req.ReservationID)
			return nil, ErrReservationNotFound
		}
		uc.logger.Error("ReassignTables: failed to get reservation id=%d: %v", req.ReservationID, err)
		return nil, fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
	}

	// 3. Проверки и запись внутри критической секции
	var response *Response
	err = uc.guard.Run(ctx, current.Date, func(txCtx context.Context) error {
		res, err := uc.reservations.GetReservation(txCtx, req.ReservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			return fmt.Errorf("get reservation: %w", err)
		}
		if !res.IsActive() {
			return fmt.Errorf("%w: status=%s", ErrNotActive, res.Status)
		}

		tables, err := uc.loadTables(txCtx, tableIDs)
		if err != nil {
			return err
		}

		if err := uc.reservations.LockTables(txCtx, tableIDs); err != nil {
			if errors.Is(err, reservationRepo.ErrTableNotFound) {
				return ErrTableUnavailable
			}
			return fmt.Errorf("lock tables: %w", err)
		}

		window, err := res.Window()
		if err != nil {
			return fmt.Errorf("reservation window: %w", err)
		}
		claims, err := uc.reservations.ListActiveClaimsForTables(txCtx, res.Date, tableIDs)
		if err != nil {
			return fmt.Errorf("list claims: %w", err)
		}
		busy := ledger.BusyTables(claims, window, res.ID)
		if !ledger.AllFree(tableIDs, busy) {
			return fmt.Errorf("%w: window %s", ErrConflictWithOtherClaims, window)
		}

		total := domain.TotalCapacity(tables)
		shortage := total < res.PartySize
		if err := uc.reservations.ReplaceClaims(txCtx, res.ID, tableIDs, shortage); err != nil {
			return fmt.Errorf("replace claims: %w", err)
		}

		response = &Response{
			ReservationID:    res.ID,
			TableIDs:         tableIDs,
			TotalCapacity:    total,
			PartySize:        res.PartySize,
			CapacityShortage: shortage,
		}
		return nil
	})
	if err != nil {
		return nil, uc.mapError(req.ReservationID, err)
	}

	if response.CapacityShortage {
		uc.logger.Warn("ReassignTables: reservation id=%d seated with capacity shortage: %d seats for party of %d",
			response.ReservationID, response.TotalCapacity, response.PartySize)
	}
	uc.logger.Info("ReassignTables: reservation id=%d now holds tables %v", response.ReservationID, response.TableIDs)
	return response, nil
}

// loadTables проверяет, что все столы существуют, активны и при нескольких столах совмещаемы
func (uc *UseCase) loadTables(ctx context.Context, ids []int64) ([]*domain.Table, error) {
	tables, err := uc.catalog.GetTablesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get tables: %w", err)
	}

	byID := make(map[int64]*domain.Table, len(tables))
	for _, t := range tables {
		byID[t.ID] = t
	}

	result := make([]*domain.Table, 0, len(ids))
	for _, id := range ids {
		t, ok := byID[id]
		if !ok || !t.Active {
			return nil, fmt.Errorf("%w: id=%d", ErrTableUnavailable, id)
		}
		if len(ids) > 1 && !t.Combinable {
			return nil, fmt.Errorf("%w: table id=%d", ErrNotCombinable, id)
		}
		result = append(result, t)
	}
	return result, nil
}

func (uc *UseCase) mapError(id int64, err error) error {
	switch {
	case errors.Is(err, guard.ErrBusy):
		uc.logger.Warn("ReassignTables: critical section busy for reservation id=%d: %v", id, err)
		return fmt.Errorf("%w: %v", ErrBusy, err)
	case errors.Is(err, guard.ErrConflict):
		uc.logger.Warn("ReassignTables: serialization conflict for reservation id=%d: %v", id, err)
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case errors.Is(err, ErrReservationNotFound),
		errors.Is(err, ErrNotActive),
		errors.Is(err, ErrTableUnavailable),
		errors.Is(err, ErrNotCombinable),
		errors.Is(err, ErrConflictWithOtherClaims):
		uc.logger.Warn("ReassignTables: reservation id=%d rejected: %v", id, err)
		return err
	default:
		uc.logger.Error("ReassignTables: failed for reservation id=%d: %v", id, err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
