package update_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	"github.com/m04kA/SMC-TableBooking/internal/engine/combination"
	"github.com/m04kA/SMC-TableBooking/internal/engine/ledger"
	reservationRepo "github.com/m04kA/SMC-TableBooking/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-TableBooking/internal/service/floorplan"
	"github.com/m04kA/SMC-TableBooking/internal/service/guard"
	"github.com/m04kA/SMC-TableBooking/pkg/types"
)

// UseCase изменение времени, длительности и размера компании.
// Дата не меняется: для переноса на другой день бронирование отменяют и создают заново.
type UseCase struct {
	reservations ReservationRepository
	catalog      CatalogRepository
	floors       FloorService
	hours        HoursProvider
	settings     SettingsProvider
	guard        Guard
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservations ReservationRepository,
	catalog CatalogRepository,
	floors FloorService,
	hours HoursProvider,
	settings SettingsProvider,
	guard Guard,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservations: reservations,
		catalog:      catalog,
		floors:       floors,
		hours:        hours,
		settings:     settings,
		guard:        guard,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет часы (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// target новые параметры бронирования
type target struct {
	start    types.TimeString
	duration int
	party    int
	window   domain.Window
}

// Execute применяет изменения к активному бронированию
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateReservation: reservation id=%d", req.ReservationID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Текущее бронирование: дата нужна для ключа блокировки и рабочих часов
	current, err := uc.reservations.GetReservation(ctx, req.ReservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			uc.logger.Warn("UpdateReservation: reservation id=%d not found", req.ReservationID)
			return nil, ErrReservationNotFound
		}
		uc.logger.Error("UpdateReservation: failed to get reservation id=%d: %v", req.ReservationID, err)
		return nil, fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
	}

	settings, err := uc.settings.Snapshot(ctx)
	if err != nil {
		uc.logger.Error("UpdateReservation: failed to load settings: %v", err)
		return nil, fmt.Errorf("%w: failed to load settings: %v", ErrInternal, err)
	}

	hours, err := uc.hours.HoursFor(ctx, current.Date)
	if err != nil {
		uc.logger.Error("UpdateReservation: failed to get working hours: %v", err)
		return nil, fmt.Errorf("%w: failed to get working hours: %v", ErrInternal, err)
	}

	// 3. Решение принимается внутри критической секции
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

		t, err := uc.resolveTarget(req, res, settings, hours)
		if err != nil {
			return err
		}

		response, err = uc.apply(txCtx, res, t, settings)
		return err
	})
	if err != nil {
		return nil, uc.mapError(req.ReservationID, err)
	}

	uc.logger.Info("UpdateReservation: reservation id=%d updated to %s for %d min, party=%d, tables=%v, reseated=%t",
		response.ID, response.StartTime, response.DurationMinutes, response.PartySize, response.TableIDs, response.Reseated)
	return response, nil
}

// resolveTarget объединяет запрос с текущими значениями и проверяет ограничения
func (uc *UseCase) resolveTarget(req *Request, res *domain.Reservation, settings domain.BookingSettings, hours domain.DaySchedule) (target, error) {
	t := target{
		start:    res.StartTime,
		duration: res.DurationMinutes,
		party:    res.PartySize,
	}
	if req.StartTime != nil {
		t.start = *req.StartTime
	}
	if req.DurationMinutes != nil {
		t.duration = *req.DurationMinutes
	}
	if req.PartySize != nil {
		t.party = *req.PartySize
	}

	if t.party > settings.MaxPartySize {
		return target{}, fmt.Errorf("%w: partySize must not exceed %d", ErrInvalidInput, settings.MaxPartySize)
	}

	window, err := domain.NewWindow(t.start, t.duration)
	if err != nil {
		return target{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	t.window = window

	// Окно предварительной записи проверяется только при переносе времени
	if t.start != res.StartTime {
		startAt, err := t.start.On(res.Date, uc.location)
		if err != nil {
			return target{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if !settings.WithinLead(startAt, uc.timeProvider.Now()) {
			return target{}, fmt.Errorf("%w: start time is outside the allowed booking window", ErrInvalidInput)
		}
	}

	if !hours.Fits(window) {
		return target{}, fmt.Errorf("%w: reservation must fit within opening hours", ErrInvalidInput)
	}
	return t, nil
}

// apply сохраняет текущие столы, если они подходят, иначе подбирает новые
func (uc *UseCase) apply(txCtx context.Context, res *domain.Reservation, t target, settings domain.BookingSettings) (*Response, error) {
	keep, total, err := uc.canKeepTables(txCtx, res, t)
	if err != nil {
		return nil, err
	}

	tableIDs := res.TableIDs
	shortage := res.CapacityShortage && total < t.party
	reseated := !keep

	if keep {
		if shortage != res.CapacityShortage {
			if err := uc.reservations.ReplaceClaims(txCtx, res.ID, tableIDs, shortage); err != nil {
				return nil, fmt.Errorf("update shortage flag: %w", err)
			}
		}
	} else {
		comb, err := uc.reseat(txCtx, res, t, settings)
		if err != nil {
			return nil, err
		}
		tableIDs = comb.TableIDs
		total = comb.TotalCapacity
		shortage = false

		if err := uc.reservations.ReplaceClaims(txCtx, res.ID, tableIDs, false); err != nil {
			return nil, fmt.Errorf("replace claims: %w", err)
		}
	}

	if err := uc.reservations.UpdateSchedule(txCtx, res.ID, t.start, t.duration, t.party); err != nil {
		return nil, fmt.Errorf("update schedule: %w", err)
	}

	return &Response{
		ID:               res.ID,
		Date:             res.Date,
		StartTime:        t.start,
		DurationMinutes:  t.duration,
		PartySize:        t.party,
		TableIDs:         tableIDs,
		TotalCapacity:    total,
		CapacityShortage: shortage,
		Reseated:         reseated,
	}, nil
}

// canKeepTables проверяет, свободны ли текущие столы в новом окне и хватает ли мест.
// Ручное назначение с нехваткой мест сохраняется, пока компания не выросла.
func (uc *UseCase) canKeepTables(txCtx context.Context, res *domain.Reservation, t target) (bool, int, error) {
	if len(res.TableIDs) == 0 {
		return false, 0, nil
	}

	tables, err := uc.catalog.GetTablesByIDs(txCtx, res.TableIDs)
	if err != nil {
		return false, 0, fmt.Errorf("get tables: %w", err)
	}
	if len(tables) != len(res.TableIDs) {
		return false, 0, nil
	}
	for _, tbl := range tables {
		if !tbl.Active {
			return false, 0, nil
		}
	}

	total := domain.TotalCapacity(tables)
	fits := total >= t.party || (res.CapacityShortage && t.party <= res.PartySize)
	if !fits {
		return false, total, nil
	}

	if err := uc.reservations.LockTables(txCtx, res.TableIDs); err != nil {
		if errors.Is(err, reservationRepo.ErrTableNotFound) {
			return false, 0, nil
		}
		return false, 0, fmt.Errorf("lock tables: %w", err)
	}

	claims, err := uc.reservations.ListActiveClaimsForTables(txCtx, res.Date, res.TableIDs)
	if err != nil {
		return false, 0, fmt.Errorf("list claims: %w", err)
	}
	if !ledger.AllFree(res.TableIDs, ledger.BusyTables(claims, t.window, res.ID)) {
		return false, total, nil
	}
	return true, total, nil
}

// reseat подбирает новую комбинацию для сохранённого фильтра зала
func (uc *UseCase) reseat(txCtx context.Context, res *domain.Reservation, t target, settings domain.BookingSettings) (domain.Combination, error) {
	floor, err := uc.floors.Floor(txCtx, res.RoomFilter)
	if err != nil {
		if errors.Is(err, floorplan.ErrRoomNotFound) {
			return domain.Combination{}, fmt.Errorf("%w: %v", ErrNoAvailability, err)
		}
		return domain.Combination{}, fmt.Errorf("load floor: %w", err)
	}

	claims, err := uc.reservations.ListActiveClaims(txCtx, res.Date, floor.RoomIDs())
	if err != nil {
		return domain.Combination{}, fmt.Errorf("list claims: %w", err)
	}

	busy := ledger.BusyTables(claims, t.window, res.ID)
	comb, err := combination.SearchRooms(t.party, floor.Candidates(busy), settings.RoomPolicy)
	if err != nil {
		return domain.Combination{}, fmt.Errorf("%w: party=%d at %s", ErrNoAvailability, t.party, t.start)
	}

	if err := uc.reservations.LockTables(txCtx, comb.TableIDs); err != nil {
		return domain.Combination{}, fmt.Errorf("lock tables: %w", err)
	}
	return comb, nil
}

func (uc *UseCase) mapError(id int64, err error) error {
	switch {
	case errors.Is(err, guard.ErrBusy):
		uc.logger.Warn("UpdateReservation: critical section busy for reservation id=%d: %v", id, err)
		return fmt.Errorf("%w: %v", ErrBusy, err)
	case errors.Is(err, guard.ErrConflict):
		uc.logger.Warn("UpdateReservation: serialization conflict for reservation id=%d: %v", id, err)
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrReservationNotFound),
		errors.Is(err, ErrNotActive),
		errors.Is(err, ErrNoAvailability):
		uc.logger.Warn("UpdateReservation: reservation id=%d rejected: %v", id, err)
		return err
	default:
		uc.logger.Error("UpdateReservation: failed for reservation id=%d: %v", id, err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
