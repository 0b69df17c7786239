package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	"github.com/m04kA/SMC-TableBooking/internal/engine/combination"
	"github.com/m04kA/SMC-TableBooking/internal/engine/ledger"
	reservationRepo "github.com/m04kA/SMC-TableBooking/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-TableBooking/internal/service/floorplan"
	"github.com/m04kA/SMC-TableBooking/internal/service/guard"
)

// Исходы бронирования для метрик
const (
	outcomeCommitted      = "committed"
	outcomeRetryCommitted = "committed_after_retry"
	outcomeInvalid        = "invalid"
	outcomeNoAvailability = "no_availability"
	outcomeConflict       = "conflict"
	outcomeBusy           = "busy"
	outcomeError          = "error"
)

// UseCase use case создания бронирования.
//
// Состояния: Requested → Validated → Searching → Committing → Committed,
// при конфликте один раз Committing → ConflictRetry → Committing, иначе Failed.
type UseCase struct {
	reservations ReservationRepository
	floors       FloorService
	hours        HoursProvider
	settings     SettingsProvider
	guard        Guard
	metrics      Recorder
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservations ReservationRepository,
	floors FloorService,
	hours HoursProvider,
	settings SettingsProvider,
	guard Guard,
	metrics Recorder,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservations: reservations,
		floors:       floors,
		hours:        hours,
		settings:     settings,
		guard:        guard,
		metrics:      metrics,
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

// booking состояние одного запроса после валидации
type booking struct {
	req      *Request
	duration int
	window   domain.Window
	settings domain.BookingSettings
	floor    *floorplan.Floor
}

// Execute выполняет use case создания бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: date=%s, time=%s, party=%d, duration=%d, room=%s",
		req.Date.Format(domain.DateFormat), req.StartTime, req.PartySize, req.DurationMinutes, req.RoomFilter)

	// 1. Validated
	b, err := uc.validate(ctx, req)
	if err != nil {
		uc.observe(err)
		return nil, err
	}

	// 2. Searching: чтение без блокировок
	comb, err := uc.search(ctx, b)
	if err != nil {
		uc.observe(err)
		return nil, err
	}
	uc.logger.Info("CreateReservation: candidate room=%d tables=%v excess=%d",
		comb.RoomID, comb.TableIDs, comb.Excess)

	// 3. Committing: блокировка даты + сериализуемая транзакция
	var (
		created *domain.Reservation
		retried bool
	)
	err = uc.guard.Run(ctx, req.Date, func(txCtx context.Context) error {
		res, err := uc.commit(txCtx, b, comb)
		if !errors.Is(err, errTablesTaken) {
			created = res
			return err
		}

		// 4. ConflictRetry: один повтор с перечитанным журналом внутри той же транзакции
		uc.metrics.ObserveConflictRetry()
		uc.logger.Warn("CreateReservation: tables %v taken concurrently, retrying search", comb.TableIDs)

		next, err := uc.searchInTx(txCtx, b)
		if err != nil {
			return err
		}

		res, err = uc.commit(txCtx, b, next)
		if errors.Is(err, errTablesTaken) {
			return fmt.Errorf("%w: tables %v taken on retry", ErrConflict, next.TableIDs)
		}
		if err != nil {
			return err
		}

		comb = next
		created = res
		retried = true
		return nil
	})
	if err != nil {
		err = uc.mapCommitError(err)
		uc.observe(err)
		return nil, err
	}

	if retried {
		uc.metrics.ObserveBooking(outcomeRetryCommitted)
	} else {
		uc.metrics.ObserveBooking(outcomeCommitted)
	}
	uc.logger.Info("CreateReservation: created reservation id=%d room=%d tables=%v",
		created.ID, comb.RoomID, created.TableIDs)

	return &Response{
		ID:              created.ID,
		Date:            created.Date,
		StartTime:       created.StartTime,
		DurationMinutes: created.DurationMinutes,
		PartySize:       created.PartySize,
		RoomID:          comb.RoomID,
		TableIDs:        created.TableIDs,
		TotalCapacity:   comb.TotalCapacity,
		Status:          created.Status,
		Category:        created.Category,
		Customer:        created.Customer,
		Retried:         retried,
		CreatedAt:       created.CreatedAt,
	}, nil
}

// validate проверяет запрос относительно снимка настроек, рабочих часов и каталога
func (uc *UseCase) validate(ctx context.Context, req *Request) (*booking, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	settings, err := uc.settings.Snapshot(ctx)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to load settings: %v", err)
		return nil, fmt.Errorf("%w: failed to load settings: %v", ErrInternal, err)
	}

	if req.PartySize > settings.MaxPartySize {
		uc.logger.Warn("CreateReservation: party size %d exceeds limit %d", req.PartySize, settings.MaxPartySize)
		return nil, fmt.Errorf("%w: partySize must not exceed %d", ErrInvalidInput, settings.MaxPartySize)
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = settings.DefaultDurationMinutes
	}

	window, err := domain.NewWindow(req.StartTime, duration)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// Окно предварительной записи: [now+minLead, now+maxLead]
	startAt, err := req.StartTime.On(req.Date, uc.location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !settings.WithinLead(startAt, now) {
		uc.logger.Warn("CreateReservation: start %s is outside the booking window", startAt.Format(time.RFC3339))
		return nil, fmt.Errorf("%w: start time is outside the allowed booking window", ErrInvalidInput)
	}

	hours, err := uc.hours.HoursFor(ctx, req.Date)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to get working hours: %v", err)
		return nil, fmt.Errorf("%w: failed to get working hours: %v", ErrInternal, err)
	}
	if !hours.IsOpen {
		uc.logger.Warn("CreateReservation: closed on %s", req.Date.Format(domain.DateFormat))
		return nil, fmt.Errorf("%w: restaurant is closed on this date", ErrInvalidInput)
	}
	if !hours.Fits(window) {
		uc.logger.Warn("CreateReservation: window %s is outside opening hours %s-%s",
			window, hours.OpenTime, hours.CloseTime)
		return nil, fmt.Errorf("%w: reservation must fit within opening hours", ErrInvalidInput)
	}

	floor, err := uc.floors.Floor(ctx, req.RoomFilter)
	if err != nil {
		if errors.Is(err, floorplan.ErrRoomNotFound) {
			uc.logger.Warn("CreateReservation: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		uc.logger.Error("CreateReservation: failed to load floor: %v", err)
		return nil, fmt.Errorf("%w: failed to load floor: %v", ErrInternal, err)
	}

	return &booking{
		req:      req,
		duration: duration,
		window:   window,
		settings: settings,
		floor:    floor,
	}, nil
}

func (uc *UseCase) search(ctx context.Context, b *booking) (domain.Combination, error) {
	started := time.Now()
	defer func() { uc.metrics.ObserveSearch("booking", time.Since(started)) }()

	claims, err := uc.reservations.ListActiveClaims(ctx, b.req.Date, b.floor.RoomIDs())
	if err != nil {
		uc.logger.Error("CreateReservation: failed to list claims: %v", err)
		return domain.Combination{}, fmt.Errorf("%w: failed to list claims: %v", ErrInternal, err)
	}

	busy := ledger.BusyTables(claims, b.window, 0)
	comb, err := combination.SearchRooms(b.req.PartySize, b.floor.Candidates(busy), b.settings.RoomPolicy)
	if err != nil {
		uc.logger.Warn("CreateReservation: no combination for party=%d at %s", b.req.PartySize, b.req.StartTime)
		return domain.Combination{}, ErrNoAvailability
	}
	return comb, nil
}

// searchInTx повторный поиск внутри транзакции. Отсутствие комбинации здесь означает проигранную гонку.
func (uc *UseCase) searchInTx(txCtx context.Context, b *booking) (domain.Combination, error) {
	claims, err := uc.reservations.ListActiveClaims(txCtx, b.req.Date, b.floor.RoomIDs())
	if err != nil {
		return domain.Combination{}, fmt.Errorf("re-read claims: %w", err)
	}

	busy := ledger.BusyTables(claims, b.window, 0)
	comb, err := combination.SearchRooms(b.req.PartySize, b.floor.Candidates(busy), b.settings.RoomPolicy)
	if err != nil {
		return domain.Combination{}, fmt.Errorf("%w: no combination left after concurrent booking", ErrConflict)
	}
	return comb, nil
}

// commit блокирует выбранные столы, перепроверяет их занятость и сохраняет бронирование
func (uc *UseCase) commit(txCtx context.Context, b *booking, comb domain.Combination) (*domain.Reservation, error) {
	if err := uc.reservations.LockTables(txCtx, comb.TableIDs); err != nil {
		if errors.Is(err, reservationRepo.ErrTableNotFound) {
			return nil, errTablesTaken
		}
		return nil, fmt.Errorf("lock tables: %w", err)
	}

	claims, err := uc.reservations.ListActiveClaimsForTables(txCtx, b.req.Date, comb.TableIDs)
	if err != nil {
		return nil, fmt.Errorf("re-check claims: %w", err)
	}
	if !ledger.AllFree(comb.TableIDs, ledger.BusyTables(claims, b.window, 0)) {
		return nil, errTablesTaken
	}

	status := b.req.Status
	if status == "" {
		status = domain.StatusConfirmed
	}
	category := strings.TrimSpace(b.req.Category)
	if category == "" {
		category = domain.DefaultReservationCategory
	}
	customer := b.req.Customer
	customer.Name = strings.TrimSpace(customer.Name)

	created, err := uc.reservations.CreateReservation(txCtx, &domain.Reservation{
		PartySize:       b.req.PartySize,
		Date:            b.req.Date,
		StartTime:       b.req.StartTime,
		DurationMinutes: b.duration,
		RoomFilter:      b.req.RoomFilter,
		Status:          status,
		Category:        category,
		Customer:        customer,
		TableIDs:        comb.TableIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("create reservation: %w", err)
	}
	return created, nil
}

func (uc *UseCase) mapCommitError(err error) error {
	switch {
	case errors.Is(err, guard.ErrBusy):
		uc.logger.Warn("CreateReservation: critical section busy: %v", err)
		return fmt.Errorf("%w: %v", ErrBusy, err)
	case errors.Is(err, guard.ErrConflict):
		uc.logger.Warn("CreateReservation: serialization conflict: %v", err)
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case errors.Is(err, ErrConflict):
		uc.logger.Warn("CreateReservation: %v", err)
		return err
	default:
		uc.logger.Error("CreateReservation: failed to commit: %v", err)
		return fmt.Errorf("%w: failed to commit: %v", ErrInternal, err)
	}
}

func (uc *UseCase) observe(err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		uc.metrics.ObserveBooking(outcomeInvalid)
	case errors.Is(err, ErrNoAvailability):
		uc.metrics.ObserveBooking(outcomeNoAvailability)
	case errors.Is(err, ErrConflict):
		uc.metrics.ObserveBooking(outcomeConflict)
	case errors.Is(err, ErrBusy):
		uc.metrics.ObserveBooking(outcomeBusy)
	default:
		uc.metrics.ObserveBooking(outcomeError)
	}
}
