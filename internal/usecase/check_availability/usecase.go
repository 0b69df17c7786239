package check_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	"github.com/m04kA/SMC-TableBooking/internal/engine/combination"
	"github.com/m04kA/SMC-TableBooking/internal/engine/ledger"
	"github.com/m04kA/SMC-TableBooking/internal/engine/slots"
	"github.com/m04kA/SMC-TableBooking/internal/service/floorplan"
)

// UseCase use case проверки доступности.
// Только читает данные и ничего не блокирует: результат носит рекомендательный характер.
type UseCase struct {
	floors       FloorService
	hours        HoursProvider
	claims       ClaimsReader
	settings     SettingsProvider
	metrics      SearchObserver
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	floors FloorService,
	hours HoursProvider,
	claims ClaimsReader,
	settings SettingsProvider,
	metrics SearchObserver,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		floors:       floors,
		hours:        hours,
		claims:       claims,
		settings:     settings,
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

// Execute возвращает времена начала, на которые есть подходящая комбинация столов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckAvailability: date=%s, party=%d, duration=%d, room=%s",
		req.Date.Format(domain.DateFormat), req.PartySize, req.DurationMinutes, req.RoomFilter)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CheckAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Снимок настроек на время запроса
	settings, err := uc.settings.Snapshot(ctx)
	if err != nil {
		uc.logger.Error("CheckAvailability: failed to load settings: %v", err)
		return nil, fmt.Errorf("%w: failed to load settings: %v", ErrInternal, err)
	}

	if req.PartySize > settings.MaxPartySize {
		uc.logger.Warn("CheckAvailability: party size %d exceeds limit %d", req.PartySize, settings.MaxPartySize)
		return nil, fmt.Errorf("%w: partySize must not exceed %d", ErrInvalidInput, settings.MaxPartySize)
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = settings.DefaultDurationMinutes
	}

	response := &Response{
		Date:            req.Date,
		PartySize:       req.PartySize,
		DurationMinutes: duration,
		Slots:           []Slot{},
	}

	// 3. Рабочие часы и план слотов
	hours, err := uc.hours.HoursFor(ctx, req.Date)
	if err != nil {
		uc.logger.Error("CheckAvailability: failed to get working hours: %v", err)
		return nil, fmt.Errorf("%w: failed to get working hours: %v", ErrInternal, err)
	}

	plan, err := slots.Generate(slots.Request{
		Date:            req.Date,
		DurationMinutes: duration,
		Now:             uc.timeProvider.Now(),
		Hours:           hours,
		Settings:        settings,
		Location:        uc.location,
	})
	if errors.Is(err, slots.ErrClosed) {
		uc.logger.Info("CheckAvailability: closed on %s", req.Date.Format(domain.DateFormat))
		response.Closed = true
		return response, nil
	}
	if err != nil {
		uc.logger.Error("CheckAvailability: failed to build slot plan: %v", err)
		return nil, fmt.Errorf("%w: failed to build slot plan: %v", ErrInternal, err)
	}

	// 4. Залы и столы
	floor, err := uc.floors.Floor(ctx, req.RoomFilter)
	if err != nil {
		if errors.Is(err, floorplan.ErrRoomNotFound) {
			uc.logger.Warn("CheckAvailability: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		uc.logger.Error("CheckAvailability: failed to load floor: %v", err)
		return nil, fmt.Errorf("%w: failed to load floor: %v", ErrInternal, err)
	}
	if len(floor.Tables) == 0 {
		return response, nil
	}

	// 5. Занятые столы на дату читаются один раз
	claims, err := uc.claims.ListActiveClaims(ctx, req.Date, floor.RoomIDs())
	if err != nil {
		uc.logger.Error("CheckAvailability: failed to list claims: %v", err)
		return nil, fmt.Errorf("%w: failed to list claims: %v", ErrInternal, err)
	}

	// 6. Поиск комбинации для каждого слота
	started := time.Now()
	for start := range plan.All() {
		window, err := domain.NewWindow(start, duration)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid window %s: %v", ErrInternal, start, err)
		}

		busy := ledger.BusyTables(claims, window, 0)
		comb, err := combination.SearchRooms(req.PartySize, floor.Candidates(busy), settings.RoomPolicy)
		if err != nil {
			continue
		}

		response.Slots = append(response.Slots, Slot{
			StartTime:     start,
			RoomID:        comb.RoomID,
			TableIDs:      comb.TableIDs,
			TotalCapacity: comb.TotalCapacity,
		})
	}
	uc.metrics.ObserveSearch("availability", time.Since(started))

	uc.logger.Info("CheckAvailability: %d slots available on %s for party=%d",
		len(response.Slots), req.Date.Format(domain.DateFormat), req.PartySize)
	return response, nil
}
