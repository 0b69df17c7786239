package reservations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	reservationRepo "github.com/m04kA/SMC-TableBooking/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-TableBooking/internal/service/guard"
	"github.com/m04kA/SMC-TableBooking/internal/service/reservations/models"
	"github.com/m04kA/SMC-TableBooking/pkg/ptr"
)

// Service сервис жизненного цикла бронирований
type Service struct {
	reservationRepo ReservationRepository
	guard           Guard
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(reservationRepo ReservationRepository, guard Guard, logger Logger) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		guard:           guard,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет часы (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d", id)

	reservation, err := s.reservationRepo.GetReservation(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByID: reservation id=%d not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByID: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainReservation(reservation), nil
}

// ListByDate получает бронирования за дату, отсортированные по времени начала.
// По умолчанию возвращаются только активные бронирования.
func (s *Service) ListByDate(ctx context.Context, req *models.ListReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("ListByDate: date=%s, includeInactive=%t", req.Date.Format(domain.DateFormat), req.IncludeInactive)

	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	filter := domain.ReservationsFilter{
		Date:            req.Date,
		RoomID:          req.RoomID,
		IncludeInactive: req.IncludeInactive,
	}
	if req.Status != nil {
		status, ok := domain.ParseReservationStatus(*req.Status)
		if !ok {
			s.logger.Warn("ListByDate: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
		// Фильтр по неактивному статусу без includeInactive всегда был бы пустым
		if !status.IsActive() {
			filter.IncludeInactive = true
		}
	}

	list, err := s.reservationRepo.ListReservations(ctx, filter)
	if err != nil {
		s.logger.Error("ListByDate: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListByDate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByDate: fetched %d reservations for %s", len(list), req.Date.Format(domain.DateFormat))
	return models.FromDomainReservationList(req.Date, list), nil
}

// Cancel отменяет бронирование. Столы освобождаются сразу:
// отмена проходит через ту же критическую секцию, что и создание.
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelRequest) error {
	s.logger.Info("Cancel: cancelling reservation id=%d", id)

	var reason *string
	if req != nil && req.Reason != nil {
		trimmed := strings.TrimSpace(*req.Reason)
		if len(trimmed) > domain.MaxCancellationReasonLength {
			return fmt.Errorf("%w: reason must not exceed %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
		}
		if trimmed != "" {
			reason = ptr.Ptr(trimmed)
		}
	}

	current, err := s.get(ctx, "Cancel", id)
	if err != nil {
		return err
	}

	err = s.guard.Run(ctx, current.Date, func(txCtx context.Context) error {
		reservation, err := s.reservationRepo.GetReservation(txCtx, id)
		if err != nil {
			return s.repoError(err)
		}
		if !reservation.CanBeCancelled() {
			return fmt.Errorf("%w: status=%s", ErrAlreadyTerminal, reservation.Status)
		}
		if err := s.reservationRepo.CancelReservation(txCtx, id, reason, s.timeProvider.Now()); err != nil {
			return s.repoError(err)
		}
		return nil
	})
	if err != nil {
		return s.mapError("Cancel", id, err)
	}

	s.logger.Info("Cancel: reservation id=%d cancelled", id)
	return nil
}

// UpdateStatus меняет статус бронирования.
// Допустимо pending → confirmed и pending|confirmed → completed; отмена выполняется через Cancel.
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating reservation id=%d to status=%s", id, req.Status)

	next, ok := domain.ParseReservationStatus(req.Status)
	if !ok {
		s.logger.Warn("UpdateStatus: invalid status=%s for reservation id=%d", req.Status, id)
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}
	if next == domain.StatusCancelled {
		return fmt.Errorf("%w: use the cancel operation to cancel a reservation", ErrInvalidInput)
	}

	current, err := s.get(ctx, "UpdateStatus", id)
	if err != nil {
		return err
	}

	err = s.guard.Run(ctx, current.Date, func(txCtx context.Context) error {
		reservation, err := s.reservationRepo.GetReservation(txCtx, id)
		if err != nil {
			return s.repoError(err)
		}
		if reservation.Status.IsTerminal() {
			return fmt.Errorf("%w: status=%s", ErrAlreadyTerminal, reservation.Status)
		}
		if !reservation.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, reservation.Status, next)
		}
		if err := s.reservationRepo.UpdateReservationStatus(txCtx, id, next); err != nil {
			return s.repoError(err)
		}
		return nil
	})
	if err != nil {
		return s.mapError("UpdateStatus", id, err)
	}

	s.logger.Info("UpdateStatus: reservation id=%d moved to status=%s", id, next)
	return nil
}

// Вспомогательные методы

func (s *Service) get(ctx context.Context, op string, id int64) (*domain.Reservation, error) {
	reservation, err := s.reservationRepo.GetReservation(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("%s: reservation id=%d not found", op, id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("%s: repository error for reservation id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return reservation, nil
}

func (s *Service) repoError(err error) error {
	if errors.Is(err, reservationRepo.ErrReservationNotFound) {
		return ErrReservationNotFound
	}
	return fmt.Errorf("repository: %w", err)
}

func (s *Service) mapError(op string, id int64, err error) error {
	switch {
	case errors.Is(err, guard.ErrBusy):
		s.logger.Warn("%s: critical section busy for reservation id=%d: %v", op, id, err)
		return fmt.Errorf("%w: %v", ErrBusy, err)
	case errors.Is(err, guard.ErrConflict):
		s.logger.Warn("%s: serialization conflict for reservation id=%d: %v", op, id, err)
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case errors.Is(err, ErrReservationNotFound),
		errors.Is(err, ErrAlreadyTerminal),
		errors.Is(err, ErrInvalidTransition):
		s.logger.Warn("%s: reservation id=%d rejected: %v", op, id, err)
		return err
	default:
		s.logger.Error("%s: failed for reservation id=%d: %v", op, id, err)
		return fmt.Errorf("%w: %s - %v", ErrInternal, op, err)
	}
}
