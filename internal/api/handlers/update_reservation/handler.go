package update_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TableBooking/internal/api/handlers"
	updateReservation "github.com/m04kA/SMC-TableBooking/internal/usecase/update_reservation"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidTime          = "некорректный формат времени начала, ожидается HH:MM"
	msgInvalidDuration      = "некорректная длительность, укажите durationMinutes или durationHours"
	msgNotFound             = "бронирование не найдено"
	msgNotActive            = "бронирование уже завершено или отменено"
	msgNoAvailability       = "нет свободных столов под новые параметры"
	msgBusy                 = "бронирование на эту дату сейчас занято, повторите запрос позже"
	msgConflict             = "бронирование изменили параллельно, повторите запрос"
)

type Handler struct {
	useCase UpdateReservationUseCase
	logger  Logger
}

func NewHandler(useCase UpdateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/reservations/{reservationId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathID(r, "reservationId")
	if err != nil {
		h.logger.Warn("PATCH /reservations/{id} - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	var req UpdateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /reservations/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(reservationID)
	if err != nil {
		h.logger.Warn("PATCH /reservations/{id} - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidDuration) {
			handlers.RespondBadRequest(w, msgInvalidDuration)
		} else {
			handlers.RespondBadRequest(w, msgInvalidTime)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, updateReservation.ErrInvalidInput):
			h.logger.Warn("PATCH /reservations/{id} - Invalid request: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, updateReservation.ErrReservationNotFound):
			h.logger.Warn("PATCH /reservations/{id} - Reservation not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, updateReservation.ErrNotActive):
			handlers.RespondConflict(w, msgNotActive)

		case errors.Is(err, updateReservation.ErrNoAvailability):
			h.logger.Warn("PATCH /reservations/{id} - No availability: reservation_id=%d", reservationID)
			handlers.RespondConflict(w, msgNoAvailability)

		case errors.Is(err, updateReservation.ErrBusy):
			handlers.RespondBusy(w, msgBusy)

		case errors.Is(err, updateReservation.ErrConflict):
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("PATCH /reservations/{id} - Failed to update reservation: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /reservations/{id} - Reservation updated: reservation_id=%d, tables=%v", reservationID, result.TableIDs)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
