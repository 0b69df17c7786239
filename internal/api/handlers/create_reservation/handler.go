package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TableBooking/internal/api/handlers"
	createReservation "github.com/m04kA/SMC-TableBooking/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени начала, ожидается HH:MM"
	msgInvalidDuration    = "некорректная длительность, укажите durationMinutes или durationHours"
	msgInvalidStatus      = "некорректный статус, допустимо pending или confirmed"
	msgNoAvailability     = "нет свободных столов на выбранное время"
	msgConflict           = "столы заняли параллельно, повторите запрос"
	msgBusy               = "бронирование на эту дату сейчас занято, повторите запрос позже"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse request: %v", err)
		switch {
		case errors.Is(err, errInvalidTime):
			handlers.RespondBadRequest(w, msgInvalidTime)
		case errors.Is(err, errInvalidDuration):
			handlers.RespondBadRequest(w, msgInvalidDuration)
		case errors.Is(err, errInvalidStatus):
			handlers.RespondBadRequest(w, msgInvalidStatus)
		default:
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid request: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, createReservation.ErrNoAvailability):
			h.logger.Warn("POST /reservations - No availability: date=%s, time=%s, party=%d",
				req.Date, req.StartTime, req.PartySize)
			handlers.RespondConflict(w, msgNoAvailability)

		case errors.Is(err, createReservation.ErrConflict):
			h.logger.Warn("POST /reservations - Conflict: date=%s, time=%s, party=%d",
				req.Date, req.StartTime, req.PartySize)
			handlers.RespondConflict(w, msgConflict)

		case errors.Is(err, createReservation.ErrBusy):
			h.logger.Warn("POST /reservations - Busy: date=%s", req.Date)
			handlers.RespondBusy(w, msgBusy)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: date=%s, time=%s, error=%v",
				req.Date, req.StartTime, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations - Reservation created: id=%d, tables=%v", result.ID, result.TableIDs)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
