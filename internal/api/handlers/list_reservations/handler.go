package list_reservations

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TableBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TableBooking/internal/service/reservations"
	"github.com/m04kA/SMC-TableBooking/internal/service/reservations/models"
)

const (
	msgMissingDate         = "дата обязательна"
	msgInvalidDate         = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRoomID       = "некорректный ID зала"
	msgInvalidInactiveFlag = "некорректное значение includeInactive"
	msgInvalidStatus       = "некорректный статус"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/reservations
// Query params: date (required, YYYY-MM-DD), roomId, status, includeInactive
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /reservations - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}
	date, err := handlers.ParseDate(dateStr)
	if err != nil {
		h.logger.Warn("GET /reservations - Invalid date: %s", dateStr)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	roomID, err := handlers.QueryInt64(r, "roomId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidRoomID)
		return
	}

	includeInactive, err := handlers.QueryBool(r, "includeInactive")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidInactiveFlag)
		return
	}

	req := &models.ListReservationsRequest{
		Date:            date,
		RoomID:          roomID,
		IncludeInactive: includeInactive,
	}
	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	list, err := h.service.ListByDate(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrInvalidInput):
			h.logger.Warn("GET /reservations - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /reservations - Failed to list reservations: date=%s, error=%v", dateStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /reservations - %d reservations for date=%s", len(list.Reservations), dateStr)
	handlers.RespondJSON(w, http.StatusOK, list)
}
