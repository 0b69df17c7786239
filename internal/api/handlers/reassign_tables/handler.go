package reassign_tables

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TableBooking/internal/api/handlers"
	reassignTables "github.com/m04kA/SMC-TableBooking/internal/usecase/reassign_tables"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgNotFound             = "бронирование не найдено"
	msgNotActive            = "бронирование уже завершено или отменено"
	msgTableUnavailable     = "стол не найден или неактивен"
	msgNotCombinable        = "несколько столов можно назначить только если все они совмещаемые"
	msgClaimedByOthers      = "столы заняты другими бронированиями в это время"
	msgBusy                 = "бронирование на эту дату сейчас занято, повторите запрос позже"
	msgConflict             = "бронирование изменили параллельно, повторите запрос"
)

type Handler struct {
	useCase ReassignTablesUseCase
	logger  Logger
}

func NewHandler(useCase ReassignTablesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/reservations/{reservationId}/tables
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathID(r, "reservationId")
	if err != nil {
		h.logger.Warn("PUT /reservations/{id}/tables - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	var req ReassignTablesRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /reservations/{id}/tables - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &reassignTables.Request{
		ReservationID: reservationID,
		TableIDs:      req.TableIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, reassignTables.ErrInvalidInput):
			h.logger.Warn("PUT /reservations/{id}/tables - Invalid request: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, reassignTables.ErrReservationNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, reassignTables.ErrNotActive):
			handlers.RespondConflict(w, msgNotActive)

		case errors.Is(err, reassignTables.ErrTableUnavailable):
			handlers.RespondBadRequest(w, msgTableUnavailable)

		case errors.Is(err, reassignTables.ErrNotCombinable):
			handlers.RespondBadRequest(w, msgNotCombinable)

		case errors.Is(err, reassignTables.ErrConflictWithOtherClaims):
			h.logger.Warn("PUT /reservations/{id}/tables - Tables claimed by others: reservation_id=%d, tables=%v",
				reservationID, req.TableIDs)
			handlers.RespondConflict(w, msgClaimedByOthers)

		case errors.Is(err, reassignTables.ErrBusy):
			handlers.RespondBusy(w, msgBusy)

		case errors.Is(err, reassignTables.ErrConflict):
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("PUT /reservations/{id}/tables - Failed to reassign tables: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /reservations/{id}/tables - Tables reassigned: reservation_id=%d, tables=%v, shortage=%t",
		reservationID, result.TableIDs, result.CapacityShortage)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
