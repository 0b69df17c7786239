package check_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TableBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TableBooking/internal/domain"
	checkAvailability "github.com/m04kA/SMC-TableBooking/internal/usecase/check_availability"
)

const (
	msgMissingDate       = "дата обязательна"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidPartySize  = "некорректное количество гостей"
	msgInvalidDuration   = "некорректная длительность, укажите durationMinutes или durationHours"
	msgInvalidRoomID     = "некорректный ID зала"
	msgInvalidParameters = "некорректные параметры запроса"
)

type Handler struct {
	useCase CheckAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase CheckAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability
// Query params: date (required, YYYY-MM-DD), partySize (required), durationMinutes | durationHours, roomId
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /availability - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}
	date, err := handlers.ParseDate(dateStr)
	if err != nil {
		h.logger.Warn("GET /availability - Invalid date: %s", dateStr)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	partySize, err := handlers.QueryInt(r, "partySize")
	if err != nil || partySize == nil {
		h.logger.Warn("GET /availability - Invalid party size: %q", query.Get("partySize"))
		handlers.RespondBadRequest(w, msgInvalidPartySize)
		return
	}

	minutes, errMinutes := handlers.QueryInt(r, "durationMinutes")
	hours, errHours := handlers.QueryFloat(r, "durationHours")
	if errMinutes != nil || errHours != nil {
		handlers.RespondBadRequest(w, msgInvalidDuration)
		return
	}
	duration, err := handlers.DurationMinutes(minutes, hours)
	if err != nil {
		h.logger.Warn("GET /availability - Invalid duration: minutes=%q hours=%q",
			query.Get("durationMinutes"), query.Get("durationHours"))
		handlers.RespondBadRequest(w, msgInvalidDuration)
		return
	}

	roomID, err := handlers.QueryInt64(r, "roomId")
	if err != nil {
		h.logger.Warn("GET /availability - Invalid room ID: %q", query.Get("roomId"))
		handlers.RespondBadRequest(w, msgInvalidRoomID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &checkAvailability.Request{
		Date:            date,
		PartySize:       *partySize,
		DurationMinutes: duration,
		RoomFilter:      domain.RoomFilterFromPtr(roomID),
	})
	if err != nil {
		switch {
		case errors.Is(err, checkAvailability.ErrInvalidInput):
			h.logger.Warn("GET /availability - Invalid request: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParameters+": "+err.Error())
		default:
			h.logger.Error("GET /availability - Failed to check availability: date=%s, error=%v", dateStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /availability - %d slots for date=%s, party=%d", len(result.Slots), dateStr, *partySize)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
