package update_reservation

import (
	"errors"

	"github.com/m04kA/SMC-TableBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TableBooking/internal/domain"
	updateReservation "github.com/m04kA/SMC-TableBooking/internal/usecase/update_reservation"
	"github.com/m04kA/SMC-TableBooking/pkg/types"
)

var (
	errInvalidTime     = errors.New("invalid start time")
	errInvalidDuration = errors.New("invalid duration")
)

// UpdateReservationRequest HTTP request model. Отсутствующие поля не меняются.
type UpdateReservationRequest struct {
	StartTime       *string  `json:"startTime,omitempty"`
	DurationMinutes *int     `json:"durationMinutes,omitempty"`
	DurationHours   *float64 `json:"durationHours,omitempty"`
	PartySize       *int     `json:"partySize,omitempty"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID               int64   `json:"id"`
	Date             string  `json:"date"`
	StartTime        string  `json:"startTime"`
	DurationMinutes  int     `json:"durationMinutes"`
	PartySize        int     `json:"partySize"`
	TableIDs         []int64 `json:"tableIds"`
	TotalCapacity    int     `json:"totalCapacity"`
	CapacityShortage bool    `json:"capacityShortage"`
	Reseated         bool    `json:"reseated"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateReservationRequest) ToUseCaseRequest(id int64) (*updateReservation.Request, error) {
	req := &updateReservation.Request{
		ReservationID: id,
		PartySize:     r.PartySize,
	}

	if r.StartTime != nil {
		start, err := types.NewTimeStringFromString(*r.StartTime)
		if err != nil {
			return nil, errInvalidTime
		}
		req.StartTime = &start
	}

	if r.DurationMinutes != nil || r.DurationHours != nil {
		duration, err := handlers.DurationMinutes(r.DurationMinutes, r.DurationHours)
		if err != nil {
			return nil, errInvalidDuration
		}
		req.DurationMinutes = &duration
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateReservation.Response) *ReservationResponse {
	return &ReservationResponse{
		ID:               resp.ID,
		Date:             resp.Date.Format(domain.DateFormat),
		StartTime:        resp.StartTime.String(),
		DurationMinutes:  resp.DurationMinutes,
		PartySize:        resp.PartySize,
		TableIDs:         resp.TableIDs,
		TotalCapacity:    resp.TotalCapacity,
		CapacityShortage: resp.CapacityShortage,
		Reseated:         resp.Reseated,
	}
}
