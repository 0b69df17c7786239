package check_availability

import (
	"github.com/m04kA/SMC-TableBooking/internal/domain"
	checkAvailability "github.com/m04kA/SMC-TableBooking/internal/usecase/check_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Date            string         `json:"date"`
	PartySize       int            `json:"partySize"`
	DurationMinutes int            `json:"durationMinutes"`
	Closed          bool           `json:"closed"`
	Slots           []SlotResponse `json:"slots"`
}

// SlotResponse время начала и столы, которые были бы выбраны
type SlotResponse struct {
	StartTime     string  `json:"startTime"`
	RoomID        int64   `json:"roomId"`
	TableIDs      []int64 `json:"tableIds"`
	TotalCapacity int     `json:"totalCapacity"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkAvailability.Response) *AvailabilityResponse {
	result := &AvailabilityResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		PartySize:       resp.PartySize,
		DurationMinutes: resp.DurationMinutes,
		Closed:          resp.Closed,
		Slots:           make([]SlotResponse, 0, len(resp.Slots)),
	}
	for _, s := range resp.Slots {
		result.Slots = append(result.Slots, SlotResponse{
			StartTime:     s.StartTime.String(),
			RoomID:        s.RoomID,
			TableIDs:      s.TableIDs,
			TotalCapacity: s.TotalCapacity,
		})
	}
	return result
}
