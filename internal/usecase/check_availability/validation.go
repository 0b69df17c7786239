package check_availability

import (
	"fmt"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.PartySize < domain.MinPartySize {
		return fmt.Errorf("%w: partySize must be at least %d", ErrInvalidInput, domain.MinPartySize)
	}

	// 0 = длительность по умолчанию
	if req.DurationMinutes != 0 &&
		(req.DurationMinutes < domain.MinDurationMinutes || req.DurationMinutes > domain.MaxDurationMinutes) {
		return fmt.Errorf("%w: duration must be between %d and %d minutes",
			ErrInvalidInput, domain.MinDurationMinutes, domain.MaxDurationMinutes)
	}

	if roomID, ok := req.RoomFilter.RoomID(); ok && roomID <= 0 {
		return fmt.Errorf("%w: roomId must be positive", ErrInvalidInput)
	}

	return nil
}
