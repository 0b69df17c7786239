package update_reservation

import (
	"fmt"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
)

// validateRequest проверяет запрос на изменение бронирования
func validateRequest(req *Request) error {
	if req.ReservationID <= 0 {
		return fmt.Errorf("%w: reservation id must be positive", ErrInvalidInput)
	}

	if req.StartTime == nil && req.DurationMinutes == nil && req.PartySize == nil {
		return fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	if req.StartTime != nil {
		if err := req.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
		}
	}

	if req.DurationMinutes != nil {
		d := *req.DurationMinutes
		if d < domain.MinDurationMinutes || d > domain.MaxDurationMinutes {
			return fmt.Errorf("%w: durationMinutes must be between %d and %d",
				ErrInvalidInput, domain.MinDurationMinutes, domain.MaxDurationMinutes)
		}
	}

	if req.PartySize != nil && *req.PartySize < domain.MinPartySize {
		return fmt.Errorf("%w: partySize must be at least %d", ErrInvalidInput, domain.MinPartySize)
	}

	return nil
}
