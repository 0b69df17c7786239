package create_reservation

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Проверяем, что время начала указано
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	// Валидируем формат времени
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
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

	switch req.Status {
	case "", domain.StatusPending, domain.StatusConfirmed:
	default:
		return fmt.Errorf("%w: new reservation status must be pending or confirmed", ErrInvalidInput)
	}

	name := strings.TrimSpace(req.Customer.Name)
	if name == "" {
		return fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}
	if len(name) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: customer name must not exceed %d characters", ErrInvalidInput, domain.MaxCustomerNameLength)
	}

	if req.Customer.Notes != nil && len(*req.Customer.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}
