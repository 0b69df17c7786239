package settings

import (
	"fmt"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
)

// Validate проверяет настройки бронирования
func Validate(s domain.BookingSettings) error {
	if s.SlotStepMinutes < domain.MinSlotStepMinutes || s.SlotStepMinutes > domain.MaxSlotStepMinutes {
		return fmt.Errorf("%w: slotStepMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotStepMinutes, domain.MaxSlotStepMinutes)
	}

	if s.DefaultDurationMinutes < domain.MinDurationMinutes || s.DefaultDurationMinutes > domain.MaxDurationMinutes {
		return fmt.Errorf("%w: defaultDurationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinDurationMinutes, domain.MaxDurationMinutes)
	}

	if s.MinLeadMinutes < 0 || s.MinLeadMinutes > domain.MaxMinLeadMinutes {
		return fmt.Errorf("%w: minLeadMinutes must be between 0 and %d", ErrInvalidInput, domain.MaxMinLeadMinutes)
	}

	// 0 = без ограничений
	if s.MaxLeadDays < 0 || s.MaxLeadDays > domain.MaxLeadDaysLimit {
		return fmt.Errorf("%w: maxLeadDays must be between 0 and %d", ErrInvalidInput, domain.MaxLeadDaysLimit)
	}

	if s.HasMaxLead() && s.MaxLead() < s.MinLead() {
		return fmt.Errorf("%w: maxLeadDays must not be shorter than minLeadMinutes", ErrInvalidInput)
	}

	if s.MaxPartySize < domain.MinPartySize || s.MaxPartySize > domain.MaxPartySizeLimit {
		return fmt.Errorf("%w: maxPartySize must be between %d and %d",
			ErrInvalidInput, domain.MinPartySize, domain.MaxPartySizeLimit)
	}

	if !s.RoomPolicy.IsValid() {
		return fmt.Errorf("%w: roomPolicy must be %s or %s",
			ErrInvalidInput, domain.RoomPolicyBestFit, domain.RoomPolicyFirstFit)
	}

	return nil
}
