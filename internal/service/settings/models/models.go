package models

import (
	"time"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
)

// Request модели

// UpdateSettingsRequest запрос на обновление настроек бронирования
// Все поля опциональны - обновляются только переданные значения
type UpdateSettingsRequest struct {
	SlotStepMinutes        *int    `json:"slotStepMinutes,omitempty"`
	DefaultDurationMinutes *int    `json:"defaultDurationMinutes,omitempty"`
	MinLeadMinutes         *int    `json:"minLeadMinutes,omitempty"`
	MaxLeadDays            *int    `json:"maxLeadDays,omitempty"` // 0 = без ограничений
	MaxPartySize           *int    `json:"maxPartySize,omitempty"`
	RoomPolicy             *string `json:"roomPolicy,omitempty"` // best_fit | first_fit
}

// Apply накладывает переданные значения на текущие настройки
func (r *UpdateSettingsRequest) Apply(current domain.BookingSettings) domain.BookingSettings {
	updated := current
	if r.SlotStepMinutes != nil {
		updated.SlotStepMinutes = *r.SlotStepMinutes
	}
	if r.DefaultDurationMinutes != nil {
		updated.DefaultDurationMinutes = *r.DefaultDurationMinutes
	}
	if r.MinLeadMinutes != nil {
		updated.MinLeadMinutes = *r.MinLeadMinutes
	}
	if r.MaxLeadDays != nil {
		updated.MaxLeadDays = *r.MaxLeadDays
	}
	if r.MaxPartySize != nil {
		updated.MaxPartySize = *r.MaxPartySize
	}
	if r.RoomPolicy != nil {
		updated.RoomPolicy = domain.RoomPolicy(*r.RoomPolicy)
	}
	return updated
}

// Response модели

// SettingsResponse ответ с настройками бронирования
type SettingsResponse struct {
	SlotStepMinutes        int        `json:"slotStepMinutes"`
	DefaultDurationMinutes int        `json:"defaultDurationMinutes"`
	MinLeadMinutes         int        `json:"minLeadMinutes"`
	MaxLeadDays            int        `json:"maxLeadDays"`
	MaxPartySize           int        `json:"maxPartySize"`
	RoomPolicy             string     `json:"roomPolicy"`
	IsDefault              bool       `json:"isDefault"` // настройки не сохранены, используются значения из конфига
	UpdatedAt              *time.Time `json:"updatedAt,omitempty"`
}

// FromDomainSettings конвертирует domain модель в DTO
func FromDomainSettings(s domain.BookingSettings, isDefault bool) *SettingsResponse {
	resp := &SettingsResponse{
		SlotStepMinutes:        s.SlotStepMinutes,
		DefaultDurationMinutes: s.DefaultDurationMinutes,
		MinLeadMinutes:         s.MinLeadMinutes,
		MaxLeadDays:            s.MaxLeadDays,
		MaxPartySize:           s.MaxPartySize,
		RoomPolicy:             string(s.RoomPolicy),
		IsDefault:              isDefault,
	}
	if !s.UpdatedAt.IsZero() {
		updatedAt := s.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}
