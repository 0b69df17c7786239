package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	settingsRepo "github.com/m04kA/SMC-TableBooking/internal/infra/storage/settings"
	"github.com/m04kA/SMC-TableBooking/internal/service/settings/models"
)

// Service сервис настроек бронирования
type Service struct {
	repo     SettingsRepository
	defaults domain.BookingSettings
	logger   Logger
}

// NewService создает новый экземпляр сервиса настроек.
// defaults используются, пока настройки не сохранены в хранилище.
func NewService(repo SettingsRepository, defaults domain.BookingSettings, logger Logger) *Service {
	return &Service{
		repo:     repo,
		defaults: defaults,
		logger:   logger,
	}
}

// Snapshot возвращает настройки, действующие на момент запроса.
// Движок получает их явно и не читает настройки повторно.
func (s *Service) Snapshot(ctx context.Context) (domain.BookingSettings, error) {
	settings, _, err := s.load(ctx)
	return settings, err
}

// Get возвращает текущие настройки для API
func (s *Service) Get(ctx context.Context) (*models.SettingsResponse, error) {
	settings, isDefault, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return models.FromDomainSettings(settings, isDefault), nil
}

// Update обновляет настройки бронирования
func (s *Service) Update(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("Update: updating booking settings")

	// 1. Получаем текущие настройки (или значения по умолчанию)
	current, _, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	// 2. Накладываем изменения и валидируем результат целиком
	updated := req.Apply(current)
	if err := Validate(updated); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, err
	}

	// 3. Сохраняем
	saved, err := s.repo.UpsertSettings(ctx, updated)
	if err != nil {
		s.logger.Error("Update: repository error: %v", err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: settings saved: step=%d, duration=%d, minLead=%d, maxLeadDays=%d, maxParty=%d, policy=%s",
		saved.SlotStepMinutes, saved.DefaultDurationMinutes, saved.MinLeadMinutes,
		saved.MaxLeadDays, saved.MaxPartySize, saved.RoomPolicy)
	return models.FromDomainSettings(*saved, false), nil
}

func (s *Service) load(ctx context.Context) (domain.BookingSettings, bool, error) {
	stored, err := s.repo.GetSettings(ctx)
	if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
		return s.defaults, true, nil
	}
	if err != nil {
		s.logger.Error("Snapshot: repository error: %v", err)
		return domain.BookingSettings{}, false, fmt.Errorf("%w: Snapshot - repository error: %v", ErrInternal, err)
	}
	return *stored, false, nil
}
