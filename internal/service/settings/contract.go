package settings

import (
	"context"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
)

// SettingsRepository интерфейс репозитория настроек бронирования
type SettingsRepository interface {
	GetSettings(ctx context.Context) (*domain.BookingSettings, error)
	UpsertSettings(ctx context.Context, settings domain.BookingSettings) (*domain.BookingSettings, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
