package check_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	"github.com/m04kA/SMC-TableBooking/internal/service/floorplan"
)

// FloorService интерфейс загрузки залов и столов
type FloorService interface {
	Floor(ctx context.Context, filter domain.RoomFilter) (*floorplan.Floor, error)
}

// HoursProvider интерфейс рабочих часов ресторана
type HoursProvider interface {
	HoursFor(ctx context.Context, date time.Time) (domain.DaySchedule, error)
}

// ClaimsReader интерфейс чтения занятых столов
type ClaimsReader interface {
	ListActiveClaims(ctx context.Context, date time.Time, roomIDs []int64) ([]domain.ClaimWindow, error)
}

// SettingsProvider интерфейс снимка настроек бронирования
type SettingsProvider interface {
	Snapshot(ctx context.Context) (domain.BookingSettings, error)
}

// SearchObserver интерфейс метрик поиска
type SearchObserver interface {
	ObserveSearch(operation string, d time.Duration)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
