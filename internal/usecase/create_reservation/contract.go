package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	"github.com/m04kA/SMC-TableBooking/internal/service/floorplan"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	ListActiveClaims(ctx context.Context, date time.Time, roomIDs []int64) ([]domain.ClaimWindow, error)
	ListActiveClaimsForTables(ctx context.Context, date time.Time, tableIDs []int64) ([]domain.ClaimWindow, error)
	LockTables(ctx context.Context, tableIDs []int64) error
	CreateReservation(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
}

// FloorService интерфейс загрузки залов и столов
type FloorService interface {
	Floor(ctx context.Context, filter domain.RoomFilter) (*floorplan.Floor, error)
}

// HoursProvider интерфейс рабочих часов ресторана
type HoursProvider interface {
	HoursFor(ctx context.Context, date time.Time) (domain.DaySchedule, error)
}

// SettingsProvider интерфейс снимка настроек бронирования
type SettingsProvider interface {
	Snapshot(ctx context.Context) (domain.BookingSettings, error)
}

// Guard интерфейс критической секции (блокировка даты + сериализуемая транзакция)
type Guard interface {
	Run(ctx context.Context, date time.Time, fn func(ctx context.Context) error) error
}

// Recorder интерфейс метрик бронирования
type Recorder interface {
	ObserveBooking(outcome string)
	ObserveConflictRetry()
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
