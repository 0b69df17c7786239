package update_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	"github.com/m04kA/SMC-TableBooking/internal/service/floorplan"
	"github.com/m04kA/SMC-TableBooking/pkg/types"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetReservation(ctx context.Context, id int64) (*domain.Reservation, error)
	ListActiveClaims(ctx context.Context, date time.Time, roomIDs []int64) ([]domain.ClaimWindow, error)
	ListActiveClaimsForTables(ctx context.Context, date time.Time, tableIDs []int64) ([]domain.ClaimWindow, error)
	LockTables(ctx context.Context, tableIDs []int64) error
	ReplaceClaims(ctx context.Context, id int64, tableIDs []int64, capacityShortage bool) error
	UpdateSchedule(ctx context.Context, id int64, start types.TimeString, durationMinutes, partySize int) error
}

// CatalogRepository интерфейс каталога столов
type CatalogRepository interface {
	GetTablesByIDs(ctx context.Context, ids []int64) ([]*domain.Table, error)
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
