package reassign_tables

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetReservation(ctx context.Context, id int64) (*domain.Reservation, error)
	ListActiveClaimsForTables(ctx context.Context, date time.Time, tableIDs []int64) ([]domain.ClaimWindow, error)
	LockTables(ctx context.Context, tableIDs []int64) error
	ReplaceClaims(ctx context.Context, id int64, tableIDs []int64, capacityShortage bool) error
}

// CatalogRepository интерфейс каталога столов
type CatalogRepository interface {
	GetTablesByIDs(ctx context.Context, ids []int64) ([]*domain.Table, error)
}

// Guard интерфейс критической секции (блокировка даты + сериализуемая транзакция)
type Guard interface {
	Run(ctx context.Context, date time.Time, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
