package reservations

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetReservation(ctx context.Context, id int64) (*domain.Reservation, error)
	ListReservations(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error)
	UpdateReservationStatus(ctx context.Context, id int64, status domain.ReservationStatus) error
	CancelReservation(ctx context.Context, id int64, reason *string, at time.Time) error
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
