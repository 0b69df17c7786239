package guard

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TableBooking/internal/infra/lock"
)

// Locker интерфейс блокировки по ключу
type Locker interface {
	Acquire(ctx context.Context, key string) (lock.Release, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// LockObserver интерфейс метрик ожидания блокировки
type LockObserver interface {
	ObserveLockWait(acquired bool, d time.Duration)
}
