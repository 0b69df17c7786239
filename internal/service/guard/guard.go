// Package guard runs booking decisions inside the critical section:
// the per-date lock plus a serializable transaction.
package guard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	"github.com/m04kA/SMC-TableBooking/internal/infra/lock"
	"github.com/m04kA/SMC-TableBooking/pkg/txmanager"
)

// Guard критическая секция бронирования
type Guard struct {
	locker  Locker
	tx      TransactionManager
	metrics LockObserver
}

// New создает критическую секцию
func New(locker Locker, tx TransactionManager, metrics LockObserver) *Guard {
	return &Guard{
		locker:  locker,
		tx:      tx,
		metrics: metrics,
	}
}

// Run выполняет fn под блокировкой даты и в сериализуемой транзакции.
// Таймаут блокировки (в том числе блокировки строк в Postgres) превращается в ErrBusy,
// ошибка сериализации - в ErrConflict. Остальные ошибки fn возвращаются как есть.
func (g *Guard) Run(ctx context.Context, date time.Time, fn func(ctx context.Context) error) error {
	started := time.Now()
	release, err := g.locker.Acquire(ctx, domain.LockKey(date))
	g.metrics.ObserveLockWait(err == nil, time.Since(started))
	if err != nil {
		if errors.Is(err, lock.ErrLockTimeout) {
			return fmt.Errorf("%w: %v", ErrBusy, err)
		}
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer release()

	err = g.tx.DoSerializable(ctx, fn)
	switch {
	case err == nil:
		return nil
	case txmanager.IsLockTimeout(err):
		return fmt.Errorf("%w: %w", ErrBusy, err)
	case txmanager.IsSerializationFailure(err):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	default:
		return err
	}
}
