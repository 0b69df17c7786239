// Package lock provides keyed mutual exclusion for booking decisions.
// Keys are reservation dates, so bookings of different days never wait on each other.
package lock

import "context"

// Release освобождает блокировку. Повторный вызов безопасен.
type Release func()

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Locker захватывает блокировку по ключу с ограниченным ожиданием
type Locker interface {
	Acquire(ctx context.Context, key string) (Release, error)
}
