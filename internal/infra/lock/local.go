package lock

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	ch   chan struct{}
	refs int
}

// Local блокировка по ключу в пределах одного процесса
type Local struct {
	mu          sync.Mutex
	entries     map[string]*entry
	waitTimeout time.Duration
}

// NewLocal создает локальную блокировку. waitTimeout <= 0 означает ожидание до отмены контекста.
func NewLocal(waitTimeout time.Duration) *Local {
	return &Local{
		entries:     make(map[string]*entry),
		waitTimeout: waitTimeout,
	}
}

// Acquire захватывает блокировку key.
// Возвращает ErrLockTimeout по истечении waitTimeout и ошибку контекста при его отмене.
func (l *Local) Acquire(ctx context.Context, key string) (Release, error) {
	e := l.ref(key)

	var timeout <-chan time.Time
	if l.waitTimeout > 0 {
		timer := time.NewTimer(l.waitTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case e.ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-e.ch
				l.unref(key)
			})
		}, nil
	case <-timeout:
		l.unref(key)
		return nil, ErrLockTimeout
	case <-ctx.Done():
		l.unref(key)
		return nil, ctx.Err()
	}
}

func (l *Local) ref(key string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	return e
}

func (l *Local) unref(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		return
	}
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}

// size количество ключей, по которым есть владельцы или ожидающие
func (l *Local) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
