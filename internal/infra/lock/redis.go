package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	minRetryInterval = 5 * time.Millisecond
	maxRetryInterval = 100 * time.Millisecond
	releaseTimeout   = 2 * time.Second
)

// Ключ удаляется, только если им всё ещё владеет этот токен
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis распределённая блокировка через SET NX PX.
// TTL защищает от вечной блокировки при падении процесса-владельца.
type Redis struct {
	client      redis.UniversalClient
	prefix      string
	ttl         time.Duration
	waitTimeout time.Duration
	logger      Logger
}

// NewRedis создает распределённую блокировку
func NewRedis(client redis.UniversalClient, prefix string, ttl, waitTimeout time.Duration, logger Logger) *Redis {
	return &Redis{
		client:      client,
		prefix:      prefix,
		ttl:         ttl,
		waitTimeout: waitTimeout,
		logger:      logger,
	}
}

// Acquire захватывает блокировку key, повторяя попытки с растущим интервалом
func (r *Redis) Acquire(ctx context.Context, key string) (Release, error) {
	fullKey := r.prefix + key
	token := uuid.NewString()

	waitCtx := ctx
	if r.waitTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, r.waitTimeout)
		defer cancel()
	}

	interval := minRetryInterval
	for {
		ok, err := r.client.SetNX(waitCtx, fullKey, token, r.ttl).Result()
		if err == nil && ok {
			return r.release(fullKey, token), nil
		}
		if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: SetNX %s: %v", ErrLockBackend, fullKey, err)
		}

		timer := time.NewTimer(interval)
		select {
		case <-timer.C:
		case <-waitCtx.Done():
			timer.Stop()
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, ErrLockTimeout
		}
		interval = min(interval*2, maxRetryInterval)
	}
}

func (r *Redis) release(key, token string) Release {
	var once sync.Once
	return func() {
		once.Do(func() {
			// Контекст запроса к этому моменту может быть уже отменён
			ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
			defer cancel()

			deleted, err := releaseScript.Run(ctx, r.client, []string{key}, token).Int()
			if err != nil {
				r.logger.Error("Failed to release lock %s: %v", key, err)
				return
			}
			if deleted == 0 {
				r.logger.Warn("Lock %s expired before release", key)
			}
		})
	}
}
