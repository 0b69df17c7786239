package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_AcquireRelease(t *testing.T) {
	l := NewLocal(time.Second)

	release, err := l.Acquire(context.Background(), "reservation:2025-10-15")
	require.NoError(t, err)
	assert.Equal(t, 1, l.size())

	release()
	release()
	assert.Equal(t, 0, l.size())

	release, err = l.Acquire(context.Background(), "reservation:2025-10-15")
	require.NoError(t, err)
	release()
}

func TestLocal_Timeout(t *testing.T) {
	l := NewLocal(20 * time.Millisecond)

	release, err := l.Acquire(context.Background(), "k")
	require.NoError(t, err)
	defer release()

	_, err = l.Acquire(context.Background(), "k")
	assert.ErrorIs(t, err, ErrLockTimeout)
	assert.Equal(t, 1, l.size())
}

func TestLocal_ContextCancel(t *testing.T) {
	l := NewLocal(0)

	release, err := l.Acquire(context.Background(), "k")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = l.Acquire(ctx, "k")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLocal_DifferentKeysDoNotBlock(t *testing.T) {
	l := NewLocal(20 * time.Millisecond)

	r1, err := l.Acquire(context.Background(), "reservation:2025-10-15")
	require.NoError(t, err)
	defer r1()

	r2, err := l.Acquire(context.Background(), "reservation:2025-10-16")
	require.NoError(t, err)
	defer r2()

	assert.Equal(t, 2, l.size())
}

func TestLocal_MutualExclusion(t *testing.T) {
	l := NewLocal(5 * time.Second)

	var (
		inside  int32
		maxSeen int32
		wg      sync.WaitGroup
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Acquire(context.Background(), "k")
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			if n > atomic.LoadInt32(&maxSeen) {
				atomic.StoreInt32(&maxSeen, n)
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&maxSeen))
	assert.Equal(t, 0, l.size())
}
