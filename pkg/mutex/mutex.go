package mutex

import (
	"context"
	"errors"
	"time"
)

//go:generate moq -out mutex_mocks_test.go . Backend

// ErrTimeout when the lock can not be acquired within the timeout
var ErrTimeout = errors.New("mutex: acquire timeout")

// Handle identifies an acquired lock
type Handle struct {
	Key   string
	Token uint64
}

// Mutex is a mutual exclusion service keyed by string, can be shared between goroutines
type Mutex interface {
	Acquire(ctx context.Context, key string, timeout time.Duration) (Handle, error)
	Release(ctx context.Context, h Handle) error
}

// Backend is a shared coordination store with a conditional write primitive
type Backend interface {
	// TryAcquire returns ok = false without error when the key is held by someone else
	TryAcquire(key string, ttl time.Duration) (token uint64, ok bool, err error)
	Release(key string, token uint64) error
}

type timer interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type realTimer struct {
}

func (realTimer) Now() time.Time {
	return time.Now()
}

func (realTimer) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
