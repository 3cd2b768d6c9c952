package mutex

import (
	"context"
	"time"
)

type backendMutex struct {
	backend Backend
	timer   timer
	options backendOptions
}

var _ Mutex = &backendMutex{}

// NewBackendMutex creates a Mutex polling the backend with backoff until the timeout elapses
func NewBackendMutex(backend Backend, options ...Option) Mutex {
	return newBackendMutex(backend, realTimer{}, options...)
}

func newBackendMutex(backend Backend, t timer, options ...Option) *backendMutex {
	return &backendMutex{
		backend: backend,
		timer:   t,
		options: newBackendOptions(options...),
	}
}

// Acquire ...
func (m *backendMutex) Acquire(ctx context.Context, key string, timeout time.Duration) (Handle, error) {
	deadline := m.timer.Now().Add(timeout)
	delay := m.options.retryMin

	for {
		token, ok, err := m.backend.TryAcquire(key, m.options.ttl)
		if err != nil {
			return Handle{}, err
		}
		if ok {
			return Handle{Key: key, Token: token}, nil
		}

		left := deadline.Sub(m.timer.Now())
		if left <= 0 {
			return Handle{}, ErrTimeout
		}
		if delay > left {
			delay = left
		}

		if err := m.timer.Sleep(ctx, delay); err != nil {
			return Handle{}, err
		}

		delay *= 2
		if delay > m.options.retryMax {
			delay = m.options.retryMax
		}
	}
}

// Release ...
func (m *backendMutex) Release(_ context.Context, h Handle) error {
	return m.backend.Release(h.Key, h.Token)
}
