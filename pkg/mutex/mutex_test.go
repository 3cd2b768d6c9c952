package mutex

import (
	"context"
	"errors"
	"github.com/stretchr/testify/assert"
	"sync"
	"testing"
	"time"
)

func newContext() context.Context {
	return context.Background()
}

type timerMock struct {
	current    time.Time
	sleepCalls []time.Duration
}

func (t *timerMock) Now() time.Time {
	return t.current
}

func (t *timerMock) Sleep(_ context.Context, d time.Duration) error {
	t.sleepCalls = append(t.sleepCalls, d)
	t.current = t.current.Add(d)
	return nil
}

func newTimerMock() *timerMock {
	return &timerMock{
		current: time.Date(2022, 5, 7, 10, 0, 0, 0, time.UTC),
	}
}

func TestBackendMutex__Acquire_Immediately(t *testing.T) {
	backend := &BackendMock{}
	backend.TryAcquireFunc = func(key string, ttl time.Duration) (uint64, bool, error) {
		return 123, true, nil
	}
	backend.ReleaseFunc = func(key string, token uint64) error {
		return nil
	}

	timer := newTimerMock()
	m := newBackendMutex(backend, timer, WithTTL(7*time.Second))

	h, err := m.Acquire(newContext(), "campaign:1", time.Second)
	assert.Equal(t, nil, err)
	assert.Equal(t, Handle{Key: "campaign:1", Token: 123}, h)

	assert.Equal(t, 1, len(backend.TryAcquireCalls()))
	assert.Equal(t, "campaign:1", backend.TryAcquireCalls()[0].Key)
	assert.Equal(t, 7*time.Second, backend.TryAcquireCalls()[0].TTL)
	assert.Equal(t, 0, len(timer.sleepCalls))

	err = m.Release(newContext(), h)
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(backend.ReleaseCalls()))
	assert.Equal(t, uint64(123), backend.ReleaseCalls()[0].Token)
}

func TestBackendMutex__Acquire_After_Retries(t *testing.T) {
	backend := &BackendMock{}
	backend.TryAcquireFunc = func(key string, ttl time.Duration) (uint64, bool, error) {
		if len(backend.TryAcquireCalls()) < 4 {
			return 0, false, nil
		}
		return 55, true, nil
	}

	timer := newTimerMock()
	m := newBackendMutex(backend, timer,
		WithRetryDurations(10*time.Millisecond, 25*time.Millisecond))

	h, err := m.Acquire(newContext(), "campaign:1", time.Second)
	assert.Equal(t, nil, err)
	assert.Equal(t, uint64(55), h.Token)

	assert.Equal(t, []time.Duration{
		10 * time.Millisecond,
		20 * time.Millisecond,
		25 * time.Millisecond,
	}, timer.sleepCalls)
}

func TestBackendMutex__Acquire_Timeout(t *testing.T) {
	backend := &BackendMock{}
	backend.TryAcquireFunc = func(key string, ttl time.Duration) (uint64, bool, error) {
		return 0, false, nil
	}

	timer := newTimerMock()
	m := newBackendMutex(backend, timer,
		WithRetryDurations(10*time.Millisecond, 40*time.Millisecond))

	_, err := m.Acquire(newContext(), "campaign:1", 100*time.Millisecond)
	assert.Equal(t, ErrTimeout, err)

	assert.Equal(t, []time.Duration{
		10 * time.Millisecond,
		20 * time.Millisecond,
		40 * time.Millisecond,
		30 * time.Millisecond,
	}, timer.sleepCalls)
	assert.Equal(t, 5, len(backend.TryAcquireCalls()))
}

func TestBackendMutex__Acquire_Backend_Error(t *testing.T) {
	backend := &BackendMock{}
	backendErr := errors.New("connection refused")
	backend.TryAcquireFunc = func(key string, ttl time.Duration) (uint64, bool, error) {
		return 0, false, backendErr
	}

	m := newBackendMutex(backend, newTimerMock())

	_, err := m.Acquire(newContext(), "campaign:1", time.Second)
	assert.Equal(t, backendErr, err)
}

func TestLocalMutex__Timeout_While_Held(t *testing.T) {
	m := NewLocal()

	h, err := m.Acquire(newContext(), "campaign:1", time.Second)
	assert.Equal(t, nil, err)

	_, err = m.Acquire(newContext(), "campaign:1", 20*time.Millisecond)
	assert.Equal(t, ErrTimeout, err)

	// other keys are independent
	other, err := m.Acquire(newContext(), "campaign:2", 20*time.Millisecond)
	assert.Equal(t, nil, err)
	assert.Equal(t, nil, m.Release(newContext(), other))

	assert.Equal(t, nil, m.Release(newContext(), h))

	h, err = m.Acquire(newContext(), "campaign:1", 20*time.Millisecond)
	assert.Equal(t, nil, err)
	assert.Equal(t, nil, m.Release(newContext(), h))

	// double release is ignored
	assert.Equal(t, nil, m.Release(newContext(), h))
	assert.Equal(t, 0, len(m.(*localMutex).entries))
}

func TestLocalMutex__Mutual_Exclusion(t *testing.T) {
	m := NewLocal()

	const numThreads = 20
	const numLoops = 50

	counter := 0
	var wg sync.WaitGroup
	wg.Add(numThreads)
	for i := 0; i < numThreads; i++ {
		go func() {
			defer wg.Done()
			for k := 0; k < numLoops; k++ {
				h, err := m.Acquire(newContext(), "key", 5*time.Second)
				if err != nil {
					panic(err)
				}
				counter++
				_ = m.Release(newContext(), h)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, numThreads*numLoops, counter)
}

func TestLocalMutex__Stale_Handle_Release(t *testing.T) {
	m := NewLocal()

	first, err := m.Acquire(newContext(), "campaign:1", time.Second)
	assert.Equal(t, nil, err)
	assert.Equal(t, nil, m.Release(newContext(), first))

	second, err := m.Acquire(newContext(), "campaign:1", time.Second)
	assert.Equal(t, nil, err)
	assert.NotEqual(t, first.Token, second.Token)

	// releasing the old handle must not free the current owner
	assert.Equal(t, nil, m.Release(newContext(), first))

	_, err = m.Acquire(newContext(), "campaign:1", 50*time.Millisecond)
	assert.Equal(t, ErrTimeout, err)

	assert.Equal(t, nil, m.Release(newContext(), second))

	third, err := m.Acquire(newContext(), "campaign:1", 50*time.Millisecond)
	assert.Equal(t, nil, err)
	assert.Equal(t, nil, m.Release(newContext(), third))
	assert.Equal(t, 0, len(m.(*localMutex).entries))
}
