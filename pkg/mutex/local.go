package mutex

import (
	"context"
	"sync"
	"time"
)

type localEntry struct {
	ch   chan struct{}
	refs int

	// holder is the token of the current owner, zero when free
	holder uint64
}

type localMutex struct {
	mut     sync.Mutex
	entries map[string]*localEntry
	next    uint64
}

var _ Mutex = &localMutex{}

// NewLocal creates an in process Mutex, only for single instance deployments and tests
func NewLocal() Mutex {
	return &localMutex{
		entries: map[string]*localEntry{},
	}
}

func (m *localMutex) getEntry(key string) *localEntry {
	m.mut.Lock()
	defer m.mut.Unlock()

	e, ok := m.entries[key]
	if !ok {
		e = &localEntry{ch: make(chan struct{}, 1)}
		m.entries[key] = e
	}
	e.refs++
	return e
}

func (m *localMutex) putEntry(key string, e *localEntry) {
	m.mut.Lock()
	defer m.mut.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(m.entries, key)
	}
}

func (m *localMutex) takeOwnership(e *localEntry) uint64 {
	m.mut.Lock()
	defer m.mut.Unlock()
	m.next++
	e.holder = m.next
	return m.next
}

// Acquire ...
func (m *localMutex) Acquire(ctx context.Context, key string, timeout time.Duration) (Handle, error) {
	e := m.getEntry(key)

	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case e.ch <- struct{}{}:
		return Handle{Key: key, Token: m.takeOwnership(e)}, nil
	case <-t.C:
		m.putEntry(key, e)
		return Handle{}, ErrTimeout
	case <-ctx.Done():
		m.putEntry(key, e)
		return Handle{}, ctx.Err()
	}
}

// Release is a no-op for a handle that no longer owns the key
func (m *localMutex) Release(_ context.Context, h Handle) error {
	m.mut.Lock()
	defer m.mut.Unlock()

	e, ok := m.entries[h.Key]
	if !ok || h.Token == 0 || e.holder != h.Token {
		return nil
	}
	e.holder = 0

	select {
	case <-e.ch:
		e.refs--
		if e.refs == 0 {
			delete(m.entries, h.Key)
		}
	default:
	}
	return nil
}
