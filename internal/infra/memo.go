// Package infra provides shared infrastructure components used across
// the application: the TTL memo cache, logging, tracing and metrics.
package infra

import (
	"context"
	"sync"
	"time"
)

// LoadFunc produces a fresh value for a Memo.
type LoadFunc[T any] func(ctx context.Context) (T, error)

// MemoEntry is a snapshot of what a Memo currently holds.
type MemoEntry[T any] struct {
	Value     T
	FetchedAt time.Time
	ExpiresAt time.Time
}

// Memo memoizes a zero-argument load for a fixed TTL. On read the current time
// is compared to fetchedAt+ttl and the value is reloaded once expired.
//
// The mutex guards the stored entry only; it is not held while loading, so
// concurrent callers on a cold or expired memo may each call the load
// function. The last one to finish wins.
type Memo[T any] struct {
	load LoadFunc[T]
	ttl  time.Duration
	now  func() time.Time

	mu        sync.RWMutex
	value     T
	fetchedAt time.Time
	valid     bool
}

// NewMemo creates a Memo around load with the given time-to-live.
func NewMemo[T any](ttl time.Duration, load LoadFunc[T]) *Memo[T] {
	return &Memo[T]{
		load: load,
		ttl:  ttl,
		now:  time.Now,
	}
}

// SetClock replaces the time source. Intended for tests.
func (m *Memo[T]) SetClock(now func() time.Time) {
	m.mu.Lock()
	m.now = now
	m.mu.Unlock()
}

// Get returns the memoized value, loading it if absent or expired.
// cached reports whether the value was served without calling load.
// A failed load leaves any previous entry untouched and is not cached.
func (m *Memo[T]) Get(ctx context.Context) (value T, cached bool, err error) {
	if entry, ok := m.Peek(); ok {
		return entry.Value, true, nil
	}

	v, err := m.load(ctx)
	if err != nil {
		var zero T
		return zero, false, err
	}

	m.mu.Lock()
	m.value = v
	m.fetchedAt = m.now()
	m.valid = true
	m.mu.Unlock()

	return v, false, nil
}

// Peek returns the current entry if it exists and has not expired.
func (m *Memo[T]) Peek() (MemoEntry[T], bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.valid {
		return MemoEntry[T]{}, false
	}
	expires := m.fetchedAt.Add(m.ttl)
	if !m.now().Before(expires) {
		return MemoEntry[T]{}, false
	}
	return MemoEntry[T]{Value: m.value, FetchedAt: m.fetchedAt, ExpiresAt: expires}, true
}

// Invalidate drops the stored entry so the next Get reloads.
func (m *Memo[T]) Invalidate() {
	m.mu.Lock()
	var zero T
	m.value = zero
	m.valid = false
	m.mu.Unlock()
}

// TTL returns the configured time-to-live.
func (m *Memo[T]) TTL() time.Duration {
	return m.ttl
}
