package cache

import (
	"sync"
	"time"
)

// Snapshot is a single-value TTL cache. Set replaces the whole value
// atomically; readers never observe a partially updated snapshot. The zero
// TTL disables expiry so hosts can opt into manual invalidation only.
type Snapshot[T any] struct {
	mu        sync.RWMutex
	value     T
	timestamp time.Time
	populated bool

	ttl time.Duration
	now func() time.Time
}

// NewSnapshot builds a snapshot cache with the supplied TTL. The now function
// is a test seam; it defaults to time.Now when nil.
func NewSnapshot[T any](ttl time.Duration, now func() time.Time) *Snapshot[T] {
	if now == nil {
		now = time.Now
	}
	return &Snapshot[T]{
		ttl: ttl,
		now: now,
	}
}

// Get returns the cached value when present and fresh. The second return
// reports a hit; expired or invalidated entries miss.
func (s *Snapshot[T]) Get() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var zero T
	if !s.populated {
		return zero, false
	}
	if s.ttl > 0 && s.now().Sub(s.timestamp) >= s.ttl {
		return zero, false
	}
	return s.value, true
}

// Set stores the value and resets the entry timestamp.
func (s *Snapshot[T]) Set(value T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.value = value
	s.timestamp = s.now()
	s.populated = true
}

// Invalidate clears the entry so the next Get misses regardless of TTL.
func (s *Snapshot[T]) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	s.value = zero
	s.timestamp = time.Time{}
	s.populated = false
}
