package cache

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

type memoryEntry struct {
	value     any
	expiresAt time.Time
}

// Memory is an in-process interfaces.CacheProvider with per-key TTLs. It
// backs the search query cache and is available to hosts that do not bring
// their own provider.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

var _ interfaces.CacheProvider = (*Memory)(nil)

// NewMemory constructs an empty provider. The now function is a test seam; it
// defaults to time.Now when nil.
func NewMemory(now func() time.Time) *Memory {
	if now == nil {
		now = time.Now
	}
	return &Memory{
		entries: map[string]memoryEntry{},
		now:     now,
	}
}

// Get returns the value stored under key, or nil when absent or expired.
// Expired entries are pruned lazily on read.
func (m *Memory) Get(_ context.Context, key string) (any, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, nil
	}
	return entry.value, nil
}

// Set stores value under key. A zero ttl keeps the entry until deleted.
func (m *Memory) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}

// Delete removes a single entry.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Clear removes every entry.
func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	m.entries = map[string]memoryEntry{}
	m.mu.Unlock()
	return nil
}
