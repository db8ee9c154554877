package cachestore

import "sync"

// MemoryCallCache is a process-local CallCache. It backs tests and
// embedded uses that do not want an on-disk database; nothing persists
// across process restarts.
type MemoryCallCache struct {
	items map[string]string
	mu    sync.RWMutex
}

// NewMemoryCallCache creates an empty MemoryCallCache.
func NewMemoryCallCache() *MemoryCallCache {
	return &MemoryCallCache{
		items: make(map[string]string),
	}
}

// Get returns the cached value for key, and whether it exists.
func (m *MemoryCallCache) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.items[key]
	return value, ok, nil
}

// Put stores the value for key, replacing any previous entry.
func (m *MemoryCallCache) Put(key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = value
	return nil
}

// Contains reports whether key has an entry.
func (m *MemoryCallCache) Contains(key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.items[key]
	return ok, nil
}

// Close is a no-op for the in-memory cache.
func (m *MemoryCallCache) Close() error {
	return nil
}

// Len returns the number of cached entries.
func (m *MemoryCallCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.items)
}
