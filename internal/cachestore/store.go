// Package cachestore provides the persistent call cache used to memoize
// summarization calls across runs. Entries are keyed by a canonical call
// signature and never expire or evict; unbounded growth is an accepted
// tradeoff of the design.
package cachestore

// CallCache defines the interface for storing and retrieving memoized call
// results. A call either has no entry or a complete one; implementations
// must never expose a partially written value.
type CallCache interface {
	// Get returns the cached value for key, and whether it exists.
	Get(key string) (string, bool, error)

	// Put stores the value for key, replacing any previous entry.
	Put(key string, value string) error

	// Contains reports whether key has an entry.
	Contains(key string) (bool, error)

	// Close closes the cache and releases any resources.
	Close() error
}
