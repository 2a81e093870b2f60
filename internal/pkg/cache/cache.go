package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Store is a keyed value cache with a fixed time-to-live. Expired entries
// are replaced on the next Set; reads of expired entries miss. Mutation
// points in the repositories call Invalidate explicitly, so staleness is
// bounded by the TTL only for writes made by other processes.
type Store[K comparable, V any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[K]entry[V]
	now     func() time.Time
}

func New[K comparable, V any](ttl time.Duration) *Store[K, V] {
	return &Store[K, V]{
		ttl:     ttl,
		entries: make(map[K]entry[V]),
		now:     time.Now,
	}
}

// Get returns the cached value for key, or false on a miss or an
// expired entry.
func (s *Store[K, V]) Get(key K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok || s.now().After(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with a fresh expiry.
func (s *Store[K, V]) Set(key K, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry[V]{
		value:     value,
		expiresAt: s.now().Add(s.ttl),
	}
}

// Invalidate drops key immediately.
func (s *Store[K, V]) Invalidate(key K) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// InvalidateAll drops every entry.
func (s *Store[K, V]) InvalidateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[K]entry[V])
}
