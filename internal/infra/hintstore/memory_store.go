package hintstore

import (
	"context"
	"sync"
	"time"

	"github.com/wenliu/beebuddy/internal/domain/hints"
)

type memoryEntry struct {
	payload   hints.CachedHints
	expiresAt time.Time
}

// MemoryStore is an in-memory implementation of the hint store for tests/dev.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

// Get implements hints.Store.
func (s *MemoryStore) Get(_ context.Context, key string) (hints.CachedHints, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return hints.CachedHints{}, false, nil
	}
	if hasExpired(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return hints.CachedHints{}, false, nil
	}
	return entry.payload, true, nil
}

// Set caches the hints with optional TTL.
func (s *MemoryStore) Set(_ context.Context, key string, payload hints.CachedHints, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	s.entries[key] = memoryEntry{payload: payload, expiresAt: exp}
	return nil
}

func hasExpired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(time.Now())
}

var _ hints.Store = (*MemoryStore)(nil)
