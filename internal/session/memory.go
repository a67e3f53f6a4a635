package session

import (
	"context"
	"sync"
	"time"

	"github.com/afmejia23/reviews-and-ratings/internal/widget"
)

type memoryEntry struct {
	state     widget.PersistedState
	expiresAt time.Time
}

// MemoryStore is an in-process widget.Store with per-entry expiry. Suitable
// for development and tests only; state is lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	nowFunc func() time.Time
}

// NewMemoryStore creates an in-memory session store.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		nowFunc: time.Now,
	}
}

// Get retrieves persisted session state by ID.
func (s *MemoryStore) Get(_ context.Context, id string) (widget.PersistedState, error) {
	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok || s.nowFunc().After(entry.expiresAt) {
		return widget.PersistedState{}, widget.ErrSessionNotFound
	}
	return entry.state, nil
}

// Save writes session state and renews its expiry.
func (s *MemoryStore) Save(_ context.Context, id string, state widget.PersistedState) error {
	s.mu.Lock()
	s.entries[id] = memoryEntry{
		state:     state,
		expiresAt: s.nowFunc().Add(s.ttl),
	}
	s.mu.Unlock()
	return nil
}

// Delete removes a session.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}
