package widget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	apperrors "github.com/afmejia23/reviews-and-ratings/pkg/errors"
)

// Store persists the surviving slice of session state between requests.
// Implementations live in internal/session.
type Store interface {
	Get(ctx context.Context, id string) (PersistedState, error)
	Save(ctx context.Context, id string, state PersistedState) error
	Delete(ctx context.Context, id string) error
}

// ErrSessionNotFound is returned by Store implementations for unknown or
// expired session IDs.
var ErrSessionNotFound = errors.New("widget session not found")

// Manager hands out widget sessions. Live sessions are kept in-process so
// concurrent events for one session share a single state owner (and the
// stale-page guard actually guards); the store carries state across
// restarts and instances.
type Manager struct {
	store   Store
	fetcher Fetcher
	logger  *slog.Logger

	mu   sync.Mutex
	live map[string]*Session
}

// NewManager creates a session manager.
func NewManager(store Store, fetcher Fetcher, logger *slog.Logger) *Manager {
	return &Manager{
		store:   store,
		fetcher: fetcher,
		logger:  logger,
		live:    make(map[string]*Session),
	}
}

// Create starts a new session for a product and persists its initial state.
func (m *Manager) Create(ctx context.Context, productID string) (*Session, error) {
	if productID == "" {
		return nil, apperrors.InvalidInput("product_id is required")
	}

	s := NewSession(uuid.New().String(), productID, m.fetcher, m.logger)

	if err := m.store.Save(ctx, s.ID(), s.Persistable()); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	m.mu.Lock()
	m.live[s.ID()] = s
	m.mu.Unlock()

	return s, nil
}

// Get returns the live session for the ID, restoring it from the store if
// this instance has not seen it yet.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	if s, ok := m.live[id]; ok {
		m.mu.Unlock()
		return s, nil
	}
	m.mu.Unlock()

	persisted, err := m.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, apperrors.SessionExpired(id)
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	s := Restore(id, persisted, m.fetcher, m.logger)

	m.mu.Lock()
	// Another request may have restored it concurrently; keep the first.
	if existing, ok := m.live[id]; ok {
		s = existing
	} else {
		m.live[id] = s
	}
	m.mu.Unlock()

	return s, nil
}

// Persist writes the session's surviving state back to the store and renews
// its TTL.
func (m *Manager) Persist(ctx context.Context, s *Session) error {
	if err := m.store.Save(ctx, s.ID(), s.Persistable()); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Evict drops a session from the live registry and the store.
func (m *Manager) Evict(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.live, id)
	m.mu.Unlock()

	if err := m.store.Delete(ctx, id); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
