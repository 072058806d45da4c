package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"storefront-gateway/internal/cart"
	"storefront-gateway/internal/domain"
)

// Manager owns one cart store per shopping session. Sessions live in
// memory only: a restart starts every shopper with an empty cart, which is
// the contract for this gateway. Idle sessions are dropped by Run.
type Manager struct {
	mu          sync.Mutex
	sessions    map[string]*entry
	idleTimeout time.Duration
	logger      *log.Logger
	now         func() time.Time
}

type entry struct {
	store    *cart.Store
	lastSeen time.Time
}

func NewManager(idleTimeout time.Duration, logger *log.Logger) *Manager {
	return &Manager{
		sessions:    make(map[string]*entry),
		idleTimeout: idleTimeout,
		logger:      logger,
		now:         time.Now,
	}
}

// Create starts a new session with an empty cart and returns its id.
func (m *Manager) Create() (string, *cart.Store) {
	id := uuid.NewString()
	store := cart.NewStore()

	m.mu.Lock()
	m.sessions[id] = &entry{store: store, lastSeen: m.now()}
	m.mu.Unlock()

	return id, store
}

// Cart returns the session's cart store and marks the session as active.
func (m *Manager) Cart(id string) (*cart.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	e.lastSeen = m.now()
	return e.store, nil
}

// End removes a session. Ending an unknown session is a no-op.
func (m *Manager) End(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Run expires idle sessions until ctx is done. Meant to be started as a
// goroutine from main.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.expire(); n > 0 && m.logger != nil {
				m.logger.Printf("expired %d idle session(s)", n)
			}
		}
	}
}

func (m *Manager) expire() int {
	cutoff := m.now().Add(-m.idleTimeout)

	m.mu.Lock()
	defer m.mu.Unlock()

	expired := 0
	for id, e := range m.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			expired++
		}
	}
	return expired
}
