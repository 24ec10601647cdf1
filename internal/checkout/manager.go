package checkout

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/bikezone/internal/metrics"
)

// DefaultSessionTTL is how long an abandoned checkout session survives.
const DefaultSessionTTL = 30 * time.Minute

// ErrSessionNotFound is returned for unknown or expired session IDs.
var ErrSessionNotFound = errors.New("checkout session not found")

// Manager owns the live checkout sessions. Sessions are ephemeral and
// in-memory: one per checkout invocation, destroyed on submit, cancel or
// expiry. Abandoned sessions are reclaimed by a background sweep so a client
// that just closes the tab does not leak.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	ttl      time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// NewManager constructs a Manager and starts its sweep loop. A non-positive
// ttl falls back to the default.
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	m := &Manager{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
	go m.janitor()
	return m
}

// Open creates a session at the details step with the draft seeded from the
// authenticated user and the selected bike.
func (m *Manager) Open(userID, bikeID uuid.UUID, draft DraftOrder) *Session {
	s := newSession(userID, bikeID, draft)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	metrics.ActiveCheckoutSessions.Inc()
	return s
}

// Get returns the session owned by userID, dropping it if it has expired.
func (m *Manager) Get(id, userID uuid.UUID) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok || s.UserID != userID {
		return nil, ErrSessionNotFound
	}
	if time.Since(s.CreatedAt) > m.ttl {
		m.Close(id)
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Close destroys a session. Closing an unknown ID is a no-op; an in-flight
// submission keeps running against the already-removed session and settles
// harmlessly.
func (m *Manager) Close(id uuid.UUID) {
	m.mu.Lock()
	_, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if ok {
		metrics.ActiveCheckoutSessions.Dec()
	}
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Stop terminates the sweep loop. Live sessions remain readable.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

func (m *Manager) janitor() {
	interval := m.ttl
	if interval < time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.sweep()
		case <-m.stop:
			return
		}
	}
}

// sweep reclaims every session past its TTL, whether or not anyone asks for
// it again.
func (m *Manager) sweep() {
	now := time.Now()

	m.mu.Lock()
	var expired int
	for id, s := range m.sessions {
		if now.Sub(s.CreatedAt) > m.ttl {
			delete(m.sessions, id)
			expired++
		}
	}
	m.mu.Unlock()

	if expired > 0 {
		metrics.ActiveCheckoutSessions.Sub(float64(expired))
	}
}
