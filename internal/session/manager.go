package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is the idle time after which a session expires.
const DefaultTTL = 30 * time.Minute

// Manager creates, finds and expires sessions. It is safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// NewManager creates a session manager. A non-positive ttl uses DefaultTTL.
// If logger is nil, a discard logger is used.
func NewManager(ttl time.Duration, logger *slog.Logger) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

// TTL returns the idle expiry.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Create starts a new session with a random id.
func (m *Manager) Create() *Session {
	sess := newSession(uuid.NewString(), m.now())

	m.mu.Lock()
	m.sessions[sess.id] = sess
	m.mu.Unlock()

	m.logger.Debug("session created", "session", sess.id)
	return sess
}

// Get returns a live session and marks it as accessed.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}

	now := m.now()
	if now.Sub(sess.LastAccess()) > m.ttl {
		m.Expire(id)
		return nil, false
	}
	sess.Touch(now)
	return sess, true
}

// Expire ends a session. Unknown ids are ignored.
func (m *Manager) Expire(id string) {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		sess.Close()
		m.logger.Debug("session expired", "session", id)
	}
}

// Len returns the number of tracked sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// ClearNodes empties the node cache of every session.
func (m *Manager) ClearNodes() {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, sess := range m.sessions {
		sess.Nodes.Clear()
	}
}

// Reap expires every session idle for longer than the TTL and returns how
// many were removed.
func (m *Manager) Reap() int {
	now := m.now()

	m.mu.Lock()
	var expired []*Session
	for id, sess := range m.sessions {
		if now.Sub(sess.LastAccess()) > m.ttl {
			expired = append(expired, sess)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, sess := range expired {
		sess.Close()
	}
	if len(expired) > 0 {
		m.logger.Info("reaped idle sessions", "count", len(expired))
	}
	return len(expired)
}

// Run reaps idle sessions every interval until ctx is done, then closes
// every remaining session.
func (m *Manager) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = m.ttl / 2
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.Close()
			return nil
		case <-ticker.C:
			m.Reap()
		}
	}
}

// Close ends every session.
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, sess := range sessions {
		sess.Close()
	}
}
