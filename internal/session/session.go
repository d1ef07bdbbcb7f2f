// Package session tracks web sessions. Each session owns a node cache and
// a lifetime context that is cancelled when the session expires.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/leapstack-labs/leapnav/internal/navigator"
)

// Session is one caller's navigator session.
type Session struct {
	id      string
	created time.Time

	// Nodes caches nodes resolved in this session.
	Nodes *navigator.Cache

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	lastAccess time.Time
}

func newSession(id string, now time.Time) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		id:         id,
		created:    now,
		Nodes:      navigator.NewCache(),
		ctx:        ctx,
		cancel:     cancel,
		lastAccess: now,
	}
}

// New creates a standalone session that is not tracked by a Manager.
// The CLI uses it for one-shot requests.
func New(id string) *Session {
	return newSession(id, time.Now())
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Created returns the creation time.
func (s *Session) Created() time.Time { return s.created }

// LastAccess returns the time of the last Touch.
func (s *Session) LastAccess() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccess
}

// Touch records activity at now.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.After(s.lastAccess) {
		s.lastAccess = now
	}
}

// Done is closed when the session ends.
func (s *Session) Done() <-chan struct{} { return s.ctx.Done() }

// Close ends the session and cancels work running under its progress contexts.
func (s *Session) Close() {
	s.cancel()
}

// ProgressContext derives a context for long-running work done on behalf
// of this session. It is cancelled when ctx is cancelled or the session
// ends, whichever comes first. Callers must call the returned CancelFunc.
func (s *Session) ProgressContext(ctx context.Context) (context.Context, context.CancelFunc) {
	pctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.ctx, cancel)
	return pctx, func() {
		stop()
		cancel()
	}
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying sess.
func NewContext(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

// FromContext returns the session stored in ctx, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(contextKey{}).(*Session)
	return sess, ok && sess != nil
}
