package web

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"tableflip.dev/a11yreq/pkg/selection"
)

// DefaultSessionTTL is how long an untouched selection session is kept.
const DefaultSessionTTL = 30 * time.Minute

// Session is one user's selection. The controller is not safe for concurrent
// use, so every access goes through Do.
type Session struct {
	ID string

	mu       sync.Mutex
	c        *selection.Controller
	version  uint64
	lastUsed time.Time
}

// Do runs fn with exclusive access to the session's controller.
func (s *Session) Do(fn func(c *selection.Controller) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.c)
}

// Sessions is a registry of selection sessions keyed by uuid. Sessions idle
// for longer than TTL are dropped by Expire.
type Sessions struct {
	TTL time.Duration
	// OnChange is called with the session count after every add or removal.
	OnChange func(n int)

	mu    sync.Mutex
	items map[string]*Session
	now   func() time.Time
}

// NewSessions returns an empty registry.
func NewSessions(ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions{
		TTL:   ttl,
		items: make(map[string]*Session),
		now:   time.Now,
	}
}

// Create registers a new session owning c.
func (s *Sessions) Create(c *selection.Controller, version uint64) *Session {
	sess := &Session{
		ID:      uuid.NewString(),
		c:       c,
		version: version,
	}
	s.mu.Lock()
	sess.lastUsed = s.now()
	s.items[sess.ID] = sess
	n := len(s.items)
	s.mu.Unlock()
	s.changed(n)
	return sess
}

// Get returns a live session and marks it used.
func (s *Sessions) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.items[id]
	if !ok {
		return nil, false
	}
	if s.now().Sub(sess.lastUsed) > s.TTL {
		return nil, false
	}
	sess.lastUsed = s.now()
	return sess, true
}

// Delete removes a session and reports whether it existed.
func (s *Sessions) Delete(id string) bool {
	s.mu.Lock()
	_, ok := s.items[id]
	delete(s.items, id)
	n := len(s.items)
	s.mu.Unlock()
	if ok {
		s.changed(n)
	}
	return ok
}

// Len returns the number of registered sessions, expired or not.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Expire drops idle sessions and returns how many were removed.
func (s *Sessions) Expire() int {
	s.mu.Lock()
	now := s.now()
	removed := 0
	for id, sess := range s.items {
		if now.Sub(sess.lastUsed) > s.TTL {
			delete(s.items, id)
			removed++
		}
	}
	n := len(s.items)
	s.mu.Unlock()
	if removed > 0 {
		s.changed(n)
	}
	return removed
}

// Run expires idle sessions every interval until ctx is done.
func (s *Sessions) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Expire()
		}
	}
}

func (s *Sessions) changed(n int) {
	if s.OnChange != nil {
		s.OnChange(n)
	}
}
