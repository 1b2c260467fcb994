// Package session keeps per-browser state: whether the admin gate was passed
// and which actuals snapshot the session last loaded.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultTTL = 12 * time.Hour

// State is the mutable state of one session. It is owned by the Manager;
// callers mutate it through the methods below.
type State struct {
	ID string

	mu            sync.Mutex
	adminUnlocked bool
	actuals       []float64
	generation    uint64
	lastSeen      time.Time
}

// AdminUnlocked reports whether the admin gate was passed in this session.
func (s *State) AdminUnlocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adminUnlocked
}

// SetAdminUnlocked records the admin gate result.
func (s *State) SetAdminUnlocked(v bool) {
	s.mu.Lock()
	s.adminUnlocked = v
	s.mu.Unlock()
}

// Actuals returns the cached actuals if they were loaded at generation gen.
func (s *State) Actuals(gen uint64) ([]float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.actuals == nil || s.generation != gen {
		return nil, false
	}
	return s.actuals, true
}

// CacheActuals stores the actuals loaded at generation gen. Passing nil
// clears the cache.
func (s *State) CacheActuals(seq []float64, gen uint64) {
	s.mu.Lock()
	s.actuals = seq
	s.generation = gen
	s.mu.Unlock()
}

func (s *State) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *State) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// Manager hands out sessions keyed by random ids.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*State
	ttl      time.Duration
	now      func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithTTL sets how long an idle session survives.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager creates an empty session manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		sessions: make(map[string]*State),
		ttl:      defaultTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// New creates and registers a fresh session.
func (m *Manager) New() *State {
	st := &State{ID: uuid.NewString(), lastSeen: m.now()}
	m.mu.Lock()
	m.sessions[st.ID] = st
	m.mu.Unlock()
	return st
}

// Lookup returns a live session and refreshes its idle timer.
func (m *Manager) Lookup(id string) (*State, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}
	now := m.now()

	m.mu.Lock()
	st, ok := m.sessions[id]
	if ok && st.idleSince(now) > m.ttl {
		delete(m.sessions, id)
		ok = false
	}
	m.mu.Unlock()

	if !ok {
		return nil, false
	}
	st.touch(now)
	return st, true
}

// Get returns the session for id, or a new one when id is unknown or expired.
// created reports whether a new session was made.
func (m *Manager) Get(id string) (st *State, created bool) {
	if st, ok := m.Lookup(id); ok {
		return st, false
	}
	return m.New(), true
}

// Drop removes a session.
func (m *Manager) Drop(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Sweep removes sessions idle for longer than the TTL and returns how many
// were removed.
func (m *Manager) Sweep() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, st := range m.sessions {
		if st.idleSince(now) > m.ttl {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
