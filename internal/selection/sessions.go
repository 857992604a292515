package selection

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Sessions holds per-session selection state, expiring entries that have not
// been touched within the TTL.
type Sessions struct {
	ttl   time.Duration
	clock clockwork.Clock

	mu     sync.Mutex
	states map[string]*entry
}

type entry struct {
	state    *State
	lastSeen time.Time
}

// NewSessions creates a session registry. A nil clock uses real time.
func NewSessions(ttl time.Duration, clock clockwork.Clock) *Sessions {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Sessions{
		ttl:    ttl,
		clock:  clock,
		states: make(map[string]*entry),
	}
}

// NewID mints a fresh random session identifier and registers empty state
// for it.
func (s *Sessions) NewID() string {
	buf := make([]byte, 16)
	rand.Read(buf) //nolint:errcheck // crypto/rand.Read never fails
	id := hex.EncodeToString(buf)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[id] = &entry{state: &State{}, lastSeen: s.clock.Now()}
	return id
}

// Get returns the state for id, or false when the session is unknown or
// expired. A hit refreshes the TTL.
func (s *Sessions) Get(id string) (*State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	e, ok := s.states[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = s.clock.Now()
	return e.state, true
}

// Len reports the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	return len(s.states)
}

func (s *Sessions) sweepLocked() {
	cutoff := s.clock.Now().Add(-s.ttl)
	for id, e := range s.states {
		if e.lastSeen.Before(cutoff) {
			delete(s.states, id)
		}
	}
}
