// Package selection tracks which county a session has picked on the map.
//
// The map framework keeps reporting the last clicked popup on every refresh,
// so clearing the selection arms a one-shot guard that swallows exactly one
// subsequent click-processing cycle. Without it, the stale click would
// immediately re-select the county the user just cleared.
package selection

import (
	"strings"
	"sync"
)

// Transition describes what a processing cycle did.
type Transition string

const (
	TransitionSelected   Transition = "selected"
	TransitionSuppressed Transition = "suppressed"
	TransitionNone       Transition = "none"
)

// State is one session's selection: the current county (empty = statewide)
// plus the one-shot suppress guard. The browser fires requests concurrently
// (a click cycle can race a chart or CSV fetch on the same session), so all
// access goes through the mutex. The zero value is ready to use.
type State struct {
	mu           sync.Mutex
	selected     string
	suppressNext bool
}

// Current returns the selected county FIPS, empty for statewide.
func (s *State) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Cycle runs one click-processing cycle with the (possibly stale) raw click
// payload the page reported. A non-empty payload selects its digit-normalized,
// zero-padded FIPS unless the suppress guard is armed; the guard disarms at
// the end of any cycle it was armed for, click or not.
func (s *State) Cycle(rawClick string) Transition {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.suppressNext {
		s.suppressNext = false
		return TransitionSuppressed
	}
	if rawClick == "" {
		return TransitionNone
	}
	s.selected = NormalizeFIPS(rawClick)
	return TransitionSelected
}

// Clear drops the selection and arms the suppress guard for the next cycle.
func (s *State) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = ""
	s.suppressNext = true
}

// NormalizeFIPS strips non-digits from a raw click payload and zero-pads the
// remainder to 5 characters ("IN-18097" becomes "18097").
func NormalizeFIPS(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	for len(digits) < 5 {
		digits = "0" + digits
	}
	return digits
}
