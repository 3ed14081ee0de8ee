package service

import (
	"sync"
	"time"
)

// CooldownStore maps notify targets to a suppression marker. A target is
// suppressed while now - marker < cooldown, so a marker set to a future
// time (the "ignore today" override) suppresses at least until that time.
// The store lives for the process lifetime only; it is never persisted.
type CooldownStore struct {
	mu    sync.Mutex
	marks map[string]time.Time
}

func NewCooldownStore() *CooldownStore {
	return &CooldownStore{marks: make(map[string]time.Time)}
}

// Marker returns the current suppression marker for target. The zero time
// means the target has never been notified.
func (s *CooldownStore) Marker(target string) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.marks[target]
}

// Set overwrites the marker for target, regardless of its prior value.
func (s *CooldownStore) Set(target string, t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marks[target] = t
}

// Suppressed reports whether target is still inside its cooldown at now.
func (s *CooldownStore) Suppressed(target string, now time.Time, cooldown time.Duration) bool {
	return now.Sub(s.Marker(target)) < cooldown
}

// Snapshot copies the current markers for state reporting.
func (s *CooldownStore) Snapshot() map[string]time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]time.Time, len(s.marks))
	for k, v := range s.marks {
		out[k] = v
	}
	return out
}
