package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/marquee/internal/player"
)

// Current is the committed player state plus transport health.
type Current struct {
	Snapshot            player.Snapshot
	HasSnapshot         bool
	LastCommitted       time.Time
	LastContact         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive transport failures
}

// IsOffline returns true when the backend has been unreachable for multiple attempts.
func (c Current) IsOffline() bool {
	return c.ConsecutiveFailures >= 2
}

// Store holds the single committed state. Commit is the only way to replace
// the snapshot.
type Store struct {
	mu      sync.RWMutex
	current Current
}

// Commit replaces the committed snapshot with a copy of snap.
func (s *Store) Commit(snap player.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current.Snapshot = snap.Clone()
	s.current.HasSnapshot = true
	s.current.LastCommitted = time.Now()
}

// RecordSuccess notes that the transport delivered something, data or
// heartbeat.
func (s *Store) RecordSuccess() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current.LastError = nil
	s.current.LastContact = time.Now()
	s.current.ConsecutiveFailures = 0
}

// RecordError keeps the committed snapshot and records err for visibility.
func (s *Store) RecordError(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current.LastError = err
	s.current.ConsecutiveFailures++
}

// Current returns a copy of the committed state.
func (s *Store) Current() Current {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cur := s.current
	cur.Snapshot = s.current.Snapshot.Clone()
	if s.current.LastError != nil {
		cur.LastError = fmt.Errorf("%w", s.current.LastError)
	}
	return cur
}

// Snapshot returns a copy of the committed snapshot.
func (s *Store) Snapshot() player.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Snapshot.Clone()
}
