package client

import (
	"sync"

	"relaykit/tools/safe"
)

// StateListener observes connection-state transitions.
type StateListener func(s ConnectionState)

type stateEntry struct {
	id uint64
	fn StateListener
}

// SessionState tracks the connection phase and the reconnect attempt count
// for one client instance. It enforces nothing about transition legality:
// any state may follow any other, and avoiding illegal sequences is the
// orchestrator's job. The one guard it does apply is notification dedup:
// setting the current state again notifies nobody.
type SessionState struct {
	mu          sync.Mutex
	state       ConnectionState
	attempts    int
	maxAttempts int
	seq         uint64
	listeners   []stateEntry
}

func NewSessionState(maxAttempts int) *SessionState {
	return &SessionState{state: StateDisconnected, maxAttempts: maxAttempts}
}

func (s *SessionState) State() ConnectionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetState transitions to next and notifies listeners in registration order.
// A no-op when next equals the current state.
func (s *SessionState) SetState(next ConnectionState) {
	s.mu.Lock()
	if s.state == next {
		s.mu.Unlock()
		return
	}
	s.state = next
	snapshot := make([]stateEntry, len(s.listeners))
	copy(snapshot, s.listeners)
	s.mu.Unlock()

	for _, it := range snapshot {
		fn := it.fn
		safe.Invoke("state-listener", func() { fn(next) })
	}
}

// IsConnected reports whether the socket is usable (connected or
// authenticated).
func (s *SessionState) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateConnected || s.state == StateAuthenticated
}

func (s *SessionState) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateAuthenticated
}

// OnStateChange registers a listener and returns a function removing exactly
// that listener.
func (s *SessionState) OnStateChange(fn StateListener) (off func()) {
	s.mu.Lock()
	s.seq++
	id := s.seq
	s.listeners = append(s.listeners, stateEntry{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, it := range s.listeners {
			if it.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// IncrementReconnectAttempts bumps the attempt counter and returns the new
// count.
func (s *SessionState) IncrementReconnectAttempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts++
	return s.attempts
}

func (s *SessionState) ResetReconnectAttempts() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts = 0
}

func (s *SessionState) ReconnectAttempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

// CanReconnect reports whether another attempt is allowed under the
// configured cap.
func (s *SessionState) CanReconnect() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts < s.maxAttempts
}

// Reset returns the machine to Disconnected with a zero attempt counter and
// no listeners. This is the destructive teardown path, distinct from a plain
// disconnect: listeners registered before Reset never fire again.
func (s *SessionState) Reset() {
	s.mu.Lock()
	s.state = StateDisconnected
	s.attempts = 0
	s.listeners = nil
	s.mu.Unlock()
}
