package client

import "testing"

func TestSetStateNotifiesOncePerDistinctValue(t *testing.T) {
	s := NewSessionState(5)
	var got []ConnectionState
	s.OnStateChange(func(st ConnectionState) { got = append(got, st) })

	s.SetState(StateConnecting)
	s.SetState(StateConnecting) // repeat, no notification
	s.SetState(StateConnected)
	s.SetState(StateConnected)
	s.SetState(StateAuthenticated)

	want := []ConnectionState{StateConnecting, StateConnected, StateAuthenticated}
	if len(got) != len(want) {
		t.Fatalf("notifications = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("notifications = %v, want %v", got, want)
		}
	}
}

func TestPermissiveTransitions(t *testing.T) {
	// no transition validity is enforced: any state may follow any other
	s := NewSessionState(5)
	s.SetState(StateAuthenticated)
	if s.State() != StateAuthenticated {
		t.Fatalf("state = %s", s.State())
	}
	s.SetState(StateConnecting)
	if s.State() != StateConnecting {
		t.Fatalf("state = %s", s.State())
	}
}

func TestIsConnectedAndIsAuthenticated(t *testing.T) {
	cases := []struct {
		state         ConnectionState
		connected     bool
		authenticated bool
	}{
		{StateDisconnected, false, false},
		{StateConnecting, false, false},
		{StateConnected, true, false},
		{StateAuthenticated, true, true},
		{StateError, false, false},
		{StateReconnecting, false, false},
	}
	for _, c := range cases {
		s := NewSessionState(5)
		s.SetState(c.state)
		if s.IsConnected() != c.connected {
			t.Errorf("%s: IsConnected = %v, want %v", c.state, s.IsConnected(), c.connected)
		}
		if s.IsAuthenticated() != c.authenticated {
			t.Errorf("%s: IsAuthenticated = %v, want %v", c.state, s.IsAuthenticated(), c.authenticated)
		}
	}
}

func TestReconnectAttemptBound(t *testing.T) {
	s := NewSessionState(5)
	for i := 1; i <= 5; i++ {
		if !s.CanReconnect() {
			t.Fatalf("CanReconnect false at %d attempts, want true below 5", s.ReconnectAttempts())
		}
		if n := s.IncrementReconnectAttempts(); n != i {
			t.Fatalf("attempt count = %d, want %d", n, i)
		}
	}
	if s.CanReconnect() {
		t.Fatal("CanReconnect true at 5 attempts with max 5")
	}

	s.ResetReconnectAttempts()
	if s.ReconnectAttempts() != 0 || !s.CanReconnect() {
		t.Fatal("reset did not restore reconnect budget")
	}
}

func TestResetClearsStateAttemptsAndListeners(t *testing.T) {
	s := NewSessionState(5)
	fired := false
	s.OnStateChange(func(ConnectionState) { fired = true })
	s.SetState(StateConnected)
	fired = false
	s.IncrementReconnectAttempts()

	s.Reset()

	if s.State() != StateDisconnected {
		t.Fatalf("state after reset = %s", s.State())
	}
	if s.ReconnectAttempts() != 0 {
		t.Fatalf("attempts after reset = %d", s.ReconnectAttempts())
	}
	s.SetState(StateConnecting)
	if fired {
		t.Fatal("listener survived Reset")
	}
}

func TestOnStateChangeUnsubscribe(t *testing.T) {
	s := NewSessionState(5)
	calls := 0
	off := s.OnStateChange(func(ConnectionState) { calls++ })

	s.SetState(StateConnecting)
	off()
	s.SetState(StateConnected)

	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestPanickingListenerDoesNotStopSiblings(t *testing.T) {
	s := NewSessionState(5)
	ran := false
	s.OnStateChange(func(ConnectionState) { panic("boom") })
	s.OnStateChange(func(ConnectionState) { ran = true })

	s.SetState(StateConnecting)

	if !ran {
		t.Fatal("second listener did not run after sibling panic")
	}
}
