package server

import "testing"

func TestEmitNeverBlocksOnFullQueue(t *testing.T) {
	s := newSession("s1", nil, 1)

	if err := s.Emit("ev", map[string]any{"n": 1}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	// queue is full now; the next emit must drop, not block
	if err := s.Emit("ev", map[string]any{"n": 2}); err != nil {
		t.Fatalf("emit on full queue: %v", err)
	}
}

func TestSessionAuthState(t *testing.T) {
	s := newSession("s1", nil, 1)
	if s.Authenticated() || s.UserID() != "" || s.User() != nil {
		t.Fatal("fresh session must be unauthenticated")
	}
}

func TestDispatchReachesAttachedHandlers(t *testing.T) {
	s := newSession("s1", nil, 1)
	var got map[string]any
	s.On("ev", func(args ...any) {
		got = args[0].(map[string]any)
	})

	s.Dispatch("ev", map[string]any{"k": "v"})

	if got == nil || got["k"] != "v" {
		t.Fatalf("payload = %v", got)
	}
}
