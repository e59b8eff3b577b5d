package client

import (
	"testing"
	"time"

	"relaykit/tools/errs"
)

func TestConfigDefaults(t *testing.T) {
	c := DefaultConfig("ws://localhost:8080/ws")
	if !c.AutoConnect || !c.Reconnection {
		t.Fatal("auto-connect and reconnection should default to enabled")
	}
	if c.ReconnectionAttempts != 5 {
		t.Fatalf("ReconnectionAttempts = %d, want 5", c.ReconnectionAttempts)
	}
	if c.ReconnectionDelay != time.Second {
		t.Fatalf("ReconnectionDelay = %s, want 1s", c.ReconnectionDelay)
	}
	if c.Timeout != 20*time.Second {
		t.Fatalf("Timeout = %s, want 20s", c.Timeout)
	}
	if len(c.Transports) != 1 || c.Transports[0] != "websocket" {
		t.Fatalf("Transports = %v", c.Transports)
	}
}

func TestBackoffDelayIsLinear(t *testing.T) {
	c := New(Config{URL: "ws://unused", ReconnectionDelay: time.Second})
	for n := 1; n <= 3; n++ {
		want := time.Duration(n) * time.Second
		if got := c.backoffDelay(n); got != want {
			t.Fatalf("backoffDelay(%d) = %s, want %s", n, got, want)
		}
	}
}

func TestAuthenticateRequiresConnection(t *testing.T) {
	c := New(Config{URL: "ws://unused"})
	err := c.Authenticate("token")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errs.ErrNotConnected.Is(err) {
		t.Fatalf("error = %v, want not-connected", err)
	}
}

func TestSendMessageRequiresAuthentication(t *testing.T) {
	c := New(Config{URL: "ws://unused"})
	err := c.SendMessage("bob", "hi", nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errs.ErrNotAuthenticated.Is(err) {
		t.Fatalf("error = %v, want not-authenticated", err)
	}
}

func TestGetOnlineStatusRequiresConnection(t *testing.T) {
	c := New(Config{URL: "ws://unused"})
	err := c.GetOnlineStatus([]string{"alice"})
	if !errs.ErrNotConnected.Is(err) {
		t.Fatalf("error = %v, want not-connected", err)
	}
}

func TestTypingIsSilentWhenUnauthenticated(t *testing.T) {
	c := New(Config{URL: "ws://unused"})
	// fire-and-forget: no error, no panic, nothing sent
	c.StartTyping("bob")
	c.StopTyping("bob")
}

func TestDisconnectWithoutConnection(t *testing.T) {
	c := New(Config{URL: "ws://unused"})
	c.Disconnect()
	if c.State() != StateDisconnected {
		t.Fatalf("state = %s", c.State())
	}
}
