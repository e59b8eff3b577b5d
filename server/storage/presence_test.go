package storage

import (
	"context"
	"testing"
	"time"
)

// Integration test against a local redis; skipped when none is reachable.
func TestPresenceMirror(t *testing.T) {
	m, err := NewPresenceMirror(PresenceConfig{Addr: "127.0.0.1:6379", TTL: 5 * time.Second})
	if err != nil {
		t.Skipf("redis not available: %v", err)
	}
	defer m.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.Online(ctx, "presence-test-user"); err != nil {
		t.Fatalf("online: %v", err)
	}
	online, err := m.Lookup(ctx, "presence-test-user")
	if err != nil || !online {
		t.Fatalf("lookup after online = %v, %v", online, err)
	}

	if err := m.Offline(ctx, "presence-test-user"); err != nil {
		t.Fatalf("offline: %v", err)
	}
	online, err = m.Lookup(ctx, "presence-test-user")
	if err != nil || online {
		t.Fatalf("lookup after offline = %v, %v", online, err)
	}
}
