package errs

import (
	"fmt"
	"testing"
)

func TestCodeErrorIs(t *testing.T) {
	err := ErrNotConnected.WrapMsg("authenticate")
	if !ErrNotConnected.Is(err) {
		t.Fatal("wrapped error lost its code")
	}
	if ErrNotAuthenticated.Is(err) {
		t.Fatal("code matched across different errors")
	}
	if ErrNotConnected.Is(fmt.Errorf("plain")) {
		t.Fatal("plain error matched a code")
	}
}

func TestWithDetailAccumulates(t *testing.T) {
	e := ErrRecipientOffline.WithDetail("user=bob").WithDetail("msg=1")
	if e.Code != CodeRecipientOffline {
		t.Fatalf("code = %d", e.Code)
	}
	if e.Detail != "user=bob, msg=1" {
		t.Fatalf("detail = %q", e.Detail)
	}
	// the sentinel itself stays untouched
	if ErrRecipientOffline.Detail != "" {
		t.Fatal("sentinel was mutated")
	}
}

func TestCodeExtraction(t *testing.T) {
	if got := Code(ErrAuthFailed.Wrap()); got != CodeAuthFailed {
		t.Fatalf("code = %d", got)
	}
	if got := Code(fmt.Errorf("plain")); got != 0 {
		t.Fatalf("code = %d for a plain error", got)
	}
	if got := Code(nil); got != 0 {
		t.Fatalf("code = %d for nil", got)
	}
}

func TestWrapPreservesNil(t *testing.T) {
	if Wrap(nil) != nil {
		t.Fatal("Wrap(nil) != nil")
	}
	if WrapMsg(nil, "ctx") != nil {
		t.Fatal("WrapMsg(nil) != nil")
	}
}
