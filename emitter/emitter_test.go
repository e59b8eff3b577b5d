package emitter

import (
	"testing"
)

func TestEmitInRegistrationOrder(t *testing.T) {
	e := New()
	var got []int
	e.On("ev", func(args ...any) { got = append(got, 1) })
	e.On("ev", func(args ...any) { got = append(got, 2) })
	e.On("ev", func(args ...any) { got = append(got, 3) })

	e.Emit("ev")

	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("handlers ran out of order: %v", got)
	}
}

func TestEmitPassesArgs(t *testing.T) {
	e := New()
	var gotA string
	var gotB int
	e.On("ev", func(args ...any) {
		gotA = args[0].(string)
		gotB = args[1].(int)
	})

	e.Emit("ev", "hello", 42)

	if gotA != "hello" || gotB != 42 {
		t.Fatalf("got %q %d", gotA, gotB)
	}
}

func TestPanickingHandlerDoesNotStopSiblings(t *testing.T) {
	e := New()
	ran := false
	e.On("ev", func(args ...any) { panic("boom") })
	e.On("ev", func(args ...any) { ran = true })

	e.Emit("ev")

	if !ran {
		t.Fatal("second handler did not run after sibling panic")
	}
}

func TestUnsubscribeRemovesExactlyThatHandler(t *testing.T) {
	e := New()
	var got []int
	off1 := e.On("ev", func(args ...any) { got = append(got, 1) })
	e.On("ev", func(args ...any) { got = append(got, 2) })

	off1()
	e.Emit("ev")

	if len(got) != 1 || got[0] != 2 {
		t.Fatalf("expected only handler 2 to run, got %v", got)
	}
	if n := e.ListenerCount("ev"); n != 1 {
		t.Fatalf("listener count = %d, want 1", n)
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	e := New()
	off := e.On("ev", func(args ...any) {})
	off()
	off() // second call must not disturb other state
	if n := e.ListenerCount("ev"); n != 0 {
		t.Fatalf("listener count = %d, want 0", n)
	}
}

func TestEmitWithoutSubscribersIsNoop(t *testing.T) {
	e := New()
	e.Emit("nobody-home", 1, 2, 3)
}

func TestRemoveAll(t *testing.T) {
	e := New()
	ran := false
	e.On("a", func(args ...any) { ran = true })
	e.On("b", func(args ...any) { ran = true })

	e.RemoveAll("a")
	e.Emit("a")
	if ran {
		t.Fatal("handler for removed event ran")
	}

	e.Emit("b")
	if !ran {
		t.Fatal("unrelated event lost its handler")
	}
}

func TestReset(t *testing.T) {
	e := New()
	ran := false
	e.On("a", func(args ...any) { ran = true })
	e.Reset()
	e.Emit("a")
	if ran {
		t.Fatal("handler survived Reset")
	}
}
