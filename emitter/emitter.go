// Package emitter provides the named-event publish/subscribe primitive used
// by both the client and server layers.
package emitter

import (
	"sync"

	"relaykit/tools/safe"
)

// Handler receives the arguments passed to Emit.
type Handler func(args ...any)

type entry struct {
	id uint64
	fn Handler
}

// Emitter dispatches named events to subscribed handlers in registration
// order. A panicking handler is recovered and logged without disturbing the
// handlers after it. Safe for concurrent use.
type Emitter struct {
	mu     sync.RWMutex
	seq    uint64
	events map[string][]entry
}

func New() *Emitter {
	return &Emitter{events: make(map[string][]entry)}
}

// On subscribes h to the named event and returns a function that removes
// exactly this subscription.
func (e *Emitter) On(event string, h Handler) (off func()) {
	e.mu.Lock()
	e.seq++
	id := e.seq
	e.events[event] = append(e.events[event], entry{id: id, fn: h})
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		list := e.events[event]
		for i, it := range list {
			if it.id == id {
				list = append(list[:i], list[i+1:]...)
				break
			}
		}
		if len(list) == 0 {
			delete(e.events, event)
		} else {
			e.events[event] = list
		}
	}
}

// Emit invokes every handler subscribed to event, in registration order.
// Emitting an event with no subscribers is a no-op.
func (e *Emitter) Emit(event string, args ...any) {
	e.mu.RLock()
	list := e.events[event]
	snapshot := make([]entry, len(list))
	copy(snapshot, list)
	e.mu.RUnlock()

	for _, it := range snapshot {
		fn := it.fn
		safe.Invoke("emitter:"+event, func() { fn(args...) })
	}
}

// RemoveAll drops every handler for the named event.
func (e *Emitter) RemoveAll(event string) {
	e.mu.Lock()
	delete(e.events, event)
	e.mu.Unlock()
}

// Reset drops every handler for every event.
func (e *Emitter) Reset() {
	e.mu.Lock()
	e.events = make(map[string][]entry)
	e.mu.Unlock()
}

// ListenerCount reports how many handlers are subscribed to event.
func (e *Emitter) ListenerCount(event string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.events[event])
}
