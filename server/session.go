package server

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"relaykit/emitter"
	"relaykit/logger"
	"relaykit/protocol"
)

// Session is the per-connection handle: one websocket, its authentication
// state and an outbound-emit capability. Inbound frames are fanned out to
// protocol handlers through the session's event bus; outbound frames are
// enqueued on the send channel and drained by a single writer goroutine.
type Session struct {
	id     string
	conn   *websocket.Conn
	events *emitter.Emitter
	send   chan []byte

	mu            sync.RWMutex
	user          *protocol.User
	authenticated bool

	closeOnce sync.Once
	closed    chan struct{}
}

func newSession(id string, conn *websocket.Conn, sendQueueSize int) *Session {
	return &Session{
		id:     id,
		conn:   conn,
		events: emitter.New(),
		send:   make(chan []byte, sendQueueSize),
		closed: make(chan struct{}),
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) User() *protocol.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// UserID returns the authenticated user id, empty while unauthenticated.
func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.ID
}

func (s *Session) setUser(u *protocol.User) {
	s.mu.Lock()
	s.user = u
	s.authenticated = u != nil
	s.mu.Unlock()
}

// On attaches a handler to an inbound event on this connection and returns
// the detach function. Handlers receive the frame's payload map as the
// single argument.
func (s *Session) On(event string, h emitter.Handler) (off func()) {
	return s.events.On(event, h)
}

// Dispatch fans one inbound event out to the handlers attached via On.
func (s *Session) Dispatch(event string, args ...any) {
	s.events.Emit(event, args...)
}

// Emit queues an outbound frame. A full send queue drops the frame with a
// log line rather than blocking the caller; typing indicators and presence
// broadcasts tolerate loss, and a client lagging this far behind is about to
// be dropped by the keep-alive anyway.
func (s *Session) Emit(event string, payload any) error {
	b, err := protocol.MarshalFrame(event, payload)
	if err != nil {
		return err
	}
	select {
	case s.send <- b:
		return nil
	case <-s.closed:
		return nil
	default:
		logger.Warnf("[session %s] send queue full, dropping %s", s.id, event)
		return nil
	}
}

// Close shuts the connection down. Safe to call multiple times.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
		deadline := time.Now().Add(writeWait)
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		_ = s.conn.Close()
	})
}

// writePump drains the send queue onto the socket and owns all writes,
// including keep-alive pings. Exits when the session closes.
func (s *Session) writePump(pingInterval time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case b := <-s.send:
			if err := s.writeMessage(websocket.TextMessage, b); err != nil {
				logger.Debugf("[session %s] write: %v", s.id, err)
				s.Close()
				return
			}
		case <-ticker.C:
			if err := s.writeMessage(websocket.PingMessage, nil); err != nil {
				logger.Debugf("[session %s] ping: %v", s.id, err)
				s.Close()
				return
			}
		case <-s.closed:
			return
		}
	}
}

func (s *Session) writeMessage(messageType int, data []byte) error {
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.conn.WriteMessage(messageType, data)
}
