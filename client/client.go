// Package client implements the relay client SDK: the connection state
// machine, the session orchestrator with linear-backoff reconnection, the
// authentication handshake and the message/presence/typing operations.
// Semantic events (connect, authenticated, receive_message, ...) surface
// through the embedded event dispatcher.
package client

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"relaykit/emitter"
	"relaykit/logger"
	"relaykit/protocol"
	"relaykit/tools/decode"
	"relaykit/tools/errs"
	"relaykit/tools/safe"
)

const writeDeadline = 5 * time.Second

// Close reasons surfaced with the disconnect event.
const (
	ReasonClientDisconnect = "client disconnect"
	ReasonServerDisconnect = "server disconnect"
)

// Client owns one websocket connection and the session state machine.
// All methods are safe for concurrent use.
type Client struct {
	conf   Config
	state  *SessionState
	events *emitter.Emitter

	mu             sync.Mutex
	ws             *websocket.Conn
	userID         string
	reconnectTimer *time.Timer
	closing        bool // set by Disconnect so the read loop reports a client-initiated close

	writeMu sync.Mutex
}

// New builds a client from conf. With AutoConnect set the transport is
// opened in the background; connection progress surfaces as state changes
// and dispatcher events.
func New(conf Config) *Client {
	conf.norm()
	c := &Client{
		conf:   conf,
		state:  NewSessionState(conf.ReconnectionAttempts),
		events: emitter.New(),
	}
	if conf.AutoConnect {
		safe.Go(func() {
			if err := c.Connect(); err != nil {
				logger.Warnf("[client] auto connect: %v", err)
			}
		})
	}
	return c
}

// On subscribes to a dispatcher event (wire events plus the connect /
// disconnect / error lifecycle events) and returns the unsubscribe function.
func (c *Client) On(event string, h emitter.Handler) (off func()) {
	return c.events.On(event, h)
}

// OnStateChange observes connection-state transitions.
func (c *Client) OnStateChange(fn StateListener) (off func()) {
	return c.state.OnStateChange(fn)
}

func (c *Client) State() ConnectionState { return c.state.State() }
func (c *Client) IsConnected() bool      { return c.state.IsConnected() }
func (c *Client) IsAuthenticated() bool  { return c.state.IsAuthenticated() }

// Session exposes the state machine, mainly for observers and tests.
func (c *Client) Session() *SessionState { return c.state }

// UserID returns the authenticated user id, empty before the handshake
// completes.
func (c *Client) UserID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

// Connect opens the transport. Calling it while connected or while a dial
// is in flight logs a warning and returns nil.
func (c *Client) Connect() error {
	if st := c.state.State(); st == StateConnecting || c.state.IsConnected() {
		logger.Warnf("[client] connect ignored, state=%s", st)
		return nil
	}

	c.state.SetState(StateConnecting)

	dialer := websocket.Dialer{HandshakeTimeout: c.conf.Timeout}
	ws, resp, err := dialer.Dial(c.conf.URL, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		c.state.SetState(StateError)
		c.events.Emit(protocol.EventError, err)
		if c.conf.Reconnection {
			c.scheduleReconnect()
		}
		return errs.WrapMsg(err, "dial "+c.conf.URL)
	}

	c.mu.Lock()
	c.ws = ws
	c.closing = false
	c.mu.Unlock()

	c.state.ResetReconnectAttempts()
	c.state.SetState(StateConnected)
	c.events.Emit(protocol.EventConnect)

	safe.Go(func() { c.readLoop(ws) })
	return nil
}

// Disconnect tears the session down: the pending reconnect timer is
// cancelled, the socket closed, the state machine reset and the cached user
// id cleared. Reconnection never resumes after an explicit disconnect.
func (c *Client) Disconnect() {
	c.mu.Lock()
	c.closing = true
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
		c.reconnectTimer = nil
	}
	ws := c.ws
	c.ws = nil
	c.userID = ""
	c.mu.Unlock()

	if ws != nil {
		deadline := time.Now().Add(writeDeadline)
		_ = ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		_ = ws.Close()
	}

	c.state.Reset()
}

// Authenticate emits the handshake request. The result arrives out of band
// as an authenticated or auth_error event.
func (c *Client) Authenticate(token string) error {
	if !c.state.IsConnected() {
		return errs.ErrNotConnected.WrapMsg("authenticate")
	}
	return c.send(protocol.EventAuthenticate, protocol.AuthenticatePayload{Token: token})
}

// SendMessage emits a point-to-point message. Delivery confirmation or
// failure arrives asynchronously as message_delivered / message_error.
func (c *Client) SendMessage(to, content string, metadata map[string]any) error {
	if !c.state.IsAuthenticated() {
		return errs.ErrNotAuthenticated.WrapMsg("send_message")
	}
	return c.send(protocol.EventSendMessage, protocol.SendMessagePayload{
		To: to, Content: content, Metadata: metadata,
	})
}

// StartTyping is fire-and-forget: a no-op unless authenticated, and no
// response is ever expected.
func (c *Client) StartTyping(to string) {
	if !c.state.IsAuthenticated() {
		return
	}
	if err := c.send(protocol.EventTypingStart, protocol.TypingPayload{To: to}); err != nil {
		logger.Debugf("[client] typing_start: %v", err)
	}
}

// StopTyping is fire-and-forget, mirroring StartTyping.
func (c *Client) StopTyping(to string) {
	if !c.state.IsAuthenticated() {
		return
	}
	if err := c.send(protocol.EventTypingStop, protocol.TypingPayload{To: to}); err != nil {
		logger.Debugf("[client] typing_stop: %v", err)
	}
}

// GetOnlineStatus requests presence for the given user ids; the reply
// arrives as an online_status event. Available from the moment the socket
// connects, before authentication.
func (c *Client) GetOnlineStatus(userIDs []string) error {
	if !c.state.IsConnected() {
		return errs.ErrNotConnected.WrapMsg("get_online_status")
	}
	return c.send(protocol.EventGetOnlineStatus, protocol.GetOnlineStatusPayload{UserIDs: userIDs})
}

func (c *Client) send(event string, payload any) error {
	b, err := protocol.MarshalFrame(event, payload)
	if err != nil {
		return err
	}

	c.mu.Lock()
	ws := c.ws
	c.mu.Unlock()
	if ws == nil {
		return errs.ErrNotConnected.WrapMsg(event)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := ws.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
		return errs.Wrap(err)
	}
	return errs.Wrap(ws.WriteMessage(websocket.TextMessage, b))
}

// backoffDelay computes the linear backoff for attempt n.
func (c *Client) backoffDelay(n int) time.Duration {
	return c.conf.ReconnectionDelay * time.Duration(n)
}

func (c *Client) scheduleReconnect() {
	c.mu.Lock()
	if c.closing {
		c.mu.Unlock()
		return
	}
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
		c.reconnectTimer = nil
	}
	c.mu.Unlock()

	if !c.state.CanReconnect() {
		logger.Warnf("[client] reconnect attempts exhausted (%d)", c.state.ReconnectAttempts())
		return
	}

	n := c.state.IncrementReconnectAttempts()
	delay := c.backoffDelay(n)
	c.state.SetState(StateReconnecting)
	logger.Infof("[client] reconnect attempt %d in %s", n, delay)

	c.mu.Lock()
	c.reconnectTimer = time.AfterFunc(delay, func() {
		if err := c.Connect(); err != nil {
			logger.Warnf("[client] reconnect attempt %d: %v", n, err)
		}
	})
	c.mu.Unlock()
}

func (c *Client) readLoop(ws *websocket.Conn) {
	var readErr error
	for {
		mt, data, err := ws.ReadMessage()
		if err != nil {
			readErr = err
			break
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}
		f, err := protocol.ParseFrame(data)
		if err != nil {
			logger.Warnf("[client] bad frame: %v", err)
			continue
		}
		c.dispatch(f)
	}

	c.mu.Lock()
	clientInitiated := c.closing
	stale := c.ws != ws
	if !stale {
		c.ws = nil
		c.userID = ""
	}
	c.mu.Unlock()
	if stale && !clientInitiated {
		// a newer connection already replaced this one
		return
	}

	switch {
	case clientInitiated:
		c.handleClosed(ReasonClientDisconnect)
	case isCloseError(readErr):
		c.handleClosed(ReasonServerDisconnect)
	default:
		c.handleTransportError(readErr)
	}
}

// handleClosed runs the orderly-close path: reconnect only for non
// client-initiated reasons.
func (c *Client) handleClosed(reason string) {
	c.state.SetState(StateDisconnected)
	c.events.Emit(protocol.EventDisconnect, reason)
	if c.conf.Reconnection && reason != ReasonClientDisconnect {
		c.scheduleReconnect()
	}
}

// handleTransportError runs the failure path: reconnect regardless of cause.
func (c *Client) handleTransportError(err error) {
	c.state.SetState(StateError)
	c.events.Emit(protocol.EventError, err)
	if c.conf.Reconnection {
		c.scheduleReconnect()
	}
}

func isCloseError(err error) bool {
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
	)
}

// dispatch decodes one inbound frame into its typed payload and republishes
// it through the dispatcher.
func (c *Client) dispatch(f *protocol.Frame) {
	switch f.Event {
	case protocol.EventAuthenticated:
		p, err := decode.Map[protocol.AuthenticatedPayload](f.Data)
		if err != nil {
			logger.Warnf("[client] authenticated payload: %v", err)
			return
		}
		c.mu.Lock()
		c.userID = p.UserID
		c.mu.Unlock()
		c.state.SetState(StateAuthenticated)
		c.events.Emit(protocol.EventAuthenticated, p)

	case protocol.EventAuthError:
		p, err := decode.Map[protocol.AuthErrorPayload](f.Data)
		if err != nil {
			logger.Warnf("[client] auth_error payload: %v", err)
			return
		}
		c.events.Emit(protocol.EventAuthError, p)

	case protocol.EventOnlineStatus:
		p, err := decode.Map[protocol.OnlineStatusPayload](f.Data)
		if err != nil {
			logger.Warnf("[client] online_status payload: %v", err)
			return
		}
		c.events.Emit(protocol.EventOnlineStatus, p)

	case protocol.EventUserOnline, protocol.EventUserOffline:
		p, err := decode.Map[protocol.PresencePayload](f.Data)
		if err != nil {
			logger.Warnf("[client] %s payload: %v", f.Event, err)
			return
		}
		c.events.Emit(f.Event, p)

	case protocol.EventReceiveMessage:
		p, err := decode.Map[protocol.ReceiveMessagePayload](f.Data)
		if err != nil {
			logger.Warnf("[client] receive_message payload: %v", err)
			return
		}
		c.events.Emit(protocol.EventReceiveMessage, p)

	case protocol.EventMessageDelivered:
		p, err := decode.Map[protocol.MessageDeliveredPayload](f.Data)
		if err != nil {
			logger.Warnf("[client] message_delivered payload: %v", err)
			return
		}
		c.events.Emit(protocol.EventMessageDelivered, p)

	case protocol.EventMessageError:
		p, err := decode.Map[protocol.MessageErrorPayload](f.Data)
		if err != nil {
			logger.Warnf("[client] message_error payload: %v", err)
			return
		}
		c.events.Emit(protocol.EventMessageError, p)

	case protocol.EventTypingStart, protocol.EventTypingStop:
		p, err := decode.Map[protocol.TypingEventPayload](f.Data)
		if err != nil {
			logger.Warnf("[client] %s payload: %v", f.Event, err)
			return
		}
		c.events.Emit(f.Event, p)

	default:
		logger.Debugf("[client] unhandled event %q", f.Event)
	}
}
