// Package server implements the relay server SDK: the authenticated
// connection registry, the per-connection session handle and the
// orchestrator that wires transport events to registry mutation and to the
// registered protocol handlers.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"relaykit/logger"
	"relaykit/protocol"
	"relaykit/tools/errs"
	"relaykit/tools/ids"
	"relaykit/tools/safe"
)

const writeWait = 5 * time.Second

// Config holds the recognized server options.
type Config struct {
	// CheckOrigin decides whether an upgrade request is acceptable.
	// Nil allows every origin, matching the permissive default of the
	// upgrade path behind the CORS middleware.
	CheckOrigin func(r *http.Request) bool

	// PingInterval is the keep-alive ping cadence. Default 25s.
	PingInterval time.Duration

	// PingTimeout is how long a connection may stay silent before it is
	// dropped. Default 60s.
	PingTimeout time.Duration

	// SendQueueSize bounds each session's outbound queue. Default 256.
	SendQueueSize int

	// ReadLimit caps inbound frame size in bytes. Default 64 KiB.
	ReadLimit int64
}

func (c *Config) norm() {
	if c.PingInterval <= 0 {
		c.PingInterval = 25 * time.Second
	}
	if c.PingTimeout <= 0 {
		c.PingTimeout = 60 * time.Second
	}
	if c.SendQueueSize <= 0 {
		c.SendQueueSize = 256
	}
	if c.ReadLimit <= 0 {
		c.ReadLimit = 64 << 10
	}
	if c.CheckOrigin == nil {
		c.CheckOrigin = func(*http.Request) bool { return true }
	}
}

// Server is the connection orchestrator. The handler set is fixed at
// construction, before the server accepts traffic; handlers see every new
// connection in registration order.
type Server struct {
	conf     Config
	reg      *Registry
	handlers []Handler
	presence PresenceBroadcaster
	upgrader websocket.Upgrader
}

// New builds a server over the given registry and handler set, running each
// handler's Initialize in registration order.
func New(conf Config, reg *Registry, handlers ...Handler) (*Server, error) {
	safe.MustNotNil(reg, "registry")
	conf.norm()

	s := &Server{
		conf:     conf,
		reg:      reg,
		handlers: handlers,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     conf.CheckOrigin,
		},
	}
	for _, h := range handlers {
		if err := h.Initialize(); err != nil {
			return nil, errs.WrapMsg(err, "initialize handler")
		}
		if pb, ok := h.(PresenceBroadcaster); ok {
			s.presence = pb
		}
	}
	return s, nil
}

func (s *Server) Registry() *Registry { return s.reg }

// HandleWS upgrades one request and runs the connection to completion: add
// to the registry, attach every handler, pump frames, then tear down and
// broadcast the offline transition.
func (s *Server) HandleWS(c *gin.Context) {
	ws, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warnf("[server] upgrade: %v", err)
		return
	}

	sess := newSession(ids.GenerateString(), ws, s.conf.SendQueueSize)
	s.reg.Add(sess)
	logger.Infof("[server] session %s connected (%d online)", sess.ID(), s.reg.Count())

	for _, h := range s.handlers {
		h.HandleConnection(sess)
	}

	// authenticated sub-event, raised by the auth handler after the
	// registry binding succeeds
	sess.On(protocol.EventAuthenticated, func(args ...any) {
		if s.presence == nil || !sess.Authenticated() {
			return
		}
		if len(args) == 1 {
			if uid, ok := args[0].(string); ok && uid != "" {
				s.presence.BroadcastOnline(uid)
			}
		}
	})

	safe.Go(func() { sess.writePump(s.conf.PingInterval) })

	s.readLoop(sess, ws)

	removed := s.reg.Remove(sess.ID())
	sess.Close()
	if removed != nil {
		if uid := removed.UserID(); uid != "" && s.presence != nil {
			s.presence.BroadcastOffline(uid)
		}
	}
	logger.Infof("[server] session %s disconnected (%d online)", sess.ID(), s.reg.Count())
}

func (s *Server) readLoop(sess *Session, ws *websocket.Conn) {
	ws.SetReadLimit(s.conf.ReadLimit)
	_ = ws.SetReadDeadline(time.Now().Add(s.conf.PingTimeout))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(s.conf.PingTimeout))
	})

	for {
		mt, data, err := ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Debugf("[server] session %s read: %v", sess.ID(), err)
			}
			return
		}
		_ = ws.SetReadDeadline(time.Now().Add(s.conf.PingTimeout))
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}

		f, perr := protocol.ParseFrame(data)
		if perr != nil {
			sample := data
			if len(sample) > 256 {
				sample = sample[:256]
			}
			logger.Warnf("[server] session %s bad frame: %v sample=%q", sess.ID(), perr, sample)
			continue
		}

		sess.Dispatch(f.Event, f.Data)
	}
}

// Close drops every live session. The server stops routing once its HTTP
// listener stops accepting upgrades; this cleans up what remains.
func (s *Server) Close() {
	for _, sess := range s.reg.All() {
		s.reg.Remove(sess.ID())
		sess.Close()
	}
}
