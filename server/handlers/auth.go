package handlers

import (
	"context"
	"fmt"
	"time"

	"relaykit/logger"
	"relaykit/protocol"
	"relaykit/server"
)

// Wire messages for handshake failures.
const (
	msgInvalidToken = "Invalid token"
	msgAuthFailed   = "Authentication failed"
)

const defaultValidateTimeout = 10 * time.Second

// TokenValidator resolves a token to a user. A nil user with a nil error
// means the token was rejected; a non-nil error means the validator itself
// failed. This is the injected external collaborator of the handshake.
type TokenValidator func(ctx context.Context, token string) (*protocol.User, error)

// Auth implements the authentication handshake: it validates the token
// through the injected validator, binds the resulting user into the
// registry and acks with authenticated, or emits auth_error and drops the
// connection. Failed handshakes are never retried server-side.
type Auth struct {
	reg      *server.Registry
	validate TokenValidator
	timeout  time.Duration
}

func NewAuth(reg *server.Registry, validate TokenValidator) *Auth {
	return &Auth{reg: reg, validate: validate, timeout: defaultValidateTimeout}
}

func (a *Auth) Initialize() error {
	if a.reg == nil {
		return fmt.Errorf("auth: registry is required")
	}
	if a.validate == nil {
		return fmt.Errorf("auth: token validator is required")
	}
	return nil
}

func (a *Auth) HandleConnection(s *server.Session) {
	s.On(protocol.EventAuthenticate, func(args ...any) {
		a.handleAuthenticate(s, args)
	})
}

func (a *Auth) handleAuthenticate(s *server.Session, args []any) {
	p, err := payload[protocol.AuthenticatePayload](args)
	if err != nil {
		logger.Warnf("[auth] session %s bad payload: %v", s.ID(), err)
		a.reject(s, msgAuthFailed)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	user, err := a.validate(ctx, p.Token)
	cancel()
	if err != nil {
		logger.Warnf("[auth] session %s validator error: %v", s.ID(), err)
		a.reject(s, msgAuthFailed)
		return
	}
	if user == nil {
		a.reject(s, msgInvalidToken)
		return
	}

	user.SessionID = s.ID()
	user.ConnectedAt = time.Now().UnixMilli()
	if err := a.reg.Authenticate(s.ID(), user); err != nil {
		logger.Warnf("[auth] session %s bind: %v", s.ID(), err)
		a.reject(s, msgAuthFailed)
		return
	}

	logger.Infof("[auth] session %s authenticated as %s", s.ID(), user.ID)
	_ = s.Emit(protocol.EventAuthenticated, protocol.AuthenticatedPayload{
		UserID:    user.ID,
		SessionID: s.ID(),
	})

	// raise the authenticated sub-event for the orchestrator
	s.Dispatch(protocol.EventAuthenticated, user.ID)
}

// reject emits the failure and forcibly closes the session; the close is
// slightly delayed so the auth_error frame ahead of it in the send queue
// can drain.
func (a *Auth) reject(s *server.Session, message string) {
	_ = s.Emit(protocol.EventAuthError, protocol.AuthErrorPayload{Message: message})
	time.AfterFunc(writeGrace, s.Close)
}

const writeGrace = 100 * time.Millisecond
