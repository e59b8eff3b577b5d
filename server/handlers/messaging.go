package handlers

import (
	"fmt"
	"time"

	"relaykit/logger"
	"relaykit/protocol"
	"relaykit/server"
	"relaykit/tools/ids"
)

// Wire messages for routing failures.
const (
	msgNotAuthenticated = "Not authenticated"
	msgInvalidUser      = "Invalid user"
	msgRecipientOffline = "Recipient is offline"
	msgInvalidPayload   = "Invalid payload"
)

// Messaging routes point-to-point messages and typing indicators between
// sessions of this process. Message failures are reported to the sender via
// message_error; typing failures are intentionally silent, typing signals
// are ephemeral and not worth the noise.
type Messaging struct {
	reg *server.Registry
}

func NewMessaging(reg *server.Registry) *Messaging {
	return &Messaging{reg: reg}
}

func (m *Messaging) Initialize() error {
	if m.reg == nil {
		return fmt.Errorf("messaging: registry is required")
	}
	return nil
}

func (m *Messaging) HandleConnection(s *server.Session) {
	s.On(protocol.EventSendMessage, func(args ...any) {
		m.handleSend(s, args)
	})
	s.On(protocol.EventTypingStart, func(args ...any) {
		m.relayTyping(s, args, protocol.EventTypingStart)
	})
	s.On(protocol.EventTypingStop, func(args ...any) {
		m.relayTyping(s, args, protocol.EventTypingStop)
	})
}

func (m *Messaging) handleSend(s *server.Session, args []any) {
	p, err := payload[protocol.SendMessagePayload](args)
	if err != nil {
		logger.Warnf("[messaging] session %s bad payload: %v", s.ID(), err)
		_ = s.Emit(protocol.EventMessageError, protocol.MessageErrorPayload{Error: msgInvalidPayload})
		return
	}

	sender := m.reg.Get(s.ID())
	if sender == nil || !sender.Authenticated() {
		_ = s.Emit(protocol.EventMessageError, protocol.MessageErrorPayload{Error: msgNotAuthenticated})
		return
	}

	from := sender.UserID()
	if from == "" {
		// authenticated session without a user id is an internal
		// consistency failure
		logger.Errorf("[messaging] session %s authenticated but has no user", s.ID())
		_ = s.Emit(protocol.EventMessageError, protocol.MessageErrorPayload{Error: msgInvalidUser})
		return
	}

	recipient := m.reg.GetByUserID(p.To)
	if recipient == nil {
		_ = s.Emit(protocol.EventMessageError, protocol.MessageErrorPayload{
			MessageID: ids.GenerateString(),
			Error:     msgRecipientOffline,
		})
		return
	}

	msgID := ids.GenerateString()
	_ = recipient.Emit(protocol.EventReceiveMessage, protocol.ReceiveMessagePayload{
		From:      from,
		Content:   p.Content,
		Timestamp: time.Now().UnixMilli(),
		MessageID: msgID,
		Metadata:  p.Metadata,
	})
	_ = s.Emit(protocol.EventMessageDelivered, protocol.MessageDeliveredPayload{MessageID: msgID})
}

// relayTyping forwards a typing signal, failing silently at every step:
// unauthenticated sender or offline recipient produce no event anywhere.
func (m *Messaging) relayTyping(s *server.Session, args []any, event string) {
	p, err := payload[protocol.TypingPayload](args)
	if err != nil {
		return
	}
	sender := m.reg.Get(s.ID())
	if sender == nil || !sender.Authenticated() {
		return
	}
	from := sender.UserID()
	if from == "" {
		return
	}
	recipient := m.reg.GetByUserID(p.To)
	if recipient == nil {
		return
	}
	_ = recipient.Emit(event, protocol.TypingEventPayload{From: from})
}
