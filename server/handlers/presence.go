package handlers

import (
	"context"
	"fmt"
	"time"

	"relaykit/logger"
	"relaykit/protocol"
	"relaykit/server"
	"relaykit/server/storage"
	"relaykit/tools/safe"
)

const mirrorTimeout = 2 * time.Second

// Presence answers get_online_status queries and owns the user_online /
// user_offline broadcasts, which the orchestrator invokes on authentication
// and disconnect. With a mirror configured, transitions are also written
// through to redis for external observers; the in-process registry stays
// authoritative.
type Presence struct {
	reg    *server.Registry
	mirror *storage.PresenceMirror // nil disables mirroring
}

func NewPresence(reg *server.Registry, mirror *storage.PresenceMirror) *Presence {
	return &Presence{reg: reg, mirror: mirror}
}

func (p *Presence) Initialize() error {
	if p.reg == nil {
		return fmt.Errorf("presence: registry is required")
	}
	return nil
}

func (p *Presence) HandleConnection(s *server.Session) {
	// status queries only require a connection, not authentication:
	// anonymous discoverability before login is deliberate
	s.On(protocol.EventGetOnlineStatus, func(args ...any) {
		q, err := payload[protocol.GetOnlineStatusPayload](args)
		if err != nil {
			logger.Warnf("[presence] session %s bad payload: %v", s.ID(), err)
			return
		}
		_ = s.Emit(protocol.EventOnlineStatus, protocol.OnlineStatusPayload{
			Statuses: p.reg.BatchStatus(q.UserIDs),
		})
	})
}

// BroadcastOnline announces userID to every connected session.
func (p *Presence) BroadcastOnline(userID string) {
	p.broadcast(protocol.EventUserOnline, userID)
	if p.mirror != nil {
		safe.Go(func() {
			ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
			defer cancel()
			if err := p.mirror.Online(ctx, userID); err != nil {
				logger.Warnf("[presence] mirror online %s: %v", userID, err)
			}
		})
	}
}

// BroadcastOffline announces the departure of userID to every connected
// session.
func (p *Presence) BroadcastOffline(userID string) {
	p.broadcast(protocol.EventUserOffline, userID)
	if p.mirror != nil {
		safe.Go(func() {
			ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
			defer cancel()
			if err := p.mirror.Offline(ctx, userID); err != nil {
				logger.Warnf("[presence] mirror offline %s: %v", userID, err)
			}
		})
	}
}

func (p *Presence) broadcast(event, userID string) {
	pl := protocol.PresencePayload{UserID: userID}
	for _, sess := range p.reg.All() {
		_ = sess.Emit(event, pl)
	}
}
