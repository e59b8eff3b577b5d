package server

import (
	"sync"

	"relaykit/protocol"
	"relaykit/tools/errs"
)

// Registry is the dual-indexed store of live sessions: by transport session
// id and by authenticated user id. The two maps are kept mutually
// consistent: every user entry points at a registered session whose user
// carries that id, and removing a session also removes the user entry that
// points at it. It is never handed out for direct mutation; handlers and the
// orchestrator go through these operations only.
type Registry struct {
	mu        sync.RWMutex
	bySession map[string]*Session
	byUser    map[string]string // userID -> sessionID
}

func NewRegistry() *Registry {
	return &Registry{
		bySession: make(map[string]*Session),
		byUser:    make(map[string]string),
	}
}

func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bySession[s.ID()] = s
}

// Remove drops the session and, when it was authenticated, the user mapping
// that points at it. Returns the removed session, nil when unknown.
func (r *Registry) Remove(sessionID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.bySession[sessionID]
	if !ok {
		return nil
	}
	delete(r.bySession, sessionID)
	if u := s.User(); u != nil {
		// only clear the user index if it still points at this session;
		// a later authentication may have moved the user elsewhere
		if sid, ok := r.byUser[u.ID]; ok && sid == sessionID {
			delete(r.byUser, u.ID)
		}
	}
	return s
}

func (r *Registry) Get(sessionID string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bySession[sessionID]
}

func (r *Registry) GetByUserID(userID string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sid, ok := r.byUser[userID]
	if !ok {
		return nil
	}
	return r.bySession[sid]
}

// Authenticate binds user to the session and installs the userID mapping.
// Last authentication wins: a prior mapping for the same user id is
// silently overwritten and the displaced session stays registered under its
// own session id.
func (r *Registry) Authenticate(sessionID string, user *protocol.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.bySession[sessionID]
	if !ok {
		return errs.ErrSessionNotFound.WrapMsg("authenticate " + sessionID)
	}
	s.setUser(user)
	r.byUser[user.ID] = sessionID
	return nil
}

func (r *Registry) IsOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byUser[userID]
	return ok
}

func (r *Registry) OnlineUserIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.byUser))
	for id := range r.byUser {
		out = append(out, id)
	}
	return out
}

// BatchStatus reports presence for every requested id; unknown ids are
// present in the result as false.
func (r *Registry) BatchStatus(userIDs []string) map[string]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		_, ok := r.byUser[id]
		out[id] = ok
	}
	return out
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bySession)
}

// All snapshots every registered session, for broadcasts.
func (r *Registry) All() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Session, 0, len(r.bySession))
	for _, s := range r.bySession {
		out = append(out, s)
	}
	return out
}
