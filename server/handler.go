package server

// Handler is the protocol-handler contract. Each handler owns one slice of
// the wire protocol: Initialize runs once before the server accepts traffic,
// HandleConnection runs once per new connection to attach the handler's
// event listeners to that session. Built-in handlers live in
// server/handlers; custom extensions implement the same interface.
type Handler interface {
	Initialize() error
	HandleConnection(s *Session)
}

// PresenceBroadcaster is the capability the orchestrator needs from a
// presence handler: broadcasting online/offline transitions when a session
// authenticates or disconnects. Satisfied by handlers.Presence.
type PresenceBroadcaster interface {
	BroadcastOnline(userID string)
	BroadcastOffline(userID string)
}
