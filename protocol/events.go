// Package protocol defines the wire protocol shared by the client and server
// SDKs: event names, typed per-event payloads and the JSON frame codec.
// Event names are case-sensitive and must match on both ends.
package protocol

// Client -> server events.
const (
	EventAuthenticate    = "authenticate"
	EventGetOnlineStatus = "get_online_status"
	EventSendMessage     = "send_message"
	EventTypingStart     = "typing_start"
	EventTypingStop      = "typing_stop"
)

// Server -> client events.
const (
	EventAuthenticated    = "authenticated"
	EventAuthError        = "auth_error"
	EventOnlineStatus     = "online_status"
	EventUserOnline       = "user_online"
	EventUserOffline      = "user_offline"
	EventReceiveMessage   = "receive_message"
	EventMessageDelivered = "message_delivered"
	EventMessageError     = "message_error"
)

// Client-local lifecycle events published through the client dispatcher.
// These never travel over the wire.
const (
	EventConnect    = "connect"
	EventDisconnect = "disconnect"
	EventError      = "error"
)
