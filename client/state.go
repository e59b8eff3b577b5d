package client

// ConnectionState is the connection phase of one client instance.
// Exactly one value is active at a time.
type ConnectionState int

const (
	// StateDisconnected means the client holds no live connection.
	StateDisconnected ConnectionState = iota

	// StateConnecting means the client is establishing a connection.
	StateConnecting

	// StateConnected means the socket is open but not yet authenticated.
	StateConnected

	// StateAuthenticated means the handshake completed and messaging
	// operations are available.
	StateAuthenticated

	// StateError means the last transport operation failed.
	StateError

	// StateReconnecting means a backoff timer is pending before the next
	// connection attempt.
	StateReconnecting
)

func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateAuthenticated:
		return "authenticated"
	case StateError:
		return "error"
	case StateReconnecting:
		return "reconnecting"
	default:
		return "unknown"
	}
}
