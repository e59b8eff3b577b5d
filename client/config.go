package client

import "time"

// Config holds the recognized client options. Zero-value durations and
// counts are filled with defaults by norm; boolean options default to
// enabled via DefaultConfig.
type Config struct {
	// URL of the relay websocket endpoint (ws:// or wss://).
	URL string

	// AutoConnect opens the transport from New. When false the caller
	// drives Connect explicitly.
	AutoConnect bool

	// Reconnection enables the bounded linear-backoff reconnect loop.
	Reconnection bool

	// ReconnectionAttempts caps the reconnect loop. Default 5.
	ReconnectionAttempts int

	// ReconnectionDelay is the backoff base: attempt n waits n*delay.
	// Default 1s.
	ReconnectionDelay time.Duration

	// Timeout bounds the websocket handshake. Default 20s.
	Timeout time.Duration

	// Transports is recognized for option compatibility; only "websocket"
	// is supported by this SDK.
	Transports []string
}

// DefaultConfig returns the option set with every default applied.
func DefaultConfig(url string) Config {
	c := Config{URL: url, AutoConnect: true, Reconnection: true}
	c.norm()
	return c
}

func (c *Config) norm() {
	if c.ReconnectionAttempts <= 0 {
		c.ReconnectionAttempts = 5
	}
	if c.ReconnectionDelay <= 0 {
		c.ReconnectionDelay = time.Second
	}
	if c.Timeout <= 0 {
		c.Timeout = 20 * time.Second
	}
	if len(c.Transports) == 0 {
		c.Transports = []string{"websocket"}
	}
}
