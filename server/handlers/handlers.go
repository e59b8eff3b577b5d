// Package handlers contains the built-in protocol handlers: authentication
// handshake, presence broadcast and point-to-point messaging/typing. Each
// implements server.Handler and owns one slice of the wire protocol.
package handlers

import (
	"fmt"

	"relaykit/tools/decode"
)

// payload decodes the dispatch arguments of one inbound event into the
// typed payload struct T.
func payload[T any](args []any) (*T, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("missing payload")
	}
	m, ok := args[0].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("payload is %T, want object", args[0])
	}
	return decode.Map[T](m)
}
