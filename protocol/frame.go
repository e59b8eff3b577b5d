package protocol

import (
	"encoding/json"
	"fmt"
)

// Frame is the envelope for every wire exchange: an event name plus its
// payload. Payloads arrive as generic maps and are decoded into the typed
// structs above by each handler (tools/decode).
type Frame struct {
	Event string         `json:"event"`
	Data  map[string]any `json:"data,omitempty"`
}

// ParseFrame decodes a raw websocket message into a Frame.
func ParseFrame(raw []byte) (*Frame, error) {
	f := &Frame{}
	if err := json.Unmarshal(raw, f); err != nil {
		return nil, fmt.Errorf("unmarshal frame: %w", err)
	}
	if f.Event == "" {
		return nil, fmt.Errorf("frame missing event name")
	}
	return f, nil
}

// MarshalFrame encodes an event and a typed payload into wire bytes.
// A nil payload produces a frame with no data object.
func MarshalFrame(event string, payload any) ([]byte, error) {
	env := struct {
		Event string `json:"event"`
		Data  any    `json:"data,omitempty"`
	}{Event: event, Data: payload}
	b, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal frame %q: %w", event, err)
	}
	return b, nil
}
