package decode

import "testing"

type samplePayload struct {
	To        string         `json:"to"`
	Count     int            `json:"count"`
	Timestamp int64          `json:"timestamp"`
	UserIDs   []string       `json:"userIds"`
	Metadata  map[string]any `json:"metadata"`
}

func TestMapDecodesJSONShapes(t *testing.T) {
	// shapes exactly as encoding/json produces them from a wire frame
	in := map[string]any{
		"to":        "bob",
		"count":     float64(3),
		"timestamp": float64(1700000000000),
		"userIds":   []any{"a", "b"},
		"metadata":  map[string]any{"k": "v"},
	}

	got, err := Map[samplePayload](in)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.To != "bob" || got.Count != 3 || got.Timestamp != 1700000000000 {
		t.Fatalf("decoded = %+v", got)
	}
	if len(got.UserIDs) != 2 || got.UserIDs[0] != "a" {
		t.Fatalf("userIds = %v", got.UserIDs)
	}
	if got.Metadata["k"] != "v" {
		t.Fatalf("metadata = %v", got.Metadata)
	}
}

func TestMapNil(t *testing.T) {
	if _, err := Map[samplePayload](nil); err == nil {
		t.Fatal("expected an error for nil payload")
	}
}

func TestMapIgnoresUnknownFields(t *testing.T) {
	got, err := Map[samplePayload](map[string]any{"to": "bob", "junk": true})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.To != "bob" {
		t.Fatalf("decoded = %+v", got)
	}
}
