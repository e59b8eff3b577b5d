package ids

import "testing"

func TestGenerateUnique(t *testing.T) {
	seen := make(map[int64]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		id := Generate()
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = struct{}{}
	}
}

func TestGenerateMonotonic(t *testing.T) {
	prev := Generate()
	for i := 0; i < 1000; i++ {
		id := Generate()
		if id <= prev {
			t.Fatalf("id %d not greater than previous %d", id, prev)
		}
		prev = id
	}
}

func TestSetNodeIDOutOfRange(t *testing.T) {
	SetNodeID(5000)
	if defaultGen.nodeID != 1 {
		t.Fatalf("nodeID = %d, want fallback 1", defaultGen.nodeID)
	}
	SetNodeID(7)
	if defaultGen.nodeID != 7 {
		t.Fatalf("nodeID = %d", defaultGen.nodeID)
	}
	SetNodeID(1)
}
