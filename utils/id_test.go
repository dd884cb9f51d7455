package utils

import (
	"testing"
	"time"
)

func TestIDGenerator_Next(t *testing.T) {
	frozen := time.UnixMilli(1700000000000)
	g := NewIDGeneratorWithClock(func() time.Time { return frozen })

	seen := make(map[int64]bool)
	var prev int64
	for i := 0; i < 5; i++ {
		id := g.Next()
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		if id <= prev {
			t.Fatalf("id %d not greater than previous %d", id, prev)
		}
		seen[id] = true
		prev = id
	}

	if first := int64(1700000000000); prev != first+4 {
		t.Errorf("Expected last id %d, got %d", first+4, prev)
	}
}

func TestIDGenerator_FollowsClock(t *testing.T) {
	now := time.UnixMilli(1000)
	g := NewIDGeneratorWithClock(func() time.Time { return now })

	if got := g.Next(); got != 1000 {
		t.Errorf("Expected 1000, got %d", got)
	}
	now = now.Add(50 * time.Millisecond)
	if got := g.Next(); got != 1050 {
		t.Errorf("Expected 1050, got %d", got)
	}
}
