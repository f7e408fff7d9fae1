package util

import (
	"strings"
	"testing"
)

func TestNewIDFormat(t *testing.T) {
	id := NewID("val")
	if !strings.HasPrefix(id, "val_") {
		t.Errorf("id = %q, want val_ prefix", id)
	}
	if len(id) != len("val_")+32 {
		t.Errorf("id length = %d, want prefix plus 32 hex chars", len(id))
	}
}

func TestNewIDWithoutPrefix(t *testing.T) {
	id := NewID("")
	if len(id) != 32 || strings.Contains(id, "_") {
		t.Errorf("bare id = %q, want 32 hex chars", id)
	}
}

func TestNewIDIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID("val")
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
