package app

import (
	"testing"
)

func TestPageCountFor(t *testing.T) {
	tests := []struct {
		name     string
		entries  int
		perPage  int
		expected int
	}{
		{"empty grid still has one page", 0, 20, 1},
		{"partial page", 7, 20, 1},
		{"exact page", 20, 20, 1},
		{"one over", 21, 20, 2},
		{"many pages", 95, 20, 5},
		{"invalid per-page falls back to one page", 50, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pageCountFor(tt.entries, tt.perPage); got != tt.expected {
				t.Errorf("pageCountFor(%d, %d) = %d, want %d",
					tt.entries, tt.perPage, got, tt.expected)
			}
		})
	}
}

func TestResolveUserKey(t *testing.T) {
	key := resolveUserKey()
	if key == "" {
		t.Fatal("user key must never be empty")
	}
	// Windows usernames arrive as DOMAIN\name; the key must be the bare name
	for _, r := range key {
		if r == '\\' || r == '/' {
			t.Errorf("user key contains a path separator: %q", key)
		}
	}
}

func TestReordererFunc(t *testing.T) {
	var gotFrom, gotTo int
	fn := reordererFunc(func(from, to int) error {
		gotFrom, gotTo = from, to
		return nil
	})

	if err := fn.Reorder(3, 9); err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if gotFrom != 3 || gotTo != 9 {
		t.Errorf("expected 3 -> 9, got %d -> %d", gotFrom, gotTo)
	}
}
