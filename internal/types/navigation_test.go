package types

import "testing"

func TestNavDirectionString(t *testing.T) {
	tests := []struct {
		direction NavDirection
		expected  string
	}{
		{NavPrevious, "previous"},
		{NavNext, "next"},
		{NavDirection(7), "NavDirection(7)"},
	}

	for _, tt := range tests {
		if got := tt.direction.String(); got != tt.expected {
			t.Errorf("String() = %q, want %q", got, tt.expected)
		}
	}
}

func TestParseNavDirection(t *testing.T) {
	tests := []struct {
		input    string
		expected NavDirection
		wantErr  bool
	}{
		{"previous", NavPrevious, false},
		{"prev", NavPrevious, false},
		{"next", NavNext, false},
		{"Next", NavPrevious, true},
		{"up", NavPrevious, true},
		{"", NavPrevious, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseNavDirection(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected an error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}
