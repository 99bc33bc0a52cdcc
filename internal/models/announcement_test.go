package models

import (
	"strings"
	"testing"
)

func TestShortMessage(t *testing.T) {
	tests := []struct {
		name    string
		message string
		length  int
		want    string
	}{
		{"shorter than limit", "School closed Friday", 40, "School closed Friday"},
		{"exactly at limit", "1234567890", 10, "1234567890"},
		{"truncated with ellipsis", strings.Repeat("a", 30), 10, strings.Repeat("a", 7) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Announcement{Message: tt.message}
			if got := a.ShortMessage(tt.length); got != tt.want {
				t.Fatalf("ShortMessage(%d) = %q, want %q", tt.length, got, tt.want)
			}
			if got := a.ShortMessage(tt.length); len(got) > tt.length {
				t.Fatalf("ShortMessage(%d) returned %d chars", tt.length, len(got))
			}
		})
	}
}
