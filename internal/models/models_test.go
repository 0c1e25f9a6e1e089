// ABOUTME: Tests for post date parsing and stats helpers.
// ABOUTME: Covers the release date layouts and known content types.
package models

import (
	"testing"
	"time"
)

func TestReleaseTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{"empty", "", time.Time{}, false},
		{"date only", "2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"sqlite timestamp", "2024-03-15 10:30:00", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), true},
		{"iso without zone", "2024-03-15T10:30:00", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), true},
		{"rfc3339", "2024-03-15T10:30:00Z", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), true},
		{"garbage", "last tuesday", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Post{ReleaseDate: tt.input}.ReleaseTime()
			if ok != tt.ok {
				t.Fatalf("ReleaseTime(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("ReleaseTime(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestStatsProviderCount(t *testing.T) {
	s := Stats{
		TotalPosts: 5,
		ByProvider: []ProviderCount{{Provider: "A", Count: 3}, {Provider: "B", Count: 2}},
	}
	if s.ProviderCount() != 2 {
		t.Errorf("expected 2 providers, got %d", s.ProviderCount())
	}
	if (Stats{}).ProviderCount() != 0 {
		t.Error("expected 0 providers for empty stats")
	}
}

func TestIsKnownType(t *testing.T) {
	if !IsKnownType(TypeVideo) {
		t.Error("expected Video to be a known type")
	}
	if IsKnownType("Podcast") {
		t.Error("expected Podcast to be unknown")
	}
}
