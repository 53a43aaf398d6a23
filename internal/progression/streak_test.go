package progression

import (
	"math"
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := ParseDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestStreakLength(t *testing.T) {
	// Completions on D, D-1, D-2 and a gap at D-3.
	days := NewDaySet("2026-03-10", "2026-03-09", "2026-03-08", "2026-03-06")

	tests := []struct {
		name string
		asOf string
		want int
	}{
		{"three consecutive ending at asOf", "2026-03-10", 3},
		{"queried the day after the streak ended", "2026-03-11", 0},
		{"anchored mid-streak", "2026-03-09", 2},
		{"isolated day", "2026-03-06", 1},
		{"gap day", "2026-03-07", 0},
		{"no records at all", "2026-01-01", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StreakLength(days, day(tt.asOf)); got != tt.want {
				t.Fatalf("StreakLength(asOf=%s) = %d, want %d", tt.asOf, got, tt.want)
			}
		})
	}

	if got := StreakLength(NewDaySet(), day("2026-03-10")); got != 0 {
		t.Fatalf("empty set streak = %d, want 0", got)
	}
}

func TestCurrentStreakGrace(t *testing.T) {
	days := NewDaySet("2026-03-10", "2026-03-09", "2026-03-08")

	// Today already completed: counted like a plain streak.
	if got := CurrentStreak(days, day("2026-03-10")); got != 3 {
		t.Fatalf("completed today: got %d, want 3", got)
	}
	// Today not yet completed: yesterday's run still counts.
	if got := CurrentStreak(days, day("2026-03-11")); got != 3 {
		t.Fatalf("unfinished today: got %d, want 3", got)
	}
	// Two days idle: streak is gone.
	if got := CurrentStreak(days, day("2026-03-12")); got != 0 {
		t.Fatalf("two idle days: got %d, want 0", got)
	}
}

func TestCompletionRate(t *testing.T) {
	days := NewDaySet("2026-03-01", "2026-03-02", "2026-03-05")

	tests := []struct {
		name       string
		start, end string
		want       float64
	}{
		{"three of five", "2026-03-01", "2026-03-05", 0.6},
		{"full single day", "2026-03-01", "2026-03-01", 1},
		{"empty single day", "2026-03-03", "2026-03-03", 0},
		{"nothing in range", "2026-04-01", "2026-04-10", 0},
		{"inverted range", "2026-03-05", "2026-03-01", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompletionRate(days, day(tt.start), day(tt.end))
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("CompletionRate(%s..%s) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestDaySetRoundTrip(t *testing.T) {
	s := NewDaySet()
	s.Add("2026-03-10")
	if !s.Has("2026-03-10") {
		t.Fatal("added day missing")
	}
	s.Add("2026-03-10") // duplicate insert is a no-op
	if len(s) != 1 {
		t.Fatalf("duplicate add grew the set to %d", len(s))
	}
	s.Remove("2026-03-10")
	if s.Has("2026-03-10") {
		t.Fatal("removed day still present")
	}
}

func TestFormatDayNormalizesTimestamps(t *testing.T) {
	noon := time.Date(2026, 3, 10, 12, 30, 45, 0, time.UTC)
	if got := FormatDay(noon); got != "2026-03-10" {
		t.Fatalf("FormatDay = %q, want 2026-03-10", got)
	}
}
