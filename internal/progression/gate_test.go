package progression

import "testing"

func TestIsUnlocked(t *testing.T) {
	tests := []struct {
		name       string
		userXP     int
		requiredXP int
		want       bool
	}{
		{"one below threshold", 499, 500, false},
		{"exactly at threshold", 500, 500, true},
		{"above threshold", 501, 500, true},
		{"zero threshold always open", 0, 0, true},
		{"zero threshold with negative xp", -10, 0, true},
		{"negative threshold treated as open", 0, -100, true},
		{"zero xp against real threshold", 0, 250, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUnlocked(tt.userXP, tt.requiredXP); got != tt.want {
				t.Fatalf("IsUnlocked(%d, %d) = %v, want %v", tt.userXP, tt.requiredXP, got, tt.want)
			}
		})
	}
}

func TestUnlockGap(t *testing.T) {
	tests := []struct {
		name       string
		userXP     int
		requiredXP int
		want       int
	}{
		{"one short", 499, 500, 1},
		{"at threshold", 500, 500, 0},
		{"past threshold never negative", 900, 500, 0},
		{"free tier", 123, 0, 0},
		{"from zero", 0, 500, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UnlockGap(tt.userXP, tt.requiredXP); got != tt.want {
				t.Fatalf("UnlockGap(%d, %d) = %d, want %d", tt.userXP, tt.requiredXP, got, tt.want)
			}
		})
	}
}

func TestGapZeroExactlyWhenUnlocked(t *testing.T) {
	for xp := -5; xp <= 600; xp += 7 {
		for req := 0; req <= 600; req += 50 {
			unlocked := IsUnlocked(xp, req)
			gap := UnlockGap(xp, req)
			if gap < 0 {
				t.Fatalf("negative gap %d for xp=%d req=%d", gap, xp, req)
			}
			if unlocked != (gap == 0) {
				t.Fatalf("gap/unlock disagree for xp=%d req=%d: unlocked=%v gap=%d", xp, req, unlocked, gap)
			}
		}
	}
}
