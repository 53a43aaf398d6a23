package progression

// IsUnlocked reports whether a user's XP balance clears a school's unlock
// threshold. A threshold of zero (or below) is always open, even for a
// zero or negative balance. There is no persisted unlocked flag; the
// decision is recomputed from current XP on every call.
func IsUnlocked(userXP, requiredXP int) bool {
	if requiredXP <= 0 {
		return true
	}
	return userXP >= requiredXP
}

// UnlockGap returns how much XP is still missing, 0 when already unlocked.
func UnlockGap(userXP, requiredXP int) int {
	if IsUnlocked(userXP, requiredXP) {
		return 0
	}
	return requiredXP - userXP
}
