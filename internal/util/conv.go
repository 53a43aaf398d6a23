package util

import (
	"strconv"
)

// MustParseUint parses an unsigned id from a path segment, 0 on failure.
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}

// ParseInt64 parses a signed id; legacy course ids can be negative.
func ParseInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
