package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicateKey recognizes a unique-constraint violation across the
// drivers we run against (mysql in production, sqlite in tests). The
// unique indexes on completion tables are the authoritative guard against
// double-counting, so this is how a lost race surfaces.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
