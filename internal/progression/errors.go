package progression

import "errors"

var (
	ErrInvalidKey        = errors.New("invalid natural key")
	ErrUnknownItem       = errors.New("unknown item")
	ErrInconsistentState = errors.New("completion state changed concurrently")
)
