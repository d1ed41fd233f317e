package effector

import "errors"

var (
	// ErrBadGrid is returned when a quantization grid is not positive.
	ErrBadGrid = errors.New("quantization grid must be positive")
	// ErrEmptyPattern is returned when a substitution pattern has no events.
	ErrEmptyPattern = errors.New("substitution pattern is empty")
	// ErrBadJitter is returned when a humanization bound is negative.
	ErrBadJitter = errors.New("humanization bound must not be negative")
)
