package mididev

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrPortNotFound is returned when a named MIDI port does not exist.
	ErrPortNotFound = errors.New("midi port not found")
)
