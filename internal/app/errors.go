package app

import "errors"

var (
	// ErrNoDevice is returned when a Player is built without a device.
	ErrNoDevice = errors.New("player requires a device")
)
