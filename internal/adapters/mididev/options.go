package mididev

import (
	"github.com/okian/segno/pkg/logger"
	"github.com/okian/segno/pkg/score"
)

const defaultRecvBuffer = 128

// Option applies a configuration option to a Device.
type Option func(*options)

type options struct {
	outPort    string
	inPort     string
	recvBuffer int
	log        logger.Logger
	emit       func(score.Event)
}

// WithOutPort selects the MIDI output port to transmit on, by name.
func WithOutPort(name string) Option {
	return func(o *options) {
		o.outPort = name
	}
}

// WithInPort selects the MIDI input port to listen on, by name.
func WithInPort(name string) Option {
	return func(o *options) {
		o.inPort = name
	}
}

// WithRecvBuffer sets the capacity of the inbound event buffer.
func WithRecvBuffer(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.recvBuffer = n
		}
	}
}

// WithLogger sets a custom logger for the device.
func WithLogger(log logger.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithEmit installs a tap called for every delivered non-wake event,
// whether or not an out port is open. Offline playback prints through
// this.
func WithEmit(f func(score.Event)) Option {
	return func(o *options) {
		o.emit = f
	}
}
