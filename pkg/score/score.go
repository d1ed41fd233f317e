package score

import (
	"github.com/okian/segno/pkg/tick"
)

// Score is the uniform "piece of music" abstraction: an EventList, a
// Tracks tree, or a Stream. The interface is sealed; a Score is consumed
// either structurally (lists and tracks) or by normalizing it to a single
// time-ordered Stream.
type Score interface {
	// Duration returns the score's total duration in ticks.
	// For a stream whose end has not been observed it returns
	// ErrUnboundedDuration.
	Duration() (tick.Tick, error)

	// Stream normalizes the score into a single time-ordered event
	// stream, stable on timestamp ties. A Stream returns itself.
	Stream() *Stream

	sealed()
}

// Kind discriminates the three Score shapes where a caller cares.
type Kind int

const (
	KindList Kind = iota
	KindTracks
	KindStream
)

// KindOf returns the shape of s.
func KindOf(s Score) Kind {
	switch s.(type) {
	case *EventList:
		return KindList
	case *Tracks:
		return KindTracks
	default:
		return KindStream
	}
}
