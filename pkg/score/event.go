// Package score implements the streaming data model at the heart of the
// composition toolkit: finite event lists, trees of parallel tracks,
// possibly unbounded event streams, the algebra that combines them, and
// the traversal primitives (normalization, fork, merge, segmentation,
// state reconstruction) everything else is built from.
//
// The package never inspects concrete event payloads; it sees events only
// through the capability interfaces below. A concrete catalogue lives in
// pkg/events.
package score

import (
	"github.com/okian/segno/pkg/tick"
)

// Event is the minimal capability every event carries: a timestamp, a
// track id, value equality and a cheap shallow copy with a new timestamp.
// Richer behavior is exposed through the optional capability interfaces;
// callers resolve a capability once per event with a type assertion, not
// per field access.
type Event interface {
	// Time returns the event's timestamp in ticks.
	Time() tick.Tick

	// Track returns the non-negative track id.
	Track() int

	// WithTime returns a shallow copy of the event carrying the given
	// timestamp. The receiver is not modified.
	WithTime(t tick.Tick) Event

	// Equal reports value equality with another event.
	Equal(other Event) bool
}

// Key identifies a sounding note: same key means same logical voice for
// pairing, retriggering and state reconstruction.
type Key struct {
	Track   int
	Channel uint8
	Pitch   uint8
}

// Offsetter is the capability of events carrying a bounded signed
// performance offset, added to Time for realized timing. Offsets beyond
// the configured bound are clamped by consumers with a diagnostic.
type Offsetter interface {
	Event
	Offset() tick.Tick
	WithOffset(d tick.Tick) Event
}

// Note is the span capability: a note held for a length of time.
type Note interface {
	Event
	Pitch() uint8
	Velocity() uint8
	Channel() uint8

	// Length is the notated duration in ticks.
	Length() tick.Tick

	// PerfLength returns the distinct performance duration if one is set.
	PerfLength() (tick.Tick, bool)

	WithLength(l tick.Tick) Event
	WithPitch(p uint8) Event
	WithVelocity(v uint8) Event
}

// NoteOn is the capability of a note-begin event.
//
// A note-on satisfies the NoteOff shape structurally, so capability
// checks that distinguish the two must assert Note, then NoteOn, then
// NoteOff, in that order.
type NoteOn interface {
	Event
	Key() Key
	Velocity() uint8
}

// NoteOff is the capability of a note-end event.
type NoteOff interface {
	Event
	Key() Key
}

// NoteKey returns the voice key of a note span.
func NoteKey(n Note) Key {
	return Key{Track: n.Track(), Channel: n.Channel(), Pitch: n.Pitch()}
}

// Control is the capability of controller-change events.
type Control interface {
	Event
	Controller() uint8
	Value() uint8
	Channel() uint8
}

// Tempo is the capability of tempo-change events.
type Tempo interface {
	Event
	BPM() float64
}

// KeySig is the capability of key-signature events.
type KeySig interface {
	Event
	// Sharps counts sharps (positive) or flats (negative).
	Sharps() int
	Minor() bool
}

// TimeSig is the capability of time-signature events.
type TimeSig interface {
	Event
	Numerator() int
	Denominator() int
}

// Meta is the capability of free-text meta events.
type Meta interface {
	Event
	Text() string
}

// WakeUp marks synthetic self-addressed events a real-time stream injects
// to wake itself at a chosen future time. Wake-ups are plumbing: they are
// consumed by the primitive that scheduled them and never appear in
// transformed output.
type WakeUp interface {
	Event
	// Token distinguishes independent wake-up registrations.
	Token() uint64
}
