// Package events is the concrete event catalogue flowing through the
// score engine: note spans, note on/off pairs, controller changes, tempo
// and signature markers, and free-text meta events.
//
// The engine itself consumes these only through the capability
// interfaces in pkg/score; nothing here is special-cased there. All
// event types are immutable by convention: WithX methods return shallow
// copies and never modify the receiver.
package events

import (
	"github.com/okian/segno/pkg/score"
	"github.com/okian/segno/pkg/tick"
)

// Note is a note span: a pitch sounding for a length of ticks.
type Note struct {
	t        tick.Tick
	track    int
	offset   tick.Tick
	channel  uint8
	pitch    uint8
	velocity uint8
	length   tick.Tick
	perfLen  tick.Tick
	hasPerf  bool
}

// NewNote creates a note span.
func NewNote(t tick.Tick, track int, channel, pitch uint8, length tick.Tick, velocity uint8) *Note {
	return &Note{t: t, track: track, channel: channel, pitch: pitch, length: length, velocity: velocity}
}

func (n *Note) Time() tick.Tick   { return n.t }
func (n *Note) Track() int        { return n.track }
func (n *Note) Offset() tick.Tick { return n.offset }
func (n *Note) Channel() uint8    { return n.channel }
func (n *Note) Pitch() uint8      { return n.pitch }
func (n *Note) Velocity() uint8   { return n.velocity }
func (n *Note) Length() tick.Tick { return n.length }

// PerfLength returns the distinct performance duration if one is set.
func (n *Note) PerfLength() (tick.Tick, bool) { return n.perfLen, n.hasPerf }

func (n *Note) WithTime(t tick.Tick) score.Event {
	c := *n
	c.t = t
	return &c
}

func (n *Note) WithOffset(d tick.Tick) score.Event {
	c := *n
	c.offset = d
	return &c
}

func (n *Note) WithLength(l tick.Tick) score.Event {
	c := *n
	c.length = l
	return &c
}

func (n *Note) WithPitch(p uint8) score.Event {
	c := *n
	c.pitch = p
	return &c
}

func (n *Note) WithVelocity(v uint8) score.Event {
	c := *n
	c.velocity = v
	return &c
}

// WithPerfLength returns a copy carrying a distinct performance duration.
func (n *Note) WithPerfLength(d tick.Tick) *Note {
	c := *n
	c.perfLen = d
	c.hasPerf = true
	return &c
}

func (n *Note) Equal(other score.Event) bool {
	o, ok := other.(*Note)
	if !ok {
		return false
	}
	if n.hasPerf != o.hasPerf || (n.hasPerf && !n.perfLen.Equal(o.perfLen)) {
		return false
	}
	return n.t.Equal(o.t) && n.track == o.track && n.offset.Equal(o.offset) &&
		n.channel == o.channel && n.pitch == o.pitch && n.velocity == o.velocity &&
		n.length.Equal(o.length)
}

// NoteOn is the begin half of a sounding note.
type NoteOn struct {
	t        tick.Tick
	track    int
	offset   tick.Tick
	channel  uint8
	pitch    uint8
	velocity uint8
}

// NewNoteOn creates a note-begin event.
func NewNoteOn(t tick.Tick, track int, channel, pitch, velocity uint8) *NoteOn {
	return &NoteOn{t: t, track: track, channel: channel, pitch: pitch, velocity: velocity}
}

func (n *NoteOn) Time() tick.Tick   { return n.t }
func (n *NoteOn) Track() int        { return n.track }
func (n *NoteOn) Offset() tick.Tick { return n.offset }
func (n *NoteOn) Velocity() uint8   { return n.velocity }

func (n *NoteOn) Key() score.Key {
	return score.Key{Track: n.track, Channel: n.channel, Pitch: n.pitch}
}

func (n *NoteOn) WithTime(t tick.Tick) score.Event {
	c := *n
	c.t = t
	return &c
}

func (n *NoteOn) WithOffset(d tick.Tick) score.Event {
	c := *n
	c.offset = d
	return &c
}

func (n *NoteOn) Equal(other score.Event) bool {
	o, ok := other.(*NoteOn)
	if !ok {
		return false
	}
	return n.t.Equal(o.t) && n.track == o.track && n.offset.Equal(o.offset) &&
		n.channel == o.channel && n.pitch == o.pitch && n.velocity == o.velocity
}

// NoteOff is the end half of a sounding note.
type NoteOff struct {
	t       tick.Tick
	track   int
	offset  tick.Tick
	channel uint8
	pitch   uint8
}

// NewNoteOff creates a note-end event.
func NewNoteOff(t tick.Tick, track int, channel, pitch uint8) *NoteOff {
	return &NoteOff{t: t, track: track, channel: channel, pitch: pitch}
}

func (n *NoteOff) Time() tick.Tick   { return n.t }
func (n *NoteOff) Track() int        { return n.track }
func (n *NoteOff) Offset() tick.Tick { return n.offset }

func (n *NoteOff) Key() score.Key {
	return score.Key{Track: n.track, Channel: n.channel, Pitch: n.pitch}
}

func (n *NoteOff) WithTime(t tick.Tick) score.Event {
	c := *n
	c.t = t
	return &c
}

func (n *NoteOff) WithOffset(d tick.Tick) score.Event {
	c := *n
	c.offset = d
	return &c
}

func (n *NoteOff) Equal(other score.Event) bool {
	o, ok := other.(*NoteOff)
	if !ok {
		return false
	}
	return n.t.Equal(o.t) && n.track == o.track && n.offset.Equal(o.offset) &&
		n.channel == o.channel && n.pitch == o.pitch
}
