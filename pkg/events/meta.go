package events

import (
	"github.com/okian/segno/pkg/score"
	"github.com/okian/segno/pkg/tick"
)

// Tempo is a tempo-change marker.
type Tempo struct {
	t     tick.Tick
	track int
	bpm   float64
}

// NewTempo creates a tempo-change event.
func NewTempo(t tick.Tick, track int, bpm float64) *Tempo {
	return &Tempo{t: t, track: track, bpm: bpm}
}

func (e *Tempo) Time() tick.Tick { return e.t }
func (e *Tempo) Track() int      { return e.track }
func (e *Tempo) BPM() float64    { return e.bpm }

func (e *Tempo) WithTime(t tick.Tick) score.Event {
	c := *e
	c.t = t
	return &c
}

func (e *Tempo) Equal(other score.Event) bool {
	o, ok := other.(*Tempo)
	if !ok {
		return false
	}
	return e.t.Equal(o.t) && e.track == o.track && e.bpm == o.bpm
}

// KeySig is a key-signature marker.
type KeySig struct {
	t      tick.Tick
	track  int
	sharps int
	minor  bool
}

// NewKeySig creates a key-signature event; sharps counts sharps
// (positive) or flats (negative).
func NewKeySig(t tick.Tick, track int, sharps int, minor bool) *KeySig {
	return &KeySig{t: t, track: track, sharps: sharps, minor: minor}
}

func (e *KeySig) Time() tick.Tick { return e.t }
func (e *KeySig) Track() int      { return e.track }
func (e *KeySig) Sharps() int     { return e.sharps }
func (e *KeySig) Minor() bool     { return e.minor }

func (e *KeySig) WithTime(t tick.Tick) score.Event {
	c := *e
	c.t = t
	return &c
}

func (e *KeySig) Equal(other score.Event) bool {
	o, ok := other.(*KeySig)
	if !ok {
		return false
	}
	return e.t.Equal(o.t) && e.track == o.track && e.sharps == o.sharps && e.minor == o.minor
}

// TimeSig is a time-signature marker.
type TimeSig struct {
	t     tick.Tick
	track int
	num   int
	den   int
}

// NewTimeSig creates a time-signature event.
func NewTimeSig(t tick.Tick, track, num, den int) *TimeSig {
	return &TimeSig{t: t, track: track, num: num, den: den}
}

func (e *TimeSig) Time() tick.Tick  { return e.t }
func (e *TimeSig) Track() int       { return e.track }
func (e *TimeSig) Numerator() int   { return e.num }
func (e *TimeSig) Denominator() int { return e.den }

func (e *TimeSig) WithTime(t tick.Tick) score.Event {
	c := *e
	c.t = t
	return &c
}

func (e *TimeSig) Equal(other score.Event) bool {
	o, ok := other.(*TimeSig)
	if !ok {
		return false
	}
	return e.t.Equal(o.t) && e.track == o.track && e.num == o.num && e.den == o.den
}

// Meta is a free-text marker riding along in the stream.
type Meta struct {
	t     tick.Tick
	track int
	text  string
}

// NewMeta creates a text meta event.
func NewMeta(t tick.Tick, track int, text string) *Meta {
	return &Meta{t: t, track: track, text: text}
}

func (e *Meta) Time() tick.Tick { return e.t }
func (e *Meta) Track() int      { return e.track }
func (e *Meta) Text() string    { return e.text }

func (e *Meta) WithTime(t tick.Tick) score.Event {
	c := *e
	c.t = t
	return &c
}

func (e *Meta) Equal(other score.Event) bool {
	o, ok := other.(*Meta)
	if !ok {
		return false
	}
	return e.t.Equal(o.t) && e.track == o.track && e.text == o.text
}
