package score

import (
	"github.com/okian/segno/pkg/tick"
)

// ListOption applies a configuration option to a new EventList.
type ListOption func(*EventList)

// WithDuration sets the list's explicit duration.
func WithDuration(d tick.Tick) ListOption {
	return func(l *EventList) {
		l.duration = d
	}
}

// WithEvents seeds the list with events, in the given order.
func WithEvents(evs ...Event) ListOption {
	return func(l *EventList) {
		l.events = append(l.events, evs...)
	}
}

// MapOption applies a configuration option to MapEvents.
type MapOption func(*mapConfig)

type mapConfig struct {
	durMap func(tick.Tick) tick.Tick
}

// WithDurationMap adjusts the reported duration independently of the
// per-event function.
func WithDurationMap(f func(tick.Tick) tick.Tick) MapOption {
	return func(c *mapConfig) {
		if f != nil {
			c.durMap = f
		}
	}
}

// ChordOption applies a configuration option to Chords.
type ChordOption func(*chordConfig)

type chordConfig struct {
	tolerance  tick.Tick
	period     tick.Tick
	boundaries []tick.Tick
	sustained  bool
}

// WithTolerance sets the event-driven boundary tolerance: a note on/off
// more than tolerance past the current bucket start opens a new bucket.
func WithTolerance(d tick.Tick) ChordOption {
	return func(c *chordConfig) {
		if d.Sign() >= 0 {
			c.tolerance = d
		}
	}
}

// WithPeriod switches to fixed-period buckets of the given width.
func WithPeriod(d tick.Tick) ChordOption {
	return func(c *chordConfig) {
		if d.Sign() > 0 {
			c.period = d
		}
	}
}

// WithBoundaries switches to explicitly supplied bucket starts, which
// must be strictly increasing.
func WithBoundaries(starts ...tick.Tick) ChordOption {
	return func(c *chordConfig) {
		c.boundaries = append([]tick.Tick(nil), starts...)
	}
}

// WithSustained includes continuation references to spans opened in
// earlier buckets that are still sounding.
func WithSustained() ChordOption {
	return func(c *chordConfig) {
		c.sustained = true
	}
}

// RealTimeOption applies a configuration option to NewRealTime.
type RealTimeOption func(*RealTime)

// WithTicksPerSecond sets the tick-to-wall-clock conversion rate.
func WithTicksPerSecond(tps float64) RealTimeOption {
	return func(rt *RealTime) {
		if tps > 0 {
			rt.tps = tps
		}
	}
}

// WithMaxOffset bounds the realized performance offset of injected
// events. Offsets beyond the bound are clamped with a repair diagnostic.
func WithMaxOffset(d tick.Tick) RealTimeOption {
	return func(rt *RealTime) {
		if d.Sign() > 0 {
			rt.maxOffset = d
		}
	}
}

// WithTempoPPQ derives the conversion rate from a beats-per-minute tempo
// and ticks per quarter note.
func WithTempoPPQ(bpm float64, ppq int) RealTimeOption {
	return func(rt *RealTime) {
		if bpm > 0 && ppq > 0 {
			rt.tps = bpm * float64(ppq) / 60.0
		}
	}
}
