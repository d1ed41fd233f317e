package score

import (
	"github.com/okian/segno/pkg/metrics"
	"github.com/okian/segno/pkg/tick"
)

// Chord is one segmentation bucket: the events that fell into
// [Start, End), plus, when requested, references to spans opened in
// earlier buckets that are still sounding at Start.
type Chord struct {
	Start     tick.Tick
	End       tick.Tick
	Events    []Event
	Sustained []Event
}

// Chords partitions a stream into consecutive, non-overlapping time
// buckets. By default boundaries are event-driven: a note on/off
// observed more than the tolerance past the current bucket start opens a
// new bucket. WithPeriod and WithBoundaries switch to externally
// supplied boundaries. For a real-time stream with external boundaries,
// the iterator injects a self-addressed wake-up at the next boundary so
// the consumer never polls.
func Chords(s *Stream, opts ...ChordOption) *ChordIterator {
	cfg := chordConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &ChordIterator{in: s, cfg: cfg}
}

// ChordIterator yields buckets one at a time.
type ChordIterator struct {
	in  *Stream
	cfg chordConfig

	pending    Event
	hasPending bool
	opens      []chordOpen
	nextStart  tick.Tick // next grid boundary (period/explicit modes)
	boundIdx   int
	started    bool
	done       bool

	wakeToken uint64
	wakeArmed bool
}

// chordOpen tracks a span that may sustain across bucket boundaries.
type chordOpen struct {
	key    Key
	ev     Event
	end    tick.Tick
	hasEnd bool
}

// Next yields the next bucket. It returns false once the stream is
// exhausted and every bucket has been emitted.
func (ci *ChordIterator) Next() (Chord, bool) {
	if ci.done {
		return Chord{}, false
	}
	if ci.external() {
		return ci.nextExternal()
	}
	return ci.nextEventDriven()
}

func (ci *ChordIterator) external() bool {
	return ci.cfg.period.Sign() > 0 || len(ci.cfg.boundaries) > 0
}

// pull returns the next non-wake-up event, consuming the pending slot
// first. A wake-up matching our own boundary registration is reported
// separately.
func (ci *ChordIterator) pull() (ev Event, boundary, ok bool) {
	for {
		var e Event
		if ci.hasPending {
			e = ci.pending
			ci.pending = nil
			ci.hasPending = false
		} else {
			var nok bool
			e, nok = ci.in.Next()
			if !nok {
				return nil, false, false
			}
		}
		if w, isWake := e.(WakeUp); isWake {
			if ci.wakeArmed && w.Token() == ci.wakeToken {
				ci.wakeArmed = false
				return nil, true, true
			}
			continue
		}
		return e, false, true
	}
}

// nextExternal emits fixed-grid or explicitly bounded buckets.
func (ci *ChordIterator) nextExternal() (Chord, bool) {
	start, end, last := ci.nextWindow()
	ch := Chord{Start: start, End: end}
	if ci.cfg.sustained {
		ch.Sustained = ci.sustainedAt(start)
	}

	// With a real-time input, schedule a wake-up at the bucket close so
	// the consumer is not left blocking past the boundary.
	if ci.in.rt != nil && !last {
		if tok, err := ci.in.rt.Wake(end); err == nil {
			ci.wakeToken = tok
			ci.wakeArmed = true
		}
	}

	for {
		ev, boundary, ok := ci.pull()
		if !ok {
			d, _ := ci.in.Duration()
			ch.End = tick.Max(start, d)
			ci.done = true
			break
		}
		if boundary {
			break
		}
		if !last && !ev.Time().Less(end) {
			ci.pending = ev
			ci.hasPending = true
			break
		}
		ch.Events = append(ch.Events, ev)
		ci.track(ev)
	}
	metrics.RecordChordBucket()
	return ch, true
}

// nextWindow advances to the next [start, end) grid window; last marks a
// window that extends to the stream end.
func (ci *ChordIterator) nextWindow() (start, end tick.Tick, last bool) {
	if ci.cfg.period.Sign() > 0 {
		start = ci.nextStart
		ci.nextStart = start.Add(ci.cfg.period)
		return start, ci.nextStart, false
	}
	bs := ci.cfg.boundaries
	switch {
	case !ci.started && len(bs) > 0 && bs[0].Sign() > 0:
		// Implicit opening bucket before the first boundary.
		ci.started = true
		return tick.Zero, bs[0], false
	case ci.boundIdx < len(bs)-1:
		ci.started = true
		start = bs[ci.boundIdx]
		ci.boundIdx++
		return start, bs[ci.boundIdx], false
	default:
		ci.started = true
		return bs[len(bs)-1], tick.Zero, true
	}
}

// nextEventDriven opens a bucket at the first note event and closes it
// when a note on/off lands more than the tolerance past its start.
func (ci *ChordIterator) nextEventDriven() (Chord, bool) {
	first, _, ok := ci.pull()
	if !ok {
		ci.done = true
		return Chord{}, false
	}
	start := first.Time()
	ch := Chord{Start: start}
	if ci.cfg.sustained {
		ch.Sustained = ci.sustainedAt(start)
	}
	ch.Events = append(ch.Events, first)
	ci.track(first)

	limit := start.Add(ci.cfg.tolerance)
	for {
		ev, _, ok := ci.pull()
		if !ok {
			d, _ := ci.in.Duration()
			ch.End = tick.Max(start, d)
			ci.done = true
			break
		}
		if isNoteEvent(ev) && limit.Less(ev.Time()) {
			ci.pending = ev
			ci.hasPending = true
			ch.End = ev.Time()
			break
		}
		ch.Events = append(ch.Events, ev)
		ci.track(ev)
	}
	metrics.RecordChordBucket()
	return ch, true
}

func isNoteEvent(ev Event) bool {
	switch ev.(type) {
	case Note, NoteOn, NoteOff:
		return true
	}
	return false
}

// track records span openings and closings for sustain bookkeeping.
func (ci *ChordIterator) track(ev Event) {
	if !ci.cfg.sustained {
		return
	}
	switch v := ev.(type) {
	case Note:
		ci.opens = append(ci.opens, chordOpen{
			key:    NoteKey(v),
			ev:     ev,
			end:    v.Time().Add(v.Length()),
			hasEnd: true,
		})
	case NoteOn:
		ci.opens = append(ci.opens, chordOpen{key: v.Key(), ev: ev})
	case NoteOff:
		for i, o := range ci.opens {
			if !o.hasEnd && o.key == v.Key() {
				ci.opens = append(ci.opens[:i], ci.opens[i+1:]...)
				return
			}
		}
	}
}

// sustainedAt returns spans opened before at that are still sounding,
// pruning spans known to have ended.
func (ci *ChordIterator) sustainedAt(at tick.Tick) []Event {
	var out []Event
	kept := ci.opens[:0]
	for _, o := range ci.opens {
		if o.hasEnd && o.end.LessEq(at) {
			continue
		}
		kept = append(kept, o)
		if o.ev.Time().Less(at) {
			out = append(out, o.ev)
		}
	}
	ci.opens = kept
	return out
}
