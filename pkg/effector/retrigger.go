package effector

import (
	"github.com/okian/segno/pkg/events"
	"github.com/okian/segno/pkg/score"
	"github.com/okian/segno/pkg/tick"
)

// Retrigger resolves same-voice collisions so no key sounds twice at
// once. An earlier note span still sounding when a later span starts on
// the same key is truncated at the later span's start, performance
// length included. For note-on/note-off voices a per-key count tracks
// how many ons are outstanding: a second on gets a synthetic off
// inserted just before it, and offs are suppressed until the count
// returns to zero. The result has no same-key overlap, so applying
// Retrigger again is a no-op.
func Retrigger() Effector {
	return func(s score.Score) (score.Score, error) {
		return apply("retrigger", s, func(_ *score.Stream, _ *score.RealTime) score.Transformer {
			return &retrigXform{
				spans: make(map[score.Key]*trackedSpan),
				count: make(map[score.Key]int),
			}
		})
	}
}

type trackedSpan struct {
	item  *pendingItem
	note  score.Note
	start tick.Tick
	reach tick.Tick
}

type retrigXform struct {
	q     pendingQueue
	spans map[score.Key]*trackedSpan
	count map[score.Key]int
}

func (r *retrigXform) Transform(ev score.Event) []score.Event {
	t := ev.Time()
	for k, sp := range r.spans {
		if sp.reach.LessEq(t) {
			sp.item.resolved = true
			delete(r.spans, k)
		}
	}
	switch v := ev.(type) {
	case score.Note:
		k := score.NoteKey(v)
		if sp, ok := r.spans[k]; ok {
			sp.item.ev = truncated(sp.note, t.Sub(sp.start))
			sp.item.resolved = true
		}
		it := r.q.push(v, false)
		r.spans[k] = &trackedSpan{item: it, note: v, start: t, reach: t.Add(spanReach(v))}
	case score.NoteOn:
		k := v.Key()
		it := r.q.push(v, true)
		if r.count[k] > 0 {
			it.extra = []score.Event{events.NewNoteOff(t, k.Track, k.Channel, k.Pitch)}
		}
		r.count[k]++
	case score.NoteOff:
		k := v.Key()
		switch {
		case r.count[k] > 1:
			r.count[k]--
		case r.count[k] == 1:
			delete(r.count, k)
			r.q.push(v, true)
		default:
			r.q.push(v, true)
		}
	default:
		r.q.push(ev, true)
	}
	return r.q.drain()
}

func (r *retrigXform) Flush(dur tick.Tick) ([]score.Event, tick.Tick) {
	r.spans = nil
	return r.q.drainAll(), dur
}

// spanReach is how long a span actually sounds: its performance length
// when one is set and longer than the notated length.
func spanReach(n score.Note) tick.Tick {
	l := n.Length()
	if pl, ok := n.PerfLength(); ok {
		l = tick.Max(l, pl)
	}
	return l
}

// truncated shortens a span to the given length, capping any
// performance length that would outlast it.
func truncated(n score.Note, length tick.Tick) score.Event {
	if length.Sign() < 0 {
		length = tick.Zero
	}
	out := n.WithLength(length)
	if pl, ok := n.PerfLength(); ok && length.Less(pl) {
		if cn, ok := out.(*events.Note); ok {
			out = cn.WithPerfLength(length)
		}
	}
	return out
}
