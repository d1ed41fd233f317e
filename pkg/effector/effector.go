// Package effector provides pure Score-to-Score transformations built
// exclusively on the pkg/score algebra: note pairing and unpairing,
// collision retriggering, quantization, humanization, pattern
// substitution and time warping.
//
// Effectors never mutate events shared by reference into their output;
// modified events are copied first, unmodified events may be shared. An
// effector applied to a stream stays lazy and keeps the global ordering
// invariant; applied to a list or tracks tree it returns a score of the
// same kind.
package effector

import (
	"time"

	"github.com/okian/segno/pkg/metrics"
	"github.com/okian/segno/pkg/score"
)

// Effector is a pure Score-to-Score transformation.
type Effector func(score.Score) (score.Score, error)

// Chain composes effectors left to right.
func Chain(effs ...Effector) Effector {
	return func(s score.Score) (score.Score, error) {
		var err error
		for _, eff := range effs {
			s, err = eff(s)
			if err != nil {
				return nil, err
			}
		}
		return s, nil
	}
}

// apply runs one fresh Transformer per invocation over a score,
// preserving its kind. Tracks recurse child by child; streams stay lazy.
// The Transformer constructor receives the source stream, which carries
// the id used in diagnostics, and the real-time binding when the input
// has one, so transforms can schedule wake-ups instead of polling.
func apply(name string, s score.Score, mk func(src *score.Stream, rt *score.RealTime) score.Transformer) (score.Score, error) {
	switch v := s.(type) {
	case *score.EventList:
		start := time.Now()
		in := v.Stream()
		out := score.Collect(score.MapStream(in, mk(in, nil)))
		metrics.RecordEffectorLatency(name, float64(time.Since(start).Milliseconds()))
		return out, nil
	case *score.Tracks:
		out, err := score.NewTracks()
		if err != nil {
			return nil, err
		}
		for _, child := range v.Children() {
			mc, err := apply(name, child, mk)
			if err != nil {
				return nil, err
			}
			if err := out.Add(mc); err != nil {
				return nil, err
			}
		}
		return out, nil
	case *score.RealTime:
		in := v.Stream()
		return score.MapStream(in, mk(in, v)), nil
	case *score.Stream:
		return score.MapStream(v, mk(v, nil)), nil
	default:
		in := s.Stream()
		return score.MapStream(in, mk(in, nil)), nil
	}
}

// pendingItem is one slot in a reorder buffer. Its event may be rewritten
// until the slot resolves; a nil event on a resolved slot is skipped.
type pendingItem struct {
	ev       score.Event
	extra    []score.Event // events emitted immediately before ev
	resolved bool
}

// pendingQueue is the bounded-lookahead reorder buffer behind the
// ordering-sensitive effectors: events enter in input order, are held
// until resolved, and leave strictly in input order, so output times
// stay non-decreasing as long as slots never change their timestamps.
type pendingQueue struct {
	items []*pendingItem
}

// push appends a slot and returns it for later resolution.
func (q *pendingQueue) push(ev score.Event, resolved bool) *pendingItem {
	it := &pendingItem{ev: ev, resolved: resolved}
	q.items = append(q.items, it)
	return it
}

// drain removes and returns the events of the maximal resolved prefix.
func (q *pendingQueue) drain() []score.Event {
	var out []score.Event
	n := 0
	for _, it := range q.items {
		if !it.resolved {
			break
		}
		n++
		out = append(out, it.extra...)
		if it.ev != nil {
			out = append(out, it.ev)
		}
	}
	q.items = q.items[n:]
	return out
}

// drainAll resolves everything and drains the queue.
func (q *pendingQueue) drainAll() []score.Event {
	for _, it := range q.items {
		it.resolved = true
	}
	return q.drain()
}
