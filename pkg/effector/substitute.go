package effector

import (
	"container/heap"

	"github.com/okian/segno/pkg/score"
	"github.com/okian/segno/pkg/tick"
)

// Substitute replaces every note span with an instance of the pattern:
// shifted to the span's start, truncated to its length, and transposed
// by the span's distance from the pattern's base pitch. Overlapping
// spans spawn overlapping pattern instances, interleaved in time order.
// Non-span events pass through. On a real-time score, pattern events
// falling between device events are released by scheduled wake-ups
// instead of waiting for the next input.
func Substitute(pattern *score.EventList, opts ...SubstituteOption) Effector {
	cfg := substituteConfig{basePitch: 60}
	for _, o := range opts {
		o(&cfg)
	}
	return func(s score.Score) (score.Score, error) {
		if pattern == nil || pattern.Len() == 0 {
			return nil, ErrEmptyPattern
		}
		pat := pattern.Sorted().Events()
		return apply("substitute", s, func(_ *score.Stream, rt *score.RealTime) score.Transformer {
			return &substXform{pat: pat, base: cfg.basePitch, rt: rt}
		})
	}
}

type substXform struct {
	pat  []score.Event
	base uint8
	rt   *score.RealTime
	rs   readerHeap
	seq  int

	wakeToken uint64
	wakeAt    tick.Tick
	wakeArmed bool
}

func (x *substXform) Transform(ev score.Event) []score.Event {
	out := x.drainThrough(ev.Time())
	switch v := ev.(type) {
	case score.WakeUp:
		if x.wakeArmed && v.Token() == x.wakeToken {
			x.wakeArmed = false
		}
	case score.Note:
		r := &patReader{
			evs:       x.pat,
			shift:     v.Time(),
			limit:     v.Length(),
			transpose: int(v.Pitch()) - int(x.base),
		}
		if _, ok := r.peekTime(); ok {
			x.seq++
			r.seq = x.seq
			heap.Push(&x.rs, r)
		}
	default:
		out = append(out, ev)
	}
	x.arm()
	return out
}

func (x *substXform) Flush(dur tick.Tick) ([]score.Event, tick.Tick) {
	var out []score.Event
	for x.rs.Len() > 0 {
		out = append(out, x.pull())
	}
	return out, dur
}

// drainThrough emits pattern events due at or before t, merged across
// all live readers in time order.
func (x *substXform) drainThrough(t tick.Tick) []score.Event {
	var out []score.Event
	for x.rs.Len() > 0 {
		at, _ := x.rs[0].peekTime()
		if !at.LessEq(t) {
			break
		}
		out = append(out, x.pull())
	}
	return out
}

// pull advances the reader at the heap's head by one event.
func (x *substXform) pull() score.Event {
	ev := x.rs[0].next()
	if _, ok := x.rs[0].peekTime(); ok {
		heap.Fix(&x.rs, 0)
	} else {
		heap.Pop(&x.rs)
	}
	return ev
}

// arm schedules a wake-up at the next pending pattern event so a
// real-time stream releases it on time.
func (x *substXform) arm() {
	if x.rt == nil || x.rs.Len() == 0 {
		return
	}
	at, _ := x.rs[0].peekTime()
	if x.wakeArmed && x.wakeAt.Equal(at) {
		return
	}
	if tok, err := x.rt.Wake(at); err == nil {
		x.wakeToken, x.wakeAt, x.wakeArmed = tok, at, true
	}
}

// patReader walks one pattern instance bound to a host note span.
type patReader struct {
	evs       []score.Event
	idx       int
	shift     tick.Tick
	limit     tick.Tick
	transpose int
	seq       int
}

// peekTime reports the shifted time of the next pattern event still
// inside the host span, if any.
func (r *patReader) peekTime() (tick.Tick, bool) {
	if r.idx >= len(r.evs) || !r.evs[r.idx].Time().Less(r.limit) {
		return tick.Zero, false
	}
	return r.shift.Add(r.evs[r.idx].Time()), true
}

// next materializes the next pattern event: shifted, transposed, and
// truncated at the host span's end.
func (r *patReader) next() score.Event {
	ev := r.evs[r.idx]
	r.idx++
	out := ev.WithTime(r.shift.Add(ev.Time()))
	n, ok := out.(score.Note)
	if !ok {
		return out
	}
	if r.transpose != 0 {
		out = n.WithPitch(clampPitch(int(n.Pitch()) + r.transpose))
		n = out.(score.Note)
	}
	if end := ev.Time().Add(n.Length()); r.limit.Less(end) {
		out = n.WithLength(r.limit.Sub(ev.Time()))
	}
	return out
}

type readerHeap []*patReader

func (h readerHeap) Len() int { return len(h) }

func (h readerHeap) Less(i, j int) bool {
	ti, _ := h[i].peekTime()
	tj, _ := h[j].peekTime()
	if c := ti.Cmp(tj); c != 0 {
		return c < 0
	}
	return h[i].seq < h[j].seq
}

func (h readerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *readerHeap) Push(x any) { *h = append(*h, x.(*patReader)) }

func (h *readerHeap) Pop() any {
	old := *h
	n := len(old)
	r := old[n-1]
	*h = old[:n-1]
	return r
}
