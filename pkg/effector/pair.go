package effector

import (
	"container/heap"
	"context"

	"github.com/okian/segno/pkg/events"
	"github.com/okian/segno/pkg/logger"
	"github.com/okian/segno/pkg/metrics"
	"github.com/okian/segno/pkg/score"
	"github.com/okian/segno/pkg/tick"
)

// Pair converts matched note-on/note-off pairs into note spans. Each
// note-off closes the oldest open note-on on the same voice key. An
// orphan note-off is dropped with a repair diagnostic; a note-on still
// open when the input ends becomes a span closed at the score's
// duration. Every other event passes through unchanged. The resulting
// span occupies its note-on's position in the event order, so output
// ordering follows input ordering.
func Pair() Effector {
	return func(s score.Score) (score.Score, error) {
		return apply("pair", s, func(src *score.Stream, _ *score.RealTime) score.Transformer {
			return &pairXform{stream: src.ID()}
		})
	}
}

type openOn struct {
	key  score.Key
	on   score.NoteOn
	item *pendingItem
}

type pairXform struct {
	stream string
	q      pendingQueue
	opens  []*openOn
}

func (p *pairXform) Transform(ev score.Event) []score.Event {
	switch v := ev.(type) {
	case score.Note:
		p.q.push(ev, true)
	case score.NoteOn:
		it := p.q.push(nil, false)
		p.opens = append(p.opens, &openOn{key: v.Key(), on: v, item: it})
	case score.NoteOff:
		p.close(v)
	default:
		p.q.push(ev, true)
	}
	return p.q.drain()
}

func (p *pairXform) Flush(dur tick.Tick) ([]score.Event, tick.Tick) {
	for _, o := range p.opens {
		length := dur.Sub(o.on.Time())
		if length.Sign() < 0 {
			length = tick.Zero
		}
		o.item.ev = spanOf(o.on, length)
		o.item.resolved = true
		metrics.RecordRepair(metrics.RepairUnterminatedNote)
		logger.Named("effector").Warn(context.Background(), "note-on never closed, span ends at score duration",
			logger.String("stream", p.stream),
			logger.Int("track", o.key.Track),
			logger.Uint8("pitch", o.key.Pitch))
	}
	p.opens = nil
	return p.q.drainAll(), dur
}

// close resolves the oldest open note-on matching the off's voice key.
func (p *pairXform) close(off score.NoteOff) {
	key := off.Key()
	for i, o := range p.opens {
		if o.key != key {
			continue
		}
		length := off.Time().Sub(o.on.Time())
		o.item.ev = spanOf(o.on, length)
		o.item.resolved = true
		p.opens = append(p.opens[:i], p.opens[i+1:]...)
		return
	}
	metrics.RecordRepair(metrics.RepairOrphanNoteOff)
	logger.Named("effector").Warn(context.Background(), "orphan note-off dropped",
		logger.String("stream", p.stream),
		logger.Int("track", key.Track),
		logger.Uint8("pitch", key.Pitch))
}

func spanOf(on score.NoteOn, length tick.Tick) score.Event {
	k := on.Key()
	return events.NewNote(on.Time(), k.Track, k.Channel, k.Pitch, length, on.Velocity())
}

// Unpair expands note spans into note-on/note-off pairs. The on is
// emitted at the span's position; the off is held until the input
// reaches its time, which is the span's performance length if set and
// its notated length otherwise. Offs sharing a timestamp with a later
// input event are emitted first. Every other event passes through.
func Unpair() Effector {
	return func(s score.Score) (score.Score, error) {
		return apply("unpair", s, func(_ *score.Stream, _ *score.RealTime) score.Transformer {
			return &unpairXform{}
		})
	}
}

type unpairXform struct {
	offs offHeap
	seq  int
}

func (u *unpairXform) Transform(ev score.Event) []score.Event {
	out := u.drainThrough(ev.Time())
	n, ok := ev.(score.Note)
	if !ok {
		return append(out, ev)
	}
	k := score.NoteKey(n)
	out = append(out, events.NewNoteOn(n.Time(), k.Track, k.Channel, k.Pitch, n.Velocity()))
	length := n.Length()
	if pl, ok := n.PerfLength(); ok {
		length = pl
	}
	u.seq++
	heap.Push(&u.offs, pendingOff{
		at:  n.Time().Add(length),
		seq: u.seq,
		off: events.NewNoteOff(n.Time().Add(length), k.Track, k.Channel, k.Pitch),
	})
	return out
}

func (u *unpairXform) Flush(dur tick.Tick) ([]score.Event, tick.Tick) {
	var out []score.Event
	for u.offs.Len() > 0 {
		out = append(out, heap.Pop(&u.offs).(pendingOff).off)
	}
	return out, dur
}

func (u *unpairXform) drainThrough(t tick.Tick) []score.Event {
	var out []score.Event
	for u.offs.Len() > 0 && u.offs[0].at.LessEq(t) {
		out = append(out, heap.Pop(&u.offs).(pendingOff).off)
	}
	return out
}

type pendingOff struct {
	at  tick.Tick
	seq int
	off score.Event
}

type offHeap []pendingOff

func (h offHeap) Len() int { return len(h) }

func (h offHeap) Less(i, j int) bool {
	if c := h[i].at.Cmp(h[j].at); c != 0 {
		return c < 0
	}
	return h[i].seq < h[j].seq
}

func (h offHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *offHeap) Push(x any) { *h = append(*h, x.(pendingOff)) }

func (h *offHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}
