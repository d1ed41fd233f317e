package score

import (
	"github.com/okian/segno/pkg/tick"
)

// MapEvents applies f to every event in production order, replacing each
// with zero, one or many events. The score kind is preserved: lists map
// to lists, tracks recurse child by child, streams stay lazy. The
// reported duration is adjusted only through WithDurationMap.
func MapEvents(s Score, f func(Event) []Event, opts ...MapOption) (Score, error) {
	cfg := mapConfig{durMap: func(d tick.Tick) tick.Tick { return d }}
	for _, opt := range opts {
		opt(&cfg)
	}
	return mapScore(s, f, cfg)
}

func mapScore(s Score, f func(Event) []Event, cfg mapConfig) (Score, error) {
	switch v := s.(type) {
	case *EventList:
		out := &EventList{duration: cfg.durMap(v.duration)}
		for _, ev := range v.events {
			out.events = append(out.events, f(ev)...)
		}
		return out, nil
	case *Tracks:
		out := &Tracks{}
		for _, child := range v.children {
			mc, err := mapScore(child, f, cfg)
			if err != nil {
				return nil, err
			}
			if err := out.Add(mc); err != nil {
				return nil, err
			}
		}
		return out, nil
	default:
		return newStream(&mapSource{in: s.Stream(), f: f, durMap: cfg.durMap}), nil
	}
}

// mapSource applies a per-event function lazily.
type mapSource struct {
	in     *Stream
	f      func(Event) []Event
	durMap func(tick.Tick) tick.Tick
	queue  []Event
}

func (m *mapSource) Next() (Event, bool) {
	for len(m.queue) == 0 {
		ev, ok := m.in.Next()
		if !ok {
			return nil, false
		}
		m.queue = append(m.queue, m.f(ev)...)
	}
	ev := m.queue[0]
	m.queue = m.queue[1:]
	return ev, true
}

func (m *mapSource) Duration() tick.Tick {
	d, _ := m.in.Duration()
	return m.durMap(d)
}

// Transformer is a stateful stream-to-stream transform: Transform is
// handed every input event in production order and returns the events to
// emit; Flush is called once at end of stream with the input's final
// duration and returns trailing events plus the output duration. The
// transformer must keep output timestamps non-decreasing; that is the
// mechanism behind every ordering-sensitive effector.
type Transformer interface {
	Transform(ev Event) []Event
	Flush(dur tick.Tick) ([]Event, tick.Tick)
}

// MapStream exposes the raw cursor and its end-of-stream duration to a
// stateful transform.
func MapStream(s *Stream, t Transformer) *Stream {
	return newStream(&xformSource{in: s, t: t})
}

// xformSource drives a Transformer from a pull cursor.
type xformSource struct {
	in      *Stream
	t       Transformer
	queue   []Event
	flushed bool
	dur     tick.Tick
}

func (x *xformSource) Next() (Event, bool) {
	for len(x.queue) == 0 {
		if x.flushed {
			return nil, false
		}
		ev, ok := x.in.Next()
		if !ok {
			d, _ := x.in.Duration()
			x.queue, x.dur = x.t.Flush(d)
			x.flushed = true
			continue
		}
		x.queue = append(x.queue, x.t.Transform(ev)...)
	}
	ev := x.queue[0]
	x.queue = x.queue[1:]
	return ev, true
}

func (x *xformSource) Duration() tick.Tick { return x.dur }
