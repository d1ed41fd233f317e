package score

import (
	"sort"

	"github.com/okian/segno/pkg/tick"
)

// EventList is a concrete, finite sequence of events plus an explicit
// duration. The duration is independent of the maximum event end time: it
// may exceed it (trailing silence) or undercut it. Events need not be
// kept sorted; Sorted produces the canonical stable by-time order on
// demand.
type EventList struct {
	events   []Event
	duration tick.Tick
}

// NewEventList creates an event list with configuration options.
func NewEventList(opts ...ListOption) *EventList {
	l := &EventList{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *EventList) sealed() {}

// Append adds events to the end of the list. The duration is not
// adjusted.
func (l *EventList) Append(evs ...Event) {
	l.events = append(l.events, evs...)
}

// Len returns the number of events.
func (l *EventList) Len() int { return len(l.events) }

// At returns the i-th event in insertion order.
func (l *EventList) At(i int) Event { return l.events[i] }

// Events returns the underlying event slice as a view. Callers that need
// an independent list should Clone first.
func (l *EventList) Events() []Event { return l.events }

// Duration returns the list's explicit duration. The error is always nil
// for lists; the signature is shared with streams.
func (l *EventList) Duration() (tick.Tick, error) { return l.duration, nil }

// SetDuration sets the explicit duration.
func (l *EventList) SetDuration(d tick.Tick) { l.duration = d }

// MaxEnd returns the largest event end time in the list: for note spans
// t+length, otherwise t. Useful for setting a duration from content.
func (l *EventList) MaxEnd() tick.Tick {
	var end tick.Tick
	for _, ev := range l.events {
		e := ev.Time()
		if n, ok := ev.(Note); ok {
			e = e.Add(n.Length())
		}
		end = tick.Max(end, e)
	}
	return end
}

// Sort orders the events in place, stable by timestamp.
func (l *EventList) Sort() {
	sort.SliceStable(l.events, func(i, j int) bool {
		return l.events[i].Time().Less(l.events[j].Time())
	})
}

// Sorted returns a stably time-sorted copy. Events are shared, the slice
// is not.
func (l *EventList) Sorted() *EventList {
	c := l.Clone()
	c.Sort()
	return c
}

// Clone returns a shallow copy: a fresh slice over the same events.
func (l *EventList) Clone() *EventList {
	c := &EventList{duration: l.duration}
	c.events = append(c.events, l.events...)
	return c
}

// Stream normalizes the list into a time-ordered stream over a sorted
// copy. The list itself is left untouched and may be reused.
func (l *EventList) Stream() *Stream {
	s := l.Sorted()
	return newStream(&listSource{events: s.events, dur: s.duration})
}

// Collect drains a stream into an event list carrying the stream's final
// duration. It does not return until the stream ends; draining an
// unbounded stream does not terminate.
func Collect(s *Stream) *EventList {
	l := &EventList{}
	for {
		ev, ok := s.Next()
		if !ok {
			break
		}
		l.events = append(l.events, ev)
	}
	d, _ := s.Duration()
	l.duration = d
	return l
}

// listSource is the cursor behind a normalized event list.
type listSource struct {
	events []Event
	dur    tick.Tick
	pos    int
}

func (s *listSource) Next() (Event, bool) {
	if s.pos >= len(s.events) {
		return nil, false
	}
	ev := s.events[s.pos]
	s.pos++
	return ev, true
}

func (s *listSource) Duration() tick.Tick { return s.dur }
