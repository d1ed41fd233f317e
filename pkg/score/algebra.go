package score

import (
	"github.com/okian/segno/pkg/tick"
)

// The algebra keeps two explicit spellings per operator instead of one
// operator whose behavior depends on call-site aliasing: Concat/Merge
// build a new score, ConcatInto/MergeInto mutate their left event list.
// Events themselves are never mutated; time-shifting goes through
// WithTime copies and unshifted events are shared.

// Concat sequences a then b: b's events are time-shifted by a's duration,
// the result's duration is the sum. a must have a statically known
// duration, so it must not be a stream (ErrStreamOperand). When b is a
// stream the result is a lazy stream; otherwise a fresh event list.
func Concat(a, b Score) (Score, error) {
	if KindOf(a) == KindStream {
		return nil, ErrStreamOperand
	}
	da, err := a.Duration()
	if err != nil {
		return nil, err
	}
	if KindOf(b) == KindStream {
		// A list's duration may undercut its own last event, so the tail
		// of a can overlap the shifted head of b; Merged restores order
		// and max(d(a), d(a)+d(b)) is exactly the summed duration.
		return Merged(a.Stream(), b.Stream(), da), nil
	}
	db, err := b.Duration()
	if err != nil {
		return nil, err
	}
	out := &EventList{duration: da.Add(db)}
	out.events = append(out.events, flattenEvents(a)...)
	for _, ev := range flattenEvents(b) {
		out.events = append(out.events, shiftEvent(ev, da))
	}
	return out, nil
}

// ConcatInto appends b to l in place when b is not a stream, returning l.
// With a stream operand it degrades to the non-mutating Concat and l is
// left untouched.
func ConcatInto(l *EventList, b Score) (Score, error) {
	if KindOf(b) == KindStream {
		return Concat(l, b)
	}
	db, err := b.Duration()
	if err != nil {
		return nil, err
	}
	shift := l.duration
	for _, ev := range flattenEvents(b) {
		l.events = append(l.events, shiftEvent(ev, shift))
	}
	l.duration = l.duration.Add(db)
	return l, nil
}

// Merge performs a and b simultaneously: no time shift, no event
// copying, duration the maximum of the two. Finite operands become
// children of a new Tracks node; a stream operand yields a merged
// stream.
func Merge(a, b Score) (Score, error) {
	if KindOf(a) == KindStream || KindOf(b) == KindStream {
		return Merged(a.Stream(), b.Stream(), tick.Zero), nil
	}
	return NewTracks(a, b)
}

// MergeInto merges b's events into l in place, returning l; the duration
// becomes the maximum of the two. With a stream operand it degrades to
// the non-mutating merged stream.
func MergeInto(l *EventList, b Score) (Score, error) {
	if KindOf(b) == KindStream {
		return Merged(l.Stream(), b.Stream(), tick.Zero), nil
	}
	db, err := b.Duration()
	if err != nil {
		return nil, err
	}
	l.events = append(l.events, flattenEvents(b)...)
	l.duration = tick.Max(l.duration, db)
	return l, nil
}

// Repeat sequences s with itself n times. Streams are rejected with
// ErrStreamOperand; n <= 0 yields an empty list.
func Repeat(s Score, n int) (Score, error) {
	if KindOf(s) == KindStream {
		return nil, ErrStreamOperand
	}
	d, err := s.Duration()
	if err != nil {
		return nil, err
	}
	out := &EventList{}
	if n <= 0 {
		return out, nil
	}
	evs := flattenEvents(s)
	for i := 0; i < n; i++ {
		shift := d.MulInt(int64(i))
		for _, ev := range evs {
			out.events = append(out.events, shiftEvent(ev, shift))
		}
	}
	out.duration = d.MulInt(int64(n))
	return out, nil
}

// flattenEvents collects a finite score's events depth-first in
// declaration order, unsorted and unshifted.
func flattenEvents(s Score) []Event {
	switch v := s.(type) {
	case *EventList:
		return v.events
	case *Tracks:
		flat := &EventList{}
		v.flatten(flat)
		return flat.events
	default:
		return nil
	}
}

// shiftEvent returns ev moved by shift, sharing the event when the shift
// is zero.
func shiftEvent(ev Event, shift tick.Tick) Event {
	if shift.IsZero() {
		return ev
	}
	return ev.WithTime(ev.Time().Add(shift))
}
