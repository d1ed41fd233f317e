package score

import (
	"github.com/okian/segno/pkg/tick"
)

// Merged interleaves two streams by comparing next-available timestamps,
// preferring a on ties, with b's events time-shifted by shift. The
// result's duration is the maximum of the adjusted operand durations.
//
// When one operand is real-time-bound, blocking pulls cannot alternate:
// the engine pre-registers a wake-up on the real-time side at the real
// time of the next pending in-memory event and pulls the in-memory side
// only when that wake-up fires, so neither side starves.
func Merged(a, b *Stream, shift tick.Tick) *Stream {
	if a.rt != nil && b.rt == nil {
		return newStream(newRTMergeSource(a, b, shift, false))
	}
	if b.rt != nil && a.rt == nil {
		return newStream(newRTMergeSource(b, a, shift, true))
	}
	return newStream(&mergeSource{a: a, b: b, shift: shift})
}

// mergeSource is the in-memory two-way merge.
type mergeSource struct {
	a, b  *Stream
	shift tick.Tick
}

func (m *mergeSource) Next() (Event, bool) {
	ea, oka := m.a.Peek()
	eb, okb := m.b.Peek()
	switch {
	case oka && okb:
		if ea.Time().LessEq(eb.Time().Add(m.shift)) {
			m.a.Next()
			return ea, true
		}
		m.b.Next()
		return shiftEvent(eb, m.shift), true
	case oka:
		m.a.Next()
		return ea, true
	case okb:
		m.b.Next()
		return shiftEvent(eb, m.shift), true
	default:
		return nil, false
	}
}

func (m *mergeSource) Duration() tick.Tick {
	da, _ := m.a.Duration()
	db, _ := m.b.Duration()
	return tick.Max(da, db.Add(m.shift))
}
