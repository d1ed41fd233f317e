package score

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/segno/pkg/logger"
	"github.com/okian/segno/pkg/metrics"
	"github.com/okian/segno/pkg/tick"
)

// Device is the real-time boundary a RealTime stream is bound to.
// QueueEvent schedules an event for delivery at a wall-clock time without
// blocking; Recv blocks until the next event arrives or ctx is canceled.
type Device interface {
	QueueEvent(ev Event, at time.Time) error
	Recv(ctx context.Context) (Event, error)
	Close() error
}

// Default tick-to-wall-clock rate: 480 ticks per quarter at 120 BPM.
const defaultTicksPerSecond = 960.0

// Default bound on a realized performance offset: one second at the
// default clock rate.
const defaultMaxOffsetTicks = 960

// RealTime is an event stream bound to a real clock through a Device. It
// can inject synthetic events into itself at future real times, which is
// how merge and segmentation avoid polling the device. The device
// binding is a scoped resource: it is released when the stream is
// exhausted or explicitly closed.
type RealTime struct {
	stream *Stream
	dev    Device
	ctx    context.Context
	cancel context.CancelFunc
	origin    time.Time
	tps       float64
	maxOffset tick.Tick

	token     atomic.Uint64
	closeOnce sync.Once
	closed    atomic.Bool
}

// NewRealTime binds a device into a real-time stream. The stream's
// origin is the moment of creation.
func NewRealTime(ctx context.Context, dev Device, opts ...RealTimeOption) *RealTime {
	rt := &RealTime{
		dev:       dev,
		origin:    time.Now(),
		tps:       defaultTicksPerSecond,
		maxOffset: tick.FromInt(defaultMaxOffsetTicks),
	}
	for _, opt := range opts {
		opt(rt)
	}
	rt.ctx, rt.cancel = context.WithCancel(ctx)
	rt.stream = newStream(&rtSource{rt: rt})
	rt.stream.rt = rt
	return rt
}

func (rt *RealTime) sealed() {}

// Stream returns the stream view of the real-time feed.
func (rt *RealTime) Stream() *Stream { return rt.stream }

// Duration reports the stream duration once the device binding has ended.
func (rt *RealTime) Duration() (tick.Tick, error) { return rt.stream.Duration() }

// Origin returns the wall-clock zero point of the stream's tick timeline.
func (rt *RealTime) Origin() time.Time { return rt.origin }

// TimeAt converts a tick timestamp to wall-clock time.
func (rt *RealTime) TimeAt(t tick.Tick) time.Time {
	return rt.origin.Add(time.Duration(t.Float64() / rt.tps * float64(time.Second)))
}

// TickAt converts a wall-clock time to the stream's tick timeline.
func (rt *RealTime) TickAt(at time.Time) tick.Tick {
	return tick.FromFloat(at.Sub(rt.origin).Seconds() * rt.tps)
}

// Inject schedules ev to be produced by this stream at tick time at. The
// event keeps its nominal timestamp; a performance offset carried by ev
// shifts only the realized wall-clock time.
func (rt *RealTime) Inject(at tick.Tick, ev Event) error {
	if rt.closed.Load() {
		return ErrDeviceClosed
	}
	realized := at.Add(rt.realizedOffset(ev))
	start := time.Now()
	err := rt.dev.QueueEvent(ev.WithTime(at), rt.TimeAt(realized))
	metrics.RecordDeviceSendLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return err
	}
	metrics.RecordRealtimeInjection()
	return nil
}

// realizedOffset returns ev's performance offset bounded to the stream's
// maximum. An offset beyond the bound is clamped and recorded as a
// repair.
func (rt *RealTime) realizedOffset(ev Event) tick.Tick {
	o, ok := ev.(Offsetter)
	if !ok || o.Offset().IsZero() {
		return tick.Zero
	}
	dt := o.Offset()
	if dt.Abs().LessEq(rt.maxOffset) {
		return dt
	}
	clamped := rt.maxOffset
	if dt.Sign() < 0 {
		clamped = clamped.Neg()
	}
	metrics.RecordRepair(metrics.RepairOffsetClamped)
	logger.Named("score").Warn(context.Background(), "performance offset exceeds bound, clamped",
		logger.Int("track", ev.Track()),
		logger.Stringer("t", ev.Time()),
		logger.Stringer("offset", dt),
		logger.Stringer("max", rt.maxOffset))
	return clamped
}

// Wake schedules a self-addressed wake-up event at the given tick and
// returns its token. Consumers that recognize the token treat the
// wake-up as a timer; everyone else filters it out.
func (rt *RealTime) Wake(at tick.Tick) (uint64, error) {
	tok := rt.token.Add(1)
	return tok, rt.Inject(at, &wakeEvent{t: at, token: tok})
}

// Close releases the device binding. It is safe to call more than once
// and also runs automatically when the stream is exhausted.
func (rt *RealTime) Close() error {
	var err error
	rt.closeOnce.Do(func() {
		rt.closed.Store(true)
		rt.cancel()
		err = rt.dev.Close()
	})
	return err
}

// rtSource pulls events off the device until the binding ends.
type rtSource struct {
	rt  *RealTime
	dur tick.Tick
}

func (s *rtSource) Next() (Event, bool) {
	ev, err := s.rt.dev.Recv(s.rt.ctx)
	if err != nil {
		s.dur = s.rt.TickAt(time.Now())
		_ = s.rt.Close()
		return nil, false
	}
	metrics.RecordDeviceEventIn()
	return ev, true
}

func (s *rtSource) Duration() tick.Tick { return s.dur }

// wakeEvent is the engine's own wake-up record; it satisfies the WakeUp
// capability and carries nothing but a timestamp and a token.
type wakeEvent struct {
	t     tick.Tick
	token uint64
}

func (e *wakeEvent) Time() tick.Tick { return e.t }
func (e *wakeEvent) Track() int      { return 0 }
func (e *wakeEvent) Token() uint64   { return e.token }

func (e *wakeEvent) WithTime(t tick.Tick) Event {
	c := *e
	c.t = t
	return &c
}

func (e *wakeEvent) Equal(other Event) bool {
	o, ok := other.(*wakeEvent)
	if !ok {
		return false
	}
	return e.t.Equal(o.t) && e.token == o.token
}

// rtMergeSource merges a real-time stream with an in-memory stream. The
// in-memory side is pulled only when the wake-up registered for its head
// event fires on the real-time side, so the merge never alternates
// blocking pulls and never busy-waits.
type rtMergeSource struct {
	rts *Stream // real-time side
	mem *Stream // in-memory side

	// rtShift/memShift realize the s2-shift of Merged on whichever side
	// was the second operand.
	rtShift  tick.Tick
	memShift tick.Tick

	tok        uint64
	registered bool
}

func newRTMergeSource(rts, mem *Stream, shift tick.Tick, rtIsSecond bool) *rtMergeSource {
	m := &rtMergeSource{rts: rts, mem: mem}
	if rtIsSecond {
		m.rtShift = shift
	} else {
		m.memShift = shift
	}
	return m
}

func (m *rtMergeSource) Next() (Event, bool) {
	for {
		if m.rts.Done() {
			ev, ok := m.mem.Next()
			if !ok {
				return nil, false
			}
			return shiftEvent(ev, m.memShift), true
		}
		if !m.registered {
			if head, ok := m.mem.Peek(); ok {
				// Wake the device side at the output time of the pending
				// in-memory event, translated into the real-time stream's
				// own timeline.
				wakeAt := head.Time().Add(m.memShift).Sub(m.rtShift)
				tok, err := m.rts.rt.Wake(wakeAt)
				if err == nil {
					m.tok = tok
					m.registered = true
				}
			}
		}
		ev, ok := m.rts.Next()
		if !ok {
			continue
		}
		if w, isWake := ev.(WakeUp); isWake && m.registered && w.Token() == m.tok {
			m.registered = false
			mev, ok := m.mem.Next()
			if !ok {
				continue
			}
			return shiftEvent(mev, m.memShift), true
		}
		return shiftEvent(ev, m.rtShift), true
	}
}

func (m *rtMergeSource) Duration() tick.Tick {
	dr, _ := m.rts.Duration()
	dm, _ := m.mem.Duration()
	return tick.Max(dr.Add(m.rtShift), dm.Add(m.memShift))
}
