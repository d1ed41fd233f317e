package score

import (
	"sync"

	"github.com/google/uuid"

	"github.com/okian/segno/pkg/metrics"
	"github.com/okian/segno/pkg/tick"
)

// Source is a cooperatively suspending producer of events. Next returns
// the next event, or false once the source is exhausted; after that,
// Duration returns the source's total duration, which may be less than
// the last event's timestamp and is never observed for an unbounded
// source. Sources must produce non-decreasing timestamps.
type Source interface {
	Next() (Event, bool)
	Duration() tick.Tick
}

// Stream is a single-pass cursor over a Source. It is consumed at most
// once unless forked with Tee. Produced timestamps are non-decreasing;
// ties keep production order.
type Stream struct {
	id  string
	src Source

	pending    Event // single-event lookahead for Peek
	hasPending bool

	done bool
	dur  tick.Tick

	// rt is set when the stream is bound to a real clock; merge and
	// segmentation switch to wake-up scheduling instead of alternating
	// blocking pulls.
	rt *RealTime
}

// NewStream wraps an externally written producer in a stream cursor.
func NewStream(src Source) *Stream {
	return newStream(src)
}

func newStream(src Source) *Stream {
	return &Stream{id: uuid.NewString(), src: src}
}

func (s *Stream) sealed() {}

// ID returns the stream's identity, used in diagnostics.
func (s *Stream) ID() string { return s.id }

// Stream returns the stream itself; it is already normalized.
func (s *Stream) Stream() *Stream { return s }

// Next produces the next event, or false at end of stream.
func (s *Stream) Next() (Event, bool) {
	if s.hasPending {
		ev := s.pending
		s.pending = nil
		s.hasPending = false
		return ev, true
	}
	if s.done {
		return nil, false
	}
	ev, ok := s.src.Next()
	if !ok {
		s.done = true
		s.dur = s.src.Duration()
		return nil, false
	}
	metrics.RecordEventProduced()
	return ev, true
}

// Peek returns the next event without consuming it.
func (s *Stream) Peek() (Event, bool) {
	if s.hasPending {
		return s.pending, true
	}
	ev, ok := s.Next()
	if !ok {
		return nil, false
	}
	s.pending = ev
	s.hasPending = true
	return ev, true
}

// Done reports whether the end-of-stream signal has been observed.
func (s *Stream) Done() bool { return s.done && !s.hasPending }

// Duration returns the stream's total duration once the end of stream
// has been observed, and ErrUnboundedDuration before that.
func (s *Stream) Duration() (tick.Tick, error) {
	if !s.done {
		return tick.Zero, ErrUnboundedDuration
	}
	return s.dur, nil
}

// Tee forks the stream into two independent cursors without re-running
// the producer. The receiver is replaced in place by a cursor reading
// from a shared append-only buffer; the second cursor over the same
// buffer is returned. Either side may run ahead without loss, and both
// observe the single end-of-stream duration, cached on first exhaustion.
func (s *Stream) Tee() *Stream {
	f := &fork{src: s.src}
	if s.hasPending {
		// The lookahead slot was already pulled from the producer; seed
		// the shared buffer so both sides see it.
		f.buf = append(f.buf, s.pending)
		s.pending = nil
		s.hasPending = false
	}
	if s.done {
		f.done = true
		f.dur = s.dur
	}
	s.src = &forkCursor{f: f}
	s.done = false
	other := newStream(&forkCursor{f: f})
	metrics.RecordStreamForked()
	return other
}

// fork is the shared state behind a teed stream: the original producer,
// an append-only replay buffer, and the cached end-of-stream duration.
// The mutex makes concurrent forward-only readers safe.
type fork struct {
	mu   sync.Mutex
	src  Source
	buf  []Event
	done bool
	dur  tick.Tick
}

// forkCursor is one side's read position into a fork.
type forkCursor struct {
	f   *fork
	pos int
}

func (c *forkCursor) Next() (Event, bool) {
	c.f.mu.Lock()
	defer c.f.mu.Unlock()
	if c.pos < len(c.f.buf) {
		ev := c.f.buf[c.pos]
		c.pos++
		return ev, true
	}
	if c.f.done {
		return nil, false
	}
	ev, ok := c.f.src.Next()
	if !ok {
		c.f.done = true
		c.f.dur = c.f.src.Duration()
		return nil, false
	}
	c.f.buf = append(c.f.buf, ev)
	c.pos = len(c.f.buf)
	metrics.UpdateForkBufferDepth(len(c.f.buf))
	return ev, true
}

func (c *forkCursor) Duration() tick.Tick {
	c.f.mu.Lock()
	defer c.f.mu.Unlock()
	return c.f.dur
}

// SourceFunc builds a Source from two functions, for producers that do
// not need their own type.
func SourceFunc(next func() (Event, bool), duration func() tick.Tick) Source {
	return &funcSource{next: next, duration: duration}
}

type funcSource struct {
	next     func() (Event, bool)
	duration func() tick.Tick
}

func (s *funcSource) Next() (Event, bool) { return s.next() }

func (s *funcSource) Duration() tick.Tick { return s.duration() }
