// Package mididev binds the engine's real-time device boundary to MIDI
// ports through gomidi and its rtmidi driver. A Device with no ports is
// a pure scheduler: queued events come back through Recv at their
// wall-clock time and nothing touches hardware, which is what tests and
// offline playback use.
package mididev

import (
	"context"
	"fmt"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"github.com/okian/segno/pkg/events"
	"github.com/okian/segno/pkg/logger"
	"github.com/okian/segno/pkg/metrics"
	"github.com/okian/segno/pkg/score"
	"github.com/okian/segno/pkg/tick"
)

// Clock converts between wall-clock time and the tick timeline of the
// stream the device is bound to. score.RealTime satisfies it.
type Clock interface {
	TickAt(at time.Time) tick.Tick
	TimeAt(t tick.Tick) time.Time
}

// Device is a score.Device backed by MIDI ports. Queued events are
// transmitted on the out port when their wall-clock time arrives and
// simultaneously delivered back through Recv; notes played on the in
// port surface through Recv stamped via the bound clock.
type Device struct {
	log  logger.Logger
	emit func(score.Event)
	out  drivers.Out
	send func(gomidi.Message) error
	stop func()

	recv chan score.Event
	done chan struct{}

	mu     sync.Mutex
	timers []*time.Timer
	closed bool

	clockMu sync.RWMutex
	clock   Clock
}

// New opens the configured MIDI ports.
func New(opts ...Option) (*Device, error) {
	cfg := options{recvBuffer: defaultRecvBuffer}
	for _, opt := range opts {
		opt(&cfg)
	}
	d := &Device{
		log:   cfg.log,
		emit:  cfg.emit,
		recv:  make(chan score.Event, cfg.recvBuffer),
		done:  make(chan struct{}),
		clock: newFallbackClock(),
	}
	if d.log == nil {
		d.log = logger.Named("mididev")
	}
	if cfg.outPort != "" {
		out, err := gomidi.FindOutPort(cfg.outPort)
		if err != nil {
			return nil, fmt.Errorf("%w: out %q: %v", ErrPortNotFound, cfg.outPort, err)
		}
		send, err := gomidi.SendTo(out)
		if err != nil {
			return nil, fmt.Errorf("open out port %q: %w", cfg.outPort, err)
		}
		d.out = out
		d.send = send
	}
	if cfg.inPort != "" {
		in, err := gomidi.FindInPort(cfg.inPort)
		if err != nil {
			return nil, fmt.Errorf("%w: in %q: %v", ErrPortNotFound, cfg.inPort, err)
		}
		stop, err := gomidi.ListenTo(in, d.onMessage)
		if err != nil {
			return nil, fmt.Errorf("open in port %q: %w", cfg.inPort, err)
		}
		d.stop = stop
	}
	return d, nil
}

// SetClock binds the device to a stream's tick timeline. Until it is
// called, input events are stamped against a clock started at New.
func (d *Device) SetClock(c Clock) {
	d.clockMu.Lock()
	d.clock = c
	d.clockMu.Unlock()
}

// QueueEvent schedules ev for delivery at wall-clock time at. It never
// blocks; delivery happens on a timer goroutine.
func (d *Device) QueueEvent(ev score.Event, at time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return score.ErrDeviceClosed
	}
	tm := time.AfterFunc(time.Until(at), func() { d.deliver(ev) })
	d.timers = append(d.timers, tm)
	return nil
}

// Recv blocks until the next event is due or the binding ends.
func (d *Device) Recv(ctx context.Context) (score.Event, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-d.done:
		return nil, score.ErrDeviceClosed
	case ev := <-d.recv:
		return ev, nil
	}
}

// Close stops the input listener, drops pending timers and wakes any
// blocked Recv. Safe to call more than once.
func (d *Device) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	for _, tm := range d.timers {
		tm.Stop()
	}
	d.timers = nil
	d.mu.Unlock()

	if d.stop != nil {
		d.stop()
	}
	close(d.done)
	return nil
}

// deliver transmits a due event and hands it back through Recv.
func (d *Device) deliver(ev score.Event) {
	select {
	case <-d.done:
		return
	default:
	}
	d.transmit(ev)
	select {
	case d.recv <- ev:
	case <-d.done:
	}
}

// transmit sends an event to the out port. Wake-ups and non-performable
// events are engine-internal and never reach the wire.
func (d *Device) transmit(ev score.Event) {
	if d.emit != nil {
		if _, isWake := ev.(score.WakeUp); !isWake {
			d.emit(ev)
		}
	}
	if d.send == nil {
		return
	}
	switch v := ev.(type) {
	case score.WakeUp:
	case score.Note:
		k := score.NoteKey(v)
		d.sendMsg(gomidi.NoteOn(k.Channel, k.Pitch, v.Velocity()))
		length := v.Length()
		if pl, ok := v.PerfLength(); ok {
			length = pl
		}
		start := v.Time()
		if o, ok := ev.(score.Offsetter); ok {
			start = start.Add(o.Offset())
		}
		d.scheduleOff(k, start.Add(length))
	case score.NoteOn:
		k := v.Key()
		d.sendMsg(gomidi.NoteOn(k.Channel, k.Pitch, v.Velocity()))
	case score.NoteOff:
		k := v.Key()
		d.sendMsg(gomidi.NoteOff(k.Channel, k.Pitch))
	case score.Control:
		d.sendMsg(gomidi.ControlChange(v.Channel(), v.Controller(), v.Value()))
	default:
	}
}

// scheduleOff releases a transmitted span at its end time.
func (d *Device) scheduleOff(k score.Key, end tick.Tick) {
	d.clockMu.RLock()
	at := d.clock.TimeAt(end)
	d.clockMu.RUnlock()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	tm := time.AfterFunc(time.Until(at), func() {
		select {
		case <-d.done:
			return
		default:
		}
		d.sendMsg(gomidi.NoteOff(k.Channel, k.Pitch))
	})
	d.timers = append(d.timers, tm)
}

func (d *Device) sendMsg(msg gomidi.Message) {
	if err := d.send(msg); err != nil {
		d.log.Warn(context.Background(), "midi send failed", logger.Error(err))
		return
	}
	metrics.RecordDeviceEventOut()
}

// onMessage translates incoming MIDI into engine events. A note-on with
// zero velocity is a note-off, per MIDI convention.
func (d *Device) onMessage(msg gomidi.Message, _ int32) {
	d.clockMu.RLock()
	t := d.clock.TickAt(time.Now())
	d.clockMu.RUnlock()

	var channel, key, velocity uint8
	var controller, value uint8
	var ev score.Event
	switch {
	case msg.GetNoteOn(&channel, &key, &velocity) && velocity > 0:
		ev = events.NewNoteOn(t, 0, channel, key, velocity)
	case msg.GetNoteOn(&channel, &key, &velocity), msg.GetNoteOff(&channel, &key, &velocity):
		ev = events.NewNoteOff(t, 0, channel, key)
	case msg.GetControlChange(&channel, &controller, &value):
		ev = events.NewControl(t, 0, channel, controller, value)
	default:
		return
	}
	select {
	case d.recv <- ev:
	case <-d.done:
	default:
		d.log.Warn(context.Background(), "input buffer full, event dropped",
			logger.Stringer("t", t))
	}
}

// fallbackClock anchors ticks at the moment the device was created.
type fallbackClock struct {
	origin time.Time
	tps    float64
}

func newFallbackClock() *fallbackClock {
	return &fallbackClock{origin: time.Now(), tps: 960}
}

func (c *fallbackClock) TickAt(at time.Time) tick.Tick {
	return tick.FromFloat(at.Sub(c.origin).Seconds() * c.tps)
}

func (c *fallbackClock) TimeAt(t tick.Tick) time.Time {
	return c.origin.Add(time.Duration(t.Float64() / c.tps * float64(time.Second)))
}
