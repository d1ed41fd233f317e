// Package app provides the playback service that drives a score through
// the real-time device boundary.
package app

import (
	"context"
	"sync"

	"github.com/okian/segno/internal/adapters/mididev"
	"github.com/okian/segno/pkg/effector"
	"github.com/okian/segno/pkg/logger"
	"github.com/okian/segno/pkg/score"
)

const defaultLookahead = 64

// Player streams a score to a device in real time. Events are scheduled
// on the device a bounded lookahead ahead of playback; each delivered
// event releases the next, so the device never holds more than the
// lookahead window of timers.
type Player struct {
	mu sync.Mutex

	dev       score.Device
	lookahead int
	chain     effector.Effector
	tps       float64
	log       logger.Logger
}

// Option applies a configuration option to the Player.
type Option func(*Player)

// WithDevice sets the playback device. Required.
func WithDevice(dev score.Device) Option {
	return func(p *Player) {
		p.dev = dev
	}
}

// WithLookahead bounds how many events are scheduled ahead of playback.
func WithLookahead(n int) Option {
	return func(p *Player) {
		if n > 0 {
			p.lookahead = n
		}
	}
}

// WithEffectors installs a transformation chain applied before playback.
func WithEffectors(effs ...effector.Effector) Option {
	return func(p *Player) {
		if len(effs) > 0 {
			p.chain = effector.Chain(effs...)
		}
	}
}

// WithTicksPerSecond sets the tick-to-wall-clock rate.
func WithTicksPerSecond(tps float64) Option {
	return func(p *Player) {
		if tps > 0 {
			p.tps = tps
		}
	}
}

// WithLogger sets a custom logger for the player.
func WithLogger(log logger.Logger) Option {
	return func(p *Player) {
		if log != nil {
			p.log = log
		}
	}
}

// New constructs a Player with default configuration.
func New(opts ...Option) (*Player, error) {
	p := &Player{
		lookahead: defaultLookahead,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.dev == nil {
		return nil, ErrNoDevice
	}
	if p.log == nil {
		p.log = logger.Named("player")
	}
	return p, nil
}

// Play runs the score through the device and blocks until every event
// has been delivered, the context is canceled, or the device fails. One
// playback at a time.
func (p *Player) Play(ctx context.Context, s score.Score) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.chain != nil {
		var err error
		s, err = p.chain(s)
		if err != nil {
			return err
		}
	}

	var rtOpts []score.RealTimeOption
	if p.tps > 0 {
		rtOpts = append(rtOpts, score.WithTicksPerSecond(p.tps))
	}
	rt := score.NewRealTime(ctx, p.dev, rtOpts...)
	defer rt.Close()
	if cd, ok := p.dev.(interface{ SetClock(mididev.Clock) }); ok {
		cd.SetClock(rt)
	}

	in := s.Stream()
	var window []score.Event
	for len(window) < p.lookahead {
		ev, ok := p.injectNext(rt, in)
		if !ok {
			break
		}
		window = append(window, ev)
	}
	if len(window) == 0 {
		p.log.Info(ctx, "score is empty, nothing to play")
		return nil
	}

	out := rt.Stream()
	played := 0
	for len(window) > 0 {
		ev, ok := out.Next()
		if !ok {
			if err := ctx.Err(); err != nil {
				return err
			}
			return score.ErrDeviceClosed
		}
		if _, isWake := ev.(score.WakeUp); isWake {
			continue
		}
		// Input events from the device's in port are not part of the
		// scheduled window; they only surface for downstream consumers.
		i := indexOf(window, ev)
		if i < 0 {
			p.log.Debug(ctx, "device input", logger.Stringer("t", ev.Time()))
			continue
		}
		window = append(window[:i], window[i+1:]...)
		played++
		p.log.Debug(ctx, "played event", logger.Stringer("t", ev.Time()))
		if next, ok := p.injectNext(rt, in); ok {
			window = append(window, next)
		}
	}

	p.log.Info(ctx, "playback finished", logger.Int("events", played))
	return nil
}

// injectNext schedules one more score event on the device and reports
// the event it scheduled.
func (p *Player) injectNext(rt *score.RealTime, in *score.Stream) (score.Event, bool) {
	ev, ok := in.Next()
	if !ok {
		return nil, false
	}
	if err := rt.Inject(ev.Time(), ev); err != nil {
		p.log.Warn(context.Background(), "inject failed", logger.Error(err))
		return nil, false
	}
	return ev, true
}

func indexOf(window []score.Event, ev score.Event) int {
	for i, q := range window {
		if q.Equal(ev) {
			return i
		}
	}
	return -1
}
