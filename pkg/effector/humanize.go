package effector

import (
	"math/rand"
	"time"

	"github.com/okian/segno/pkg/metrics"
	"github.com/okian/segno/pkg/score"
	"github.com/okian/segno/pkg/tick"
)

// Humanize perturbs notes to break mechanical regularity. Timing jitter
// lands in the performance offset, never the nominal time, so event
// ordering and score duration are untouched. Velocity jitter nudges
// note velocities within the valid range.
//
// Controller events do not get independent jitter: a controller close
// in time to a jittered note inherits that note's offset, so a pedal
// press stays glued to the chord it belongs to. Controllers with no
// nearby note are left alone. Offsets that would realize before the
// score's start are clamped to it with a repair diagnostic.
func Humanize(opts ...HumanizeOption) Effector {
	cfg := humanizeConfig{}
	for _, o := range opts {
		o(&cfg)
	}
	if !cfg.seeded {
		cfg.seed = time.Now().UnixNano()
	}
	return func(s score.Score) (score.Score, error) {
		if cfg.timing.Sign() < 0 || cfg.velocity < 0 {
			return nil, ErrBadJitter
		}
		return apply("humanize", s, func(_ *score.Stream, _ *score.RealTime) score.Transformer {
			return &humanizeXform{cfg: cfg, rng: rand.New(rand.NewSource(cfg.seed))}
		})
	}
}

type jitteredNote struct {
	nominal tick.Tick
	offset  tick.Tick
}

type heldControl struct {
	item    *pendingItem
	ctl     score.Control
	nominal tick.Tick
}

type humanizeXform struct {
	cfg    humanizeConfig
	rng    *rand.Rand
	q      pendingQueue
	window []jitteredNote
	held   []heldControl
}

func (h *humanizeXform) Transform(ev score.Event) []score.Event {
	t := ev.Time()
	h.settle(t)
	switch v := ev.(type) {
	case score.Note:
		out, dt := h.jitterNote(v)
		if n, ok := out.(score.Note); ok && h.cfg.velocity > 0 {
			out = n.WithVelocity(jitterVel(n.Velocity(), h.cfg.velocity, h.rng))
		}
		h.window = append(h.window, jitteredNote{nominal: t, offset: dt})
		h.q.push(out, true)
	case score.NoteOn:
		out, dt := h.jitterNote(v)
		h.window = append(h.window, jitteredNote{nominal: t, offset: dt})
		h.q.push(out, true)
	case score.Control:
		if h.cfg.timing.Sign() > 0 {
			it := h.q.push(v, false)
			h.held = append(h.held, heldControl{item: it, ctl: v, nominal: t})
		} else {
			h.q.push(v, true)
		}
	default:
		h.q.push(ev, true)
	}
	return h.q.drain()
}

func (h *humanizeXform) Flush(dur tick.Tick) ([]score.Event, tick.Tick) {
	for i := range h.held {
		h.resolve(&h.held[i])
	}
	h.held = nil
	return h.q.drainAll(), dur
}

// settle resolves held controllers once no future note can still fall
// within correlation distance, and prunes the note window accordingly.
func (h *humanizeXform) settle(now tick.Tick) {
	reach := h.cfg.timing
	kept := h.held[:0]
	for i := range h.held {
		if h.held[i].nominal.Add(reach).Less(now) {
			h.resolve(&h.held[i])
			continue
		}
		kept = append(kept, h.held[i])
	}
	h.held = kept
	horizon := reach.MulInt(2)
	n := 0
	for _, w := range h.window {
		if !w.nominal.Add(horizon).Less(now) {
			h.window[n] = w
			n++
		}
	}
	h.window = h.window[:n]
}

// resolve gives a held controller the offset of its nearest note, if
// one landed within the jitter bound on either side.
func (h *humanizeXform) resolve(hc *heldControl) {
	best := -1
	var bestDist tick.Tick
	for i, w := range h.window {
		d := w.nominal.Sub(hc.nominal).Abs()
		if h.cfg.timing.Less(d) {
			continue
		}
		if best < 0 || d.Less(bestDist) {
			best = i
			bestDist = d
		}
	}
	hc.item.resolved = true
	if best < 0 {
		return
	}
	dt := h.clampOffset(hc.nominal, h.window[best].offset)
	if dt.IsZero() {
		return
	}
	o, ok := hc.ctl.(score.Offsetter)
	if !ok {
		return
	}
	hc.item.ev = o.WithOffset(dt)
}

// jitterNote applies a random offset within the timing bound and
// reports the offset actually applied.
func (h *humanizeXform) jitterNote(ev score.Event) (score.Event, tick.Tick) {
	if h.cfg.timing.Sign() == 0 {
		return ev, tick.Zero
	}
	off, ok := ev.(score.Offsetter)
	if !ok {
		return ev, tick.Zero
	}
	dt := h.clampOffset(ev.Time(), randOffset(h.cfg.timing, h.rng))
	if dt.IsZero() {
		return ev, tick.Zero
	}
	return off.WithOffset(dt), dt
}

// clampOffset keeps a realized time from landing before the score's
// start.
func (h *humanizeXform) clampOffset(t, dt tick.Tick) tick.Tick {
	if t.Add(dt).Sign() >= 0 {
		return dt
	}
	metrics.RecordRepair(metrics.RepairOffsetClamped)
	return tick.Zero.Sub(t)
}

func randOffset(max tick.Tick, rng *rand.Rand) tick.Tick {
	return tick.FromFloat(max.Float64() * (rng.Float64()*2 - 1))
}

func jitterVel(v uint8, max int, rng *rand.Rand) uint8 {
	if v == 0 {
		return 0
	}
	out := int(v) + rng.Intn(2*max+1) - max
	if out < 1 {
		out = 1
	}
	if out > 127 {
		out = 127
	}
	return uint8(out)
}
