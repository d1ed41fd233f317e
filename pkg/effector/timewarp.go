package effector

import (
	"github.com/okian/segno/pkg/score"
	"github.com/okian/segno/pkg/tick"
)

// TimeWarp remaps event times and the score's duration through warp.
// The warp must be monotone non-decreasing; that is the caller's
// contract, and with it output ordering follows input ordering.
func TimeWarp(warp func(tick.Tick) tick.Tick, opts ...WarpOption) Effector {
	cfg := warpConfig{}
	for _, o := range opts {
		o(&cfg)
	}
	return func(s score.Score) (score.Score, error) {
		f := func(ev score.Event) []score.Event {
			t := ev.Time()
			out := ev.WithTime(warp(t))
			if cfg.lengths {
				if n, ok := out.(score.Note); ok {
					l := warp(t.Add(n.Length())).Sub(warp(t))
					out = n.WithLength(l)
				}
			}
			return []score.Event{out}
		}
		return score.MapEvents(s, f, score.WithDurationMap(warp))
	}
}
