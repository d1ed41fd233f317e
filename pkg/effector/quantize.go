package effector

import (
	"github.com/okian/segno/pkg/score"
	"github.com/okian/segno/pkg/tick"
)

// Quantize snaps event times to the nearest multiple of grid. Rounding
// is monotone, so event ordering survives; events pushed onto the same
// grid point keep their relative order. The score's duration is rounded
// up to the grid so no event lands past it.
func Quantize(grid tick.Tick, opts ...QuantizeOption) Effector {
	cfg := quantizeConfig{}
	for _, o := range opts {
		o(&cfg)
	}
	return func(s score.Score) (score.Score, error) {
		if grid.Sign() <= 0 {
			return nil, ErrBadGrid
		}
		f := func(ev score.Event) []score.Event {
			out := ev
			if t := tick.Round(ev.Time(), grid); !t.Equal(ev.Time()) {
				out = out.WithTime(t)
			}
			if cfg.lengths {
				if n, ok := out.(score.Note); ok {
					l := tick.Round(n.Length(), grid)
					if l.Sign() <= 0 {
						l = grid
					}
					if !l.Equal(n.Length()) {
						out = n.WithLength(l)
					}
				}
			}
			return []score.Event{out}
		}
		return score.MapEvents(s, f, score.WithDurationMap(func(d tick.Tick) tick.Tick {
			r := tick.Round(d, grid)
			if r.Less(d) {
				r = r.Add(grid)
			}
			return r
		}))
	}
}
