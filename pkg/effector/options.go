package effector

import "github.com/okian/segno/pkg/tick"

// QuantizeOption configures Quantize.
type QuantizeOption func(*quantizeConfig)

type quantizeConfig struct {
	lengths bool
}

// WithQuantizedLengths snaps note span lengths to the grid too, keeping
// at least one grid step so spans never collapse to nothing.
func WithQuantizedLengths() QuantizeOption {
	return func(c *quantizeConfig) {
		c.lengths = true
	}
}

// WarpOption configures TimeWarp.
type WarpOption func(*warpConfig)

type warpConfig struct {
	lengths bool
}

// WithWarpedLengths remaps note span lengths through the warp as well,
// so a span [t, t+l) becomes [warp(t), warp(t+l)).
func WithWarpedLengths() WarpOption {
	return func(c *warpConfig) {
		c.lengths = true
	}
}

// HumanizeOption configures Humanize.
type HumanizeOption func(*humanizeConfig)

type humanizeConfig struct {
	timing   tick.Tick
	velocity int
	seed     int64
	seeded   bool
}

// WithTimingJitter bounds the random performance offset applied to
// notes. Zero disables timing jitter.
func WithTimingJitter(max tick.Tick) HumanizeOption {
	return func(c *humanizeConfig) {
		c.timing = max
	}
}

// WithVelocityJitter bounds the random velocity perturbation applied to
// notes. Zero disables velocity jitter.
func WithVelocityJitter(max int) HumanizeOption {
	return func(c *humanizeConfig) {
		c.velocity = max
	}
}

// WithSeed makes the jitter sequence deterministic.
func WithSeed(seed int64) HumanizeOption {
	return func(c *humanizeConfig) {
		c.seed = seed
		c.seeded = true
	}
}

// SubstituteOption configures Substitute.
type SubstituteOption func(*substituteConfig)

type substituteConfig struct {
	basePitch uint8
}

// WithBasePitch sets the pattern's reference pitch; pattern notes are
// transposed by the difference between the host note's pitch and this
// base. Defaults to middle C.
func WithBasePitch(p uint8) SubstituteOption {
	return func(c *substituteConfig) {
		c.basePitch = p
	}
}
