// Package tick provides the exact rational time values used for event
// timestamps and durations.
//
// Timestamps are compared for strict ordering and equality, so arithmetic
// must be exact: a third of a quarter note is 1/3 of a tick unit, not
// 0.333…. Tick wraps math/big.Rat behind an immutable value API; every
// operation returns a fresh value and never mutates its operands.
package tick

import (
	"math/big"
)

// Tick is an exact rational point in time (or span of time), measured in
// abstract tick units. The zero value is 0.
type Tick struct {
	r *big.Rat
}

// Zero is the zero tick value.
var Zero = Tick{}

// New returns the tick num/den. A zero denominator is a programming error
// and panics.
func New(num, den int64) Tick {
	return Tick{r: big.NewRat(num, den)}
}

// FromInt returns the tick n/1.
func FromInt(n int64) Tick {
	return Tick{r: big.NewRat(n, 1)}
}

// FromFloat returns the exact rational value of f. NaN and infinities are
// programming errors and panic.
func FromFloat(f float64) Tick {
	r := new(big.Rat).SetFloat64(f)
	if r == nil {
		panic("tick: non-finite float")
	}
	return Tick{r: r}
}

// rat returns the underlying rational, treating the zero value as 0.
func (t Tick) rat() *big.Rat {
	if t.r == nil {
		return new(big.Rat)
	}
	return t.r
}

// Add returns t + u.
func (t Tick) Add(u Tick) Tick {
	return Tick{r: new(big.Rat).Add(t.rat(), u.rat())}
}

// Sub returns t - u.
func (t Tick) Sub(u Tick) Tick {
	return Tick{r: new(big.Rat).Sub(t.rat(), u.rat())}
}

// Neg returns -t.
func (t Tick) Neg() Tick {
	return Tick{r: new(big.Rat).Neg(t.rat())}
}

// MulInt returns t * n.
func (t Tick) MulInt(n int64) Tick {
	return Tick{r: new(big.Rat).Mul(t.rat(), big.NewRat(n, 1))}
}

// Mul returns t * u.
func (t Tick) Mul(u Tick) Tick {
	return Tick{r: new(big.Rat).Mul(t.rat(), u.rat())}
}

// Div returns t / u. A zero divisor panics.
func (t Tick) Div(u Tick) Tick {
	return Tick{r: new(big.Rat).Quo(t.rat(), u.rat())}
}

// Cmp compares t and u exactly: -1 if t < u, 0 if equal, +1 if t > u.
func (t Tick) Cmp(u Tick) int {
	return t.rat().Cmp(u.rat())
}

// Less reports t < u.
func (t Tick) Less(u Tick) bool { return t.Cmp(u) < 0 }

// LessEq reports t <= u.
func (t Tick) LessEq(u Tick) bool { return t.Cmp(u) <= 0 }

// Equal reports t == u.
func (t Tick) Equal(u Tick) bool { return t.Cmp(u) == 0 }

// IsZero reports t == 0.
func (t Tick) IsZero() bool { return t.rat().Sign() == 0 }

// Sign returns -1, 0 or +1 by the sign of t.
func (t Tick) Sign() int { return t.rat().Sign() }

// Abs returns |t|.
func (t Tick) Abs() Tick {
	return Tick{r: new(big.Rat).Abs(t.rat())}
}

// Min returns the smaller of t and u.
func Min(t, u Tick) Tick {
	if t.Cmp(u) <= 0 {
		return t
	}
	return u
}

// Max returns the larger of t and u.
func Max(t, u Tick) Tick {
	if t.Cmp(u) >= 0 {
		return t
	}
	return u
}

// Floor returns the largest tick n/1 with n <= t, as an integer multiple
// of unit. Floor(t, unit) snaps t down onto a grid spaced by unit; a
// non-positive unit panics.
func Floor(t, unit Tick) Tick {
	if unit.Sign() <= 0 {
		panic("tick: non-positive grid unit")
	}
	q := new(big.Rat).Quo(t.rat(), unit.rat())
	n := new(big.Int).Quo(q.Num(), q.Denom())
	// big.Int Quo truncates toward zero; adjust for negatives.
	if q.Sign() < 0 && new(big.Int).Mul(n, q.Denom()).Cmp(q.Num()) != 0 {
		n.Sub(n, big.NewInt(1))
	}
	step := new(big.Rat).SetInt(n)
	return Tick{r: step.Mul(step, unit.rat())}
}

// Round snaps t to the nearest multiple of unit, rounding halves up.
func Round(t, unit Tick) Tick {
	half := unit.Div(FromInt(2))
	return Floor(t.Add(half), unit)
}

// Float64 returns the nearest float64 to t.
func (t Tick) Float64() float64 {
	f, _ := t.rat().Float64()
	return f
}

// Rat returns a copy of t's value as a big.Rat.
func (t Tick) Rat() *big.Rat {
	return new(big.Rat).Set(t.rat())
}

// String formats t as n/d, or n when the value is integral.
func (t Tick) String() string {
	r := t.rat()
	if r.IsInt() {
		return r.Num().String()
	}
	return r.String()
}
