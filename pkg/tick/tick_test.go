package tick_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/segno/pkg/tick"
)

func TestTickArithmetic(t *testing.T) {
	Convey("Given rational tick values", t, func() {
		third := tick.New(1, 3)
		sixth := tick.New(1, 6)

		Convey("When adding and subtracting", func() {
			So(third.Add(sixth).Equal(tick.New(1, 2)), ShouldBeTrue)
			So(third.Sub(sixth).Equal(sixth), ShouldBeTrue)
			So(third.Sub(third).IsZero(), ShouldBeTrue)
		})

		Convey("When accumulating, arithmetic stays exact", func() {
			sum := tick.Zero
			for i := 0; i < 3; i++ {
				sum = sum.Add(third)
			}
			So(sum.Equal(tick.FromInt(1)), ShouldBeTrue)
		})

		Convey("When multiplying by integers", func() {
			So(sixth.MulInt(6).Equal(tick.FromInt(1)), ShouldBeTrue)
			So(third.MulInt(-3).Equal(tick.FromInt(-1)), ShouldBeTrue)
		})

		Convey("When negating", func() {
			So(third.Neg().Add(third).IsZero(), ShouldBeTrue)
			So(third.Neg().Sign(), ShouldEqual, -1)
			So(third.Neg().Abs().Equal(third), ShouldBeTrue)
		})

		Convey("Then the zero value behaves as zero", func() {
			var z tick.Tick
			So(z.IsZero(), ShouldBeTrue)
			So(z.Add(third).Equal(third), ShouldBeTrue)
			So(z.Equal(tick.Zero), ShouldBeTrue)
		})
	})
}

func TestTickComparison(t *testing.T) {
	Convey("Given comparable ticks", t, func() {
		a := tick.New(1, 2)
		b := tick.New(2, 3)

		Convey("Then ordering is exact", func() {
			So(a.Less(b), ShouldBeTrue)
			So(b.Less(a), ShouldBeFalse)
			So(a.LessEq(a), ShouldBeTrue)
			So(a.Cmp(b), ShouldEqual, -1)
			So(b.Cmp(a), ShouldEqual, 1)
			So(a.Cmp(a), ShouldEqual, 0)
		})

		Convey("Then Min and Max pick the right operand", func() {
			So(tick.Min(a, b).Equal(a), ShouldBeTrue)
			So(tick.Max(a, b).Equal(b), ShouldBeTrue)
		})
	})
}

func TestTickRounding(t *testing.T) {
	Convey("Given a grid unit", t, func() {
		grid := tick.FromInt(10)

		Convey("When flooring", func() {
			So(tick.Floor(tick.FromInt(27), grid).Equal(tick.FromInt(20)), ShouldBeTrue)
			So(tick.Floor(tick.FromInt(30), grid).Equal(tick.FromInt(30)), ShouldBeTrue)
		})

		Convey("When flooring negative values", func() {
			So(tick.Floor(tick.FromInt(-3), grid).Equal(tick.FromInt(-10)), ShouldBeTrue)
			So(tick.Floor(tick.FromInt(-10), grid).Equal(tick.FromInt(-10)), ShouldBeTrue)
		})

		Convey("When rounding to nearest", func() {
			So(tick.Round(tick.FromInt(24), grid).Equal(tick.FromInt(20)), ShouldBeTrue)
			So(tick.Round(tick.FromInt(26), grid).Equal(tick.FromInt(30)), ShouldBeTrue)
			So(tick.Round(tick.New(49, 2), grid).Equal(tick.FromInt(20)), ShouldBeTrue)
		})
	})
}

func TestTickConstruction(t *testing.T) {
	Convey("Given the constructors", t, func() {
		Convey("When building from integers and floats", func() {
			So(tick.FromInt(5).Equal(tick.New(5, 1)), ShouldBeTrue)
			So(tick.FromFloat(0.5).Equal(tick.New(1, 2)), ShouldBeTrue)
		})

		Convey("When the denominator is zero, it panics", func() {
			So(func() { tick.New(1, 0) }, ShouldPanic)
		})

		Convey("Then String renders the rational", func() {
			So(tick.New(3, 2).String(), ShouldNotBeEmpty)
			So(tick.FromInt(4).Float64(), ShouldEqual, 4.0)
		})
	})
}
