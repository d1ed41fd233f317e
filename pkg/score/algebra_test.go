package score_test

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/segno/pkg/score"
	"github.com/okian/segno/pkg/tick"
)

func single(pitch uint8) *score.EventList {
	return score.NewEventList(
		score.WithEvents(note(0, pitch, 480)),
		score.WithDuration(tick.FromInt(480)),
	)
}

func TestConcat(t *testing.T) {
	Convey("Given two one-note lists of duration 480", t, func() {
		a := single(60)
		b := single(62)

		Convey("When concatenated", func() {
			out, err := score.Concat(a, b)
			So(err, ShouldBeNil)

			Convey("Then the second note plays at 480 and durations sum", func() {
				So(drainTimes(out.Stream()), ShouldResemble, []int64{0, 480})
				d, derr := out.Duration()
				So(derr, ShouldBeNil)
				So(d.Equal(tick.FromInt(960)), ShouldBeTrue)
			})

			Convey("Then the operands are untouched", func() {
				So(a.At(0).Time().IsZero(), ShouldBeTrue)
				So(b.At(0).Time().IsZero(), ShouldBeTrue)
			})
		})

		Convey("When the left operand is a stream", func() {
			_, err := score.Concat(a.Stream(), b)

			Convey("Then it is rejected", func() {
				So(errors.Is(err, score.ErrStreamOperand), ShouldBeTrue)
			})
		})

		Convey("When the right operand is a stream", func() {
			out, err := score.Concat(a, b.Stream())
			So(err, ShouldBeNil)

			Convey("Then the result is a lazy stream with the summed duration", func() {
				So(score.KindOf(out), ShouldEqual, score.KindStream)
				s := out.Stream()
				So(drainTimes(s), ShouldResemble, []int64{0, 480})
				d, derr := s.Duration()
				So(derr, ShouldBeNil)
				So(d.Equal(tick.FromInt(960)), ShouldBeTrue)
			})
		})

		Convey("When concatenating in place", func() {
			out, err := score.ConcatInto(a, b)
			So(err, ShouldBeNil)

			Convey("Then the left list itself grows", func() {
				So(out, ShouldEqual, a)
				So(a.Len(), ShouldEqual, 2)
				d, _ := a.Duration()
				So(d.Equal(tick.FromInt(960)), ShouldBeTrue)
			})
		})
	})
}

func TestMerge(t *testing.T) {
	Convey("Given two one-note lists of duration 480", t, func() {
		a := single(60)
		b := single(62)

		Convey("When merged", func() {
			out, err := score.Merge(a, b)
			So(err, ShouldBeNil)

			Convey("Then both notes play at 0 and the duration stays 480", func() {
				So(drainTimes(out.Stream()), ShouldResemble, []int64{0, 0})
				d, derr := out.Duration()
				So(derr, ShouldBeNil)
				So(d.Equal(tick.FromInt(480)), ShouldBeTrue)
			})

			Convey("Then the result shares the operands as track children", func() {
				tr, ok := out.(*score.Tracks)
				So(ok, ShouldBeTrue)
				So(tr.Children()[0], ShouldEqual, a)
				So(tr.Children()[1], ShouldEqual, b)
			})
		})

		Convey("When merged with a stream operand", func() {
			out, err := score.Merge(a, b.Stream())
			So(err, ShouldBeNil)

			Convey("Then the result is a merged stream", func() {
				So(score.KindOf(out), ShouldEqual, score.KindStream)
				So(drainTimes(out.Stream()), ShouldResemble, []int64{0, 0})
			})
		})

		Convey("When merging in place", func() {
			longer := score.NewEventList(
				score.WithEvents(note(100, 64, 500)),
				score.WithDuration(tick.FromInt(600)),
			)
			out, err := score.MergeInto(a, longer)
			So(err, ShouldBeNil)

			Convey("Then the left list absorbs the events and the max duration", func() {
				So(out, ShouldEqual, a)
				So(a.Len(), ShouldEqual, 2)
				d, _ := a.Duration()
				So(d.Equal(tick.FromInt(600)), ShouldBeTrue)
			})
		})
	})
}

func TestMergedShift(t *testing.T) {
	Convey("Given two streams merged with a shift on the second", t, func() {
		a := score.NewEventList(
			score.WithEvents(note(0, 60, 10), note(100, 61, 10)),
			score.WithDuration(tick.FromInt(200)),
		)
		b := score.NewEventList(
			score.WithEvents(note(0, 70, 10), note(60, 71, 10)),
			score.WithDuration(tick.FromInt(100)),
		)
		out := score.Merged(a.Stream(), b.Stream(), tick.FromInt(50))

		Convey("Then events interleave in shifted time order", func() {
			So(drainTimes(out), ShouldResemble, []int64{0, 50, 100, 110})
		})

		Convey("Then the duration is the max of the adjusted operands", func() {
			s := out.Stream()
			drainTimes(s)
			d, err := s.Duration()
			So(err, ShouldBeNil)
			So(d.Equal(tick.FromInt(200)), ShouldBeTrue)
		})
	})

	Convey("Given a timestamp tie between the two sides", t, func() {
		a := score.NewEventList(
			score.WithEvents(note(10, 60, 5)),
			score.WithDuration(tick.FromInt(20)),
		)
		b := score.NewEventList(
			score.WithEvents(note(10, 70, 5)),
			score.WithDuration(tick.FromInt(20)),
		)
		out := score.Merged(a.Stream(), b.Stream(), tick.Zero)
		first, _ := out.Next()

		Convey("Then the first operand wins the tie", func() {
			So(first.(score.Note).Pitch(), ShouldEqual, 60)
		})
	})
}

func TestRepeat(t *testing.T) {
	Convey("Given a one-note list of duration 480", t, func() {
		a := single(60)

		Convey("When repeated three times", func() {
			out, err := score.Repeat(a, 3)
			So(err, ShouldBeNil)

			Convey("Then copies land at multiples of the duration", func() {
				So(drainTimes(out.Stream()), ShouldResemble, []int64{0, 480, 960})
				d, _ := out.Duration()
				So(d.Equal(tick.FromInt(1440)), ShouldBeTrue)
			})
		})

		Convey("When repeated zero times", func() {
			out, err := score.Repeat(a, 0)
			So(err, ShouldBeNil)
			So(score.Collect(out.Stream()).Len(), ShouldEqual, 0)
		})

		Convey("When repeating a stream", func() {
			_, err := score.Repeat(a.Stream(), 2)
			So(errors.Is(err, score.ErrStreamOperand), ShouldBeTrue)
		})
	})
}
