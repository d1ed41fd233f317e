package score_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/segno/pkg/events"
	"github.com/okian/segno/pkg/score"
	"github.com/okian/segno/pkg/tick"
)

// note builds a span on track 0, channel 0 with velocity 80.
func note(t int64, pitch uint8, l int64) *events.Note {
	return events.NewNote(tick.FromInt(t), 0, 0, pitch, tick.FromInt(l), 80)
}

// drainTimes pulls a stream dry and reports the produced timestamps.
func drainTimes(s *score.Stream) []int64 {
	var out []int64
	for {
		ev, ok := s.Next()
		if !ok {
			return out
		}
		out = append(out, int64(ev.Time().Float64()))
	}
}

func TestEventList(t *testing.T) {
	Convey("Given an event list", t, func() {
		l := score.NewEventList()

		Convey("When events are appended out of order", func() {
			l.Append(note(300, 64, 100), note(0, 60, 100), note(150, 62, 100))

			Convey("Then the list keeps insertion order", func() {
				So(l.Len(), ShouldEqual, 3)
				So(l.At(0).Time().Equal(tick.FromInt(300)), ShouldBeTrue)
			})

			Convey("Then Sorted orders by time without touching the original", func() {
				s := l.Sorted()
				So(s.At(0).Time().IsZero(), ShouldBeTrue)
				So(s.At(2).Time().Equal(tick.FromInt(300)), ShouldBeTrue)
				So(l.At(0).Time().Equal(tick.FromInt(300)), ShouldBeTrue)
			})

			Convey("Then the stream produces non-decreasing timestamps", func() {
				So(drainTimes(l.Stream()), ShouldResemble, []int64{0, 150, 300})
			})
		})

		Convey("When events share a timestamp", func() {
			a := note(100, 60, 10)
			b := note(100, 62, 10)
			c := note(100, 64, 10)
			l.Append(a, b, c)
			s := l.Stream()
			first, _ := s.Next()
			second, _ := s.Next()
			third, _ := s.Next()

			Convey("Then ties keep insertion order", func() {
				So(first.Equal(a), ShouldBeTrue)
				So(second.Equal(b), ShouldBeTrue)
				So(third.Equal(c), ShouldBeTrue)
			})
		})

		Convey("When a duration is set explicitly", func() {
			l.Append(note(0, 60, 480))
			l.SetDuration(tick.FromInt(1000))
			d, err := l.Duration()

			Convey("Then it is independent of event content", func() {
				So(err, ShouldBeNil)
				So(d.Equal(tick.FromInt(1000)), ShouldBeTrue)
				So(l.MaxEnd().Equal(tick.FromInt(480)), ShouldBeTrue)
			})
		})

		Convey("When built with options", func() {
			l2 := score.NewEventList(
				score.WithEvents(note(0, 60, 100)),
				score.WithDuration(tick.FromInt(200)),
			)
			d, _ := l2.Duration()

			Convey("Then both are applied", func() {
				So(l2.Len(), ShouldEqual, 1)
				So(d.Equal(tick.FromInt(200)), ShouldBeTrue)
			})
		})
	})
}

func TestCollect(t *testing.T) {
	Convey("Given a stream over a list", t, func() {
		l := score.NewEventList(
			score.WithEvents(note(50, 62, 10), note(0, 60, 10)),
			score.WithDuration(tick.FromInt(75)),
		)

		Convey("When collected back into a list", func() {
			out := score.Collect(l.Stream())
			d, err := out.Duration()

			Convey("Then content is sorted and the duration survives", func() {
				So(err, ShouldBeNil)
				So(out.Len(), ShouldEqual, 2)
				So(out.At(0).Time().IsZero(), ShouldBeTrue)
				So(out.At(1).Time().Equal(tick.FromInt(50)), ShouldBeTrue)
				So(d.Equal(tick.FromInt(75)), ShouldBeTrue)
			})
		})

		Convey("Then streaming does not consume the list", func() {
			_ = score.Collect(l.Stream())
			So(l.Len(), ShouldEqual, 2)
			So(score.Collect(l.Stream()).Len(), ShouldEqual, 2)
		})
	})
}
