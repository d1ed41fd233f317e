package score_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/segno/pkg/events"
	"github.com/okian/segno/pkg/score"
	"github.com/okian/segno/pkg/tick"
)

func chordTimes(c score.Chord) []int64 {
	var out []int64
	for _, ev := range c.Events {
		out = append(out, int64(ev.Time().Float64()))
	}
	return out
}

func TestChordsEventDriven(t *testing.T) {
	Convey("Given a stream with two clusters of notes", t, func() {
		l := score.NewEventList(
			score.WithEvents(
				note(0, 60, 50), note(0, 64, 50), note(0, 67, 50),
				events.NewControl(tick.FromInt(50), 0, 0, 64, 100),
				note(100, 62, 50), note(100, 65, 50),
			),
			score.WithDuration(tick.FromInt(200)),
		)

		Convey("When segmented with default event-driven boundaries", func() {
			it := score.Chords(l.Stream())

			c1, ok1 := it.Next()
			c2, ok2 := it.Next()
			_, ok3 := it.Next()

			Convey("Then simultaneous notes share a bucket", func() {
				So(ok1, ShouldBeTrue)
				So(chordTimes(c1), ShouldResemble, []int64{0, 0, 0, 50})
				So(c1.Start.IsZero(), ShouldBeTrue)
				So(c1.End.Equal(tick.FromInt(100)), ShouldBeTrue)
			})

			Convey("Then non-note events never close a bucket", func() {
				So(len(c1.Events), ShouldEqual, 4)
			})

			Convey("Then the final bucket extends to the stream end", func() {
				So(ok2, ShouldBeTrue)
				So(chordTimes(c2), ShouldResemble, []int64{100, 100})
				So(c2.End.Equal(tick.FromInt(200)), ShouldBeTrue)
				So(ok3, ShouldBeFalse)
			})
		})

		Convey("When segmented with a tolerance", func() {
			spread := score.NewEventList(
				score.WithEvents(note(0, 60, 10), note(20, 64, 10), note(25, 67, 10), note(40, 48, 10)),
				score.WithDuration(tick.FromInt(60)),
			)
			it := score.Chords(spread.Stream(), score.WithTolerance(tick.FromInt(30)))
			c1, _ := it.Next()
			c2, ok := it.Next()

			Convey("Then near-simultaneous notes group and later ones split", func() {
				So(chordTimes(c1), ShouldResemble, []int64{0, 20, 25})
				So(ok, ShouldBeTrue)
				So(chordTimes(c2), ShouldResemble, []int64{40})
			})
		})
	})
}

func TestChordsExternalBoundaries(t *testing.T) {
	Convey("Given a stream spanning three periods", t, func() {
		l := score.NewEventList(
			score.WithEvents(
				note(10, 60, 20), note(110, 62, 20), note(150, 64, 20), note(210, 65, 20),
			),
			score.WithDuration(tick.FromInt(300)),
		)

		Convey("When segmented on a fixed period", func() {
			it := score.Chords(l.Stream(), score.WithPeriod(tick.FromInt(100)))
			c1, _ := it.Next()
			c2, _ := it.Next()
			c3, _ := it.Next()

			Convey("Then buckets align to the grid regardless of content", func() {
				So(c1.Start.IsZero(), ShouldBeTrue)
				So(c1.End.Equal(tick.FromInt(100)), ShouldBeTrue)
				So(chordTimes(c1), ShouldResemble, []int64{10})
				So(chordTimes(c2), ShouldResemble, []int64{110, 150})
				So(chordTimes(c3), ShouldResemble, []int64{210})
			})
		})

		Convey("When segmented on explicit boundaries", func() {
			it := score.Chords(l.Stream(), score.WithBoundaries(tick.FromInt(100), tick.FromInt(200)))
			c1, _ := it.Next()
			c2, _ := it.Next()
			c3, ok := it.Next()

			Convey("Then an implicit opening bucket precedes the first boundary", func() {
				So(c1.Start.IsZero(), ShouldBeTrue)
				So(c1.End.Equal(tick.FromInt(100)), ShouldBeTrue)
				So(chordTimes(c1), ShouldResemble, []int64{10})
			})

			Convey("Then the last bucket runs to the stream end", func() {
				So(chordTimes(c2), ShouldResemble, []int64{110, 150})
				So(ok, ShouldBeTrue)
				So(chordTimes(c3), ShouldResemble, []int64{210})
				So(c3.End.Equal(tick.FromInt(300)), ShouldBeTrue)
			})
		})
	})
}

func TestChordsSustained(t *testing.T) {
	Convey("Given a long span crossing a bucket boundary", t, func() {
		l := score.NewEventList(
			score.WithEvents(note(0, 60, 150), note(100, 62, 20)),
			score.WithDuration(tick.FromInt(200)),
		)

		Convey("When sustain tracking is on", func() {
			it := score.Chords(l.Stream(), score.WithSustained())
			c1, _ := it.Next()
			c2, _ := it.Next()

			Convey("Then the span is an event of its own bucket", func() {
				So(chordTimes(c1), ShouldResemble, []int64{0})
				So(len(c1.Sustained), ShouldEqual, 0)
			})

			Convey("Then the next bucket reports it as sustained", func() {
				So(chordTimes(c2), ShouldResemble, []int64{100})
				So(len(c2.Sustained), ShouldEqual, 1)
				So(c2.Sustained[0].(score.Note).Pitch(), ShouldEqual, 60)
			})
		})

		Convey("When the span has ended before the bucket opens", func() {
			short := score.NewEventList(
				score.WithEvents(note(0, 60, 50), note(100, 62, 20)),
				score.WithDuration(tick.FromInt(200)),
			)
			it := score.Chords(short.Stream(), score.WithSustained())
			_, _ = it.Next()
			c2, _ := it.Next()

			Convey("Then it is not reported", func() {
				So(len(c2.Sustained), ShouldEqual, 0)
			})
		})
	})
}
