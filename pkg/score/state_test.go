package score_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/segno/pkg/events"
	"github.com/okian/segno/pkg/score"
	"github.com/okian/segno/pkg/tick"
)

func TestActiveAtControllers(t *testing.T) {
	Convey("Given a controller changing value over time", t, func() {
		l := score.NewEventList(
			score.WithEvents(
				events.NewControl(tick.Zero, 0, 0, 7, 10),
				events.NewControl(tick.FromInt(200), 0, 0, 7, 20),
			),
			score.WithDuration(tick.FromInt(400)),
		)

		Convey("When reconstructing at a time after the last change", func() {
			st, err := score.ActiveAt(l, tick.FromInt(250))
			So(err, ShouldBeNil)

			Convey("Then the latest value wins", func() {
				v, ok := st.Controller(score.ControllerKey{Track: 0, Channel: 0, Controller: 7})
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 20)
			})
		})

		Convey("When reconstructing between the two changes", func() {
			st, _ := score.ActiveAt(l, tick.FromInt(100))
			v, ok := st.Controller(score.ControllerKey{Track: 0, Channel: 0, Controller: 7})
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 10)
		})

		Convey("When reconstructing before any change", func() {
			neg := score.NewEventList(
				score.WithEvents(events.NewControl(tick.FromInt(50), 0, 0, 7, 10)),
				score.WithDuration(tick.FromInt(100)),
			)
			st, _ := score.ActiveAt(neg, tick.FromInt(10))
			_, ok := st.Controller(score.ControllerKey{Track: 0, Channel: 0, Controller: 7})
			So(ok, ShouldBeFalse)
		})
	})
}

func TestActiveAtNotes(t *testing.T) {
	Convey("Given spans and on/off pairs", t, func() {
		l := score.NewEventList(
			score.WithEvents(
				note(0, 60, 100),
				note(0, 64, 300),
				events.NewNoteOn(tick.FromInt(50), 0, 0, 72, 90),
				events.NewNoteOff(tick.FromInt(150), 0, 0, 72),
			),
			score.WithDuration(tick.FromInt(400)),
		)

		Convey("When reconstructing while everything sounds", func() {
			st, err := score.ActiveAt(l, tick.FromInt(60))
			So(err, ShouldBeNil)

			Convey("Then all three notes are open", func() {
				So(len(st.OpenNotes()), ShouldEqual, 3)
			})
		})

		Convey("When reconstructing after the short span and the off", func() {
			st, _ := score.ActiveAt(l, tick.FromInt(200))

			Convey("Then only the long span remains open", func() {
				open := st.OpenNotes()
				So(len(open), ShouldEqual, 1)
				So(open[0].Key.Pitch, ShouldEqual, 64)
				So(open[0].HasEnd, ShouldBeTrue)
				So(open[0].End.Equal(tick.FromInt(300)), ShouldBeTrue)
			})
		})

		Convey("When an orphan note-off appears", func() {
			orphan := score.NewEventList(
				score.WithEvents(events.NewNoteOff(tick.FromInt(10), 0, 0, 99)),
				score.WithDuration(tick.FromInt(20)),
			)
			st, err := score.ActiveAt(orphan, tick.FromInt(15))

			Convey("Then it is dropped and the state stays usable", func() {
				So(err, ShouldBeNil)
				So(len(st.OpenNotes()), ShouldEqual, 0)
			})
		})
	})
}

func TestActiveAtGlobalFacts(t *testing.T) {
	Convey("Given tempo, key and meter changes", t, func() {
		l := score.NewEventList(
			score.WithEvents(
				events.NewTempo(tick.Zero, 0, 120),
				events.NewTimeSig(tick.Zero, 0, 4, 4),
				events.NewKeySig(tick.Zero, 0, 0, false),
				events.NewTempo(tick.FromInt(100), 0, 90),
				events.NewKeySig(tick.FromInt(100), 0, 2, true),
			),
			score.WithDuration(tick.FromInt(200)),
		)

		Convey("When reconstructing after the changes", func() {
			st, _ := score.ActiveAt(l, tick.FromInt(150))

			Convey("Then the last written facts win", func() {
				bpm, ok := st.Tempo()
				So(ok, ShouldBeTrue)
				So(bpm, ShouldEqual, 90.0)

				sharps, minor, ok := st.KeySignature()
				So(ok, ShouldBeTrue)
				So(sharps, ShouldEqual, 2)
				So(minor, ShouldBeTrue)

				num, den, ok := st.TimeSignature()
				So(ok, ShouldBeTrue)
				So(num, ShouldEqual, 4)
				So(den, ShouldEqual, 4)
			})
		})

		Convey("When reconstructing at time zero", func() {
			st, _ := score.ActiveAt(l, tick.Zero)
			bpm, ok := st.Tempo()

			Convey("Then events at the reconstruction point are included", func() {
				So(ok, ShouldBeTrue)
				So(bpm, ShouldEqual, 120.0)
			})
		})
	})
}
