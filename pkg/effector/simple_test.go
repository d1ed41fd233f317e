package effector_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/segno/pkg/effector"
	"github.com/okian/segno/pkg/events"
	"github.com/okian/segno/pkg/score"
	"github.com/okian/segno/pkg/tick"
)

func TestTranspose(t *testing.T) {
	Convey("Given notes in span and raw form", t, func() {
		Convey("When transposed up an octave", func() {
			out := run(effector.Transpose(12), listOf(200,
				note(0, 60, 50), on(100, 62), off(150, 62), ctrl(50, 64, 100)))

			Convey("Then every note form moves and controls stay", func() {
				So(out.At(0).(score.Note).Pitch(), ShouldEqual, 72)
				So(out.At(1).(score.NoteOn).Key().Pitch, ShouldEqual, 74)
				So(out.At(2).(score.NoteOff).Key().Pitch, ShouldEqual, 74)
				So(out.At(3).Equal(ctrl(50, 64, 100)), ShouldBeTrue)
			})
		})

		Convey("When the shift runs off the pitch range", func() {
			out := run(effector.Transpose(24), listOf(100, note(0, 120, 50)))
			So(out.At(0).(score.Note).Pitch(), ShouldEqual, 127)

			out = run(effector.Transpose(-24), listOf(100, note(0, 10, 50)))
			So(out.At(0).(score.Note).Pitch(), ShouldEqual, 0)
		})

		Convey("When a raw on carries a performance offset", func() {
			pushed := events.NewNoteOn(tick.FromInt(0), 0, 0, 60, 80).
				WithOffset(tick.FromInt(3))
			out := run(effector.Transpose(5), listOf(100, pushed))

			Convey("Then the offset survives the rebuild", func() {
				o := out.At(0).(score.Offsetter)
				So(o.Offset().Equal(tick.FromInt(3)), ShouldBeTrue)
				So(out.At(0).(score.NoteOn).Key().Pitch, ShouldEqual, 65)
			})
		})
	})
}

func TestScaleVelocity(t *testing.T) {
	Convey("Given notes at assorted velocities", t, func() {
		Convey("When scaled down", func() {
			out := run(effector.ScaleVelocity(0.5), listOf(200,
				note(0, 60, 50), on(100, 62)))

			Convey("Then spans and raw ons both scale", func() {
				So(out.At(0).(score.Note).Velocity(), ShouldEqual, 40)
				So(out.At(1).(score.NoteOn).Velocity(), ShouldEqual, 40)
			})
		})

		Convey("When scaling would silence or overdrive", func() {
			quiet := events.NewNote(tick.Zero, 0, 0, 60, tick.FromInt(10), 3)
			loud := events.NewNote(tick.Zero, 0, 0, 62, tick.FromInt(10), 120)
			out := run(effector.ScaleVelocity(0.1), listOf(10, quiet))
			So(out.At(0).(score.Note).Velocity(), ShouldEqual, 1)

			out = run(effector.ScaleVelocity(2.0), listOf(10, loud))
			So(out.At(0).(score.Note).Velocity(), ShouldEqual, 127)
		})

		Convey("When a note is already silent", func() {
			rest := events.NewNote(tick.Zero, 0, 0, 60, tick.FromInt(10), 0)
			out := run(effector.ScaleVelocity(3.0), listOf(10, rest))

			Convey("Then it stays silent", func() {
				So(out.At(0).(score.Note).Velocity(), ShouldEqual, 0)
			})
		})
	})
}
