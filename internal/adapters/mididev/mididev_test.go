package mididev_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/segno/internal/adapters/mididev"
	"github.com/okian/segno/pkg/events"
	"github.com/okian/segno/pkg/score"
	"github.com/okian/segno/pkg/tick"
)

func note(t int64, pitch uint8, l int64) *events.Note {
	return events.NewNote(tick.FromInt(t), 0, 0, pitch, tick.FromInt(l), 80)
}

func recvOne(d *mididev.Device) (score.Event, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return d.Recv(ctx)
}

func TestPortlessDevice(t *testing.T) {
	Convey("Given a device with no ports", t, func() {
		Convey("When an event is queued for a past deadline", func() {
			var emitted []score.Event
			dev, err := mididev.New(mididev.WithEmit(func(ev score.Event) {
				emitted = append(emitted, ev)
			}))
			So(err, ShouldBeNil)
			defer func() { _ = dev.Close() }()

			ev := note(0, 60, 100)
			So(dev.QueueEvent(ev, time.Now().Add(-time.Millisecond)), ShouldBeNil)

			Convey("Then it comes back through Recv at once", func() {
				got, err := recvOne(dev)
				So(err, ShouldBeNil)
				So(got.Equal(ev), ShouldBeTrue)
			})

			Convey("Then the emit tap saw it", func() {
				_, err := recvOne(dev)
				So(err, ShouldBeNil)
				So(len(emitted), ShouldEqual, 1)
				So(emitted[0].Equal(ev), ShouldBeTrue)
			})
		})

		Convey("When events are queued at staggered deadlines", func() {
			dev, err := mididev.New()
			So(err, ShouldBeNil)
			defer func() { _ = dev.Close() }()

			base := time.Now()
			So(dev.QueueEvent(note(10, 62, 10), base.Add(20*time.Millisecond)), ShouldBeNil)
			So(dev.QueueEvent(note(0, 60, 10), base), ShouldBeNil)

			Convey("Then delivery follows the deadlines", func() {
				first, err := recvOne(dev)
				So(err, ShouldBeNil)
				So(first.Time().IsZero(), ShouldBeTrue)

				second, err := recvOne(dev)
				So(err, ShouldBeNil)
				So(second.Time().Equal(tick.FromInt(10)), ShouldBeTrue)
			})
		})

		Convey("When the device is closed", func() {
			dev, err := mididev.New()
			So(err, ShouldBeNil)
			So(dev.Close(), ShouldBeNil)

			Convey("Then closing again is a no-op", func() {
				So(dev.Close(), ShouldBeNil)
			})

			Convey("Then queueing is refused", func() {
				err := dev.QueueEvent(note(0, 60, 10), time.Now())
				So(errors.Is(err, score.ErrDeviceClosed), ShouldBeTrue)
			})

			Convey("Then Recv reports the closed binding", func() {
				_, err := dev.Recv(context.Background())
				So(errors.Is(err, score.ErrDeviceClosed), ShouldBeTrue)
			})
		})

		Convey("When Recv's context is canceled", func() {
			dev, err := mididev.New()
			So(err, ShouldBeNil)
			defer func() { _ = dev.Close() }()

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err = dev.Recv(ctx)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})

		Convey("When a stream clock is bound", func() {
			dev, err := mididev.New()
			So(err, ShouldBeNil)
			defer func() { _ = dev.Close() }()

			rt := score.NewRealTime(context.Background(), dev)
			defer func() { _ = rt.Close() }()

			Convey("Then the real-time stream satisfies the clock contract", func() {
				So(func() { dev.SetClock(rt) }, ShouldNotPanic)
			})
		})

		Convey("When a named port does not exist", func() {
			_, err := mididev.New(mididev.WithOutPort("no such port, honestly"))
			So(err, ShouldNotBeNil)
		})
	})
}
