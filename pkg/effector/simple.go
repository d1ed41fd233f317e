package effector

import (
	"math"

	"github.com/okian/segno/pkg/events"
	"github.com/okian/segno/pkg/score"
)

// Transpose shifts every note up or down by the given number of
// semitones, clamping at the ends of the pitch range. Note spans and
// raw on/off pairs both move; everything else passes through.
func Transpose(semitones int) Effector {
	return func(s score.Score) (score.Score, error) {
		f := func(ev score.Event) []score.Event {
			switch v := ev.(type) {
			case score.Note:
				return []score.Event{v.WithPitch(clampPitch(int(v.Pitch()) + semitones))}
			case score.NoteOn:
				k := v.Key()
				out := events.NewNoteOn(v.Time(), k.Track, k.Channel,
					clampPitch(int(k.Pitch)+semitones), v.Velocity())
				return []score.Event{keepOffset(v, out)}
			case score.NoteOff:
				k := v.Key()
				out := events.NewNoteOff(v.Time(), k.Track, k.Channel,
					clampPitch(int(k.Pitch)+semitones))
				return []score.Event{keepOffset(v, out)}
			default:
				return []score.Event{ev}
			}
		}
		return score.MapEvents(s, f)
	}
}

// ScaleVelocity multiplies note velocities by factor, rounding to the
// nearest step and clamping to the valid range. Notes that were audible
// stay audible: a nonzero velocity never scales below one.
func ScaleVelocity(factor float64) Effector {
	return func(s score.Score) (score.Score, error) {
		f := func(ev score.Event) []score.Event {
			switch v := ev.(type) {
			case score.Note:
				return []score.Event{v.WithVelocity(scaleVel(v.Velocity(), factor))}
			case score.NoteOn:
				k := v.Key()
				out := events.NewNoteOn(v.Time(), k.Track, k.Channel,
					k.Pitch, scaleVel(v.Velocity(), factor))
				return []score.Event{keepOffset(v, out)}
			default:
				return []score.Event{ev}
			}
		}
		return score.MapEvents(s, f)
	}
}

// keepOffset carries a performance offset from orig onto a rebuilt event.
func keepOffset(orig, out score.Event) score.Event {
	src, ok := orig.(score.Offsetter)
	if !ok || src.Offset().IsZero() {
		return out
	}
	dst, ok := out.(score.Offsetter)
	if !ok {
		return out
	}
	return dst.WithOffset(src.Offset())
}

func clampPitch(p int) uint8 {
	if p < 0 {
		return 0
	}
	if p > 127 {
		return 127
	}
	return uint8(p)
}

func scaleVel(v uint8, factor float64) uint8 {
	if v == 0 {
		return 0
	}
	out := int(math.Round(float64(v) * factor))
	if out < 1 {
		out = 1
	}
	if out > 127 {
		out = 127
	}
	return uint8(out)
}
