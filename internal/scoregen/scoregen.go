// Package scoregen builds demonstration scores for the player command.
package scoregen

import (
	"github.com/okian/segno/pkg/events"
	"github.com/okian/segno/pkg/score"
	"github.com/okian/segno/pkg/tick"
)

// Ticks per quarter note at the engine's default clock rate.
const ppq = 480

// Pitch constants for the demo progression, C major around middle C.
const (
	pitchC3 = 48
	pitchC4 = 60
	pitchE4 = 64
	pitchG4 = 67
	pitchA4 = 69
	pitchF4 = 65
	pitchB3 = 59
	pitchD4 = 62
)

const (
	chordVelocity = 84
	bassVelocity  = 96
)

// Demo returns a short two-track score: a I-vi-IV-V chord progression
// on track 0 against a root-note bass line on track 1, repeated the
// given number of times.
func Demo(repeats int) (score.Score, error) {
	chords := [][]uint8{
		{pitchC4, pitchE4, pitchG4},
		{pitchA4 - 12, pitchC4, pitchE4},
		{pitchF4 - 12, pitchA4 - 12, pitchC4},
		{pitchG4 - 12, pitchB3, pitchD4},
	}
	roots := []uint8{pitchC3, pitchA4 - 24, pitchF4 - 24, pitchG4 - 24}

	bar := tick.FromInt(4 * ppq)
	quarter := tick.FromInt(ppq)

	lead := score.NewEventList()
	bass := score.NewEventList()
	lead.Append(events.NewTempo(tick.Zero, 0, 120))
	lead.Append(events.NewTimeSig(tick.Zero, 0, 4, 4))

	for i, chord := range chords {
		start := bar.MulInt(int64(i))
		for _, p := range chord {
			lead.Append(events.NewNote(start, 0, 0, p, bar, chordVelocity))
		}
		for beat := int64(0); beat < 4; beat++ {
			at := start.Add(quarter.MulInt(beat))
			bass.Append(events.NewNote(at, 1, 0, roots[i], quarter, bassVelocity))
		}
	}
	lead.SetDuration(bar.MulInt(int64(len(chords))))
	bass.SetDuration(bar.MulInt(int64(len(chords))))

	both, err := score.Merge(lead, bass)
	if err != nil {
		return nil, err
	}
	if repeats <= 1 {
		return both, nil
	}
	return score.Repeat(both, repeats)
}
