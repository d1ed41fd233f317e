package score

import (
	"context"

	"github.com/okian/segno/pkg/logger"
	"github.com/okian/segno/pkg/metrics"
	"github.com/okian/segno/pkg/tick"
)

// OpenNote is a span still sounding at the reconstruction point.
type OpenNote struct {
	Key   Key
	Event Event
	Start tick.Tick

	// End is the span's known end time; HasEnd is false for a note-on
	// with no off observed yet.
	End    tick.Tick
	HasEnd bool
}

// ControllerKey addresses a last-write-wins controller fact.
type ControllerKey struct {
	Track      int
	Channel    uint8
	Controller uint8
}

// State is the set of facts active at a point in time: open note spans,
// the most recent value per controller, and the most recent global
// tempo, key signature and time signature.
type State struct {
	At          tick.Tick
	open        []OpenNote
	controllers map[ControllerKey]uint8
	stream      string

	tempo    float64
	hasTempo bool

	sharps    int
	minor     bool
	hasKeySig bool

	tsNum     int
	tsDen     int
	hasTimSig bool
}

// OpenNotes returns the spans sounding at the reconstruction point, in
// the order they were opened.
func (s *State) OpenNotes() []OpenNote { return s.open }

// Controller returns the last value written to a controller, if any.
func (s *State) Controller(k ControllerKey) (uint8, bool) {
	v, ok := s.controllers[k]
	return v, ok
}

// Tempo returns the most recent tempo in BPM, if one was set.
func (s *State) Tempo() (float64, bool) { return s.tempo, s.hasTempo }

// KeySignature returns the most recent key signature, if one was set.
func (s *State) KeySignature() (sharps int, minor, ok bool) {
	return s.sharps, s.minor, s.hasKeySig
}

// TimeSignature returns the most recent time signature, if one was set.
func (s *State) TimeSignature() (num, den int, ok bool) {
	return s.tsNum, s.tsDen, s.hasTimSig
}

// ActiveAt reconstructs the facts active at the given time by replaying
// the score's ordered stream in a single pass up to and including at.
// For a stream input the replay consumes the stream; tee first if it is
// still needed. A note-off with no matching begin is dropped with a
// diagnostic; the replay result stays usable.
func ActiveAt(s Score, at tick.Tick) (*State, error) {
	st := &State{At: at, controllers: make(map[ControllerKey]uint8)}
	in := s.Stream()
	st.stream = in.ID()
	for {
		ev, ok := in.Peek()
		if !ok || at.Less(ev.Time()) {
			break
		}
		in.Next()
		st.apply(ev)
	}
	// Drop spans that already ended by the reconstruction point.
	kept := st.open[:0]
	for _, o := range st.open {
		if o.HasEnd && o.End.LessEq(at) {
			continue
		}
		kept = append(kept, o)
	}
	st.open = kept
	metrics.RecordStateRebuild()
	return st, nil
}

// apply folds one event into the state: an open-span table with
// first-opened/first-closed matching plus last-write-wins fact maps.
func (st *State) apply(ev Event) {
	switch v := ev.(type) {
	case Note:
		st.open = append(st.open, OpenNote{
			Key:    NoteKey(v),
			Event:  ev,
			Start:  v.Time(),
			End:    v.Time().Add(v.Length()),
			HasEnd: true,
		})
	case NoteOn:
		st.open = append(st.open, OpenNote{Key: v.Key(), Event: ev, Start: v.Time()})
	case NoteOff:
		for i, o := range st.open {
			if !o.HasEnd && o.Key == v.Key() {
				st.open = append(st.open[:i], st.open[i+1:]...)
				return
			}
		}
		metrics.RecordRepair(metrics.RepairOrphanNoteOff)
		logger.Named("score").Debug(context.Background(), "dropped note-off with no open note",
			logger.String("stream", st.stream),
			logger.Int("track", v.Key().Track),
			logger.Uint8("pitch", v.Key().Pitch),
			logger.Stringer("t", v.Time()),
		)
	case Control:
		k := ControllerKey{Track: v.Track(), Channel: v.Channel(), Controller: v.Controller()}
		st.controllers[k] = v.Value()
	case Tempo:
		st.tempo = v.BPM()
		st.hasTempo = true
	case KeySig:
		st.sharps = v.Sharps()
		st.minor = v.Minor()
		st.hasKeySig = true
	case TimeSig:
		st.tsNum = v.Numerator()
		st.tsDen = v.Denominator()
		st.hasTimSig = true
	}
}
