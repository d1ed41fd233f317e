package score

import (
	"github.com/okian/segno/pkg/tick"
)

// Tracks is a tree of parallel sub-scores: children play simultaneously
// from the same origin. Leaves are event lists, internal nodes are Tracks.
// The tree is acyclic and never contains a stream.
type Tracks struct {
	children []Score
}

// NewTracks creates a parallel group from the given children.
// It fails with ErrStreamChild or ErrCycle exactly as Add does.
func NewTracks(children ...Score) (*Tracks, error) {
	t := &Tracks{}
	for _, c := range children {
		if err := t.Add(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Tracks) sealed() {}

// Add appends a child. Streams are rejected with ErrStreamChild; adding a
// node that already contains (or is) the receiver is rejected with
// ErrCycle. External mutation after construction can still create a
// cycle; that is a precondition violation, not a recoverable state.
func (t *Tracks) Add(child Score) error {
	switch c := child.(type) {
	case *EventList:
		t.children = append(t.children, c)
		return nil
	case *Tracks:
		if c.contains(t) {
			return ErrCycle
		}
		t.children = append(t.children, c)
		return nil
	default:
		return ErrStreamChild
	}
}

// contains reports whether the subtree rooted at t includes target.
func (t *Tracks) contains(target *Tracks) bool {
	if t == target {
		return true
	}
	for _, c := range t.children {
		if sub, ok := c.(*Tracks); ok && sub.contains(target) {
			return true
		}
	}
	return false
}

// Children returns the child scores in declaration order.
func (t *Tracks) Children() []Score { return t.children }

// Len returns the number of direct children.
func (t *Tracks) Len() int { return len(t.children) }

// Duration is the maximum of the children's durations.
func (t *Tracks) Duration() (tick.Tick, error) {
	var max tick.Tick
	for _, c := range t.children {
		d, err := c.Duration()
		if err != nil {
			return tick.Zero, err
		}
		max = tick.Max(max, d)
	}
	return max, nil
}

// Clone returns a deep copy of the tree structure. Leaf event lists are
// cloned shallowly: fresh slices over the same events.
func (t *Tracks) Clone() *Tracks {
	c := &Tracks{}
	for _, child := range t.children {
		switch cc := child.(type) {
		case *EventList:
			c.children = append(c.children, cc.Clone())
		case *Tracks:
			c.children = append(c.children, cc.Clone())
		}
	}
	return c
}

// Stream flattens the tree into a single time-ordered stream: children
// are visited depth-first in declaration order, then the collected events
// are stably sorted, so ties keep declaration order.
func (t *Tracks) Stream() *Stream {
	flat := &EventList{}
	t.flatten(flat)
	d, _ := t.Duration()
	flat.duration = d
	return flat.Stream()
}

func (t *Tracks) flatten(into *EventList) {
	for _, c := range t.children {
		switch cc := c.(type) {
		case *EventList:
			into.events = append(into.events, cc.events...)
		case *Tracks:
			cc.flatten(into)
		}
	}
}
