package events

import (
	"github.com/okian/segno/pkg/score"
	"github.com/okian/segno/pkg/tick"
)

// Control is a controller-change event.
type Control struct {
	t          tick.Tick
	track      int
	offset     tick.Tick
	channel    uint8
	controller uint8
	value      uint8
}

// NewControl creates a controller-change event.
func NewControl(t tick.Tick, track int, channel, controller, value uint8) *Control {
	return &Control{t: t, track: track, channel: channel, controller: controller, value: value}
}

func (c *Control) Time() tick.Tick   { return c.t }
func (c *Control) Track() int        { return c.track }
func (c *Control) Offset() tick.Tick { return c.offset }
func (c *Control) Channel() uint8    { return c.channel }
func (c *Control) Controller() uint8 { return c.controller }
func (c *Control) Value() uint8      { return c.value }

func (c *Control) WithTime(t tick.Tick) score.Event {
	cp := *c
	cp.t = t
	return &cp
}

func (c *Control) WithOffset(d tick.Tick) score.Event {
	cp := *c
	cp.offset = d
	return &cp
}

// WithValue returns a copy carrying a new controller value.
func (c *Control) WithValue(v uint8) *Control {
	cp := *c
	cp.value = v
	return &cp
}

func (c *Control) Equal(other score.Event) bool {
	o, ok := other.(*Control)
	if !ok {
		return false
	}
	return c.t.Equal(o.t) && c.track == o.track && c.offset.Equal(o.offset) &&
		c.channel == o.channel && c.controller == o.controller && c.value == o.value
}
