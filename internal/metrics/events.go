package metrics

import (
	"github.com/san-kum/xrgrab/internal/interact"
	"github.com/san-kum/xrgrab/internal/sim"
)

// EventCount counts transitions of one kind.
type EventCount struct {
	name  string
	kind  interact.EventKind
	count int
}

func NewEventCount(name string, kind interact.EventKind) *EventCount {
	return &EventCount{name: name, kind: kind}
}

func (c *EventCount) Name() string { return c.name }

func (c *EventCount) Observe(f sim.Frame) {
	for _, e := range f.Events {
		if e.Kind == c.kind {
			c.count++
		}
	}
}

func (c *EventCount) Value() float64 { return float64(c.count) }
func (c *EventCount) Reset()         { c.count = 0 }

// PeakLaunchSpeed is the fastest launch velocity handed to a pulled object.
type PeakLaunchSpeed struct {
	name string
	peak float64
}

func NewPeakLaunchSpeed() *PeakLaunchSpeed {
	return &PeakLaunchSpeed{name: "peak_launch_speed"}
}

func (p *PeakLaunchSpeed) Name() string { return p.name }

func (p *PeakLaunchSpeed) Observe(f sim.Frame) {
	for _, e := range f.Events {
		if e.Kind != interact.EventLaunched {
			continue
		}
		if s := e.Velocity.Len(); s > p.peak {
			p.peak = s
		}
	}
}

func (p *PeakLaunchSpeed) Value() float64 { return p.peak }
func (p *PeakLaunchSpeed) Reset()         { p.peak = 0 }
