package metrics

import (
	"github.com/san-kum/xrgrab/internal/interact"
	"github.com/san-kum/xrgrab/internal/sim"
)

// TargetedTicks counts ticks in which some body carried the target tag.
type TargetedTicks struct {
	name  string
	ticks int
}

func NewTargetedTicks() *TargetedTicks {
	return &TargetedTicks{name: "targeted_ticks"}
}

func (m *TargetedTicks) Name() string { return m.name }

func (m *TargetedTicks) Observe(f sim.Frame) {
	for _, b := range f.Bodies {
		if b.State == interact.Targeted {
			m.ticks++
			return
		}
	}
}

func (m *TargetedTicks) Value() float64 { return float64(m.ticks) }
func (m *TargetedTicks) Reset()         { m.ticks = 0 }

// MaxHeldTicks is the longest unbroken hold.
type MaxHeldTicks struct {
	name    string
	current int
	max     int
}

func NewMaxHeldTicks() *MaxHeldTicks {
	return &MaxHeldTicks{name: "max_held_ticks"}
}

func (m *MaxHeldTicks) Name() string { return m.name }

func (m *MaxHeldTicks) Observe(f sim.Frame) {
	held := false
	for _, b := range f.Bodies {
		if b.State == interact.Held {
			held = true
			break
		}
	}
	if !held {
		m.current = 0
		return
	}
	m.current++
	m.max = max(m.max, m.current)
}

func (m *MaxHeldTicks) Value() float64 { return float64(m.max) }

func (m *MaxHeldTicks) Reset() {
	m.current = 0
	m.max = 0
}

// TrackedRatio is the fraction of hand samples that were tracked.
type TrackedRatio struct {
	name    string
	tracked int
	samples int
}

func NewTrackedRatio() *TrackedRatio {
	return &TrackedRatio{name: "tracked_ratio"}
}

func (m *TrackedRatio) Name() string { return m.name }

func (m *TrackedRatio) Observe(f sim.Frame) {
	for _, h := range f.Hands {
		m.samples++
		if h.Tracked {
			m.tracked++
		}
	}
}

func (m *TrackedRatio) Value() float64 {
	if m.samples == 0 {
		return 1.0
	}
	return float64(m.tracked) / float64(m.samples)
}

func (m *TrackedRatio) Reset() {
	m.tracked = 0
	m.samples = 0
}
