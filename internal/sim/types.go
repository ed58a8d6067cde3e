package sim

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/xrgrab/internal/interact"
	"github.com/san-kum/xrgrab/internal/tracking"
	"github.com/san-kum/xrgrab/internal/world"
)

var (
	// ErrNoInput means the timeline has nothing scheduled for an action yet.
	ErrNoInput = errors.New("sim: no input scheduled")

	// ErrInvalidScenario wraps scenario validation failures.
	ErrInvalidScenario = errors.New("sim: invalid scenario")
)

type HandFrame struct {
	Side     tracking.Side
	Tracked  bool
	Position mgl64.Vec3
	Velocity mgl64.Vec3
}

type BodyFrame struct {
	ID       world.BodyID
	Name     string
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	State    interact.State
}

// Frame is the world after one tick.
type Frame struct {
	Step   int
	Time   float64
	Hands  []HandFrame
	Bodies []BodyFrame
	Events []interact.Event
}

// Hand returns the frame's entry for side.
func (f Frame) Hand(side tracking.Side) (HandFrame, bool) {
	for _, h := range f.Hands {
		if h.Side == side {
			return h, true
		}
	}
	return HandFrame{}, false
}

func (f Frame) Body(id world.BodyID) (BodyFrame, bool) {
	for _, b := range f.Bodies {
		if b.ID == id {
			return b, true
		}
	}
	return BodyFrame{}, false
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f Frame)
}

type Config struct {
	Dt       float64
	Duration float64
	Seed     int64
	Jitter   float64
}

type Result struct {
	Scenario   string
	Frames     []Frame
	Events     []interact.Event
	Metrics    map[string]float64
	Disabled   []string
	Skipped    int
	StepsTaken int
}

// Count returns how many events of kind the run produced.
func (r *Result) Count(kind interact.EventKind) int {
	n := 0
	for _, e := range r.Events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}
