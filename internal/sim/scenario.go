package sim

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/xrgrab/internal/input"
	"github.com/san-kum/xrgrab/internal/tracking"
	"github.com/san-kum/xrgrab/internal/world"
)

// BodySpec describes one body placed at the start of a scenario.
type BodySpec struct {
	Name         string
	Position     mgl64.Vec3
	HalfExtents  mgl64.Vec3
	Velocity     mgl64.Vec3
	Static       bool
	NotGrabbable bool
}

func (b BodySpec) build() *world.Body {
	var body *world.Body
	if b.Static {
		body = world.NewStatic(b.Name, b.Position, b.HalfExtents)
	} else {
		body = world.NewBox(b.Name, b.Position, b.HalfExtents)
		body.Velocity = b.Velocity
	}
	if b.NotGrabbable {
		body.Grabbable = false
	}
	return body
}

// InputEvent sets an action's value from Time until the next event for the
// same action.
type InputEvent struct {
	Time   float64
	Action string
	Value  input.Value
}

// Scenario is a scripted interaction: bodies, hand motion and an input
// timeline.
type Scenario struct {
	Name        string
	Description string
	Duration    float64
	Bodies      []BodySpec
	Hands       map[tracking.Side][]tracking.Keyframe
	Inputs      []InputEvent
}

func (s Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidScenario)
	}
	if len(s.Hands) == 0 {
		return fmt.Errorf("%w: %s has no hand motion", ErrInvalidScenario, s.Name)
	}
	for side, keys := range s.Hands {
		if len(keys) == 0 {
			return fmt.Errorf("%w: %s: %s hand has no keyframes", ErrInvalidScenario, s.Name, side)
		}
	}
	for i, b := range s.Bodies {
		for _, h := range b.HalfExtents {
			if h <= 0 {
				return fmt.Errorf("%w: %s: body %d has non-positive half extents", ErrInvalidScenario, s.Name, i)
			}
		}
	}
	for i, in := range s.Inputs {
		if in.Action == "" || in.Value == nil {
			return fmt.Errorf("%w: %s: input %d is incomplete", ErrInvalidScenario, s.Name, i)
		}
		if in.Time < 0 {
			return fmt.Errorf("%w: %s: input %d scheduled before start", ErrInvalidScenario, s.Name, i)
		}
	}
	return nil
}

// Timeline answers action polls from a scenario's input events.
type Timeline struct {
	events map[string][]InputEvent
}

func NewTimeline(events []InputEvent) *Timeline {
	tl := &Timeline{events: make(map[string][]InputEvent)}
	for _, e := range events {
		tl.events[e.Action] = append(tl.events[e.Action], e)
	}
	for _, evs := range tl.events {
		sort.SliceStable(evs, func(i, j int) bool { return evs[i].Time < evs[j].Time })
	}
	return tl
}

// At returns the value of the named action at time t.
func (tl *Timeline) At(name string, t float64) (input.Value, bool) {
	evs := tl.events[name]
	i := sort.Search(len(evs), func(i int) bool { return evs[i].Time > t })
	if i == 0 {
		return nil, false
	}
	return evs[i-1].Value, true
}

// End is the time of the last scheduled event.
func (tl *Timeline) End() float64 {
	end := 0.0
	for _, evs := range tl.events {
		if n := len(evs); n > 0 && evs[n-1].Time > end {
			end = evs[n-1].Time
		}
	}
	return end
}
