package experiment

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/xrgrab/internal/geom"
	"github.com/san-kum/xrgrab/internal/input"
	"github.com/san-kum/xrgrab/internal/sim"
	"github.com/san-kum/xrgrab/internal/tracking"
)

const squeeze = "right_squeeze"

// catchTime falls inside the window where the flicked crate passes through
// the grab box of a hand resting at its launch pose.
const catchTime = 1.85

func squeezeAt(t, level float64) sim.InputEvent {
	return sim.InputEvent{Time: t, Action: squeeze, Value: input.Float(level)}
}

func palmDown(x, y, z float64) geom.Transform {
	return geom.At(x, y, z)
}

// palmForward turns the palm (local -Y) to face world +X.
func palmForward(x, y, z float64) geom.Transform {
	return geom.At(x, y, z).Rotated(math.Pi/2, mgl64.Vec3{0, 0, 1})
}

func key(t float64, pose geom.Transform) tracking.Keyframe {
	return tracking.Keyframe{Time: t, Pose: pose}
}

var crate = sim.BodySpec{
	Name:        "crate",
	Position:    mgl64.Vec3{2, 0.25, 0},
	HalfExtents: mgl64.Vec3{0.25, 0.25, 0.25},
}

// flick is a short backward-upward snap of the wrist at t that returns to the
// rest pose.
func flick(t float64) []tracking.Keyframe {
	return []tracking.Keyframe{
		key(0, palmForward(0, 0.4, 0)),
		key(t, palmForward(0, 0.4, 0)),
		key(t+0.06, palmForward(-0.06, 0.46, 0)),
		key(t+0.15, palmForward(0, 0.4, 0)),
	}
}

func gravityPull() sim.Scenario {
	return sim.Scenario{
		Name:        "gravity-pull",
		Description: "target a crate two metres away, pull it and flick it back",
		Duration:    3,
		Bodies:      []sim.BodySpec{crate},
		Hands:       map[tracking.Side][]tracking.Keyframe{tracking.Right: flick(1.0)},
		Inputs:      []sim.InputEvent{squeezeAt(0, 0), squeezeAt(0.5, 1), squeezeAt(2.5, 0)},
	}
}

func pullAbort() sim.Scenario {
	return sim.Scenario{
		Name:        "pull-abort",
		Description: "pull a crate, then let go of the squeeze before flicking",
		Duration:    2,
		Bodies:      []sim.BodySpec{crate},
		Hands:       map[tracking.Side][]tracking.Keyframe{tracking.Right: {key(0, palmForward(0, 0.4, 0))}},
		Inputs:      []sim.InputEvent{squeezeAt(0, 0), squeezeAt(0.5, 1), squeezeAt(1.0, 0)},
	}
}

func launchCatch() sim.Scenario {
	return sim.Scenario{
		Name:        "launch-catch",
		Description: "flick a pulled crate toward the hand and grab it on arrival",
		Duration:    3,
		Bodies:      []sim.BodySpec{crate},
		Hands:       map[tracking.Side][]tracking.Keyframe{tracking.Right: flick(1.0)},
		Inputs: []sim.InputEvent{
			squeezeAt(0, 0),
			squeezeAt(0.5, 1),
			squeezeAt(1.3, 0),
			squeezeAt(catchTime, 1),
		},
	}
}

func grabThrow() sim.Scenario {
	return sim.Scenario{
		Name:        "grab-throw",
		Description: "pick up a ball, lift it and throw it",
		Duration:    3,
		Bodies: []sim.BodySpec{{
			Name:        "ball",
			Position:    mgl64.Vec3{0.3, 0.05, 0},
			HalfExtents: mgl64.Vec3{0.05, 0.05, 0.05},
		}},
		Hands: map[tracking.Side][]tracking.Keyframe{tracking.Right: {
			key(0, palmDown(0.3, 0.12, 0)),
			key(0.5, palmDown(0.3, 0.12, 0)),
			key(1.0, palmDown(0.3, 1.0, 0)),
			key(1.25, palmDown(0.9, 1.3, 0)),
		}},
		Inputs: []sim.InputEvent{squeezeAt(0, 0), squeezeAt(0.3, 1), squeezeAt(1.2, 0)},
	}
}

func doubleOverlap() sim.Scenario {
	return sim.Scenario{
		Name:        "double-overlap",
		Description: "squeeze over two touching boxes; only the nearer one is taken",
		Duration:    2,
		Bodies: []sim.BodySpec{
			{Name: "near", Position: mgl64.Vec3{0.04, 0.05, 0}, HalfExtents: mgl64.Vec3{0.05, 0.05, 0.05}},
			{Name: "far", Position: mgl64.Vec3{-0.07, 0.05, 0}, HalfExtents: mgl64.Vec3{0.05, 0.05, 0.05}},
		},
		Hands: map[tracking.Side][]tracking.Keyframe{tracking.Right: {
			key(0, palmDown(0, 0.12, 0)),
			key(0.5, palmDown(0, 0.12, 0)),
			key(1.0, palmDown(0, 0.8, 0)),
		}},
		Inputs: []sim.InputEvent{squeezeAt(0, 0), squeezeAt(0.3, 1), squeezeAt(1.5, 0)},
	}
}

func trackingLoss() sim.Scenario {
	return sim.Scenario{
		Name:        "tracking-loss",
		Description: "lose the hand while holding; the release waits for reacquisition",
		Duration:    2,
		Bodies: []sim.BodySpec{{
			Name:        "ball",
			Position:    mgl64.Vec3{0.3, 0.05, 0},
			HalfExtents: mgl64.Vec3{0.05, 0.05, 0.05},
		}},
		Hands: map[tracking.Side][]tracking.Keyframe{tracking.Right: {
			key(0, palmDown(0.3, 0.12, 0)),
			key(0.5, palmDown(0.3, 0.12, 0)),
			key(0.7, palmDown(0.3, 0.8, 0)),
			{Time: 0.8, Pose: palmDown(0.3, 0.8, 0), Lost: true},
			key(1.4, palmDown(0.5, 0.8, 0)),
		}},
		Inputs: []sim.InputEvent{squeezeAt(0, 0), squeezeAt(0.3, 1), squeezeAt(1.0, 0)},
	}
}
