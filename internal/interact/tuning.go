package interact

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/xrgrab/internal/input"
	"github.com/san-kum/xrgrab/internal/tracking"
)

// Tuning holds the hand-tuned interaction constants.
type Tuning struct {
	GrabBoxHalfExtents mgl64.Vec3
	GrabBoxOffset      mgl64.Vec3

	// GripNudge shifts a grabbed object along the hand's local -X past the
	// corner alignment.
	GripNudge float64

	SweepRadius         float64
	SweepMaxDistance    float64
	TargetMaxDistanceSq float64

	LaunchThreshold float64
	LaunchAngleDeg  float64
	Gravity         float64
}

func DefaultTuning() Tuning {
	return Tuning{
		GrabBoxHalfExtents:  mgl64.Vec3{0.1, 0.1, 0.05},
		GripNudge:           0.025,
		SweepRadius:         0.1,
		SweepMaxDistance:    5.0,
		TargetMaxDistanceSq: 5.0,
		LaunchThreshold:     0.5,
		LaunchAngleDeg:      60,
		Gravity:             9.81,
	}
}

func (t Tuning) Validate() error {
	for i, v := range t.GrabBoxHalfExtents {
		if v <= 0 {
			return fmt.Errorf("grab box half extent %d must be positive, got %f", i, v)
		}
	}
	if t.SweepRadius <= 0 {
		return fmt.Errorf("sweep radius must be positive, got %f", t.SweepRadius)
	}
	if t.SweepMaxDistance <= 0 {
		return fmt.Errorf("sweep max distance must be positive, got %f", t.SweepMaxDistance)
	}
	if t.LaunchAngleDeg <= 0 || t.LaunchAngleDeg >= 90 {
		return fmt.Errorf("launch angle must be in (0, 90) degrees, got %f", t.LaunchAngleDeg)
	}
	if t.Gravity <= 0 {
		return fmt.Errorf("gravity must be positive, got %f", t.Gravity)
	}
	return nil
}

// HandConfig binds one tracked hand to the actions that drive it.
type HandConfig struct {
	Side        tracking.Side
	Grab        input.Action
	GravityGrab input.Action
}

// DefaultHands is a single right hand with both gestures on the right squeeze.
func DefaultHands() []HandConfig {
	squeeze := input.Action{Name: "right_squeeze", PrettyName: "Right Hand Squeeze", Kind: input.KindFloat}
	return []HandConfig{{Side: tracking.Right, Grab: squeeze, GravityGrab: squeeze}}
}
