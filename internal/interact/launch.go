package interact

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/xrgrab/internal/geom"
)

// Launch is the result of the ballistic solve.
type Launch struct {
	Velocity   mgl64.Vec3
	Horizontal float64
	Rise       float64

	// SpeedSquared is the unrooted solve; negative when the angle cannot reach
	// the target (target high above and close).
	SpeedSquared float64

	// Speed carries the sign of SpeedSquared.
	Speed float64
}

// Degenerate reports whether the solve could not produce a real trajectory.
func (l Launch) Degenerate() bool {
	return l.SpeedSquared <= 0
}

// SolveLaunch finds the speed that carries an object from obj to hand when
// launched at angleDeg above the horizontal under gravity g:
//
//	v² = g·d² / (2·cos²θ·(d·tanθ − Δy))
//
// The sign of v² is kept through the root so infeasible geometry yields a
// reversed but finite launch instead of NaN.
func SolveLaunch(hand, obj geom.Transform, angleDeg, g float64) Launch {
	theta := mgl64.DegToRad(angleDeg)
	sin, cos := math.Sincos(theta)
	tan := sin / cos

	diff := hand.Position.Sub(obj.Position)
	flat := geom.Horizontal(diff)
	d := flat.Len()
	rise := diff[1]

	v2 := g * d * d / (2 * cos * cos * (d*tan - rise))
	if math.IsNaN(v2) || math.IsInf(v2, 0) {
		v2 = 0
	}
	speed := math.Copysign(math.Sqrt(math.Abs(v2)), v2)

	dir := mgl64.Vec3{}
	if d > 1e-9 {
		dir = flat.Mul(1 / d)
	}

	return Launch{
		Velocity:     dir.Mul(cos * speed).Add(geom.Up.Mul(sin * speed)),
		Speed:        speed,
		SpeedSquared: v2,
		Horizontal:   d,
		Rise:         rise,
	}
}

// LaunchVelocity is SolveLaunch with the tuned angle and gravity.
func (t Tuning) LaunchVelocity(hand, obj geom.Transform) mgl64.Vec3 {
	return SolveLaunch(hand, obj, t.LaunchAngleDeg, t.Gravity).Velocity
}

// Apex returns the time and height gain at the top of a launch arc.
func (l Launch) Apex(g float64) (t, h float64) {
	vy := l.Velocity[1]
	if vy <= 0 || g <= 0 {
		return 0, 0
	}
	t = vy / g
	return t, vy * vy / (2 * g)
}
