// Package geom holds rigid transforms shared by the world, tracking and
// interaction packages.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Up is the world vertical axis.
var Up = mgl64.Vec3{0, 1, 0}

type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

func Identity() Transform {
	return Transform{Rotation: mgl64.QuatIdent()}
}

func At(x, y, z float64) Transform {
	return Transform{Position: mgl64.Vec3{x, y, z}, Rotation: mgl64.QuatIdent()}
}

// Rotated returns t with its rotation replaced by angle radians about axis.
func (t Transform) Rotated(angle float64, axis mgl64.Vec3) Transform {
	t.Rotation = mgl64.QuatRotate(angle, axis.Normalize())
	return t
}

// Mul composes t (parent) with child, returning child expressed in the
// parent's space.
func (t Transform) Mul(child Transform) Transform {
	rot := t.rot()
	return Transform{
		Position: t.Position.Add(rot.Rotate(child.Position)),
		Rotation: rot.Mul(child.rot()).Normalize(),
	}
}

func (t Transform) Inverse() Transform {
	inv := t.rot().Inverse()
	return Transform{
		Position: inv.Rotate(t.Position.Mul(-1)),
		Rotation: inv,
	}
}

// Apply maps a point from local space into t's space.
func (t Transform) Apply(p mgl64.Vec3) mgl64.Vec3 {
	return t.Position.Add(t.rot().Rotate(p))
}

// Down is the transform's local -Y axis in world space.
func (t Transform) Down() mgl64.Vec3 {
	return t.rot().Rotate(mgl64.Vec3{0, -1, 0})
}

// Axes returns the local X, Y and Z axes in world space.
func (t Transform) Axes() [3]mgl64.Vec3 {
	m := t.rot().Mat4().Mat3()
	return [3]mgl64.Vec3{m.Col(0), m.Col(1), m.Col(2)}
}

func (t Transform) IsFinite() bool {
	for _, v := range []float64{
		t.Position[0], t.Position[1], t.Position[2],
		t.Rotation.W, t.Rotation.V[0], t.Rotation.V[1], t.Rotation.V[2],
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// rot treats the zero quaternion as identity so zero-value transforms stay usable.
func (t Transform) rot() mgl64.Quat {
	if t.Rotation.W == 0 && t.Rotation.V.LenSqr() == 0 {
		return mgl64.QuatIdent()
	}
	return t.Rotation.Normalize()
}

// Horizontal drops the vertical component of v.
func Horizontal(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v[0], 0, v[2]}
}

func IsFiniteVec(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
