package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const parallelEps = 1e-9

type obb struct {
	center mgl64.Vec3
	axes   [3]mgl64.Vec3
	half   mgl64.Vec3
}

// intersects runs the 15-axis separating axis test between two oriented boxes.
func (a obb) intersects(b obb) bool {
	var r, absR [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = a.axes[i].Dot(b.axes[j])
			absR[i][j] = math.Abs(r[i][j]) + parallelEps
		}
	}

	d := b.center.Sub(a.center)
	t := [3]float64{d.Dot(a.axes[0]), d.Dot(a.axes[1]), d.Dot(a.axes[2])}

	for i := 0; i < 3; i++ {
		ra := a.half[i]
		rb := b.half[0]*absR[i][0] + b.half[1]*absR[i][1] + b.half[2]*absR[i][2]
		if math.Abs(t[i]) > ra+rb {
			return false
		}
	}

	for j := 0; j < 3; j++ {
		ra := a.half[0]*absR[0][j] + a.half[1]*absR[1][j] + a.half[2]*absR[2][j]
		rb := b.half[j]
		if math.Abs(t[0]*r[0][j]+t[1]*r[1][j]+t[2]*r[2][j]) > ra+rb {
			return false
		}
	}

	for i := 0; i < 3; i++ {
		i1, i2 := (i+1)%3, (i+2)%3
		for j := 0; j < 3; j++ {
			j1, j2 := (j+1)%3, (j+2)%3
			ra := a.half[i1]*absR[i2][j] + a.half[i2]*absR[i1][j]
			rb := b.half[j1]*absR[i][j2] + b.half[j2]*absR[i][j1]
			if math.Abs(t[i2]*r[i1][j]-t[i1]*r[i2][j]) > ra+rb {
				return false
			}
		}
	}

	return true
}

// castSphere returns the travel distance at which a sphere of the given radius,
// moving from origin along the unit vector dir, first touches the box. The box
// is inflated by the radius, so hits near edges and corners come slightly
// early. Spheres that already touch the box at the origin are not reported.
func (a obb) castSphere(origin, dir mgl64.Vec3, radius, maxDist float64) (float64, bool) {
	rel := origin.Sub(a.center)
	tMin, tMax := math.Inf(-1), math.Inf(1)

	for k := 0; k < 3; k++ {
		o := rel.Dot(a.axes[k])
		v := dir.Dot(a.axes[k])
		h := a.half[k] + radius

		if math.Abs(v) < parallelEps {
			if math.Abs(o) > h {
				return 0, false
			}
			continue
		}

		t1 := (-h - o) / v
		t2 := (h - o) / v
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	if tMin < 0 || tMin > maxDist {
		return 0, false
	}
	return tMin, true
}

// verticalExtent is the half height of the box's world-space AABB.
func (a obb) verticalExtent() float64 {
	return math.Abs(a.axes[0][1])*a.half[0] + math.Abs(a.axes[1][1])*a.half[1] + math.Abs(a.axes[2][1])*a.half[2]
}
