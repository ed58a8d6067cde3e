package world

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/xrgrab/internal/geom"
)

// Filter restricts which bodies a query may return.
type Filter struct {
	DynamicOnly bool
	Exclude     []BodyID
}

func OnlyDynamic() Filter {
	return Filter{DynamicOnly: true}
}

func (f Filter) accepts(b *Body) bool {
	if f.DynamicOnly && !b.Dynamic {
		return false
	}
	for _, id := range f.Exclude {
		if id == b.ID {
			return false
		}
	}
	return true
}

// Hit is the first body touched by a sweep.
type Hit struct {
	Body     BodyID
	Distance float64
}

type Config struct {
	Gravity     mgl64.Vec3
	Ground      bool
	Restitution float64
	Friction    float64
}

func DefaultConfig() Config {
	return Config{
		Gravity:     mgl64.Vec3{0, -9.81, 0},
		Ground:      true,
		Restitution: 0.3,
		Friction:    0.2,
	}
}

type World struct {
	cfg    Config
	bodies map[BodyID]*Body
	nextID BodyID
	ready  bool
}

func New(cfg Config) *World {
	return &World{
		cfg:    cfg,
		bodies: make(map[BodyID]*Body),
		nextID: 1,
		ready:  true,
	}
}

// Add inserts b, assigns its id and returns it.
func (w *World) Add(b *Body) BodyID {
	b.ID = w.nextID
	w.nextID++
	if b.Transform.Rotation.W == 0 && b.Transform.Rotation.V.LenSqr() == 0 {
		b.Transform.Rotation = mgl64.QuatIdent()
	}
	w.bodies[b.ID] = b
	return b.ID
}

func (w *World) Body(id BodyID) (*Body, bool) {
	b, ok := w.bodies[id]
	return b, ok
}

func (w *World) IDs() []BodyID {
	ids := make([]BodyID, 0, len(w.bodies))
	for id := range w.bodies {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (w *World) Bodies() []*Body {
	ids := w.IDs()
	out := make([]*Body, len(ids))
	for i, id := range ids {
		out[i] = w.bodies[id]
	}
	return out
}

// SetReady toggles query availability, standing in for a physics backend that
// has not finished initialising.
func (w *World) SetReady(ready bool) { w.ready = ready }

// Overlap returns, in id order, every body intersecting the oriented box.
func (w *World) Overlap(origin mgl64.Vec3, rot mgl64.Quat, halfExtents mgl64.Vec3, f Filter) ([]BodyID, error) {
	if !w.ready {
		return nil, ErrQueryUnavailable
	}
	query := geom.Transform{Position: origin, Rotation: rot}
	box := obb{center: origin, axes: query.Axes(), half: halfExtents}

	var hits []BodyID
	for _, b := range w.Bodies() {
		if !f.accepts(b) {
			continue
		}
		if box.intersects(b.obb()) {
			hits = append(hits, b.ID)
		}
	}
	return hits, nil
}

// Sweep casts a sphere from origin along dir and returns the nearest body it
// touches within maxDist. A sphere has no orientation, so the rotation is
// accepted only for parity with shape casts of other shapes.
func (w *World) Sweep(origin mgl64.Vec3, _ mgl64.Quat, dir mgl64.Vec3, radius, maxDist float64, f Filter) (Hit, bool, error) {
	if !w.ready {
		return Hit{}, false, ErrQueryUnavailable
	}
	if dir.LenSqr() < parallelEps {
		return Hit{}, false, nil
	}
	dir = dir.Normalize()

	best := Hit{Distance: math.Inf(1)}
	found := false
	for _, b := range w.Bodies() {
		if !f.accepts(b) {
			continue
		}
		d, ok := b.obb().castSphere(origin, dir, radius, maxDist)
		if ok && d < best.Distance {
			best = Hit{Body: b.ID, Distance: d}
			found = true
		}
	}
	return best, found, nil
}

// Attach parents a body to a hand with a local offset and stops simulating it.
func (w *World) Attach(id BodyID, hand string, local geom.Transform) error {
	b, ok := w.bodies[id]
	if !ok {
		return fmt.Errorf("attach %v: %w", id, ErrUnknownBody)
	}
	b.Attachment = &Attachment{Hand: hand, Local: local}
	b.Simulated = false
	b.Velocity = mgl64.Vec3{}
	return nil
}

// Detach places the body at the given world transform and hands it back to
// the simulation.
func (w *World) Detach(id BodyID, at geom.Transform) error {
	b, ok := w.bodies[id]
	if !ok {
		return fmt.Errorf("detach %v: %w", id, ErrUnknownBody)
	}
	b.Attachment = nil
	b.Transform = at
	b.Simulated = true
	return nil
}

// SyncAttachments moves attached bodies with their hands.
func (w *World) SyncAttachments(pose func(hand string) (geom.Transform, bool)) {
	for _, b := range w.Bodies() {
		if b.Attachment == nil {
			continue
		}
		if hp, ok := pose(b.Attachment.Hand); ok {
			b.Transform = hp.Mul(b.Attachment.Local)
		}
	}
}

// Step advances every free dynamic body by dt.
func (w *World) Step(dt float64) {
	for _, b := range w.Bodies() {
		if !b.Dynamic || !b.Simulated || b.Attachment != nil {
			continue
		}

		b.Velocity = b.Velocity.Add(w.cfg.Gravity.Mul(dt))
		b.Transform.Position = b.Transform.Position.Add(b.Velocity.Mul(dt))

		if !w.cfg.Ground {
			continue
		}
		bottom := b.Transform.Position[1] - b.obb().verticalExtent()
		if bottom >= 0 {
			continue
		}
		b.Transform.Position[1] -= bottom
		if b.Velocity[1] < 0 {
			b.Velocity[1] = -b.Velocity[1] * w.cfg.Restitution
			if b.Velocity[1] < 0.05 {
				b.Velocity[1] = 0
			}
		}
		keep := 1 - w.cfg.Friction
		b.Velocity[0] *= keep
		b.Velocity[2] *= keep
	}
}
