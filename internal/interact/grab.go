package interact

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/xrgrab/internal/geom"
	"github.com/san-kum/xrgrab/internal/input"
	"github.com/san-kum/xrgrab/internal/tracking"
	"github.com/san-kum/xrgrab/internal/world"
)

// GrabMachine picks up objects inside a box at the hand and drops them with
// the hand's velocity when the grab trigger is let go.
type GrabMachine struct {
	world   World
	session *Session
	tuning  Tuning
}

func NewGrabMachine(w World, s *Session, t Tuning) *GrabMachine {
	return &GrabMachine{world: w, session: s, tuning: t}
}

// Update runs one tick for one hand. Release is checked before a new grab,
// and no grab starts while a pull is in flight.
func (m *GrabMachine) Update(hand tracking.Hand, trigger input.Sample, rep *Report) error {
	if id, owner, ok := m.session.Held(); ok {
		if owner != hand.Side || trigger.IsActive() {
			return nil
		}
		return m.release(id, hand, rep)
	}
	if !trigger.Pressed {
		return nil
	}
	if _, _, pulling := m.session.Pulled(); pulling {
		return nil
	}
	return m.grab(hand, rep)
}

func (m *GrabMachine) release(id world.BodyID, hand tracking.Hand, rep *Report) error {
	m.session.release()

	b, ok := m.world.Body(id)
	if !ok {
		return fmt.Errorf("release %v: %w", id, world.ErrUnknownBody)
	}
	at := b.Transform
	if b.Attachment != nil {
		at = hand.Pose.Mul(b.Attachment.Local)
	}
	if err := m.world.Detach(id, at); err != nil {
		return fmt.Errorf("release %v: %w", id, err)
	}
	b.Velocity = hand.Velocity

	rep.add(EventReleased, id, hand.Side, b.Velocity)
	return nil
}

func (m *GrabMachine) grab(hand tracking.Hand, rep *Report) error {
	origin := hand.Pose.Apply(m.tuning.GrabBoxOffset)
	ids, err := m.world.Overlap(origin, hand.Pose.Rotation, m.tuning.GrabBoxHalfExtents, world.OnlyDynamic())
	if err != nil {
		return fmt.Errorf("grab overlap: %w", err)
	}

	b := m.nearest(hand, ids)
	if b == nil {
		return nil
	}

	local := m.tuning.GripTransform(b.HalfExtents)
	if err := m.session.hold(b.ID, hand.Side); err != nil {
		return err
	}
	if err := m.world.Attach(b.ID, string(hand.Side), local); err != nil {
		m.session.release()
		return fmt.Errorf("grab %v: %w", b.ID, err)
	}
	b.Transform = hand.Pose.Mul(local)

	rep.add(EventGrabbed, b.ID, hand.Side, b.Velocity)
	return nil
}

// nearest picks the eligible candidate closest to the hand origin, lowest id
// on ties. ids arrive in ascending order.
func (m *GrabMachine) nearest(hand tracking.Hand, ids []world.BodyID) *world.Body {
	var best *world.Body
	bestDist := math.Inf(1)
	for _, id := range ids {
		b, ok := m.world.Body(id)
		if !ok || !b.Grabbable {
			continue
		}
		if st := m.session.StateOf(id); st != Free && st != Targeted {
			continue
		}
		d := b.Transform.Position.Sub(hand.Pose.Position).LenSqr()
		if d < bestDist || (d == bestDist && best != nil && id < best.ID) {
			best, bestDist = b, d
		}
	}
	return best
}

// GripTransform is the hand-local placement of a grabbed object: one bounding
// box corner at the grip, nudged along -X, no rotation relative to the hand.
func (t Tuning) GripTransform(halfExtents mgl64.Vec3) geom.Transform {
	return geom.Transform{
		Position: mgl64.Vec3{-halfExtents[0] - t.GripNudge, 0, -halfExtents[2]},
		Rotation: mgl64.QuatIdent(),
	}
}
