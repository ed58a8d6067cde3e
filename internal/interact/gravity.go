package interact

import (
	"fmt"

	"github.com/san-kum/xrgrab/internal/input"
	"github.com/san-kum/xrgrab/internal/tracking"
	"github.com/san-kum/xrgrab/internal/world"
)

// GravityMachine targets objects at a distance along the hand's palm
// direction, pulls them on a squeeze and launches them back to the hand when
// the hand flicks.
type GravityMachine struct {
	world   World
	session *Session
	tuning  Tuning
}

func NewGravityMachine(w World, s *Session, t Tuning) *GravityMachine {
	return &GravityMachine{world: w, session: s, tuning: t}
}

// BeginTick drops last tick's target. It runs once per tick before any hand
// is updated.
func (m *GravityMachine) BeginTick() {
	m.session.clearTarget()
}

// Update resolves this hand's pull, then sweeps for a target and starts a
// pull on the squeeze edge. Sweeping is skipped while anything is held or
// pulled.
func (m *GravityMachine) Update(hand tracking.Hand, squeeze input.Sample, rep *Report) error {
	if err := m.resolve(hand, squeeze, rep); err != nil {
		return err
	}

	if _, _, ok := m.session.Held(); ok {
		return nil
	}
	if _, _, ok := m.session.Pulled(); ok {
		return nil
	}
	if _, _, ok := m.session.Targeted(); ok {
		return nil
	}

	b, err := m.sweep(hand)
	if err != nil || b == nil {
		return err
	}

	fresh, err := m.session.target(b.ID, hand.Side)
	if err != nil {
		return err
	}
	if fresh {
		rep.add(EventTargeted, b.ID, hand.Side, b.Velocity)
	}

	if !squeeze.Pressed {
		return nil
	}
	if err := m.session.pull(b.ID, hand.Side); err != nil {
		return err
	}
	b.Velocity[1] = hand.Velocity[1]
	rep.add(EventPulled, b.ID, hand.Side, b.Velocity)
	return nil
}

func (m *GravityMachine) resolve(hand tracking.Hand, squeeze input.Sample, rep *Report) error {
	id, owner, ok := m.session.Pulled()
	if !ok || owner != hand.Side {
		return nil
	}

	b, found := m.world.Body(id)
	if !found {
		m.session.endPull()
		return fmt.Errorf("resolve pull %v: %w", id, world.ErrUnknownBody)
	}

	if !squeeze.IsActive() {
		m.session.endPull()
		rep.add(EventAborted, id, owner, b.Velocity)
		return nil
	}

	b.Velocity = hand.Velocity
	if b.Velocity.Len() <= m.tuning.LaunchThreshold {
		return nil
	}
	b.Velocity = m.tuning.LaunchVelocity(hand.Pose, b.Transform)
	m.session.endPull()
	rep.add(EventLaunched, id, owner, b.Velocity)
	return nil
}

// sweep returns the first free grabbable body along the hand's local -Y
// within targeting range, or nil.
func (m *GravityMachine) sweep(hand tracking.Hand) (*world.Body, error) {
	origin := hand.Pose.Position
	hit, ok, err := m.world.Sweep(origin, hand.Pose.Rotation, hand.Pose.Down(),
		m.tuning.SweepRadius, m.tuning.SweepMaxDistance, world.OnlyDynamic())
	if err != nil {
		return nil, fmt.Errorf("gravity sweep: %w", err)
	}
	if !ok {
		return nil, nil
	}

	b, found := m.world.Body(hit.Body)
	if !found || !b.Grabbable || m.session.StateOf(b.ID) != Free {
		return nil, nil
	}
	if b.Transform.Position.Sub(origin).LenSqr() > m.tuning.TargetMaxDistanceSq {
		return nil, nil
	}
	return b, nil
}
