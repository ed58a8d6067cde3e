package tracking

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/xrgrab/internal/geom"
)

// Keyframe is a hand pose at a point in time.
type Keyframe struct {
	Time float64
	Pose geom.Transform

	// Lost marks the hand untracked from this keyframe until the next one.
	Lost bool
}

type track struct {
	keys     []Keyframe
	current  Hand
	previous mgl64.Vec3
	tracked  bool
	primed   bool
}

// Scripted plays back keyframed hand motion. Velocity is the finite difference
// of successive positions, like a runtime deriving it from space locations.
type Scripted struct {
	tracks map[Side]*track
	time   float64
	ready  bool
	jitter float64
	rng    *rand.Rand
}

func NewScripted() *Scripted {
	return &Scripted{tracks: make(map[Side]*track)}
}

// Script installs the keyframes for one hand; they are sorted by time.
func (s *Scripted) Script(side Side, keys []Keyframe) error {
	if len(keys) == 0 {
		return fmt.Errorf("script %s: no keyframes", side)
	}
	sorted := make([]Keyframe, len(keys))
	copy(sorted, keys)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })
	s.tracks[side] = &track{keys: sorted}
	return nil
}

// SetJitter adds gaussian position noise with the given standard deviation,
// reproducible for a seed.
func (s *Scripted) SetJitter(sigma float64, seed int64) {
	s.jitter = sigma
	s.rng = rand.New(rand.NewSource(seed))
}

// Advance samples every scripted hand at time t. dt is the time since the
// previous call and drives the velocity estimate.
func (s *Scripted) Advance(t, dt float64) {
	s.time = t
	s.ready = true
	sides := make([]Side, 0, len(s.tracks))
	for side := range s.tracks {
		sides = append(sides, side)
	}
	sort.Slice(sides, func(i, j int) bool { return sides[i] < sides[j] })

	for _, side := range sides {
		tr := s.tracks[side]
		pose, lost := sampleKeys(tr.keys, t)
		tr.tracked = !lost
		if lost {
			tr.primed = false
			continue
		}
		// Velocity follows the scripted path; jitter only shifts the pose.
		vel := mgl64.Vec3{}
		if tr.primed && dt > 0 {
			vel = pose.Position.Sub(tr.previous).Mul(1 / dt)
		}
		tr.previous = pose.Position
		tr.primed = true
		if s.jitter > 0 {
			for k := range pose.Position {
				pose.Position[k] += s.rng.NormFloat64() * s.jitter
			}
		}
		tr.current = Hand{Side: side, Pose: pose, Velocity: vel}
	}
}

func (s *Scripted) Hand(side Side) (Hand, error) {
	if !s.ready {
		return Hand{}, ErrTrackerNotReady
	}
	tr, ok := s.tracks[side]
	if !ok || !tr.tracked {
		return Hand{}, ErrNoHandTracked
	}
	return tr.current, nil
}

// Pose is a convenience for attachment syncing.
func (s *Scripted) Pose(side string) (geom.Transform, bool) {
	h, err := s.Hand(Side(side))
	if err != nil {
		return geom.Transform{}, false
	}
	return h.Pose, true
}

func sampleKeys(keys []Keyframe, t float64) (geom.Transform, bool) {
	if t <= keys[0].Time {
		return keys[0].Pose, keys[0].Lost
	}
	last := keys[len(keys)-1]
	if t >= last.Time {
		return last.Pose, last.Lost
	}

	i := sort.Search(len(keys), func(i int) bool { return keys[i].Time > t }) - 1
	a, b := keys[i], keys[i+1]
	if a.Lost {
		return a.Pose, true
	}

	span := b.Time - a.Time
	if span <= 0 {
		return b.Pose, b.Lost
	}
	f := (t - a.Time) / span
	return geom.Transform{
		Position: a.Pose.Position.Add(b.Pose.Position.Sub(a.Pose.Position).Mul(f)),
		Rotation: mgl64.QuatSlerp(rotOf(a.Pose), rotOf(b.Pose), f),
	}, false
}

func rotOf(t geom.Transform) mgl64.Quat {
	if t.Rotation.W == 0 && t.Rotation.V.LenSqr() == 0 {
		return mgl64.QuatIdent()
	}
	return t.Rotation
}
