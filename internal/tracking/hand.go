// Package tracking reports tracked hand poses and velocities.
package tracking

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/xrgrab/internal/geom"
)

var (
	// ErrNoHandTracked indicates the hand is not currently tracked.
	ErrNoHandTracked = errors.New("tracking: hand not tracked")

	// ErrTrackerNotReady indicates the tracking layer has no frame yet.
	ErrTrackerNotReady = errors.New("tracking: tracker not ready")
)

type Side string

const (
	Left  Side = "left"
	Right Side = "right"
)

func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case Left, Right:
		return Side(s), nil
	default:
		return "", fmt.Errorf("unknown hand side: %q", s)
	}
}

type Hand struct {
	Side     Side
	Pose     geom.Transform
	Velocity mgl64.Vec3
}

// Tracker is the read-only view of the tracking layer.
type Tracker interface {
	Hand(side Side) (Hand, error)
}

// Fixed reports whatever hands were last set on it.
type Fixed struct {
	hands map[Side]Hand
}

func NewFixed(hands ...Hand) *Fixed {
	f := &Fixed{hands: make(map[Side]Hand)}
	for _, h := range hands {
		f.Set(h)
	}
	return f
}

func (f *Fixed) Set(h Hand)     { f.hands[h.Side] = h }
func (f *Fixed) Lose(side Side) { delete(f.hands, side) }

func (f *Fixed) Hand(side Side) (Hand, error) {
	h, ok := f.hands[side]
	if !ok {
		return Hand{}, ErrNoHandTracked
	}
	return h, nil
}
