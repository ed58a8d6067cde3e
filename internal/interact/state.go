package interact

import (
	"errors"
	"fmt"

	"github.com/san-kum/xrgrab/internal/tracking"
	"github.com/san-kum/xrgrab/internal/world"
)

type State uint8

const (
	Free State = iota
	Held
	Targeted
	Pulled
)

func (s State) String() string {
	switch s {
	case Free:
		return "free"
	case Held:
		return "held"
	case Targeted:
		return "targeted"
	case Pulled:
		return "pulled"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// ErrSlotOccupied indicates a transition that would put a second object in a
// singleton state.
var ErrSlotOccupied = errors.New("interact: interaction slot occupied")

type slot struct {
	body world.BodyID
	hand tracking.Side
}

// Session holds the interaction slots: at most one held, one pulled and one
// targeted object system-wide.
type Session struct {
	held       *slot
	pulled     *slot
	targeted   *slot
	lastTarget *slot
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) Held() (world.BodyID, tracking.Side, bool) {
	return s.held.get()
}

func (s *Session) Pulled() (world.BodyID, tracking.Side, bool) {
	return s.pulled.get()
}

func (s *Session) Targeted() (world.BodyID, tracking.Side, bool) {
	return s.targeted.get()
}

func (s *Session) StateOf(id world.BodyID) State {
	switch {
	case s.held.is(id):
		return Held
	case s.pulled.is(id):
		return Pulled
	case s.targeted.is(id):
		return Targeted
	default:
		return Free
	}
}

func (s *Session) hold(id world.BodyID, hand tracking.Side) error {
	if s.held != nil || s.pulled != nil {
		return fmt.Errorf("hold %v: %w", id, ErrSlotOccupied)
	}
	if s.targeted.is(id) {
		s.targeted = nil
	}
	s.held = &slot{body: id, hand: hand}
	return nil
}

func (s *Session) release() {
	s.held = nil
}

func (s *Session) pull(id world.BodyID, hand tracking.Side) error {
	if s.pulled != nil || s.held != nil {
		return fmt.Errorf("pull %v: %w", id, ErrSlotOccupied)
	}
	if s.targeted.is(id) {
		s.targeted = nil
	}
	s.pulled = &slot{body: id, hand: hand}
	return nil
}

func (s *Session) endPull() {
	s.pulled = nil
}

// target tags id and reports whether it was not already targeted last tick.
func (s *Session) target(id world.BodyID, hand tracking.Side) (bool, error) {
	if s.targeted != nil || s.held.is(id) || s.pulled.is(id) {
		return false, fmt.Errorf("target %v: %w", id, ErrSlotOccupied)
	}
	s.targeted = &slot{body: id, hand: hand}
	return !s.lastTarget.is(id), nil
}

// clearTarget drops the transient target, remembering it for change detection.
func (s *Session) clearTarget() {
	s.lastTarget = s.targeted
	s.targeted = nil
}

func (sl *slot) get() (world.BodyID, tracking.Side, bool) {
	if sl == nil {
		return 0, "", false
	}
	return sl.body, sl.hand, true
}

func (sl *slot) is(id world.BodyID) bool {
	return sl != nil && sl.body == id
}
