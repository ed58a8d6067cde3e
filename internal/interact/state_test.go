package interact

import (
	"errors"
	"testing"

	"github.com/san-kum/xrgrab/internal/tracking"
	"github.com/san-kum/xrgrab/internal/world"
)

func TestSessionSingletonSlots(t *testing.T) {
	s := NewSession()

	if err := s.hold(1, tracking.Right); err != nil {
		t.Fatal(err)
	}
	if err := s.hold(2, tracking.Left); !errors.Is(err, ErrSlotOccupied) {
		t.Errorf("expected ErrSlotOccupied for second hold, got %v", err)
	}
	if err := s.pull(3, tracking.Right); !errors.Is(err, ErrSlotOccupied) {
		t.Errorf("expected pull to fail while holding, got %v", err)
	}

	s.release()
	if err := s.pull(3, tracking.Right); err != nil {
		t.Fatal(err)
	}
	if err := s.pull(4, tracking.Left); !errors.Is(err, ErrSlotOccupied) {
		t.Errorf("expected ErrSlotOccupied for second pull, got %v", err)
	}
	if err := s.hold(3, tracking.Left); !errors.Is(err, ErrSlotOccupied) {
		t.Errorf("expected hold of pulled object to fail, got %v", err)
	}
	if err := s.hold(5, tracking.Left); !errors.Is(err, ErrSlotOccupied) {
		t.Errorf("expected hold to fail while another object is pulled, got %v", err)
	}

	if got := s.StateOf(3); got != Pulled {
		t.Errorf("expected pulled, got %v", got)
	}
	s.endPull()
	if got := s.StateOf(3); got != Free {
		t.Errorf("expected free, got %v", got)
	}
}

func TestSessionTargetChangeDetection(t *testing.T) {
	s := NewSession()

	fresh, err := s.target(5, tracking.Right)
	if err != nil || !fresh {
		t.Fatalf("first target: fresh=%v err=%v", fresh, err)
	}
	if _, err := s.target(6, tracking.Right); !errors.Is(err, ErrSlotOccupied) {
		t.Errorf("expected second target in one tick to fail, got %v", err)
	}

	s.clearTarget()
	if s.StateOf(5) != Free {
		t.Error("expected target cleared")
	}
	fresh, _ = s.target(5, tracking.Right)
	if fresh {
		t.Error("expected same target on consecutive ticks to not be fresh")
	}

	s.clearTarget()
	s.clearTarget()
	fresh, _ = s.target(5, tracking.Right)
	if !fresh {
		t.Error("expected target after a gap to be fresh")
	}
}

func TestSessionTransitionsClearTarget(t *testing.T) {
	s := NewSession()
	_, _ = s.target(7, tracking.Right)
	if err := s.hold(7, tracking.Right); err != nil {
		t.Fatal(err)
	}
	if _, _, ok := s.Targeted(); ok {
		t.Error("expected hold to clear target")
	}
	if id, side, ok := s.Held(); !ok || id != 7 || side != tracking.Right {
		t.Errorf("unexpected held slot %v %v %v", id, side, ok)
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{Free, "free"},
		{Held, "held"},
		{Targeted, "targeted"},
		{Pulled, "pulled"},
		{State(9), "state(9)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
	var id world.BodyID = 3
	if id.String() != "body#3" {
		t.Errorf("unexpected body id string %q", id)
	}
}
