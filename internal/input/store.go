package input

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/xrgrab/internal/geom"
)

// Sample is a read-only view of one action for the current frame.
type Sample struct {
	Action   Action
	Previous Value
	Current  Value

	// Pressed is the rising edge for bool and float actions.
	Pressed bool

	// PressedX and PressedY are the per-axis rising edges for vec2 actions.
	PressedX bool
	PressedY bool
}

// Level returns the current value as a float: 1/0 for bools, the value for
// floats, the vector length for vec2 and 0 for poses.
func (s Sample) Level() float64 {
	switch v := s.Current.(type) {
	case Bool:
		if v {
			return 1
		}
		return 0
	case Float:
		return float64(v)
	case Vec2:
		return mgl64.Vec2(v).Len()
	case Pose:
		return 0
	default:
		return 0
	}
}

func (s Sample) IsActive() bool {
	return Active(s.Current)
}

// Source is the device layer polled once per frame.
type Source interface {
	State(a Action) (Value, error)
}

type record struct {
	action  Action
	boolean Edge[bool]
	scalar  Edge[float64]
	x, y    Edge[float64]
	pose    Edge[geom.Transform]
}

func newRecord(a Action, initial Value) *record {
	r := &record{action: a}
	switch a.Kind {
	case KindBool:
		r.boolean = NewEdge(false, boolActive)
	case KindFloat:
		r.scalar = NewEdge(0.0, floatActive)
	case KindVec2:
		r.x = NewEdge(0.0, axisActive)
		r.y = NewEdge(0.0, axisActive)
	case KindPose:
		r.pose = NewEdge(geom.Identity(), func(geom.Transform) bool { return false })
	}
	r.set(initial)
	return r
}

func (r *record) set(v Value) {
	switch v := v.(type) {
	case Bool:
		r.boolean.Set(bool(v))
	case Float:
		r.scalar.Set(float64(v))
	case Vec2:
		r.x.Set(v[0])
		r.y.Set(v[1])
	case Pose:
		r.pose.Set(geom.Transform(v))
	}
}

func (r *record) advance() {
	switch r.action.Kind {
	case KindBool:
		r.boolean.Advance()
	case KindFloat:
		r.scalar.Advance()
	case KindVec2:
		r.x.Advance()
		r.y.Advance()
	case KindPose:
		r.pose.Advance()
	}
}

func (r *record) sample() Sample {
	s := Sample{Action: r.action}
	switch r.action.Kind {
	case KindBool:
		s.Previous, s.Current = Bool(r.boolean.Previous()), Bool(r.boolean.Current())
		s.Pressed = r.boolean.Rising()
	case KindFloat:
		s.Previous, s.Current = Float(r.scalar.Previous()), Float(r.scalar.Current())
		s.Pressed = r.scalar.Rising()
	case KindVec2:
		s.Previous = Vec2{r.x.Previous(), r.y.Previous()}
		s.Current = Vec2{r.x.Current(), r.y.Current()}
		s.PressedX = r.x.Rising()
		s.PressedY = r.y.Rising()
	case KindPose:
		s.Previous, s.Current = Pose(r.pose.Previous()), Pose(r.pose.Current())
	}
	return s
}

type Store struct {
	records map[string]*record
}

func NewStore() *Store {
	return &Store{records: make(map[string]*record)}
}

// Register adds a with an initial current value. The previous value starts at
// the kind's zero, so a control already held at registration reads as pressed
// until the first AdvanceFrame.
func (s *Store) Register(a Action, initial Value) error {
	if _, ok := s.records[a.Name]; ok {
		return &ActionError{Action: a.Name, Wrapped: ErrDuplicateAction}
	}
	if initial == nil {
		initial = Zero(a.Kind)
	}
	if initial.Kind() != a.Kind {
		return &ActionError{Action: a.Name, Expected: initial.Kind(), Actual: a.Kind, Wrapped: ErrActionKindMismatch}
	}
	r := newRecord(a, Zero(a.Kind))
	r.advance()
	r.set(initial)
	s.records[a.Name] = r
	return nil
}

// Set writes the current value of a registered action by name.
func (s *Store) Set(name string, v Value) error {
	r, ok := s.records[name]
	if !ok {
		return &ActionError{Action: name, Wrapped: ErrActionNotFound}
	}
	if v.Kind() != r.action.Kind {
		return &ActionError{Action: name, Expected: v.Kind(), Actual: r.action.Kind, Wrapped: ErrActionKindMismatch}
	}
	r.set(v)
	return nil
}

// Sync polls every registered action from src. An action whose poll fails
// keeps its value for this frame.
func (s *Store) Sync(src Source) {
	for _, name := range s.names() {
		r := s.records[name]
		v, err := src.State(r.action)
		if err != nil || v == nil || v.Kind() != r.action.Kind {
			continue
		}
		r.set(v)
	}
}

func (s *Store) Sample(a Action) (Sample, error) {
	r, ok := s.records[a.Name]
	if !ok {
		return Sample{}, &ActionError{Action: a.Name, Expected: a.Kind, Wrapped: ErrActionNotFound}
	}
	if r.action.Kind != a.Kind {
		return Sample{}, &ActionError{Action: a.Name, Expected: a.Kind, Actual: r.action.Kind, Wrapped: ErrActionKindMismatch}
	}
	return r.sample(), nil
}

// AdvanceFrame copies every current value into previous. It must run once per
// frame after every consumer has read its edges.
func (s *Store) AdvanceFrame() {
	for _, r := range s.records {
		r.advance()
	}
}

// Actions returns the registered actions sorted by name.
func (s *Store) Actions() []Action {
	names := s.names()
	out := make([]Action, len(names))
	for i, n := range names {
		out[i] = s.records[n].action
	}
	return out
}

func (s *Store) names() []string {
	names := make([]string, 0, len(s.records))
	for n := range s.records {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
