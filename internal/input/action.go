package input

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/xrgrab/internal/geom"
)

type Kind uint8

const (
	KindBool Kind = iota
	KindFloat
	KindVec2
	KindPose
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindFloat:
		return "float"
	case KindVec2:
		return "vec2"
	case KindPose:
		return "pose"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

func (k Kind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

func (k *Kind) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func ParseKind(s string) (Kind, error) {
	switch s {
	case "bool":
		return KindBool, nil
	case "float":
		return KindFloat, nil
	case "vec2":
		return KindVec2, nil
	case "pose":
		return KindPose, nil
	default:
		return 0, fmt.Errorf("unknown action kind: %s", s)
	}
}

// Action names a logical input. Two actions with the same Name are the same
// action; PrettyName is display only and Kind must match the registration.
type Action struct {
	Name       string `yaml:"name"`
	PrettyName string `yaml:"pretty_name"`
	Kind       Kind   `yaml:"kind"`
}

// Named builds a lookup key for an existing action.
func Named(name string, kind Kind) Action {
	return Action{Name: name, PrettyName: name, Kind: kind}
}

func (a Action) Same(other Action) bool {
	return a.Name == other.Name
}

func (a Action) String() string {
	return a.Name
}

// Value is one sampled action value: Bool, Float, Vec2 or Pose.
type Value interface {
	Kind() Kind
	isValue()
}

type (
	Bool  bool
	Float float64
	Vec2  mgl64.Vec2
	Pose  geom.Transform
)

func (Bool) Kind() Kind  { return KindBool }
func (Float) Kind() Kind { return KindFloat }
func (Vec2) Kind() Kind  { return KindVec2 }
func (Pose) Kind() Kind  { return KindPose }

func (Bool) isValue()  {}
func (Float) isValue() {}
func (Vec2) isValue()  {}
func (Pose) isValue()  {}

// Zero returns the resting value for kind.
func Zero(kind Kind) Value {
	switch kind {
	case KindBool:
		return Bool(false)
	case KindFloat:
		return Float(0)
	case KindVec2:
		return Vec2{}
	default:
		return Pose(geom.Identity())
	}
}

// Active reports whether v counts as pressed. Vec2 is active when either axis
// is non-zero; poses never are.
func Active(v Value) bool {
	switch v := v.(type) {
	case Bool:
		return bool(v)
	case Float:
		return v > 0
	case Vec2:
		return v[0] != 0 || v[1] != 0
	case Pose:
		return false
	default:
		return false
	}
}
