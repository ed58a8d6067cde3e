package input

import "fmt"

const OculusTouchProfile = "/interaction_profiles/oculus/touch_controller"

// Binding suggests which device paths drive an action for one interaction profile.
type Binding struct {
	Action             Action   `yaml:"action"`
	InteractionProfile string   `yaml:"interaction_profile"`
	Paths              []string `yaml:"paths"`
}

// ActionSet groups the actions an application attaches to a session.
type ActionSet struct {
	Name       string    `yaml:"name"`
	PrettyName string    `yaml:"pretty_name"`
	Bindings   []Binding `yaml:"bindings"`
}

func DefaultActionSet() ActionSet {
	bind := func(name, pretty string, kind Kind, path string) Binding {
		return Binding{
			Action:             Action{Name: name, PrettyName: pretty, Kind: kind},
			InteractionProfile: OculusTouchProfile,
			Paths:              []string{path},
		}
	}
	return ActionSet{
		Name:       "mine",
		PrettyName: "My set",
		Bindings: []Binding{
			bind("right_pose", "Right Hand Grip Pose", KindPose, "/user/hand/right/input/grip/pose"),
			bind("left_pose", "Left Hand Grip Pose", KindPose, "/user/hand/left/input/grip/pose"),
			bind("left_joystick", "Left Hand JoyStick", KindVec2, "/user/hand/left/input/thumbstick"),
			bind("right_joystick", "Right Hand JoyStick", KindVec2, "/user/hand/right/input/thumbstick"),
			bind("right_squeeze", "Right Hand Squeeze", KindFloat, "/user/hand/right/input/squeeze/value"),
			bind("left_squeeze", "Left Hand Squeeze", KindFloat, "/user/hand/left/input/squeeze/value"),
		},
	}
}

// Action looks up an action of the set by name.
func (s ActionSet) Action(name string) (Action, bool) {
	for _, b := range s.Bindings {
		if b.Action.Name == name {
			return b.Action, true
		}
	}
	return Action{}, false
}

// Validate rejects the same action name declared with two kinds.
func (s ActionSet) Validate() error {
	seen := make(map[string]Kind)
	for _, b := range s.Bindings {
		if b.Action.Name == "" {
			return fmt.Errorf("action set %s: binding with empty action name", s.Name)
		}
		if k, ok := seen[b.Action.Name]; ok && k != b.Action.Kind {
			return &ActionError{Action: b.Action.Name, Expected: b.Action.Kind, Actual: k, Wrapped: ErrActionKindMismatch}
		}
		seen[b.Action.Name] = b.Action.Kind
	}
	return nil
}

// Attach registers every action of the set with its zero value. An action
// bound under several profiles is registered once.
func (s ActionSet) Attach(store *Store) error {
	if err := s.Validate(); err != nil {
		return err
	}
	done := make(map[string]bool)
	for _, b := range s.Bindings {
		if done[b.Action.Name] {
			continue
		}
		if err := store.Register(b.Action, Zero(b.Action.Kind)); err != nil {
			return fmt.Errorf("attach %s: %w", s.Name, err)
		}
		done[b.Action.Name] = true
	}
	return nil
}

// SuggestedBindings groups (action, path) pairs by interaction profile.
func (s ActionSet) SuggestedBindings() map[string][][2]string {
	out := make(map[string][][2]string)
	for _, b := range s.Bindings {
		for _, p := range b.Paths {
			out[b.InteractionProfile] = append(out[b.InteractionProfile], [2]string{b.Action.Name, p})
		}
	}
	return out
}
