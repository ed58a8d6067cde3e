package config

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/xrgrab/internal/input"
	"github.com/san-kum/xrgrab/internal/interact"
	"github.com/san-kum/xrgrab/internal/tracking"
	"github.com/san-kum/xrgrab/internal/world"
)

const (
	DefaultDt      = 1.0 / 90
	DefaultGravity = 9.81
)

type Config struct {
	Scenario    string            `yaml:"scenario"`
	Interaction InteractionConfig `yaml:"interaction"`
	Hands       []HandBinding     `yaml:"hands"`
	Sim         SimConfig         `yaml:"sim"`
	Log         LogConfig         `yaml:"log"`
	ActionSet   input.ActionSet   `yaml:"action_set"`
}

type InteractionConfig struct {
	GrabBoxHalfExtents  [3]float64 `yaml:"grab_box_half_extents"`
	GrabBoxOffset       [3]float64 `yaml:"grab_box_offset"`
	GripNudge           float64    `yaml:"grip_nudge"`
	SweepRadius         float64    `yaml:"sweep_radius"`
	SweepMaxDistance    float64    `yaml:"sweep_max_distance"`
	TargetMaxDistanceSq float64    `yaml:"target_max_distance_sq"`
	LaunchThreshold     float64    `yaml:"launch_threshold"`
	LaunchAngleDeg      float64    `yaml:"launch_angle_deg"`
	Gravity             float64    `yaml:"gravity"`
}

// HandBinding names the actions that drive one hand.
type HandBinding struct {
	Side              string `yaml:"side"`
	PoseAction        string `yaml:"pose_action"`
	GrabAction        string `yaml:"grab_action"`
	GravityGrabAction string `yaml:"gravity_grab_action"`
}

// SimConfig controls playback. A zero Duration plays the scenario's own
// length.
type SimConfig struct {
	Dt          float64 `yaml:"dt"`
	Duration    float64 `yaml:"duration"`
	Seed        int64   `yaml:"seed"`
	Jitter      float64 `yaml:"jitter"`
	Ground      bool    `yaml:"ground"`
	Restitution float64 `yaml:"restitution"`
	Friction    float64 `yaml:"friction"`
}

type LogConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

func DefaultConfig() *Config {
	t := interact.DefaultTuning()
	w := world.DefaultConfig()
	return &Config{
		Scenario: "gravity-pull",
		Interaction: InteractionConfig{
			GrabBoxHalfExtents:  t.GrabBoxHalfExtents,
			GrabBoxOffset:       t.GrabBoxOffset,
			GripNudge:           t.GripNudge,
			SweepRadius:         t.SweepRadius,
			SweepMaxDistance:    t.SweepMaxDistance,
			TargetMaxDistanceSq: t.TargetMaxDistanceSq,
			LaunchThreshold:     t.LaunchThreshold,
			LaunchAngleDeg:      t.LaunchAngleDeg,
			Gravity:             t.Gravity,
		},
		Hands: []HandBinding{{
			Side:              string(tracking.Right),
			PoseAction:        "right_pose",
			GrabAction:        "right_squeeze",
			GravityGrabAction: "right_squeeze",
		}},
		Sim: SimConfig{
			Dt:          DefaultDt,
			Ground:      w.Ground,
			Restitution: w.Restitution,
			Friction:    w.Friction,
		},
		Log: LogConfig{
			Level:    "info",
			Encoding: "console",
		},
		ActionSet: input.DefaultActionSet(),
	}
}

// Load reads path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Sim.Dt <= 0 {
		return fmt.Errorf("sim.dt must be positive, got %f", c.Sim.Dt)
	}
	if c.Sim.Duration < 0 {
		return fmt.Errorf("sim.duration must not be negative, got %f", c.Sim.Duration)
	}
	if c.Sim.Jitter < 0 {
		return fmt.Errorf("sim.jitter must not be negative, got %f", c.Sim.Jitter)
	}
	if len(c.Hands) == 0 {
		return fmt.Errorf("at least one hand binding is required")
	}
	for i, h := range c.Hands {
		if _, err := tracking.ParseSide(h.Side); err != nil {
			return fmt.Errorf("hands[%d]: %w", i, err)
		}
		if h.GrabAction == "" || h.GravityGrabAction == "" {
			return fmt.Errorf("hands[%d]: grab and gravity grab actions are required", i)
		}
	}
	if err := c.ActionSet.Validate(); err != nil {
		return err
	}
	return c.Tuning().Validate()
}

func (c *Config) Tuning() interact.Tuning {
	ic := c.Interaction
	return interact.Tuning{
		GrabBoxHalfExtents:  mgl64.Vec3(ic.GrabBoxHalfExtents),
		GrabBoxOffset:       mgl64.Vec3(ic.GrabBoxOffset),
		GripNudge:           ic.GripNudge,
		SweepRadius:         ic.SweepRadius,
		SweepMaxDistance:    ic.SweepMaxDistance,
		TargetMaxDistanceSq: ic.TargetMaxDistanceSq,
		LaunchThreshold:     ic.LaunchThreshold,
		LaunchAngleDeg:      ic.LaunchAngleDeg,
		Gravity:             ic.Gravity,
	}
}

// HandConfigs resolves the hand bindings against the action set. Names the
// set does not declare are kept as float actions so the pipeline reports them
// as missing and disables the feature.
func (c *Config) HandConfigs() ([]interact.HandConfig, error) {
	out := make([]interact.HandConfig, 0, len(c.Hands))
	for _, h := range c.Hands {
		side, err := tracking.ParseSide(h.Side)
		if err != nil {
			return nil, err
		}
		out = append(out, interact.HandConfig{
			Side:        side,
			Grab:        c.action(h.GrabAction),
			GravityGrab: c.action(h.GravityGrabAction),
		})
	}
	return out, nil
}

func (c *Config) action(name string) input.Action {
	if a, ok := c.ActionSet.Action(name); ok {
		return a
	}
	return input.Named(name, input.KindFloat)
}

// PoseActions maps each hand side to its pose action, when declared.
func (c *Config) PoseActions() map[tracking.Side]input.Action {
	out := make(map[tracking.Side]input.Action)
	for _, h := range c.Hands {
		a, ok := c.ActionSet.Action(h.PoseAction)
		if !ok || a.Kind != input.KindPose {
			continue
		}
		out[tracking.Side(h.Side)] = a
	}
	return out
}

func (c *Config) World() world.Config {
	return world.Config{
		Gravity:     mgl64.Vec3{0, -c.Interaction.Gravity, 0},
		Ground:      c.Sim.Ground,
		Restitution: c.Sim.Restitution,
		Friction:    c.Sim.Friction,
	}
}
