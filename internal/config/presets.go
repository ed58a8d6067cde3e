package config

import "sort"

func preset(scenario string, edit func(c *Config)) *Config {
	c := DefaultConfig()
	c.Scenario = scenario
	if edit != nil {
		edit(c)
	}
	return c
}

var Presets = map[string]map[string]*Config{
	"grab-throw": {
		"default": preset("grab-throw", nil),
		"wide-grip": preset("grab-throw", func(c *Config) {
			c.Interaction.GrabBoxHalfExtents = [3]float64{0.15, 0.15, 0.1}
			c.Interaction.GripNudge = 0.05
		}),
		"bouncy": preset("grab-throw", func(c *Config) {
			c.Sim.Restitution = 0.7
			c.Sim.Friction = 0.05
			c.Sim.Duration = 6
		}),
	},
	"gravity-pull": {
		"default": preset("gravity-pull", nil),
		"steep": preset("gravity-pull", func(c *Config) {
			c.Interaction.LaunchAngleDeg = 75
		}),
		"flat": preset("gravity-pull", func(c *Config) {
			c.Interaction.LaunchAngleDeg = 35
		}),
		"short-reach": preset("gravity-pull", func(c *Config) {
			c.Interaction.SweepMaxDistance = 1.5
			c.Interaction.TargetMaxDistanceSq = 2.25
		}),
	},
	"launch-catch": {
		"default": preset("launch-catch", nil),
		"moon": preset("launch-catch", func(c *Config) {
			c.Interaction.Gravity = 1.62
			c.Sim.Duration = 8
		}),
		"shaky": preset("launch-catch", func(c *Config) {
			c.Sim.Jitter = 0.004
			c.Sim.Seed = 7
		}),
	},
	"pull-abort": {
		"default": preset("pull-abort", nil),
	},
	"double-overlap": {
		"default": preset("double-overlap", nil),
		"tight-box": preset("double-overlap", func(c *Config) {
			c.Interaction.GrabBoxHalfExtents = [3]float64{0.05, 0.05, 0.025}
		}),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(scenario, name string) *Config {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	cfg, ok := scenarioPresets[name]
	if !ok {
		return nil
	}
	cp := *cfg
	cp.Hands = append([]HandBinding(nil), cfg.Hands...)
	return &cp
}

func ListPresets(scenario string) []string {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenarioPresets))
	for name := range scenarioPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
