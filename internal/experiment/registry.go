package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/xrgrab/internal/interact"
	"github.com/san-kum/xrgrab/internal/metrics"
	"github.com/san-kum/xrgrab/internal/sim"
)

type Registry struct {
	scenarios map[string]func() sim.Scenario
}

func NewRegistry() *Registry {
	r := &Registry{scenarios: make(map[string]func() sim.Scenario)}

	r.scenarios["gravity-pull"] = gravityPull
	r.scenarios["pull-abort"] = pullAbort
	r.scenarios["launch-catch"] = launchCatch
	r.scenarios["grab-throw"] = grabThrow
	r.scenarios["double-overlap"] = doubleOverlap
	r.scenarios["tracking-loss"] = trackingLoss

	return r
}

// Register adds a scenario factory under name.
func (r *Registry) Register(name string, fn func() sim.Scenario) error {
	if _, ok := r.scenarios[name]; ok {
		return fmt.Errorf("scenario already registered: %s", name)
	}
	r.scenarios[name] = fn
	return nil
}

func (r *Registry) GetScenario(name string) (sim.Scenario, error) {
	fn, ok := r.scenarios[name]
	if !ok {
		return sim.Scenario{}, fmt.Errorf("unknown scenario: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListScenarios() []string {
	names := make([]string, 0, len(r.scenarios))
	for name := range r.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns fresh metric instances for one run.
func (r *Registry) DefaultMetrics() []sim.Metric {
	return []sim.Metric{
		metrics.NewEventCount("grabs", interact.EventGrabbed),
		metrics.NewEventCount("releases", interact.EventReleased),
		metrics.NewEventCount("pulls", interact.EventPulled),
		metrics.NewEventCount("launches", interact.EventLaunched),
		metrics.NewEventCount("aborts", interact.EventAborted),
		metrics.NewTargetedTicks(),
		metrics.NewMaxHeldTicks(),
		metrics.NewPeakLaunchSpeed(),
		metrics.NewTrackedRatio(),
	}
}
