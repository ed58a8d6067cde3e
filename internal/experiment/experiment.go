package experiment

import (
	"context"

	"go.uber.org/zap"

	"github.com/san-kum/xrgrab/internal/config"
	"github.com/san-kum/xrgrab/internal/logging"
	"github.com/san-kum/xrgrab/internal/sim"
)

// Experiment builds simulators for registered scenarios under one config.
type Experiment struct {
	cfg      *config.Config
	registry *Registry
	logger   *zap.Logger
}

func New(cfg *config.Config, registry *Registry, logger *zap.Logger) *Experiment {
	return &Experiment{cfg: cfg, registry: registry, logger: logging.OrNop(logger)}
}

func (e *Experiment) Setup() (sim.Setup, error) {
	if err := e.cfg.Validate(); err != nil {
		return sim.Setup{}, err
	}
	hands, err := e.cfg.HandConfigs()
	if err != nil {
		return sim.Setup{}, err
	}
	return sim.Setup{
		Tuning:    e.cfg.Tuning(),
		Hands:     hands,
		Poses:     e.cfg.PoseActions(),
		ActionSet: e.cfg.ActionSet,
		World:     e.cfg.World(),
		Config: sim.Config{
			Dt:       e.cfg.Sim.Dt,
			Duration: e.cfg.Sim.Duration,
			Seed:     e.cfg.Sim.Seed,
			Jitter:   e.cfg.Sim.Jitter,
		},
		Logger: e.logger,
	}, nil
}

// Build returns a simulator for the named scenario with the default metrics
// attached.
func (e *Experiment) Build(name string) (*sim.Simulator, error) {
	return e.build(name, e.cfg.Sim.Seed)
}

func (e *Experiment) build(name string, seed int64) (*sim.Simulator, error) {
	sc, err := e.registry.GetScenario(name)
	if err != nil {
		return nil, err
	}
	setup, err := e.Setup()
	if err != nil {
		return nil, err
	}
	setup.Config.Seed = seed

	s, err := sim.New(sc, setup)
	if err != nil {
		return nil, err
	}
	for _, m := range e.registry.DefaultMetrics() {
		s.AddMetric(m)
	}
	return s, nil
}

func (e *Experiment) Run(ctx context.Context, name string) (*sim.Result, error) {
	s, err := e.Build(name)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx)
}

// RunAll runs the named scenarios concurrently, results in input order.
func (e *Experiment) RunAll(ctx context.Context, names []string) ([]*sim.Result, error) {
	sims := make([]*sim.Simulator, len(names))
	for i, name := range names {
		s, err := e.Build(name)
		if err != nil {
			return nil, err
		}
		sims[i] = s
	}
	return sim.RunAll(ctx, sims)
}

// Ensemble replays one scenario runs times with consecutive jitter seeds.
func (e *Experiment) Ensemble(ctx context.Context, name string, runs int) ([]*sim.Result, error) {
	build := func(seed int64) (*sim.Simulator, error) { return e.build(name, seed) }
	return sim.NewEnsemble(build, runs, e.cfg.Sim.Seed).Run(ctx)
}
