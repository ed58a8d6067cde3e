package sim

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/xrgrab/internal/input"
	"github.com/san-kum/xrgrab/internal/interact"
	"github.com/san-kum/xrgrab/internal/logging"
	"github.com/san-kum/xrgrab/internal/tracking"
	"github.com/san-kum/xrgrab/internal/world"
)

// Setup carries everything a Simulator needs besides the scenario itself.
type Setup struct {
	Tuning    interact.Tuning
	Hands     []interact.HandConfig
	Poses     map[tracking.Side]input.Action
	ActionSet input.ActionSet
	World     world.Config
	Config    Config
	Logger    *zap.Logger
}

// Simulator plays a scenario through the interaction pipeline against the
// reference world, one tick per Step.
type Simulator struct {
	scenario  Scenario
	cfg       Config
	world     *world.World
	tracker   *tracking.Scripted
	store     *input.Store
	pipeline  *interact.Pipeline
	timeline  *Timeline
	poses     map[string]tracking.Side
	sides     []tracking.Side
	metrics   []Metric
	observers []Observer
	logger    *zap.Logger

	step     int
	steps    int
	now      float64
	events   []interact.Event
	disabled []string
	skipped  int
}

func New(sc Scenario, setup Setup) (*Simulator, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	cfg := setup.Config
	if cfg.Duration <= 0 {
		cfg.Duration = sc.Duration
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	logger := logging.OrNop(setup.Logger).With(zap.String("scenario", sc.Name))

	w := world.New(setup.World)
	for _, spec := range sc.Bodies {
		w.Add(spec.build())
	}

	tracker := tracking.NewScripted()
	for side, keys := range sc.Hands {
		if err := tracker.Script(side, keys); err != nil {
			return nil, err
		}
	}
	if cfg.Jitter > 0 {
		tracker.SetJitter(cfg.Jitter, cfg.Seed)
	}

	store := input.NewStore()
	set := setup.ActionSet
	if len(set.Bindings) == 0 {
		set = input.DefaultActionSet()
	}
	if err := set.Attach(store); err != nil {
		return nil, fmt.Errorf("attach action set: %w", err)
	}

	hands := setup.Hands
	if len(hands) == 0 {
		hands = interact.DefaultHands()
	}
	pipeline, err := interact.NewPipeline(w, tracker, store, setup.Tuning, hands, interact.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	s := &Simulator{
		scenario: sc,
		cfg:      cfg,
		world:    w,
		tracker:  tracker,
		store:    store,
		pipeline: pipeline,
		timeline: NewTimeline(sc.Inputs),
		poses:    make(map[string]tracking.Side),
		logger:   logger,
		steps:    int(cfg.Duration/cfg.Dt + 0.5),
	}
	for side, a := range setup.Poses {
		s.poses[a.Name] = side
	}
	for _, h := range hands {
		s.sides = append(s.sides, h.Side)
	}
	return s, nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Scenario() Scenario         { return s.scenario }
func (s *Simulator) Config() Config             { return s.cfg }
func (s *Simulator) World() *world.World        { return s.world }
func (s *Simulator) Session() *interact.Session { return s.pipeline.Session() }
func (s *Simulator) Done() bool                 { return s.step >= s.steps }
func (s *Simulator) Steps() int                 { return s.steps }

// Step runs one tick: hands, input sync, interaction, attachments, physics,
// then metrics and observers. Edges are consumed last.
func (s *Simulator) Step() Frame {
	dt := s.cfg.Dt
	s.now = float64(s.step) * dt

	s.tracker.Advance(s.now, dt)
	s.store.Sync(source{s})

	rep := s.pipeline.Tick()
	s.world.SyncAttachments(s.tracker.Pose)
	s.world.Step(dt)

	s.events = append(s.events, rep.Events...)
	s.skipped += len(rep.Skipped)
	s.disabled = s.disabled[:0]
	for _, fe := range rep.Disabled {
		s.disabled = append(s.disabled, fe.Error())
	}

	f := s.frame(rep.Events)
	for _, m := range s.metrics {
		m.Observe(f)
	}
	for _, o := range s.observers {
		o.OnFrame(f)
	}

	s.store.AdvanceFrame()
	s.step++
	return f
}

func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	for _, m := range s.metrics {
		m.Reset()
	}

	result := &Result{
		Scenario: s.scenario.Name,
		Frames:   make([]Frame, 0, s.steps),
		Metrics:  make(map[string]float64),
	}

	for !s.Done() {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}
		result.Frames = append(result.Frames, s.Step())
		result.StepsTaken++
	}

	result.Events = append(result.Events, s.events...)
	result.Disabled = append(result.Disabled, s.disabled...)
	result.Skipped = s.skipped
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.logger.Info("run finished",
		zap.Int("steps", result.StepsTaken),
		zap.Int("events", len(result.Events)),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

// RunWithCallback steps until the scenario ends or callback returns false.
func (s *Simulator) RunWithCallback(ctx context.Context, callback func(Frame) bool) error {
	for !s.Done() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if !callback(s.Step()) {
			return nil
		}
	}
	return nil
}

func (s *Simulator) frame(events []interact.Event) Frame {
	f := Frame{Step: s.step, Time: s.now, Events: events}
	for _, side := range s.sides {
		h, err := s.tracker.Hand(side)
		f.Hands = append(f.Hands, HandFrame{
			Side:     side,
			Tracked:  err == nil,
			Position: h.Pose.Position,
			Velocity: h.Velocity,
		})
	}
	session := s.pipeline.Session()
	for _, b := range s.world.Bodies() {
		f.Bodies = append(f.Bodies, BodyFrame{
			ID:       b.ID,
			Name:     b.Label(),
			Position: b.Transform.Position,
			Velocity: b.Velocity,
			State:    session.StateOf(b.ID),
		})
	}
	return f
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if cfg.Jitter < 0 {
		return fmt.Errorf("jitter must not be negative, got %f", cfg.Jitter)
	}
	return nil
}

// source feeds the store from the timeline and the tracked hand poses.
type source struct {
	s *Simulator
}

func (src source) State(a input.Action) (input.Value, error) {
	if side, ok := src.s.poses[a.Name]; ok {
		h, err := src.s.tracker.Hand(side)
		if err != nil {
			return nil, err
		}
		return input.Pose(h.Pose), nil
	}
	v, ok := src.s.timeline.At(a.Name, src.s.now)
	if !ok {
		return nil, fmt.Errorf("%s: %w", a.Name, ErrNoInput)
	}
	return v, nil
}
