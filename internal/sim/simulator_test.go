package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/xrgrab/internal/geom"
	"github.com/san-kum/xrgrab/internal/input"
	"github.com/san-kum/xrgrab/internal/interact"
	"github.com/san-kum/xrgrab/internal/tracking"
	"github.com/san-kum/xrgrab/internal/world"
)

func squeezeAt(t, level float64) InputEvent {
	return InputEvent{Time: t, Action: "right_squeeze", Value: input.Float(level)}
}

// pickUp grabs a resting ball, lifts it and lets go mid-swing.
func pickUp() Scenario {
	return Scenario{
		Name:     "pick-up",
		Duration: 1.5,
		Bodies: []BodySpec{{
			Name:        "ball",
			Position:    mgl64.Vec3{0, 0.05, 0},
			HalfExtents: mgl64.Vec3{0.05, 0.05, 0.05},
		}},
		Hands: map[tracking.Side][]tracking.Keyframe{tracking.Right: {
			{Time: 0, Pose: geom.At(0, 0.12, 0)},
			{Time: 0.3, Pose: geom.At(0, 0.12, 0)},
			{Time: 1.0, Pose: geom.At(0.7, 0.82, 0)},
		}},
		Inputs: []InputEvent{squeezeAt(0, 0), squeezeAt(0.1, 1), squeezeAt(0.8, 0)},
	}
}

func testSetup() Setup {
	return Setup{
		Tuning: interact.DefaultTuning(),
		Poses:  map[tracking.Side]input.Action{tracking.Right: input.Named("right_pose", input.KindPose)},
		World:  world.DefaultConfig(),
		Config: Config{Dt: 0.01},
	}
}

type countingMetric struct {
	frames int
}

func (c *countingMetric) Name() string    { return "frames" }
func (c *countingMetric) Observe(f Frame) { c.frames++ }
func (c *countingMetric) Value() float64  { return float64(c.frames) }
func (c *countingMetric) Reset()          { c.frames = 0 }

func TestSimulatorRun(t *testing.T) {
	s, err := New(pickUp(), testSetup())
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	metric := &countingMetric{}
	s.AddMetric(metric)

	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.StepsTaken != 150 || len(result.Frames) != 150 {
		t.Errorf("expected 150 steps, got %d (%d frames)", result.StepsTaken, len(result.Frames))
	}
	if result.Metrics["frames"] != 150 {
		t.Errorf("metric not observed every frame: %v", result.Metrics)
	}
	if result.Count(interact.EventGrabbed) != 1 || result.Count(interact.EventReleased) != 1 {
		t.Fatalf("expected one grab and one release, got %v", result.Events)
	}
	if len(result.Disabled) != 0 || result.Skipped != 0 {
		t.Errorf("unexpected disabled %v skipped %d", result.Disabled, result.Skipped)
	}
}

func TestSimulatorReleaseUsesHandVelocity(t *testing.T) {
	s, err := New(pickUp(), testSetup())
	if err != nil {
		t.Fatal(err)
	}
	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	for _, f := range result.Frames {
		for _, e := range f.Events {
			if e.Kind != interact.EventReleased {
				continue
			}
			h, ok := f.Hand(tracking.Right)
			if !ok {
				t.Fatal("hand missing from release frame")
			}
			if e.Velocity != h.Velocity {
				t.Errorf("release velocity %v != hand velocity %v", e.Velocity, h.Velocity)
			}
			if !h.Velocity.ApproxEqualThreshold(mgl64.Vec3{1, 1, 0}, 1e-6) {
				t.Errorf("expected swing velocity (1,1,0), got %v", h.Velocity)
			}
			return
		}
	}
	t.Fatal("no release frame")
}

func TestSimulatorCarriesHeldBody(t *testing.T) {
	s, err := New(pickUp(), testSetup())
	if err != nil {
		t.Fatal(err)
	}
	var lifted bool
	err = s.RunWithCallback(context.Background(), func(f Frame) bool {
		b, _ := f.Body(1)
		if b.State == interact.Held && b.Position[1] > 0.5 {
			lifted = true
			return false
		}
		return true
	})
	if err != nil {
		t.Fatal(err)
	}
	if !lifted {
		t.Error("held ball never followed the hand upward")
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"negative jitter", Config{Dt: 0.1, Duration: 1.0, Jitter: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup := testSetup()
			setup.Config = tt.cfg
			if _, err := New(pickUp(), setup); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}

	sc := pickUp()
	sc.Duration = 0
	if _, err := New(sc, testSetup()); err == nil {
		t.Error("expected error without any duration")
	}
}

func TestScenarioValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(s *Scenario)
	}{
		{"no name", func(s *Scenario) { s.Name = "" }},
		{"no hands", func(s *Scenario) { s.Hands = nil }},
		{"flat body", func(s *Scenario) { s.Bodies[0].HalfExtents[1] = 0 }},
		{"input without value", func(s *Scenario) { s.Inputs[0].Value = nil }},
		{"input before start", func(s *Scenario) { s.Inputs[0].Time = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := pickUp()
			tt.edit(&sc)
			if err := sc.Validate(); !errors.Is(err, ErrInvalidScenario) {
				t.Errorf("expected ErrInvalidScenario, got %v", err)
			}
		})
	}
}

func TestTimeline(t *testing.T) {
	tl := NewTimeline([]InputEvent{squeezeAt(1, 1), squeezeAt(0, 0), squeezeAt(2, 0.5)})

	if _, ok := tl.At("right_squeeze", -0.5); ok {
		t.Error("expected nothing before the first event")
	}
	tests := []struct {
		at   float64
		want input.Float
	}{
		{0, 0},
		{0.99, 0},
		{1, 1},
		{1.5, 1},
		{3, 0.5},
	}
	for _, tt := range tests {
		v, ok := tl.At("right_squeeze", tt.at)
		if !ok || v != tt.want {
			t.Errorf("t=%v: expected %v, got %v (%v)", tt.at, tt.want, v, ok)
		}
	}
	if _, ok := tl.At("left_squeeze", 1); ok {
		t.Error("expected nothing for an unscheduled action")
	}
	if tl.End() != 2 {
		t.Errorf("expected end 2, got %v", tl.End())
	}
}

func TestRunAll(t *testing.T) {
	var sims []*Simulator
	for _, d := range []float64{0.5, 1.0} {
		sc := pickUp()
		sc.Duration = d
		s, err := New(sc, testSetup())
		if err != nil {
			t.Fatal(err)
		}
		sims = append(sims, s)
	}

	results, err := RunAll(context.Background(), sims)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 || results[0].StepsTaken != 50 || results[1].StepsTaken != 100 {
		t.Errorf("unexpected results order or length")
	}
}

func TestRunCancelled(t *testing.T) {
	s, err := New(pickUp(), testSetup())
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestEnsembleSeeds(t *testing.T) {
	build := func(seed int64) (*Simulator, error) {
		setup := testSetup()
		setup.Config.Jitter = 0.001
		setup.Config.Seed = seed
		return New(pickUp(), setup)
	}
	results, err := NewEnsemble(build, 3, 10).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	a, _ := results[0].Frames[20].Hand(tracking.Right)
	b, _ := results[1].Frames[20].Hand(tracking.Right)
	if a.Position == b.Position {
		t.Error("expected different seeds to jitter differently")
	}
}
