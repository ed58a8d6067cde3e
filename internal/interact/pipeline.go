package interact

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/san-kum/xrgrab/internal/geom"
	"github.com/san-kum/xrgrab/internal/input"
	"github.com/san-kum/xrgrab/internal/tracking"
	"github.com/san-kum/xrgrab/internal/world"
)

// Spatial answers point-in-time collision queries against the physics world.
type Spatial interface {
	Overlap(origin mgl64.Vec3, rot mgl64.Quat, halfExtents mgl64.Vec3, f world.Filter) ([]world.BodyID, error)
	Sweep(origin mgl64.Vec3, rot mgl64.Quat, dir mgl64.Vec3, radius, maxDist float64, f world.Filter) (world.Hit, bool, error)
}

type Bodies interface {
	Body(id world.BodyID) (*world.Body, bool)
}

// World is everything the machines need from the physics side.
type World interface {
	Spatial
	Bodies
	Attach(id world.BodyID, hand string, local geom.Transform) error
	Detach(id world.BodyID, at geom.Transform) error
}

type Hands interface {
	Hand(side tracking.Side) (tracking.Hand, error)
}

type Actions interface {
	Sample(a input.Action) (input.Sample, error)
}

// Report describes one tick.
type Report struct {
	Tick   uint64
	Events []Event

	// Disabled lists every feature switched off by a configuration error so
	// far.
	Disabled []*FeatureError

	// Skipped holds transient failures; the affected machine did nothing this
	// tick.
	Skipped []error
}

func (r *Report) add(kind EventKind, id world.BodyID, hand tracking.Side, vel mgl64.Vec3) {
	r.Events = append(r.Events, Event{Tick: r.Tick, Kind: kind, Body: id, Hand: hand, Velocity: vel})
}

// Count returns how many events of kind happened this tick.
func (r Report) Count(kind EventKind) int {
	n := 0
	for _, e := range r.Events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

type Option func(*Pipeline)

func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

func WithObserver(o Observer) Option {
	return func(p *Pipeline) {
		p.observers = append(p.observers, o)
	}
}

type featureKey struct {
	side    tracking.Side
	feature Feature
}

// Pipeline runs both machines for every configured hand, once per tick.
type Pipeline struct {
	hands     Hands
	actions   Actions
	bindings  []HandConfig
	session   *Session
	grab      *GrabMachine
	gravity   *GravityMachine
	logger    *zap.Logger
	observers []Observer

	disabled map[featureKey]*FeatureError
	order    []featureKey
	tick     uint64
}

func NewPipeline(w World, hands Hands, actions Actions, tuning Tuning, bindings []HandConfig, opts ...Option) (*Pipeline, error) {
	if err := tuning.Validate(); err != nil {
		return nil, fmt.Errorf("interact: invalid tuning: %w", err)
	}
	if len(bindings) == 0 {
		bindings = DefaultHands()
	}
	seen := make(map[tracking.Side]bool, len(bindings))
	for _, b := range bindings {
		if seen[b.Side] {
			return nil, fmt.Errorf("interact: hand %q configured twice", b.Side)
		}
		seen[b.Side] = true
	}

	s := NewSession()
	p := &Pipeline{
		hands:    hands,
		actions:  actions,
		bindings: bindings,
		session:  s,
		grab:     NewGrabMachine(w, s, tuning),
		gravity:  NewGravityMachine(w, s, tuning),
		logger:   zap.NewNop(),
		disabled: make(map[featureKey]*FeatureError),
	}
	for _, opt := range opts {
		opt(p)
	}
	for _, b := range bindings {
		p.checkTrigger(b.Side, FeatureGravityGrab, b.GravityGrab)
		p.checkTrigger(b.Side, FeatureGrab, b.Grab)
	}
	return p, nil
}

// checkTrigger disables a feature whose action can never report a press.
func (p *Pipeline) checkTrigger(side tracking.Side, feature Feature, a input.Action) {
	if a.Kind == input.KindBool || a.Kind == input.KindFloat {
		return
	}
	p.disable(featureKey{side: side, feature: feature}, fmt.Errorf("%w: %q is %s", ErrTriggerKind, a.Name, a.Kind))
}

func (p *Pipeline) Session() *Session { return p.session }

// Tick clears the target, runs the gravity machine for every hand, then the
// grab machine for every hand. The caller advances the action store
// afterwards.
func (p *Pipeline) Tick() Report {
	p.tick++
	rep := &Report{Tick: p.tick}

	hands := make(map[tracking.Side]tracking.Hand, len(p.bindings))
	for _, b := range p.bindings {
		h, err := p.hands.Hand(b.Side)
		if err != nil {
			p.skip(rep, b.Side, "", err)
			continue
		}
		hands[b.Side] = h
	}

	p.gravity.BeginTick()
	for _, b := range p.bindings {
		h, ok := hands[b.Side]
		if !ok {
			continue
		}
		p.run(rep, h, FeatureGravityGrab, b.GravityGrab, p.gravity.Update)
	}
	for _, b := range p.bindings {
		h, ok := hands[b.Side]
		if !ok {
			continue
		}
		p.run(rep, h, FeatureGrab, b.Grab, p.grab.Update)
	}

	for _, k := range p.order {
		rep.Disabled = append(rep.Disabled, p.disabled[k])
	}
	return *rep
}

func (p *Pipeline) run(rep *Report, hand tracking.Hand, feature Feature, action input.Action,
	update func(tracking.Hand, input.Sample, *Report) error) {
	key := featureKey{side: hand.Side, feature: feature}
	if _, off := p.disabled[key]; off {
		return
	}

	sample, err := p.actions.Sample(action)
	if err != nil {
		if errors.Is(err, input.ErrActionNotFound) || errors.Is(err, input.ErrActionKindMismatch) {
			p.disable(key, err)
			return
		}
		p.skip(rep, hand.Side, feature, err)
		return
	}

	before := len(rep.Events)
	if err := update(hand, sample, rep); err != nil {
		p.skip(rep, hand.Side, feature, err)
	}
	for _, e := range rep.Events[before:] {
		p.emit(e)
	}
}

func (p *Pipeline) disable(key featureKey, err error) {
	fe := &FeatureError{Side: key.side, Feature: key.feature, Wrapped: err}
	p.disabled[key] = fe
	p.order = append(p.order, key)
	p.logger.Error("feature disabled",
		zap.String("hand", string(key.side)),
		zap.String("feature", string(key.feature)),
		zap.Error(err))
}

func (p *Pipeline) skip(rep *Report, side tracking.Side, feature Feature, err error) {
	if errors.Is(err, tracking.ErrNoHandTracked) {
		return
	}
	rep.Skipped = append(rep.Skipped, err)

	fields := []zap.Field{zap.Uint64("tick", p.tick), zap.String("hand", string(side)), zap.Error(err)}
	if feature != "" {
		fields = append(fields, zap.String("feature", string(feature)))
	}
	if errors.Is(err, world.ErrQueryUnavailable) || errors.Is(err, tracking.ErrTrackerNotReady) {
		p.logger.Debug("tick skipped", fields...)
		return
	}
	p.logger.Warn("tick skipped", fields...)
}

func (p *Pipeline) emit(e Event) {
	p.logger.Debug("transition",
		zap.Uint64("tick", e.Tick),
		zap.Stringer("event", e.Kind),
		zap.Stringer("body", e.Body),
		zap.String("hand", string(e.Hand)))
	for _, o := range p.observers {
		o.OnEvent(e)
	}
}
