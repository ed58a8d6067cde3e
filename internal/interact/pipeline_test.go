package interact_test

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/san-kum/xrgrab/internal/geom"
	"github.com/san-kum/xrgrab/internal/input"
	"github.com/san-kum/xrgrab/internal/interact"
	"github.com/san-kum/xrgrab/internal/tracking"
	"github.com/san-kum/xrgrab/internal/world"
)

var squeeze = input.Named("right_squeeze", input.KindFloat)

type rig struct {
	world    *world.World
	hands    *tracking.Fixed
	store    *input.Store
	pipeline *interact.Pipeline
	events   []interact.Event
}

func newRig(bindings []interact.HandConfig, opts ...interact.Option) *rig {
	r := &rig{
		world: world.New(world.DefaultConfig()),
		hands: tracking.NewFixed(tracking.Hand{Side: tracking.Right, Pose: geom.Identity()}),
		store: input.NewStore(),
	}
	Expect(r.store.Register(squeeze, nil)).To(Succeed())

	opts = append(opts, interact.WithObserver(interact.ObserverFunc(func(e interact.Event) {
		r.events = append(r.events, e)
	})))
	p, err := interact.NewPipeline(r.world, r.hands, r.store, interact.DefaultTuning(), bindings, opts...)
	Expect(err).NotTo(HaveOccurred())
	r.pipeline = p
	return r
}

func (r *rig) setHand(pose geom.Transform, vel mgl64.Vec3) {
	r.hands.Set(tracking.Hand{Side: tracking.Right, Pose: pose, Velocity: vel})
}

// tick sets the squeeze level, runs the pipeline and advances the store.
func (r *rig) tick(level float64) interact.Report {
	Expect(r.store.Set(squeeze.Name, input.Float(level))).To(Succeed())
	rep := r.pipeline.Tick()
	r.store.AdvanceFrame()
	return rep
}

func (r *rig) state(id world.BodyID) interact.State {
	return r.pipeline.Session().StateOf(id)
}

func (r *rig) body(id world.BodyID) *world.Body {
	b, ok := r.world.Body(id)
	Expect(ok).To(BeTrue())
	return b
}

// facingX points the hand's palm (local -Y) along world +X.
func facingX() geom.Transform {
	return geom.Identity().Rotated(math.Pi/2, mgl64.Vec3{0, 0, 1})
}

var _ = Describe("Pipeline", func() {
	var r *rig

	BeforeEach(func() {
		r = newRig(nil)
	})

	Describe("gravity grab", func() {
		var crate world.BodyID

		BeforeEach(func() {
			crate = r.world.Add(world.NewBox("crate", mgl64.Vec3{2, 0, 0}, mgl64.Vec3{0.25, 0.25, 0.25}))
			r.setHand(facingX(), mgl64.Vec3{})
		})

		It("targets a free object in front of the palm", func() {
			rep := r.tick(0)
			Expect(r.state(crate)).To(Equal(interact.Targeted))
			Expect(rep.Count(interact.EventTargeted)).To(Equal(1))

			rep = r.tick(0)
			Expect(r.state(crate)).To(Equal(interact.Targeted))
			Expect(rep.Count(interact.EventTargeted)).To(BeZero())
		})

		It("pulls on the squeeze edge with the hand's vertical velocity", func() {
			r.tick(0)
			r.setHand(facingX(), mgl64.Vec3{0.1, 0.2, 0.05})
			r.body(crate).Velocity = mgl64.Vec3{0.7, 0, -0.3}

			rep := r.tick(1)
			Expect(r.state(crate)).To(Equal(interact.Pulled))
			Expect(rep.Count(interact.EventPulled)).To(Equal(1))

			v := r.body(crate).Velocity
			Expect(v[1]).To(Equal(0.2))
			Expect(v[0]).To(Equal(0.7))
			Expect(v[2]).To(Equal(-0.3))
		})

		It("pulls with zero vertical velocity when the hand is still", func() {
			r.tick(0)
			r.body(crate).Velocity = mgl64.Vec3{0, -1, 0}
			r.tick(1)
			Expect(r.state(crate)).To(Equal(interact.Pulled))
			Expect(r.body(crate).Velocity[1]).To(BeZero())
		})

		It("targets and pulls in one tick when the edge coincides", func() {
			rep := r.tick(1)
			Expect(rep.Count(interact.EventTargeted)).To(Equal(1))
			Expect(rep.Count(interact.EventPulled)).To(Equal(1))
			Expect(r.state(crate)).To(Equal(interact.Pulled))
		})

		It("does not pull without a fresh edge", func() {
			r.setHand(geom.Identity(), mgl64.Vec3{})
			r.tick(1)
			r.setHand(facingX(), mgl64.Vec3{})
			r.tick(1)
			Expect(r.state(crate)).To(Equal(interact.Targeted))
		})

		It("drops the target as soon as the sweep misses", func() {
			r.tick(0)
			Expect(r.state(crate)).To(Equal(interact.Targeted))

			r.setHand(geom.Identity(), mgl64.Vec3{})
			r.tick(0)
			Expect(r.state(crate)).To(Equal(interact.Free))
			_, _, ok := r.pipeline.Session().Targeted()
			Expect(ok).To(BeFalse())
		})

		It("ignores objects beyond the targeting distance", func() {
			far := r.world.Add(world.NewBox("far", mgl64.Vec3{0, 0, 3}, mgl64.Vec3{0.25, 0.25, 0.25}))
			r.setHand(geom.Identity().Rotated(-math.Pi/2, mgl64.Vec3{1, 0, 0}), mgl64.Vec3{})
			r.tick(0)
			Expect(r.state(far)).To(Equal(interact.Free))
		})

		It("ignores bodies that are not grabbable", func() {
			r.body(crate).Grabbable = false
			r.tick(0)
			Expect(r.state(crate)).To(Equal(interact.Free))
		})

		Context("while pulled", func() {
			BeforeEach(func() {
				r.tick(0)
				r.tick(1)
				Expect(r.state(crate)).To(Equal(interact.Pulled))
			})

			It("follows the hand and launches once the hand exceeds the threshold", func() {
				for _, speed := range []float64{0.0, 0.2, 0.4, 0.5} {
					vel := mgl64.Vec3{-speed, 0, 0}
					r.setHand(facingX(), vel)
					rep := r.tick(1)
					Expect(rep.Count(interact.EventLaunched)).To(BeZero())
					Expect(r.state(crate)).To(Equal(interact.Pulled))
					Expect(r.body(crate).Velocity).To(Equal(vel))
				}

				r.setHand(facingX(), mgl64.Vec3{-0.6, 0, 0})
				rep := r.tick(1)
				Expect(rep.Count(interact.EventLaunched)).To(Equal(1))
				Expect(r.state(crate)).To(Equal(interact.Free))

				b := r.body(crate)
				want := interact.DefaultTuning().LaunchVelocity(facingX(), b.Transform)
				Expect(b.Velocity).To(Equal(want))
				Expect(b.Velocity).NotTo(Equal(mgl64.Vec3{-0.6, 0, 0}))
				Expect(b.Velocity[0]).To(BeNumerically("<", 0))
				Expect(b.Velocity[1]).To(BeNumerically(">", 0))
			})

			It("aborts without touching velocity when the squeeze is let go", func() {
				r.body(crate).Velocity = mgl64.Vec3{0.1, 0.3, 0}
				r.setHand(facingX(), mgl64.Vec3{2, 2, 2})

				rep := r.tick(0)
				Expect(rep.Count(interact.EventAborted)).To(Equal(1))
				Expect(r.body(crate).Velocity).To(Equal(mgl64.Vec3{0.1, 0.3, 0}))
				Expect(r.state(crate)).NotTo(Equal(interact.Pulled))
			})

			It("does not target anything else", func() {
				other := r.world.Add(world.NewBox("other", mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0.1, 0.1, 0.1}))
				r.tick(1)
				Expect(r.state(other)).To(Equal(interact.Free))
			})
		})
	})

	Describe("grab", func() {
		It("holds exactly one of two overlapping objects", func() {
			r.setHand(geom.At(0, 1, 0), mgl64.Vec3{})
			a := r.world.Add(world.NewBox("a", mgl64.Vec3{0.05, 1, 0}, mgl64.Vec3{0.05, 0.05, 0.05}))
			b := r.world.Add(world.NewBox("b", mgl64.Vec3{-0.02, 1, 0}, mgl64.Vec3{0.05, 0.05, 0.05}))

			rep := r.tick(1)
			Expect(rep.Count(interact.EventGrabbed)).To(Equal(1))
			Expect(r.state(a)).To(Equal(interact.Free))
			Expect(r.state(b)).To(Equal(interact.Held))
		})

		It("breaks distance ties by lowest id", func() {
			r.setHand(geom.At(0, 1, 0), mgl64.Vec3{})
			a := r.world.Add(world.NewBox("a", mgl64.Vec3{0.05, 1, 0}, mgl64.Vec3{0.05, 0.05, 0.05}))
			b := r.world.Add(world.NewBox("b", mgl64.Vec3{-0.05, 1, 0}, mgl64.Vec3{0.05, 0.05, 0.05}))

			r.tick(1)
			Expect(r.state(a)).To(Equal(interact.Held))
			Expect(r.state(b)).To(Equal(interact.Free))
		})

		It("grabs only on the edge", func() {
			r.setHand(geom.At(0, 1, 0), mgl64.Vec3{})
			r.tick(1)
			id := r.world.Add(world.NewBox("late", mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0.05, 0.05, 0.05}))
			r.tick(1)
			Expect(r.state(id)).To(Equal(interact.Free))
		})

		It("attaches the object at the grip and stops simulating it", func() {
			hand := geom.At(0, 1, 0).Rotated(0.3, mgl64.Vec3{0, 1, 0})
			r.setHand(hand, mgl64.Vec3{})
			id := r.world.Add(world.NewBox("cup", mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0.04, 0.06, 0.03}))
			r.body(id).Velocity = mgl64.Vec3{1, 0, 0}

			r.tick(1)
			b := r.body(id)
			Expect(b.Simulated).To(BeFalse())
			Expect(b.Velocity).To(Equal(mgl64.Vec3{}))
			Expect(b.Attachment).NotTo(BeNil())
			Expect(b.Attachment.Hand).To(Equal("right"))
			local := b.Attachment.Local.Position
			Expect(local[0]).To(BeNumerically("~", -0.065, 1e-12))
			Expect(local[1]).To(BeZero())
			Expect(local[2]).To(BeNumerically("~", -0.03, 1e-12))
			Expect(b.Attachment.Local.Rotation).To(Equal(mgl64.QuatIdent()))
		})

		It("releases with exactly the hand velocity", func() {
			r.setHand(geom.At(0, 1, 0), mgl64.Vec3{})
			id := r.world.Add(world.NewBox("ball", mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0.05, 0.05, 0.05}))
			r.tick(1)
			Expect(r.state(id)).To(Equal(interact.Held))

			hand := geom.At(0.3, 1.4, -0.2)
			vel := mgl64.Vec3{1.25, 2.5, -0.75}
			r.setHand(hand, vel)
			r.tick(0.4)
			Expect(r.state(id)).To(Equal(interact.Held))

			rep := r.tick(0)
			Expect(rep.Count(interact.EventReleased)).To(Equal(1))
			Expect(r.state(id)).To(Equal(interact.Free))

			b := r.body(id)
			Expect(b.Velocity).To(Equal(vel))
			Expect(b.Simulated).To(BeTrue())
			Expect(b.Attachment).To(BeNil())
			Expect(b.Transform.Position).To(Equal(hand.Apply(interact.DefaultTuning().GripTransform(b.HalfExtents).Position)))
		})

		It("lets a pull started on the same squeeze win over a grab", func() {
			r.setHand(facingX(), mgl64.Vec3{})
			crate := r.world.Add(world.NewBox("crate", mgl64.Vec3{2, 0, 0}, mgl64.Vec3{0.25, 0.25, 0.25}))
			pebble := r.world.Add(world.NewBox("pebble", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0.03, 0.03, 0.03}))
			r.tick(0)
			Expect(r.state(crate)).To(Equal(interact.Targeted))

			rep := r.tick(1)
			Expect(rep.Count(interact.EventPulled)).To(Equal(1))
			Expect(rep.Count(interact.EventGrabbed)).To(BeZero())
			Expect(rep.Skipped).To(BeEmpty())
			Expect(r.state(pebble)).To(Equal(interact.Free))

			_, _, held := r.pipeline.Session().Held()
			Expect(held).To(BeFalse())
		})

		It("blocks gravity targeting while holding", func() {
			r.setHand(geom.At(0, 1, 0), mgl64.Vec3{})
			held := r.world.Add(world.NewBox("held", mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0.05, 0.05, 0.05}))
			r.tick(1)
			Expect(r.state(held)).To(Equal(interact.Held))

			far := r.world.Add(world.NewBox("far", mgl64.Vec3{2, 1, 0}, mgl64.Vec3{0.25, 0.25, 0.25}))
			r.setHand(geom.At(0, 1, 0).Rotated(math.Pi/2, mgl64.Vec3{0, 0, 1}), mgl64.Vec3{})
			r.tick(1)
			Expect(r.state(far)).To(Equal(interact.Free))
		})
	})

	It("never has more than one held or pulled object", func() {
		ids := []world.BodyID{
			r.world.Add(world.NewBox("near", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0.05, 0.05, 0.05})),
			r.world.Add(world.NewBox("mid", mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0.2, 0.2, 0.2})),
			r.world.Add(world.NewBox("far", mgl64.Vec3{2, 0, 0}, mgl64.Vec3{0.2, 0.2, 0.2})),
		}
		poses := []geom.Transform{geom.Identity(), facingX(), geom.At(1, 0, 0), geom.At(0.5, 0, 0).Rotated(math.Pi/2, mgl64.Vec3{0, 0, 1})}
		levels := []float64{0, 1, 1, 0, 1, 0, 0, 1}

		for i := 0; i < 64; i++ {
			r.setHand(poses[i%len(poses)], mgl64.Vec3{float64(i%3) * 0.3, 0, 0})
			r.tick(levels[i%len(levels)])

			held, pulled := 0, 0
			for _, id := range ids {
				switch r.state(id) {
				case interact.Held:
					held++
				case interact.Pulled:
					pulled++
				}
			}
			Expect(held).To(BeNumerically("<=", 1))
			Expect(pulled).To(BeNumerically("<=", 1))
		}
	})

	It("skips the tick while spatial queries are unavailable", func() {
		crate := r.world.Add(world.NewBox("crate", mgl64.Vec3{2, 0, 0}, mgl64.Vec3{0.25, 0.25, 0.25}))
		r.setHand(facingX(), mgl64.Vec3{})
		r.world.SetReady(false)

		rep := r.tick(0)
		Expect(rep.Events).To(BeEmpty())
		Expect(rep.Skipped).NotTo(BeEmpty())
		Expect(errors.Is(rep.Skipped[0], world.ErrQueryUnavailable)).To(BeTrue())
		Expect(r.state(crate)).To(Equal(interact.Free))

		r.world.SetReady(true)
		rep = r.tick(0)
		Expect(rep.Skipped).To(BeEmpty())
		Expect(r.state(crate)).To(Equal(interact.Targeted))
	})

	It("treats an untracked hand as a quiet skip", func() {
		r.hands.Lose(tracking.Right)
		rep := r.tick(1)
		Expect(rep.Skipped).To(BeEmpty())
		Expect(rep.Events).To(BeEmpty())
	})

	It("notifies observers in event order", func() {
		crate := r.world.Add(world.NewBox("crate", mgl64.Vec3{2, 0, 0}, mgl64.Vec3{0.25, 0.25, 0.25}))
		r.setHand(facingX(), mgl64.Vec3{})
		r.tick(1)
		r.tick(0)
		r.tick(1)

		kinds := make([]interact.EventKind, len(r.events))
		for i, e := range r.events {
			kinds[i] = e.Kind
			Expect(e.Body).To(Equal(crate))
		}
		Expect(kinds).To(Equal([]interact.EventKind{
			interact.EventTargeted, interact.EventPulled,
			interact.EventAborted, interact.EventTargeted,
			interact.EventPulled,
		}))
	})
})

var _ = Describe("Feature configuration", func() {
	It("disables only the misconfigured feature and logs once", func() {
		core, logs := observer.New(zapcore.ErrorLevel)
		bindings := []interact.HandConfig{{
			Side:        tracking.Right,
			Grab:        squeeze,
			GravityGrab: input.Named("left_trigger", input.KindFloat),
		}}
		r := newRig(bindings, interact.WithLogger(zap.New(core)))
		r.setHand(geom.At(0, 1, 0), mgl64.Vec3{})
		id := r.world.Add(world.NewBox("ball", mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0.05, 0.05, 0.05}))

		rep := r.tick(1)
		Expect(rep.Disabled).To(HaveLen(1))
		Expect(rep.Disabled[0].Feature).To(Equal(interact.FeatureGravityGrab))
		Expect(errors.Is(rep.Disabled[0], input.ErrActionNotFound)).To(BeTrue())
		Expect(r.state(id)).To(Equal(interact.Held))

		r.tick(0)
		r.tick(1)
		Expect(logs.FilterMessage("feature disabled").Len()).To(Equal(1))
	})

	It("disables a feature bound to an action of the wrong kind", func() {
		bindings := []interact.HandConfig{{
			Side:        tracking.Right,
			Grab:        input.Named("right_squeeze", input.KindBool),
			GravityGrab: squeeze,
		}}
		r := newRig(bindings)
		rep := r.tick(1)
		Expect(rep.Disabled).To(HaveLen(1))
		Expect(rep.Disabled[0].Feature).To(Equal(interact.FeatureGrab))
		Expect(errors.Is(rep.Disabled[0], input.ErrActionKindMismatch)).To(BeTrue())
	})

	It("disables a feature bound to an action without a press edge", func() {
		core, logs := observer.New(zapcore.ErrorLevel)
		bindings := []interact.HandConfig{{
			Side:        tracking.Right,
			Grab:        input.Named("right_joystick", input.KindVec2),
			GravityGrab: squeeze,
		}}
		r := newRig(bindings, interact.WithLogger(zap.New(core)))
		Expect(logs.FilterMessage("feature disabled").Len()).To(Equal(1))

		crate := r.world.Add(world.NewBox("crate", mgl64.Vec3{2, 0, 0}, mgl64.Vec3{0.25, 0.25, 0.25}))
		r.setHand(facingX(), mgl64.Vec3{})
		r.tick(0)
		rep := r.tick(1)
		Expect(rep.Disabled).To(HaveLen(1))
		Expect(rep.Disabled[0].Feature).To(Equal(interact.FeatureGrab))
		Expect(errors.Is(rep.Disabled[0], interact.ErrTriggerKind)).To(BeTrue())
		Expect(rep.Count(interact.EventPulled)).To(Equal(1))
		Expect(r.state(crate)).To(Equal(interact.Pulled))
		Expect(logs.FilterMessage("feature disabled").Len()).To(Equal(1))
	})

	It("rejects invalid tuning and duplicate hands", func() {
		tn := interact.DefaultTuning()
		tn.SweepRadius = 0
		_, err := interact.NewPipeline(world.New(world.DefaultConfig()), tracking.NewFixed(), input.NewStore(), tn, nil)
		Expect(err).To(HaveOccurred())

		dup := append(interact.DefaultHands(), interact.DefaultHands()...)
		_, err = interact.NewPipeline(world.New(world.DefaultConfig()), tracking.NewFixed(), input.NewStore(), interact.DefaultTuning(), dup)
		Expect(err).To(HaveOccurred())
	})
})
