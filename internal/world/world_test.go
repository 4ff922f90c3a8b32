package world_test

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/artdyn/internal/articulated"
	"github.com/san-kum/artdyn/internal/body"
	"github.com/san-kum/artdyn/internal/contact"
	"github.com/san-kum/artdyn/internal/integrators"
	"github.com/san-kum/artdyn/internal/world"
)

// counter is an entity whose values all grow at a constant rate.
type counter struct {
	body.EntityBase
	x    []float64
	rate float64
}

func newCounter(name string, size int, rate float64) *counter {
	return &counter{EntityBase: body.NewEntityBase(name), x: make([]float64, size), rate: rate}
}

func (c *counter) StateSize() int { return len(c.x) }
func (c *counter) WriteState(buf []float64) int { return copy(buf, c.x) }
func (c *counter) ReadState(buf []float64) int { return copy(c.x, buf) }
func (c *counter) InitState() {}
func (c *counter) ApplyForce(body.Force, float64) {}
func (c *counter) RigidBodies() []*body.RigidBody { return nil }
func (c *counter) Solve(float64) {}
func (c *counter) WriteDelta(buf []float64) int {
	for i := range c.x {
		buf[i] = c.rate
	}
	return len(c.x)
}

// threshold reports a catastrophe whenever the counter passes limit and resets
// it to zero when handled.
type threshold struct {
	c       *counter
	limit   float64
	handled []float64
}

func (m *threshold) Name() string { return "threshold" }

func (m *threshold) Check(t float64) float64 {
	return math.Max(0, m.c.x[0]-m.limit)
}

func (m *threshold) Handle(t float64) {
	m.handled = append(m.handled, t)
	m.c.x[0] = 0
}

type stepCount struct{ n int }

func (s *stepCount) OnStep(*world.World, float64) { s.n++ }

func evolve(w *world.World, until, dt float64) {
	for w.Time() < until-1e-12 {
		Expect(w.Step(dt)).To(Succeed())
	}
}

var _ = Describe("World", func() {
	var w *world.World

	BeforeEach(func() {
		w = world.New()
	})

	Describe("registration", func() {
		It("rejects an entity registered twice", func() {
			b := body.NewSphere("ball", 1, 0.5)
			Expect(w.AddEntity(b)).To(Succeed())
			Expect(w.AddEntity(b)).To(MatchError(world.ErrDuplicateEntity))
			Expect(world.New().AddEntity(b)).To(MatchError(world.ErrDuplicateEntity))
		})

		It("rejects deleting an unknown entity", func() {
			Expect(w.DeleteEntity(body.NewSphere("ghost", 1, 1))).To(MatchError(world.ErrUnknownEntity))
		})

		It("finds entities by name", func() {
			b := body.NewSphere("ball", 1, 0.5)
			Expect(w.AddEntity(b)).To(Succeed())
			e, err := w.Entity("ball")
			Expect(err).NotTo(HaveOccurred())
			Expect(e).To(BeIdenticalTo(b))
			_, err = w.Entity("nope")
			Expect(err).To(MatchError(world.ErrUnknownEntity))
		})

		It("reuses freed state and lets a deleted entity join again", func() {
			a := body.NewSphere("a", 1, 0.5)
			b := body.NewSphere("b", 1, 0.5)
			Expect(w.AddEntity(a)).To(Succeed())
			Expect(w.AddEntity(b)).To(Succeed())
			Expect(w.StateSize()).To(Equal(2 * body.RigidStateSize))

			Expect(w.DeleteEntity(a)).To(Succeed())
			Expect(a.Registered()).To(BeFalse())
			Expect(w.Entities()).To(ConsistOf(b))

			c := newCounter("c", 4, 1)
			Expect(w.AddEntity(c)).To(Succeed())
			Expect(c.Slot().Offset).To(Equal(0))
			Expect(w.StateSize()).To(Equal(2 * body.RigidStateSize))

			Expect(w.DeleteEntity(b)).To(Succeed())
			Expect(w.AddEntity(a)).To(Succeed())
		})

		It("pushes joint friction into articulated bodies", func() {
			s := world.DefaultSettings()
			s.JointFriction = 0.3
			s.CoulombFraction = 0.2
			w = world.New(world.WithSettings(s))
			chain := articulated.New("chain", body.NewSphere("root", 1, 0.1), articulated.Grounded)
			Expect(w.AddEntity(chain)).To(Succeed())
			Expect(chain.Friction).To(Equal(articulated.Friction{Viscous: 0.3, CoulombFraction: 0.2}))
		})
	})

	Describe("Evolve", func() {
		It("rejects a backwards interval", func() {
			Expect(w.Evolve(1, 0)).To(MatchError(world.ErrInvalidInterval))
			Expect(w.Evolve(0, math.Inf(1))).To(MatchError(world.ErrInvalidInterval))
		})

		It("needs an integrator", func() {
			w = world.New(world.WithIntegrator(nil))
			Expect(w.Evolve(0, 1)).To(MatchError(world.ErrNoIntegrator))
		})

		It("drops a body under gravity", func() {
			w = world.New(world.WithIntegrator(integrators.NewRK4()))
			b := body.NewRigidBody("body", 1, mgl64.Ident3())
			b.SetPosition(mgl64.Vec3{0, 0, 10})
			Expect(w.AddEntity(b)).To(Succeed())
			w.AddEnviroForce(body.StandardGravity())

			evolve(w, 1, 0.01)

			Expect(w.Time()).To(BeNumerically("~", 1, 1e-9))
			Expect(b.Position().Z()).To(BeNumerically("~", 10-0.5*9.81, 1e-6))
			Expect(b.Velocity().Z()).To(BeNumerically("~", -9.81, 1e-6))
			Expect(b.AngularVelocity().Len()).To(BeNumerically("~", 0, 1e-12))
		})

		It("advances each integrator", func() {
			for _, name := range integrators.Names() {
				integ, err := integrators.New(name)
				Expect(err).NotTo(HaveOccurred())
				w = world.New(world.WithIntegrator(integ))
				c := newCounter("c", 2, 3)
				Expect(w.AddEntity(c)).To(Succeed())
				evolve(w, 1, 0.1)
				Expect(c.x[0]).To(BeNumerically("~", 3, 1e-9), name)
			}
		})

		It("conserves the momentum of a spring pair", func() {
			a := body.NewSphere("a", 1, 0.2)
			b := body.NewSphere("b", 2, 0.2)
			b.SetPosition(mgl64.Vec3{1.5, 0, 0})
			a.SetVelocity(mgl64.Vec3{0, 1, 0})
			b.SetVelocity(mgl64.Vec3{0.5, 0, 0})
			s := &body.Spring{A: a, B: b, Stiffness: 20, Damping: 0, Rest: 1}
			a.AttachForce(s)
			b.AttachForce(s)
			Expect(w.AddEntity(a)).To(Succeed())
			Expect(w.AddEntity(b)).To(Succeed())

			p0 := w.TotalLinearMomentum()
			e0 := w.TotalEnergy()
			evolve(w, 2, 0.005)

			Expect(p0.ApproxEqualThreshold(mgl64.Vec3{1, 1, 0}, 1e-12)).To(BeTrue())
			Expect(w.TotalLinearMomentum().ApproxEqualThreshold(p0, 1e-9)).To(BeTrue())
			Expect(math.Abs(w.TotalEnergy()-e0) / e0).To(BeNumerically("<", 1e-4))
		})

		It("keeps a grounded pendulum's energy", func() {
			chain := articulated.New("pendulum", body.NewSphere("pivot", 1, 0.1), articulated.Grounded)
			id, err := chain.AddLink(articulated.Root, body.NewSphere("bob", 1, 0.1), articulated.Joint{
				Kind:        articulated.Revolute,
				Axis:        mgl64.Vec3{0, 1, 0},
				ChildOffset: mgl64.Vec3{0, 0, -1},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(chain.SetJoint(id, 1, 0)).To(Succeed())
			Expect(w.AddEntity(chain)).To(Succeed())
			w.AddEnviroForce(body.StandardGravity())

			e0 := w.TotalEnergy()
			evolve(w, 1, 0.001)

			Expect(w.TotalEnergy()).To(BeNumerically("~", e0, 1e-5))
			j, err := chain.Joint(id)
			Expect(err).NotTo(HaveOccurred())
			Expect(j.Q).NotTo(BeNumerically("~", 1, 1e-3))
		})

		It("moves an attached chain with a body registered after it", func() {
			chassis := body.NewSphere("chassis", 10, 0.5)
			chassis.SetVelocity(mgl64.Vec3{2, 0, 0})
			chain := articulated.NewAttached("crane", body.NewSphere("mount", 1, 0.1), articulated.FollowBody{Body: chassis})
			_, err := chain.AddLink(articulated.Root, body.NewSphere("hook", 1, 0.1), articulated.Joint{
				Axis:        mgl64.Vec3{0, 1, 0},
				ChildOffset: mgl64.Vec3{0, 0, -1},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(w.AddEntity(chain)).To(Succeed())
			Expect(w.AddEntity(chassis)).To(Succeed())

			evolve(w, 1, 0.01)

			root, err := chain.Link(articulated.Root)
			Expect(err).NotTo(HaveOccurred())
			Expect(chassis.Position().ApproxEqualThreshold(mgl64.Vec3{2, 0, 0}, 1e-9)).To(BeTrue())
			Expect(root.Body.Position().ApproxEqualThreshold(chassis.Position(), 1e-12)).To(BeTrue())
		})

		It("leaves frozen entities where they are", func() {
			b := body.NewSphere("ball", 1, 0.5)
			b.SetVelocity(mgl64.Vec3{1, 0, 0})
			b.SetFlags(body.Frozen)
			Expect(w.AddEntity(b)).To(Succeed())
			w.AddEnviroForce(body.StandardGravity())

			evolve(w, 0.5, 0.05)

			Expect(b.Position()).To(Equal(mgl64.Vec3{}))
			Expect(b.Velocity()).To(Equal(mgl64.Vec3{1, 0, 0}))
		})

		It("tells observers about every accepted step", func() {
			Expect(w.AddEntity(newCounter("c", 1, 1))).To(Succeed())
			obs := &stepCount{}
			w.AddObserver(obs)
			evolve(w, 1, 0.1)
			Expect(obs.n).To(Equal(10))
			Expect(w.Stats().Steps).To(Equal(10))
		})

		It("reports non-finite state with the offending entity", func() {
			Expect(w.AddEntity(newCounter("fine", 1, 1))).To(Succeed())
			Expect(w.AddEntity(newCounter("broken", 1, math.NaN()))).To(Succeed())

			err := w.Step(0.1)

			Expect(err).To(MatchError(world.ErrNonFinite))
			var se *world.StepError
			Expect(errors.As(err, &se)).To(BeTrue())
			Expect(se.Entity).To(Equal("broken"))
			Expect(se.Step).To(Equal(1))
		})

		It("resizes an entity whose state grew", func() {
			a := newCounter("a", 1, 1)
			b := newCounter("b", 2, 2)
			Expect(w.AddEntity(a)).To(Succeed())
			Expect(w.AddEntity(b)).To(Succeed())
			evolve(w, 0.5, 0.5)

			a.x = append(a.x, 10, 20)
			evolve(w, 1, 0.5)

			Expect(w.StateSize()).To(Equal(6))
			Expect(a.x).To(HaveLen(3))
			Expect(a.x[0]).To(BeNumerically("~", 1, 1e-12))
			Expect(a.x[2]).To(BeNumerically("~", 20.5, 1e-12))
			Expect(b.x[1]).To(BeNumerically("~", 2, 1e-12))
			Expect(w.State()).To(HaveLen(6))
		})
	})

	Describe("rewinding", func() {
		It("restores the state from the start of the last step", func() {
			b := body.NewSphere("ball", 1, 0.5)
			b.SetVelocity(mgl64.Vec3{0, 0, 3})
			Expect(w.AddEntity(b)).To(Succeed())
			w.AddEnviroForce(body.StandardGravity())
			evolve(w, 0.2, 0.1)

			before := w.State()
			Expect(w.DoTimeStep(0.2, 0.3)).To(Succeed())
			first := w.State()

			w.Rewind()
			Expect(w.Time()).To(Equal(0.2))
			Expect(w.Mode()).To(Equal(world.Rewound))
			Expect(w.State()).To(Equal(before))

			Expect(w.DoTimeStep(0.2, 0.3)).To(Succeed())
			Expect(w.State()).To(Equal(first))
		})

		It("skips entities excluded from rewinding", func() {
			kept := newCounter("kept", 1, 1)
			skipped := newCounter("skipped", 1, 1)
			skipped.SetFlags(body.ExcludeFromRewind)
			Expect(w.AddEntity(kept)).To(Succeed())
			Expect(w.AddEntity(skipped)).To(Succeed())

			Expect(w.DoTimeStep(0, 1)).To(Succeed())
			w.Rewind()

			Expect(kept.x[0]).To(Equal(0.0))
			Expect(skipped.x[0]).To(BeNumerically("~", 1, 1e-12))
		})
	})

	Describe("catastrophes", func() {
		var (
			c *counter
			m *threshold
		)

		BeforeEach(func() {
			c = newCounter("c", 1, 1)
			m = &threshold{c: c, limit: 0.55}
			Expect(w.AddEntity(c)).To(Succeed())
			w.RegisterCatastropheManager(m)
		})

		It("bisects to the moment of the catastrophe", func() {
			Expect(w.Evolve(0, 1)).To(Succeed())

			Expect(m.handled).To(HaveLen(1))
			Expect(m.handled[0]).To(BeNumerically(">", 0.55-1e-9))
			Expect(m.handled[0]).To(BeNumerically("<", 0.55+world.DefaultSettings().Epsilon))
			Expect(c.x[0]).To(BeNumerically("~", 1-m.handled[0], 1e-9))

			st := w.Stats()
			Expect(st.Catastrophes).To(Equal(1))
			Expect(st.Rewinds).To(BeNumerically(">", 1))
			Expect(st.CapHits).To(BeZero())
			Expect(w.Mode()).To(Equal(world.Normal))
			Expect(w.Time()).To(Equal(1.0))
		})

		It("accepts the state once the bisection cap is reached", func() {
			s := world.DefaultSettings()
			s.MaxBisections = 2
			w = world.New(world.WithSettings(s))
			c = newCounter("c", 1, 1)
			m = &threshold{c: c, limit: 0.55}
			Expect(w.AddEntity(c)).To(Succeed())
			w.RegisterCatastropheManager(m)

			Expect(w.Evolve(0, 1)).To(Succeed())

			Expect(m.handled).To(Equal([]float64{0.625}))
			Expect(w.Stats().CapHits).To(Equal(1))
		})

		It("bounces a ball off the ground", func() {
			w = world.New()
			b := body.NewSphere("ball", 1, 0.5)
			b.SetPosition(mgl64.Vec3{0, 0, 1.5})
			Expect(w.AddEntity(b)).To(Succeed())
			w.AddEnviroForce(body.StandardGravity())

			ground := contact.NewGroundPlane(0, 0.5)
			ground.AddProbe(b, 0.5)
			mgr := contact.NewManager("ground", ground, contact.DefaultOptions())
			w.RegisterCatastropheManager(mgr)
			w.AddForceSource(mgr)

			lowest, rising := math.Inf(1), false
			for w.Time() < 0.6-1e-12 {
				Expect(w.Step(0.01)).To(Succeed())
				lowest = math.Min(lowest, b.Position().Z())
				if b.Velocity().Z() > 0 {
					rising = true
				}
			}

			Expect(mgr.Impulses()).To(BeNumerically(">=", 1))
			Expect(rising).To(BeTrue())
			Expect(lowest).To(BeNumerically(">", 0.5-2*world.DefaultSettings().Epsilon))
			impact := math.Sqrt(2 / 9.81)
			vOut := 0.5 * 9.81 * impact
			Expect(b.Velocity().Z()).To(BeNumerically("~", vOut-9.81*(0.6-impact), 0.05))
		})
	})
})
