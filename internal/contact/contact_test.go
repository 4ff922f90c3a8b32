package contact_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/artdyn/internal/articulated"
	"github.com/san-kum/artdyn/internal/body"
	"github.com/san-kum/artdyn/internal/contact"
)

var (
	_ contact.Body     = (*body.RigidBody)(nil)
	_ contact.Body     = (*articulated.LinkRef)(nil)
	_ contact.Coupled  = (*articulated.LinkRef)(nil)
	_ contact.Detector = (*contact.GroundPlane)(nil)
	_ contact.Detector = (*contact.SphereSet)(nil)
)

const g = 9.81

var up = mgl64.Vec3{0, 0, 1}

func ball(name string, mass float64, pos mgl64.Vec3) *body.RigidBody {
	b := body.NewSphere(name, mass, 0.5)
	b.SetPosition(pos)
	return b
}

func withGravity(bs ...*body.RigidBody) {
	grav := body.StandardGravity()
	for _, b := range bs {
		b.InitState()
		grav.Apply(b, 0)
	}
}

func expectComplementary(res contact.Result) {
	for i := range res.Forces {
		if !res.Resting[i] {
			continue
		}
		Expect(res.Forces[i]).To(BeNumerically(">=", -1e-9), "force %d", i)
		Expect(res.Accelerations[i]).To(BeNumerically(">=", -1e-9), "acceleration %d", i)
		Expect(math.Abs(res.Forces[i]*res.Accelerations[i])).To(BeNumerically("<", 1e-8), "product %d", i)
	}
}

var _ = Describe("Solve", func() {
	opt := contact.DefaultOptions()

	It("holds a resting ball against gravity", func() {
		b := ball("ball", 2, mgl64.Vec3{0, 0, 0.5})
		withGravity(b)
		cs := []contact.Contact{{A: b, Point: mgl64.Vec3{}, Normal: up}}

		res := contact.Apply(cs, opt)

		Expect(res.Resting[0]).To(BeTrue())
		Expect(res.Forces[0]).To(BeNumerically("~", 2*g, 1e-9))
		Expect(res.Accelerations[0]).To(BeNumerically("~", 0, 1e-9))
		Expect(b.F.Z()).To(BeNumerically("~", 0, 1e-9))
		expectComplementary(res)
	})

	It("carries a stacked ball through the one below", func() {
		bottom := ball("bottom", 1, mgl64.Vec3{0, 0, 0.5})
		top := ball("top", 3, mgl64.Vec3{0, 0, 1.5})
		withGravity(bottom, top)
		cs := []contact.Contact{
			{A: bottom, Point: mgl64.Vec3{}, Normal: up},
			{A: top, B: bottom, Point: mgl64.Vec3{0, 0, 1}, Normal: up},
		}

		res := contact.Solve(cs, opt)

		Expect(res.Forces[0]).To(BeNumerically("~", 4*g, 1e-9))
		Expect(res.Forces[1]).To(BeNumerically("~", 3*g, 1e-9))
		expectComplementary(res)
	})

	It("lets a tripod lift one foot under a tipping torque", func() {
		box := body.NewBox("stool", 2, mgl64.Vec3{2, 2, 1})
		box.SetPosition(mgl64.Vec3{0, 0, 0.5})
		feet := []mgl64.Vec3{{1, 0, 0}, {-0.5, 0.866, 0}, {-0.5, -0.866, 0}}

		withGravity(box)
		var cs []contact.Contact
		for _, f := range feet {
			cs = append(cs, contact.Contact{A: box, Point: f, Normal: up})
		}
		res := contact.Solve(cs, opt)
		total := 0.0
		for _, f := range res.Forces {
			total += f
		}
		Expect(total).To(BeNumerically("~", 2*g, 1e-6))
		expectComplementary(res)

		withGravity(box)
		box.AddTorque(mgl64.Vec3{0, -40, 0})
		res = contact.Solve(cs, opt)
		expectComplementary(res)
		Expect(res.Forces[0]).To(BeNumerically("~", 0, 1e-9))
		Expect(res.Accelerations[0]).To(BeNumerically(">", 0))
	})

	It("ignores separating contacts", func() {
		b := ball("ball", 1, mgl64.Vec3{0, 0, 0.5})
		b.SetVelocity(mgl64.Vec3{0, 0, 1})
		withGravity(b)

		res := contact.Solve([]contact.Contact{{A: b, Normal: up}}, opt)

		Expect(res.Resting[0]).To(BeFalse())
		Expect(res.Forces[0]).To(BeZero())
	})

	It("never pulls a ball that is lifted off", func() {
		b := ball("ball", 1, mgl64.Vec3{0, 0, 0.5})
		withGravity(b)
		b.AddForce(mgl64.Vec3{0, 0, 20})

		res := contact.Solve([]contact.Contact{{A: b, Normal: up}}, opt)

		Expect(res.Forces[0]).To(BeZero())
		Expect(res.Accelerations[0]).To(BeNumerically("~", 20-g, 1e-9))
	})
})

var _ = Describe("Contact", func() {
	It("turns a vertex-face normal with the face body", func() {
		face := ball("face", 1, mgl64.Vec3{})
		face.SetAngularVelocity(mgl64.Vec3{0, 0, 1})
		c := contact.Contact{A: ball("vertex", 1, mgl64.Vec3{1, 0, 0}), B: face, Normal: mgl64.Vec3{1, 0, 0}}

		Expect(c.NormalRate().ApproxEqualThreshold(mgl64.Vec3{0, 1, 0}, 1e-9)).To(BeTrue())
	})

	It("differentiates an edge-edge normal", func() {
		a := ball("a", 1, mgl64.Vec3{})
		a.SetAngularVelocity(mgl64.Vec3{0, 1, 0})
		c := contact.Contact{
			A:      a,
			B:      ball("b", 1, mgl64.Vec3{0, 0, -1}),
			Normal: up,
			EdgeA:  mgl64.Vec3{1, 0, 0},
			EdgeB:  mgl64.Vec3{0, 1, 0},
		}

		Expect(c.NormalRate().ApproxEqualThreshold(mgl64.Vec3{1, 0, 0}, 1e-9)).To(BeTrue())
	})
})

var _ = Describe("Resolve", func() {
	opt := contact.DefaultOptions()

	It("bounces a ball with its restitution", func() {
		b := ball("ball", 1, mgl64.Vec3{0, 0, 0.5})
		b.SetVelocity(mgl64.Vec3{0, 0, -2})
		cs := []contact.Contact{{A: b, Point: mgl64.Vec3{}, Normal: up, Restitution: 0.5}}

		Expect(contact.Resolve(cs, opt)).To(Equal(1))
		Expect(b.Velocity().Z()).To(BeNumerically("~", 1, 1e-9))
	})

	It("swaps velocities of equal spheres in an elastic head-on hit", func() {
		a := ball("a", 1, mgl64.Vec3{0, 0, 0})
		b := ball("b", 1, mgl64.Vec3{1, 0, 0})
		a.SetVelocity(mgl64.Vec3{1, 0, 0})
		cs := []contact.Contact{{A: a, B: b, Point: mgl64.Vec3{0.5, 0, 0}, Normal: mgl64.Vec3{-1, 0, 0}, Restitution: 1}}

		contact.Resolve(cs, opt)

		Expect(a.Velocity().ApproxEqualThreshold(mgl64.Vec3{}, 1e-9)).To(BeTrue())
		Expect(b.Velocity().ApproxEqualThreshold(mgl64.Vec3{1, 0, 0}, 1e-9)).To(BeTrue())
	})

	It("treats a second simultaneous hit of the same pair as elastic", func() {
		b := ball("ball", 1, mgl64.Vec3{0, 0, 0.5})
		b.SetVelocity(mgl64.Vec3{-1, 0, -2})
		at := b.Position()
		cs := []contact.Contact{
			{A: b, Point: at, Normal: up},
			{A: b, Point: at, Normal: mgl64.Vec3{1, 0, 0}},
		}

		Expect(contact.Resolve(cs, opt)).To(Equal(2))
		Expect(b.Velocity().ApproxEqualThreshold(mgl64.Vec3{1, 0, 0}, 1e-9)).To(BeTrue())
	})

	It("treats a later hit of an earlier pair as elastic", func() {
		a := ball("a", 1, mgl64.Vec3{0, 0, 0.5})
		a.SetVelocity(mgl64.Vec3{-1, 0, -1})
		c := ball("c", 1, mgl64.Vec3{5, 0, 0.5})
		c.SetVelocity(mgl64.Vec3{0, 0, -1})
		cs := []contact.Contact{
			{A: a, Point: a.Position(), Normal: up},
			{A: c, Point: c.Position(), Normal: up},
			{A: a, Point: a.Position(), Normal: mgl64.Vec3{1, 0, 0}},
		}

		Expect(contact.Resolve(cs, opt)).To(Equal(3))
		Expect(a.Velocity().ApproxEqualThreshold(mgl64.Vec3{1, 0, 0}, 1e-9)).To(BeTrue())
		Expect(c.Velocity().ApproxEqualThreshold(mgl64.Vec3{}, 1e-9)).To(BeTrue())
	})

	It("stops a hinged bob at the floor", func() {
		chain := articulated.New("pendulum", body.NewSphere("pivot", 1, 0.1), articulated.Grounded)
		id, err := chain.AddLink(articulated.Root, body.NewSphere("bob", 1, 0.1), articulated.Joint{
			Axis:        mgl64.Vec3{0, 1, 0},
			ChildOffset: mgl64.Vec3{0, 0, -1},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(chain.SetJoint(id, 0.3, -2)).To(Succeed())

		bob, err := chain.Ref(id)
		Expect(err).NotTo(HaveOccurred())
		floor := bob.Position().Sub(up.Mul(0.1))
		cs := []contact.Contact{{A: bob, Point: floor, Normal: up}}
		Expect(cs[0].RelativeVelocity()).To(BeNumerically("<", 0))

		contact.Resolve(cs, opt)

		Expect(cs[0].RelativeVelocity()).To(BeNumerically("~", 0, 1e-9))
	})
})

var _ = Describe("Chain contacts", func() {
	const radius = 0.1
	var (
		chain *articulated.ArticulatedBody
		refs  []*articulated.LinkRef
		cs    []contact.Contact
	)

	BeforeEach(func() {
		chain = articulated.New("arm", body.NewSphere("pivot", 1, radius), articulated.Grounded)
		parent := articulated.Root
		refs = nil
		for _, name := range []string{"upper", "lower"} {
			id, err := chain.AddLink(parent, body.NewSphere(name, 1, radius), articulated.Joint{
				Axis:        mgl64.Vec3{0, 1, 0},
				ChildOffset: mgl64.Vec3{1, 0, 0},
			})
			Expect(err).NotTo(HaveOccurred())
			ref, err := chain.Ref(id)
			Expect(err).NotTo(HaveOccurred())
			refs = append(refs, ref)
			parent = id
		}

		floor := contact.NewGroundPlane(-radius, 0)
		for _, r := range refs {
			floor.AddProbe(r, radius)
		}
		chain.InitState()
		chain.ApplyForce(body.StandardGravity(), 0)
		cs = floor.Contacts()
		Expect(cs).To(HaveLen(2))
	})

	It("couples contacts on different links through the joints", func() {
		first, second := cs[0], cs[1]
		v, ok := refs[1].ResponseAt(refs[0], first.Point, first.Normal, second.Point)
		Expect(ok).To(BeTrue())
		Expect(second.Normal.Dot(v)).NotTo(BeNumerically("~", 0, 1e-9))

		_, ok = refs[1].ResponseAt(ball("loose", 1, mgl64.Vec3{}), first.Point, first.Normal, second.Point)
		Expect(ok).To(BeFalse())
	})

	It("leaves a chain lying on the floor at rest", func() {
		res := contact.Apply(cs, contact.DefaultOptions())

		Expect(res.Forces[0]).To(BeNumerically("~", g, 1e-6))
		Expect(res.Forces[1]).To(BeNumerically("~", g, 1e-6))
		for i, c := range cs {
			a := c.Normal.Dot(refs[i].PointAcceleration(c.Point))
			Expect(a).To(BeNumerically("~", res.Accelerations[i], 1e-6), "acceleration %d", i)
			Expect(a).To(BeNumerically(">=", -1e-6), "acceleration %d", i)
			Expect(math.Abs(res.Forces[i]*a)).To(BeNumerically("<", 1e-6), "product %d", i)
		}
		expectComplementary(res)
	})
})

var _ = Describe("Manager", func() {
	var (
		b      *body.RigidBody
		ground *contact.GroundPlane
		m      *contact.Manager
	)

	BeforeEach(func() {
		b = ball("ball", 1, mgl64.Vec3{0, 0, 0.45})
		ground = contact.NewGroundPlane(0, 0.5)
		ground.AddProbe(b, 0.5)
		m = contact.NewManager("ground", ground, contact.DefaultOptions())
	})

	It("reports penetration only while approaching", func() {
		b.SetVelocity(mgl64.Vec3{0, 0, -1})
		Expect(m.Check(0)).To(BeNumerically("~", 0.05, 1e-12))

		m.Handle(0)
		Expect(m.Impulses()).To(Equal(1))
		Expect(b.Velocity().Z()).To(BeNumerically("~", 0.5, 1e-9))
		Expect(m.Check(0)).To(BeZero())
	})

	It("supports a resting ball", func() {
		b.SetPosition(mgl64.Vec3{0, 0, 0.5})
		withGravity(b)

		m.ApplyForces(0)

		Expect(b.F.Z()).To(BeNumerically("~", 0, 1e-9))
		Expect(m.LastResult().Forces).To(HaveLen(1))
	})

	It("skips probes well above the plane", func() {
		b.SetPosition(mgl64.Vec3{0, 0, 3})
		Expect(ground.Contacts()).To(BeEmpty())
		Expect(ground.MaxDepth()).To(BeZero())
	})

	It("finds touching spheres", func() {
		other := ball("other", 1, mgl64.Vec3{0.9, 0, 0.45})
		set := &contact.SphereSet{Restitution: 1}
		set.Add(b, 0.5)
		set.Add(other, 0.5)

		cs := contact.Detectors{ground, set}.Contacts()

		Expect(cs).To(HaveLen(2))
		Expect(cs[1].Depth).To(BeNumerically("~", 0.1, 1e-12))
		Expect(cs[1].Normal.ApproxEqualThreshold(mgl64.Vec3{-1, 0, 0}, 1e-12)).To(BeTrue())
	})
})
