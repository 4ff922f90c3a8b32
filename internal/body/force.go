package body

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/artdyn/internal/frame"
	"github.com/san-kum/artdyn/internal/spatial"
)

// Force adds to a rigid body's force and torque accumulators. A force may be
// attached to several bodies (environment forces are applied to all of them).
type Force interface {
	Apply(b *RigidBody, t float64)
}

// Potential is implemented by conservative forces. PotentialEnergy returns the
// share of the potential attributed to b, so summing over every affected body
// gives the total.
type Potential interface {
	PotentialEnergy(b *RigidBody) float64
}

// Gravity is a uniform field.
type Gravity struct {
	G mgl64.Vec3
}

// StandardGravity is 9.81 m/s^2 along -Z.
func StandardGravity() *Gravity {
	return &Gravity{G: mgl64.Vec3{0, 0, -9.81}}
}

func (g *Gravity) Apply(b *RigidBody, t float64) {
	b.AddForce(g.G.Mul(b.Mass()))
}

func (g *Gravity) PotentialEnergy(b *RigidBody) float64 {
	return -b.Mass() * g.G.Dot(b.Position())
}

// Drag opposes linear and angular velocity.
type Drag struct {
	Linear  float64
	Angular float64
}

func (d *Drag) Apply(b *RigidBody, t float64) {
	b.AddForce(b.Velocity().Mul(-d.Linear))
	if d.Angular != 0 {
		b.AddTorque(b.AngularVelocity().Mul(-d.Angular))
	}
}

// ConstantForce pushes with a fixed vector expressed in Frame (the universe when
// nil) at Point, given in body coordinates. Binding Frame to the body's own frame
// makes a thruster.
type ConstantForce struct {
	Frame *frame.ReferenceFrame
	Force mgl64.Vec3
	Point mgl64.Vec3
}

func (c *ConstantForce) Apply(b *RigidBody, t float64) {
	f := c.Force
	if c.Frame != nil {
		f = c.Frame.VectorToWorld(f)
	}
	if c.Point == spatial.Zero3 {
		b.AddForce(f)
		return
	}
	b.AddForceAtPoint(f, b.Frame.PointToWorld(c.Point))
}

// ConstantTorque applies a fixed torque expressed in Frame.
type ConstantTorque struct {
	Frame  *frame.ReferenceFrame
	Torque mgl64.Vec3
}

func (c *ConstantTorque) Apply(b *RigidBody, t float64) {
	tau := c.Torque
	if c.Frame != nil {
		tau = c.Frame.VectorToWorld(tau)
	}
	b.AddTorque(tau)
}

// Spring is a damped spring between body-frame anchor points on A and B. B may
// be nil, in which case AnchorB is a fixed world point. When attached to both
// bodies each application pushes only the end it is applied to. A positive Cap
// limits the force magnitude.
type Spring struct {
	A, B             *RigidBody
	AnchorA, AnchorB mgl64.Vec3

	Stiffness float64
	Damping   float64
	Rest      float64
	Cap       float64
}

func (s *Spring) ends() (pa, pb, va, vb mgl64.Vec3) {
	pa = s.A.Frame.PointToWorld(s.AnchorA)
	va = s.A.PointVelocity(pa)
	if s.B == nil {
		return pa, s.AnchorB, va, mgl64.Vec3{}
	}
	pb = s.B.Frame.PointToWorld(s.AnchorB)
	return pa, pb, va, s.B.PointVelocity(pb)
}

// Tension returns the force acting on A; B feels its negation.
func (s *Spring) Tension() mgl64.Vec3 {
	pa, pb, va, vb := s.ends()
	d := pb.Sub(pa)
	l := d.Len()
	if l < spatial.MinMagnitude {
		return mgl64.Vec3{}
	}
	dir := d.Mul(1 / l)
	mag := s.Stiffness*(l-s.Rest) + s.Damping*vb.Sub(va).Dot(dir)
	if s.Cap > 0 {
		mag = math.Max(-s.Cap, math.Min(s.Cap, mag))
	}
	return dir.Mul(mag)
}

func (s *Spring) Apply(b *RigidBody, t float64) {
	switch b {
	case s.A:
		f := s.Tension()
		b.AddForceAtPoint(f, b.Frame.PointToWorld(s.AnchorA))
	case s.B:
		f := s.Tension()
		b.AddForceAtPoint(f.Mul(-1), b.Frame.PointToWorld(s.AnchorB))
	}
}

func (s *Spring) PotentialEnergy(b *RigidBody) float64 {
	if b != s.A && b != s.B {
		return 0
	}
	pa, pb, _, _ := s.ends()
	stretch := pb.Sub(pa).Len() - s.Rest
	e := 0.5 * s.Stiffness * stretch * stretch
	if s.B == nil {
		return e
	}
	return 0.5 * e
}

// Well is an inverse-square attractor fixed at Center. Softening keeps the force
// finite at the center.
type Well struct {
	Center    mgl64.Vec3
	Strength  float64
	Softening float64
}

func inverseSquare(from, to mgl64.Vec3, gm, soft float64) mgl64.Vec3 {
	d := to.Sub(from)
	r2 := d.LenSqr() + soft*soft
	if r2 < spatial.MinMagnitude {
		return mgl64.Vec3{}
	}
	return d.Mul(gm / (r2 * math.Sqrt(r2)))
}

func (w *Well) Apply(b *RigidBody, t float64) {
	b.AddForce(inverseSquare(b.Position(), w.Center, w.Strength*b.Mass(), w.Softening))
}

func (w *Well) PotentialEnergy(b *RigidBody) float64 {
	r := math.Sqrt(b.Position().Sub(w.Center).LenSqr() + w.Softening*w.Softening)
	return -w.Strength * b.Mass() * spatial.SafeRecip(r)
}

// NBodyWell makes every member attract every other member with gravitational
// constant G. It is usually registered as an environment force.
type NBodyWell struct {
	G         float64
	Softening float64
	Bodies    []*RigidBody
}

func (n *NBodyWell) Apply(b *RigidBody, t float64) {
	for _, o := range n.Bodies {
		if o == b {
			continue
		}
		b.AddForce(inverseSquare(b.Position(), o.Position(), n.G*b.Mass()*o.Mass(), n.Softening))
	}
}

func (n *NBodyWell) PotentialEnergy(b *RigidBody) float64 {
	e := 0.0
	for _, o := range n.Bodies {
		if o == b {
			continue
		}
		r := math.Sqrt(b.Position().Sub(o.Position()).LenSqr() + n.Softening*n.Softening)
		e -= 0.5 * n.G * b.Mass() * o.Mass() * spatial.SafeRecip(r)
	}
	return e
}
