package body

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/artdyn/internal/frame"
	"github.com/san-kum/artdyn/internal/spatial"
)

// RigidStateSize is position(3) + orientation(9) + momentum(3) + angular momentum(3).
const RigidStateSize = 18

// RigidBody is a free rigid body integrated in momentum form. Linear and angular
// velocity are derived from P and L on demand and never stored.
type RigidBody struct {
	EntityBase

	Frame *frame.ReferenceFrame

	mass       float64
	inertia    mgl64.Mat3
	invInertia mgl64.Mat3

	P mgl64.Vec3
	L mgl64.Vec3

	F mgl64.Vec3
	T mgl64.Vec3
}

// NewRigidBody returns a body at rest at the origin. inertia is the body-frame
// tensor about the center of mass.
func NewRigidBody(name string, mass float64, inertia mgl64.Mat3) *RigidBody {
	b := &RigidBody{
		EntityBase: NewEntityBase(name),
		Frame:      frame.Identity(),
	}
	b.SetMassProperties(mass, inertia)
	return b
}

// NewSphere returns a solid sphere of the given mass and radius.
func NewSphere(name string, mass, radius float64) *RigidBody {
	i := 0.4 * mass * radius * radius
	return NewRigidBody(name, mass, mgl64.Diag3(mgl64.Vec3{i, i, i}))
}

// NewBox returns a solid box with full edge lengths size.
func NewBox(name string, mass float64, size mgl64.Vec3) *RigidBody {
	x2, y2, z2 := size[0]*size[0], size[1]*size[1], size[2]*size[2]
	return NewRigidBody(name, mass, mgl64.Diag3(mgl64.Vec3{
		mass * (y2 + z2) / 12,
		mass * (x2 + z2) / 12,
		mass * (x2 + y2) / 12,
	}))
}

// SetMassProperties replaces mass and body-frame inertia, keeping velocities.
func (b *RigidBody) SetMassProperties(mass float64, inertia mgl64.Mat3) {
	v, w := b.Velocity(), b.AngularVelocity()
	b.mass = mass
	b.inertia = inertia
	b.invInertia = spatial.Inverse3(inertia)
	b.SetVelocity(v)
	b.SetAngularVelocity(w)
}

func (b *RigidBody) Mass() float64 { return b.mass }

func (b *RigidBody) InvMass() float64 { return spatial.SafeRecip(b.mass) }

// Inertia returns the body-frame inertia tensor.
func (b *RigidBody) Inertia() mgl64.Mat3 { return b.inertia }

func (b *RigidBody) InertiaWorld() mgl64.Mat3 {
	return spatial.Similarity(b.Frame.Orientation, b.inertia)
}

func (b *RigidBody) InvInertiaWorld() mgl64.Mat3 {
	return spatial.Similarity(b.Frame.Orientation, b.invInertia)
}

func (b *RigidBody) Position() mgl64.Vec3 { return b.Frame.Offset }

func (b *RigidBody) Orientation() mgl64.Mat3 { return b.Frame.Orientation }

func (b *RigidBody) SetPosition(p mgl64.Vec3) { b.Frame.Offset = p }

// SetOrientation replaces the orientation, keeping the angular velocity.
func (b *RigidBody) SetOrientation(r mgl64.Mat3) {
	w := b.AngularVelocity()
	b.Frame.Orientation = r
	b.SetAngularVelocity(w)
}

func (b *RigidBody) Velocity() mgl64.Vec3 { return b.P.Mul(b.InvMass()) }

func (b *RigidBody) AngularVelocity() mgl64.Vec3 { return b.InvInertiaWorld().Mul3x1(b.L) }

func (b *RigidBody) SetVelocity(v mgl64.Vec3) { b.P = v.Mul(b.mass) }

func (b *RigidBody) SetAngularVelocity(w mgl64.Vec3) { b.L = b.InertiaWorld().Mul3x1(w) }

// Delta returns the body's frame with its current velocities.
func (b *RigidBody) Delta() frame.DeltaReferenceFrame {
	return frame.DeltaReferenceFrame{Frame: b.Frame, V: b.Velocity(), W: b.AngularVelocity()}
}

// PointVelocity returns the velocity of the world point p moving with the body.
func (b *RigidBody) PointVelocity(p mgl64.Vec3) mgl64.Vec3 {
	return b.Velocity().Add(b.AngularVelocity().Cross(p.Sub(b.Position())))
}

// Acceleration is F/m for the forces accumulated so far.
func (b *RigidBody) Acceleration() mgl64.Vec3 { return b.F.Mul(b.InvMass()) }

// AngularAcceleration is I^-1 (T + L x w), the rate of change of w implied by
// dL/dt = T.
func (b *RigidBody) AngularAcceleration() mgl64.Vec3 {
	w := b.AngularVelocity()
	return b.InvInertiaWorld().Mul3x1(b.T.Add(b.L.Cross(w)))
}

// PointAcceleration returns the acceleration of the world point p moving with the
// body under the accumulated force and torque.
func (b *RigidBody) PointAcceleration(p mgl64.Vec3) mgl64.Vec3 {
	r := p.Sub(b.Position())
	w := b.AngularVelocity()
	return b.Acceleration().
		Add(b.AngularAcceleration().Cross(r)).
		Add(w.Cross(w.Cross(r)))
}

func (b *RigidBody) AddForce(f mgl64.Vec3) { b.F = b.F.Add(f) }

func (b *RigidBody) AddTorque(t mgl64.Vec3) { b.T = b.T.Add(t) }

// AddForceAtPoint adds f acting at world point p, with the torque it induces
// about the center of mass.
func (b *RigidBody) AddForceAtPoint(f, p mgl64.Vec3) {
	b.F = b.F.Add(f)
	b.T = b.T.Add(p.Sub(b.Position()).Cross(f))
}

// ApplyImpulse changes momentum by j acting at world point p.
func (b *RigidBody) ApplyImpulse(p, j mgl64.Vec3) {
	b.P = b.P.Add(j)
	b.L = b.L.Add(p.Sub(b.Position()).Cross(j))
}

// Response returns the velocity change at world point q caused by a unit impulse
// along dir at world point p.
func (b *RigidBody) Response(p, dir, q mgl64.Vec3) mgl64.Vec3 {
	x := b.Position()
	dw := b.InvInertiaWorld().Mul3x1(p.Sub(x).Cross(dir))
	return dir.Mul(b.InvMass()).Add(dw.Cross(q.Sub(x)))
}

// ImpulseMassAndInvInertia returns the mass and world inverse inertia that govern
// the body's response to an impulse.
func (b *RigidBody) ImpulseMassAndInvInertia() (float64, mgl64.Mat3) {
	return b.mass, b.InvInertiaWorld()
}

func (b *RigidBody) KineticEnergy() float64 {
	return 0.5*b.P.Dot(b.Velocity()) + 0.5*b.L.Dot(b.AngularVelocity())
}

func (b *RigidBody) StateSize() int { return RigidStateSize }

func (b *RigidBody) WriteState(buf []float64) int {
	_ = buf[RigidStateSize-1]
	p, r := b.Frame.Offset, b.Frame.Orientation
	copy(buf[0:3], p[:])
	copy(buf[3:12], r[:])
	copy(buf[12:15], b.P[:])
	copy(buf[15:18], b.L[:])
	return RigidStateSize
}

func (b *RigidBody) ReadState(buf []float64) int {
	_ = buf[RigidStateSize-1]
	copy(b.Frame.Offset[:], buf[0:3])
	copy(b.Frame.Orientation[:], buf[3:12])
	copy(b.P[:], buf[12:15])
	copy(b.L[:], buf[15:18])
	return RigidStateSize
}

func (b *RigidBody) WriteDelta(buf []float64) int {
	_ = buf[RigidStateSize-1]
	v := b.Velocity()
	rdot := spatial.Skew(b.AngularVelocity()).Mul3(b.Frame.Orientation)
	copy(buf[0:3], v[:])
	copy(buf[3:12], rdot[:])
	copy(buf[12:15], b.F[:])
	copy(buf[15:18], b.T[:])
	return RigidStateSize
}

func (b *RigidBody) InitState() {
	b.F = mgl64.Vec3{}
	b.T = mgl64.Vec3{}
}

func (b *RigidBody) ApplyForce(f Force, t float64) { f.Apply(b, t) }

func (b *RigidBody) RigidBodies() []*RigidBody { return []*RigidBody{b} }

// Solve has nothing to do: a free body's derivative follows directly from its
// force and torque accumulators.
func (b *RigidBody) Solve(t float64) {}

// Normalize re-orthonormalizes the orientation.
func (b *RigidBody) Normalize() { b.Frame.Normalize() }
