package articulated

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/artdyn/internal/body"
	"github.com/san-kum/artdyn/internal/spatial"
)

// KinematicState is a world-frame pose with its first and second derivatives.
type KinematicState struct {
	Position    mgl64.Vec3
	Orientation mgl64.Mat3

	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3

	Acceleration        mgl64.Vec3
	AngularAcceleration mgl64.Vec3
}

// KinematicEntity dictates the motion of an attached root. The chain does not
// push back on it.
type KinematicEntity interface {
	KinematicState(t float64) KinematicState
}

// PrescribedMotion moves with constant linear acceleration and constant angular
// velocity from a start pose at t=0.
type PrescribedMotion struct {
	Origin          mgl64.Vec3
	Orientation     mgl64.Mat3
	Velocity        mgl64.Vec3
	Acceleration    mgl64.Vec3
	AngularVelocity mgl64.Vec3
}

func (m *PrescribedMotion) KinematicState(t float64) KinematicState {
	r := m.Orientation
	if w := m.AngularVelocity.Len(); w > spatial.MinMagnitude {
		r = spatial.AxisRotation(m.AngularVelocity, w*t).Mul3(r)
	}
	return KinematicState{
		Position:        m.Origin.Add(m.Velocity.Mul(t)).Add(m.Acceleration.Mul(0.5 * t * t)),
		Orientation:     r,
		Velocity:        m.Velocity.Add(m.Acceleration.Mul(t)),
		AngularVelocity: m.AngularVelocity,
		Acceleration:    m.Acceleration,
	}
}

// FollowBody reports the current motion of a rigid body integrated elsewhere in
// the same world, such as a vehicle chassis. A world calls the chain's Follow
// after loading every entity, so registration order does not matter.
// Accelerations come from the body's accumulators, so the body must have its
// forces applied before the chain solves.
type FollowBody struct {
	Body *body.RigidBody
}

func (f FollowBody) KinematicState(t float64) KinematicState {
	b := f.Body
	return KinematicState{
		Position:            b.Position(),
		Orientation:         b.Orientation(),
		Velocity:            b.Velocity(),
		AngularVelocity:     b.AngularVelocity(),
		Acceleration:        b.Acceleration(),
		AngularAcceleration: b.AngularAcceleration(),
	}
}
