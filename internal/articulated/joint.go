package articulated

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/artdyn/internal/spatial"
)

// JointKind selects the joint model.
type JointKind int

const (
	Revolute JointKind = iota
	Prismatic
	// ConstrainedRevolute is a revolute joint with a spring and damper that act
	// only while the angle is outside [Min, Max].
	ConstrainedRevolute
)

func (k JointKind) String() string {
	switch k {
	case Revolute:
		return "revolute"
	case Prismatic:
		return "prismatic"
	case ConstrainedRevolute:
		return "constrained-revolute"
	}
	return fmt.Sprintf("JointKind(%d)", int(k))
}

// coulombVelocity is the joint speed over which Coulomb friction ramps to full
// strength.
const coulombVelocity = 1e-3

// Joint connects a link to its inboard parent. Axis is a unit vector given in the
// parent's frame; a revolute joint rotates about it so it reads the same in the
// child's frame. ParentOffset runs from the parent's center of mass to the joint
// in parent coordinates, ChildOffset from the joint to the child's center of mass
// in child coordinates.
//
// Q, QV and QA are the joint's generalized position, velocity and acceleration.
type Joint struct {
	Kind         JointKind
	Axis         mgl64.Vec3
	ParentOffset mgl64.Vec3
	ChildOffset  mgl64.Vec3

	Q, QV, QA float64

	// Effort is an actuator force (prismatic) or torque (revolute) applied along
	// the joint axis.
	Effort float64
	// Friction is viscous friction local to this joint, added to the body-wide
	// setting.
	Friction float64

	Min, Max  float64
	Stiffness float64
	Damping   float64
}

func (j *Joint) validate() error {
	if j.Axis.LenSqr() < spatial.MinMagnitude {
		return fmt.Errorf("%w: zero axis", ErrInvalidJoint)
	}
	if j.Kind == ConstrainedRevolute && j.Min > j.Max {
		return fmt.Errorf("%w: limits [%g, %g]", ErrInvalidJoint, j.Min, j.Max)
	}
	switch j.Kind {
	case Revolute, Prismatic, ConstrainedRevolute:
	default:
		return fmt.Errorf("%w: kind %v", ErrInvalidJoint, j.Kind)
	}
	j.Axis = j.Axis.Normalize()
	return nil
}

func (j *Joint) rotates() bool { return j.Kind != Prismatic }

// relative returns the child frame's orientation in parent coordinates and the
// offset from parent to child center of mass in parent coordinates.
func (j *Joint) relative() (mgl64.Mat3, mgl64.Vec3) {
	if j.rotates() {
		rel := spatial.AxisRotation(j.Axis, j.Q)
		return rel, j.ParentOffset.Add(rel.Mul3x1(j.ChildOffset))
	}
	return mgl64.Ident3(), j.ParentOffset.Add(j.Axis.Mul(j.Q)).Add(j.ChildOffset)
}

// spatialAxis is the joint's motion subspace in child coordinates.
func (j *Joint) spatialAxis() spatial.Vector {
	if j.rotates() {
		return spatial.NewVector(j.Axis, j.Axis.Cross(j.ChildOffset))
	}
	return spatial.NewVector(mgl64.Vec3{}, j.Axis)
}

// coriolis is the velocity-product acceleration of the child, in child
// coordinates. w is the parent's angular velocity expressed in the child frame
// and r the parent-to-child offset in the child frame.
func (j *Joint) coriolis(w, r mgl64.Vec3) spatial.Vector {
	centripetal := w.Cross(w.Cross(r))
	if !j.rotates() {
		return spatial.NewVector(mgl64.Vec3{}, centripetal.Add(w.Cross(j.Axis.Mul(j.QV)).Mul(2)))
	}
	wj := j.Axis.Mul(j.QV)
	ud := wj.Cross(j.ChildOffset)
	return spatial.NewVector(
		w.Cross(wj),
		centripetal.Add(w.Cross(ud).Mul(2)).Add(wj.Cross(ud)),
	)
}

// actuator returns the generalized force the joint itself produces, given the
// generalized force external applies through it.
func (j *Joint) actuator(external float64, f Friction) float64 {
	q := j.Effort - (f.Viscous+j.Friction)*j.QV

	if f.CoulombFraction > 0 {
		frac := math.Min(f.CoulombFraction, 1)
		q -= frac * math.Abs(external) * math.Tanh(j.QV/coulombVelocity)
	}

	if j.Kind == ConstrainedRevolute {
		switch {
		case j.Q < j.Min:
			q += j.Stiffness*(j.Min-j.Q) - j.Damping*j.QV
		case j.Q > j.Max:
			q += j.Stiffness*(j.Max-j.Q) - j.Damping*j.QV
		}
	}
	return q
}

// Friction holds the joint friction model shared by every joint of a body.
// Viscous opposes joint velocity linearly. CoulombFraction bounds dry friction
// by that fraction of the external generalized force at the joint; it is
// clamped to 1 so friction never exceeds the force driving the joint.
type Friction struct {
	Viscous         float64
	CoulombFraction float64
}
