package articulated

import (
	"github.com/san-kum/artdyn/internal/spatial"
)

// Solver computes joint and root accelerations from the current state and the
// forces accumulated on the link bodies.
type Solver interface {
	Solve(a *ArticulatedBody, t float64)
}

// Featherstone is the articulated-body algorithm: linear time in the number of
// links. Velocities are propagated when the state is read; Solve runs the
// inward inertia and bias pass followed by the outward acceleration pass.
type Featherstone struct{}

func (Featherstone) Solve(a *ArticulatedBody, t float64) {
	links := a.links
	a.computeInertias()

	for _, l := range links {
		rt := l.Body.Orientation().Transpose()
		f := rt.Mul3x1(l.Body.F)
		tau := rt.Mul3x1(l.Body.T)
		iw := l.Body.Inertia().Mul3x1(l.w)
		l.za = spatial.NewVector(f.Mul(-1), l.w.Cross(iw).Sub(tau))
	}

	for i := len(links) - 1; i > 0; i-- {
		l := links[i]
		zic := l.za.Add(l.ia.MulVec(l.c))
		external := -l.s.Dot(zic)
		l.qszic = l.Joint.actuator(external, a.Friction) + external

		h := links[l.parent]
		bias := zic.Add(l.is.Mul(l.qszic * spatial.SafeRecip(l.sis)))
		h.za = h.za.Add(l.x.ApplyInverse(bias))
	}

	root := links[Root]
	root.a = a.rootAcceleration(t)

	for _, l := range links[1:] {
		xa := l.x.Apply(links[l.parent].a)
		l.Joint.QA = (l.qszic - l.is.Dot(xa)) * spatial.SafeRecip(l.sis)
		l.a = xa.Add(l.c).Add(l.s.Mul(l.Joint.QA))
	}
}

// computeInertias fills every link's articulated inertia, leaves to root. It
// depends only on the configuration.
func (a *ArticulatedBody) computeInertias() {
	links := a.links
	for _, l := range links {
		l.ia = spatial.Inertia(l.Body.Mass(), l.Body.Inertia())
	}
	for i := len(links) - 1; i > 0; i-- {
		l := links[i]
		l.is = l.ia.MulVec(l.s)
		l.sis = l.s.Dot(l.is)
		reduced := l.ia.Sub(spatial.Outer(l.is, l.is).Scale(spatial.SafeRecip(l.sis)))
		h := links[l.parent]
		h.ia = h.ia.Add(l.x.Reduce(reduced))
	}
}

// rootAcceleration returns the root's spatial acceleration in root coordinates.
func (a *ArticulatedBody) rootAcceleration(t float64) spatial.Vector {
	root := a.links[Root]
	switch a.mode {
	case Floating:
		return root.ia.Solve(root.za.Neg())
	case Attached:
		if a.kin == nil {
			return spatial.Vector{}
		}
		ks := a.kin.KinematicState(t)
		rt := root.Body.Orientation().Transpose()
		return spatial.NewVector(rt.Mul3x1(ks.AngularAcceleration), rt.Mul3x1(ks.Acceleration))
	}
	return spatial.Vector{}
}
