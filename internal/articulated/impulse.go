package articulated

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/artdyn/internal/body"
	"github.com/san-kum/artdyn/internal/contact"
	"github.com/san-kum/artdyn/internal/spatial"
)

// impulseResponse returns the change of every link's spatial velocity, in link
// coordinates, and of every joint velocity caused by the spatial impulse y
// applied to link k. The impulse travels from k to the root the way the bias
// force does in the solver, is resolved at the root and is carried back out.
func (a *ArticulatedBody) impulseResponse(k LinkID, y spatial.Vector) ([]spatial.Vector, []float64) {
	a.computeInertias()
	n := len(a.links)

	z := make([]spatial.Vector, n)
	z[k] = y.Neg()
	for i := k; i > Root; i = a.links[i].parent {
		l := a.links[i]
		zi := z[i].Sub(l.is.Mul(l.s.Dot(z[i]) * spatial.SafeRecip(l.sis)))
		z[l.parent] = z[l.parent].Add(l.x.ApplyInverse(zi))
	}

	dv := make([]spatial.Vector, n)
	dqv := make([]float64, n)
	if a.mode == Floating {
		dv[Root] = a.links[Root].ia.Solve(z[Root].Neg())
	}
	for i := 1; i < n; i++ {
		l := a.links[i]
		xv := l.x.Apply(dv[l.parent])
		dqv[i] = -(l.is.Dot(xv) + l.s.Dot(z[i])) * spatial.SafeRecip(l.sis)
		dv[i] = xv.Add(l.s.Mul(dqv[i]))
	}
	return dv, dqv
}

// pointImpulse expresses a world impulse j at world point p as a spatial impulse
// on link l.
func pointImpulse(l *Link, p, j mgl64.Vec3) spatial.Vector {
	rt := l.Body.Orientation().Transpose()
	return spatial.NewVector(rt.Mul3x1(j), rt.Mul3x1(p.Sub(l.Body.Position()).Cross(j)))
}

// pointVelocity converts a link-coordinate spatial velocity into the world
// velocity of world point q on link l.
func pointVelocity(l *Link, dv spatial.Vector, q mgl64.Vec3) mgl64.Vec3 {
	r := l.Body.Orientation()
	arm := r.Transpose().Mul3x1(q.Sub(l.Body.Position()))
	return r.Mul3x1(dv.Bottom.Add(dv.Top.Cross(arm)))
}

// ApplyImpulse applies the world impulse j at world point p on link k and
// updates the root and joint velocities.
func (a *ArticulatedBody) ApplyImpulse(k LinkID, p, j mgl64.Vec3) error {
	l, err := a.link(k)
	if err != nil {
		return err
	}
	a.applyImpulse(k, l, p, j)
	return nil
}

func (a *ArticulatedBody) applyImpulse(k LinkID, l *Link, p, j mgl64.Vec3) {
	dv, dqv := a.impulseResponse(k, pointImpulse(l, p, j))
	if a.mode == Floating {
		r := a.links[Root].Body.Orientation()
		a.rootV = a.rootV.Add(r.Mul3x1(dv[Root].Bottom))
		a.rootW = a.rootW.Add(r.Mul3x1(dv[Root].Top))
	}
	for i, d := range dqv[1:] {
		a.links[i+1].Joint.QV += d
	}
	a.updateKinematics()
}

// Response returns the world velocity change at point q on link m caused by a
// unit impulse along dir at point p on link k.
func (a *ArticulatedBody) Response(k LinkID, p, dir mgl64.Vec3, m LinkID, q mgl64.Vec3) (mgl64.Vec3, error) {
	lk, err := a.link(k)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	lm, err := a.link(m)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return a.response(k, lk, p, dir, lm, m, q), nil
}

func (a *ArticulatedBody) response(k LinkID, lk *Link, p, dir mgl64.Vec3, lm *Link, m LinkID, q mgl64.Vec3) mgl64.Vec3 {
	dv, _ := a.impulseResponse(k, pointImpulse(lk, p, dir))
	return pointVelocity(lm, dv[m], q)
}

// ImpulseMassAndInvInertia returns the effective mass and world inverse inertia
// link k presents to impulses. The mass is the one a unit impulse along dir at
// world point p sees, 1/(dir . dv) with dv the velocity change it causes at p.
// The inverse inertia maps world angular impulses on the link to its change of
// angular velocity.
func (a *ArticulatedBody) ImpulseMassAndInvInertia(k LinkID, p, dir mgl64.Vec3) (float64, mgl64.Mat3, error) {
	l, err := a.link(k)
	if err != nil {
		return 0, mgl64.Mat3{}, err
	}
	n := dir.Mul(spatial.SafeRecip(dir.Len()))
	m := spatial.SafeRecip(n.Dot(a.response(k, l, p, n, l, k, p)))

	r := l.Body.Orientation()
	rt := r.Transpose()
	var cols [3]mgl64.Vec3
	for axis := 0; axis < 3; axis++ {
		var e mgl64.Vec3
		e[axis] = 1
		dw, _ := a.impulseResponse(k, spatial.NewVector(mgl64.Vec3{}, rt.Mul3x1(e)))
		cols[axis] = r.Mul3x1(dw[k].Top)
	}
	return m, mgl64.Mat3FromCols(cols[0], cols[1], cols[2]), nil
}

// Ref returns the handle contact code uses for link id. The same pointer is
// returned on every call.
func (a *ArticulatedBody) Ref(id LinkID) (*LinkRef, error) {
	l, err := a.link(id)
	if err != nil {
		return nil, err
	}
	if l.ref == nil {
		l.ref = &LinkRef{body: a, id: id}
	}
	return l.ref, nil
}

// LinkRef is one link seen as a contact body. Impulses and contact forces go
// through the whole chain.
type LinkRef struct {
	body *ArticulatedBody
	id   LinkID
}

func (r *LinkRef) Chain() *ArticulatedBody { return r.body }
func (r *LinkRef) ID() LinkID              { return r.id }

func (r *LinkRef) rigid() *body.RigidBody { return r.body.links[r.id].Body }

func (r *LinkRef) Name() string { return r.body.Name() + "/" + r.rigid().Name() }

func (r *LinkRef) Position() mgl64.Vec3 { return r.rigid().Position() }

func (r *LinkRef) AngularVelocity() mgl64.Vec3 { return r.rigid().AngularVelocity() }

func (r *LinkRef) PointVelocity(p mgl64.Vec3) mgl64.Vec3 { return r.rigid().PointVelocity(p) }

// PointAcceleration solves the chain under its current accumulators and returns
// the acceleration of world point p on the link.
func (r *LinkRef) PointAcceleration(p mgl64.Vec3) mgl64.Vec3 {
	r.body.Solve(r.body.time)
	acc, alpha, _ := r.body.LinkAcceleration(r.id)
	w := r.AngularVelocity()
	arm := p.Sub(r.Position())
	return acc.Add(alpha.Cross(arm)).Add(w.Cross(w.Cross(arm)))
}

func (r *LinkRef) link() *Link { return r.body.links[r.id] }

func (r *LinkRef) Response(p, dir, q mgl64.Vec3) mgl64.Vec3 {
	return r.body.response(r.id, r.link(), p, dir, r.link(), r.id, q)
}

// ResponseAt returns the velocity change at q on this link per unit impulse
// along dir at p on other. Links of the same chain respond to each other.
func (r *LinkRef) ResponseAt(other contact.Body, p, dir, q mgl64.Vec3) (mgl64.Vec3, bool) {
	o, ok := other.(*LinkRef)
	if !ok || o.body != r.body {
		return mgl64.Vec3{}, false
	}
	return r.body.response(o.id, o.link(), p, dir, r.link(), r.id, q), true
}

func (r *LinkRef) ApplyImpulse(p, j mgl64.Vec3) {
	r.body.applyImpulse(r.id, r.link(), p, j)
}

func (r *LinkRef) AddForceAtPoint(f, p mgl64.Vec3) { r.rigid().AddForceAtPoint(f, p) }
