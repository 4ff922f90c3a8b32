// Package contact computes contact forces and collision impulses between bodies
// whose contact points have already been found.
//
// Normals point from B toward A, so a positive relative normal velocity means
// the bodies separate. B may be nil for an immovable surface.
package contact

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/artdyn/internal/spatial"
)

// Body is anything that can touch: a free rigid body or one link of an
// articulated body.
type Body interface {
	Name() string
	Position() mgl64.Vec3
	AngularVelocity() mgl64.Vec3
	PointVelocity(p mgl64.Vec3) mgl64.Vec3
	PointAcceleration(p mgl64.Vec3) mgl64.Vec3
	// Response is the velocity change at q per unit impulse along dir at p.
	Response(p, dir, q mgl64.Vec3) mgl64.Vec3
	ApplyImpulse(p, j mgl64.Vec3)
	AddForceAtPoint(f, p mgl64.Vec3)
}

// Contact is one point of contact at a single instant.
type Contact struct {
	A, B Body

	Point  mgl64.Vec3
	Normal mgl64.Vec3
	// Depth is the penetration along Normal; negative means a gap.
	Depth       float64
	Restitution float64

	// EdgeA and EdgeB are set for edge-edge contacts: the edge directions on A
	// and B whose cross product is the normal.
	EdgeA, EdgeB mgl64.Vec3
}

func (c *Contact) edgeEdge() bool {
	return c.EdgeA != spatial.Zero3 && c.EdgeB != spatial.Zero3
}

func pointVelocity(b Body, p mgl64.Vec3) mgl64.Vec3 {
	if b == nil {
		return mgl64.Vec3{}
	}
	return b.PointVelocity(p)
}

func pointAcceleration(b Body, p mgl64.Vec3) mgl64.Vec3 {
	if b == nil {
		return mgl64.Vec3{}
	}
	return b.PointAcceleration(p)
}

func angularVelocity(b Body) mgl64.Vec3 {
	if b == nil {
		return mgl64.Vec3{}
	}
	return b.AngularVelocity()
}

// RelativeVelocity is the normal component of A's point velocity relative to
// B's. Negative values mean the bodies approach.
func (c *Contact) RelativeVelocity() float64 {
	return c.Normal.Dot(pointVelocity(c.A, c.Point).Sub(pointVelocity(c.B, c.Point)))
}

// NormalRate is the time derivative of the normal. A vertex-face normal turns
// with B; an edge-edge normal follows the cross product of the two edges.
func (c *Contact) NormalRate() mgl64.Vec3 {
	wb := angularVelocity(c.B)
	if !c.edgeEdge() {
		return wb.Cross(c.Normal)
	}

	z := c.EdgeA.Cross(c.EdgeB)
	l := z.Len()
	if l < spatial.MinMagnitude {
		return wb.Cross(c.Normal)
	}
	zdot := angularVelocity(c.A).Cross(c.EdgeA).Cross(c.EdgeB).
		Add(c.EdgeA.Cross(wb.Cross(c.EdgeB)))
	if z.Dot(c.Normal) < 0 {
		z, zdot = z.Mul(-1), zdot.Mul(-1)
	}
	zhat := z.Mul(1 / l)
	return zdot.Sub(zhat.Mul(zdot.Dot(zhat))).Mul(1 / l)
}

// bias is the relative normal acceleration with no contact force applied:
// n.(pa'' - pb'') + 2 n'.(pa' - pb').
func (c *Contact) bias() float64 {
	acc := pointAcceleration(c.A, c.Point).Sub(pointAcceleration(c.B, c.Point))
	vel := pointVelocity(c.A, c.Point).Sub(pointVelocity(c.B, c.Point))
	return c.Normal.Dot(acc) + 2*c.NormalRate().Dot(vel)
}

// Coupled is a Body whose motion is tied to other bodies through joints, like
// the links of one articulated chain.
type Coupled interface {
	Body
	// ResponseAt is the velocity change at q on the receiver per unit impulse
	// along dir at p on other. ok is false when other moves independently.
	ResponseAt(other Body, p, dir, q mgl64.Vec3) (v mgl64.Vec3, ok bool)
}

// response is the velocity change at q on body on per unit impulse along dir
// at p on body by.
func response(on, by Body, p, dir, q mgl64.Vec3) (mgl64.Vec3, bool) {
	if on == nil || by == nil {
		return mgl64.Vec3{}, false
	}
	if on == by {
		return on.Response(p, dir, q), true
	}
	if c, ok := on.(Coupled); ok {
		return c.ResponseAt(by, p, dir, q)
	}
	return mgl64.Vec3{}, false
}

type end struct {
	b    Body
	sign float64
}

// ends lists the bodies of c with the sign a positive normal force has on each.
func (c *Contact) ends() [2]end {
	return [2]end{{c.A, 1}, {c.B, -1}}
}

// coupling is the change of relative normal acceleration at ci caused by a unit
// normal force at cj. It is zero unless a body of ci is a body of cj or is
// jointed to one.
func coupling(ci, cj *Contact) float64 {
	total := 0.0
	for _, ei := range ci.ends() {
		for _, ej := range cj.ends() {
			if v, ok := response(ei.b, ej.b, cj.Point, cj.Normal, ci.Point); ok {
				total += ei.sign * ej.sign * ci.Normal.Dot(v)
			}
		}
	}
	return total
}

// ApplyForce adds a normal force of magnitude f at c to both bodies.
func (c *Contact) ApplyForce(f float64) {
	if f == 0 {
		return
	}
	force := c.Normal.Mul(f)
	if c.A != nil {
		c.A.AddForceAtPoint(force, c.Point)
	}
	if c.B != nil {
		c.B.AddForceAtPoint(force.Mul(-1), c.Point)
	}
}
