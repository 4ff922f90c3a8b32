// Package articulated models trees of rigid links connected by single degree of
// freedom joints, solved in joint coordinates.
//
// Links live in an arena indexed by [LinkID]. A link is always added after its
// parent, so ascending ids visit the tree root to leaves and descending ids visit
// it leaves to root. Link 0 is the root, which is floating (six free degrees of
// freedom), grounded (fixed in the world) or attached to a [KinematicEntity].
//
// Every link carries a [body.RigidBody] handle. The handle's pose and velocity
// are rewritten from the joint state each time the state is read, so forces can
// be applied to links exactly as to free bodies; the handle's momentum is never
// integrated directly.
package articulated

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/artdyn/internal/body"
	"github.com/san-kum/artdyn/internal/spatial"
)

// LinkID indexes a link within its body.
type LinkID int

// Root is the id of the root link.
const Root LinkID = 0

// RootMode says how the root link moves.
type RootMode int

const (
	Floating RootMode = iota
	Grounded
	Attached
)

func (m RootMode) String() string {
	switch m {
	case Floating:
		return "floating"
	case Grounded:
		return "grounded"
	case Attached:
		return "attached"
	}
	return fmt.Sprintf("RootMode(%d)", int(m))
}

// floatingStateSize is root position(3) + orientation(9) + velocity(3) + angular velocity(3).
const floatingStateSize = 18

// Link is one rigid body of the tree and the joint to its parent.
type Link struct {
	Body  *body.RigidBody
	Joint Joint

	parent   LinkID
	children []LinkID
	ref      *LinkRef

	// kinematics, link coordinates
	x    spatial.Transform
	w, v mgl64.Vec3
	s, c spatial.Vector

	// solver scratch
	ia    spatial.Matrix
	za    spatial.Vector
	is    spatial.Vector
	sis   float64
	qszic float64
	a     spatial.Vector
}

func (l *Link) Parent() LinkID     { return l.parent }
func (l *Link) Children() []LinkID { return l.children }

// ArticulatedBody is a tree of links integrated as one entity. Its state is the
// root's free motion (floating roots only) followed by (Q, QV) for every joint in
// link order.
type ArticulatedBody struct {
	body.EntityBase

	links []*Link
	mode  RootMode
	kin   KinematicEntity

	rootV, rootW mgl64.Vec3
	time         float64

	Friction Friction
	solver   Solver
}

// New returns a body whose root link is root.
func New(name string, root *body.RigidBody, mode RootMode) *ArticulatedBody {
	a := &ArticulatedBody{
		EntityBase: body.NewEntityBase(name),
		mode:       mode,
		solver:     Featherstone{},
	}
	a.links = []*Link{{Body: root, parent: -1}}
	a.updateKinematics()
	return a
}

// NewAttached returns a body whose root rigidly follows k.
func NewAttached(name string, root *body.RigidBody, k KinematicEntity) *ArticulatedBody {
	a := &ArticulatedBody{
		EntityBase: body.NewEntityBase(name),
		mode:       Attached,
		kin:        k,
		solver:     Featherstone{},
	}
	a.links = []*Link{{Body: root, parent: -1}}
	a.updateKinematics()
	return a
}

// AddLink adds b below parent through joint j and returns the new link's id.
func (a *ArticulatedBody) AddLink(parent LinkID, b *body.RigidBody, j Joint) (LinkID, error) {
	if _, err := a.link(parent); err != nil {
		return 0, err
	}
	if err := j.validate(); err != nil {
		return 0, err
	}
	id := LinkID(len(a.links))
	a.links = append(a.links, &Link{Body: b, Joint: j, parent: parent})
	a.links[parent].children = append(a.links[parent].children, id)
	a.updateKinematics()
	return id, nil
}

func (a *ArticulatedBody) link(id LinkID) (*Link, error) {
	if id < 0 || int(id) >= len(a.links) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLink, id)
	}
	return a.links[id], nil
}

func (a *ArticulatedBody) jointLink(id LinkID) (*Link, error) {
	if id == Root {
		return nil, ErrRootJoint
	}
	return a.link(id)
}

// Link returns the link with the given id.
func (a *ArticulatedBody) Link(id LinkID) (*Link, error) { return a.link(id) }

func (a *ArticulatedBody) NumLinks() int { return len(a.links) }

func (a *ArticulatedBody) Mode() RootMode { return a.mode }

// SetSolver replaces the forward-dynamics strategy.
func (a *ArticulatedBody) SetSolver(s Solver) { a.solver = s }

// Joint returns a copy of the joint above link id.
func (a *ArticulatedBody) Joint(id LinkID) (Joint, error) {
	l, err := a.jointLink(id)
	if err != nil {
		return Joint{}, err
	}
	return l.Joint, nil
}

// SetJoint sets the position and velocity of the joint above link id.
func (a *ArticulatedBody) SetJoint(id LinkID, q, qv float64) error {
	l, err := a.jointLink(id)
	if err != nil {
		return err
	}
	l.Joint.Q, l.Joint.QV = q, qv
	a.updateKinematics()
	return nil
}

// SetEffort sets the actuator force or torque of the joint above link id.
func (a *ArticulatedBody) SetEffort(id LinkID, effort float64) error {
	l, err := a.jointLink(id)
	if err != nil {
		return err
	}
	l.Joint.Effort = effort
	return nil
}

// SetRootPose places a floating or grounded root.
func (a *ArticulatedBody) SetRootPose(pos mgl64.Vec3, r mgl64.Mat3) {
	a.links[Root].Body.Frame.SetPose(r, pos)
	a.updateKinematics()
}

// SetRootVelocity sets the world velocities of a floating root. Other roots
// ignore it.
func (a *ArticulatedBody) SetRootVelocity(v, w mgl64.Vec3) {
	if a.mode != Floating {
		return
	}
	a.rootV, a.rootW = v, w
	a.updateKinematics()
}

// SetJointFriction replaces the body-wide joint friction model.
func (a *ArticulatedBody) SetJointFriction(f Friction) { a.Friction = f }

// SetTime records the evaluation time used to sample an attached root.
func (a *ArticulatedBody) SetTime(t float64) { a.time = t }

// LinkAcceleration returns the world linear and angular acceleration of link id
// from the most recent solve.
func (a *ArticulatedBody) LinkAcceleration(id LinkID) (mgl64.Vec3, mgl64.Vec3, error) {
	l, err := a.link(id)
	if err != nil {
		return mgl64.Vec3{}, mgl64.Vec3{}, err
	}
	r := l.Body.Orientation()
	return r.Mul3x1(l.a.Bottom), r.Mul3x1(l.a.Top), nil
}

func (a *ArticulatedBody) KineticEnergy() float64 {
	e := 0.0
	for _, l := range a.links {
		e += l.Body.KineticEnergy()
	}
	return e
}

func (a *ArticulatedBody) RigidBodies() []*body.RigidBody {
	out := make([]*body.RigidBody, len(a.links))
	for i, l := range a.links {
		out[i] = l.Body
	}
	return out
}

// updateKinematics recomputes every link's pose and velocity from the root
// motion and joint state, root to leaves, and caches the parent-to-child
// transforms and joint terms the solver reuses.
func (a *ArticulatedBody) updateKinematics() {
	root := a.links[Root]
	var vw, ww mgl64.Vec3
	switch a.mode {
	case Floating:
		vw, ww = a.rootV, a.rootW
	case Attached:
		if a.kin != nil {
			ks := a.kin.KinematicState(a.time)
			root.Body.Frame.SetPose(ks.Orientation, ks.Position)
			vw, ww = ks.Velocity, ks.AngularVelocity
		}
	}
	rt := root.Body.Orientation().Transpose()
	root.w, root.v = rt.Mul3x1(ww), rt.Mul3x1(vw)
	root.x = spatial.IdentityTransform()
	setMotion(root.Body, vw, ww)

	for _, l := range a.links[1:] {
		h := a.links[l.parent]
		j := &l.Joint

		rel, off := j.relative()
		t := rel.Transpose()
		r := t.Mul3x1(off)
		l.x = spatial.Transform{R: t, P: r}

		wp := t.Mul3x1(h.w)
		l.w = wp
		l.v = t.Mul3x1(h.v).Add(wp.Cross(r))
		if j.rotates() {
			l.w = l.w.Add(j.Axis.Mul(j.QV))
			l.v = l.v.Add(j.Axis.Cross(j.ChildOffset).Mul(j.QV))
		} else {
			l.v = l.v.Add(j.Axis.Mul(j.QV))
		}
		l.s = j.spatialAxis()
		l.c = j.coriolis(wp, r)

		rh := h.Body.Orientation()
		rot := rh.Mul3(rel)
		l.Body.Frame.SetPose(rot, h.Body.Position().Add(rh.Mul3x1(off)))
		setMotion(l.Body, rot.Mul3x1(l.v), rot.Mul3x1(l.w))
	}
}

func setMotion(b *body.RigidBody, v, w mgl64.Vec3) {
	b.SetVelocity(v)
	b.SetAngularVelocity(w)
}

func (a *ArticulatedBody) StateSize() int {
	n := 2 * (len(a.links) - 1)
	if a.mode == Floating {
		n += floatingStateSize
	}
	return n
}

func (a *ArticulatedBody) checkLen(buf []float64) {
	if len(buf) < a.StateSize() {
		panic(fmt.Sprintf("articulated: %s: state buffer holds %d values, need %d", a.Name(), len(buf), a.StateSize()))
	}
}

func (a *ArticulatedBody) WriteState(buf []float64) int {
	a.checkLen(buf)
	n := 0
	if a.mode == Floating {
		f := a.links[Root].Body.Frame
		n += copy(buf[n:], f.Offset[:])
		n += copy(buf[n:], f.Orientation[:])
		n += copy(buf[n:], a.rootV[:])
		n += copy(buf[n:], a.rootW[:])
	}
	for _, l := range a.links[1:] {
		buf[n], buf[n+1] = l.Joint.Q, l.Joint.QV
		n += 2
	}
	return n
}

func (a *ArticulatedBody) ReadState(buf []float64) int {
	a.checkLen(buf)
	n := 0
	if a.mode == Floating {
		f := a.links[Root].Body.Frame
		n += copy(f.Offset[:], buf[n:n+3])
		n += copy(f.Orientation[:], buf[n:n+9])
		n += copy(a.rootV[:], buf[n:n+3])
		n += copy(a.rootW[:], buf[n:n+3])
	}
	for _, l := range a.links[1:] {
		l.Joint.Q, l.Joint.QV = buf[n], buf[n+1]
		n += 2
	}
	a.updateKinematics()
	return n
}

func (a *ArticulatedBody) WriteDelta(buf []float64) int {
	a.checkLen(buf)
	n := 0
	if a.mode == Floating {
		root := a.links[Root]
		r := root.Body.Orientation()
		rdot := spatial.Skew(a.rootW).Mul3(r)
		acc, alpha := r.Mul3x1(root.a.Bottom), r.Mul3x1(root.a.Top)
		n += copy(buf[n:], a.rootV[:])
		n += copy(buf[n:], rdot[:])
		n += copy(buf[n:], acc[:])
		n += copy(buf[n:], alpha[:])
	}
	for _, l := range a.links[1:] {
		buf[n], buf[n+1] = l.Joint.QV, l.Joint.QA
		n += 2
	}
	return n
}

func (a *ArticulatedBody) InitState() {
	for _, l := range a.links {
		l.Body.InitState()
	}
}

// Follow re-reads the root motion of an attached chain. It does nothing for
// other roots.
func (a *ArticulatedBody) Follow() {
	if a.mode == Attached {
		a.updateKinematics()
	}
}

func (a *ArticulatedBody) ApplyForce(f body.Force, t float64) {
	for _, l := range a.links {
		f.Apply(l.Body, t)
	}
}

func (a *ArticulatedBody) Solve(t float64) {
	a.time = t
	a.solver.Solve(a, t)
}

// Normalize re-orthonormalizes the root orientation and refreshes the links.
func (a *ArticulatedBody) Normalize() {
	if a.mode != Floating {
		return
	}
	a.links[Root].Body.Normalize()
	a.updateKinematics()
}
