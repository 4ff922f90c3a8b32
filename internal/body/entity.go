// Package body defines the integrable entity contract, the rigid body and the
// force generators that push on rigid bodies.
//
// An entity exposes its integrable state as a flat run of float64 values. The
// world packs every entity into one buffer, hands the buffer to an integrator
// and unpacks it again inside the derivative callback:
//
//	n := e.WriteState(buf[off:])  // entity -> buffer
//	e.ReadState(buf[off:])        // buffer -> entity
//	e.WriteDelta(dydt[off:])      // time derivative -> buffer
//
// All three return the number of values touched, which always equals StateSize.
package body

// Flags modify how the world treats an entity.
type Flags uint8

const (
	// ExcludeFromRewind keeps the entity's current state when the world rewinds.
	ExcludeFromRewind Flags = 1 << iota
	// Frozen entities keep their state; their derivative is zero.
	Frozen
)

// Entity is anything the world can integrate.
type Entity interface {
	Base() *EntityBase

	StateSize() int
	WriteState(buf []float64) int
	ReadState(buf []float64) int
	WriteDelta(buf []float64) int

	// InitState zeroes transient accumulators before forces are applied.
	InitState()
	// ApplyForce adds f to every rigid body the entity is made of.
	ApplyForce(f Force, t float64)
	RigidBodies() []*RigidBody
	// Solve turns accumulated forces into the accelerations WriteDelta reports.
	Solve(t float64)
}

// Clocked entities are told the evaluation time before their state is read.
type Clocked interface {
	SetTime(t float64)
}

// Follower is an entity whose pose tracks another entity. The world calls
// Follow once every entity has read its state.
type Follower interface {
	Follow()
}

// Slot is an entity's range in the world's packed state buffer.
type Slot struct {
	Offset int
	Size   int
}

// EntityBase carries what every entity shares: a name, attached forces, flags
// and the slot assigned by the world. Concrete entities embed it.
type EntityBase struct {
	name   string
	forces []Force
	flags  Flags
	slot   Slot
	owned  bool
}

func NewEntityBase(name string) EntityBase {
	return EntityBase{name: name}
}

func (b *EntityBase) Base() *EntityBase { return b }

func (b *EntityBase) Name() string { return b.name }

func (b *EntityBase) Forces() []Force { return b.forces }

// AttachForce attaches f. Attached forces are applied on every derivative evaluation.
func (b *EntityBase) AttachForce(f Force) {
	b.forces = append(b.forces, f)
}

// DetachForce removes f and reports whether it was attached.
func (b *EntityBase) DetachForce(f Force) bool {
	for i, g := range b.forces {
		if g == f {
			b.forces = append(b.forces[:i], b.forces[i+1:]...)
			return true
		}
	}
	return false
}

func (b *EntityBase) Flags() Flags { return b.flags }

func (b *EntityBase) SetFlags(f Flags) { b.flags |= f }

func (b *EntityBase) ClearFlags(f Flags) { b.flags &^= f }

func (b *EntityBase) Has(f Flags) bool { return b.flags&f != 0 }

func (b *EntityBase) Slot() Slot { return b.slot }

// Registered reports whether a world currently owns the entity.
func (b *EntityBase) Registered() bool { return b.owned }

// AssignSlot records the slot a world assigned. Only the world calls it.
func (b *EntityBase) AssignSlot(s Slot) {
	b.slot = s
	b.owned = true
}

// ReleaseSlot forgets the slot.
func (b *EntityBase) ReleaseSlot() {
	b.slot = Slot{}
	b.owned = false
}

// ApplyForces applies every force attached to e.
func ApplyForces(e Entity, t float64) {
	for _, f := range e.Base().forces {
		e.ApplyForce(f, t)
	}
}
