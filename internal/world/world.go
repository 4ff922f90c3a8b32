// Package world owns a set of entities and advances them in time.
//
// Each sub-step packs every entity into one flat buffer, snapshots it, and hands
// it to the integrator. The derivative callback unpacks the buffer, zeroes the
// accumulators, applies environment forces, the entities' own forces and the
// contact force sources, runs every entity's solver and packs the derivatives.
// After the step each catastrophe manager reports an interpenetration depth;
// the world bisects the sub-step until the first contact is found to within
// Settings.Epsilon, rewinding to the snapshot between attempts.
package world

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/artdyn/internal/articulated"
	"github.com/san-kum/artdyn/internal/body"
	"github.com/san-kum/artdyn/internal/integrators"
)

// Mode is the rewind state of a world.
type Mode int

const (
	// Normal worlds are integrating time they have not seen before.
	Normal Mode = iota
	// Rewound worlds are re-integrating time after a rewind.
	Rewound
)

func (m Mode) String() string {
	if m == Rewound {
		return "rewound"
	}
	return "normal"
}

// CatastropheManager watches for constraint violations such as interpenetration.
type CatastropheManager interface {
	Name() string
	// Check returns the size of the violation at the current state, zero when
	// there is none.
	Check(t float64) float64
	// Handle corrects the violation at the current state.
	Handle(t float64)
}

// ForceSource adds forces that depend on the whole world, such as resting
// contact forces. Sources run after every other force.
type ForceSource interface {
	ApplyForces(t float64)
}

// Observer is told about every accepted sub-step.
type Observer interface {
	OnStep(w *World, t float64)
}

type normalizer interface {
	Normalize()
}

type frictioned interface {
	SetJointFriction(articulated.Friction)
}

// Stats counts what the world has done.
type Stats struct {
	Steps        int
	Rewinds      int
	Catastrophes int
	CapHits      int
}

type World struct {
	entities  []body.Entity
	enviro    []body.Force
	managers  []CatastropheManager
	sources   []ForceSource
	observers []Observer

	integ    integrators.Integrator
	settings Settings
	log      *slog.Logger

	alloc    allocator
	state    []float64
	next     []float64
	snapshot []float64
	snapTime float64

	t         float64
	mode      Mode
	rewoundAt float64
	stats     Stats
}

type Option func(*World)

func WithIntegrator(i integrators.Integrator) Option {
	return func(w *World) { w.integ = i }
}

func WithSettings(s Settings) Option {
	return func(w *World) { w.settings = s }
}

func WithLogger(l *slog.Logger) Option {
	return func(w *World) { w.log = l }
}

// New returns an empty world using RK4 unless another integrator is given.
func New(opts ...Option) *World {
	w := &World{
		integ:    integrators.NewRK4(),
		settings: DefaultSettings(),
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *World) Time() float64 { return w.t }

// SetTime moves the clock without integrating.
func (w *World) SetTime(t float64) { w.t = t }

func (w *World) Mode() Mode { return w.mode }

func (w *World) Stats() Stats { return w.stats }

func (w *World) Settings() Settings { return w.settings }

func (w *World) Integrator() integrators.Integrator { return w.integ }

func (w *World) SetIntegrator(i integrators.Integrator) { w.integ = i }

func (w *World) Entities() []body.Entity { return w.entities }

// Entity returns the first registered entity with the given name.
func (w *World) Entity(name string) (body.Entity, error) {
	for _, e := range w.entities {
		if e.Base().Name() == name {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, name)
}

// AddEntity registers e and allocates its slice of the state buffer.
func (w *World) AddEntity(e body.Entity) error {
	b := e.Base()
	if b.Registered() {
		return fmt.Errorf("%w: %s", ErrDuplicateEntity, b.Name())
	}
	size := e.StateSize()
	b.AssignSlot(body.Slot{Offset: w.alloc.alloc(size), Size: size})
	if f, ok := e.(frictioned); ok {
		f.SetJointFriction(articulated.Friction{
			Viscous:         w.settings.JointFriction,
			CoulombFraction: w.settings.CoulombFraction,
		})
	}
	w.entities = append(w.entities, e)
	w.log.Debug("entity added", "entity", b.Name(), "offset", b.Slot().Offset, "size", size)
	return nil
}

// DeleteEntity unregisters e and frees its slice.
func (w *World) DeleteEntity(e body.Entity) error {
	for i, x := range w.entities {
		if x != e {
			continue
		}
		b := e.Base()
		w.alloc.release(b.Slot().Offset, b.Slot().Size)
		b.ReleaseSlot()
		w.entities = append(w.entities[:i], w.entities[i+1:]...)
		w.log.Debug("entity deleted", "entity", b.Name())
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownEntity, e.Base().Name())
}

// AddEnviroForce applies f to every entity.
func (w *World) AddEnviroForce(f body.Force) { w.enviro = append(w.enviro, f) }

func (w *World) RemoveEnviroForce(f body.Force) bool {
	for i, g := range w.enviro {
		if g == f {
			w.enviro = append(w.enviro[:i], w.enviro[i+1:]...)
			return true
		}
	}
	return false
}

func (w *World) EnviroForces() []body.Force { return w.enviro }

func (w *World) RegisterCatastropheManager(m CatastropheManager) {
	w.managers = append(w.managers, m)
}

func (w *World) AddForceSource(s ForceSource) { w.sources = append(w.sources, s) }

func (w *World) AddObserver(o Observer) { w.observers = append(w.observers, o) }

// StateSize is the length of the packed state buffer.
func (w *World) StateSize() int { return w.alloc.size }

// State returns a copy of the packed state of every entity.
func (w *World) State() []float64 {
	w.relayout()
	w.pack(w.state)
	out := make([]float64, len(w.state))
	copy(out, w.state)
	return out
}

// relayout reallocates entities whose state size changed and sizes the buffers.
func (w *World) relayout() {
	for _, e := range w.entities {
		b := e.Base()
		size := e.StateSize()
		if size == b.Slot().Size {
			continue
		}
		w.alloc.release(b.Slot().Offset, b.Slot().Size)
		b.AssignSlot(body.Slot{Offset: w.alloc.alloc(size), Size: size})
		w.log.Debug("entity resized", "entity", b.Name(), "offset", b.Slot().Offset, "size", size)
	}
	n := w.alloc.size
	w.state = resize(w.state, n)
	w.next = resize(w.next, n)
	w.snapshot = resize(w.snapshot, n)
}

func resize(buf []float64, n int) []float64 {
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

func slice(buf []float64, s body.Slot) []float64 {
	return buf[s.Offset : s.Offset+s.Size]
}

func (w *World) pack(buf []float64) {
	for _, e := range w.entities {
		e.WriteState(slice(buf, e.Base().Slot()))
	}
}

func (w *World) unpack(buf []float64, t float64) {
	for _, e := range w.entities {
		if c, ok := e.(body.Clocked); ok {
			c.SetTime(t)
		}
		e.ReadState(slice(buf, e.Base().Slot()))
	}
	for _, e := range w.entities {
		if f, ok := e.(body.Follower); ok {
			f.Follow()
		}
	}
}

// dydt is the derivative callback handed to the integrator.
func (w *World) dydt(t float64, y, dydt []float64) {
	w.unpack(y, t)

	for _, e := range w.entities {
		e.InitState()
	}
	for _, f := range w.enviro {
		for _, e := range w.entities {
			e.ApplyForce(f, t)
		}
	}
	for _, e := range w.entities {
		body.ApplyForces(e, t)
	}
	for _, s := range w.sources {
		s.ApplyForces(t)
	}

	for _, e := range w.entities {
		out := slice(dydt, e.Base().Slot())
		if e.Base().Has(body.Frozen) {
			clear(out)
			continue
		}
		e.Solve(t)
		e.WriteDelta(out)
	}
}

// DoTimeStep advances every entity from t0 to t1 with one integrator step.
func (w *World) DoTimeStep(t0, t1 float64) error {
	if w.integ == nil {
		return ErrNoIntegrator
	}
	w.relayout()
	w.pack(w.state)
	copy(w.snapshot, w.state)
	w.snapTime = t0

	w.integ.Step(w.state, w.next, t0, t1, w.dydt)
	w.state, w.next = w.next, w.state
	w.unpack(w.state, t1)

	for _, e := range w.entities {
		if n, ok := e.(normalizer); ok && !e.Base().Has(body.Frozen) {
			n.Normalize()
		}
	}
	w.t = t1
	w.stats.Steps++

	if w.settings.ValidateState {
		return w.validate()
	}
	return nil
}

func (w *World) validate() error {
	for _, e := range w.entities {
		for _, v := range slice(w.state, e.Base().Slot()) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return &StepError{Step: w.stats.Steps, Time: w.t, Entity: e.Base().Name(), Err: ErrNonFinite}
			}
		}
	}
	return nil
}

// Rewind restores every entity not excluded from rewinding to the state saved
// at the start of the last DoTimeStep.
func (w *World) Rewind() {
	w.rewoundAt = math.Max(w.rewoundAt, w.t)
	for _, e := range w.entities {
		if e.Base().Has(body.ExcludeFromRewind) {
			continue
		}
		if c, ok := e.(body.Clocked); ok {
			c.SetTime(w.snapTime)
		}
		e.ReadState(slice(w.snapshot, e.Base().Slot()))
	}
	w.t = w.snapTime
	w.mode = Rewound
	w.stats.Rewinds++
}

// check returns the largest violation reported by any manager and the managers
// reporting one.
func (w *World) check(t float64) (float64, []CatastropheManager) {
	worst := 0.0
	var hit []CatastropheManager
	for _, m := range w.managers {
		if mag := m.Check(t); mag > 0 {
			hit = append(hit, m)
			worst = math.Max(worst, mag)
		}
	}
	return worst, hit
}

func (w *World) accept(t float64) {
	if w.mode == Rewound && t >= w.rewoundAt {
		w.mode = Normal
		w.log.Debug("rewind caught up", "t", t)
	}
	for _, o := range w.observers {
		o.OnStep(w, t)
	}
}

// Evolve advances the world from t1 to t2. Sub-steps that end in a catastrophe
// larger than Settings.Epsilon are rewound and halved until the violation is
// small enough, the sub-step reaches Settings.MinInterval or
// Settings.MaxBisections halvings have been tried; then the managers handle it
// and integration continues. After a clean sub-step the next one doubles, up
// to the end of the interval.
func (w *World) Evolve(t1, t2 float64) error {
	if t2 < t1 || math.IsNaN(t1) || math.IsNaN(t2) || math.IsInf(t2, 0) {
		return fmt.Errorf("%w: [%g, %g]", ErrInvalidInterval, t1, t2)
	}
	if w.integ == nil {
		return ErrNoIntegrator
	}

	ta, tb := t1, t2
	bisections := 0
	for ta < t2 {
		if err := w.DoTimeStep(ta, tb); err != nil {
			return err
		}

		mag, hit := w.check(tb)
		if mag == 0 {
			w.accept(tb)
			bisections = 0
			next := math.Min(t2, tb+2*(tb-ta))
			ta, tb = tb, next
			continue
		}

		capped := bisections >= w.settings.MaxBisections
		if mag < w.settings.Epsilon || tb-ta <= w.settings.MinInterval || capped {
			if capped && mag >= w.settings.Epsilon && tb-ta > w.settings.MinInterval {
				w.stats.CapHits++
				w.log.Warn("bisection cap reached, accepting state",
					"t", tb, "magnitude", mag, "bisections", bisections)
			}
			for _, m := range hit {
				m.Handle(tb)
				w.stats.Catastrophes++
				w.log.Info("catastrophe handled", "manager", m.Name(), "t", tb, "magnitude", mag)
			}
			w.accept(tb)
			bisections = 0
			ta, tb = tb, t2
			continue
		}

		w.log.Debug("catastrophe, bisecting", "t0", ta, "t1", tb, "magnitude", mag, "bisection", bisections)
		w.Rewind()
		bisections++
		tb = ta + 0.5*(tb-ta)
	}
	return nil
}

// Step advances the world by dt from its current time.
func (w *World) Step(dt float64) error {
	return w.Evolve(w.t, w.t+dt)
}

// RigidBodies returns every rigid body of every entity.
func (w *World) RigidBodies() []*body.RigidBody {
	var out []*body.RigidBody
	for _, e := range w.entities {
		out = append(out, e.RigidBodies()...)
	}
	return out
}

// TotalLinearMomentum sums m*v over every rigid body.
func (w *World) TotalLinearMomentum() mgl64.Vec3 {
	var p mgl64.Vec3
	for _, b := range w.RigidBodies() {
		p = p.Add(b.Velocity().Mul(b.Mass()))
	}
	return p
}

func (w *World) KineticEnergy() float64 {
	e := 0.0
	for _, b := range w.RigidBodies() {
		e += b.KineticEnergy()
	}
	return e
}

// PotentialEnergy sums the potentials of conservative environment forces and
// of conservative forces attached to entities.
func (w *World) PotentialEnergy() float64 {
	e := 0.0
	for _, ent := range w.entities {
		bodies := ent.RigidBodies()
		for _, f := range w.enviro {
			if p, ok := f.(body.Potential); ok {
				for _, b := range bodies {
					e += p.PotentialEnergy(b)
				}
			}
		}
		for _, f := range ent.Base().Forces() {
			if p, ok := f.(body.Potential); ok {
				for _, b := range bodies {
					e += p.PotentialEnergy(b)
				}
			}
		}
	}
	return e
}

func (w *World) TotalEnergy() float64 {
	return w.KineticEnergy() + w.PotentialEnergy()
}
