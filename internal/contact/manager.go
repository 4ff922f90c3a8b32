package contact

import "github.com/go-gl/mathgl/mgl64"

// Detector supplies the contacts present at the current state. Contacts with a
// gap larger than the detector's tolerance should be left out.
type Detector interface {
	Contacts() []Contact
}

// Manager turns a Detector into a catastrophe manager and a resting-contact
// force source for the world.
type Manager struct {
	name     string
	detector Detector
	opt      Options

	impulses int
	last     Result
}

func NewManager(name string, d Detector, opt Options) *Manager {
	return &Manager{name: name, detector: d, opt: opt}
}

func (m *Manager) Name() string { return m.name }

// Check returns the deepest penetration among approaching contacts, or zero.
// Resting and separating contacts never count: the force source holds resting
// contacts and separating ones resolve themselves.
func (m *Manager) Check(t float64) float64 {
	deepest := 0.0
	for _, c := range m.detector.Contacts() {
		if c.Depth > deepest && c.RelativeVelocity() < -m.opt.VelocityTolerance {
			deepest = c.Depth
		}
	}
	return deepest
}

// Handle resolves every collision at the current instant with impulses.
func (m *Manager) Handle(t float64) {
	cs := m.detector.Contacts()
	m.impulses += Resolve(cs, m.opt)
}

// ApplyForces adds resting-contact forces to the bodies. The world calls it
// inside the derivative evaluation after all other forces are in place.
func (m *Manager) ApplyForces(t float64) {
	cs := m.detector.Contacts()
	if len(cs) == 0 {
		m.last = Result{}
		return
	}
	m.last = Apply(cs, m.opt)
}

// Impulses returns the number of collision impulses applied so far.
func (m *Manager) Impulses() int { return m.impulses }

// LastResult returns the most recent resting-contact solution.
func (m *Manager) LastResult() Result { return m.last }

// Probe is a sphere of Radius centered on a body's reference point.
type Probe struct {
	Body   Body
	Radius float64
}

// GroundPlane detects sphere probes touching the plane Normal.x = Offset. The
// solid side is below the plane.
type GroundPlane struct {
	Normal      mgl64.Vec3
	Offset      float64
	Restitution float64
	// Slop is the largest gap still reported as a contact.
	Slop float64

	Probes []Probe
}

// NewGroundPlane returns the plane z = height with upward normal.
func NewGroundPlane(height, restitution float64) *GroundPlane {
	return &GroundPlane{
		Normal:      mgl64.Vec3{0, 0, 1},
		Offset:      height,
		Restitution: restitution,
		Slop:        1e-3,
	}
}

func (g *GroundPlane) AddProbe(b Body, radius float64) {
	g.Probes = append(g.Probes, Probe{Body: b, Radius: radius})
}

// Depth returns how far the probe sinks into the plane.
func (g *GroundPlane) Depth(p Probe) float64 {
	return g.Offset + p.Radius - g.Normal.Dot(p.Body.Position())
}

func (g *GroundPlane) Contacts() []Contact {
	var cs []Contact
	for _, p := range g.Probes {
		d := g.Depth(p)
		if d < -g.Slop {
			continue
		}
		cs = append(cs, Contact{
			A:           p.Body,
			Point:       p.Body.Position().Sub(g.Normal.Mul(p.Radius)),
			Normal:      g.Normal,
			Depth:       d,
			Restitution: g.Restitution,
		})
	}
	return cs
}

// MaxDepth returns the deepest penetration of any probe, or zero.
func (g *GroundPlane) MaxDepth() float64 {
	deepest := 0.0
	for _, p := range g.Probes {
		if d := g.Depth(p); d > deepest {
			deepest = d
		}
	}
	return deepest
}

// SphereSet detects contacts between every pair of its probes.
type SphereSet struct {
	Restitution float64
	Slop        float64
	Probes      []Probe
}

func (s *SphereSet) Add(b Body, radius float64) {
	s.Probes = append(s.Probes, Probe{Body: b, Radius: radius})
}

func (s *SphereSet) Contacts() []Contact {
	var cs []Contact
	for i := range s.Probes {
		for j := i + 1; j < len(s.Probes); j++ {
			a, b := s.Probes[i], s.Probes[j]
			d := a.Body.Position().Sub(b.Body.Position())
			dist := d.Len()
			depth := a.Radius + b.Radius - dist
			if depth < -s.Slop || dist == 0 {
				continue
			}
			n := d.Mul(1 / dist)
			cs = append(cs, Contact{
				A:           a.Body,
				B:           b.Body,
				Point:       b.Body.Position().Add(n.Mul(b.Radius - 0.5*depth)),
				Normal:      n,
				Depth:       depth,
				Restitution: s.Restitution,
			})
		}
	}
	return cs
}

// Detectors concatenates the contacts of several detectors.
type Detectors []Detector

func (ds Detectors) Contacts() []Contact {
	var cs []Contact
	for _, d := range ds {
		cs = append(cs, d.Contacts()...)
	}
	return cs
}
