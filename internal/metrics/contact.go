package metrics

import (
	"math"

	"github.com/san-kum/artdyn/internal/world"
)

// DepthProbe reports the current deepest interpenetration.
type DepthProbe interface {
	MaxDepth() float64
}

// Penetration is the deepest interpenetration seen by any probe.
type Penetration struct {
	name   string
	probes []DepthProbe
	max    float64
}

func NewPenetration(probes ...DepthProbe) *Penetration {
	return &Penetration{name: "max_penetration", probes: probes}
}

func (p *Penetration) Name() string { return p.name }

func (p *Penetration) Observe(w *world.World, t float64) {
	for _, d := range p.probes {
		p.max = math.Max(p.max, d.MaxDepth())
	}
}

func (p *Penetration) Value() float64 { return p.max }

func (p *Penetration) Reset() { p.max = 0 }

// Rewinds is the number of rewinds the world has performed.
type Rewinds struct {
	name string
	n    int
}

func NewRewinds() *Rewinds {
	return &Rewinds{name: "rewinds"}
}

func (r *Rewinds) Name() string { return r.name }

func (r *Rewinds) Observe(w *world.World, t float64) { r.n = w.Stats().Rewinds }

func (r *Rewinds) Value() float64 { return float64(r.n) }

func (r *Rewinds) Reset() { r.n = 0 }
