// Package metrics summarizes a running world. Metrics observe the world after
// every accepted sub-step through a Set registered as a world observer.
package metrics

import (
	"sort"

	"github.com/san-kum/artdyn/internal/world"
)

type Metric interface {
	Name() string
	Observe(w *world.World, t float64)
	Value() float64
	Reset()
}

// Set fans world steps out to its metrics.
type Set []Metric

func (s Set) OnStep(w *world.World, t float64) {
	for _, m := range s {
		m.Observe(w, t)
	}
}

func (s Set) Reset() {
	for _, m := range s {
		m.Reset()
	}
}

func (s Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s))
	for _, m := range s {
		out[m.Name()] = m.Value()
	}
	return out
}

// Names returns the metric names in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for _, m := range s {
		names = append(names, m.Name())
	}
	sort.Strings(names)
	return names
}
