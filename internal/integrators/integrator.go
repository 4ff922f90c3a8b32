// Package integrators advances flat state buffers with explicit ODE schemes. The
// integrators know nothing about what the buffer holds.
package integrators

import (
	"fmt"
	"sort"
)

// Derivative writes dy/dt evaluated at (t, y) into dydt. Both slices have the
// same length and dydt is fully overwritten.
type Derivative func(t float64, y, dydt []float64)

// Integrator advances y0 at t0 to y1 at t1. y0 and y1 may alias.
type Integrator interface {
	Name() string
	Step(y0, y1 []float64, t0, t1 float64, f Derivative)
}

var constructors = map[string]func() Integrator{
	"euler":    func() Integrator { return NewEuler() },
	"midpoint": func() Integrator { return NewMidpoint() },
	"rk4":      func() Integrator { return NewRK4() },
	"rk45":     func() Integrator { return NewRK45() },
}

// Default is the integrator used when none is named.
const Default = "rk4"

// New returns a fresh integrator by name.
func New(name string) (Integrator, error) {
	if name == "" {
		name = Default
	}
	c, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return c(), nil
}

// Names lists the registered integrator names in sorted order.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for n := range constructors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func grow(buf []float64, n int) []float64 {
	if cap(buf) < n {
		return make([]float64, n)
	}
	return buf[:n]
}
