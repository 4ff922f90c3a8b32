package integrators

// Euler is the explicit first-order method: one derivative evaluation per step.
type Euler struct {
	k []float64
}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(y0, y1 []float64, t0, t1 float64, f Derivative) {
	n := len(y0)
	e.k = grow(e.k, n)
	h := t1 - t0

	f(t0, y0, e.k)
	for i := 0; i < n; i++ {
		y1[i] = y0[i] + h*e.k[i]
	}
}
