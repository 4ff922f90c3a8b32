package integrators

// Midpoint is the second-order explicit midpoint method.
type Midpoint struct {
	k, mid []float64
}

func NewMidpoint() *Midpoint {
	return &Midpoint{}
}

func (m *Midpoint) Name() string { return "midpoint" }

func (m *Midpoint) Step(y0, y1 []float64, t0, t1 float64, f Derivative) {
	n := len(y0)
	m.k = grow(m.k, n)
	m.mid = grow(m.mid, n)
	h := t1 - t0

	f(t0, y0, m.k)
	for i := 0; i < n; i++ {
		m.mid[i] = y0[i] + 0.5*h*m.k[i]
	}
	f(t0+0.5*h, m.mid, m.k)
	for i := 0; i < n; i++ {
		y1[i] = y0[i] + h*m.k[i]
	}
}
