package integrators

// RK4 is the classical fourth-order Runge-Kutta method and the default stepper.
type RK4 struct {
	k1, k2, k3, k4 []float64
	scratch        []float64
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make([]float64, n)
		r.k2 = make([]float64, n)
		r.k3 = make([]float64, n)
		r.k4 = make([]float64, n)
		r.scratch = make([]float64, n)
	}
}

func (r *RK4) Step(y0, y1 []float64, t0, t1 float64, f Derivative) {
	n := len(y0)
	r.ensureScratch(n)
	dt := t1 - t0

	f(t0, y0, r.k1)

	for i := 0; i < n; i++ {
		r.scratch[i] = y0[i] + dt*0.5*r.k1[i]
	}
	f(t0+dt*0.5, r.scratch, r.k2)

	for i := 0; i < n; i++ {
		r.scratch[i] = y0[i] + dt*0.5*r.k2[i]
	}
	f(t0+dt*0.5, r.scratch, r.k3)

	for i := 0; i < n; i++ {
		r.scratch[i] = y0[i] + dt*r.k3[i]
	}
	f(t1, r.scratch, r.k4)

	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		y1[i] = y0[i] + dt6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}
}
