package contact

import (
	"math"

	"github.com/san-kum/artdyn/internal/spatial"
)

// Options tune the force solver and the collision pass.
type Options struct {
	// VelocityTolerance separates resting contacts from colliding and
	// separating ones.
	VelocityTolerance float64
	// Tolerance is the acceleration below zero still accepted as zero.
	Tolerance float64
	// MaxIterations caps active-set changes per driven contact.
	MaxIterations int
}

func DefaultOptions() Options {
	return Options{
		VelocityTolerance: 1e-3,
		Tolerance:         1e-9,
		MaxIterations:     100,
	}
}

// Result holds one entry per input contact. Contacts that were not resting keep
// zero force and their unconstrained acceleration.
type Result struct {
	Forces        []float64
	Accelerations []float64
	Resting       []bool
}

type set uint8

const (
	setNone set = iota
	setClamped
	setNotClamped
)

type problem struct {
	a    [][]float64
	f    []float64
	acc  []float64
	sets []set
	tol  float64
	max  int
}

// Solve finds normal forces for the resting contacts in cs such that every
// force is non-negative, every relative normal acceleration is non-negative and
// no contact has both positive. Contacts are driven to zero acceleration one at
// a time, moving others between the clamped set (acceleration held at zero) and
// the unclamped set (force held at zero) whenever a bound is hit.
func Solve(cs []Contact, opt Options) Result {
	n := len(cs)
	res := Result{
		Forces:        make([]float64, n),
		Accelerations: make([]float64, n),
		Resting:       make([]bool, n),
	}

	idx := make([]int, 0, n)
	for i := range cs {
		if math.Abs(cs[i].RelativeVelocity()) <= opt.VelocityTolerance {
			res.Resting[i] = true
			idx = append(idx, i)
		}
		res.Accelerations[i] = cs[i].bias()
	}
	if len(idx) == 0 {
		return res
	}

	m := len(idx)
	p := &problem{
		a:    make([][]float64, m),
		f:    make([]float64, m),
		acc:  make([]float64, m),
		sets: make([]set, m),
		tol:  opt.Tolerance,
		max:  opt.MaxIterations,
	}
	for r, i := range idx {
		p.a[r] = make([]float64, m)
		for c, j := range idx {
			p.a[r][c] = coupling(&cs[i], &cs[j])
		}
		p.acc[r] = res.Accelerations[i]
	}

	for {
		d := -1
		for i := range p.acc {
			if p.sets[i] == setNone && p.acc[i] < -p.tol {
				d = i
				break
			}
		}
		if d < 0 {
			break
		}
		p.driveToZero(d)
	}

	for r, i := range idx {
		res.Forces[i] = p.f[r]
		res.Accelerations[i] = p.acc[r]
	}
	return res
}

func (p *problem) driveToZero(d int) {
	for iter := 0; iter < p.max; iter++ {
		df := p.direction(d)
		da := make([]float64, len(df))
		for i := range da {
			for j, v := range df {
				da[i] += p.a[i][j] * v
			}
		}

		s, j := p.maxStep(df, da, d)
		if j < 0 {
			// no bound limits the step; d cannot be driven
			p.sets[d] = setNotClamped
			return
		}
		for i := range p.f {
			p.f[i] += s * df[i]
			p.acc[i] += s * da[i]
		}

		switch {
		case j == d:
			p.acc[d] = 0
			p.sets[d] = setClamped
			return
		case p.sets[j] == setClamped:
			p.f[j] = 0
			p.sets[j] = setNotClamped
		default:
			p.acc[j] = 0
			p.sets[j] = setClamped
		}
	}
	p.sets[d] = setNotClamped
}

// direction returns the force change that raises d's force by one while keeping
// the acceleration of every clamped contact fixed: A_CC x = -A_Cd.
func (p *problem) direction(d int) []float64 {
	df := make([]float64, len(p.f))
	df[d] = 1

	var clamped []int
	for i, s := range p.sets {
		if s == setClamped {
			clamped = append(clamped, i)
		}
	}
	if len(clamped) == 0 {
		return df
	}

	acc := make([][]float64, len(clamped))
	rhs := make([]float64, len(clamped))
	for r, i := range clamped {
		acc[r] = make([]float64, len(clamped))
		for c, j := range clamped {
			acc[r][c] = p.a[i][j]
		}
		rhs[r] = -p.a[i][d]
	}
	x := spatial.SolveN(acc, rhs)
	for r, i := range clamped {
		df[i] = x[r]
	}
	return df
}

// maxStep returns the largest step along (df, da) that keeps clamped forces and
// unclamped accelerations non-negative, and the contact that limits it.
func (p *problem) maxStep(df, da []float64, d int) (float64, int) {
	s, j := math.Inf(1), -1
	if da[d] > 0 {
		s, j = -p.acc[d]/da[d], d
	}
	for i, st := range p.sets {
		switch st {
		case setClamped:
			if df[i] < 0 {
				if step := -p.f[i] / df[i]; step < s {
					s, j = step, i
				}
			}
		case setNotClamped:
			if da[i] < 0 {
				if step := -p.acc[i] / da[i]; step < s {
					s, j = step, i
				}
			}
		}
	}
	return s, j
}

// Apply solves cs and adds the resulting forces to the bodies.
func Apply(cs []Contact, opt Options) Result {
	res := Solve(cs, opt)
	for i := range cs {
		cs[i].ApplyForce(res.Forces[i])
	}
	return res
}
