package spatial

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Inverse3 inverts m by cofactors. A near-singular determinant is floored, giving
// a large but finite result instead of infinities.
func Inverse3(m mgl64.Mat3) mgl64.Mat3 {
	a, b, c := m.At(0, 0), m.At(0, 1), m.At(0, 2)
	d, e, f := m.At(1, 0), m.At(1, 1), m.At(1, 2)
	g, h, i := m.At(2, 0), m.At(2, 1), m.At(2, 2)

	c00 := e*i - f*h
	c01 := -(d*i - f*g)
	c02 := d*h - e*g

	det := a*c00 + b*c01 + c*c02
	inv := SafeRecip(det)

	return mgl64.Mat3FromRows(
		mgl64.Vec3{c00, -(b*i - c*h), b*f - c*e}.Mul(inv),
		mgl64.Vec3{c01, a*i - c*g, -(a*f - c*d)}.Mul(inv),
		mgl64.Vec3{c02, -(a*h - b*g), a*e - b*d}.Mul(inv),
	)
}

// Solve3 solves m*x = b by Gaussian elimination with partial pivoting.
func Solve3(m mgl64.Mat3, b mgl64.Vec3) mgl64.Vec3 {
	a := [][]float64{
		{m.At(0, 0), m.At(0, 1), m.At(0, 2)},
		{m.At(1, 0), m.At(1, 1), m.At(1, 2)},
		{m.At(2, 0), m.At(2, 1), m.At(2, 2)},
	}
	x := SolveN(a, []float64{b[0], b[1], b[2]})
	return mgl64.Vec3{x[0], x[1], x[2]}
}

// SolveN solves the dense n-by-n system a*x = b in place by Gaussian elimination
// with partial pivoting. a and b are overwritten.
//
// A pivot smaller than MinMagnitude marks its unknown as undetermined and that
// unknown is returned as zero: the answer is plausible but wrong for singular
// systems, and the caller never sees a failure.
func SolveN(a [][]float64, b []float64) []float64 {
	n := len(b)
	x := make([]float64, n)
	pivotRow := make([]int, n)
	for i := range pivotRow {
		pivotRow[i] = -1
	}

	row := 0
	for col := 0; col < n && row < n; col++ {
		best := row
		for r := row + 1; r < n; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[best][col]) {
				best = r
			}
		}
		if math.Abs(a[best][col]) < MinMagnitude {
			continue
		}
		a[row], a[best] = a[best], a[row]
		b[row], b[best] = b[best], b[row]

		p := a[row][col]
		for r := row + 1; r < n; r++ {
			f := a[r][col] / p
			if f == 0 {
				continue
			}
			for k := col; k < n; k++ {
				a[r][k] -= f * a[row][k]
			}
			b[r] -= f * b[row]
		}
		pivotRow[col] = row
		row++
	}

	for col := n - 1; col >= 0; col-- {
		r := pivotRow[col]
		if r < 0 {
			continue
		}
		sum := b[r]
		for k := col + 1; k < n; k++ {
			sum -= a[r][k] * x[k]
		}
		x[col] = sum / a[r][col]
	}
	return x
}
