package spatial

import "github.com/go-gl/mathgl/mgl64"

// Matrix is a 6x6 spatial matrix stored as four 3x3 blocks [[A B] [C D]].
type Matrix struct {
	A, B, C, D mgl64.Mat3
}

// Identity6 returns the 6x6 identity.
func Identity6() Matrix {
	return Matrix{A: mgl64.Ident3(), D: mgl64.Ident3()}
}

// Inertia returns the spatial inertia [[0 m*1] [I 0]] of a rigid body with mass m
// and inertia tensor I, both about the center of mass.
func Inertia(m float64, inertia mgl64.Mat3) Matrix {
	return Matrix{B: mgl64.Ident3().Mul(m), C: inertia}
}

// Outer returns x*y', the product of x with the spatial transpose of y.
func Outer(x, y Vector) Matrix {
	return Matrix{
		A: x.Top.OuterProd3(y.Bottom),
		B: x.Top.OuterProd3(y.Top),
		C: x.Bottom.OuterProd3(y.Bottom),
		D: x.Bottom.OuterProd3(y.Top),
	}
}

func (m Matrix) Add(o Matrix) Matrix {
	return Matrix{A: m.A.Add(o.A), B: m.B.Add(o.B), C: m.C.Add(o.C), D: m.D.Add(o.D)}
}

func (m Matrix) Sub(o Matrix) Matrix {
	return Matrix{A: m.A.Sub(o.A), B: m.B.Sub(o.B), C: m.C.Sub(o.C), D: m.D.Sub(o.D)}
}

func (m Matrix) Scale(c float64) Matrix {
	return Matrix{A: m.A.Mul(c), B: m.B.Mul(c), C: m.C.Mul(c), D: m.D.Mul(c)}
}

func (m Matrix) Mul(o Matrix) Matrix {
	return Matrix{
		A: m.A.Mul3(o.A).Add(m.B.Mul3(o.C)),
		B: m.A.Mul3(o.B).Add(m.B.Mul3(o.D)),
		C: m.C.Mul3(o.A).Add(m.D.Mul3(o.C)),
		D: m.C.Mul3(o.B).Add(m.D.Mul3(o.D)),
	}
}

func (m Matrix) MulVec(v Vector) Vector {
	return Vector{
		Top:    m.A.Mul3x1(v.Top).Add(m.B.Mul3x1(v.Bottom)),
		Bottom: m.C.Mul3x1(v.Top).Add(m.D.Mul3x1(v.Bottom)),
	}
}

// SpatialTranspose returns [[D' B'] [C' A']].
func (m Matrix) SpatialTranspose() Matrix {
	return Matrix{
		A: m.D.Transpose(),
		B: m.B.Transpose(),
		C: m.C.Transpose(),
		D: m.A.Transpose(),
	}
}

// At returns the element at row r, column c of the full 6x6 matrix.
func (m Matrix) At(r, c int) float64 {
	switch {
	case r < 3 && c < 3:
		return m.A.At(r, c)
	case r < 3:
		return m.B.At(r, c-3)
	case c < 3:
		return m.C.At(r-3, c)
	default:
		return m.D.At(r-3, c-3)
	}
}

// Solve returns x with m*x = b, using SolveN. Singular directions come back zero.
func (m Matrix) Solve(b Vector) Vector {
	a := make([][]float64, 6)
	for r := range a {
		a[r] = make([]float64, 6)
		for c := range a[r] {
			a[r][c] = m.At(r, c)
		}
	}
	rhs := b.Array()
	return VectorFromSlice(SolveN(a, rhs[:]))
}

// Transform is the spatial frame change from frame F to frame G:
//
//	[ R      0 ]
//	[ -r~R   R ]
//
// R rotates F coordinates into G coordinates and r is the offset from the F
// origin to the G origin, expressed in G.
type Transform struct {
	R mgl64.Mat3
	P mgl64.Vec3
}

// IdentityTransform leaves spatial vectors unchanged.
func IdentityTransform() Transform {
	return Transform{R: mgl64.Ident3()}
}

// Apply maps a spatial vector from F to G.
func (x Transform) Apply(v Vector) Vector {
	top := x.R.Mul3x1(v.Top)
	return Vector{
		Top:    top,
		Bottom: x.R.Mul3x1(v.Bottom).Sub(x.P.Cross(top)),
	}
}

// ApplyInverse maps a spatial vector from G back to F.
func (x Transform) ApplyInverse(v Vector) Vector {
	rt := x.R.Transpose()
	return Vector{
		Top:    rt.Mul3x1(v.Top),
		Bottom: rt.Mul3x1(x.P.Cross(v.Top).Add(v.Bottom)),
	}
}

// Matrix returns the 6x6 form of x.
func (x Transform) Matrix() Matrix {
	return Matrix{
		A: x.R,
		C: Skew(x.P).Mul3(x.R).Mul(-1),
		D: x.R,
	}
}

// InverseMatrix returns the 6x6 form of the inverse, which equals the spatial
// transpose of Matrix().
func (x Transform) InverseMatrix() Matrix {
	return x.Matrix().SpatialTranspose()
}

// Reduce carries a G-frame articulated inertia back to F: X^-1 * m * X.
func (x Transform) Reduce(m Matrix) Matrix {
	return x.InverseMatrix().Mul(m).Mul(x.Matrix())
}
