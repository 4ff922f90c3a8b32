package spatial

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// MinMagnitude is the smallest denominator magnitude used without substitution.
	MinMagnitude = 1e-10

	// LargeValue replaces the reciprocal of anything smaller than MinMagnitude.
	LargeValue = 1e10
)

// Zero3 is the zero 3-vector.
var Zero3 = mgl64.Vec3{}

// SafeRecip returns 1/x, or a large finite value of the same sign when |x| is
// below MinMagnitude.
func SafeRecip(x float64) float64 {
	if math.Abs(x) < MinMagnitude {
		if x < 0 {
			return -LargeValue
		}
		return LargeValue
	}
	return 1 / x
}

// SafeDiv returns a/b with b floored by MinMagnitude.
func SafeDiv(a, b float64) float64 {
	return a * SafeRecip(b)
}

// Skew returns the cross-product matrix of v, so Skew(v).Mul3x1(x) == v.Cross(x).
func Skew(v mgl64.Vec3) mgl64.Mat3 {
	return mgl64.Mat3FromRows(
		mgl64.Vec3{0, -v[2], v[1]},
		mgl64.Vec3{v[2], 0, -v[0]},
		mgl64.Vec3{-v[1], v[0], 0},
	)
}

// AxisRotation returns the rotation of angle radians about the unit axis.
func AxisRotation(axis mgl64.Vec3, angle float64) mgl64.Mat3 {
	if axis.LenSqr() < MinMagnitude {
		return mgl64.Ident3()
	}
	return mgl64.QuatRotate(angle, axis.Normalize()).Mat4().Mat3()
}

// Orthonormalize re-projects a drifting rotation matrix onto SO(3) with a
// Gram-Schmidt pass over its columns.
func Orthonormalize(m mgl64.Mat3) mgl64.Mat3 {
	x, y, _ := m.Cols()
	if x.LenSqr() < MinMagnitude || y.LenSqr() < MinMagnitude {
		return mgl64.Ident3()
	}
	x = x.Normalize()
	y = y.Sub(x.Mul(x.Dot(y)))
	if y.LenSqr() < MinMagnitude {
		return mgl64.Ident3()
	}
	y = y.Normalize()
	return mgl64.Mat3FromCols(x, y, x.Cross(y))
}

// IsFinite3 reports whether every component of v is finite.
func IsFinite3(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Similarity returns R*M*R^T, the world-frame form of a body-frame tensor.
func Similarity(r, m mgl64.Mat3) mgl64.Mat3 {
	return r.Mul3(m).Mul3(r.Transpose())
}
