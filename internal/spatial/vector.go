package spatial

import "github.com/go-gl/mathgl/mgl64"

// Vector is a spatial 6-vector. For motion it holds angular velocity (Top) and
// linear velocity (Bottom); for force it holds force (Top) and torque (Bottom).
type Vector struct {
	Top    mgl64.Vec3
	Bottom mgl64.Vec3
}

// NewVector builds a spatial vector from its halves.
func NewVector(top, bottom mgl64.Vec3) Vector {
	return Vector{Top: top, Bottom: bottom}
}

func (v Vector) Add(o Vector) Vector {
	return Vector{Top: v.Top.Add(o.Top), Bottom: v.Bottom.Add(o.Bottom)}
}

func (v Vector) Sub(o Vector) Vector {
	return Vector{Top: v.Top.Sub(o.Top), Bottom: v.Bottom.Sub(o.Bottom)}
}

func (v Vector) Mul(c float64) Vector {
	return Vector{Top: v.Top.Mul(c), Bottom: v.Bottom.Mul(c)}
}

func (v Vector) Neg() Vector {
	return v.Mul(-1)
}

// Dot is the spatial scalar product v'o = Top.o.Bottom + Bottom.o.Top.
func (v Vector) Dot(o Vector) float64 {
	return v.Top.Dot(o.Bottom) + v.Bottom.Dot(o.Top)
}

// Array flattens v as [Top, Bottom].
func (v Vector) Array() [6]float64 {
	return [6]float64{v.Top[0], v.Top[1], v.Top[2], v.Bottom[0], v.Bottom[1], v.Bottom[2]}
}

// VectorFromSlice reads the first six values of s as [Top, Bottom].
func VectorFromSlice(s []float64) Vector {
	return Vector{
		Top:    mgl64.Vec3{s[0], s[1], s[2]},
		Bottom: mgl64.Vec3{s[3], s[4], s[5]},
	}
}
