// Package frame holds reference frames: an orientation and offset relative to a
// parent, normally the universe frame.
package frame

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/artdyn/internal/spatial"
)

// ReferenceFrame is an orientation plus offset relative to Parent. Orientation maps
// frame coordinates into parent coordinates and must stay orthonormal.
//
// The universe frame's fields are not read by any transform: writing them has
// no effect and the universe always acts as the identity.
type ReferenceFrame struct {
	Orientation mgl64.Mat3
	Offset      mgl64.Vec3

	parent *ReferenceFrame
	refs   int
	fixed  bool
}

var (
	universe     *ReferenceFrame
	universeOnce sync.Once
)

// Universe returns the process-wide root frame. It is created on first use, has an
// identity transform that cannot be changed, and is never released.
func Universe() *ReferenceFrame {
	universeOnce.Do(func() {
		universe = &ReferenceFrame{
			Orientation: mgl64.Ident3(),
			refs:        1,
			fixed:       true,
		}
	})
	return universe
}

// New returns a frame with the given pose relative to the universe and one reference.
func New(orientation mgl64.Mat3, offset mgl64.Vec3) *ReferenceFrame {
	return NewRelative(Universe(), orientation, offset)
}

// NewRelative returns a frame posed relative to parent.
func NewRelative(parent *ReferenceFrame, orientation mgl64.Mat3, offset mgl64.Vec3) *ReferenceFrame {
	return &ReferenceFrame{
		Orientation: orientation,
		Offset:      offset,
		parent:      parent,
		refs:        1,
	}
}

// Identity returns a universe-relative frame at the origin.
func Identity() *ReferenceFrame {
	return New(mgl64.Ident3(), mgl64.Vec3{})
}

func (f *ReferenceFrame) Parent() *ReferenceFrame { return f.parent }

// IsUniverse reports whether f is the universe frame.
func (f *ReferenceFrame) IsUniverse() bool { return f == Universe() }

// Retain adds a reference and returns f. The universe count never changes, so
// worlds on different goroutines may share it.
func (f *ReferenceFrame) Retain() *ReferenceFrame {
	if !f.fixed {
		f.refs++
	}
	return f
}

// Release drops a reference and reports whether it was the last one. The
// universe frame is never released.
func (f *ReferenceFrame) Release() bool {
	if f.fixed {
		return false
	}
	if f.refs > 0 {
		f.refs--
	}
	return f.refs == 0
}

func (f *ReferenceFrame) RefCount() int { return f.refs }

// SetPose replaces orientation and offset. It is a no-op on the universe frame.
func (f *ReferenceFrame) SetPose(orientation mgl64.Mat3, offset mgl64.Vec3) {
	if f.fixed {
		return
	}
	f.Orientation = orientation
	f.Offset = offset
}

// Normalize re-orthonormalizes the orientation.
func (f *ReferenceFrame) Normalize() {
	if f.fixed {
		return
	}
	f.Orientation = spatial.Orthonormalize(f.Orientation)
}

// WorldOrientation composes orientations up to the universe.
func (f *ReferenceFrame) WorldOrientation() mgl64.Mat3 {
	if f.fixed {
		return mgl64.Ident3()
	}
	r := f.Orientation
	for p := f.parent; p != nil && !p.fixed; p = p.parent {
		r = p.Orientation.Mul3(r)
	}
	return r
}

// PointToWorld maps a point in f coordinates to universe coordinates.
func (f *ReferenceFrame) PointToWorld(x mgl64.Vec3) mgl64.Vec3 {
	for fr := f; fr != nil && !fr.fixed; fr = fr.parent {
		x = fr.Orientation.Mul3x1(x).Add(fr.Offset)
	}
	return x
}

// PointFromWorld maps a universe point into f coordinates.
func (f *ReferenceFrame) PointFromWorld(x mgl64.Vec3) mgl64.Vec3 {
	if f.fixed {
		return x
	}
	if f.parent != nil {
		x = f.parent.PointFromWorld(x)
	}
	return f.Orientation.Transpose().Mul3x1(x.Sub(f.Offset))
}

// VectorToWorld rotates a free vector from f into universe coordinates.
func (f *ReferenceFrame) VectorToWorld(v mgl64.Vec3) mgl64.Vec3 {
	return f.WorldOrientation().Mul3x1(v)
}

// VectorFromWorld rotates a universe vector into f coordinates.
func (f *ReferenceFrame) VectorFromWorld(v mgl64.Vec3) mgl64.Vec3 {
	return f.WorldOrientation().Transpose().Mul3x1(v)
}

// DeltaReferenceFrame pairs a frame with its linear velocity V and angular velocity
// W, both in universe coordinates: the minimal kinematic state of a free body.
type DeltaReferenceFrame struct {
	Frame *ReferenceFrame
	V     mgl64.Vec3
	W     mgl64.Vec3
}

// PointVelocity returns the universe velocity of a universe point rigidly attached
// to the frame.
func (d DeltaReferenceFrame) PointVelocity(p mgl64.Vec3) mgl64.Vec3 {
	return d.V.Add(d.W.Cross(p.Sub(d.Frame.PointToWorld(mgl64.Vec3{}))))
}

// OrientationRate returns dR/dt = w~ R for the frame's world orientation.
func (d DeltaReferenceFrame) OrientationRate() mgl64.Mat3 {
	return spatial.Skew(d.W).Mul3(d.Frame.WorldOrientation())
}
