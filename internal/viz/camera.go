package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera orbits Target. Yaw turns about world Z, Pitch tilts toward the
// viewer; Scale is dots per meter at zoom 1.
type Camera struct {
	Target     mgl64.Vec3
	Yaw, Pitch float64
	Zoom       float64
	Scale      float64
}

func NewCamera() *Camera {
	return &Camera{Pitch: 0.3, Zoom: 1, Scale: 8}
}

func (c *Camera) Orbit(dyaw, dpitch float64) {
	c.Yaw += dyaw
	c.Pitch = math.Max(-math.Pi/2, math.Min(math.Pi/2, c.Pitch+dpitch))
}

func (c *Camera) ZoomIn()  { c.Zoom = math.Min(20, c.Zoom*1.2) }
func (c *Camera) ZoomOut() { c.Zoom = math.Max(0.05, c.Zoom/1.2) }

// view returns p in camera coordinates: X right, Y up, Z toward the viewer.
func (c *Camera) view(p mgl64.Vec3) mgl64.Vec3 {
	d := p.Sub(c.Target)
	cy, sy := math.Cos(c.Yaw), math.Sin(c.Yaw)
	cp, sp := math.Cos(c.Pitch), math.Sin(c.Pitch)
	// world X right, Z up, -Y toward the viewer before rotation
	x := cy*d[0] + sy*d[1]
	depth := -sy*d[0] + cy*d[1]
	y := cp*d[2] + sp*depth
	z := -sp*d[2] + cp*depth
	return mgl64.Vec3{x, y, -z}
}

// Project maps world point p onto a canvas of w x h dots. It returns the dot
// coordinates, the depth (larger is closer) and whether the dot is on the
// canvas.
func (c *Camera) Project(p mgl64.Vec3, w, h int) (int, int, float64, bool) {
	v := c.view(p)
	s := c.Scale * c.Zoom
	x := int(math.Round(v[0]*s)) + w/2
	y := h/2 - int(math.Round(v[1]*s))
	return x, y, v[2], x >= 0 && x < w && y >= 0 && y < h
}

// Length converts a world length to dots.
func (c *Camera) Length(l float64) int {
	return int(math.Round(l * c.Scale * c.Zoom))
}

// Fit centers the camera on pts and scales them to fill most of a w x h dot
// canvas.
func (c *Camera) Fit(pts []mgl64.Vec3, w, h int) {
	if len(pts) == 0 {
		return
	}
	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = math.Min(lo[i], p[i])
			hi[i] = math.Max(hi[i], p[i])
		}
	}
	c.Target = lo.Add(hi).Mul(0.5)
	extent := math.Max(hi.Sub(lo).Len(), 1)
	c.Scale = 0.7 * float64(min(w, h)) / extent
	c.Zoom = 1
}
