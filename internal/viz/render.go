package viz

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/artdyn/internal/articulated"
	"github.com/san-kum/artdyn/internal/body"
	"github.com/san-kum/artdyn/internal/scenario"
)

// FitScene centers the camera on the scene's rigid bodies.
func (c *Camera) FitScene(s *scenario.Scene, canvas *Canvas) {
	var pts []mgl64.Vec3
	for _, b := range s.World.RigidBodies() {
		pts = append(pts, b.Position())
	}
	w, h := canvas.Dots()
	c.Fit(pts, w, h)
}

// Render draws the floor, every chain, every spring and every body.
func Render(c *Canvas, cam *Camera, s *scenario.Scene) {
	c.Clear()
	w, h := c.Dots()
	point := func(p mgl64.Vec3) (int, int) {
		x, y, _, _ := cam.Project(p, w, h)
		return x, y
	}
	line := func(a, b mgl64.Vec3) {
		x0, y0 := point(a)
		x1, y1 := point(b)
		c.DrawLine(x0, y0, x1, y1)
	}

	if g := s.Ground; g != nil {
		t := cam.Target
		base := g.Normal.Mul(g.Offset - g.Normal.Dot(t)).Add(t)
		span := float64(c.Width) / (cam.Scale * cam.Zoom)
		line(base.Add(mgl64.Vec3{-span, 0, 0}), base.Add(mgl64.Vec3{span, 0, 0}))
	}

	for _, e := range s.World.Entities() {
		if chain, ok := e.(*articulated.ArticulatedBody); ok {
			for id := 1; id < chain.NumLinks(); id++ {
				l, _ := chain.Link(articulated.LinkID(id))
				p, _ := chain.Link(l.Parent())
				line(p.Body.Position(), l.Body.Position())
			}
		}
		for _, f := range e.Base().Forces() {
			sp, ok := f.(*body.Spring)
			if !ok || sp.A != e {
				continue
			}
			end := sp.AnchorB
			if sp.B != nil {
				end = sp.B.Frame.PointToWorld(sp.AnchorB)
			}
			line(sp.A.Frame.PointToWorld(sp.AnchorA), end)
		}
	}

	for _, b := range s.World.RigidBodies() {
		x, y := point(b.Position())
		c.DrawCircle(x, y, 1)
	}
}

// Snapshot renders the scene on a fresh canvas of w x h cells.
func Snapshot(s *scenario.Scene, w, h int) *Canvas {
	c := NewCanvas(w, h)
	cam := NewCamera()
	cam.FitScene(s, c)
	Render(c, cam, s)
	return c
}
