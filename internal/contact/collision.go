package contact

import (
	"slices"

	"github.com/san-kum/artdyn/internal/spatial"
)

// Impulse returns the normal impulse magnitude that gives c a post-collision
// relative velocity of -e times the current one.
func (c *Contact) Impulse(e float64) float64 {
	return -(1 + e) * c.RelativeVelocity() * spatial.SafeRecip(coupling(c, c))
}

// ApplyImpulse applies a normal impulse of magnitude j at c.
func (c *Contact) ApplyImpulse(j float64) {
	imp := c.Normal.Mul(j)
	if c.A != nil {
		c.A.ApplyImpulse(c.Point, imp)
	}
	if c.B != nil {
		c.B.ApplyImpulse(c.Point, imp.Mul(-1))
	}
}

func samePair(a, b *Contact) bool {
	return (a.A == b.A && a.B == b.B) || (a.A == b.B && a.B == b.A)
}

// Resolve applies collision impulses until no contact in cs is approaching
// faster than the velocity tolerance, sweeping at most opt.MaxIterations times.
// It returns the number of impulses applied.
//
// A colliding contact whose body pair was already hit earlier in the same sweep
// uses restitution 1 instead of its own coefficient.
// This is a heuristic for simultaneous multi-point impacts, not a physical law.
func Resolve(cs []Contact, opt Options) int {
	applied := 0
	for sweep := 0; sweep < opt.MaxIterations; sweep++ {
		var hit []*Contact
		for i := range cs {
			c := &cs[i]
			if c.RelativeVelocity() >= -opt.VelocityTolerance {
				continue
			}
			e := c.Restitution
			if slices.ContainsFunc(hit, func(h *Contact) bool { return samePair(h, c) }) {
				e = 1.0
			}
			c.ApplyImpulse(c.Impulse(e))
			hit = append(hit, c)
			applied++
		}
		if len(hit) == 0 {
			break
		}
	}
	return applied
}
