package scenario

import (
	"context"
	"log/slog"
	"math"

	"github.com/san-kum/artdyn/internal/config"
	"github.com/san-kum/artdyn/internal/world"
	"golang.org/x/sync/errgroup"
)

// Result is a sampled run. Each row of States holds the position of every rigid
// body in the world, in Columns order, after the step ending at the matching
// entry of Times.
type Result struct {
	Scenario   string
	Integrator string

	Columns []string
	Times   []float64
	States  [][]float64
	Energy  []float64

	Metrics     map[string]float64
	Stats       world.Stats
	StepsTaken  int
	EnergyDrift float64
}

// Columns names the sampled values of w.
func Columns(w *world.World) []string {
	var cols []string
	for _, b := range w.RigidBodies() {
		n := b.Name()
		cols = append(cols, n+".x", n+".y", n+".z")
	}
	return cols
}

// Sample returns the positions of every rigid body of w.
func Sample(w *world.World) []float64 {
	bodies := w.RigidBodies()
	out := make([]float64, 0, 3*len(bodies))
	for _, b := range bodies {
		p := b.Position()
		out = append(out, p[0], p[1], p[2])
	}
	return out
}

// Column returns the sampled series of the named column, or nil.
func (r *Result) Column(name string) []float64 {
	for i, c := range r.Columns {
		if c != name {
			continue
		}
		out := make([]float64, len(r.States))
		for j, row := range r.States {
			out[j] = row[i]
		}
		return out
	}
	return nil
}

// Run steps the scene by dt until duration has elapsed. On a step error the
// partial result is returned with the error.
func Run(ctx context.Context, s *Scene, dt, duration float64) (*Result, error) {
	w := s.World
	steps := int(duration/dt + 0.5)
	res := &Result{
		Scenario:   s.Name,
		Integrator: w.Integrator().Name(),
		Columns:    Columns(w),
		Times:      make([]float64, 0, steps+1),
		States:     make([][]float64, 0, steps+1),
		Energy:     make([]float64, 0, steps+1),
		Metrics:    make(map[string]float64),
	}
	s.Metrics.Reset()

	record := func() {
		res.Times = append(res.Times, w.Time())
		res.States = append(res.States, Sample(w))
		res.Energy = append(res.Energy, w.TotalEnergy())
	}
	record()
	start := w.Time()

	var err error
	for i := 0; i < steps; i++ {
		if err = ctx.Err(); err != nil {
			break
		}
		if err = w.Evolve(w.Time(), start+float64(i+1)*dt); err != nil {
			break
		}
		res.StepsTaken++
		record()
	}

	if e0 := res.Energy[0]; e0 != 0 {
		res.EnergyDrift = math.Abs(res.Energy[len(res.Energy)-1]-e0) / math.Abs(e0)
	}
	for name, v := range s.Metrics.Values() {
		res.Metrics[name] = v
	}
	res.Stats = w.Stats()
	return res, err
}

// RunWithCallback steps the scene until duration elapses or cb returns false.
func RunWithCallback(ctx context.Context, s *Scene, dt, duration float64, cb func(w *world.World) bool) error {
	w := s.World
	start := w.Time()
	for i := 1; w.Time()-start < duration-0.5*dt; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.Evolve(w.Time(), start+float64(i)*dt); err != nil {
			return err
		}
		if !cb(w) {
			return nil
		}
	}
	return nil
}

// Compare runs cfg once per integrator, concurrently. Results follow the order
// of names.
func Compare(ctx context.Context, r *Registry, cfg *config.Config, names []string, log *slog.Logger) ([]*Result, error) {
	results := make([]*Result, len(names))
	g, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			c := *cfg
			c.Integrator = name
			s, err := r.Build(&c, log)
			if err != nil {
				return err
			}
			res, err := Run(ctx, s, c.Dt, c.Duration)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
