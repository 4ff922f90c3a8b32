package analysis

import (
	"context"
	"fmt"

	"github.com/san-kum/artdyn/internal/config"
	"github.com/san-kum/artdyn/internal/scenario"
	"golang.org/x/sync/errgroup"
)

// SweepPoint is the settled behavior of one column for one parameter value.
type SweepPoint struct {
	Param    float64
	Min, Max float64
	// Peaks holds the local maxima seen after the transient.
	Peaks []float64
}

// Sweep runs cfg once per value of param and records how column behaves once
// transient seconds have passed. Runs execute concurrently; results follow the
// order of values.
func Sweep(ctx context.Context, reg *scenario.Registry, cfg *config.Config, param string, values []float64, column string, transient float64) ([]SweepPoint, error) {
	if _, err := cfg.Params.Get(param); err != nil {
		return nil, err
	}
	out := make([]SweepPoint, len(values))
	g, ctx := errgroup.WithContext(ctx)
	for i, v := range values {
		g.Go(func() error {
			c := *cfg
			if err := c.Params.Set(param, v); err != nil {
				return err
			}
			s, err := reg.Build(&c, nil)
			if err != nil {
				return err
			}
			res, err := scenario.Run(ctx, s, c.Dt, c.Duration)
			if err != nil {
				return fmt.Errorf("%s=%g: %w", param, v, err)
			}
			series := res.Column(column)
			if series == nil {
				return fmt.Errorf("unknown column: %s", column)
			}
			out[i] = settle(v, res.Times, series, transient)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func settle(param float64, times, series []float64, transient float64) SweepPoint {
	p := SweepPoint{Param: param}
	first := true
	for i, v := range series {
		if times[i] < transient {
			continue
		}
		if first {
			p.Min, p.Max = v, v
			first = false
		}
		p.Min = min(p.Min, v)
		p.Max = max(p.Max, v)
		if i > 0 && i+1 < len(series) && v > series[i-1] && v >= series[i+1] {
			p.Peaks = append(p.Peaks, v)
		}
	}
	return p
}
