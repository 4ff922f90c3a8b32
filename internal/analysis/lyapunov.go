package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/artdyn/internal/config"
	"github.com/san-kum/artdyn/internal/scenario"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// saturation is the state separation past which the linearized growth no
// longer holds.
const saturation = 1.0

var ErrNoSeparation = errors.New("perturbation does not change the initial state")

// Lyapunov estimates the largest Lyapunov exponent of cfg's scene. A second
// scene is built with param shifted by perturbation, both are stepped in
// lockstep, and the exponent is the least-squares slope of ln(d(t)/d0) over
// the samples taken before the separation saturates.
func Lyapunov(ctx context.Context, reg *scenario.Registry, cfg *config.Config, param string, perturbation float64) (float64, error) {
	v, err := cfg.Params.Get(param)
	if err != nil {
		return 0, err
	}
	pcfg := *cfg
	if err := pcfg.Params.Set(param, v+perturbation); err != nil {
		return 0, err
	}

	base, err := reg.Build(cfg, nil)
	if err != nil {
		return 0, err
	}
	pert, err := reg.Build(&pcfg, nil)
	if err != nil {
		return 0, err
	}

	d0 := floats.Distance(base.World.State(), pert.World.State(), 2)
	if d0 == 0 {
		return 0, ErrNoSeparation
	}

	var ts, logs []float64
	steps := cfg.Steps()
	for i := 1; i <= steps; i++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		target := float64(i) * cfg.Dt
		if err := base.World.Evolve(base.World.Time(), target); err != nil {
			return 0, fmt.Errorf("reference run: %w", err)
		}
		if err := pert.World.Evolve(pert.World.Time(), target); err != nil {
			return 0, fmt.Errorf("perturbed run: %w", err)
		}

		d := floats.Distance(base.World.State(), pert.World.State(), 2)
		if d > saturation {
			break
		}
		if d == 0 || math.IsNaN(d) {
			continue
		}
		ts = append(ts, target)
		logs = append(logs, math.Log(d/d0))
	}

	if len(ts) < 2 {
		return 0, fmt.Errorf("separation saturated after %d samples", len(ts))
	}
	_, slope := stat.LinearRegression(ts, logs, nil, false)
	return slope, nil
}
