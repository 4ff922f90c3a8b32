// Package automation runs scripted sequences of scenes and randomized trials.
package automation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/san-kum/artdyn/internal/config"
	"github.com/san-kum/artdyn/internal/scenario"
	"github.com/san-kum/artdyn/internal/storage"
	"gopkg.in/yaml.v3"
)

// Script is a named sequence of runs loaded from YAML.
type Script struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is one run of a script. Zero fields fall back to the preset, then to
// the defaults.
type Step struct {
	Scenario   string             `yaml:"scenario"`
	Preset     string             `yaml:"preset"`
	Integrator string             `yaml:"integrator"`
	Dt         float64            `yaml:"dt"`
	Duration   float64            `yaml:"duration"`
	Params     map[string]float64 `yaml:"params"`
	Save       bool               `yaml:"save"`
}

// StepResult pairs a step's result with the id it was stored under, if any.
type StepResult struct {
	RunID  string
	Result *scenario.Result
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("script %s has no steps", path)
	}
	return &s, nil
}

// Config resolves the step into a validated run configuration.
func (st Step) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Scenario = st.Scenario
	if st.Preset != "" {
		if cfg = config.GetPreset(st.Scenario, st.Preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s/%s", st.Scenario, st.Preset)
		}
	}
	if st.Integrator != "" {
		cfg.Integrator = st.Integrator
	}
	if st.Dt > 0 {
		cfg.Dt = st.Dt
	}
	if st.Duration > 0 {
		cfg.Duration = st.Duration
	}
	for k, v := range st.Params {
		if err := cfg.Params.Set(k, v); err != nil {
			return nil, err
		}
	}
	return cfg, cfg.Validate()
}

// RunScript executes every step in order. store may be nil, in which case
// nothing is saved. Results of completed steps are returned with the error.
func RunScript(ctx context.Context, s *Script, reg *scenario.Registry, store *storage.Store, log *slog.Logger) ([]StepResult, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	results := make([]StepResult, 0, len(s.Steps))

	for i, step := range s.Steps {
		log.Info("running step", "script", s.Name, "step", i+1, "of", len(s.Steps), "scenario", step.Scenario)

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		scene, err := reg.Build(cfg, log)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		res, err := scenario.Run(ctx, scene, cfg.Dt, cfg.Duration)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Result: res}
		if step.Save && store != nil {
			if sr.RunID, err = store.Save(cfg, res); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

// MonteCarloConfig perturbs one parameter uniformly within ±Perturbation
// for each trial.
type MonteCarloConfig struct {
	Base         *config.Config
	Param        string
	Perturbation float64
	NumTrials    int
}

type MonteCarloResult struct {
	TrialID     int
	Param       float64
	EnergyDrift float64
	Rewinds     int
	// Stable reports that the run finished and every sampled position stayed
	// bounded.
	Stable bool
	Err    error
}

const unstableBound = 1e6

// RunMonteCarlo runs the trials sequentially. Base.Seed seeds the
// perturbations; zero seeds from the clock.
func RunMonteCarlo(ctx context.Context, mc *MonteCarloConfig, reg *scenario.Registry, log *slog.Logger) ([]MonteCarloResult, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	base, err := mc.Base.Params.Get(mc.Param)
	if err != nil {
		return nil, err
	}

	seed := mc.Base.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	results := make([]MonteCarloResult, 0, mc.NumTrials)
	for trial := 0; trial < mc.NumTrials; trial++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		cfg := *mc.Base
		v := base + (rng.Float64()-0.5)*2*mc.Perturbation
		if err := cfg.Params.Set(mc.Param, v); err != nil {
			return results, err
		}
		scene, err := reg.Build(&cfg, log)
		if err != nil {
			return results, err
		}

		r := MonteCarloResult{TrialID: trial, Param: v}
		res, err := scenario.Run(ctx, scene, cfg.Dt, cfg.Duration)
		r.Err = err
		r.Stable = err == nil && bounded(res)
		r.EnergyDrift = res.EnergyDrift
		r.Rewinds = res.Stats.Rewinds
		results = append(results, r)

		if (trial+1)%10 == 0 {
			log.Info("monte carlo progress", "done", trial+1, "trials", mc.NumTrials)
		}
	}

	return results, nil
}

func bounded(res *scenario.Result) bool {
	for _, row := range res.States {
		for _, v := range row {
			if math.IsNaN(v) || math.Abs(v) > unstableBound {
				return false
			}
		}
	}
	return true
}

// MonteCarloStats counts stable and unstable trials.
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
