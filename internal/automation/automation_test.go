package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/artdyn/internal/config"
	"github.com/san-kum/artdyn/internal/scenario"
	"github.com/san-kum/artdyn/internal/storage"
)

const script = `name: warmup
description: two short runs
steps:
  - scenario: pendulum
    preset: small
    duration: 0.1
    save: true
  - scenario: falling_body
    integrator: euler
    dt: 0.02
    duration: 0.1
    params:
      height: 3
`

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunScript(t *testing.T) {
	s, err := LoadScript(writeScript(t, script))
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "warmup" || len(s.Steps) != 2 {
		t.Fatalf("unexpected script %+v", s)
	}

	store := storage.New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	results, err := RunScript(context.Background(), s, scenario.NewRegistry(), store, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].RunID == "" {
		t.Error("first step should be saved")
	}
	if results[1].RunID != "" {
		t.Error("second step should not be saved")
	}
	if got := results[1].Result.StepsTaken; got != 5 {
		t.Errorf("falling_body steps = %d, want 5", got)
	}
	if results[1].Result.Integrator != "euler" {
		t.Errorf("integrator = %s", results[1].Result.Integrator)
	}

	runs, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Scenario != "pendulum" {
		t.Errorf("stored runs = %+v", runs)
	}
}

func TestStepConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		step Step
	}{
		{"unknown preset", Step{Scenario: "pendulum", Preset: "nope"}},
		{"unknown param", Step{Scenario: "pendulum", Params: map[string]float64{"mass": 2}}},
		{"bad integrator", Step{Scenario: "pendulum", Integrator: "leapfrog"}},
	}
	for _, tt := range tests {
		if _, err := tt.step.Config(); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestRunScriptStopsOnError(t *testing.T) {
	s := &Script{Name: "bad", Steps: []Step{
		{Scenario: "pendulum", Duration: 0.05},
		{Scenario: "warp_drive"},
	}}
	results, err := RunScript(context.Background(), s, scenario.NewRegistry(), nil, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(results) != 1 {
		t.Errorf("expected the first result to survive, got %d", len(results))
	}
}

func TestLoadScriptEmpty(t *testing.T) {
	if _, err := LoadScript(writeScript(t, "name: empty\n")); err == nil {
		t.Error("expected error for script without steps")
	}
}

func TestMonteCarloSeeded(t *testing.T) {
	base := config.GetPreset("pendulum", "small")
	base.Duration = 0.1
	base.Seed = 7
	mc := &MonteCarloConfig{Base: base, Param: "angle", Perturbation: 0.05, NumTrials: 4}

	a, err := RunMonteCarlo(context.Background(), mc, scenario.NewRegistry(), nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := RunMonteCarlo(context.Background(), mc, scenario.NewRegistry(), nil)
	if err != nil {
		t.Fatal(err)
	}

	for i := range a {
		if a[i].Param != b[i].Param {
			t.Errorf("trial %d not reproducible: %v vs %v", i, a[i].Param, b[i].Param)
		}
		if a[i].Param < 0.15 || a[i].Param > 0.25 {
			t.Errorf("trial %d param %v outside perturbation", i, a[i].Param)
		}
	}
	if stable, unstable := MonteCarloStats(a); stable != 4 || unstable != 0 {
		t.Errorf("stable=%d unstable=%d", stable, unstable)
	}

	mc.Param = "mass"
	if _, err := RunMonteCarlo(context.Background(), mc, scenario.NewRegistry(), nil); err == nil {
		t.Error("expected error for unknown parameter")
	}
}
