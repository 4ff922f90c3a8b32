package config

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Scenario != "pendulum" {
		t.Errorf("expected scenario pendulum, got %s", cfg.Scenario)
	}
	if cfg.Integrator != "rk4" {
		t.Errorf("expected integrator rk4, got %s", cfg.Integrator)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if s := cfg.Settings(); s.Epsilon != 1e-4 || s.MaxBisections != 40 || !s.ValidateState {
		t.Errorf("unexpected settings %+v", s)
	}
	if cfg.Steps() != 500 {
		t.Errorf("expected 500 steps, got %d", cfg.Steps())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }, ErrInvalidDt},
		{"negative duration", func(c *Config) { c.Duration = -1 }, ErrInvalidDuration},
		{"zero epsilon", func(c *Config) { c.World.Epsilon = 0 }, ErrInvalidWorld},
		{"coulomb above one", func(c *Config) { c.World.CoulombFraction = 1.5 }, ErrInvalidWorld},
		{"negative friction", func(c *Config) { c.World.JointFriction = -0.1 }, ErrInvalidWorld},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}

	cfg := DefaultConfig()
	cfg.Integrator = "leapfrog"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown integrator")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := DefaultConfig()
	cfg.Scenario = "chain_drop"
	cfg.Params.Links = 7
	cfg.World.JointFriction = 0.05

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Scenario != "chain_drop" || got.Params.Links != 7 || got.World.JointFriction != 0.05 {
		t.Errorf("round trip lost fields: %+v", got)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("pendulum", "small")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Params.Angle != 0.2 {
		t.Errorf("expected angle 0.2, got %f", cfg.Params.Angle)
	}

	cfg.Params.Angle = 9
	if GetPreset("pendulum", "small").Params.Angle != 0.2 {
		t.Error("preset was modified through the returned copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("pendulum", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "small") != nil {
		t.Error("expected nil for nonexistent scenario")
	}
}

func TestPresetsValid(t *testing.T) {
	for scenario, ps := range Presets {
		for name, cfg := range ps {
			if cfg.Scenario != scenario {
				t.Errorf("%s/%s: scenario field %q", scenario, name, cfg.Scenario)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("%s/%s: %v", scenario, name, err)
			}
		}
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("pendulum")
	if len(presets) != 3 || presets[0] != "large" {
		t.Errorf("unexpected presets %v", presets)
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent scenario")
	}
}

func TestParamsSetGet(t *testing.T) {
	var p ParamsConfig
	if err := p.Set("angle", 1.25); err != nil {
		t.Fatal(err)
	}
	if p.Angle != 1.25 {
		t.Errorf("angle = %v", p.Angle)
	}
	if v, err := p.Get("angle"); err != nil || v != 1.25 {
		t.Errorf("Get(angle) = %v, %v", v, err)
	}
	if err := p.Set("links", 3); err == nil {
		t.Error("integer parameters are not settable")
	}
	if _, err := p.Get("bogus"); err == nil {
		t.Error("expected error for unknown parameter")
	}
	if n := ParamNames(); len(n) != 8 || n[0] != "angle" {
		t.Errorf("ParamNames = %v", n)
	}
}
