package config

import "sort"

func preset(scenario string, dt, duration float64, p ParamsConfig) *Config {
	cfg := DefaultConfig()
	cfg.Scenario = scenario
	cfg.Dt = dt
	cfg.Duration = duration
	cfg.Params = p
	return cfg
}

var Presets = map[string]map[string]*Config{
	"falling_body": {
		"drop": preset("falling_body", 0.01, 1.0, ParamsConfig{Height: 10}),
		"toss": preset("falling_body", 0.01, 2.0, ParamsConfig{Height: 1, Speed: 8, Omega: 3}),
	},
	"pendulum": {
		"small":    preset("pendulum", 0.01, 20.0, ParamsConfig{Angle: 0.2}),
		"large":    preset("pendulum", 0.01, 20.0, ParamsConfig{Angle: 2.5}),
		"spinning": preset("pendulum", 0.01, 30.0, ParamsConfig{Angle: 0.1, Omega: 8.0}),
	},
	"double_pendulum": {
		"symmetric": preset("double_pendulum", 0.005, 30.0, ParamsConfig{Angle: 1.5, Angle2: 1.5}),
		"chaos":     preset("double_pendulum", 0.005, 60.0, ParamsConfig{Angle: 3.0, Angle2: 3.0}),
		"gentle":    preset("double_pendulum", 0.01, 30.0, ParamsConfig{Angle: 0.3, Angle2: 0.3}),
	},
	"spring_pair": {
		"stiff": preset("spring_pair", 0.005, 10.0, ParamsConfig{Stiffness: 200, Speed: 1}),
		"soft":  preset("spring_pair", 0.01, 20.0, ParamsConfig{Stiffness: 5, Damping: 0.2, Speed: 2}),
	},
	"nbody": {
		"orbit":  preset("nbody", 0.001, 20.0, ParamsConfig{Bodies: 3}),
		"binary": preset("nbody", 0.001, 20.0, ParamsConfig{Bodies: 2}),
	},
	"bouncing_balls": {
		"lively": preset("bouncing_balls", 0.01, 5.0, ParamsConfig{Bodies: 3, Height: 3, Restitution: 0.8}),
		"dead":   preset("bouncing_balls", 0.01, 5.0, ParamsConfig{Bodies: 3, Height: 3, Restitution: 0.2}),
	},
	"chain_drop": {
		"short": preset("chain_drop", 0.005, 3.0, ParamsConfig{Links: 3, Height: 4, Restitution: 0.3}),
		"long":  preset("chain_drop", 0.005, 3.0, ParamsConfig{Links: 8, Height: 6, Restitution: 0.3}),
	},
	"vehicle_arm": {
		"sway":  preset("vehicle_arm", 0.005, 10.0, ParamsConfig{Links: 2, Speed: 1, Omega: 2}),
		"swing": preset("vehicle_arm", 0.005, 10.0, ParamsConfig{Links: 3, Speed: 3, Omega: 4}),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(scenario, name string) *Config {
	ps, ok := Presets[scenario]
	if !ok {
		return nil
	}
	cfg, ok := ps[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets(scenario string) []string {
	ps, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(ps))
	for name := range ps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
