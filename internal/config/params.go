package config

import (
	"fmt"
	"sort"
)

func (p *ParamsConfig) fields() map[string]*float64 {
	return map[string]*float64{
		"height":      &p.Height,
		"angle":       &p.Angle,
		"angle2":      &p.Angle2,
		"omega":       &p.Omega,
		"speed":       &p.Speed,
		"stiffness":   &p.Stiffness,
		"damping":     &p.Damping,
		"restitution": &p.Restitution,
	}
}

// Set assigns a continuous parameter by its yaml name.
func (p *ParamsConfig) Set(name string, v float64) error {
	f, ok := p.fields()[name]
	if !ok {
		return fmt.Errorf("unknown parameter: %s", name)
	}
	*f = v
	return nil
}

// Get reads a continuous parameter by its yaml name.
func (p *ParamsConfig) Get(name string) (float64, error) {
	f, ok := p.fields()[name]
	if !ok {
		return 0, fmt.Errorf("unknown parameter: %s", name)
	}
	return *f, nil
}

// ParamNames lists the parameters accepted by Set.
func ParamNames() []string {
	var p ParamsConfig
	names := make([]string, 0, 8)
	for n := range p.fields() {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
