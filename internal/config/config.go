package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/artdyn/internal/integrators"
	"github.com/san-kum/artdyn/internal/world"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt          = 0.01
	DefaultDuration    = 5.0
	DefaultGravity     = 9.81
	DefaultHeight      = 5.0
	DefaultAngle       = 0.5
	DefaultBodies      = 3
	DefaultLinks       = 4
	DefaultStiffness   = 20.0
	DefaultRestitution = 0.6
)

var (
	ErrInvalidDt       = errors.New("config: dt must be positive")
	ErrInvalidDuration = errors.New("config: duration must be positive")
	ErrInvalidWorld    = errors.New("config: invalid world settings")
)

type Config struct {
	Scenario   string       `yaml:"scenario"`
	Integrator string       `yaml:"integrator"`
	Dt         float64      `yaml:"dt"`
	Duration   float64      `yaml:"duration"`
	Seed       int64        `yaml:"seed"`
	Gravity    float64      `yaml:"gravity"`
	World      WorldConfig  `yaml:"world"`
	Params     ParamsConfig `yaml:"params"`
}

// WorldConfig mirrors world.Settings.
type WorldConfig struct {
	Epsilon         float64 `yaml:"epsilon"`
	MinInterval     float64 `yaml:"min_interval"`
	MaxBisections   int     `yaml:"max_bisections"`
	JointFriction   float64 `yaml:"joint_friction"`
	CoulombFraction float64 `yaml:"coulomb_fraction"`
	ValidateState   bool    `yaml:"validate_state"`
}

// ParamsConfig holds the knobs scenarios read. Each scenario uses a subset.
type ParamsConfig struct {
	Bodies      int     `yaml:"bodies"`
	Links       int     `yaml:"links"`
	Height      float64 `yaml:"height"`
	Angle       float64 `yaml:"angle"`
	Angle2      float64 `yaml:"angle2"`
	Omega       float64 `yaml:"omega"`
	Speed       float64 `yaml:"speed"`
	Stiffness   float64 `yaml:"stiffness"`
	Damping     float64 `yaml:"damping"`
	Restitution float64 `yaml:"restitution"`
}

func DefaultConfig() *Config {
	s := world.DefaultSettings()
	return &Config{
		Scenario:   "pendulum",
		Integrator: integrators.Default,
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Gravity:    DefaultGravity,
		World: WorldConfig{
			Epsilon:         s.Epsilon,
			MinInterval:     s.MinInterval,
			MaxBisections:   s.MaxBisections,
			JointFriction:   s.JointFriction,
			CoulombFraction: s.CoulombFraction,
			ValidateState:   s.ValidateState,
		},
		Params: ParamsConfig{
			Bodies:      DefaultBodies,
			Links:       DefaultLinks,
			Height:      DefaultHeight,
			Angle:       DefaultAngle,
			Angle2:      DefaultAngle,
			Stiffness:   DefaultStiffness,
			Restitution: DefaultRestitution,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: %g", ErrInvalidDt, c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: %g", ErrInvalidDuration, c.Duration)
	}
	if _, err := integrators.New(c.Integrator); err != nil {
		return err
	}
	w := c.World
	switch {
	case w.Epsilon <= 0:
		return fmt.Errorf("%w: epsilon %g", ErrInvalidWorld, w.Epsilon)
	case w.MinInterval <= 0:
		return fmt.Errorf("%w: min_interval %g", ErrInvalidWorld, w.MinInterval)
	case w.MaxBisections < 0:
		return fmt.Errorf("%w: max_bisections %d", ErrInvalidWorld, w.MaxBisections)
	case w.JointFriction < 0:
		return fmt.Errorf("%w: joint_friction %g", ErrInvalidWorld, w.JointFriction)
	case w.CoulombFraction < 0 || w.CoulombFraction > 1:
		return fmt.Errorf("%w: coulomb_fraction %g", ErrInvalidWorld, w.CoulombFraction)
	}
	return nil
}

// Settings converts the world section.
func (c *Config) Settings() world.Settings {
	return world.Settings{
		Epsilon:         c.World.Epsilon,
		MinInterval:     c.World.MinInterval,
		MaxBisections:   c.World.MaxBisections,
		JointFriction:   c.World.JointFriction,
		CoulombFraction: c.World.CoulombFraction,
		ValidateState:   c.World.ValidateState,
	}
}

// NewIntegrator returns the configured integrator.
func (c *Config) NewIntegrator() (integrators.Integrator, error) {
	return integrators.New(c.Integrator)
}

// Steps is the number of dt sized steps in Duration.
func (c *Config) Steps() int {
	return int(c.Duration/c.Dt + 0.5)
}
