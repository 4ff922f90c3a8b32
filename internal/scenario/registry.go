// Package scenario builds ready-to-run worlds from a config and runs them.
package scenario

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/artdyn/internal/body"
	"github.com/san-kum/artdyn/internal/config"
	"github.com/san-kum/artdyn/internal/contact"
	"github.com/san-kum/artdyn/internal/metrics"
	"github.com/san-kum/artdyn/internal/world"
)

// Scene is a populated world plus the metrics that summarize it.
type Scene struct {
	Name    string
	World   *world.World
	Metrics metrics.Set
	// Ground is set for scenes with a floor.
	Ground *contact.GroundPlane
}

// Builder populates w from cfg.
type Builder func(cfg *config.Config, w *world.World) (*Scene, error)

type entry struct {
	desc    string
	gravity bool
	build   Builder
}

type Registry struct {
	scenes map[string]entry
}

func NewRegistry() *Registry {
	r := &Registry{scenes: make(map[string]entry)}

	r.Register("falling_body", true, "single rigid body under gravity", buildFallingBody)
	r.Register("pendulum", true, "grounded one-link revolute chain", buildPendulum)
	r.Register("double_pendulum", true, "grounded two-link revolute chain", buildDoublePendulum)
	r.Register("spring_pair", false, "two free bodies joined by a spring", buildSpringPair)
	r.Register("nbody", false, "bodies on a ring under mutual gravitation", buildNBody)
	r.Register("bouncing_balls", true, "spheres dropped on a floor and each other", buildBouncingBalls)
	r.Register("chain_drop", true, "floating articulated chain dropped on a floor", buildChainDrop)
	r.Register("vehicle_arm", true, "arm hanging from a moving, turning mount", buildVehicleArm)

	return r
}

// Register adds or replaces a scenario. Scenes with gravity get a uniform
// field of cfg.Gravity along -Z.
func (r *Registry) Register(name string, gravity bool, desc string, b Builder) {
	r.scenes[name] = entry{desc: desc, gravity: gravity, build: b}
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.scenes))
	for name := range r.scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Describe(name string) string {
	return r.scenes[name].desc
}

// Build validates cfg and returns the scene it names.
func (r *Registry) Build(cfg *config.Config, log *slog.Logger) (*Scene, error) {
	e, ok := r.scenes[cfg.Scenario]
	if !ok {
		return nil, fmt.Errorf("unknown scenario: %s", cfg.Scenario)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	integ, err := cfg.NewIntegrator()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	w := world.New(
		world.WithIntegrator(integ),
		world.WithSettings(cfg.Settings()),
		world.WithLogger(log.With("scenario", cfg.Scenario)),
	)
	if e.gravity && cfg.Gravity != 0 {
		w.AddEnviroForce(&body.Gravity{G: mgl64.Vec3{0, 0, -cfg.Gravity}})
	}

	s, err := e.build(cfg, w)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", cfg.Scenario, err)
	}
	s.Name = cfg.Scenario
	s.World = w
	w.AddObserver(s.Metrics)
	return s, nil
}
