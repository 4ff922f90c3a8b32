package world

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownEntity indicates an entity that is not registered with the world.
	ErrUnknownEntity = errors.New("world: unknown entity")

	// ErrDuplicateEntity indicates an entity that is already registered with a world.
	ErrDuplicateEntity = errors.New("world: entity already registered")

	// ErrInvalidInterval indicates an evolve interval that runs backwards or is not finite.
	ErrInvalidInterval = errors.New("world: invalid time interval")

	// ErrNoIntegrator indicates a world without an ODE integrator.
	ErrNoIntegrator = errors.New("world: no integrator")

	// ErrNonFinite indicates NaN or Inf in the state after a step.
	ErrNonFinite = errors.New("world: non-finite state (NaN or Inf detected)")
)

// StepError wraps an error with the sub-step it occurred in.
type StepError struct {
	Step   int
	Time   float64
	Entity string
	Err    error
}

func (e *StepError) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("step %d (t=%.6f): %s: %v", e.Step, e.Time, e.Entity, e.Err)
	}
	return fmt.Sprintf("step %d (t=%.6f): %v", e.Step, e.Time, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
