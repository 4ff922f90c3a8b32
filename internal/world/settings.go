package world

// Settings are the numerical knobs of one world.
type Settings struct {
	// Epsilon is the penetration accepted as the moment of contact.
	Epsilon float64
	// MinInterval is the shortest sub-step the bisection will try.
	MinInterval float64
	// MaxBisections caps consecutive halvings; past it the current state is
	// accepted as is.
	MaxBisections int

	// JointFriction is viscous friction applied at every joint of every
	// articulated body added to the world.
	JointFriction float64
	// CoulombFraction bounds dry joint friction as a fraction of the external
	// generalized force at the joint.
	CoulombFraction float64

	// ValidateState makes Evolve fail on NaN or Inf state.
	ValidateState bool
}

func DefaultSettings() Settings {
	return Settings{
		Epsilon:       1e-4,
		MinInterval:   1e-6,
		MaxBisections: 40,
		ValidateState: true,
	}
}
