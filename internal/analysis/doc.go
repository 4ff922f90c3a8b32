// Package analysis characterizes recorded and live scene trajectories.
//
//   - [Lyapunov]: largest Lyapunov exponent from two nearby scenes
//   - [Sweep]: parameter sweep recording the extrema a column settles into
//   - [DominantFrequency]: strongest oscillation of a sampled column
//   - [PhasePortraitASCII]: 2D trajectory plot for the terminal
//   - [PoincareSection]: samples where one column crosses a threshold
//
// # Chaos Detection
//
// A clearly positive exponent indicates chaotic motion:
//
//	lambda, err := analysis.Lyapunov(ctx, reg, cfg, "angle", 1e-6)
//	if err == nil && lambda > 0.5 {
//	    // sensitive to initial conditions
//	}
package analysis
