// Package spatial provides the fixed-size linear algebra used by the dynamics core.
//
// Plain 3D quantities use [mgl64.Vec3] and [mgl64.Mat3] directly; this package adds
// the operations mgl64 lacks (skew matrices, guarded inverses, pivoting solves) and
// the 6D spatial pair:
//
//   - [Vector]: angular (Top) and linear (Bottom) halves of a spatial motion or force
//   - [Matrix]: 6x6 block matrix [[A B] [C D]]
//   - [Transform]: the frame change [[R 0] [-r~R R]]
//
// Spatial vectors follow the swapped-transpose convention: the spatial transpose of
// [a; b] is [b' a'], so a rigid body's spatial inertia is [[0 mI] [I 0]] and one
// [Transform] moves both motion and force vectors between frames. The inverse of a
// transform is its spatial transpose.
//
// # Degenerate input
//
// Nothing here returns an error. Near-zero pivots and determinants are floored by
// [MinMagnitude]; a singular system yields zero for the affected unknowns.
package spatial
