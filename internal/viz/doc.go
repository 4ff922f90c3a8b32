// Package viz renders a running world in the terminal.
//
// [Model] is a Bubble Tea program that steps a scenario's world on every tick
// and draws its rigid bodies on a Braille [Canvas] through a rotating [Camera]:
// links are joined to their parents, springs are drawn between their anchors
// and a floor is drawn when the scene has one. [Snapshot] draws the same
// picture once, outside the program.
//
// # Key Bindings
//
//	Space     - Pause/Resume
//	R         - Rebuild the scene
//	T         - Cycle color themes
//	←/→ ↑/↓   - Orbit the camera
//	+/-       - Zoom
//	?         - Show help overlay
//	Q         - Quit
package viz
