// Package viz draws running simulations in the terminal.
//
// Frames are projected onto a Braille [Canvas] through a rotatable
// [Camera], one color per particle species. [Model] is a Bubble Tea
// program that steps an experiment and shows its observables as
// sparklines; the interactive app picks a model and preset first.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	[ ]   - Halve/double the steps taken per frame
//	x y z - Rotate the camera (shifted keys reverse)
//	+ -   - Zoom
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
