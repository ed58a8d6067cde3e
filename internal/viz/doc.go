// Package viz renders a scenario run live in the terminal with Bubble Tea.
//
// The view is a side projection (x right, y up) drawn on a braille canvas,
// next to a table of bodies with their interaction state. The targeted body
// is highlighted.
//
// # Key Bindings
//
//	Space - Pause/Resume (also P)
//	N     - Step one tick while paused
//	T     - Cycle color themes
//	Q     - Quit
package viz
