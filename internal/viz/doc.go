// Package viz renders a running simulation in the terminal with Bubble Tea.
//
// [Model] pulls one [experiment.Frame] per tick from an owning sequence.
// The left pane is a braille [Canvas] tracing x0 against x1, or the board
// for Life; the right pane shows the current values and an asciigraph
// chart of x0.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	N     - Single step while paused
//	Q     - Quit (stops the sequence)
package viz
