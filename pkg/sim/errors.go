package sim

import "errors"

// Misuse of a sequence or a guarded simulation panics with one of these, so
// a recovering caller can test the value with errors.Is.
var (
	// ErrReleased indicates a pull on a sequence after Release or Close.
	ErrReleased = errors.New("sim: sequence used after release")

	// ErrBorrowed indicates direct use of a guarded simulation while a
	// borrowing sequence holds it.
	ErrBorrowed = errors.New("sim: simulation is borrowed by a live sequence")

	// ErrMoved indicates use of a guarded simulation after it was moved
	// into an owning sequence.
	ErrMoved = errors.New("sim: simulation moved into an owning sequence")
)
