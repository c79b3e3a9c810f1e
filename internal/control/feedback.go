package control

import (
	"github.com/san-kum/stepsim/internal/dynamo"
	"github.com/san-kum/stepsim/pkg/sim"
)

// Feedback remembers the most recent snapshot a sequence produced, so a
// controller can compute the next input without reaching into the
// simulation being iterated.
type Feedback struct {
	last dynamo.Snapshot
}

// NewFeedback starts from the snapshot the loop will observe before the
// first step, usually the simulation's initial state.
func NewFeedback(initial dynamo.Snapshot) *Feedback {
	return &Feedback{last: initial}
}

// Observe records snap as the latest output.
func (f *Feedback) Observe(snap dynamo.Snapshot) {
	f.last = snap
}

func (f *Feedback) Last() dynamo.Snapshot {
	return f.last
}

// Loop closes ctrl over fb: each call computes the control for the last
// observed snapshot.
func Loop(ctrl dynamo.Controller, fb *Feedback) sim.Generator[dynamo.Control] {
	return func() dynamo.Control {
		return ctrl.Compute(fb.last.X, fb.last.Time)
	}
}
