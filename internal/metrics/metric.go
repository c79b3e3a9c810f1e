// Package metrics summarizes a run one observation at a time.
package metrics

import "github.com/san-kum/stepsim/internal/dynamo"

// Metric folds (state, input, time) observations into one number.
type Metric interface {
	Name() string
	Observe(x dynamo.State, u dynamo.Control, t float64)
	Value() float64
	Reset()
}
