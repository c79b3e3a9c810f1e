package control

import (
	"math/rand"

	"github.com/san-kum/stepsim/internal/dynamo"
	"github.com/san-kum/stepsim/pkg/sim"
)

// Constant holds the same control every step. Each call returns a fresh
// copy so a system cannot alter later inputs.
func Constant(u dynamo.Control) sim.Generator[dynamo.Control] {
	base := append(dynamo.Control(nil), u...)
	return func() dynamo.Control {
		return append(dynamo.Control(nil), base...)
	}
}

// Schedule applies values[0], values[1], ... to the first control
// component and wraps around at the end. An empty schedule is all zeros.
func Schedule(values []float64, dim int) sim.Generator[dynamo.Control] {
	if dim < 1 {
		dim = 1
	}
	vals := append([]float64(nil), values...)
	i := 0
	return func() dynamo.Control {
		u := make(dynamo.Control, dim)
		if len(vals) > 0 {
			u[0] = vals[i]
			i = (i + 1) % len(vals)
		}
		return u
	}
}

// Noise draws each control component uniformly from [-amplitude, amplitude).
// The same seed gives the same input sequence.
func Noise(amplitude float64, dim int, seed int64) sim.Generator[dynamo.Control] {
	rng := rand.New(rand.NewSource(seed))
	return func() dynamo.Control {
		u := make(dynamo.Control, dim)
		for i := range u {
			u[i] = amplitude * (2*rng.Float64() - 1)
		}
		return u
	}
}
