package integrators

import "github.com/san-kum/stepsim/internal/dynamo"

// Leapfrog is the kick-drift-kick symplectic method. It expects a state laid
// out as [positions..., velocities...] with the velocity derivatives in the
// second half of Derive's result.
type Leapfrog struct {
	scratch dynamo.State
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	n := len(x)
	half := n / 2
	if len(l.scratch) != n {
		l.scratch = make(dynamo.State, n)
	}

	result := make(dynamo.State, n)
	halfDt := dt * 0.5

	// kick
	acc := dyn.Derive(x, u, t)
	for i := 0; i < half; i++ {
		l.scratch[half+i] = x[half+i] + acc[half+i]*halfDt
	}
	// drift
	for i := 0; i < half; i++ {
		result[i] = x[i] + l.scratch[half+i]*dt
		l.scratch[i] = result[i]
	}
	// kick
	acc = dyn.Derive(l.scratch, u, t+dt)
	for i := 0; i < half; i++ {
		result[half+i] = l.scratch[half+i] + acc[half+i]*halfDt
	}

	return result
}
