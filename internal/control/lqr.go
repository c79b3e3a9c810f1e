package control

import "github.com/san-kum/stepsim/internal/dynamo"

// LQR is full-state feedback u = -K(x - Target) with precomputed gains.
type LQR struct {
	K      [][]float64
	Target dynamo.State
}

func NewLQR(k [][]float64, target dynamo.State) *LQR {
	return &LQR{K: k, Target: target}
}

func (l *LQR) Compute(x dynamo.State, _ float64) dynamo.Control {
	u := make(dynamo.Control, len(l.K))
	for i, row := range l.K {
		for j := 0; j < len(x) && j < len(row); j++ {
			target := 0.0
			if j < len(l.Target) {
				target = l.Target[j]
			}
			u[i] -= row[j] * (x[j] - target)
		}
	}
	return u
}

// Gains for the linearized models around their resting equilibrium.
var lqrGains = map[string][][]float64{
	"pendulum":    {{31.62, 10.0}},
	"spring_mass": {{10.0, 6.32}},
}

// NewModelLQR returns an LQR stabilizing the named model at the origin,
// or false if no gains are tabulated for it.
func NewModelLQR(model string, stateDim int) (*LQR, bool) {
	k, ok := lqrGains[model]
	if !ok {
		return nil, false
	}
	return NewLQR(k, make(dynamo.State, stateDim)), true
}
