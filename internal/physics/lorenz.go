package physics

import (
	"fmt"

	"github.com/san-kum/stepsim/internal/dynamo"
)

// Lorenz is the butterfly attractor. Control, if present, is added to the
// x derivative.
type Lorenz struct{ sigma, rho, beta float64 }

func NewLorenz() *Lorenz          { return &Lorenz{10.0, 28.0, 8.0 / 3.0} }
func (l *Lorenz) StateDim() int   { return 3 }
func (l *Lorenz) ControlDim() int { return 1 }

func (l *Lorenz) Derive(s dynamo.State, u dynamo.Control, _ float64) dynamo.State {
	push := 0.0
	if len(u) > 0 {
		push = u[0]
	}
	return dynamo.State{l.sigma*(s[1]-s[0]) + push, s[0]*(l.rho-s[2]) - s[1], s[0]*s[1] - l.beta*s[2]}
}

func (l *Lorenz) DefaultState() dynamo.State { return dynamo.State{1.0, 1.0, 1.0} }

func (l *Lorenz) GetParams() map[string]float64 {
	return map[string]float64{"sigma": l.sigma, "rho": l.rho, "beta": l.beta}
}

func (l *Lorenz) SetParam(n string, v float64) error {
	switch n {
	case "sigma":
		l.sigma = v
	case "rho":
		l.rho = v
	case "beta":
		l.beta = v
	default:
		return fmt.Errorf("unknown param: %s", n)
	}
	return nil
}
