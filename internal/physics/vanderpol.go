package physics

import (
	"fmt"

	"github.com/san-kum/stepsim/internal/dynamo"
)

// VanDerPol is the self-sustained oscillator
//
//	dx/dt = y
//	dy/dt = mu(1 - x^2)y - x + u
type VanDerPol struct {
	mu float64
}

func NewVanDerPol() *VanDerPol {
	return &VanDerPol{mu: 1.0}
}

func (v *VanDerPol) StateDim() int   { return 2 }
func (v *VanDerPol) ControlDim() int { return 1 }

func (v *VanDerPol) Derive(state dynamo.State, u dynamo.Control, _ float64) dynamo.State {
	x, y := state[0], state[1]
	force := 0.0
	if len(u) > 0 {
		force = u[0]
	}
	return dynamo.State{y, v.mu*(1-x*x)*y - x + force}
}

func (v *VanDerPol) DefaultState() dynamo.State { return dynamo.State{2.0, 0.0} }

func (v *VanDerPol) GetParams() map[string]float64 {
	return map[string]float64{"mu": v.mu}
}

func (v *VanDerPol) SetParam(name string, value float64) error {
	if name != "mu" {
		return fmt.Errorf("unknown param: %s", name)
	}
	v.mu = value
	return nil
}
