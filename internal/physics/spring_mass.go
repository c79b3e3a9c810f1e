package physics

import (
	"fmt"

	"github.com/san-kum/stepsim/internal/dynamo"
)

const (
	DefaultMass      = 1.0
	DefaultStiffness = 10.0
	DefaultDamping   = 0.5
)

// SpringMass is a chain of n masses hanging off a wall by springs, pushed at
// the first mass by the control force. The last mass is free.
// State: [x1..xn, v1..vn]. Control: [force].
type SpringMass struct {
	NumMasses int
	Mass      float64
	Stiffness float64
	Damping   float64
}

func NewSpringMass(n int) *SpringMass {
	if n < 1 {
		n = 1
	}
	return &SpringMass{
		NumMasses: n,
		Mass:      DefaultMass,
		Stiffness: DefaultStiffness,
		Damping:   DefaultDamping,
	}
}

func (s *SpringMass) StateDim() int   { return s.NumMasses * 2 }
func (s *SpringMass) ControlDim() int { return 1 }

// displacement of the spring to the left of mass i (the wall for i=0).
func (s *SpringMass) stretch(x dynamo.State, i int) float64 {
	if i == 0 {
		return x[0]
	}
	return x[i] - x[i-1]
}

func (s *SpringMass) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	n := s.NumMasses
	dx := make(dynamo.State, n*2)
	copy(dx[:n], x[n:])

	for i := 0; i < n; i++ {
		force := -s.Stiffness * s.stretch(x, i)
		if i < n-1 {
			force += s.Stiffness * s.stretch(x, i+1)
		}
		force -= s.Damping * x[n+i]
		if i == 0 && len(u) > 0 {
			force += u[0]
		}
		dx[n+i] = force / s.Mass
	}

	return dx
}

func (s *SpringMass) DefaultState() dynamo.State {
	x := make(dynamo.State, s.StateDim())
	x[0] = 1.0
	return x
}

func (s *SpringMass) Energy(x dynamo.State) float64 {
	n := s.NumMasses
	energy := 0.0
	for i := 0; i < n; i++ {
		v := x[n+i]
		e := s.stretch(x, i)
		energy += 0.5*s.Mass*v*v + 0.5*s.Stiffness*e*e
	}
	return energy
}

func (s *SpringMass) GetParams() map[string]float64 {
	return map[string]float64{
		"mass":      s.Mass,
		"stiffness": s.Stiffness,
		"damping":   s.Damping,
	}
}

func (s *SpringMass) SetParam(name string, value float64) error {
	switch name {
	case "mass":
		s.Mass = value
	case "stiffness":
		s.Stiffness = value
	case "damping":
		s.Damping = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
