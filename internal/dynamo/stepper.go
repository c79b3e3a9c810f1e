package dynamo

import (
	"fmt"

	"github.com/san-kum/stepsim/pkg/sim"
)

// Stepper advances a System with a fixed-step Integrator, one dt per Step.
// The Control passed to Step is the input held constant across that step.
//
// A step that produces NaN or Inf (with ValidateState on) marks the
// snapshot Diverged and keeps the last valid state; later steps are no-ops.
type Stepper struct {
	dyn        System
	integrator Integrator
	cfg        Config
	x0         State
	x          State
	t          float64
	steps      int
	diverged   bool
}

var _ sim.Simulation[Snapshot, Control] = (*Stepper)(nil)

func NewStepper(dyn System, integrator Integrator, x0 State, cfg Config) (*Stepper, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if len(x0) != dyn.StateDim() {
		return nil, fmt.Errorf("%w: got %d components, want %d", ErrDimensionMismatch, len(x0), dyn.StateDim())
	}
	if !x0.IsValid() {
		return nil, ErrInvalidState
	}
	return &Stepper{
		dyn:        dyn,
		integrator: integrator,
		cfg:        cfg,
		x0:         x0.Clone(),
		x:          x0.Clone(),
	}, nil
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w, got %f", ErrInvalidTimestep, cfg.Dt)
	}
	return nil
}

func (s *Stepper) Step(u Control) {
	if s.diverged {
		return
	}
	u = fitControl(u, s.dyn.ControlDim())

	next := s.integrator.Step(s.dyn, s.x, u, s.t, s.cfg.Dt)
	s.t += s.cfg.Dt
	s.steps++

	if s.cfg.ValidateState && !next.IsValid() {
		s.diverged = true
		return
	}
	s.x = next
}

func (s *Stepper) State() Snapshot {
	return Snapshot{
		Step:     s.steps,
		Time:     s.t,
		X:        s.x.Clone(),
		Energy:   s.energy(),
		Diverged: s.diverged,
	}
}

// Reset returns the stepper to its initial state at t=0.
func (s *Stepper) Reset() {
	s.x = s.x0.Clone()
	s.t = 0
	s.steps = 0
	s.diverged = false
}

func (s *Stepper) System() System { return s.dyn }

func (s *Stepper) energy() float64 {
	if h, ok := s.dyn.(Hamiltonian); ok {
		return h.Energy(s.x)
	}
	return 0
}

// fitControl zero-pads u to dim components so systems can index it freely.
func fitControl(u Control, dim int) Control {
	if len(u) >= dim {
		return u
	}
	padded := make(Control, dim)
	copy(padded, u)
	return padded
}
