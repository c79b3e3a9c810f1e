package analysis

import (
	"math"

	"github.com/san-kum/stepsim/internal/dynamo"
	"github.com/san-kum/stepsim/pkg/sim"
)

// separation advances a reference trajectory and a perturbed copy in
// lock-step. After each step the copy is pulled back to distance d0 along
// the current separation, and State reports ln(d/d0) for that step.
type separation struct {
	dyn     dynamo.System
	integ   dynamo.Integrator
	x, xp   dynamo.State
	t, dt   float64
	d0      float64
	stretch float64
}

func (s *separation) Step(u dynamo.Control) {
	s.x = s.integ.Step(s.dyn, s.x, u, s.t, s.dt)
	s.xp = s.integ.Step(s.dyn, s.xp, u, s.t, s.dt)
	s.t += s.dt

	d := s.xp.Sub(s.x).Norm()
	if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		s.stretch = math.NaN()
		return
	}
	s.stretch = math.Log(d / s.d0)
	s.xp = s.x.Add(s.xp.Sub(s.x).Scale(s.d0 / d))
}

func (s *separation) State() float64 { return s.stretch }

// LyapunovExponent estimates the largest Lyapunov exponent of the
// uncontrolled system from x0 by renormalized trajectory separation. A
// positive value indicates chaos. It returns NaN if the trajectories
// blow up or collapse onto each other.
func LyapunovExponent(dyn dynamo.System, integ dynamo.Integrator, x0 dynamo.State, dt float64, steps int, perturbation float64) float64 {
	if len(x0) == 0 || steps <= 0 || dt <= 0 || perturbation <= 0 {
		return 0
	}

	xp := x0.Clone()
	xp[0] += perturbation
	s := &separation{dyn: dyn, integ: integ, x: x0.Clone(), xp: xp, dt: dt, d0: perturbation}

	u := make(dynamo.Control, dyn.ControlDim())
	stretches := sim.IntoIter(s, sim.Constant(u))
	defer stretches.Close()

	sum := 0.0
	for stretch := range sim.Take(stretches.All(), steps) {
		if math.IsNaN(stretch) {
			return math.NaN()
		}
		sum += stretch
	}
	return sum / (float64(steps) * dt)
}
