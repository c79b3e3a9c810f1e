// Package physics provides dynamical system models for simulation.
//
// Each model implements [dynamo.System], and every model takes a one
// component control so it can be driven by an input generator:
//
//   - [Pendulum]: damped pendulum, control is torque
//   - [SpringMass]: chain of masses between walls, control pushes mass 0
//   - [Lorenz]: butterfly attractor, control nudges dx/dt
//   - [VanDerPol]: limit-cycle oscillator, control is a forcing term
//
// All models implement [dynamo.Configurable]. Pendulum and SpringMass also
// implement [dynamo.Hamiltonian]:
//
//	dyn := physics.NewPendulum()
//	if h, ok := dyn.(dynamo.Hamiltonian); ok {
//	    energy := h.Energy(state)
//	}
package physics
