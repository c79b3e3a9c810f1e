// Package dynamo provides ODE primitives that plug into the sim contract.
//
// The package defines the fundamental interfaces and types for numerical
// simulation of ordinary differential equations:
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [Integrator]: numerical integrator interface
//   - [Controller]: feedback controller interface
//   - [Stepper]: a sim.Simulation[Snapshot, Control] over a System
//
// # Example
//
//	dyn := physics.NewPendulum()
//	st, _ := dynamo.NewStepper(dyn, integrators.NewRK4(), dynamo.State{0.5, 0}, dynamo.DefaultConfig())
//	states := sim.IntoIter(st, sim.Constant(dynamo.Control{0}))
//	for snap := range sim.Take(states.All(), 100) {
//	    fmt.Println(snap.Time, snap.X)
//	}
//
// # Thread Safety
//
// Stepper instances are NOT thread-safe.
package dynamo
