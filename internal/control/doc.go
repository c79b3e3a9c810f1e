// Package control provides controllers and input generators for
// [dynamo.Stepper].
//
// Controllers implement [dynamo.Controller]:
//
//   - [PID]: Proportional-Integral-Derivative on the first state component
//   - [LQR]: full-state feedback with precomputed gains
//   - [None]: zero control
//
// A Stepper is driven by a [sim.Generator] of controls. Open-loop inputs
// come from [Constant], [Schedule] and [Noise]. Closed-loop control goes
// through a [Feedback] that the caller updates with every snapshot it
// pulls:
//
//	fb := control.NewFeedback(stepper.State())
//	states := sim.Iter(stepper, control.Loop(pid, fb))
//	defer states.Release()
//	for snap := range sim.Take(states.All(), 1000) {
//	    fb.Observe(snap)
//	}
//
// PID implements [dynamo.Configurable] for tuning from config files.
package control
