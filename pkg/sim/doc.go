// Package sim defines the contract for discrete-step simulations and the
// lazy sequences that drive them.
//
// A simulation is anything that advances by consuming one input per step
// and exposes a read-only snapshot of where it is:
//
//   - [Simulation]: the Step/State contract, generic over State and Input
//   - [Box]: a single-owner indirection that forwards the contract
//   - [Borrowed]: a sequence that drives a simulation the caller keeps
//   - [Owned]: a sequence that takes the simulation with it
//
// # Example
//
//	counter := &Counter{}
//	states := sim.IntoIter(counter, sim.Cycle(1, 1, 2, 3))
//	for s := range sim.Take(states.All(), 4) {
//	    fmt.Println(s) // 1 2 4 7
//	}
//
// # Sequences
//
// Every pull invokes the input generator once, feeds the value to Step and
// returns State. Sequences never end on their own: bound them with [Take],
// break out of the range loop, or stop calling Next. [Borrowed.SizeHint]
// and [Owned.SizeHint] report the sequence as unbounded.
//
// # Ownership
//
// Go has no borrow checker, so exclusive access is a convention. Wrap a
// simulation in [Guarded] to have it enforced at run time: direct use
// while a [Borrowed] is live panics with [ErrBorrowed], and use after
// [IntoIter] panics with [ErrMoved].
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent use. Step and State are
// called strictly in sequence by whoever pulls.
package sim
