package sim

import (
	"iter"
	"math"
)

// driver is the state machine shared by both sequence kinds. It has a
// single live state; release is the only way out, and it comes from the
// caller.
type driver[S, I any] struct {
	sim      Simulation[S, I]
	input    func() I
	released bool
}

func newDriver[S, I any](s Simulation[S, I], input func() I) driver[S, I] {
	if s == nil {
		panic("sim: nil simulation")
	}
	if input == nil {
		panic("sim: nil input generator")
	}
	return driver[S, I]{sim: s, input: input}
}

func (d *driver[S, I]) next() S {
	if d.released {
		panic(ErrReleased)
	}
	d.sim.Step(d.input())
	return d.sim.State()
}

func (d *driver[S, I]) seq() iter.Seq[S] {
	return func(yield func(S) bool) {
		for {
			if !yield(d.next()) {
				return
			}
		}
	}
}

// Borrowed drives a simulation that remains owned by the caller. Until
// Release is called the caller must not touch the simulation except
// through the sequence.
type Borrowed[S, I any] struct {
	driver[S, I]
	lender lender[S, I]
}

// Iter borrows s and returns a sequence of its states, sourcing one input
// from the generator per element.
func Iter[S, I any](s Simulation[S, I], input func() I) *Borrowed[S, I] {
	b := &Borrowed[S, I]{driver: newDriver(s, input)}
	if l, ok := s.(lender[S, I]); ok {
		b.sim = l.checkout()
		b.lender = l
	}
	return b
}

// Next steps the simulation once and returns the resulting state. The
// second result is always true.
func (b *Borrowed[S, I]) Next() (S, bool) {
	return b.next(), true
}

// SizeHint reports the remaining length: at least math.MaxInt elements and
// no upper bound.
func (b *Borrowed[S, I]) SizeHint() (lower, upper int, bounded bool) {
	return math.MaxInt, 0, false
}

// All returns the sequence as an iter.Seq. Each element pulled is one step.
func (b *Borrowed[S, I]) All() iter.Seq[S] {
	return b.seq()
}

// Release ends the borrow. The simulation keeps every step applied so far
// and the caller may use it directly again. Release is idempotent.
func (b *Borrowed[S, I]) Release() {
	if b.released {
		return
	}
	b.released = true
	if b.lender != nil {
		b.lender.checkin()
	}
}

// Owned drives a simulation it owns. The simulation lives exactly as long
// as the sequence.
type Owned[S, I any] struct {
	driver[S, I]
}

// IntoIter moves s into a sequence of its states, sourcing one input from
// the generator per element. The caller must not use s afterwards.
func IntoIter[S, I any](s Simulation[S, I], input func() I) *Owned[S, I] {
	o := &Owned[S, I]{driver: newDriver(s, input)}
	if l, ok := s.(lender[S, I]); ok {
		o.sim = l.move()
	}
	return o
}

// Next steps the simulation once and returns the resulting state. The
// second result is always true.
func (o *Owned[S, I]) Next() (S, bool) {
	return o.next(), true
}

// SizeHint reports the remaining length: at least math.MaxInt elements and
// no upper bound.
func (o *Owned[S, I]) SizeHint() (lower, upper int, bounded bool) {
	return math.MaxInt, 0, false
}

// All returns the sequence as an iter.Seq. Each element pulled is one step.
func (o *Owned[S, I]) All() iter.Seq[S] {
	return o.seq()
}

// Close drops the simulation and the generator along with the sequence.
func (o *Owned[S, I]) Close() {
	o.released = true
	o.sim = nil
	o.input = nil
}
