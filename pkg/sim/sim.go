package sim

// Simulation is a process that evolves in discrete steps. S is the snapshot
// type returned by State and I the value consumed by each Step.
//
// Step has no error return. An implementation whose stepping can fail must
// encode that in S or panic.
type Simulation[S, I any] interface {
	// Step advances the simulation by exactly one unit using input.
	Step(input I)
	// State returns a snapshot. It must not mutate the simulation, and
	// repeated calls with no Step in between must observe the same thing.
	State() S
}

// Generator produces one input per call.
type Generator[I any] func() I

// Box holds a simulation behind a single owning indirection. The embedded
// value's Step and State are promoted, so a Box satisfies Simulation with
// the same State and Input types as the value it holds.
//
// The same rule applies to any struct that embeds a Simulation, and a
// pointer to a value-receiver implementation is itself a Simulation.
type Box[S, I any] struct {
	Simulation[S, I]
}

// NewBox moves s into a Box.
func NewBox[S, I any](s Simulation[S, I]) *Box[S, I] {
	if s == nil {
		panic("sim: nil simulation")
	}
	return &Box[S, I]{Simulation: s}
}

// Unbox returns the held simulation.
func (b *Box[S, I]) Unbox() Simulation[S, I] {
	return b.Simulation
}

// A Box passes sequence bookkeeping through to a guard it holds, so
// boxing a Guarded keeps its borrow and move checks.
func (b *Box[S, I]) checkout() Simulation[S, I] {
	if l, ok := b.Simulation.(lender[S, I]); ok {
		return l.checkout()
	}
	return b.Simulation
}

func (b *Box[S, I]) checkin() {
	if l, ok := b.Simulation.(lender[S, I]); ok {
		l.checkin()
	}
}

func (b *Box[S, I]) move() Simulation[S, I] {
	if l, ok := b.Simulation.(lender[S, I]); ok {
		return l.move()
	}
	return b.Simulation
}
