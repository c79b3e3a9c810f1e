package sim

// lender is implemented by wrappers that track who holds the simulation.
type lender[S, I any] interface {
	checkout() Simulation[S, I]
	checkin()
	move() Simulation[S, I]
}

type guardState int

const (
	guardFree guardState = iota
	guardBorrowed
	guardMoved
)

// Guarded enforces the exclusive-access rules of the sequences at run
// time. While a Borrowed sequence holds it, Step and State panic with
// ErrBorrowed; once moved into an Owned sequence they panic with ErrMoved.
// The checks still apply when the Guarded is held inside a Box.
type Guarded[S, I any] struct {
	inner Simulation[S, I]
	state guardState
}

// Guard wraps s.
func Guard[S, I any](s Simulation[S, I]) *Guarded[S, I] {
	if s == nil {
		panic("sim: nil simulation")
	}
	return &Guarded[S, I]{inner: s}
}

func (g *Guarded[S, I]) Step(input I) {
	g.check()
	g.inner.Step(input)
}

func (g *Guarded[S, I]) State() S {
	g.check()
	return g.inner.State()
}

// Borrowed reports whether a live sequence currently holds the simulation.
func (g *Guarded[S, I]) Borrowed() bool { return g.state == guardBorrowed }

// Moved reports whether the simulation was moved into an owning sequence.
func (g *Guarded[S, I]) Moved() bool { return g.state == guardMoved }

func (g *Guarded[S, I]) check() {
	switch g.state {
	case guardBorrowed:
		panic(ErrBorrowed)
	case guardMoved:
		panic(ErrMoved)
	}
}

func (g *Guarded[S, I]) checkout() Simulation[S, I] {
	g.check()
	g.state = guardBorrowed
	return g.inner
}

func (g *Guarded[S, I]) checkin() {
	g.state = guardFree
}

func (g *Guarded[S, I]) move() Simulation[S, I] {
	g.check()
	g.state = guardMoved
	inner := g.inner
	g.inner = nil
	return inner
}
