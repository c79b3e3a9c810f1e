package metrics

import (
	"math"

	"github.com/san-kum/stepsim/internal/dynamo"
)

// EnergyDrift is the largest relative change in total energy from the
// first observation. It stays zero for systems without an energy function.
type EnergyDrift struct {
	energy   func(dynamo.State) float64
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift(dyn dynamo.System) *EnergyDrift {
	e := &EnergyDrift{}
	if h, ok := dyn.(dynamo.Hamiltonian); ok {
		e.energy = h.Energy
	}
	return e
}

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(x dynamo.State, _ dynamo.Control, _ float64) {
	if e.energy == nil {
		return
	}
	energy := e.energy(x)
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		e.maxDrift = math.Max(e.maxDrift, math.Abs(energy-e.initial)/math.Abs(e.initial))
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
