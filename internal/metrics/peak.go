package metrics

import (
	"math"

	"github.com/san-kum/stepsim/internal/dynamo"
)

// Peak tracks the largest |x[0]| seen.
type Peak struct {
	max float64
}

func NewPeak() *Peak { return &Peak{} }

func (p *Peak) Name() string { return "peak" }

func (p *Peak) Observe(x dynamo.State, _ dynamo.Control, _ float64) {
	if len(x) == 0 {
		return
	}
	p.max = math.Max(p.max, math.Abs(x[0]))
}

func (p *Peak) Value() float64 { return p.max }

func (p *Peak) Reset() { p.max = 0 }
