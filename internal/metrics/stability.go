package metrics

import (
	"math"

	"github.com/san-kum/stepsim/internal/dynamo"
)

// Stability is the fraction of observations whose components all stay
// within threshold. An empty run counts as stable.
type Stability struct {
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{threshold: threshold}
}

func (s *Stability) Name() string { return "stability" }

func (s *Stability) Observe(x dynamo.State, _ dynamo.Control, _ float64) {
	s.samples++
	for _, v := range x {
		if math.IsNaN(v) || math.Abs(v) > s.threshold {
			s.violations++
			return
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
