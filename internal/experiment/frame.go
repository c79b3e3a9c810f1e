package experiment

import (
	"math"

	"github.com/san-kum/stepsim/internal/dynamo"
	"github.com/san-kum/stepsim/internal/models"
	"github.com/san-kum/stepsim/pkg/sim"
)

// Frame is the model-independent view of one state. Discrete models count
// one time unit per step.
type Frame struct {
	Step   int          `json:"step"`
	Time   float64      `json:"time"`
	Values []float64    `json:"values"`
	Valid  bool         `json:"valid"`
	Grid   *models.Grid `json:"-"`
}

// Model is a registered simulation with its state and input types erased
// to Frame and []float64.
type Model struct {
	*sim.Box[Frame, []float64]

	Name     string
	InputDim int
	// System is nil for discrete models.
	System dynamo.System
}

type stepperFrames struct{ st *dynamo.Stepper }

func (s stepperFrames) Step(u []float64) { s.st.Step(u) }

func (s stepperFrames) State() Frame {
	snap := s.st.State()
	return Frame{Step: snap.Step, Time: snap.Time, Values: snap.X, Valid: !snap.Diverged}
}

type counterFrames struct {
	c     *models.Counter
	steps int
}

func (c *counterFrames) Step(u []float64) {
	n := 0
	if len(u) > 0 {
		n = int(math.Round(u[0]))
	}
	c.c.Step(n)
	c.steps++
}

func (c *counterFrames) State() Frame {
	return Frame{
		Step:   c.steps,
		Time:   float64(c.steps),
		Values: []float64{float64(c.c.State())},
		Valid:  true,
	}
}

// lifeFrames reads its input as x, y pairs of cells to force alive.
type lifeFrames struct{ l *models.Life }

func (f lifeFrames) Step(u []float64) {
	cells := make([]models.Cell, 0, len(u)/2)
	for i := 0; i+1 < len(u); i += 2 {
		cells = append(cells, models.Cell{X: int(math.Round(u[i])), Y: int(math.Round(u[i+1]))})
	}
	f.l.Step(cells)
}

func (f lifeFrames) State() Frame {
	g := f.l.State()
	return Frame{
		Step:   g.Generation,
		Time:   float64(g.Generation),
		Values: []float64{float64(g.Population())},
		Valid:  true,
		Grid:   &g,
	}
}
