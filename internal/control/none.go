package control

import "github.com/san-kum/stepsim/internal/dynamo"

// None applies no control: every component is zero.
type None struct {
	dim int
}

func NewNone(dim int) *None {
	return &None{dim: dim}
}

func (n *None) Compute(_ dynamo.State, _ float64) dynamo.Control {
	return make(dynamo.Control, n.dim)
}
