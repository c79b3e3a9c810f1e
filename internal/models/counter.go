package models

import "github.com/san-kum/stepsim/pkg/sim"

// Counter keeps a running total of its inputs. Driven with 1, 1, 2, 3 it
// yields 1, 2, 4, 7.
type Counter struct {
	total int
}

var _ sim.Simulation[int, int] = (*Counter)(nil)

func NewCounter(start int) *Counter {
	return &Counter{total: start}
}

func (c *Counter) Step(n int) { c.total += n }

func (c *Counter) State() int { return c.total }
