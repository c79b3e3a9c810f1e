package sim_test

import (
	"fmt"

	"github.com/san-kum/stepsim/pkg/sim"
)

type total struct{ n int }

func (t *total) Step(x int) { t.n += x }
func (t *total) State() int { return t.n }

func ExampleIntoIter() {
	states := sim.IntoIter(&total{}, sim.Cycle(1, 1, 2, 3))
	for s := range sim.Take(states.All(), 4) {
		fmt.Println(s)
	}
	// Output:
	// 1
	// 2
	// 4
	// 7
}

func ExampleIter() {
	t := &total{}
	states := sim.Iter(t, sim.Constant(5))
	states.Next()
	states.Next()
	states.Release()

	fmt.Println(t.State())
	// Output: 10
}
