package sim_test

import (
	"math"
	"slices"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/stepsim/pkg/sim"
)

var _ = Describe("IntoIter", func() {
	It("yields cumulative sums for the 1,1,2,3 counter scenario", func() {
		states := sim.IntoIter(&counter{}, sim.Cycle(1, 1, 2, 3))
		got := slices.Collect(sim.Take(states.All(), 4))
		Expect(got).To(Equal([]int{1, 2, 4, 7}))
	})

	It("reports an unbounded size", func() {
		states := sim.IntoIter(&counter{}, sim.Constant(1))
		lower, upper, bounded := states.SizeHint()
		Expect(lower).To(Equal(math.MaxInt))
		Expect(upper).To(BeZero())
		Expect(bounded).To(BeFalse())
	})

	It("panics after Close", func() {
		states := sim.IntoIter(&counter{}, sim.Constant(1))
		states.Next()
		states.Close()
		Expect(func() { states.Next() }).To(PanicWith(MatchError(sim.ErrReleased)))
	})

	It("moves a guarded simulation out of reach of its old binding", func() {
		g := sim.Guard[int, int](&counter{})
		g.Step(5)

		states := sim.IntoIter(g, sim.Constant(1))
		Expect(g.Moved()).To(BeTrue())
		Expect(func() { g.Step(1) }).To(PanicWith(MatchError(sim.ErrMoved)))
		Expect(func() { g.State() }).To(PanicWith(MatchError(sim.ErrMoved)))
		Expect(func() { sim.Iter(g, sim.Constant(1)) }).To(PanicWith(MatchError(sim.ErrMoved)))

		s, ok := states.Next()
		Expect(ok).To(BeTrue())
		Expect(s).To(Equal(6))
	})

	It("rejects a nil generator", func() {
		Expect(func() { sim.IntoIter[int, int](&counter{}, nil) }).To(Panic())
	})
})

var _ = Describe("Iter", func() {
	var c *counter

	BeforeEach(func() {
		c = &counter{}
	})

	It("steps and generates in lock-step with pulls", func() {
		generated := 0
		var stepsAtGeneration []int
		gen := func() int {
			stepsAtGeneration = append(stepsAtGeneration, c.steps)
			generated++
			return 1
		}

		states := sim.Iter(c, gen)
		for n := 1; n <= 5; n++ {
			states.Next()
			Expect(c.steps).To(Equal(n))
			Expect(generated).To(Equal(n))
			Expect(c.reads).To(Equal(n))
		}
		Expect(stepsAtGeneration).To(Equal([]int{0, 1, 2, 3, 4}))
	})

	It("yields states in input order", func() {
		inputs := []int{3, -1, 4, 1, -5, 9}
		states := sim.Iter(c, sim.FromSlice(inputs, 0))

		got := slices.Collect(sim.Take(states.All(), len(inputs)))
		Expect(got).To(Equal([]int{3, 2, 6, 7, 2, 11}))
	})

	It("never runs dry", func() {
		states := sim.Iter(c, sim.Constant(1))
		for range 10_000 {
			_, ok := states.Next()
			Expect(ok).To(BeTrue())
		}
		Expect(c.total).To(Equal(10_000))
	})

	It("stops stepping when the range loop breaks", func() {
		states := sim.Iter(c, sim.Constant(2))
		pulled := 0
		for s := range states.All() {
			pulled++
			if s >= 6 {
				break
			}
		}
		Expect(pulled).To(Equal(3))
		Expect(c.steps).To(Equal(3))
	})

	It("hands the simulation back with every step applied", func() {
		states := sim.Iter(c, sim.Cycle(1, 1, 2, 3))
		var last int
		for range 3 {
			last, _ = states.Next()
		}
		states.Release()

		Expect(c.State()).To(Equal(last))
		c.Step(10)
		Expect(c.State()).To(Equal(14))
	})

	It("panics when pulled after Release", func() {
		states := sim.Iter(c, sim.Constant(1))
		states.Release()
		states.Release()
		Expect(func() { states.Next() }).To(PanicWith(MatchError(sim.ErrReleased)))
	})

	Context("with a guarded simulation", func() {
		var g *sim.Guarded[int, int]

		BeforeEach(func() {
			g = sim.Guard[int, int](c)
		})

		It("blocks direct access while borrowed", func() {
			states := sim.Iter(g, sim.Constant(2))
			states.Next()

			Expect(g.Borrowed()).To(BeTrue())
			Expect(func() { g.State() }).To(PanicWith(MatchError(sim.ErrBorrowed)))
			Expect(func() { g.Step(1) }).To(PanicWith(MatchError(sim.ErrBorrowed)))
			Expect(func() { sim.Iter(g, sim.Constant(1)) }).To(PanicWith(MatchError(sim.ErrBorrowed)))

			states.Release()
			Expect(g.Borrowed()).To(BeFalse())
			Expect(g.State()).To(Equal(2))
		})

		It("can be borrowed again after release", func() {
			first := sim.Iter(g, sim.Constant(1))
			first.Next()
			first.Release()

			second := sim.Iter(g, sim.Constant(1))
			s, _ := second.Next()
			second.Release()
			Expect(s).To(Equal(2))
		})
	})
})

var _ = Describe("Take", func() {
	It("pulls nothing for n <= 0", func() {
		c := &counter{}
		states := sim.Iter(c, sim.Constant(1))
		Expect(slices.Collect(sim.Take(states.All(), 0))).To(BeEmpty())
		Expect(c.steps).To(BeZero())
	})

	It("pulls exactly n elements", func() {
		c := &counter{}
		states := sim.Iter(c, sim.Constant(1))
		Expect(slices.Collect(sim.Take(states.All(), 7))).To(HaveLen(7))
		Expect(c.steps).To(Equal(7))
	})
})

var _ = Describe("Map", func() {
	It("transforms each state", func() {
		states := sim.IntoIter(&counter{}, sim.Constant(1))
		doubled := sim.Map(states.All(), func(s int) int { return s * 2 })
		Expect(slices.Collect(sim.Take(doubled, 3))).To(Equal([]int{2, 4, 6}))
	})
})

var _ = Describe("generators", func() {
	It("cycles through its values", func() {
		gen := sim.Cycle("a", "b")
		Expect([]string{gen(), gen(), gen()}).To(Equal([]string{"a", "b", "a"}))
	})

	It("refuses an empty cycle", func() {
		Expect(func() { sim.Cycle[int]() }).To(Panic())
	})

	It("falls back once a slice is spent", func() {
		gen := sim.FromSlice([]int{7}, -1)
		Expect([]int{gen(), gen(), gen()}).To(Equal([]int{7, -1, -1}))
	})

	It("feeds inputs from another sequence", func() {
		gen, stop := sim.FromSeq(slices.Values([]int{1, 1, 2, 3}), 0)
		defer stop()

		states := sim.IntoIter(&counter{}, gen)
		Expect(slices.Collect(sim.Take(states.All(), 5))).To(Equal([]int{1, 2, 4, 7, 7}))
	})
})
