package sim_test

import (
	"slices"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/stepsim/pkg/sim"
)

var _ = Describe("Box", func() {
	inputs := []int{1, 1, 2, 3, 5, 8, 13}

	drive := func(s sim.Simulation[int, int]) []int {
		states := sim.IntoIter(s, sim.FromSlice(inputs, 0))
		return slices.Collect(sim.Take(states.All(), len(inputs)))
	}

	It("forwards Step and State to the held value", func() {
		b := sim.NewBox[int, int](&counter{})
		b.Step(4)
		Expect(b.State()).To(Equal(4))
		Expect(b.Unbox().(*counter).total).To(Equal(4))
	})

	It("drives identically to the unwrapped simulation", func() {
		direct := drive(&counter{})
		boxed := drive(sim.NewBox[int, int](&counter{}))
		Expect(boxed).To(Equal(direct))
	})

	It("nests", func() {
		nested := sim.NewBox[int, int](sim.NewBox[int, int](&counter{}))
		Expect(drive(nested)).To(Equal(drive(&counter{})))
	})

	It("erases concrete types behind one interface", func() {
		sum := 0
		models := []*sim.Box[int, int]{
			sim.NewBox[int, int](&counter{}),
			sim.NewBox[int, int](&accumulator{total: &sum}),
			sim.NewBox[int, int](labelled{counter: &counter{}, name: "l"}),
		}
		want := drive(&counter{})
		for _, m := range models {
			Expect(drive(m)).To(Equal(want))
		}
	})

	It("keeps a borrowed box usable after release", func() {
		b := sim.NewBox[int, int](&counter{})
		states := sim.Iter(b, sim.Constant(3))
		states.Next()
		states.Next()
		states.Release()
		Expect(b.State()).To(Equal(6))
	})

	It("reads the same state repeatedly without stepping", func() {
		c := &counter{}
		b := sim.NewBox[int, int](c)
		states := sim.Iter(b, sim.Constant(5))
		states.Next()
		states.Next()
		states.Release()

		first := b.State()
		Expect(b.State()).To(Equal(first))
		Expect(b.State()).To(Equal(first))
		Expect(first).To(Equal(10))
		Expect(c.steps).To(Equal(2))
		Expect(c.reads).To(BeNumerically(">=", 3))
	})

	Context("holding a guarded simulation", func() {
		It("keeps the borrow check", func() {
			g := sim.Guard[int, int](&counter{})
			states := sim.Iter(sim.NewBox[int, int](g), sim.Constant(2))
			s, _ := states.Next()
			Expect(s).To(Equal(2))

			Expect(g.Borrowed()).To(BeTrue())
			Expect(func() { g.Step(1) }).To(PanicWith(MatchError(sim.ErrBorrowed)))

			states.Release()
			Expect(g.Borrowed()).To(BeFalse())
			Expect(g.State()).To(Equal(2))
		})

		It("keeps the move check through nested boxes", func() {
			g := sim.Guard[int, int](&counter{})
			nested := sim.NewBox[int, int](sim.NewBox[int, int](g))
			states := sim.IntoIter(nested, sim.Constant(1))
			defer states.Close()
			states.Next()

			Expect(g.Moved()).To(BeTrue())
			Expect(func() { g.State() }).To(PanicWith(MatchError(sim.ErrMoved)))
		})
	})
})
