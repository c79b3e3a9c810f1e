package models

import (
	"math/rand"
	"strings"

	"github.com/san-kum/stepsim/pkg/sim"
)

// Cell addresses one square of a Life board.
type Cell struct{ X, Y int }

// Grid is a copy of a Life board after some number of generations.
type Grid struct {
	W, H       int
	Generation int
	Cells      []uint8
}

func (g Grid) Alive(x, y int) bool {
	return g.Cells[y*g.W+x] == 1
}

// Population counts live cells.
func (g Grid) Population() int {
	n := 0
	for _, c := range g.Cells {
		n += int(c)
	}
	return n
}

// String renders live cells as '#' and dead ones as '.', one row per line.
func (g Grid) String() string {
	var b strings.Builder
	b.Grow((g.W + 1) * g.H)
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			if g.Alive(x, y) {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Life is Conway's Game of Life on a toroidal board. Each Step first sets
// the input cells alive and then computes one generation.
type Life struct {
	w, h int
	gen  int
	cur  []uint8
	nxt  []uint8
}

var _ sim.Simulation[Grid, []Cell] = (*Life)(nil)

func NewLife(w, h int) *Life {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &Life{w: w, h: h, cur: make([]uint8, w*h), nxt: make([]uint8, w*h)}
}

// Seed fills the board at random with roughly density live cells and
// resets the generation count.
func (l *Life) Seed(seed int64, density float64) {
	rng := rand.New(rand.NewSource(seed))
	for i := range l.cur {
		l.cur[i] = 0
		if rng.Float64() < density {
			l.cur[i] = 1
		}
	}
	l.gen = 0
}

// Set marks cells alive; coordinates wrap around the board.
func (l *Life) Set(cells ...Cell) {
	for _, c := range cells {
		x := ((c.X % l.w) + l.w) % l.w
		y := ((c.Y % l.h) + l.h) % l.h
		l.cur[y*l.w+x] = 1
	}
}

func (l *Life) Step(cells []Cell) {
	l.Set(cells...)

	w, h := l.w, l.h
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			neighbors := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx := (x + dx + w) % w
					ny := (y + dy + h) % h
					neighbors += int(l.cur[ny*w+nx])
				}
			}
			idx := y*w + x
			alive := l.cur[idx] == 1
			l.nxt[idx] = 0
			if (alive && (neighbors == 2 || neighbors == 3)) || (!alive && neighbors == 3) {
				l.nxt[idx] = 1
			}
		}
	}
	l.cur, l.nxt = l.nxt, l.cur
	l.gen++
}

func (l *Life) State() Grid {
	return Grid{
		W:          l.w,
		H:          l.h,
		Generation: l.gen,
		Cells:      append([]uint8(nil), l.cur...),
	}
}
