package export

import (
	"fmt"
	"io"
	"math"

	"github.com/san-kum/stepsim/internal/experiment"
)

// WriteSVG draws component i of res against time as an SVG path.
func WriteSVG(w io.Writer, res *experiment.Result, i, width, height int, stroke string) error {
	ys := res.Series(i)
	xs := res.Times()
	if len(ys) < 2 {
		return fmt.Errorf("svg needs at least 2 frames, got %d", len(ys))
	}

	minX, maxX := xs[0], xs[len(xs)-1]
	minY, maxY := ys[0], ys[0]
	for _, y := range ys {
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}

	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	ew := &errWriter{w: w}
	ew.printf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="`,
		width, height, width, height, stroke)

	for k := range ys {
		x := (xs[k] - minX) / rangeX * float64(width)
		y := float64(height) - (ys[k]-minY)/rangeY*float64(height)
		cmd := " L"
		if k == 0 {
			cmd = "M"
		}
		ew.printf("%s%.1f,%.1f", cmd, x, y)
	}

	ew.printf("\"/>\n</svg>\n")
	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
