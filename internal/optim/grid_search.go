// Package optim tunes run parameters by exhaustive search.
package optim

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"maps"
	"math"

	"github.com/san-kum/stepsim/internal/config"
	"github.com/san-kum/stepsim/internal/experiment"
	"github.com/san-kum/stepsim/internal/logging"
)

// ErrNoCandidate is returned when every grid point failed to run.
var ErrNoCandidate = errors.New("optim: no grid point produced the metric")

// Axis is one searched parameter. Controller gains (kp, ki, kd, target)
// go to the controller; any other name is a model parameter.
type Axis struct {
	Name   string
	Values []float64
}

// Point is one evaluated combination. Err is set when its run failed.
type Point struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type GridSearch struct {
	registry *experiment.Registry
	base     *config.Config
	axes     []Axis
	logger   *slog.Logger
}

func NewGridSearch(r *experiment.Registry, base *config.Config, axes ...Axis) *GridSearch {
	return &GridSearch{registry: r, base: base, axes: axes, logger: logging.Discard()}
}

func (g *GridSearch) SetLogger(l *slog.Logger) { g.logger = l }

// Search runs every combination of the axes and returns the one that
// minimises metric, along with all evaluated points in grid order.
// Failed runs are recorded and skipped; a cancelled context stops the
// search.
func (g *GridSearch) Search(ctx context.Context, metric string) (Point, []Point, error) {
	best := Point{Value: math.Inf(1)}
	var points []Point

	for params := range g.combinations() {
		if err := ctx.Err(); err != nil {
			return Point{}, points, err
		}

		p := Point{Params: params}
		p.Value, p.Err = g.evaluate(ctx, params, metric)
		points = append(points, p)

		if p.Err != nil {
			g.logger.Debug("grid point failed", "params", params, "err", p.Err)
			continue
		}
		g.logger.Log(ctx, logging.LevelTrace, "grid point", "params", params, metric, p.Value)
		if p.Value < best.Value {
			best = p
		}
	}

	if best.Params == nil {
		return Point{}, points, ErrNoCandidate
	}
	return best, points, nil
}

func (g *GridSearch) evaluate(ctx context.Context, params map[string]float64, metric string) (float64, error) {
	cfg := g.base.Clone()
	if cfg.Params == nil {
		cfg.Params = make(map[string]float64)
	}
	for name, v := range params {
		switch name {
		case "kp":
			cfg.ControllerParams.Kp = v
		case "ki":
			cfg.ControllerParams.Ki = v
		case "kd":
			cfg.ControllerParams.Kd = v
		case "target":
			cfg.ControllerParams.Target = v
		default:
			cfg.Params[name] = v
		}
	}

	exp, err := experiment.New(g.registry, cfg)
	if err != nil {
		return 0, err
	}
	res, err := exp.Run(ctx)
	if err != nil {
		return 0, err
	}
	v, ok := res.Metrics[metric]
	if !ok {
		return 0, fmt.Errorf("metric %q not reported by %s", metric, cfg.Model)
	}
	return v, nil
}

// combinations yields the cartesian product of the axes, last axis
// varying fastest. Each yielded map is fresh.
func (g *GridSearch) combinations() iter.Seq[map[string]float64] {
	return func(yield func(map[string]float64) bool) {
		var walk func(depth int, current map[string]float64) bool
		walk = func(depth int, current map[string]float64) bool {
			if depth == len(g.axes) {
				return yield(maps.Clone(current))
			}
			axis := g.axes[depth]
			for _, v := range axis.Values {
				current[axis.Name] = v
				if !walk(depth+1, current) {
					return false
				}
			}
			return true
		}
		walk(0, make(map[string]float64))
	}
}
