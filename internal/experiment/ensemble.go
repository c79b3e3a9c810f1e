package experiment

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/stepsim/internal/config"
	"github.com/san-kum/stepsim/internal/metrics"
)

// ErrSharedMetrics is returned when ensemble options carry metric
// instances, which every concurrent run would then observe into.
var ErrSharedMetrics = errors.New("experiment: ensemble runs cannot share metrics, use SetMetrics")

// Ensemble runs the same configuration several times with consecutive
// seeds. Each run gets its own model and metrics, so runs share nothing
// but the registry and the options' logger.
type Ensemble struct {
	registry   *Registry
	cfg        *config.Config
	runs       int
	workers    int
	opts       []Option
	newMetrics func() []metrics.Metric
}

// NewEnsemble prepares runs of cfg. opts apply to every run and must not
// include WithMetrics; use SetMetrics instead.
func NewEnsemble(r *Registry, cfg *config.Config, runs int, opts ...Option) *Ensemble {
	return &Ensemble{
		registry: r,
		cfg:      cfg,
		runs:     runs,
		workers:  runtime.GOMAXPROCS(0),
		opts:     opts,
	}
}

// SetWorkers bounds how many runs step at once.
func (e *Ensemble) SetWorkers(n int) {
	if n > 0 {
		e.workers = n
	}
}

// SetMetrics replaces the default metrics of each run with a fresh set
// from newMetrics.
func (e *Ensemble) SetMetrics(newMetrics func() []metrics.Metric) {
	e.newMetrics = newMetrics
}

// Run returns one result per run, ordered by seed offset. The first
// failing run cancels the rest.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	if e.runs <= 0 {
		return nil, fmt.Errorf("ensemble needs at least one run, got %d", e.runs)
	}

	exps := make([]*Experiment, e.runs)
	for i := range e.runs {
		cfg := e.cfg.Clone()
		cfg.Seed = e.cfg.Seed + int64(i)

		exp, err := New(e.registry, cfg, e.opts...)
		if err != nil {
			return nil, err
		}
		if exp.ownMetrics {
			return nil, ErrSharedMetrics
		}
		if e.newMetrics != nil {
			exp.metrics = e.newMetrics()
		}
		exps[i] = exp
	}

	results := make([]*Result, e.runs)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, exp := range exps {
		g.Go(func() error {
			res, err := exp.Run(ctx)
			if err != nil {
				return fmt.Errorf("run %d (seed %d): %w", i, exp.cfg.Seed, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
