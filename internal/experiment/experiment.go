package experiment

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"github.com/san-kum/stepsim/internal/config"
	"github.com/san-kum/stepsim/internal/control"
	"github.com/san-kum/stepsim/internal/dynamo"
	"github.com/san-kum/stepsim/internal/logging"
	"github.com/san-kum/stepsim/internal/metrics"
	"github.com/san-kum/stepsim/pkg/sim"
)

// Experiment drives one model for a configured number of steps.
//
// In borrow mode the model is lent to the sequence and can be inspected
// with Final afterwards. In own mode the sequence takes it, so Final
// reports sim.ErrMoved. Either way an Experiment runs once.
type Experiment struct {
	cfg     *config.Config
	model   *Model
	guarded *sim.Guarded[Frame, []float64]
	ctrl    dynamo.Controller
	metrics []metrics.Metric
	logger  *slog.Logger
	used    bool

	// ownMetrics is set when the caller supplied the metric instances.
	ownMetrics bool
}

type Option func(*Experiment)

func WithLogger(l *slog.Logger) Option {
	return func(e *Experiment) { e.logger = l }
}

func WithMetrics(ms ...metrics.Metric) Option {
	return func(e *Experiment) {
		e.metrics = ms
		e.ownMetrics = true
	}
}

// New validates cfg and builds its model, controller and default metrics
// from r.
func New(r *Registry, cfg *config.Config, opts ...Option) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m, err := r.GetModel(cfg)
	if err != nil {
		return nil, err
	}
	ctrl, err := r.GetController(cfg, m)
	if err != nil {
		return nil, err
	}

	e := &Experiment{
		cfg:     cfg,
		model:   m,
		guarded: sim.Guard[Frame, []float64](m),
		ctrl:    ctrl,
		metrics: r.DefaultMetrics(m),
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Experiment) Model() *Model { return e.model }

// Final returns the model's current frame. It fails once the model has
// been moved into an owning sequence or while a run holds it.
func (e *Experiment) Final() (Frame, error) {
	switch {
	case e.guarded.Moved():
		return Frame{}, sim.ErrMoved
	case e.guarded.Borrowed():
		return Frame{}, sim.ErrBorrowed
	}
	return e.guarded.State(), nil
}

// Run pulls cfg.Steps frames. Cancellation is checked between pulls; a
// cancelled run returns the frames so far along with ctx.Err(). A frame
// that is no longer valid ends the run with a *dynamo.SimulationError.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.used {
		return nil, fmt.Errorf("experiment already run")
	}
	e.used = true

	res := &Result{
		Model: e.model.Name,
		Dt:    e.cfg.Dt,
		Mode:  e.cfg.Mode,
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	res.Initial = e.guarded.State()

	d := e.newDriver(res.Initial, &res.Inputs)
	for _, m := range e.metrics {
		m.Reset()
	}

	var frames iter.Seq[Frame]
	if e.cfg.Mode == config.ModeOwn {
		owned := sim.IntoIter[Frame, []float64](e.guarded, d.input)
		defer owned.Close()
		frames = owned.All()
	} else {
		borrowed := sim.Iter[Frame, []float64](e.guarded, d.input)
		defer borrowed.Release()
		frames = borrowed.All()
	}

	e.logger.Info("run started", "model", e.model.Name, "mode", e.cfg.Mode, "steps", e.cfg.Steps)

	for f := range sim.Take(frames, e.cfg.Steps) {
		if !f.Valid {
			e.logger.Warn("run diverged", "step", f.Step, "time", f.Time)
			res.Inputs = res.Inputs[:len(res.Frames)]
			e.finish(res)
			return res, &dynamo.SimulationError{
				Step:    f.Step,
				Time:    f.Time,
				State:   f.Values,
				Wrapped: dynamo.ErrInvalidState,
			}
		}
		d.observe(f)

		u := res.Inputs[len(res.Inputs)-1]
		for _, m := range e.metrics {
			m.Observe(f.Values, u, f.Time)
		}
		res.Frames = append(res.Frames, f)
		e.logger.Log(ctx, logging.LevelTrace, "frame", "step", f.Step, "time", f.Time, "values", f.Values)

		if err := ctx.Err(); err != nil {
			e.logger.Info("run cancelled", "step", f.Step)
			e.finish(res)
			return res, err
		}
	}

	e.finish(res)
	e.logger.Info("run finished", "frames", len(res.Frames))
	return res, nil
}

func (e *Experiment) finish(res *Result) {
	res.Metrics = make(map[string]float64, len(e.metrics))
	for _, m := range e.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
}

// Stream hands the model to an owning, unbounded sequence for live views.
// The sequence can be ranged over once; stopping early drops the model.
func (e *Experiment) Stream() (iter.Seq[Frame], error) {
	if e.used {
		return nil, fmt.Errorf("experiment already run")
	}
	e.used = true

	d := e.newDriver(e.guarded.State(), nil)
	owned := sim.IntoIter[Frame, []float64](e.guarded, d.input)
	return func(yield func(Frame) bool) {
		defer owned.Close()
		for f := range owned.All() {
			d.observe(f)
			if !yield(f) {
				return
			}
		}
	}, nil
}

// driver assembles the per-step input: closed-loop control from the last
// observed frame plus the configured open-loop input.
type driver struct {
	input sim.Generator[[]float64]
	fb    *control.Feedback
}

func (e *Experiment) newDriver(initial Frame, record *[][]float64) *driver {
	d := &driver{}
	open := openLoop(e.cfg, e.model.InputDim)

	var closed sim.Generator[dynamo.Control]
	if e.ctrl != nil {
		d.fb = control.NewFeedback(snapshot(initial))
		closed = control.Loop(e.ctrl, d.fb)
	}

	d.input = func() []float64 {
		u := open()
		if closed != nil {
			u = addControls(u, closed())
		}
		if record != nil {
			*record = append(*record, append([]float64(nil), u...))
		}
		return u
	}
	return d
}

func (d *driver) observe(f Frame) {
	if d.fb != nil {
		d.fb.Observe(snapshot(f))
	}
}

func snapshot(f Frame) dynamo.Snapshot {
	return dynamo.Snapshot{Step: f.Step, Time: f.Time, X: f.Values}
}

func openLoop(cfg *config.Config, dim int) sim.Generator[[]float64] {
	var gen sim.Generator[dynamo.Control]
	switch cfg.Input.Kind {
	case config.InputConstant:
		gen = control.Constant(cfg.Input.Values)
	case config.InputSchedule:
		gen = control.Schedule(cfg.Input.Values, dim)
	case config.InputNoise:
		gen = control.Noise(cfg.Input.Amplitude, dim, cfg.Seed)
	default:
		gen = control.Constant(make(dynamo.Control, dim))
	}
	return func() []float64 { return gen() }
}

func addControls(a, b []float64) []float64 {
	n := max(len(a), len(b))
	sum := make([]float64, n)
	copy(sum, a)
	for i, v := range b {
		sum[i] += v
	}
	return sum
}
