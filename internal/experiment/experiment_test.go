package experiment

import (
	"bytes"
	"context"
	"errors"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/san-kum/stepsim/internal/config"
	"github.com/san-kum/stepsim/internal/dynamo"
	"github.com/san-kum/stepsim/internal/logging"
	"github.com/san-kum/stepsim/pkg/sim"
)

func newExperiment(t *testing.T, cfg *config.Config, opts ...Option) *Experiment {
	t.Helper()
	e, err := New(NewRegistry(), cfg, opts...)
	if err != nil {
		t.Fatalf("new experiment: %v", err)
	}
	return e
}

func TestCounterPreset(t *testing.T) {
	for _, mode := range []string{config.ModeBorrow, config.ModeOwn} {
		t.Run(mode, func(t *testing.T) {
			cfg := config.GetPreset("counter", "fib")
			cfg.Mode = mode

			res, err := newExperiment(t, cfg).Run(context.Background())
			if err != nil {
				t.Fatalf("run: %v", err)
			}

			want := []float64{1, 2, 4, 7}
			if got := res.Series(0); !slices.Equal(got, want) {
				t.Errorf("got %v, want %v", got, want)
			}
			if len(res.Inputs) != 4 || res.Inputs[3][0] != 3 {
				t.Errorf("unexpected inputs %v", res.Inputs)
			}
		})
	}
}

func TestBorrowKeepsModel(t *testing.T) {
	cfg := config.GetPreset("counter", "fib")
	e := newExperiment(t, cfg)

	if _, err := e.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	f, err := e.Final()
	if err != nil {
		t.Fatalf("final: %v", err)
	}
	if f.Values[0] != 7 || f.Step != 4 {
		t.Errorf("expected final total 7 at step 4, got %+v", f)
	}
}

func TestOwnMovesModel(t *testing.T) {
	cfg := config.GetPreset("counter", "fib")
	cfg.Mode = config.ModeOwn
	e := newExperiment(t, cfg)

	if _, err := e.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Final(); !errors.Is(err, sim.ErrMoved) {
		t.Errorf("expected ErrMoved, got %v", err)
	}
}

func TestRunOnce(t *testing.T) {
	e := newExperiment(t, config.GetPreset("counter", "fib"))
	if _, err := e.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Run(context.Background()); err == nil {
		t.Error("expected second run to fail")
	}
}

func TestPendulumRun(t *testing.T) {
	cfg := config.GetPreset("pendulum", "small")
	cfg.Steps = 200

	res, err := newExperiment(t, cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Frames) != 200 {
		t.Fatalf("expected 200 frames, got %d", len(res.Frames))
	}
	last, _ := res.Last()
	if math.Abs(last.Time-2.0) > 1e-9 {
		t.Errorf("expected t=2.0, got %f", last.Time)
	}
	if res.Dim() != 2 {
		t.Errorf("expected 2 components, got %d", res.Dim())
	}
	if res.Metrics["peak"] > 0.2+1e-9 {
		t.Errorf("damped pendulum exceeded its start angle: peak %f", res.Metrics["peak"])
	}
}

func TestLQRClosesLoop(t *testing.T) {
	cfg := config.GetPreset("pendulum", "lqr")

	res, err := newExperiment(t, cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if res.Inputs[0][0] >= 0 {
		t.Errorf("first control should push back toward zero, got %f", res.Inputs[0][0])
	}
	last, _ := res.Last()
	if math.Abs(last.Values[0]) > 1e-3 {
		t.Errorf("expected pendulum at rest, theta = %f", last.Values[0])
	}
	if res.Metrics["control_effort"] == 0 {
		t.Error("expected non-zero control effort")
	}
}

type exploding struct{}

func (exploding) Derive(x dynamo.State, _ dynamo.Control, _ float64) dynamo.State {
	return dynamo.State{x[0] * x[0] * 1e10}
}
func (exploding) StateDim() int   { return 1 }
func (exploding) ControlDim() int { return 0 }

func TestDivergenceStopsRun(t *testing.T) {
	r := NewRegistry()
	r.Register("boom", continuous("boom", func() dynamo.System { return exploding{} }))

	cfg := config.DefaultConfig()
	cfg.Model = "boom"
	cfg.Integrator = "euler"
	cfg.InitState = []float64{1}

	e, err := New(r, cfg)
	if err != nil {
		t.Fatal(err)
	}
	res, err := e.Run(context.Background())

	var simErr *dynamo.SimulationError
	if !errors.As(err, &simErr) {
		t.Fatalf("expected SimulationError, got %v", err)
	}
	if !errors.Is(err, dynamo.ErrInvalidState) {
		t.Error("expected error to wrap ErrInvalidState")
	}
	if len(res.Frames) != simErr.Step-1 {
		t.Errorf("expected %d good frames before divergence, got %d", simErr.Step-1, len(res.Frames))
	}
	if len(res.Inputs) != len(res.Frames) {
		t.Errorf("inputs (%d) and frames (%d) out of step", len(res.Inputs), len(res.Frames))
	}
}

type cancelAfter struct {
	n      int
	cancel context.CancelFunc
}

func (c *cancelAfter) Name() string { return "cancel_after" }
func (c *cancelAfter) Observe(_ dynamo.State, _ dynamo.Control, _ float64) {
	c.n--
	if c.n == 0 {
		c.cancel()
	}
}
func (c *cancelAfter) Value() float64 { return 0 }
func (c *cancelAfter) Reset()         {}

func TestCancelBetweenPulls(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.GetPreset("counter", "ones")
	e := newExperiment(t, cfg, WithMetrics(&cancelAfter{n: 10, cancel: cancel}))

	res, err := e.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(res.Frames) != 10 {
		t.Errorf("expected 10 frames before cancel, got %d", len(res.Frames))
	}
}

func TestCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := newExperiment(t, config.GetPreset("counter", "fib")).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(res.Frames) != 0 {
		t.Errorf("expected no frames, got %d", len(res.Frames))
	}
}

func TestLifeRun(t *testing.T) {
	cfg := config.GetPreset("life", "soup")
	cfg.Steps = 20

	res, err := newExperiment(t, cfg).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	last, _ := res.Last()
	if last.Grid == nil || last.Grid.Generation != 20 {
		t.Fatalf("expected grid at generation 20, got %+v", last.Grid)
	}
	if float64(last.Grid.Population()) != last.Values[0] {
		t.Errorf("population %d does not match value %f", last.Grid.Population(), last.Values[0])
	}
}

func TestStream(t *testing.T) {
	e := newExperiment(t, config.GetPreset("counter", "fib"))

	frames, err := e.Stream()
	if err != nil {
		t.Fatal(err)
	}

	var got []float64
	for f := range sim.Take(frames, 6) {
		got = append(got, f.Values[0])
	}
	if want := []float64{1, 2, 4, 7, 8, 9}; !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if _, err := e.Final(); !errors.Is(err, sim.ErrMoved) {
		t.Errorf("expected streamed model to be moved, got %v", err)
	}
}

func TestRunLogs(t *testing.T) {
	var buf bytes.Buffer
	e := newExperiment(t, config.GetPreset("counter", "fib"), WithLogger(logging.NewLogger("info", &buf)))

	if _, err := e.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "run started") || !strings.Contains(out, "run finished") {
		t.Errorf("missing run log lines: %q", out)
	}
	if strings.Contains(out, "msg=frame") {
		t.Error("frame lines should only appear at trace level")
	}
}
