package experiment

import (
	"fmt"
	"maps"
	"slices"

	"github.com/san-kum/stepsim/internal/config"
	"github.com/san-kum/stepsim/internal/control"
	"github.com/san-kum/stepsim/internal/dynamo"
	"github.com/san-kum/stepsim/internal/integrators"
	"github.com/san-kum/stepsim/internal/metrics"
	"github.com/san-kum/stepsim/internal/models"
	"github.com/san-kum/stepsim/internal/physics"
	"github.com/san-kum/stepsim/pkg/sim"
)

// ModelFactory builds a fresh model from a run configuration. Discrete
// models ignore the integrator.
type ModelFactory func(cfg *config.Config, integ dynamo.Integrator) (*Model, error)

type defaultStater interface {
	DefaultState() dynamo.State
}

type Registry struct {
	models      map[string]ModelFactory
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		models:      make(map[string]ModelFactory),
		integrators: make(map[string]func() dynamo.Integrator),
	}

	r.models["pendulum"] = continuous("pendulum", func() dynamo.System { return physics.NewPendulum() })
	r.models["spring_mass"] = continuous("spring_mass", func() dynamo.System { return physics.NewSpringMass(1) })
	r.models["lorenz"] = continuous("lorenz", func() dynamo.System { return physics.NewLorenz() })
	r.models["vanderpol"] = continuous("vanderpol", func() dynamo.System { return physics.NewVanDerPol() })
	r.models["counter"] = newCounterModel
	r.models["life"] = newLifeModel

	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }
	r.integrators["leapfrog"] = func() dynamo.Integrator { return integrators.NewLeapfrog() }

	return r
}

// Register adds or replaces a model factory.
func (r *Registry) Register(name string, f ModelFactory) {
	r.models[name] = f
}

func (r *Registry) GetModel(cfg *config.Config) (*Model, error) {
	fn, ok := r.models[cfg.Model]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", cfg.Model)
	}
	integ, err := r.GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	return fn(cfg, integ)
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

// GetController returns nil for "none", meaning open-loop input only.
func (r *Registry) GetController(cfg *config.Config, m *Model) (dynamo.Controller, error) {
	if cfg.Controller == "" || cfg.Controller == "none" {
		return nil, nil
	}
	if m.System == nil {
		return nil, fmt.Errorf("controller %s needs a continuous model, %s is discrete", cfg.Controller, m.Name)
	}

	switch cfg.Controller {
	case "pid":
		p := cfg.ControllerParams
		return control.NewPID(p.Kp, p.Ki, p.Kd, p.Target), nil
	case "lqr":
		ctrl, ok := control.NewModelLQR(m.Name, m.System.StateDim())
		if !ok {
			return nil, fmt.Errorf("no lqr gains for model: %s", m.Name)
		}
		return ctrl, nil
	default:
		return nil, fmt.Errorf("unknown controller: %s", cfg.Controller)
	}
}

// ListModels returns the registered model names in sorted order.
func (r *Registry) ListModels() []string {
	return slices.Sorted(maps.Keys(r.models))
}

func (r *Registry) ListIntegrators() []string {
	return slices.Sorted(maps.Keys(r.integrators))
}

func (r *Registry) DefaultMetrics(m *Model) []metrics.Metric {
	ms := []metrics.Metric{
		metrics.NewStability(100.0),
		metrics.NewControlEffort(),
		metrics.NewPeak(),
	}
	if m.System != nil {
		ms = append(ms, metrics.NewEnergyDrift(m.System))
	}
	return ms
}

func continuous(name string, newSystem func() dynamo.System) ModelFactory {
	return func(cfg *config.Config, integ dynamo.Integrator) (*Model, error) {
		sys := newSystem()
		if len(cfg.Params) > 0 {
			c, ok := sys.(dynamo.Configurable)
			if !ok {
				return nil, fmt.Errorf("model %s has no tunable params", name)
			}
			for _, k := range slices.Sorted(maps.Keys(cfg.Params)) {
				if err := c.SetParam(k, cfg.Params[k]); err != nil {
					return nil, fmt.Errorf("model %s: %w", name, err)
				}
			}
		}

		x0 := dynamo.State(cfg.GetInitState())
		if x0 == nil {
			x0 = make(dynamo.State, sys.StateDim())
			if d, ok := sys.(defaultStater); ok {
				x0 = d.DefaultState()
			}
		}

		st, err := dynamo.NewStepper(sys, integ, x0, dynamo.Config{Dt: cfg.Dt, ValidateState: true})
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", name, err)
		}
		return &Model{
			Box:      sim.NewBox[Frame, []float64](stepperFrames{st}),
			Name:     name,
			InputDim: sys.ControlDim(),
			System:   sys,
		}, nil
	}
}

func newCounterModel(cfg *config.Config, _ dynamo.Integrator) (*Model, error) {
	start := 0
	if x0 := cfg.GetInitState(); len(x0) > 0 {
		start = int(x0[0])
	}
	return &Model{
		Box:      sim.NewBox[Frame, []float64](&counterFrames{c: models.NewCounter(start)}),
		Name:     "counter",
		InputDim: 1,
	}, nil
}

func newLifeModel(cfg *config.Config, _ dynamo.Integrator) (*Model, error) {
	l := models.NewLife(cfg.Grid.Width, cfg.Grid.Height)
	l.Seed(cfg.Seed, cfg.Grid.Density)
	return &Model{
		Box:      sim.NewBox[Frame, []float64](lifeFrames{l}),
		Name:     "life",
		InputDim: 2,
	}, nil
}
