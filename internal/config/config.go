package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt      = 0.01
	DefaultSteps   = 1000
	DefaultKp      = 10.0
	DefaultKi      = 0.1
	DefaultKd      = 5.0
	DefaultGrid    = 32
	DefaultDensity = 0.3
)

// Iteration modes. Borrow keeps the model usable after the run, own hands
// it to the sequence.
const (
	ModeBorrow = "borrow"
	ModeOwn    = "own"
)

// Input kinds.
const (
	InputNone     = "none"
	InputConstant = "constant"
	InputSchedule = "schedule"
	InputNoise    = "noise"
)

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Model            string             `yaml:"model"`
	Integrator       string             `yaml:"integrator"`
	Controller       string             `yaml:"controller"`
	Mode             string             `yaml:"mode"`
	Dt               float64            `yaml:"dt"`
	Steps            int                `yaml:"steps"`
	Seed             int64              `yaml:"seed"`
	InitState        []float64          `yaml:"init_state,omitempty"`
	Params           map[string]float64 `yaml:"params,omitempty"`
	Input            InputConfig        `yaml:"input"`
	ControllerParams ControllerConfig   `yaml:"controller_params"`
	Grid             GridConfig         `yaml:"grid"`
}

// InputConfig selects the open-loop input generator. For the counter model
// Values are the integers fed in; for ODE models they drive the first
// control component.
type InputConfig struct {
	Kind      string    `yaml:"kind"`
	Values    []float64 `yaml:"values,omitempty"`
	Amplitude float64   `yaml:"amplitude,omitempty"`
}

type ControllerConfig struct {
	Kp     float64 `yaml:"kp"`
	Ki     float64 `yaml:"ki"`
	Kd     float64 `yaml:"kd"`
	Target float64 `yaml:"target"`
}

type GridConfig struct {
	Width   int     `yaml:"width"`
	Height  int     `yaml:"height"`
	Density float64 `yaml:"density"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:      "pendulum",
		Integrator: "rk4",
		Controller: "none",
		Mode:       ModeBorrow,
		Dt:         DefaultDt,
		Steps:      DefaultSteps,
		Input:      InputConfig{Kind: InputNone},
		ControllerParams: ControllerConfig{
			Kp: DefaultKp,
			Ki: DefaultKi,
			Kd: DefaultKd,
		},
		Grid: GridConfig{
			Width:   DefaultGrid,
			Height:  DefaultGrid,
			Density: DefaultDensity,
		},
	}
}

// Load reads a YAML file on top of DefaultConfig, so omitted keys keep
// their defaults.
func Load(path string) (*Config, error) {
	return LoadInto(path, DefaultConfig())
}

// LoadInto reads a YAML file on top of a copy of base and validates the
// result. base is not modified.
func LoadInto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the settings that do not depend on which models exist.
func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("%w: model is required", ErrInvalidConfig)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfig, c.Dt)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("%w: steps must be positive, got %d", ErrInvalidConfig, c.Steps)
	}
	switch c.Mode {
	case ModeBorrow, ModeOwn:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, c.Mode)
	}
	switch c.Input.Kind {
	case "", InputNone, InputConstant, InputSchedule, InputNoise:
	default:
		return fmt.Errorf("%w: unknown input kind %q", ErrInvalidConfig, c.Input.Kind)
	}
	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		return fmt.Errorf("%w: grid must be at least 1x1, got %dx%d", ErrInvalidConfig, c.Grid.Width, c.Grid.Height)
	}
	return nil
}

// GetInitState returns a copy of the configured initial state, or nil to
// use the model's default.
func (c *Config) GetInitState() []float64 {
	if len(c.InitState) == 0 {
		return nil
	}
	return append([]float64(nil), c.InitState...)
}

func (c *Config) GetControllerParams() map[string]float64 {
	return map[string]float64{
		"kp":     c.ControllerParams.Kp,
		"ki":     c.ControllerParams.Ki,
		"kd":     c.ControllerParams.Kd,
		"target": c.ControllerParams.Target,
	}
}

// Clone returns a copy that shares no slices or maps with c.
func (c *Config) Clone() *Config {
	cp := *c
	cp.InitState = slices.Clone(c.InitState)
	cp.Input.Values = slices.Clone(c.Input.Values)
	cp.Params = maps.Clone(c.Params)
	return &cp
}
