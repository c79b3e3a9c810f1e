package config

import (
	"maps"
	"slices"
)

var Presets = map[string]map[string]*Config{
	"pendulum": {
		"small": preset(func(c *Config) {
			c.Model, c.Steps = "pendulum", 2000
			c.InitState = []float64{0.2, 0.0}
		}),
		"large": preset(func(c *Config) {
			c.Model, c.Steps = "pendulum", 2000
			c.InitState = []float64{2.5, 0.0}
		}),
		"lqr": preset(func(c *Config) {
			c.Model, c.Controller, c.Steps = "pendulum", "lqr", 1000
			c.InitState = []float64{0.8, 0.0}
		}),
	},
	"spring_mass": {
		"bounce": preset(func(c *Config) {
			c.Model, c.Steps = "spring_mass", 2000
			c.InitState = []float64{2.0, 0.0}
		}),
		"driven": preset(func(c *Config) {
			c.Model, c.Steps = "spring_mass", 2000
			c.Input = InputConfig{Kind: InputSchedule, Values: []float64{5, 5, 5, -5, -5, -5}}
		}),
		"pid": preset(func(c *Config) {
			c.Model, c.Controller, c.Steps = "spring_mass", "pid", 1500
			c.ControllerParams.Target = 0.5
		}),
	},
	"lorenz": {
		"butterfly": preset(func(c *Config) {
			c.Model, c.Dt, c.Steps = "lorenz", 0.005, 8000
		}),
		"noisy": preset(func(c *Config) {
			c.Model, c.Dt, c.Steps, c.Seed = "lorenz", 0.005, 8000, 7
			c.Input = InputConfig{Kind: InputNoise, Amplitude: 2.0}
		}),
	},
	"vanderpol": {
		"relax": preset(func(c *Config) {
			c.Model, c.Steps = "vanderpol", 3000
			c.Params = map[string]float64{"mu": 4.0}
		}),
		"forced": preset(func(c *Config) {
			c.Model, c.Steps = "vanderpol", 3000
			c.Input = InputConfig{Kind: InputConstant, Values: []float64{0.5}}
		}),
	},
	"counter": {
		"fib": preset(func(c *Config) {
			c.Model, c.Steps = "counter", 4
			c.Input = InputConfig{Kind: InputSchedule, Values: []float64{1, 1, 2, 3}}
		}),
		"ones": preset(func(c *Config) {
			c.Model, c.Steps, c.Mode = "counter", 100, ModeOwn
			c.Input = InputConfig{Kind: InputConstant, Values: []float64{1}}
		}),
	},
	"life": {
		"soup": preset(func(c *Config) {
			c.Model, c.Steps, c.Seed = "life", 200, 1
			c.Grid = GridConfig{Width: 48, Height: 24, Density: 0.35}
		}),
		"sparse": preset(func(c *Config) {
			c.Model, c.Steps, c.Seed = "life", 200, 3
			c.Grid = GridConfig{Width: 48, Height: 24, Density: 0.1}
		}),
	},
}

func preset(apply func(*Config)) *Config {
	c := DefaultConfig()
	apply(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil if there is none.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns the preset names for model in sorted order.
func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	return slices.Sorted(maps.Keys(modelPresets))
}
