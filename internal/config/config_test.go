package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model != "pendulum" {
		t.Errorf("expected model pendulum, got %s", cfg.Model)
	}
	if cfg.Mode != ModeBorrow {
		t.Errorf("expected borrow mode, got %s", cfg.Mode)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no model", func(c *Config) { c.Model = "" }},
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"zero steps", func(c *Config) { c.Steps = 0 }},
		{"bad mode", func(c *Config) { c.Mode = "lend" }},
		{"bad input", func(c *Config) { c.Input.Kind = "sine" }},
		{"empty grid", func(c *Config) { c.Grid.Width = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := GetPreset("counter", "fib")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Model != "counter" || loaded.Steps != 4 {
		t.Errorf("unexpected config: %+v", loaded)
	}
	if !slices.Equal(loaded.Input.Values, []float64{1, 1, 2, 3}) {
		t.Errorf("input values = %v", loaded.Input.Values)
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("model: lorenz\nsteps: 50\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Model != "lorenz" || cfg.Steps != 50 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Dt != DefaultDt || cfg.Integrator != "rk4" {
		t.Errorf("defaults lost: dt=%g integrator=%s", cfg.Dt, cfg.Integrator)
	}
}

func TestLoadIntoLayersOnBase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mode.yaml")
	if err := os.WriteFile(path, []byte("mode: own\n"), 0644); err != nil {
		t.Fatal(err)
	}

	base := GetPreset("counter", "fib")
	cfg, err := LoadInto(path, base)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Mode != ModeOwn {
		t.Errorf("file value not applied: mode=%s", cfg.Mode)
	}
	if cfg.Model != "counter" || cfg.Steps != 4 || !slices.Equal(cfg.Input.Values, []float64{1, 1, 2, 3}) {
		t.Errorf("base values lost: %+v", cfg)
	}
	if base.Mode != ModeBorrow {
		t.Error("LoadInto modified its base")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("dt: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("pendulum", "small")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.InitState[0] != 0.2 {
		t.Errorf("expected theta 0.2, got %f", cfg.InitState[0])
	}

	cfg.InitState[0] = 9
	if GetPreset("pendulum", "small").InitState[0] != 0.2 {
		t.Error("modifying a returned preset changed the table")
	}
}

func TestGetPresetNotFound(t *testing.T) {
	if GetPreset("pendulum", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "small") != nil {
		t.Error("expected nil for nonexistent model")
	}
}

func TestPresetsAreValid(t *testing.T) {
	for model, presets := range Presets {
		for name, cfg := range presets {
			if err := cfg.Validate(); err != nil {
				t.Errorf("%s/%s: %v", model, name, err)
			}
			if cfg.Model != model {
				t.Errorf("%s/%s: model field is %q", model, name, cfg.Model)
			}
		}
	}
}

func TestListPresets(t *testing.T) {
	got := ListPresets("pendulum")
	want := []string{"large", "lqr", "small"}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent model")
	}
}

func TestGetInitState(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.GetInitState() != nil {
		t.Error("expected nil init state by default")
	}

	cfg.InitState = []float64{1, 2}
	got := cfg.GetInitState()
	got[0] = 5
	if cfg.InitState[0] != 1 {
		t.Error("GetInitState should return a copy")
	}
}

func TestClone(t *testing.T) {
	cfg := GetPreset("counter", "fib")
	cp := cfg.Clone()
	cp.Input.Values[0] = 99
	cp.Seed++

	if cfg.Input.Values[0] != 1 || cfg.Seed == cp.Seed {
		t.Errorf("clone shares state with original: %+v", cfg)
	}
}
