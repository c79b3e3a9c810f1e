package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/stepsim/internal/config"
	"github.com/san-kum/stepsim/internal/logging"
)

// options holds the flags shared by every command that runs a model.
type options struct {
	configFile string
	logLevel   string
	preset     string

	dt         float64
	steps      int
	seed       int64
	integrator string
	controller string
	mode       string
	initState  []float64

	kp, ki, kd, target float64

	input     string
	values    []float64
	amplitude float64
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:          "stepsim",
		Short:        "drive step-wise simulations as lazy state sequences",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level: trace, debug, info, warn, error")

	rootCmd.AddCommand(
		newRunCmd(opts),
		newPlotCmd(opts),
		newAnalyzeCmd(opts),
		newLiveCmd(opts),
		newExportCmd(opts),
		newEnsembleCmd(opts),
		newTuneCmd(opts),
		newModelsCmd(),
		newPresetsCmd(),
	)
	return rootCmd
}

func addRunFlags(cmd *cobra.Command, opts *options) {
	d := config.DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&opts.preset, "preset", "", "use preset configuration")
	f.Float64Var(&opts.dt, "dt", d.Dt, "timestep")
	f.IntVar(&opts.steps, "steps", d.Steps, "number of steps to pull")
	f.Int64Var(&opts.seed, "seed", d.Seed, "random seed")
	f.StringVar(&opts.integrator, "integrator", d.Integrator, "integrator: euler, rk4, leapfrog")
	f.StringVar(&opts.controller, "controller", d.Controller, "controller: none, pid, lqr")
	f.StringVar(&opts.mode, "mode", d.Mode, "iteration mode: borrow or own")
	f.Float64SliceVar(&opts.initState, "init", nil, "initial state, comma separated")
	f.Float64Var(&opts.kp, "kp", d.ControllerParams.Kp, "pid kp")
	f.Float64Var(&opts.ki, "ki", d.ControllerParams.Ki, "pid ki")
	f.Float64Var(&opts.kd, "kd", d.ControllerParams.Kd, "pid kd")
	f.Float64Var(&opts.target, "target", d.ControllerParams.Target, "pid target")
	f.StringVar(&opts.input, "input", d.Input.Kind, "open-loop input: none, constant, schedule, noise")
	f.Float64SliceVar(&opts.values, "values", nil, "input values for constant or schedule input")
	f.Float64Var(&opts.amplitude, "amplitude", 1.0, "noise input amplitude")
}

// resolveConfig layers the run configuration: defaults, then the preset,
// then the config file, then any flag set on the command line.
func resolveConfig(cmd *cobra.Command, args []string, opts *options) (*config.Config, error) {
	cfg := config.DefaultConfig()
	model := ""
	if len(args) > 0 {
		model = args[0]
	}

	if opts.preset != "" {
		if model == "" {
			return nil, fmt.Errorf("--preset needs a model argument")
		}
		p := config.GetPreset(model, opts.preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %s)", opts.preset, strings.Join(config.ListPresets(model), ", "))
		}
		cfg = p
	}

	if opts.configFile != "" {
		loaded, err := config.LoadInto(opts.configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if model != "" {
		cfg.Model = model
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = opts.dt
	}
	if flags.Changed("steps") {
		cfg.Steps = opts.steps
	}
	if flags.Changed("seed") {
		cfg.Seed = opts.seed
	}
	if flags.Changed("integrator") {
		cfg.Integrator = opts.integrator
	}
	if flags.Changed("controller") {
		cfg.Controller = opts.controller
	}
	if flags.Changed("mode") {
		cfg.Mode = opts.mode
	}
	if flags.Changed("init") {
		cfg.InitState = opts.initState
	}
	if flags.Changed("kp") {
		cfg.ControllerParams.Kp = opts.kp
	}
	if flags.Changed("ki") {
		cfg.ControllerParams.Ki = opts.ki
	}
	if flags.Changed("kd") {
		cfg.ControllerParams.Kd = opts.kd
	}
	if flags.Changed("target") {
		cfg.ControllerParams.Target = opts.target
	}
	if flags.Changed("input") {
		cfg.Input.Kind = opts.input
	}
	if flags.Changed("values") {
		cfg.Input.Values = opts.values
	}
	if flags.Changed("amplitude") {
		cfg.Input.Amplitude = opts.amplitude
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, opts *options) *slog.Logger {
	return logging.NewLogger(opts.logLevel, cmd.ErrOrStderr())
}
