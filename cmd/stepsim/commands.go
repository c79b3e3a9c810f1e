package main

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/stepsim/internal/analysis"
	"github.com/san-kum/stepsim/internal/config"
	"github.com/san-kum/stepsim/internal/experiment"
	"github.com/san-kum/stepsim/internal/export"
	"github.com/san-kum/stepsim/internal/optim"
	"github.com/san-kum/stepsim/internal/viz"
)

// execute resolves the configuration and runs it to completion.
func execute(cmd *cobra.Command, args []string, opts *options) (*config.Config, *experiment.Result, error) {
	cfg, err := resolveConfig(cmd, args, opts)
	if err != nil {
		return nil, nil, err
	}
	exp, err := experiment.New(experiment.NewRegistry(), cfg, experiment.WithLogger(newLogger(cmd, opts)))
	if err != nil {
		return nil, nil, err
	}
	res, err := exp.Run(cmd.Context())
	return cfg, res, err
}

func newRunCmd(opts *options) *cobra.Command {
	var showFrames bool

	cmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run a simulation and print a summary",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			cfg, res, err := execute(cmd, args, opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if showFrames {
				printFrames(out, res)
			}
			fmt.Fprintf(out, "model: %s (%s mode)\n", cfg.Model, cfg.Mode)
			fmt.Fprintf(out, "completed in %v\n", time.Since(start).Round(time.Microsecond))
			fmt.Fprintf(out, "steps: %d\n", len(res.Frames))
			if last, ok := res.Last(); ok {
				fmt.Fprintf(out, "final: %s\n", formatValues(last.Values))
			}
			printMetrics(out, res)
			return nil
		},
	}
	addRunFlags(cmd, opts)
	cmd.Flags().BoolVar(&showFrames, "frames", false, "print every frame")
	return cmd
}

func newPlotCmd(opts *options) *cobra.Command {
	var component, height, width int

	cmd := &cobra.Command{
		Use:   "plot [model]",
		Short: "run a simulation and plot one state component",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, res, err := execute(cmd, args, opts)
			if err != nil {
				return err
			}
			if component < 0 || component >= res.Dim() {
				return fmt.Errorf("component %d out of range, model %s has %d", component, cfg.Model, res.Dim())
			}
			graph := asciigraph.Plot(res.Series(component),
				asciigraph.Height(height),
				asciigraph.Width(width),
				asciigraph.Caption(fmt.Sprintf("%s x%d", cfg.Model, component)),
			)
			fmt.Fprintln(cmd.OutOrStdout(), graph)
			return nil
		},
	}
	addRunFlags(cmd, opts)
	cmd.Flags().IntVar(&component, "component", 0, "state index to plot")
	cmd.Flags().IntVar(&height, "height", 15, "plot height")
	cmd.Flags().IntVar(&width, "width", 80, "plot width")
	return cmd
}

func newAnalyzeCmd(opts *options) *cobra.Command {
	var phase, lyapunov bool

	cmd := &cobra.Command{
		Use:   "analyze [model]",
		Short: "frequency, phase and chaos analysis of a run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, res, err := execute(cmd, args, opts)
			if err != nil {
				return err
			}
			if len(res.Frames) < 2 {
				return fmt.Errorf("no data")
			}
			out := cmd.OutOrStdout()

			data := res.Series(0)
			ps := analysis.PowerSpectrum(data)
			if len(ps) >= 8 {
				ps = ps[:len(ps)/4]
			}
			fmt.Fprintf(out, "frequency analysis: %s\n\n", cfg.Model)
			fmt.Fprintln(out, asciigraph.Plot(ps,
				asciigraph.Height(15),
				asciigraph.Width(80),
				asciigraph.Caption("power spectrum (x0)"),
			))
			fmt.Fprintln(out)

			freq := analysis.DominantFrequency(data, cfg.Dt)
			fmt.Fprintf(out, "dominant frequency: %.3f hz\n", freq)
			if freq > 0 {
				fmt.Fprintf(out, "period: %.3f s\n", 1.0/freq)
			}

			if phase && res.Dim() >= 2 {
				fmt.Fprintln(out, "\nphase portrait (x0, x1):")
				fmt.Fprint(out, analysis.PlotASCII(analysis.PhasePortrait(data, res.Series(1)), 60, 20))
			}
			if lyapunov {
				return printLyapunov(out, cfg, res)
			}
			return nil
		},
	}
	addRunFlags(cmd, opts)
	cmd.Flags().BoolVar(&phase, "phase", false, "draw the x0/x1 phase portrait")
	cmd.Flags().BoolVar(&lyapunov, "lyapunov", false, "estimate the largest Lyapunov exponent")
	return cmd
}

func printLyapunov(out io.Writer, cfg *config.Config, res *experiment.Result) error {
	reg := experiment.NewRegistry()
	m, err := reg.GetModel(cfg)
	if err != nil {
		return err
	}
	if m.System == nil {
		return fmt.Errorf("lyapunov exponent needs a continuous model, %s is discrete", cfg.Model)
	}
	integ, err := reg.GetIntegrator(cfg.Integrator)
	if err != nil {
		return err
	}

	lambda := analysis.LyapunovExponent(m.System, integ, res.Initial.Values, cfg.Dt, cfg.Steps, 1e-8)
	verdict := "regular"
	if lambda > 0.01 {
		verdict = "chaotic"
	}
	fmt.Fprintf(out, "\nlargest lyapunov exponent: %.4f (%s)\n", lambda, verdict)
	return nil
}

func newLiveCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "live [model]",
		Short: "watch a simulation in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, args, opts)
			if err != nil {
				return err
			}
			exp, err := experiment.New(experiment.NewRegistry(), cfg, experiment.WithLogger(newLogger(cmd, opts)))
			if err != nil {
				return err
			}
			frames, err := exp.Stream()
			if err != nil {
				return err
			}

			m := viz.NewModel(cfg.Model, frames, cfg.Steps)
			defer m.Close()

			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
	addRunFlags(cmd, opts)
	return cmd
}

func newExportCmd(opts *options) *cobra.Command {
	var format, outPath string
	var component int

	cmd := &cobra.Command{
		Use:   "export [model]",
		Short: "run a simulation and write it as csv, json or svg",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, res, err := execute(cmd, args, opts)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if outPath != "" && outPath != "-" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			switch format {
			case "csv":
				return export.WriteCSV(w, res)
			case "json":
				return export.WriteJSON(w, cfg, res)
			case "svg":
				return export.WriteSVG(w, res, component, 800, 400, "#00ff88")
			default:
				return fmt.Errorf("unknown format: %s (csv, json, svg)", format)
			}
		},
	}
	addRunFlags(cmd, opts)
	cmd.Flags().StringVar(&format, "format", "csv", "output format: csv, json, svg")
	cmd.Flags().StringVarP(&outPath, "out", "o", "-", "output file, - for stdout")
	cmd.Flags().IntVar(&component, "component", 0, "state index for svg")
	return cmd
}

func newEnsembleCmd(opts *options) *cobra.Command {
	var runs, workers int

	cmd := &cobra.Command{
		Use:   "ensemble [model]",
		Short: "run a configuration across consecutive seeds",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, args, opts)
			if err != nil {
				return err
			}
			ens := experiment.NewEnsemble(experiment.NewRegistry(), cfg, runs, experiment.WithLogger(newLogger(cmd, opts)))
			ens.SetWorkers(workers)

			start := time.Now()
			results, err := ens.Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ensemble: %s, %d runs in %v\n\n", cfg.Model, runs, time.Since(start).Round(time.Millisecond))
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SEED\tSTEPS\tFINAL")
			for i, res := range results {
				final := "-"
				if last, ok := res.Last(); ok {
					final = formatValues(last.Values)
				}
				fmt.Fprintf(w, "%d\t%d\t%s\n", cfg.Seed+int64(i), len(res.Frames), final)
			}
			return w.Flush()
		},
	}
	addRunFlags(cmd, opts)
	cmd.Flags().IntVar(&runs, "runs", 8, "number of runs")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs, 0 for GOMAXPROCS")
	return cmd
}

func newTuneCmd(opts *options) *cobra.Command {
	var axes []string
	var metric string

	cmd := &cobra.Command{
		Use:   "tune [model]",
		Short: "grid search parameters to minimise a metric",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, args, opts)
			if err != nil {
				return err
			}
			parsed := make([]optim.Axis, 0, len(axes))
			for _, a := range axes {
				axis, err := parseAxis(a)
				if err != nil {
					return err
				}
				parsed = append(parsed, axis)
			}
			if len(parsed) == 0 {
				return fmt.Errorf("at least one --axis is required")
			}

			g := optim.NewGridSearch(experiment.NewRegistry(), cfg, parsed...)
			g.SetLogger(newLogger(cmd, opts))
			best, points, err := g.Search(cmd.Context(), metric)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "evaluated %d points\n", len(points))
			fmt.Fprintf(out, "best %s: %.6f\n", metric, best.Value)
			for _, name := range slices.Sorted(maps.Keys(best.Params)) {
				fmt.Fprintf(out, "  %s = %g\n", name, best.Params[name])
			}
			return nil
		},
	}
	addRunFlags(cmd, opts)
	cmd.Flags().StringArrayVar(&axes, "axis", nil, "searched parameter as name=v1,v2,... (repeatable)")
	cmd.Flags().StringVar(&metric, "metric", "control_effort", "metric to minimise")
	return cmd
}

// parseAxis reads "name=v1,v2,...".
func parseAxis(s string) (optim.Axis, error) {
	name, list, ok := strings.Cut(s, "=")
	if !ok || name == "" || list == "" {
		return optim.Axis{}, fmt.Errorf("invalid axis %q, want name=v1,v2", s)
	}
	axis := optim.Axis{Name: name}
	for _, field := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return optim.Axis{}, fmt.Errorf("axis %s: %w", name, err)
		}
		axis.Values = append(axis.Values, v)
	}
	return axis, nil
}

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "list available models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := experiment.NewRegistry()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MODEL\tPRESETS")
			for _, name := range reg.ListModels() {
				fmt.Fprintf(w, "%s\t%s\n", name, strings.Join(config.ListPresets(name), ", "))
			}
			fmt.Fprintf(w, "\nintegrators: %s\n", strings.Join(reg.ListIntegrators(), ", "))
			return w.Flush()
		},
	}
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Fprintf(out, "no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Fprintf(out, "presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Fprintf(out, "  %s\n", p)
			}
			return nil
		},
	}
}

func printFrames(out io.Writer, res *experiment.Result) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tTIME\tSTATE\tINPUT")
	for i, f := range res.Frames {
		var u []float64
		if i < len(res.Inputs) {
			u = res.Inputs[i]
		}
		fmt.Fprintf(w, "%d\t%.4f\t%s\t%s\n", f.Step, f.Time, formatValues(f.Values), formatValues(u))
	}
	w.Flush()
}

func printMetrics(out io.Writer, res *experiment.Result) {
	if len(res.Metrics) == 0 {
		return
	}
	fmt.Fprintln(out, "\nmetrics:")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, name := range slices.Sorted(maps.Keys(res.Metrics)) {
		fmt.Fprintf(w, "  %s\t%.6f\n", name, res.Metrics[name])
	}
	w.Flush()
}

func formatValues(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = fmt.Sprintf("%.4g", v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
