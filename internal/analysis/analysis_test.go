package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/stepsim/internal/dynamo"
	"github.com/san-kum/stepsim/internal/integrators"
	"github.com/san-kum/stepsim/internal/physics"
)

func TestFFTImpulse(t *testing.T) {
	out := FFT([]float64{1, 0, 0, 0})
	for i, c := range out {
		if math.Abs(real(c)-1) > 1e-12 || math.Abs(imag(c)) > 1e-12 {
			t.Errorf("bin %d = %v, want 1", i, c)
		}
	}
}

func TestFFTAnyLength(t *testing.T) {
	out := FFT([]float64{1, 0, 0, 0, 0, 0})
	if len(out) != 6 {
		t.Fatalf("expected 6 bins, got %d", len(out))
	}
	for i, c := range out {
		if math.Abs(real(c)-1) > 1e-9 || math.Abs(imag(c)) > 1e-9 {
			t.Errorf("bin %d = %v, want 1", i, c)
		}
	}
}

func TestPowerSpectrumPads(t *testing.T) {
	if got := len(PowerSpectrum(make([]float64, 100))); got != 64 {
		t.Errorf("expected 64 bins for 100 samples padded to 128, got %d", got)
	}
}

func TestDominantFrequency(t *testing.T) {
	tests := []struct {
		name string
		freq float64
		n    int
		dt   float64
	}{
		{"2Hz exact bins", 2.0, 512, 1.0 / 64},
		{"5Hz padded", 5.0, 1000, 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples := make([]float64, tt.n)
			for i := range samples {
				samples[i] = 3 + math.Sin(2*math.Pi*tt.freq*float64(i)*tt.dt)
			}

			got := DominantFrequency(samples, tt.dt)
			resolution := 1 / (float64(len(padPow2(samples))) * tt.dt)
			if math.Abs(got-tt.freq) > resolution {
				t.Errorf("got %f Hz, want %f ± %f", got, tt.freq, resolution)
			}
		})
	}
}

func TestDominantFrequencyFlat(t *testing.T) {
	if got := DominantFrequency([]float64{2, 2, 2, 2}, 0.1); got != 0 {
		t.Errorf("flat signal should have no dominant frequency, got %f", got)
	}
}

func TestLyapunovLorenzIsChaotic(t *testing.T) {
	lambda := LyapunovExponent(physics.NewLorenz(), integrators.NewRK4(), dynamo.State{1, 1, 1}, 0.01, 5000, 1e-8)
	if lambda < 0.5 || lambda > 1.5 {
		t.Errorf("expected largest exponent near 0.9, got %f", lambda)
	}
}

func TestLyapunovDampedPendulumIsStable(t *testing.T) {
	lambda := LyapunovExponent(physics.NewPendulum(), integrators.NewRK4(), dynamo.State{0.3, 0}, 0.01, 3000, 1e-8)
	if lambda >= 0 {
		t.Errorf("expected negative exponent for a damped pendulum, got %f", lambda)
	}
}

func TestPhasePortrait(t *testing.T) {
	points := PhasePortrait([]float64{1, 2, math.NaN()}, []float64{3, 4, 5, 6})
	if len(points) != 2 || points[1] != (Point{2, 4}) {
		t.Errorf("unexpected points %v", points)
	}
}

func TestPlotASCII(t *testing.T) {
	var points []Point
	for i := 0; i < 100; i++ {
		a := 2 * math.Pi * float64(i) / 100
		points = append(points, Point{math.Cos(a), math.Sin(a)})
	}

	out := PlotASCII(points, 40, 20)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 20 {
		t.Fatalf("expected 20 rows, got %d", len(lines))
	}
	if !strings.Contains(out, "•") || !strings.Contains(out, "│") || !strings.Contains(out, "─") {
		t.Errorf("expected points and both axes:\n%s", out)
	}
	if PlotASCII(nil, 40, 20) != "" {
		t.Error("expected empty plot for no points")
	}
}
