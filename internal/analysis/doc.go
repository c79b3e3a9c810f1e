// Package analysis characterizes recorded runs and dynamical systems.
//
//   - [FFT], [PowerSpectrum], [DominantFrequency]: spectral analysis of a
//     sampled series
//   - [LyapunovExponent]: largest Lyapunov exponent by renormalized
//     trajectory separation
//   - [PhasePortrait], [PlotASCII]: 2D phase space trajectories
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	lambda := analysis.LyapunovExponent(dyn, integ, x0, 0.01, 5000, 1e-8)
//	if lambda > 0 {
//	    // System is chaotic
//	}
package analysis
