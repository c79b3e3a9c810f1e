package analysis

import (
	"math/bits"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// FFT returns the discrete Fourier transform of data. Any length works;
// powers of two take the radix-2 path.
func FFT(data []float64) []complex128 {
	return fft.FFTReal(data)
}

// PowerSpectrum returns the magnitude of the first half of the spectrum,
// zero-padding data to the next power of two.
func PowerSpectrum(data []float64) []float64 {
	spectrum := FFT(padPow2(data))
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC
// component of samples taken every dt, or 0 if there is none.
func DominantFrequency(samples []float64, dt float64) float64 {
	if len(samples) < 2 || dt <= 0 {
		return 0
	}

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(len(samples))

	centered := make([]float64, len(samples))
	for i, v := range samples {
		centered[i] = v - mean
	}

	ps := PowerSpectrum(centered)
	best := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}
	if best == 0 {
		return 0
	}
	n := 2 * len(ps)
	return float64(best) / (float64(n) * dt)
}

func padPow2(data []float64) []float64 {
	n := len(data)
	if n <= 1 || n&(n-1) == 0 {
		return data
	}
	padded := make([]float64, 1<<bits.Len(uint(n)))
	copy(padded, data)
	return padded
}
