package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/san-kum/phasependulum/internal/dynamo"
)

// PowerSpectrum returns the magnitude of the first half of the DFT.
func PowerSpectrum(data []float64) []float64 {
	spectrum := fft.FFTReal(data)
	ps := make([]float64, len(spectrum)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}

	return ps
}

// DominantPeriod estimates the main oscillation period of a series sampled
// every dt. The series is truncated to a power of two with its mean removed.
func DominantPeriod(series []float64, dt float64) (float64, error) {
	n := 1
	for n*2 <= len(series) {
		n *= 2
	}
	if n < 8 {
		return 0, fmt.Errorf("%w: need at least 8 samples, got %d", dynamo.ErrParameterBounds, len(series))
	}
	if !(dt > 0) {
		return 0, fmt.Errorf("%w: dt must be positive", dynamo.ErrParameterBounds)
	}

	data := make([]float64, n)
	mean := 0.0
	for _, v := range series[:n] {
		mean += v
	}
	mean /= float64(n)
	for i, v := range series[:n] {
		data[i] = v - mean
	}

	ps := PowerSpectrum(data)
	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	if ps[best] == 0 {
		return math.Inf(1), nil
	}
	return float64(n) * dt / float64(best), nil
}
