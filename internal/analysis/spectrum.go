package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"
)

// PowerSpectrum is |X_k|^2 / n of the mean-removed series for k < n/2.
func PowerSpectrum(data []float64) []float64 {
	n := len(data)
	if n < 2 {
		return nil
	}
	mean := stat.Mean(data, nil)
	centered := make([]float64, n)
	for i, v := range data {
		centered[i] = v - mean
	}
	x := fft.FFTReal(centered)
	ps := make([]float64, n/2)
	for i := range ps {
		a := cmplx.Abs(x[i])
		ps[i] = a * a / float64(n)
	}
	return ps
}

// DominantPeriod is the period of the strongest non-constant component of
// a series sampled every dt. It reports false for a flat series.
func DominantPeriod(data []float64, dt float64) (float64, bool) {
	ps := PowerSpectrum(data)
	best, k := 0.0, 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > best {
			best, k = ps[i], i
		}
	}
	if k == 0 || best < 1e-12 {
		return 0, false
	}
	return float64(len(data)) * dt / float64(k), true
}
