package analysis

import (
	"errors"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"
)

var ErrTooShort = errors.New("need at least 4 uniformly spaced samples")

// PowerSpectrum returns the magnitude of each non-negative frequency bin of
// data after removing its mean.
func PowerSpectrum(data []float64) []float64 {
	mean := stat.Mean(data, nil)
	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}
	coeff := fft.FFTReal(centered)
	ps := make([]float64, len(coeff)/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(coeff[i])
	}
	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-zero bin
// of data sampled at times.
func DominantFrequency(times, data []float64) (float64, error) {
	if len(data) < 4 || len(times) != len(data) {
		return 0, ErrTooShort
	}
	dt := times[1] - times[0]
	if dt <= 0 {
		return 0, ErrTooShort
	}

	ps := PowerSpectrum(data)
	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	return float64(best) / (float64(len(data)) * dt), nil
}
