package analysis

import (
	"errors"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

var ErrTooShort = errors.New("series too short to analyze")

type Spectrum struct {
	Freqs []float64
	Power []float64
}

// SampleRate is the mean number of samples per second in times.
func SampleRate(times []float64) float64 {
	n := len(times)
	if n < 2 || times[n-1] <= times[0] {
		return 0
	}
	return float64(n-1) / (times[n-1] - times[0])
}

// PowerSpectrum returns the one-sided magnitude spectrum of series. The mean
// is removed and a Hann window applied before the transform.
func PowerSpectrum(series []float64, sampleRate float64) (*Spectrum, error) {
	n := len(series)
	if n < 4 {
		return nil, ErrTooShort
	}
	if sampleRate <= 0 {
		return nil, errors.New("sample rate must be positive")
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)

	x := make([]float64, n)
	for i, v := range series {
		x[i] = v - mean
	}
	window.Apply(x, window.Hann)

	coeffs := fft.FFTReal(x)
	half := n/2 + 1
	s := &Spectrum{
		Freqs: make([]float64, half),
		Power: make([]float64, half),
	}
	for k := 0; k < half; k++ {
		s.Freqs[k] = float64(k) * sampleRate / float64(n)
		s.Power[k] = cmplx.Abs(coeffs[k]) / float64(n)
	}
	return s, nil
}

// Dominant returns the strongest non-zero frequency.
func (s *Spectrum) Dominant() (freq, power float64) {
	for k := 1; k < len(s.Power); k++ {
		if s.Power[k] > power {
			freq, power = s.Freqs[k], s.Power[k]
		}
	}
	return freq, power
}
