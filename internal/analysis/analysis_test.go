package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampled(rate, seconds float64, f func(t float64) float64) (times, values []float64) {
	n := int(rate * seconds)
	for i := 0; i < n; i++ {
		t := float64(i) / rate
		times = append(times, t)
		values = append(values, f(t))
	}
	return times, values
}

func TestSampleRate(t *testing.T) {
	times, _ := sampled(60, 2, func(float64) float64 { return 0 })
	assert.InDelta(t, 60, SampleRate(times), 1e-9)
	assert.Zero(t, SampleRate([]float64{1}))
	assert.Zero(t, SampleRate([]float64{1, 1}))
}

func TestPowerSpectrumDominant(t *testing.T) {
	for _, freq := range []float64{0.5, 2, 7} {
		times, values := sampled(60, 8, func(t float64) float64 {
			return 3 + math.Sin(2*math.Pi*freq*t)
		})

		s, err := PowerSpectrum(values, SampleRate(times))
		require.NoError(t, err)
		assert.Len(t, s.Freqs, len(values)/2+1)

		got, power := s.Dominant()
		// bin width is 1/8 Hz
		assert.InDelta(t, freq, got, 0.13, "freq %g", freq)
		assert.Greater(t, power, 0.0)
	}
}

func TestPowerSpectrumConstant(t *testing.T) {
	s, err := PowerSpectrum([]float64{2, 2, 2, 2, 2, 2, 2, 2}, 10)
	require.NoError(t, err)
	for _, p := range s.Power {
		assert.InDelta(t, 0, p, 1e-12)
	}
}

func TestPowerSpectrumErrors(t *testing.T) {
	_, err := PowerSpectrum([]float64{1, 2}, 60)
	assert.ErrorIs(t, err, ErrTooShort)

	_, err = PowerSpectrum([]float64{1, 2, 3, 4}, 0)
	assert.Error(t, err)
}

func TestSettlingTime(t *testing.T) {
	times, values := sampled(10, 10, func(t float64) float64 {
		return math.Exp(-t)
	})

	at, ok := SettlingTime(times, values, 0.01)
	require.True(t, ok)
	// exp(-t) - exp(-9.9) < 0.01 from t = ln(100) ~ 4.6
	assert.InDelta(t, 4.7, at, 0.11)

	_, ok = SettlingTime([]float64{0, 1, 2}, []float64{0, 5, 10}, 0.1)
	assert.False(t, ok, "still moving at the end")

	_, ok = SettlingTime(nil, nil, 1)
	assert.False(t, ok)
}
