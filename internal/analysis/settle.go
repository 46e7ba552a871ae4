package analysis

import "math"

// SettlingTime returns the first time after which every sample stays within
// tol of the final value. ok is false when the series only settles on its
// last sample, or is empty.
func SettlingTime(times, values []float64, tol float64) (t float64, ok bool) {
	n := min(len(times), len(values))
	if n == 0 {
		return 0, false
	}

	final := values[n-1]
	i := n - 1
	for i > 0 && math.Abs(values[i-1]-final) <= tol {
		i--
	}
	return times[i], i < n-1
}
