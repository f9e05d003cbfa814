package analysis

import "math"

// DefaultWindowSeconds is the rolling window used for normalized power and pace
const DefaultWindowSeconds = 30.0

// NormalizedValue calculates the normalized value of a sample stream.
//
// Each sample is smoothed with the mean of a trailing window whose span
// (latest minus earliest timestamp) never exceeds windowSeconds. The result is
// the 4th root of the mean of the 4th powers of the smoothed series, which
// weights bursts of high intensity more heavily than a plain average.
//
// times and values are paired by index; if their lengths differ the shorter
// one wins. Streams shorter than one window are still normalized.
func NormalizedValue(times, values []float64, windowSeconds float64) float64 {
	n := min(len(times), len(values))
	if n == 0 {
		return 0
	}
	if windowSeconds <= 0 {
		windowSeconds = DefaultWindowSeconds
	}

	var (
		start     int
		windowSum float64
		fourthSum float64
		allZero   = true
	)

	for i := 0; i < n; i++ {
		if values[i] != 0 {
			allZero = false
		}
		windowSum += values[i]

		// Drop samples that push the window span past its limit
		for times[i]-times[start] > windowSeconds {
			windowSum -= values[start]
			start++
		}

		mean := windowSum / float64(i-start+1)
		fourthSum += math.Pow(mean, 4)
	}

	if allZero {
		return 0
	}

	return math.Pow(fourthSum/float64(n), 0.25)
}
