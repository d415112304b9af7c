package domain

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// validValues returns a fresh slice holding the non-missing values.
func validValues(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// safeMean is the mean of the valid subset, NaN when empty.
func safeMean(values []float64) float64 {
	v, err := stats.Mean(validValues(values))
	if err != nil {
		return math.NaN()
	}
	return v
}

// safeMax is the maximum of the valid subset, NaN when empty.
func safeMax(values []float64) float64 {
	v, err := stats.Max(validValues(values))
	if err != nil {
		return math.NaN()
	}
	return v
}

// safeMin is the minimum of the valid subset, NaN when empty.
func safeMin(values []float64) float64 {
	v, err := stats.Min(validValues(values))
	if err != nil {
		return math.NaN()
	}
	return v
}

// safeSum is the sum of the valid subset, NaN when empty. Note the NaN (not
// zero) result for an all-missing year: zero rainfall and no rainfall data
// are different statements.
func safeSum(values []float64) float64 {
	valid := validValues(values)
	if len(valid) == 0 {
		return math.NaN()
	}
	v, err := stats.Sum(valid)
	if err != nil {
		return math.NaN()
	}
	return v
}

// quantile computes the q-th quantile (q in [0,1]) of the valid subset using
// linear interpolation between order statistics, matching the reference
// implementation's percentile method. NaN when no valid values exist.
func quantile(values []float64, q float64) float64 {
	valid := validValues(values)
	if len(valid) == 0 || q < 0 || q > 1 {
		return math.NaN()
	}
	sorted := make([]float64, len(valid))
	copy(sorted, valid)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}

	h := q * float64(len(sorted)-1)
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	if lo == hi {
		return sorted[lo]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// maxRollingSum returns the maximum sum over all windows of the given length
// that contain no missing values. Windows touching a missing day are
// discarded rather than partially summed. NaN when the series is shorter
// than the window or no complete window exists.
func maxRollingSum(values []float64, window int) float64 {
	if window <= 0 || len(values) < window {
		return math.NaN()
	}

	best := math.NaN()
	for i := 0; i+window <= len(values); i++ {
		sum := 0.0
		complete := true
		for _, v := range values[i : i+window] {
			if math.IsNaN(v) {
				complete = false
				break
			}
			sum += v
		}
		if !complete {
			continue
		}
		if math.IsNaN(best) || sum > best {
			best = sum
		}
	}
	return best
}

// roundTo rounds to the given number of decimals, passing NaN through.
func roundTo(v float64, decimals int) float64 {
	if math.IsNaN(v) {
		return v
	}
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}

// countValid returns the number of non-missing values.
func countValid(values []float64) int {
	n := 0
	for _, v := range values {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

// allMissing reports whether every value is missing.
func allMissing(values []float64) bool {
	return countValid(values) == 0
}
