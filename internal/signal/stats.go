package signal

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Center returns xs with its mean subtracted.
func Center(xs []float64) []float64 {
	out := make([]float64, len(xs))
	if len(xs) == 0 {
		return out
	}
	copy(out, xs)
	floats.AddConst(-stat.Mean(xs, nil), out)
	return out
}

// AbsDiff returns |xs[i+1] - xs[i]| for each consecutive pair.
func AbsDiff(xs []float64) []float64 {
	if len(xs) < 2 {
		return nil
	}
	out := make([]float64, len(xs)-1)
	for i := 1; i < len(xs); i++ {
		out[i-1] = math.Abs(xs[i] - xs[i-1])
	}
	return out
}

// FractionAbove returns the share of xs strictly greater than threshold.
func FractionAbove(xs []float64, threshold float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	n := 0
	for _, x := range xs {
		if x > threshold {
			n++
		}
	}
	return float64(n) / float64(len(xs))
}

// PopStdDev returns the population standard deviation of xs.
func PopStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return math.Sqrt(stat.PopVariance(xs, nil))
}

// ZeroCrossings counts sign changes between consecutive samples. Each
// sample maps to -1, 0 or +1 and every nonzero step between neighbours
// counts once, so passing through an exact zero is counted twice.
func ZeroCrossings(xs []float64) int {
	n := 0
	for i := 1; i < len(xs); i++ {
		if sign(xs[i]) != sign(xs[i-1]) {
			n++
		}
	}
	return n
}

func sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// Median returns the median of xs, averaging the two middle values for
// even lengths. It returns NaN for empty input.
func Median(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
