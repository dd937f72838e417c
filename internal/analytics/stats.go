// Package analytics computes all derived scores from normalized datasets.
// Every function here is pure: rows in, numbers out, no I/O and no clocks
// except where a timestamp is an explicit argument.
package analytics

import "math"

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Stdev returns the sample standard deviation (n-1 denominator), or 0 when
// fewer than two values are present.
func Stdev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := Mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)-1))
}

// CoV returns the coefficient of variation (stdev over mean), or 0 when the
// mean is not positive.
func CoV(xs []float64) float64 {
	m := Mean(xs)
	if m <= 0 {
		return 0
	}
	return Stdev(xs) / m
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Clamp01 bounds v to [0, 1].
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// tail returns the last n elements, or all of them when fewer exist.
func tail(xs []float64, n int) []float64 {
	if len(xs) <= n {
		return xs
	}
	return xs[len(xs)-n:]
}
