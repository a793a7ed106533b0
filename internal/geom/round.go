package geom

import "math"

// Epsilon is the guard threshold for near-zero denominators and degenerate
// directions.
const Epsilon = 1e-9

// roundPrecision fixes the decimal precision used by RoundN. All chained
// distance comparisons in the connection pipeline go through RoundN so that
// equal inputs give bit-identical results regardless of evaluation order.
const roundPrecision = 1e6

// RoundN rounds x to the pipeline's fixed decimal precision.
func RoundN(x float64) float64 {
	return math.Round(x*roundPrecision) / roundPrecision
}

// FuzzyEqual reports whether a and b are equal up to a relative epsilon,
// falling back to an absolute comparison near zero.
func FuzzyEqual(a, b float64) bool {
	const eps = 1e-8
	d := math.Abs(a - b)
	return d < eps*math.Abs(a) || d < eps
}

// Mix linearly interpolates between a (t=0) and b (t=1).
func Mix(a, b, t float64) float64 {
	return a*(1.0-t) + b*t
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
