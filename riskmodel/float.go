package riskmodel

import "math"

// equalWithinULP reports whether a and b are equal or adjacent in the
// float64 number line.
func equalWithinULP(a, b float64) bool {
	if a == b {
		return true
	}

	return math.Nextafter(a, b) == b
}

// equalWithinEpsilon reports whether a and b differ by at most eps.
func equalWithinEpsilon(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}
