package analysis

import "math"

// CriticalThreshold is the alpha at which the planar wave speed of the cubic
// kinetics reaches zero.
const CriticalThreshold = 0.5

// TheoreticalVelocity returns sqrt(2*D*k)*(0.5-alpha), the speed of a planar
// front for the cubic reaction term. It is negative above CriticalThreshold.
func TheoreticalVelocity(d, k, alpha float64) float64 {
	return math.Sqrt(2*d*k) * (CriticalThreshold - alpha)
}

// RelativeError returns |measured-expected|/|expected|, or |measured| when
// expected is zero.
func RelativeError(measured, expected float64) float64 {
	if expected == 0 {
		return math.Abs(measured)
	}
	return math.Abs(measured-expected) / math.Abs(expected)
}
