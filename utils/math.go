package utils

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// DefaultEpsilon is the tolerance used for geometric comparisons that would otherwise be
// exact floating point equality.
const DefaultEpsilon = 1e-9

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// ModAngDeg normalizes an angle in degrees into [0, 360).
func ModAngDeg(ang float64) float64 {
	return math.Mod(math.Mod(ang, 360)+360, 360)
}

// Float64AlmostEqual reports whether a and b differ by no more than epsilon.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return scalar.EqualWithinAbs(a, b, epsilon)
}

// IsFinite is false for NaN and both infinities.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
