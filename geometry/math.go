// Package geometry provides the 2D primitives shared by the routers: points,
// directed line segments and axis-aligned rectangles.
//
// The y axis grows downward (screen coordinates). Angles returned by Theta are
// measured from the positive x axis and grow counter-clockwise as seen on
// screen.
package geometry

import (
	"math"
)

// roundFactors holds the multipliers for the common precisions.
var roundFactors = [...]float64{1, 10, 100, 1000}

// Round rounds v to the given number of decimal digits, halves rounding up.
func Round(v float64, precision int) float64 {
	f := roundFactor(precision)
	return roundHalfUp(v*f) / f
}

func roundFactor(precision int) float64 {
	if precision <= 0 {
		return 1
	}
	if precision < len(roundFactors) {
		return roundFactors[precision]
	}
	return math.Pow(10, float64(precision))
}

// roundHalfUp rounds to the nearest integer, ties toward +Inf.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

// Quantize scales v by 10^precision and rounds it to an integer.
func Quantize(v float64, precision int) int64 {
	return int64(roundHalfUp(v * roundFactor(precision)))
}

// SnapToGrid returns the multiple of gridSize nearest to v.
func SnapToGrid(v, gridSize float64) float64 {
	return gridSize * roundHalfUp(v/gridSize)
}

// NormalizeAngle maps an angle in degrees into [0, 360).
func NormalizeAngle(angle float64) float64 {
	a := math.Mod(angle, 360)
	if angle < 0 {
		a += 360
	}
	return a
}

// ToRad converts degrees to radians.
func ToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// ToDeg converts radians to degrees, reduced modulo 360.
func ToDeg(rad float64) float64 {
	return math.Mod(180*rad/math.Pi, 360)
}
