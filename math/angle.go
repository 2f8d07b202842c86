package math

import (
	m "math"
)

// NormalizeAngle maps any angle in degrees into (-180, 180].
func NormalizeAngle(angle float64) float64 {
	a := m.Mod(angle, 360)
	if a <= -180 {
		a += 360
	} else if a > 180 {
		a -= 360
	}
	return a
}

// Turn is the signed shortest rotation from current to required.
func Turn(current, required float64) float64 {
	return NormalizeAngle(required - current)
}

// Bisect returns the heading halfway between a and b along the shorter arc.
func Bisect(a, b float64) float64 {
	return NormalizeAngle(a + Turn(a, b)/2)
}
