package math

import "math"

func Abs[T float64 | float32](val T) float64 {
	return math.Abs(float64(val))
}

// AbsMax returns whichever of a and b has the larger magnitude, keeping its sign.
func AbsMax(a, b float64) float64 {
	if math.Abs(b) > math.Abs(a) {
		return b
	}
	return a
}
