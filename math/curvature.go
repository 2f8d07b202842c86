package math

import (
	m "math"
)

type Curvature struct {
	Curvature, ArcLength, Angle float64
	Pos                         Point
}

// CalculateCurvature fits a circle through a, b and c. Curvature is signed,
// positive when the path turns left at b.
func CalculateCurvature(a Point, b Point, c Point) Curvature {
	lengthA := a.DistanceTo(b)
	lengthB := a.DistanceTo(c)
	lengthC := b.DistanceTo(c)

	sp := (lengthA + lengthB + lengthC) / 2

	area := m.Sqrt(max(0, sp*(sp-lengthA)*(sp-lengthB)*(sp-lengthC)))

	lengthProd := lengthA * lengthB * lengthC
	if lengthProd == 0 || area == 0 {
		return Curvature{Pos: b}
	}

	res := Curvature{Pos: b}
	res.Curvature = (4 * area) / lengthProd
	radius := 1.0 / res.Curvature

	num := (m.Pow(radius, 2)*2 - m.Pow(lengthB, 2))
	den := (2 * m.Pow(radius, 2))
	res.Angle = m.Acos(max(-1, min(1, num/den)))

	res.ArcLength = radius * res.Angle

	if Turn(Bearing(a, b), Bearing(b, c)) < 0 {
		res.Curvature = -res.Curvature
	}

	return res
}
