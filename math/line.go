package math

import (
	m "math"
)

// bearings within this many degrees are treated as the same direction
const BEARING_TOLERANCE = 1.0

const parallelEpsilon = 1e-12

type Line struct {
	Start, End Point
}

type LinePosition struct {
	Pos Point
	T   float64
}

func (l *Line) Length() float64 {
	return Distance(l.Start, l.End)
}

func (l *Line) Bearing() float64 {
	return Bearing(l.Start, l.End)
}

func (l *Line) NearestPosition(pos Point) LinePosition {
	AB := l.End.Subtract(l.Start)
	AP := pos.Subtract(l.Start)
	denom := AB.Dot(AB)
	if denom == 0 {
		return LinePosition{Pos: l.Start}
	}
	t := AP.Dot(AB) / denom

	t = max(0, min(1, t))
	closest := l.Start.Add(AB.Scale(t))
	return LinePosition{Pos: closest, T: t}
}

// LineIntersection intersects the infinite line through a1,a2 with the one
// through b1,b2. ok is false when the lines are parallel.
func LineIntersection(a1, a2, b1, b2 Point) (p Point, ok bool) {
	x1, y1, x2, y2 := a1.X, a1.Y, a2.X, a2.Y
	x3, y3, x4, y4 := b1.X, b1.Y, b2.X, b2.Y

	det := (x1-x2)*(y3-y4) - (y1-y2)*(x3-x4)
	if m.Abs(det) < parallelEpsilon {
		return Point{}, false
	}

	d1 := x1*y2 - y1*x2
	d2 := x3*y4 - y3*x4
	return Point{
		X: (d1*(x3-x4) - (x1-x2)*d2) / det,
		Y: (d1*(y3-y4) - (y1-y2)*d2) / det,
	}, true
}

// PointBetween reports whether p lies on the segment a->b by checking that
// a->p and p->b both point the same way as a->b. This is an approximation:
// points just past either end of a long segment can still pass.
func PointBetween(p, a, b Point) bool {
	whole := Bearing(a, b)
	if p.Equals(a) || p.Equals(b) {
		return true
	}
	return m.Abs(Turn(whole, Bearing(a, p))) <= BEARING_TOLERANCE &&
		m.Abs(Turn(whole, Bearing(p, b))) <= BEARING_TOLERANCE
}

// IsAhead reports whether target lies along bearing as seen from origin.
func IsAhead(origin Point, bearing float64, target Point) bool {
	if origin.Equals(target) {
		return false
	}
	return m.Abs(Turn(bearing, Bearing(origin, target))) <= BEARING_TOLERANCE
}
