package math

import (
	m "math"
)

const (
	TO_RADIANS = m.Pi / 180
	TO_DEGREES = 180 / m.Pi
)

func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Point is a planar track coordinate in metres.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func (p Point) DistanceTo(end Point) float64 {
	return Distance(p, end)
}

func (p Point) BearingTo(end Point) float64 {
	return Bearing(p, end)
}

func (p Point) Subtract(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

func (p Point) Scale(factor float64) Point {
	return Point{X: p.X * factor, Y: p.Y * factor}
}

func (p Point) Dot(other Point) float64 {
	return p.X*other.X + p.Y*other.Y
}

func (p Point) Equals(other Point) bool {
	return p.X == other.X && p.Y == other.Y
}

func (p Point) IsFinite() bool {
	return !m.IsNaN(p.X) && !m.IsNaN(p.Y) && !m.IsInf(p.X, 0) && !m.IsInf(p.Y, 0)
}

func Distance(a, b Point) float64 {
	return m.Hypot(b.X-a.X, b.Y-a.Y)
}

// Bearing returns the direction of the vector from -> to in degrees, 0 along
// +x and counter-clockwise positive.
func Bearing(from, to Point) float64 {
	return m.Atan2(to.Y-from.Y, to.X-from.X) * TO_DEGREES
}

func PointAtBearing(start Point, bearing float64, distance float64) Point {
	rad := bearing * TO_RADIANS
	return Point{
		X: start.X + distance*m.Cos(rad),
		Y: start.Y + distance*m.Sin(rad),
	}
}
