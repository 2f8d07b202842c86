package math

import (
	m "math"
)

type Box struct {
	MinPos Point
	MaxPos Point
}

// BoundsOf returns the smallest box holding every point.
func BoundsOf(points []Point) Box {
	b := Box{
		MinPos: NewPoint(m.Inf(1), m.Inf(1)),
		MaxPos: NewPoint(m.Inf(-1), m.Inf(-1)),
	}
	for _, p := range points {
		b.MinPos.X = min(b.MinPos.X, p.X)
		b.MinPos.Y = min(b.MinPos.Y, p.Y)
		b.MaxPos.X = max(b.MaxPos.X, p.X)
		b.MaxPos.Y = max(b.MaxPos.Y, p.Y)
	}
	return b
}

// Overlap grows the box by overlap on every side.
func (b *Box) Overlap(overlap float64) Box {
	return Box{
		MinPos: NewPoint(b.MinPos.X-overlap, b.MinPos.Y-overlap),
		MaxPos: NewPoint(b.MaxPos.X+overlap, b.MaxPos.Y+overlap),
	}
}

func (b *Box) Width() float64 {
	return b.MaxPos.X - b.MinPos.X
}

func (b *Box) Height() float64 {
	return b.MaxPos.Y - b.MinPos.Y
}
