package math

// Rectangle is a box rotated so its length runs along Heading (degrees).
type Rectangle struct {
	Center     Point
	Heading    float64
	HalfLength float64
	HalfWidth  float64
}

// Corners are returned front-left, rear-left, rear-right, front-right.
func (r *Rectangle) Corners() [4]Point {
	front := PointAtBearing(r.Center, r.Heading, r.HalfLength)
	rear := PointAtBearing(r.Center, r.Heading+180, r.HalfLength)
	return [4]Point{
		PointAtBearing(front, r.Heading+90, r.HalfWidth),
		PointAtBearing(rear, r.Heading+90, r.HalfWidth),
		PointAtBearing(rear, r.Heading-90, r.HalfWidth),
		PointAtBearing(front, r.Heading-90, r.HalfWidth),
	}
}

func (r *Rectangle) Edges() [4]Line {
	c := r.Corners()
	return [4]Line{
		{Start: c[0], End: c[1]},
		{Start: c[1], End: c[2]},
		{Start: c[2], End: c[3]},
		{Start: c[3], End: c[0]},
	}
}

func (r *Rectangle) Grow(margin float64) Rectangle {
	return Rectangle{
		Center:     r.Center,
		Heading:    r.Heading,
		HalfLength: r.HalfLength + margin,
		HalfWidth:  r.HalfWidth + margin,
	}
}
