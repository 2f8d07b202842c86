package projection

import (
	m "pfeifer.dev/trackd/math"
	"pfeifer.dev/trackd/track"
)

// ObstacleBox is the footprint used for every obstacle, in metres.
type ObstacleBox struct {
	Length float64
	Width  float64
	Margin float64
}

// NewObstacleBox sizes the safety margin to a third of the smaller vehicle
// dimension.
func NewObstacleBox(length, width, vehicleLength, vehicleWidth float64) ObstacleBox {
	return ObstacleBox{
		Length: length,
		Width:  width,
		Margin: min(vehicleWidth, vehicleLength) / 3,
	}
}

type Obstacle struct {
	Position m.Point
	// Heading of the track at the obstacle, the box is aligned to it.
	Heading float64
}

type Input struct {
	Corridor       []track.ProcessedWaypoint
	Position       m.Point
	Bearing        float64
	NextWaypointID int
	TrackLength    float64
	Obstacles      []Obstacle
	// FrontObstacle indexes Obstacles, negative when there is none.
	FrontObstacle int
	Box           ObstacleBox
}

type Result struct {
	Distance    float64
	HitObstacle bool
	// ObstacleID is the obstacle that was hit, -1 otherwise.
	ObstacleID int
}

// OffTrackDistance casts a ray from pos along bearing and walks the corridor
// from nextID until the ray leaves it. The farthest forward crossing of the
// left or right boundary of the exit segment is returned, zero when neither
// boundary is crossed ahead. A ray that stays inside for a whole lap returns
// trackLength.
func OffTrackDistance(corridor []track.ProcessedWaypoint, pos m.Point, bearing float64, nextID int, trackLength float64) float64 {
	n := len(corridor)
	if n == 0 {
		return 0
	}
	ahead := m.PointAtBearing(pos, bearing, 1)

	for k := range n {
		i := ((nextID+k)%n + n) % n
		cur := corridor[i]
		prev := corridor[(i-1+n)%n]

		if m.Turn(bearing, m.Bearing(pos, cur.Left)) >= 0 && m.Turn(bearing, m.Bearing(pos, cur.Right)) <= 0 {
			continue
		}

		distance := 0.0
		for _, edge := range [2]m.Line{{Start: prev.Left, End: cur.Left}, {Start: prev.Right, End: cur.Right}} {
			p, ok := m.LineIntersection(pos, ahead, edge.Start, edge.End)
			if !ok || !m.IsAhead(pos, bearing, p) || !m.PointBetween(p, edge.Start, edge.End) {
				continue
			}
			distance = max(distance, m.Distance(pos, p))
		}
		return distance
	}
	return trackLength
}

// ObstacleHitDistance is the distance along the ray to the nearest edge of
// the obstacle's enlarged box. ok is false when the ray misses.
func ObstacleHitDistance(obstacle Obstacle, pos m.Point, bearing float64, box ObstacleBox) (distance float64, ok bool) {
	rect := m.Rectangle{
		Center:     obstacle.Position,
		Heading:    obstacle.Heading,
		HalfLength: box.Length / 2,
		HalfWidth:  box.Width / 2,
	}
	rect = rect.Grow(box.Margin)
	ahead := m.PointAtBearing(pos, bearing, 1)

	for _, edge := range rect.Edges() {
		p, hit := m.LineIntersection(pos, ahead, edge.Start, edge.End)
		if !hit || !m.IsAhead(pos, bearing, p) || !m.PointBetween(p, edge.Start, edge.End) {
			continue
		}
		d := m.Distance(pos, p)
		if !ok || d < distance {
			distance = d
			ok = true
		}
	}
	return distance, ok
}

// Project combines the off-track distance with the front obstacle and the
// obstacle after it. The first obstacle closer than the corridor exit wins.
func Project(in Input) Result {
	res := Result{
		Distance:   OffTrackDistance(in.Corridor, in.Position, in.Bearing, in.NextWaypointID, in.TrackLength),
		ObstacleID: -1,
	}
	count := len(in.Obstacles)
	if count == 0 || in.FrontObstacle < 0 || in.FrontObstacle >= count {
		return res
	}

	candidates := []int{in.FrontObstacle}
	if following := (in.FrontObstacle + 1) % count; following != in.FrontObstacle {
		candidates = append(candidates, following)
	}
	for _, id := range candidates {
		hit, ok := ObstacleHitDistance(in.Obstacles[id], in.Position, in.Bearing, in.Box)
		if ok && hit < res.Distance {
			res.Distance = hit
			res.HitObstacle = true
			res.ObstacleID = id
			return res
		}
	}
	return res
}
