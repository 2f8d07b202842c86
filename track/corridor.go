package track

import (
	m "pfeifer.dev/trackd/math"
)

// new corridor edges closer than this to the previous edge are snapped onto it
const EDGE_TOLERANCE = 0.01 // metres

// ProcessedWaypoint is a centerline waypoint with the safe corridor edges
// either side of it.
type ProcessedWaypoint struct {
	ID     int
	Center m.Point
	Left   m.Point
	Right  m.Point
}

// BuildCorridor offsets every waypoint perpendicular to the local track
// heading by halfWidth+overhang on both sides. Waypoint indexes wrap, and a
// waypoint equal to its predecessor reuses the predecessor's edges.
func BuildCorridor(waypoints []m.Point, halfWidth float64, overhang float64) []ProcessedWaypoint {
	n := len(waypoints)
	if n == 0 {
		return nil
	}
	radius := halfWidth + overhang
	corridor := make([]ProcessedWaypoint, n)

	var left, right m.Point
	for i, w := range waypoints {
		prev := waypoints[(i-1+n)%n]
		if i > 0 && prev.Equals(w) {
			corridor[i] = ProcessedWaypoint{ID: i, Center: w, Left: left, Right: right}
			continue
		}
		if i == 0 {
			prev = distinctBefore(waypoints, 0)
		}
		next := waypoints[(i+1)%n]

		heading := 0.0
		if !prev.Equals(w) {
			heading = m.Bearing(prev, w)
			if !next.Equals(w) {
				heading = m.Bisect(heading, m.Bearing(w, next))
			}
		} else if !next.Equals(w) {
			heading = m.Bearing(w, next)
		}

		newLeft := m.PointAtBearing(w, heading+90, radius)
		newRight := m.PointAtBearing(w, heading-90, radius)
		if i == 0 || m.Distance(newLeft, left) > EDGE_TOLERANCE {
			left = newLeft
		}
		if i == 0 || m.Distance(newRight, right) > EDGE_TOLERANCE {
			right = newRight
		}
		corridor[i] = ProcessedWaypoint{ID: i, Center: w, Left: left, Right: right}
	}
	return corridor
}

// distinctBefore walks backwards (wrapping) from i to the nearest waypoint
// that differs from waypoints[i], so a closed loop whose last point repeats
// the first still yields a real predecessor.
func distinctBefore(waypoints []m.Point, i int) m.Point {
	n := len(waypoints)
	w := waypoints[i]
	for k := 1; k < n; k++ {
		p := waypoints[(i-k+n)%n]
		if !p.Equals(w) {
			return p
		}
	}
	return w
}

// distinctAfter is the forward counterpart of distinctBefore.
func distinctAfter(waypoints []m.Point, i int) m.Point {
	n := len(waypoints)
	w := waypoints[i]
	for k := 1; k < n; k++ {
		p := waypoints[(i+k)%n]
		if !p.Equals(w) {
			return p
		}
	}
	return w
}
