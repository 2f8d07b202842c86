package track

import (
	"github.com/pkg/errors"

	m "pfeifer.dev/trackd/math"
	u "pfeifer.dev/trackd/utils"
)

var ErrInvalidTrack = errors.New("invalid track")

// Track is a closed centerline with a constant width. Derived values are
// computed on first use and cached.
type Track struct {
	Name      string    `json:"name" yaml:"name"`
	Waypoints []m.Point `json:"waypoints" yaml:"waypoints"`
	Width     float64   `json:"width" yaml:"width"`
	// Length as reported upstream; zero means use the centerline length.
	DeclaredLength float64 `json:"length,omitempty" yaml:"length,omitempty"`

	bounds           u.Curry[m.Box]
	centerlineLength u.Curry[float64]
	corridor         u.Curry[[]ProcessedWaypoint]
	corridorOverhang float64
}

func New(waypoints []m.Point, width float64, length float64) *Track {
	return &Track{Waypoints: waypoints, Width: width, DeclaredLength: length}
}

func (t *Track) Validate() error {
	if t.Width <= 0 {
		return errors.Wrapf(ErrInvalidTrack, "width must be positive, got %f", t.Width)
	}
	if len(t.Waypoints) < 2 {
		return errors.Wrapf(ErrInvalidTrack, "need at least 2 waypoints, got %d", len(t.Waypoints))
	}
	distinct := 0
	for i, w := range t.Waypoints {
		if !w.IsFinite() {
			return errors.Wrapf(ErrInvalidTrack, "waypoint %d is not finite", i)
		}
		if i == 0 || !w.Equals(t.Waypoints[i-1]) {
			distinct++
		}
	}
	if distinct < 2 {
		return errors.Wrap(ErrInvalidTrack, "need at least 2 distinct waypoints")
	}
	return nil
}

func (t *Track) Len() int {
	return len(t.Waypoints)
}

func (t *Track) Waypoint(id int) m.Point {
	return t.Waypoints[t.wrap(id)]
}

func (t *Track) wrap(id int) int {
	n := len(t.Waypoints)
	return ((id % n) + n) % n
}

func (t *Track) _bounds() m.Box {
	return m.BoundsOf(t.Waypoints)
}

func (t *Track) Bounds() m.Box {
	return t.bounds.Value(t._bounds)
}

func (t *Track) _centerlineLength() float64 {
	total := 0.0
	n := len(t.Waypoints)
	for i := range n {
		total += m.Distance(t.Waypoints[i], t.Waypoints[(i+1)%n])
	}
	return total
}

func (t *Track) CenterlineLength() float64 {
	return t.centerlineLength.Value(t._centerlineLength)
}

func (t *Track) Length() float64 {
	if t.DeclaredLength > 0 {
		return t.DeclaredLength
	}
	return t.CenterlineLength()
}

// Corridor returns the safe corridor for a vehicle overhanging the centerline
// offset by overhang metres.
func (t *Track) Corridor(overhang float64) []ProcessedWaypoint {
	if t.corridor.IsSet() && t.corridorOverhang != overhang {
		t.corridor.Reset()
	}
	t.corridorOverhang = overhang
	return t.corridor.Value(func() []ProcessedWaypoint {
		return BuildCorridor(t.Waypoints, t.Width/2, overhang)
	})
}

// SegmentBearing is the direction of travel from prevID to nextID. When the
// two waypoints coincide it falls back to the nearest distinct neighbours.
func (t *Track) SegmentBearing(prevID, nextID int) float64 {
	prev := t.Waypoint(prevID)
	next := t.Waypoint(nextID)
	if prev.Equals(next) {
		prev = distinctBefore(t.Waypoints, t.wrap(prevID))
		if prev.Equals(next) {
			next = distinctAfter(t.Waypoints, t.wrap(nextID))
		}
	}
	return m.Bearing(prev, next)
}

// Curvature of the centerline at waypoint id, signed positive for left turns.
func (t *Track) Curvature(id int) float64 {
	i := t.wrap(id)
	c := m.CalculateCurvature(distinctBefore(t.Waypoints, i), t.Waypoints[i], distinctAfter(t.Waypoints, i))
	return c.Curvature
}

// NearestWaypoint does a linear scan; tracks hold at most a few hundred points.
func (t *Track) NearestWaypoint(p m.Point) int {
	best := 0
	bestDistance := -1.0
	for i, w := range t.Waypoints {
		d := m.Distance(p, w)
		if bestDistance < 0 || d < bestDistance {
			best = i
			bestDistance = d
		}
	}
	return best
}

// HeadingAt is the direction of the centerline segment closest to p, picked
// from the two segments either side of the nearest waypoint.
func (t *Track) HeadingAt(p m.Point) float64 {
	i := t.NearestWaypoint(p)
	w := t.Waypoints[i]
	before := m.Line{Start: distinctBefore(t.Waypoints, i), End: w}
	after := m.Line{Start: w, End: distinctAfter(t.Waypoints, i)}
	if m.Distance(p, before.NearestPosition(p).Pos) < m.Distance(p, after.NearestPosition(p).Pos) {
		return before.Bearing()
	}
	return after.Bearing()
}
