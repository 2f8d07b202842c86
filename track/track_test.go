package track

import (
	gomath "math"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "pfeifer.dev/trackd/math"
)

const overhang = 0.1125

func TestBuildCorridorStraight(t *testing.T) {
	waypoints := []m.Point{m.NewPoint(0, 0), m.NewPoint(10, 0), m.NewPoint(20, 0)}
	corridor := BuildCorridor(waypoints, 2, overhang)
	require.Len(t, corridor, 3)

	mid := corridor[1]
	assert.Equal(t, 1, mid.ID)
	assert.InDelta(t, 10.0, mid.Left.X, 1e-9)
	assert.InDelta(t, 2+overhang, mid.Left.Y, 1e-9)
	assert.InDelta(t, 10.0, mid.Right.X, 1e-9)
	assert.InDelta(t, -2-overhang, mid.Right.Y, 1e-9)
}

func TestBuildCorridorWidth(t *testing.T) {
	waypoints := []m.Point{
		m.NewPoint(0, 0), m.NewPoint(10, 0), m.NewPoint(15, 5),
		m.NewPoint(10, 10), m.NewPoint(0, 10), m.NewPoint(-5, 5),
	}
	for _, pw := range BuildCorridor(waypoints, 1.5, overhang) {
		assert.InDelta(t, 1.5+overhang, m.Distance(pw.Center, pw.Left), 1e-9, "left at %d", pw.ID)
		assert.InDelta(t, 1.5+overhang, m.Distance(pw.Center, pw.Right), 1e-9, "right at %d", pw.ID)
	}
}

func transform(p m.Point, angle float64, offset m.Point) m.Point {
	r := m.PointAtBearing(m.NewPoint(0, 0), m.Bearing(m.NewPoint(0, 0), p)+angle, m.Distance(m.NewPoint(0, 0), p))
	if p.Equals(m.NewPoint(0, 0)) {
		r = p
	}
	return r.Add(offset)
}

func TestBuildCorridorRotationInvariant(t *testing.T) {
	waypoints := []m.Point{
		m.NewPoint(0, 0), m.NewPoint(10, 0), m.NewPoint(15, 5),
		m.NewPoint(10, 10), m.NewPoint(0, 10), m.NewPoint(-5, 5),
	}
	base := BuildCorridor(waypoints, 2, overhang)

	angle := 37.0
	offset := m.NewPoint(-120, 45)
	moved := make([]m.Point, len(waypoints))
	for i, w := range waypoints {
		moved[i] = transform(w, angle, offset)
	}

	want := make([]ProcessedWaypoint, len(base))
	for i, pw := range base {
		want[i] = ProcessedWaypoint{
			ID:     pw.ID,
			Center: transform(pw.Center, angle, offset),
			Left:   transform(pw.Left, angle, offset),
			Right:  transform(pw.Right, angle, offset),
		}
	}
	got := BuildCorridor(moved, 2, overhang)
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Errorf("corridor changed under rotation (-want +got):\n%s", diff)
	}
}

func TestBuildCorridorDuplicates(t *testing.T) {
	waypoints := []m.Point{
		m.NewPoint(0, 0), m.NewPoint(10, 0), m.NewPoint(10, 0), m.NewPoint(20, 0),
		m.NewPoint(20, 10), m.NewPoint(0, 10), m.NewPoint(0, 0),
	}
	corridor := BuildCorridor(waypoints, 1, overhang)
	require.Len(t, corridor, len(waypoints))

	assert.Equal(t, corridor[1].Left, corridor[2].Left)
	assert.Equal(t, corridor[1].Right, corridor[2].Right)
	assert.Equal(t, 2, corridor[2].ID)

	// the closing waypoint repeats the first, so only its incoming bearing counts
	assert.InDelta(t, 1+overhang, corridor[6].Left.X, 1e-9)
	assert.InDelta(t, 0.0, corridor[6].Left.Y, 1e-9)
	for _, pw := range corridor {
		assert.True(t, pw.Left.IsFinite())
		assert.True(t, pw.Right.IsFinite())
	}
}

func TestBuildCorridorSnapsNearlyStraightEdges(t *testing.T) {
	// two waypoints 5 mm apart produce edges within a centimetre of each other
	waypoints := []m.Point{
		m.NewPoint(0, 0), m.NewPoint(10, 0), m.NewPoint(10.005, 0), m.NewPoint(20, 0.001),
		m.NewPoint(20, 10), m.NewPoint(0, 10),
	}
	corridor := BuildCorridor(waypoints, 1, overhang)
	assert.Equal(t, corridor[1].Left, corridor[2].Left)
	assert.Equal(t, corridor[1].Right, corridor[2].Right)
}

func TestTrackValidate(t *testing.T) {
	ok := New([]m.Point{m.NewPoint(0, 0), m.NewPoint(1, 0)}, 1, 0)
	assert.NoError(t, ok.Validate())

	assert.ErrorIs(t, New([]m.Point{m.NewPoint(0, 0), m.NewPoint(1, 0)}, 0, 0).Validate(), ErrInvalidTrack)
	assert.ErrorIs(t, New([]m.Point{m.NewPoint(0, 0)}, 1, 0).Validate(), ErrInvalidTrack)
	assert.ErrorIs(t, New([]m.Point{m.NewPoint(1, 1), m.NewPoint(1, 1)}, 1, 0).Validate(), ErrInvalidTrack)
}

func square() *Track {
	return New([]m.Point{m.NewPoint(0, 0), m.NewPoint(10, 0), m.NewPoint(10, 10), m.NewPoint(0, 10)}, 1, 0)
}

func TestTrackDerived(t *testing.T) {
	tr := square()
	assert.Equal(t, 40.0, tr.CenterlineLength())
	assert.Equal(t, 40.0, tr.Length())
	tr.DeclaredLength = 41
	assert.Equal(t, 41.0, tr.Length())

	assert.Equal(t, m.NewPoint(0, 10), tr.Waypoint(-1))
	assert.Equal(t, m.NewPoint(10, 0), tr.Waypoint(5))

	b := tr.Bounds()
	assert.Equal(t, 10.0, b.Width())

	assert.InDelta(t, 90.0, tr.SegmentBearing(1, 2), 1e-9)
	assert.InDelta(t, -90.0, tr.SegmentBearing(3, 0), 1e-9)
	assert.Greater(t, tr.Curvature(1), 0.0)

	assert.Equal(t, 1, tr.NearestWaypoint(m.NewPoint(9, 1)))
	assert.InDelta(t, 0.0, tr.HeadingAt(m.NewPoint(3, 0.2)), 1e-9)
	assert.InDelta(t, 90.0, tr.HeadingAt(m.NewPoint(10, 7)), 1e-9)
}

func TestTrackHeadingAtNearestSegment(t *testing.T) {
	tr := New([]m.Point{m.NewPoint(0, 0), m.NewPoint(1, 0), m.NewPoint(1, 10), m.NewPoint(-5, 5)}, 1, 0)
	// the previous waypoint is closer than the next, but the point sits beside
	// the outgoing segment
	assert.InDelta(t, 90.0, tr.HeadingAt(m.NewPoint(1.4, 0.5)), 1e-9)
	assert.InDelta(t, 0.0, tr.HeadingAt(m.NewPoint(0.5, -0.2)), 1e-9)
}

func TestTrackSegmentBearingDuplicates(t *testing.T) {
	tr := New([]m.Point{m.NewPoint(0, 0), m.NewPoint(5, 5), m.NewPoint(5, 5), m.NewPoint(0, 10)}, 1, 0)
	assert.InDelta(t, 45.0, tr.SegmentBearing(1, 2), 1e-9)
}

func TestTrackCorridorCache(t *testing.T) {
	tr := square()
	a := tr.Corridor(0.1)
	b := tr.Corridor(0.1)
	assert.Equal(t, a, b)

	c := tr.Corridor(0.2)
	assert.InDelta(t, 0.7, m.Distance(c[0].Center, c[0].Left), 1e-9)
}

func TestTrackFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	tr := square()
	tr.Name = "square"

	for _, name := range []string{"square.yaml", "square.json"} {
		path := filepath.Join(dir, name)
		require.NoError(t, SaveFile(tr, path))
		loaded, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, tr.Name, loaded.Name)
		assert.Equal(t, tr.Waypoints, loaded.Waypoints)
		assert.Equal(t, tr.Width, loaded.Width)
	}

	_, err := LoadFile(filepath.Join(dir, "square.txt"))
	assert.Error(t, err)
}

func TestPlotCorridor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "square.png")
	require.NoError(t, PlotCorridor(square(), overhang, path))
	assert.FileExists(t, path)
}

func TestOSMWayCandidates(t *testing.T) {
	raceway := &osm.Way{ID: 7, Tags: osm.Tags{{Key: "highway", Value: "raceway"}, {Key: "name", Value: "Ring"}}}
	road := &osm.Way{ID: 8, Tags: osm.Tags{{Key: "highway", Value: "primary"}, {Key: "name", Value: "Ring"}}}

	cases := []struct {
		name     string
		way      *osm.Way
		settings OSMImportSettings
		want     bool
	}{
		{"any raceway", raceway, OSMImportSettings{}, true},
		{"not a raceway", road, OSMImportSettings{}, false},
		{"name matches", raceway, OSMImportSettings{Name: "Ring"}, true},
		{"name differs", raceway, OSMImportSettings{Name: "Oval"}, false},
		{"way id matches", road, OSMImportSettings{WayID: 8}, true},
		{"way id differs", raceway, OSMImportSettings{WayID: 8}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, isCandidate(c.way, c.settings))
		})
	}
}

func TestOSMProjection(t *testing.T) {
	metresPerDegree := EARTH_RADIUS * gomath.Pi / 180

	cases := []struct {
		name                 string
		lat, lon, lat0, lon0 float64
		want                 m.Point
	}{
		{"origin", 10, 20, 10, 20, m.NewPoint(0, 0)},
		{"north", 0.001, 0, 0, 0, m.NewPoint(0, 0.001*metresPerDegree)},
		{"east at equator", 0, 0.001, 0, 0, m.NewPoint(0.001*metresPerDegree, 0)},
		{"east at 60 degrees", 60, 0.002, 60, 0, m.NewPoint(0.001*metresPerDegree, 0)},
		{"south west", -0.5, -0.5, 0, 0, m.NewPoint(-0.5*metresPerDegree, -0.5*metresPerDegree)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := project(c.lat, c.lon, c.lat0, c.lon0)
			if diff := cmp.Diff(c.want, got, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
				t.Errorf("project (-want +got):\n%s", diff)
			}
		})
	}
}
