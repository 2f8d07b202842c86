package track

import (
	"context"
	"log/slog"
	"math"
	"os"
	"runtime"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/pkg/errors"

	m "pfeifer.dev/trackd/math"
)

const EARTH_RADIUS = 6373000.0 // metres

type OSMImportSettings struct {
	InputFile string
	// WayID selects a way directly; zero picks the first highway=raceway way,
	// optionally filtered by Name.
	WayID int64
	Name  string
	Width float64
}

// ImportOSM builds a track from a raceway way in an OpenStreetMap pbf file.
// Coordinates are projected to metres around the first node of the way.
func ImportOSM(ctx context.Context, s OSMImportSettings) (*Track, error) {
	way, err := findWay(ctx, s)
	if err != nil {
		return nil, err
	}

	nodeIDs := make(map[osm.NodeID]bool, len(way.Nodes))
	for _, n := range way.Nodes {
		nodeIDs[n.ID] = true
	}
	locations, err := nodeLocations(ctx, s.InputFile, nodeIDs)
	if err != nil {
		return nil, err
	}

	points := make([]m.Point, 0, len(way.Nodes))
	var lat0, lon0 float64
	for i, wn := range way.Nodes {
		loc, ok := locations[wn.ID]
		if !ok {
			return nil, errors.Errorf("node %d of way %d not found in %s", wn.ID, way.ID, s.InputFile)
		}
		if i == 0 {
			lat0, lon0 = loc.Lat, loc.Lon
		}
		points = append(points, project(loc.Lat, loc.Lon, lat0, lon0))
	}

	name := way.Tags.Find("name")
	if name == "" {
		name = s.Name
	}
	t := New(points, s.Width, 0)
	t.Name = name
	if err := t.Validate(); err != nil {
		return nil, errors.Wrapf(err, "way %d", way.ID)
	}
	slog.Info("imported track", "name", t.Name, "way", way.ID, "waypoints", len(points), "length", t.CenterlineLength())
	return t, nil
}

func project(lat, lon, lat0, lon0 float64) m.Point {
	return m.NewPoint(
		EARTH_RADIUS*(lon-lon0)*m.TO_RADIANS*math.Cos(lat0*m.TO_RADIANS),
		EARTH_RADIUS*(lat-lat0)*m.TO_RADIANS,
	)
}

func isCandidate(way *osm.Way, s OSMImportSettings) bool {
	if s.WayID != 0 {
		return int64(way.ID) == s.WayID
	}
	if way.Tags.Find("highway") != "raceway" {
		return false
	}
	return s.Name == "" || way.Tags.Find("name") == s.Name
}

func findWay(ctx context.Context, s OSMImportSettings) (*osm.Way, error) {
	file, err := os.Open(s.InputFile)
	if err != nil {
		return nil, errors.Wrap(err, "could not open map pbf file")
	}
	defer file.Close()

	scanner := osmpbf.New(ctx, file, runtime.GOMAXPROCS(-1))
	scanner.SkipNodes = true
	scanner.SkipRelations = true
	defer scanner.Close()

	for scanner.Scan() {
		way, ok := scanner.Object().(*osm.Way)
		if !ok || len(way.Nodes) < 2 {
			continue
		}
		if isCandidate(way, s) {
			return way, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "could not scan ways")
	}
	return nil, errors.New("no matching raceway found")
}

type location struct {
	Lat, Lon float64
}

func nodeLocations(ctx context.Context, path string, ids map[osm.NodeID]bool) (map[osm.NodeID]location, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open map pbf file")
	}
	defer file.Close()

	scanner := osmpbf.New(ctx, file, runtime.GOMAXPROCS(-1))
	scanner.SkipWays = true
	scanner.SkipRelations = true
	defer scanner.Close()

	found := make(map[osm.NodeID]location, len(ids))
	for scanner.Scan() {
		node, ok := scanner.Object().(*osm.Node)
		if !ok || !ids[node.ID] {
			continue
		}
		found[node.ID] = location{Lat: node.Lat, Lon: node.Lon}
		if len(found) == len(ids) {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "could not scan nodes")
	}
	return found, nil
}
