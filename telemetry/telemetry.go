package telemetry

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/pkg/errors"

	m "pfeifer.dev/trackd/math"
	"pfeifer.dev/trackd/track"
)

var ErrInvalidTelemetry = errors.New("invalid telemetry")

type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing telemetry field %q", e.Field)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrInvalidTelemetry
}

// Telemetry is a single simulator step. Field names on the wire follow the
// simulator's parameter names. Angles are degrees, distances metres, speed
// metres per second and progress percent.
type Telemetry struct {
	X                   float64      `json:"x"`
	Y                   float64      `json:"y"`
	Heading             float64      `json:"heading"`
	AllWheelsOnTrack    bool         `json:"all_wheels_on_track"`
	ClosestWaypoints    [2]int       `json:"closest_waypoints"`
	DistanceFromCenter  float64      `json:"distance_from_center"`
	IsLeftOfCenter      bool         `json:"is_left_of_center"`
	IsCrashed           bool         `json:"is_crashed"`
	IsOffTrack          bool         `json:"is_offtrack"`
	IsReversed          bool         `json:"is_reversed"`
	Steps               float64      `json:"steps"`
	Progress            float64      `json:"progress"`
	Waypoints           [][2]float64 `json:"waypoints"`
	TrackLength         float64      `json:"track_length"`
	TrackWidth          float64      `json:"track_width"`
	Speed               float64      `json:"speed"`
	SteeringAngle       float64      `json:"steering_angle"`
	ObjectsLocation     [][2]float64 `json:"objects_location"`
	ObjectsLeftOfCenter []bool       `json:"objects_left_of_center"`
	ClosestObjects      [2]int       `json:"closest_objects"`

	// Accepted for compatibility, never read.
	ProjectionDistance float64 `json:"projection_distance,omitempty"`
	ObjectInCamera     bool    `json:"object_in_camera,omitempty"`
}

var requiredFields = []string{
	"x", "y", "heading", "all_wheels_on_track", "closest_waypoints",
	"distance_from_center", "is_left_of_center", "is_crashed", "is_offtrack",
	"is_reversed", "steps", "progress", "waypoints", "track_length",
	"track_width", "speed", "steering_angle", "objects_location",
	"objects_left_of_center", "closest_objects",
}

// DecodeJSON parses and validates one telemetry record. Every field the
// engine reads must be present, zero values are not assumed.
func DecodeJSON(data []byte) (Telemetry, error) {
	var t Telemetry
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return t, errors.Wrap(ErrInvalidTelemetry, err.Error())
	}
	for _, name := range requiredFields {
		if raw, ok := fields[name]; !ok || string(raw) == "null" {
			return t, &MissingFieldError{Field: name}
		}
	}
	if err := json.Unmarshal(data, &t); err != nil {
		return t, errors.Wrap(ErrInvalidTelemetry, err.Error())
	}
	return t, t.Validate()
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Validate checks the record against what the engine needs to produce a
// snapshot.
func (t *Telemetry) Validate() error {
	if !finite(t.X, t.Y, t.Heading, t.DistanceFromCenter, t.Steps, t.Progress,
		t.TrackLength, t.TrackWidth, t.Speed, t.SteeringAngle) {
		return errors.Wrap(ErrInvalidTelemetry, "non-finite value")
	}
	if t.Steps < 0 {
		return errors.Wrapf(ErrInvalidTelemetry, "steps must not be negative, got %f", t.Steps)
	}
	if err := track.New(t.WaypointPoints(), t.TrackWidth, t.TrackLength).Validate(); err != nil {
		return errors.Wrap(ErrInvalidTelemetry, err.Error())
	}
	n := len(t.Waypoints)
	for _, id := range t.ClosestWaypoints {
		if id < 0 || id >= n {
			return errors.Wrapf(ErrInvalidTelemetry, "closest_waypoints %v out of range for %d waypoints", t.ClosestWaypoints, n)
		}
	}
	if len(t.ObjectsLocation) != len(t.ObjectsLeftOfCenter) {
		return errors.Wrapf(ErrInvalidTelemetry, "%d objects_location but %d objects_left_of_center",
			len(t.ObjectsLocation), len(t.ObjectsLeftOfCenter))
	}
	for i, o := range t.ObjectsLocation {
		if !finite(o[0], o[1]) {
			return errors.Wrapf(ErrInvalidTelemetry, "object %d is not finite", i)
		}
	}
	if objects := len(t.ObjectsLocation); objects > 0 {
		for _, id := range t.ClosestObjects {
			if id < 0 || id >= objects {
				return errors.Wrapf(ErrInvalidTelemetry, "closest_objects %v out of range for %d objects", t.ClosestObjects, objects)
			}
		}
	}
	return nil
}

func (t *Telemetry) Position() m.Point {
	return m.NewPoint(t.X, t.Y)
}

func (t *Telemetry) WaypointPoints() []m.Point {
	return toPoints(t.Waypoints)
}

func (t *Telemetry) ObjectPoints() []m.Point {
	return toPoints(t.ObjectsLocation)
}

func toPoints(coords [][2]float64) []m.Point {
	points := make([]m.Point, len(coords))
	for i, c := range coords {
		points[i] = m.NewPoint(c[0], c[1])
	}
	return points
}

// NormalizeSteps rounds the step counter and maps the simulator's initial
// zero onto 1.
func NormalizeSteps(steps float64) int {
	s := int(math.Round(steps))
	if s == 0 {
		return 1
	}
	return s
}
