package cereal

import (
	"github.com/pkg/errors"

	"pfeifer.dev/trackd/telemetry"
)

type Telemetry = telemetry.Telemetry

var telemetryLayout = layout[Telemetry]{
	floats: []func(*Telemetry) *float64{
		func(t *Telemetry) *float64 { return &t.X },
		func(t *Telemetry) *float64 { return &t.Y },
		func(t *Telemetry) *float64 { return &t.Heading },
		func(t *Telemetry) *float64 { return &t.DistanceFromCenter },
		func(t *Telemetry) *float64 { return &t.Steps },
		func(t *Telemetry) *float64 { return &t.Progress },
		func(t *Telemetry) *float64 { return &t.TrackLength },
		func(t *Telemetry) *float64 { return &t.TrackWidth },
		func(t *Telemetry) *float64 { return &t.Speed },
		func(t *Telemetry) *float64 { return &t.SteeringAngle },
		func(t *Telemetry) *float64 { return &t.ProjectionDistance },
	},
	ints: []func(*Telemetry) *int{
		func(t *Telemetry) *int { return &t.ClosestWaypoints[0] },
		func(t *Telemetry) *int { return &t.ClosestWaypoints[1] },
		func(t *Telemetry) *int { return &t.ClosestObjects[0] },
		func(t *Telemetry) *int { return &t.ClosestObjects[1] },
	},
	bools: []func(*Telemetry) *bool{
		func(t *Telemetry) *bool { return &t.AllWheelsOnTrack },
		func(t *Telemetry) *bool { return &t.IsLeftOfCenter },
		func(t *Telemetry) *bool { return &t.IsCrashed },
		func(t *Telemetry) *bool { return &t.IsOffTrack },
		func(t *Telemetry) *bool { return &t.IsReversed },
		func(t *Telemetry) *bool { return &t.ObjectInCamera },
	},
	// waypoints, objects location, objects left of center
	pointers: 3,
}

func TelemetryEncoder(evt Event, t Telemetry) error {
	st, err := evt.newPayload(EventWhich_telemetry, telemetryLayout.size())
	if err != nil {
		return err
	}
	telemetryLayout.write(st, &t)
	if err := setFloat64s(st, 0, flatten(t.Waypoints)); err != nil {
		return errors.Wrap(err, "could not set waypoints")
	}
	if err := setFloat64s(st, 1, flatten(t.ObjectsLocation)); err != nil {
		return errors.Wrap(err, "could not set objects location")
	}
	return errors.Wrap(setBools(st, 2, t.ObjectsLeftOfCenter), "could not set objects left of center")
}

func TelemetryReader(evt Event) (t Telemetry, err error) {
	st, err := evt.payload(EventWhich_telemetry)
	if err != nil {
		return t, err
	}
	telemetryLayout.read(st, &t)

	waypoints, err := float64s(st, 0)
	if err != nil {
		return t, errors.Wrap(err, "could not read waypoints")
	}
	t.Waypoints = pairs(waypoints)

	objects, err := float64s(st, 1)
	if err != nil {
		return t, errors.Wrap(err, "could not read objects location")
	}
	t.ObjectsLocation = pairs(objects)

	t.ObjectsLeftOfCenter, err = bools(st, 2)
	return t, errors.Wrap(err, "could not read objects left of center")
}
