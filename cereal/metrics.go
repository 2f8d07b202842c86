package cereal

import (
	"github.com/pkg/errors"

	"pfeifer.dev/trackd/telemetry"
)

type Snapshot = telemetry.Snapshot

var metricsLayout = layout[Snapshot]{
	floats: []func(*Snapshot) *float64{
		func(s *Snapshot) *float64 { return &s.Position.X },
		func(s *Snapshot) *float64 { return &s.Position.Y },
		func(s *Snapshot) *float64 { return &s.Heading },
		func(s *Snapshot) *float64 { return &s.PreviousWaypoint.X },
		func(s *Snapshot) *float64 { return &s.PreviousWaypoint.Y },
		func(s *Snapshot) *float64 { return &s.NextWaypoint.X },
		func(s *Snapshot) *float64 { return &s.NextWaypoint.Y },
		func(s *Snapshot) *float64 { return &s.ClosestWaypoint.X },
		func(s *Snapshot) *float64 { return &s.ClosestWaypoint.Y },
		func(s *Snapshot) *float64 { return &s.DistanceFromClosestWaypoint },
		func(s *Snapshot) *float64 { return &s.DistanceFromCenter },
		func(s *Snapshot) *float64 { return &s.DistanceFromEdge },
		func(s *Snapshot) *float64 { return &s.DistanceFromExtremeEdge },
		func(s *Snapshot) *float64 { return &s.TrackLength },
		func(s *Snapshot) *float64 { return &s.TrackWidth },
		func(s *Snapshot) *float64 { return &s.TrackBearing },
		func(s *Snapshot) *float64 { return &s.TrackCurvature },
		func(s *Snapshot) *float64 { return &s.ActionSpeed },
		func(s *Snapshot) *float64 { return &s.ActionSteeringAngle },
		func(s *Snapshot) *float64 { return &s.Progress },
		func(s *Snapshot) *float64 { return &s.PredictedLapTime },
		func(s *Snapshot) *float64 { return &s.ElapsedTime },
		func(s *Snapshot) *float64 { return &s.TotalDistance },
		func(s *Snapshot) *float64 { return &s.TrackSpeed },
		func(s *Snapshot) *float64 { return &s.ProgressSpeed },
		func(s *Snapshot) *float64 { return &s.TrueBearing },
		func(s *Snapshot) *float64 { return &s.Skew },
		func(s *Snapshot) *float64 { return &s.Slide },
		func(s *Snapshot) *float64 { return &s.MaxSkew },
		func(s *Snapshot) *float64 { return &s.MaxSlide },
		func(s *Snapshot) *float64 { return &s.FrontObject.X },
		func(s *Snapshot) *float64 { return &s.FrontObject.Y },
		func(s *Snapshot) *float64 { return &s.DistanceToFrontObject },
		func(s *Snapshot) *float64 { return &s.RearObject.X },
		func(s *Snapshot) *float64 { return &s.RearObject.Y },
		func(s *Snapshot) *float64 { return &s.DistanceToRearObject },
		func(s *Snapshot) *float64 { return &s.ProjectedDistance },
	},
	ints: []func(*Snapshot) *int{
		func(s *Snapshot) *int { return &s.Step },
		func(s *Snapshot) *int { return &s.PreviousWaypointID },
		func(s *Snapshot) *int { return &s.NextWaypointID },
		func(s *Snapshot) *int { return &s.ClosestWaypointID },
		func(s *Snapshot) *int { return &s.ActionSequenceLength },
		func(s *Snapshot) *int { return &s.FrontObjectID },
		func(s *Snapshot) *int { return &s.RearObjectID },
		func(s *Snapshot) *int { return &s.ObjectPassedStep },
	},
	bools: []func(*Snapshot) *bool{
		func(s *Snapshot) *bool { return &s.AllWheelsOnTrack },
		func(s *Snapshot) *bool { return &s.IsCrashed },
		func(s *Snapshot) *bool { return &s.IsOffTrack },
		func(s *Snapshot) *bool { return &s.IsReversed },
		func(s *Snapshot) *bool { return &s.IsLeftOfCenter },
		func(s *Snapshot) *bool { return &s.IsRightOfCenter },
		func(s *Snapshot) *bool { return &s.IsSteeringStraight },
		func(s *Snapshot) *bool { return &s.IsSteeringLeft },
		func(s *Snapshot) *bool { return &s.IsSteeringRight },
		func(s *Snapshot) *bool { return &s.HasObjects },
		func(s *Snapshot) *bool { return &s.FrontObjectIsLeftOfCenter },
		func(s *Snapshot) *bool { return &s.RearObjectIsLeftOfCenter },
		func(s *Snapshot) *bool { return &s.ProjectedHitObject },
	},
	// episode id, waypoints passed, first crossings
	pointers: 3,
}

func MetricsEncoder(evt Event, s Snapshot) error {
	st, err := evt.newPayload(EventWhich_metrics, metricsLayout.size())
	if err != nil {
		return err
	}
	metricsLayout.write(st, &s)
	if err := st.SetText(0, s.EpisodeID); err != nil {
		return errors.Wrap(err, "could not set episode id")
	}
	if err := setInt32s(st, 1, s.WaypointsPassed); err != nil {
		return errors.Wrap(err, "could not set waypoints passed")
	}
	return errors.Wrap(setInt32s(st, 2, s.FirstCrossings), "could not set first crossings")
}

func MetricsReader(evt Event) (s Snapshot, err error) {
	st, err := evt.payload(EventWhich_metrics)
	if err != nil {
		return s, err
	}
	metricsLayout.read(st, &s)

	if s.EpisodeID, err = text(st, 0); err != nil {
		return s, errors.Wrap(err, "could not read episode id")
	}
	if s.WaypointsPassed, err = int32s(st, 1); err != nil {
		return s, errors.Wrap(err, "could not read waypoints passed")
	}
	s.FirstCrossings, err = int32s(st, 2)
	return s, errors.Wrap(err, "could not read first crossings")
}
