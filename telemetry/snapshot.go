package telemetry

import (
	m "pfeifer.dev/trackd/math"
)

// ScoreFunc turns a snapshot into a reward. Hosts forward the returned value
// unchanged.
type ScoreFunc func(Snapshot) float64

// Snapshot holds every metric derived for one step. Its slices are copies and
// never alias engine state.
type Snapshot struct {
	EpisodeID string
	Step      int

	Position         m.Point
	Heading          float64
	AllWheelsOnTrack bool
	IsCrashed        bool
	IsOffTrack       bool
	IsReversed       bool

	PreviousWaypointID          int
	PreviousWaypoint            m.Point
	NextWaypointID              int
	NextWaypoint                m.Point
	ClosestWaypointID           int
	ClosestWaypoint             m.Point
	DistanceFromClosestWaypoint float64

	DistanceFromCenter      float64
	DistanceFromEdge        float64
	DistanceFromExtremeEdge float64
	IsLeftOfCenter          bool
	IsRightOfCenter         bool

	TrackLength    float64
	TrackWidth     float64
	TrackBearing   float64
	TrackCurvature float64

	ActionSpeed          float64
	ActionSteeringAngle  float64
	ActionSequenceLength int
	IsSteeringStraight   bool
	IsSteeringLeft       bool
	IsSteeringRight      bool

	Progress         float64
	PredictedLapTime float64
	ElapsedTime      float64
	TotalDistance    float64
	TrackSpeed       float64
	ProgressSpeed    float64

	TrueBearing float64
	Skew        float64
	Slide       float64
	MaxSkew     float64
	MaxSlide    float64

	// WaypointsPassed lists the waypoints crossed since the previous step.
	WaypointsPassed []int
	// FirstCrossings holds, per waypoint id, the step it was first crossed
	// this episode or zero.
	FirstCrossings []int

	HasObjects                bool
	FrontObjectID             int
	FrontObject               m.Point
	FrontObjectIsLeftOfCenter bool
	DistanceToFrontObject     float64
	RearObjectID              int
	RearObject                m.Point
	RearObjectIsLeftOfCenter  bool
	DistanceToRearObject      float64
	// ObjectPassedStep is the step at which the front object last changed,
	// zero until it has changed once this episode.
	ObjectPassedStep int

	ProjectedDistance  float64
	ProjectedHitObject bool
}

// WaypointStep returns the step at which waypoint id was first crossed this
// episode.
func (s *Snapshot) WaypointStep(id int) (step int, ok bool) {
	if id < 0 || id >= len(s.FirstCrossings) || s.FirstCrossings[id] == 0 {
		return 0, false
	}
	return s.FirstCrossings[id], true
}
