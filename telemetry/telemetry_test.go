package telemetry

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// squareWaypoints walks a square counter-clockwise from the origin with a
// waypoint every spacing metres.
func squareWaypoints(size, spacing float64) [][2]float64 {
	per := int(size / spacing)
	waypoints := [][2]float64{}
	for i := range per {
		waypoints = append(waypoints, [2]float64{float64(i) * spacing, 0})
	}
	for i := range per {
		waypoints = append(waypoints, [2]float64{size, float64(i) * spacing})
	}
	for i := range per {
		waypoints = append(waypoints, [2]float64{size - float64(i)*spacing, size})
	}
	for i := range per {
		waypoints = append(waypoints, [2]float64{0, size - float64(i)*spacing})
	}
	return waypoints
}

func record(x, y, heading float64, prev, next int, step int, progress float64) Telemetry {
	return Telemetry{
		X:                   x,
		Y:                   y,
		Heading:             heading,
		AllWheelsOnTrack:    true,
		ClosestWaypoints:    [2]int{prev, next},
		DistanceFromCenter:  0,
		IsLeftOfCenter:      true,
		Steps:               float64(step),
		Progress:            progress,
		Waypoints:           squareWaypoints(50, 5),
		TrackLength:         200,
		TrackWidth:          1,
		Speed:               1,
		SteeringAngle:       0,
		ObjectsLocation:     [][2]float64{},
		ObjectsLeftOfCenter: []bool{},
	}
}

func process(t *testing.T, e *EpisodeState, tel Telemetry) Snapshot {
	t.Helper()
	s, err := e.Process(tel)
	require.NoError(t, err)
	return s
}

func TestNormalizeSteps(t *testing.T) {
	assert.Equal(t, 1, NormalizeSteps(0))
	assert.Equal(t, 1, NormalizeSteps(0.4))
	assert.Equal(t, 3, NormalizeSteps(2.6))
	assert.Equal(t, 40, NormalizeSteps(40))
}

func TestDecodeJSON(t *testing.T) {
	in := record(3, 0.2, 5, 0, 1, 4, 1.5)
	in.ObjectInCamera = true
	in.ProjectionDistance = 12
	data, err := json.Marshal(in)
	require.NoError(t, err)

	out, err := DecodeJSON(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	fields := map[string]any{}
	require.NoError(t, json.Unmarshal(data, &fields))
	delete(fields, "heading")
	delete(fields, "object_in_camera")
	missing, err := json.Marshal(fields)
	require.NoError(t, err)

	_, err = DecodeJSON(missing)
	var mfe *MissingFieldError
	require.ErrorAs(t, err, &mfe)
	assert.Equal(t, "heading", mfe.Field)
	assert.ErrorIs(t, err, ErrInvalidTelemetry)

	_, err = DecodeJSON([]byte("{not json"))
	assert.ErrorIs(t, err, ErrInvalidTelemetry)
}

func TestValidate(t *testing.T) {
	bad := record(0, 0, 0, 0, 40, 1, 0)
	assert.ErrorIs(t, bad.Validate(), ErrInvalidTelemetry)

	bad = record(0, 0, 0, 0, 1, 1, 0)
	bad.ObjectsLocation = [][2]float64{{1, 1}}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidTelemetry)

	bad.ObjectsLeftOfCenter = []bool{true}
	bad.ClosestObjects = [2]int{0, 1}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidTelemetry)

	bad = record(0, 0, 0, 0, 1, 1, 0)
	bad.Waypoints = [][2]float64{{1, 1}, {1, 1}}
	bad.ClosestWaypoints = [2]int{0, 1}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidTelemetry)

	bad = record(0, 0, 0, 0, 1, -3, 0)
	assert.ErrorIs(t, bad.Validate(), ErrInvalidTelemetry)
}

func TestProcessRejectsInvalidRecord(t *testing.T) {
	e := NewEpisodeState(DefaultConfig())
	process(t, e, record(1, 0, 0, 0, 1, 1, 0.5))
	id := e.EpisodeID()

	_, err := e.Process(record(1, 0, 0, 0, 99, 2, 0.5))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTelemetry))
	assert.Equal(t, 1, e.HistoryLen())
	assert.Equal(t, id, e.EpisodeID())
}

func TestProcessResetsHistory(t *testing.T) {
	e := NewEpisodeState(DefaultConfig())
	for step := 1; step <= 50; step++ {
		process(t, e, record(1+float64(step)*0.1, 0, 0, 0, 1, step, float64(step)*0.05))
	}
	first := e.EpisodeID()
	assert.Equal(t, 50, e.HistoryLen())

	process(t, e, record(1, 0, 0, 0, 1, 1, 0.05))
	s := process(t, e, record(1.1, 0, 0, 0, 1, 2, 0.1))
	assert.Equal(t, 2, e.HistoryLen())
	assert.NotEqual(t, first, s.EpisodeID)
	assert.InDelta(t, 0.1, s.TotalDistance, 1e-9)
}

func TestProcessStepZero(t *testing.T) {
	e := NewEpisodeState(DefaultConfig())
	s := process(t, e, record(1, 0, 0, 0, 1, 0, 0))
	assert.Equal(t, 1, s.Step)
	assert.Equal(t, 0.0, s.TrackSpeed)
	assert.Equal(t, 0.0, s.PredictedLapTime)
	assert.Equal(t, 1, s.ActionSequenceLength)
}

func TestProcessWindowedSpeed(t *testing.T) {
	e := NewEpisodeState(DefaultConfig())
	const d = 0.2
	var s Snapshot
	for step := 1; step <= 12; step++ {
		x := 1 + float64(step)*d
		prev := int(x / 5)
		s = process(t, e, record(x, 0, 0, prev, prev+1, step, x/2))
	}
	assert.InDelta(t, d*15, s.TrackSpeed, 1e-9)
	assert.InDelta(t, d*15, s.ProgressSpeed, 1e-9)
	assert.Equal(t, 12, s.ActionSequenceLength)
	assert.InDelta(t, 11*d, s.TotalDistance, 1e-9)
}

func TestProcessProgressSpeedFloor(t *testing.T) {
	e := NewEpisodeState(DefaultConfig())
	process(t, e, record(1, 0, 0, 0, 1, 1, 5))
	s := process(t, e, record(1.2, 0, 0, 0, 1, 2, 4))
	assert.Equal(t, 0.0, s.ProgressSpeed)
	assert.Greater(t, s.TrackSpeed, 0.0)
}

func TestProcessTrueBearing(t *testing.T) {
	e := NewEpisodeState(DefaultConfig())
	s := process(t, e, record(1, 0, 10, 0, 1, 1, 0.5))
	assert.Equal(t, 10.0, s.TrueBearing)

	s = process(t, e, record(1.2, 0.2, 10, 0, 1, 2, 0.6))
	assert.InDelta(t, 45.0, s.TrueBearing, 1e-9)

	// stalled
	s = process(t, e, record(1.2, 0.2, -30, 0, 1, 3, 0.6))
	assert.InDelta(t, 45.0, s.TrueBearing, 1e-9)

	// moved without meaningful progress
	s = process(t, e, record(1.4, 0.1, -30, 0, 1, 4, 0.61))
	assert.InDelta(t, 45.0, s.TrueBearing, 1e-9)
	assert.InDelta(t, 75.0, s.Slide, 1e-9)
}

func TestProcessSkewAndSlide(t *testing.T) {
	e := NewEpisodeState(DefaultConfig())
	process(t, e, record(1, 0, 0, 0, 1, 1, 0.5))
	s := process(t, e, record(2, 1, 0, 0, 1, 2, 1.0))
	assert.InDelta(t, 0.0, s.TrackBearing, 1e-9)
	assert.InDelta(t, 45.0, s.Skew, 1e-9)
	assert.InDelta(t, 45.0, s.Slide, 1e-9)

	s = process(t, e, record(3, 0.8, 0, 0, 1, 3, 1.5))
	assert.Less(t, s.Skew, 0.0)
	assert.InDelta(t, 45.0, s.MaxSkew, 1e-9)
	assert.InDelta(t, 45.0, s.MaxSlide, 1e-9)
}

func TestProcessWaypointCrossings(t *testing.T) {
	e := NewEpisodeState(DefaultConfig())
	process(t, e, record(1, 0, 0, 0, 1, 1, 0.5))
	s := process(t, e, record(6, 0, 0, 1, 2, 5, 3))
	assert.Equal(t, []int{1}, s.WaypointsPassed)

	s = process(t, e, record(16, 0, 0, 3, 4, 9, 8))
	assert.Equal(t, []int{2, 3}, s.WaypointsPassed)

	// implausible jump
	s = process(t, e, record(50, 35, 0, 17, 18, 10, 26))
	assert.Empty(t, s.WaypointsPassed)

	step, ok := s.WaypointStep(1)
	require.True(t, ok)
	assert.Equal(t, 5, step)
	step, ok = s.WaypointStep(3)
	require.True(t, ok)
	assert.Equal(t, 9, step)
	_, ok = s.WaypointStep(17)
	assert.False(t, ok)
	_, ok = s.WaypointStep(-1)
	assert.False(t, ok)

	// lap wrap from 38 to 1
	process(t, e, record(0, 15, 0, 37, 38, 20, 90))
	process(t, e, record(0, 10, 0, 38, 39, 21, 95))
	s = process(t, e, record(6, 0, 0, 1, 2, 22, 3))
	assert.Equal(t, []int{39, 0, 1}, s.WaypointsPassed)
	step, _ = s.WaypointStep(0)
	assert.Equal(t, 22, step)
	step, _ = s.WaypointStep(1)
	assert.Equal(t, 5, step, "first crossing is kept")
}

func TestProcessLateralAndSteering(t *testing.T) {
	e := NewEpisodeState(DefaultConfig())
	tel := record(4, 0.3, 0, 0, 1, 30, 50)
	tel.DistanceFromCenter = 0.3
	tel.SteeringAngle = 15
	s := process(t, e, tel)
	assert.InDelta(t, 0.2, s.DistanceFromEdge, 1e-9)
	assert.InDelta(t, 0.2+0.1125, s.DistanceFromExtremeEdge, 1e-9)
	assert.True(t, s.IsSteeringLeft)
	assert.InDelta(t, 4.0, s.PredictedLapTime, 1e-9)
	assert.InDelta(t, 2.0, s.ElapsedTime, 1e-9)
	assert.Equal(t, 1, s.ClosestWaypointID)
	assert.InDelta(t, 1.044, s.DistanceFromClosestWaypoint, 1e-3)
	assert.True(t, s.IsLeftOfCenter)
	assert.False(t, s.IsRightOfCenter)

	tel = record(4.1, 0.8, 0, 0, 1, 31, 50.1)
	tel.DistanceFromCenter = 0.8
	tel.SteeringAngle = -0.005
	s = process(t, e, tel)
	assert.Equal(t, 0.0, s.DistanceFromEdge)
	assert.Equal(t, 0.0, s.DistanceFromExtremeEdge)
	assert.True(t, s.IsSteeringStraight)

	tel.SteeringAngle = -20
	tel.Steps = 32
	s = process(t, e, tel)
	assert.True(t, s.IsSteeringRight)
	assert.Equal(t, 1, s.ActionSequenceLength)
}

func TestProcessObjects(t *testing.T) {
	e := NewEpisodeState(DefaultConfig())
	clear := process(t, e, record(6, 0, 0, 1, 2, 1, 3))
	assert.False(t, clear.HasObjects)
	assert.False(t, clear.ProjectedHitObject)
	assert.Greater(t, clear.ProjectedDistance, 40.0)

	tel := record(6, 0, 0, 1, 2, 2, 3)
	tel.ObjectsLocation = [][2]float64{{20, 0}}
	tel.ObjectsLeftOfCenter = []bool{false}
	s := process(t, e, tel)
	assert.True(t, s.HasObjects)
	assert.True(t, s.ProjectedHitObject)
	assert.Less(t, s.ProjectedDistance, 14.0)
	assert.InDelta(t, 14.0, s.DistanceToFrontObject, 1e-9)
	assert.Equal(t, 0, s.ObjectPassedStep, "first sighting is not a pass")

	tel = record(6, 0, 0, 1, 2, 3, 3)
	tel.ObjectsLocation = [][2]float64{{20, 0}, {30, 0.5}}
	tel.ObjectsLeftOfCenter = []bool{false, true}
	tel.ClosestObjects = [2]int{0, 0}
	s = process(t, e, tel)
	assert.Equal(t, 0, s.ObjectPassedStep)

	tel.ClosestObjects = [2]int{0, 1}
	tel.Steps = 4
	s = process(t, e, tel)
	assert.Equal(t, 4, s.ObjectPassedStep)
	assert.True(t, s.FrontObjectIsLeftOfCenter)
	assert.False(t, s.RearObjectIsLeftOfCenter)

	tel.Steps = 5
	s = process(t, e, tel)
	assert.Equal(t, 4, s.ObjectPassedStep, "kept until the front object changes again")
}

func TestConfigureAppliesNextEpisode(t *testing.T) {
	e := NewEpisodeState(DefaultConfig())
	process(t, e, record(1, 0, 0, 0, 1, 1, 0))
	process(t, e, record(1.2, 0, 0, 0, 1, 2, 0.1))
	process(t, e, record(1.4, 0, 0, 0, 1, 3, 0.2))

	cfg := DefaultConfig()
	cfg.StepsPerSecond = 30
	e.Configure(cfg)
	assert.Equal(t, 15.0, e.Config().StepsPerSecond)

	s := process(t, e, record(1, 0, 0, 0, 1, 1, 0))
	assert.Equal(t, 30.0, e.Config().StepsPerSecond)
	assert.InDelta(t, 1.0/30, s.ElapsedTime, 1e-12)
}

func TestCustomDetector(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Detector = func(step int, historyLen int) bool { return false }
	e := NewEpisodeState(cfg)
	process(t, e, record(1, 0, 0, 0, 1, 5, 0))
	process(t, e, record(1.2, 0, 0, 0, 1, 6, 0.1))
	process(t, e, record(1.4, 0, 0, 0, 1, 7, 0.2))
	process(t, e, record(1, 0, 0, 0, 1, 1, 0))
	assert.Equal(t, 4, e.HistoryLen())
}

func TestScoreFunc(t *testing.T) {
	var score ScoreFunc = func(s Snapshot) float64 { return s.Progress * 2 }
	e := NewEpisodeState(DefaultConfig())
	s := process(t, e, record(1, 0, 0, 0, 1, 1, 3))
	assert.Equal(t, 6.0, score(s))
}

func TestSnapshotDoesNotAliasState(t *testing.T) {
	e := NewEpisodeState(DefaultConfig())
	process(t, e, record(1, 0, 0, 0, 1, 1, 0.5))
	s := process(t, e, record(6, 0, 0, 1, 2, 5, 3))
	s.FirstCrossings[1] = 99

	next := process(t, e, record(7, 0, 0, 1, 2, 6, 3.5))
	step, ok := next.WaypointStep(1)
	require.True(t, ok)
	assert.Equal(t, 5, step)
}
