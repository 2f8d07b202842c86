package cereal

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "pfeifer.dev/trackd/math"
)

func sampleTelemetry() Telemetry {
	return Telemetry{
		X:                   1.5,
		Y:                   -2.25,
		Heading:             91,
		AllWheelsOnTrack:    true,
		ClosestWaypoints:    [2]int{3, 4},
		DistanceFromCenter:  0.12,
		IsLeftOfCenter:      true,
		IsReversed:          true,
		Steps:               17,
		Progress:            12.5,
		Waypoints:           [][2]float64{{0, 0}, {1, 0}, {2, 1}, {2, 3}, {0, 3}},
		TrackLength:         9.5,
		TrackWidth:          0.76,
		Speed:               2.5,
		SteeringAngle:       -15,
		ObjectsLocation:     [][2]float64{{2, 0.5}, {1, 3}},
		ObjectsLeftOfCenter: []bool{false, true},
		ClosestObjects:      [2]int{1, 0},
	}
}

func TestTelemetryFrame(t *testing.T) {
	in := sampleTelemetry()
	data, err := Marshal(in, true, TelemetryEncoder)
	require.NoError(t, err)

	out, valid, err := Unmarshal(data, TelemetryReader)
	require.NoError(t, err)
	assert.True(t, valid)
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("telemetry changed on the wire (-want +got):\n%s", diff)
	}
}

func TestMetricsFrame(t *testing.T) {
	in := Snapshot{
		EpisodeID:          "b4a3b0a4-7d3e-4c55-9b8e-0d8a3c2b1f00",
		Step:               42,
		Position:           m.NewPoint(3, 4),
		ClosestWaypointID:  7,
		FrontObjectID:      -1,
		RearObjectID:       -1,
		Skew:               -12.5,
		MaxSkew:            -30,
		ProjectedDistance:  4.25,
		ProjectedHitObject: true,
		IsSteeringLeft:     true,
		WaypointsPassed:    []int{6, 7},
		FirstCrossings:     []int{0, 3, 9, 0},
	}
	data, err := Marshal(in, false, MetricsEncoder)
	require.NoError(t, err)

	out, valid, err := Unmarshal(data, MetricsReader)
	require.NoError(t, err)
	assert.False(t, valid)
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("metrics changed on the wire (-want +got):\n%s", diff)
	}
	step, ok := out.WaypointStep(2)
	require.True(t, ok)
	assert.Equal(t, 9, step)
}

func TestControlAndStatusFrames(t *testing.T) {
	control := Control{Type: ControlType_setLogLevel, Str: "debug", Float: 1.5, Bool: true}
	data, err := Marshal(control, true, ControlEncoder)
	require.NoError(t, err)
	gotControl, _, err := Unmarshal(data, ControlReader)
	require.NoError(t, err)
	assert.Equal(t, control, gotControl)
	assert.Equal(t, "setLogLevel", gotControl.Type.String())

	status := Status{Settings: `{"log_level":"info"}`, EpisodeID: "abc", Step: 3, HistoryLen: 3, Rate: 14.9}
	data, err = Marshal(status, true, StatusEncoder)
	require.NoError(t, err)
	gotStatus, _, err := Unmarshal(data, StatusReader)
	require.NoError(t, err)
	assert.Equal(t, status, gotStatus)
}

func TestReaderRejectsOtherPayload(t *testing.T) {
	data, err := Marshal(Control{Type: ControlType_saveSettings}, true, ControlEncoder)
	require.NoError(t, err)
	_, _, err = Unmarshal(data, MetricsReader)
	assert.Error(t, err)

	_, _, err = Unmarshal([]byte{1, 2, 3}, ControlReader)
	assert.Error(t, err)
}

func TestLayoutSize(t *testing.T) {
	size := metricsLayout.size()
	assert.Zero(t, size.DataSize%8)
	assert.GreaterOrEqual(t, uint32(size.DataSize), metricsLayout.boolBase()/8+2)
	assert.Equal(t, uint16(3), size.PointerCount)
}
