package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCenterLineScore(t *testing.T) {
	cases := []struct {
		distance float64
		want     float64
	}{
		{0, 1},
		{0.1, 1},
		{0.2, 0.5},
		{0.4, 0.1},
		{0.6, 1e-3},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CenterLineScore(Snapshot{TrackWidth: 1, DistanceFromCenter: c.distance}), "distance %v", c.distance)
	}
}

func TestProgressSpeedScore(t *testing.T) {
	straight := Snapshot{ProgressSpeed: 1, DistanceFromExtremeEdge: 0.3}
	// factor 1+1 for a straight run, 3^2
	assert.InDelta(t, 9.0, ProgressSpeedScore(straight), 1e-9)

	skewed := straight
	skewed.Skew = 50
	// factor halves to 0.5, 3^0.5
	assert.InDelta(t, 1.7320508075688772, ProgressSpeedScore(skewed), 1e-9)

	fast := Snapshot{ProgressSpeed: 10, DistanceFromExtremeEdge: 1}
	assert.Equal(t, 1000.0, ProgressSpeedScore(fast))
}

func TestScoreByName(t *testing.T) {
	score, err := ScoreByName("")
	require.NoError(t, err)
	assert.Nil(t, score)

	score, err = ScoreByName("center")
	require.NoError(t, err)
	assert.Equal(t, 1.0, score(Snapshot{TrackWidth: 1}))

	_, err = ScoreByName("fastest")
	assert.ErrorContains(t, err, "center")
	assert.Equal(t, []string{"center", "progress"}, ScoreNames())
}
