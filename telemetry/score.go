package telemetry

import (
	"math"
	"slices"

	"github.com/pkg/errors"
)

// CenterLineScore rewards staying near the centerline in three bands of the
// track width.
func CenterLineScore(s Snapshot) float64 {
	switch {
	case s.DistanceFromCenter <= 0.1*s.TrackWidth:
		return 1
	case s.DistanceFromCenter <= 0.25*s.TrackWidth:
		return 0.5
	case s.DistanceFromCenter <= 0.5*s.TrackWidth:
		return 0.1
	}
	return 1e-3
}

// ProgressSpeedScore rewards progress speed, halved when the car skews hard
// and boosted when it runs straight, scaled by the room left to the edge.
func ProgressSpeedScore(s Snapshot) float64 {
	factor := s.ProgressSpeed
	if math.Abs(s.Skew) > 40 {
		factor /= 2
	} else if math.Abs(s.Skew) < 20 && math.Abs(s.Slide) < 15 {
		factor++
	}
	factor = min(5, factor)
	return min(1000, math.Pow(s.DistanceFromExtremeEdge*10, factor))
}

var scores = map[string]ScoreFunc{
	"center":   CenterLineScore,
	"progress": ProgressSpeedScore,
}

// ScoreNames lists the built in score functions.
func ScoreNames() []string {
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ScoreByName returns a built in score function. The empty name means no
// scoring and returns nil.
func ScoreByName(name string) (ScoreFunc, error) {
	if name == "" {
		return nil, nil
	}
	score, ok := scores[name]
	if !ok {
		return nil, errors.Errorf("unknown score %q, expected one of %v", name, ScoreNames())
	}
	return score, nil
}
