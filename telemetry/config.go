package telemetry

import (
	"pfeifer.dev/trackd/history"
	"pfeifer.dev/trackd/projection"
)

const (
	// progress gained between steps, in percent, below which the car is
	// considered stalled and the true bearing is kept
	MIN_PROGRESS_DELTA = 0.05
	// steering angles below this many degrees count as straight
	STRAIGHT_STEERING = 0.01
	// waypoint gaps larger than this between steps are ignored
	MAX_WAYPOINT_GAP = 10
)

// EpisodeDetector decides from the step counter and the current history
// length whether a new episode has started.
type EpisodeDetector func(step int, historyLen int) bool

type Config struct {
	VehicleLength  float64
	VehicleWidth   float64
	StepsPerSecond float64
	// SpeedWindow is the number of step intervals speeds are averaged over.
	SpeedWindow    int
	ObstacleLength float64
	ObstacleWidth  float64
	Detector       EpisodeDetector
}

func DefaultConfig() Config {
	return Config{
		VehicleLength:  0.365,
		VehicleWidth:   0.225,
		StepsPerSecond: 15,
		SpeedWindow:    6,
		ObstacleLength: 0.24,
		ObstacleWidth:  0.38,
		Detector:       history.DetectNewEpisode,
	}
}

// Overhang is how far the car may hang past the track edge while still
// having wheels on it.
func (c Config) Overhang() float64 {
	return min(c.VehicleLength, c.VehicleWidth) / 2
}

func (c Config) ObstacleBox() projection.ObstacleBox {
	return projection.NewObstacleBox(c.ObstacleLength, c.ObstacleWidth, c.VehicleLength, c.VehicleWidth)
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.VehicleLength <= 0 {
		c.VehicleLength = d.VehicleLength
	}
	if c.VehicleWidth <= 0 {
		c.VehicleWidth = d.VehicleWidth
	}
	if c.StepsPerSecond <= 0 {
		c.StepsPerSecond = d.StepsPerSecond
	}
	if c.SpeedWindow <= 0 {
		c.SpeedWindow = d.SpeedWindow
	}
	if c.ObstacleLength <= 0 {
		c.ObstacleLength = d.ObstacleLength
	}
	if c.ObstacleWidth <= 0 {
		c.ObstacleWidth = d.ObstacleWidth
	}
	if c.Detector == nil {
		c.Detector = d.Detector
	}
	return c
}
