package history

import (
	"gonum.org/v1/gonum/floats"

	m "pfeifer.dev/trackd/math"
)

// Step is one processed telemetry record. Steps are never modified once
// appended.
type Step struct {
	Step               int
	Position           m.Point
	Progress           float64
	Speed              float64
	SteeringAngle      float64
	PreviousWaypointID int
	// Distance travelled since the previous step, zero for the first step.
	Distance float64
}

// History is the append-only step log of a single episode.
type History struct {
	steps []Step
	total float64
}

// DetectNewEpisode reports whether a step counter at or below 2 means the
// episode restarted. A low step with almost no history is treated as noise.
func DetectNewEpisode(step int, historyLen int) bool {
	return step <= 2 && historyLen > 2
}

// Append records a step, filling in the distance from the previous one.
func (h *History) Append(s Step) Step {
	if len(h.steps) == 0 {
		s.Distance = 0
	} else {
		s.Distance = m.Distance(h.steps[len(h.steps)-1].Position, s.Position)
	}
	h.steps = append(h.steps, s)
	h.total += s.Distance
	return s
}

func (h *History) Len() int {
	return len(h.steps)
}

func (h *History) Reset() {
	h.steps = nil
	h.total = 0
}

// Last returns the step i positions back from the newest, Last(0) being the
// newest itself.
func (h *History) Last(i int) (Step, bool) {
	if i < 0 || i >= len(h.steps) {
		return Step{}, false
	}
	return h.steps[len(h.steps)-1-i], true
}

// Window returns up to n intervals ending at the newest step, i.e. at most
// n+1 steps. The slice must not be modified.
func (h *History) Window(n int) []Step {
	if len(h.steps) == 0 {
		return nil
	}
	start := max(0, len(h.steps)-1-n)
	return h.steps[start:]
}

// Intervals is the number of step-to-step intervals in the window.
func Intervals(window []Step) int {
	return max(0, len(window)-1)
}

// WindowDistance sums the distances of every interval in the window.
func WindowDistance(window []Step) float64 {
	if len(window) < 2 {
		return 0
	}
	distances := make([]float64, 0, len(window)-1)
	for _, s := range window[1:] {
		distances = append(distances, s.Distance)
	}
	return floats.Sum(distances)
}

// WindowProgress is the progress gained across the window in percent.
func WindowProgress(window []Step) float64 {
	if len(window) < 2 {
		return 0
	}
	return window[len(window)-1].Progress - window[0].Progress
}

// TotalDistance is the distance travelled since the episode started.
func (h *History) TotalDistance() float64 {
	return h.total
}
