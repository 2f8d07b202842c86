package telemetry

import (
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"pfeifer.dev/trackd/history"
	m "pfeifer.dev/trackd/math"
	"pfeifer.dev/trackd/projection"
	"pfeifer.dev/trackd/track"
	u "pfeifer.dev/trackd/utils"
)

// EpisodeState carries everything the engine remembers between steps of one
// episode. It is not safe for concurrent use; run one per episode.
type EpisodeState struct {
	config  Config
	pending *Config

	id       string
	started  bool
	track    *track.Track
	corridor []track.ProcessedWaypoint
	history  history.History

	trueBearing    float64
	maxSkew        float64
	maxSlide       float64
	actionSequence int
	frontObject    u.TrackedState[int]
	firstCrossings []int
}

func NewEpisodeState(cfg Config) *EpisodeState {
	return &EpisodeState{config: cfg.withDefaults()}
}

// Configure replaces the configuration once the next episode starts.
func (e *EpisodeState) Configure(cfg Config) {
	cfg = cfg.withDefaults()
	e.pending = &cfg
}

func (e *EpisodeState) Config() Config {
	return e.config
}

func (e *EpisodeState) EpisodeID() string {
	return e.id
}

func (e *EpisodeState) HistoryLen() int {
	return e.history.Len()
}

func (e *EpisodeState) Track() *track.Track {
	return e.track
}

func (e *EpisodeState) reset(t *Telemetry, step int) {
	if e.pending != nil {
		e.config = *e.pending
		e.pending = nil
	}
	previous := e.id
	e.id = uuid.New().String()
	e.started = true
	e.track = track.New(t.WaypointPoints(), t.TrackWidth, t.TrackLength)
	e.corridor = e.track.Corridor(e.config.Overhang())
	e.history.Reset()
	e.trueBearing = t.Heading
	e.maxSkew = 0
	e.maxSlide = 0
	e.actionSequence = 0
	e.frontObject.Reset()
	e.firstCrossings = make([]int, e.track.Len())
	slog.Debug("new episode", "id", e.id, "previous", previous, "step", step, "waypoints", e.track.Len())
}

// Process derives the metrics for one telemetry record and records it in the
// episode history. Errors are only returned for records that fail validation;
// the state is left untouched in that case.
func (e *EpisodeState) Process(t Telemetry) (Snapshot, error) {
	if err := t.Validate(); err != nil {
		return Snapshot{}, err
	}
	step := NormalizeSteps(t.Steps)
	if !e.started || e.config.Detector(step, e.history.Len()) || len(t.Waypoints) != e.track.Len() {
		e.reset(&t, step)
	}
	tr := e.track
	cfg := e.config
	pos := t.Position()

	s := Snapshot{
		EpisodeID:           e.id,
		Step:                step,
		Position:            pos,
		Heading:             t.Heading,
		AllWheelsOnTrack:    t.AllWheelsOnTrack,
		IsCrashed:           t.IsCrashed,
		IsOffTrack:          t.IsOffTrack,
		IsReversed:          t.IsReversed,
		DistanceFromCenter:  t.DistanceFromCenter,
		IsLeftOfCenter:      t.IsLeftOfCenter,
		IsRightOfCenter:     !t.IsLeftOfCenter,
		TrackLength:         tr.Length(),
		TrackWidth:          t.TrackWidth,
		ActionSpeed:         t.Speed,
		ActionSteeringAngle: t.SteeringAngle,
		Progress:            t.Progress,
		ElapsedTime:         float64(step) / cfg.StepsPerSecond,
		FrontObjectID:       -1,
		RearObjectID:        -1,
	}

	// waypoints
	s.PreviousWaypointID = t.ClosestWaypoints[0]
	s.NextWaypointID = t.ClosestWaypoints[1]
	s.PreviousWaypoint = tr.Waypoint(s.PreviousWaypointID)
	s.NextWaypoint = tr.Waypoint(s.NextWaypointID)
	toPrevious := m.Distance(pos, s.PreviousWaypoint)
	toNext := m.Distance(pos, s.NextWaypoint)
	if toPrevious < toNext {
		s.ClosestWaypointID, s.ClosestWaypoint, s.DistanceFromClosestWaypoint = s.PreviousWaypointID, s.PreviousWaypoint, toPrevious
	} else {
		s.ClosestWaypointID, s.ClosestWaypoint, s.DistanceFromClosestWaypoint = s.NextWaypointID, s.NextWaypoint, toNext
	}

	// lateral position
	halfWidth := t.TrackWidth / 2
	s.DistanceFromEdge = max(0, halfWidth-t.DistanceFromCenter)
	s.DistanceFromExtremeEdge = max(0, halfWidth+cfg.VehicleWidth/2-t.DistanceFromCenter)

	// steering
	switch {
	case m.Abs(t.SteeringAngle) < STRAIGHT_STEERING:
		s.IsSteeringStraight = true
	case t.SteeringAngle > 0:
		s.IsSteeringLeft = true
	default:
		s.IsSteeringRight = true
	}

	if t.Progress > 0 {
		s.PredictedLapTime = (100 / t.Progress) * float64(step) / cfg.StepsPerSecond
	}

	s.TrackBearing = tr.SegmentBearing(s.PreviousWaypointID, s.NextWaypointID)
	s.TrackCurvature = tr.Curvature(s.ClosestWaypointID)

	e.updateHistory(&s, &t)

	s.Skew = m.Turn(s.TrackBearing, s.TrueBearing)
	s.Slide = m.Turn(s.Heading, s.TrueBearing)
	e.maxSkew = m.AbsMax(e.maxSkew, s.Skew)
	e.maxSlide = m.AbsMax(e.maxSlide, s.Slide)
	s.MaxSkew = e.maxSkew
	s.MaxSlide = e.maxSlide

	obstacles := e.updateObjects(&s, &t)

	res := projection.Project(projection.Input{
		Corridor:       e.corridor,
		Position:       pos,
		Bearing:        s.TrueBearing,
		NextWaypointID: s.NextWaypointID,
		TrackLength:    tr.Length(),
		Obstacles:      obstacles,
		FrontObstacle:  s.FrontObjectID,
		Box:            cfg.ObstacleBox(),
	})
	s.ProjectedDistance = res.Distance
	s.ProjectedHitObject = res.HitObstacle

	s.FirstCrossings = slices.Clone(e.firstCrossings)
	return s, nil
}

func (e *EpisodeState) updateHistory(s *Snapshot, t *Telemetry) {
	last, hadLast := e.history.Last(0)
	e.history.Append(history.Step{
		Step:               s.Step,
		Position:           s.Position,
		Progress:           t.Progress,
		Speed:              t.Speed,
		SteeringAngle:      t.SteeringAngle,
		PreviousWaypointID: s.PreviousWaypointID,
	})
	s.TotalDistance = e.history.TotalDistance()

	if hadLast && !last.Position.Equals(s.Position) && t.Progress-last.Progress >= MIN_PROGRESS_DELTA {
		e.trueBearing = m.Bearing(last.Position, s.Position)
	}
	s.TrueBearing = e.trueBearing

	if hadLast && last.Speed == t.Speed && last.SteeringAngle == t.SteeringAngle {
		e.actionSequence++
	} else {
		e.actionSequence = 1
	}
	s.ActionSequenceLength = e.actionSequence

	window := e.history.Window(e.config.SpeedWindow)
	if intervals := history.Intervals(window); intervals > 0 {
		elapsed := float64(intervals) / e.config.StepsPerSecond
		s.TrackSpeed = history.WindowDistance(window) / elapsed
		s.ProgressSpeed = max(0, history.WindowProgress(window)/100*s.TrackLength/elapsed)
	}

	if hadLast {
		s.WaypointsPassed = e.crossWaypoints(last.PreviousWaypointID, s.PreviousWaypointID, s.Step)
	}
}

// crossWaypoints records the waypoints between two consecutive previous
// waypoint ids. Gaps outside 1..MAX_WAYPOINT_GAP, after allowing for the lap
// wrapping, are not counted.
func (e *EpisodeState) crossWaypoints(from, to, step int) []int {
	n := len(e.firstCrossings)
	gap := to - from
	if gap < -MAX_WAYPOINT_GAP {
		gap += n
	}
	if gap < 1 || gap > MAX_WAYPOINT_GAP {
		if gap != 0 {
			slog.Debug("ignoring waypoint jump", "episode", e.id, "from", from, "to", to, "step", step)
		}
		return nil
	}
	passed := make([]int, 0, gap)
	for k := 1; k <= gap; k++ {
		id := (from + k) % n
		passed = append(passed, id)
		if e.firstCrossings[id] == 0 {
			e.firstCrossings[id] = step
		}
	}
	return passed
}

func (e *EpisodeState) updateObjects(s *Snapshot, t *Telemetry) []projection.Obstacle {
	if len(t.ObjectsLocation) == 0 {
		return nil
	}
	positions := t.ObjectPoints()
	obstacles := make([]projection.Obstacle, len(positions))
	for i, p := range positions {
		obstacles[i] = projection.Obstacle{Position: p, Heading: e.track.HeadingAt(p)}
	}

	s.HasObjects = true
	s.RearObjectID = t.ClosestObjects[0]
	s.FrontObjectID = t.ClosestObjects[1]
	s.RearObject = positions[s.RearObjectID]
	s.FrontObject = positions[s.FrontObjectID]
	s.RearObjectIsLeftOfCenter = t.ObjectsLeftOfCenter[s.RearObjectID]
	s.FrontObjectIsLeftOfCenter = t.ObjectsLeftOfCenter[s.FrontObjectID]
	s.DistanceToRearObject = m.Distance(s.Position, s.RearObject)
	s.DistanceToFrontObject = m.Distance(s.Position, s.FrontObject)

	e.frontObject.Update(s.FrontObjectID, s.Step)
	if e.frontObject.Value != e.frontObject.LastValue {
		s.ObjectPassedStep = e.frontObject.UpdatedStep
	}
	return obstacles
}
