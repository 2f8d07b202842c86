package main

import (
	"encoding/json"
	"log/slog"

	"github.com/pkg/errors"

	"pfeifer.dev/trackd/cereal"
	"pfeifer.dev/trackd/params"
	"pfeifer.dev/trackd/recorder"
	"pfeifer.dev/trackd/settings"
	"pfeifer.dev/trackd/telemetry"
	"pfeifer.dev/trackd/utils"
)

// engine owns the episode state of the daemon along with everything that
// hangs off a processed step: recording, the last episode param and the
// loop rate.
type engine struct {
	settings   *settings.EngineSettings
	state      *telemetry.EpisodeState
	rec        *recorder.Recorder
	recordPath string
	tracker    utils.UpdateTracker
	episode    utils.TrackedState[string]
	last       telemetry.Snapshot
}

func newEngine(s *settings.EngineSettings) *engine {
	e := &engine{
		settings: s,
		state:    telemetry.NewEpisodeState(s.EngineConfig()),
	}
	e.tracker.Init(settings.RATE_AVERAGE_LENGTH)
	e.openRecorder()
	return e
}

func (e *engine) openRecorder() {
	if e.settings.RecordPath == e.recordPath && (e.rec != nil || e.recordPath == "") {
		return
	}
	e.closeRecorder()
	e.recordPath = e.settings.RecordPath
	if e.recordPath == "" {
		return
	}
	// the host scores steps itself, replay --score stores built in scores
	rec, err := recorder.Open(e.recordPath, nil)
	if err != nil {
		utils.Loge(err, "path", e.recordPath)
		return
	}
	slog.Info("recording metrics", "path", e.recordPath)
	e.rec = rec
}

func (e *engine) closeRecorder() {
	if e.rec != nil {
		utils.Loge(errors.Wrap(e.rec.Close(), "could not close recorder"))
		e.rec = nil
	}
}

func (e *engine) Close() {
	e.saveLastEpisode()
	e.closeRecorder()
}

func (e *engine) Process(t telemetry.Telemetry) (telemetry.Snapshot, error) {
	snap, err := e.state.Process(t)
	if err != nil {
		return snap, errors.Wrap(err, "could not process telemetry")
	}
	e.tracker.Update()

	if e.episode.Update(snap.EpisodeID, snap.Step) {
		e.saveLastEpisode()
	}
	e.last = snap

	if e.rec != nil {
		utils.Logwe(e.rec.Record(snap), "episode", snap.EpisodeID, "step", snap.Step)
	}
	return snap, nil
}

// saveLastEpisode persists a summary of the most recently finished step's
// episode.
func (e *engine) saveLastEpisode() {
	if e.last.EpisodeID == "" {
		return
	}
	data, err := json.Marshal(recorder.Summarize(e.last))
	if err != nil {
		utils.Loge(errors.Wrap(err, "could not marshal episode summary"))
		return
	}
	utils.Loge(params.PutParam(params.LAST_EPISODE, data))
}

func (e *engine) Control(c cereal.Control) {
	slog.Debug("control", "type", c.Type)
	if e.settings.Handle(c) {
		e.state.Configure(e.settings.EngineConfig())
	}
	e.openRecorder()
}

func (e *engine) Status() (cereal.Status, error) {
	data, err := e.settings.Marshal()
	return cereal.Status{
		Settings:   string(data),
		EpisodeID:  e.state.EpisodeID(),
		Step:       e.last.Step,
		HistoryLen: e.state.HistoryLen(),
		Rate:       e.tracker.Rate(),
	}, err
}
