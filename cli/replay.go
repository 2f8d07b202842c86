package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"

	"pfeifer.dev/trackd/recorder"
	"pfeifer.dev/trackd/telemetry"
)

// records can carry a few thousand waypoints
const maxRecordSize = 16 * 1024 * 1024

type replaySettings struct {
	InputFile string
	Database  string
	Score     string
	JSON      bool
	Config    telemetry.Config
	Output    io.Writer
}

type replaySummary struct {
	Records  int
	Rejected int
	Episodes int
}

func replay(ctx context.Context, s replaySettings) error {
	f, err := os.Open(s.InputFile)
	if err != nil {
		return errors.Wrap(err, "could not open replay input")
	}
	defer f.Close()

	score, err := telemetry.ScoreByName(s.Score)
	if err != nil {
		return err
	}
	if score != nil && s.Database == "" {
		return errors.New("scores are only stored with a recorder database")
	}

	var rec *recorder.Recorder
	if s.Database != "" {
		rec, err = recorder.Open(s.Database, score)
		if err != nil {
			return err
		}
		defer rec.Close()
	}

	summary, err := replayRecords(ctx, f, s, rec)
	if err != nil {
		return err
	}
	if !s.JSON {
		fmt.Fprintf(s.Output, "%d records, %d rejected, %d episodes\n", summary.Records, summary.Rejected, summary.Episodes)
	}
	return nil
}

func replayRecords(ctx context.Context, r io.Reader, s replaySettings, rec *recorder.Recorder) (summary replaySummary, err error) {
	state := telemetry.NewEpisodeState(s.Config)
	enc := json.NewEncoder(s.Output)
	lastEpisode := ""

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordSize)
	line := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		line++
		data := scanner.Bytes()
		if len(data) == 0 {
			continue
		}
		summary.Records++

		t, err := telemetry.DecodeJSON(data)
		if err != nil {
			summary.Rejected++
			slog.Warn("skipping record", "line", line, "error", err)
			continue
		}
		snap, err := state.Process(t)
		if err != nil {
			summary.Rejected++
			slog.Warn("skipping record", "line", line, "error", err)
			continue
		}
		if snap.EpisodeID != lastEpisode {
			lastEpisode = snap.EpisodeID
			summary.Episodes++
		}

		if rec != nil {
			if err := rec.Record(snap); err != nil {
				return summary, err
			}
		}

		if s.JSON {
			if err := enc.Encode(snap); err != nil {
				return summary, errors.Wrap(err, "could not write snapshot")
			}
			continue
		}
		fmt.Fprintf(s.Output, "%5d %6.2f%% speed %5.2f skew %6.1f projected %6.2f\n",
			snap.Step, snap.Progress, snap.TrackSpeed, snap.Skew, snap.ProjectedDistance)
	}
	return summary, errors.Wrap(scanner.Err(), "could not read replay input")
}
