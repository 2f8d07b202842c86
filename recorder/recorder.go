package recorder

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"pfeifer.dev/trackd/telemetry"
)

// Recorder writes snapshots to a sqlite database, one row per step and a
// running summary per episode.
type Recorder struct {
	*sql.DB
	score telemetry.ScoreFunc
}

type EpisodeSummary struct {
	EpisodeID     string  `json:"episode_id"`
	Steps         int     `json:"steps"`
	Progress      float64 `json:"progress"`
	MaxSkew       float64 `json:"max_skew"`
	MaxSlide      float64 `json:"max_slide"`
	TotalDistance float64 `json:"total_distance"`
}

// Summarize is the episode row a snapshot leaves behind.
func Summarize(s telemetry.Snapshot) EpisodeSummary {
	return EpisodeSummary{
		EpisodeID:     s.EpisodeID,
		Steps:         s.Step,
		Progress:      s.Progress,
		MaxSkew:       s.MaxSkew,
		MaxSlide:      s.MaxSlide,
		TotalDistance: s.TotalDistance,
	}
}

const schema = `
	CREATE TABLE IF NOT EXISTS episodes (
		episode_id TEXT PRIMARY KEY,
		steps INTEGER,
		progress DOUBLE,
		max_skew DOUBLE,
		max_slide DOUBLE,
		total_distance DOUBLE,
		started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS steps (
		episode_id TEXT,
		step INTEGER,
		x DOUBLE,
		y DOUBLE,
		progress DOUBLE,
		track_speed DOUBLE,
		progress_speed DOUBLE,
		true_bearing DOUBLE,
		skew DOUBLE,
		slide DOUBLE,
		projected_distance DOUBLE,
		projected_hit_object BOOLEAN,
		waypoints_passed TEXT,
		score DOUBLE,
		timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(episode_id) REFERENCES episodes(episode_id)
	);
	CREATE INDEX IF NOT EXISTS steps_episode ON steps (episode_id, step);
`

// Open creates the database and its tables when missing. score may be nil,
// steps are then stored without a score.
func Open(path string, score telemetry.ScoreFunc) (*Recorder, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o775); err != nil {
			return nil, errors.Wrap(err, "could not create recorder directory")
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open recorder database")
	}

	_, err = db.Exec(schema)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "could not create recorder tables")
	}

	return &Recorder{DB: db, score: score}, nil
}

func (r *Recorder) Record(s telemetry.Snapshot) error {
	passed, err := json.Marshal(s.WaypointsPassed)
	if err != nil {
		return errors.Wrap(err, "could not encode waypoints passed")
	}
	score := sql.NullFloat64{}
	if r.score != nil {
		score.Float64 = r.score(s)
		score.Valid = true
	}

	tx, err := r.Begin()
	if err != nil {
		return errors.Wrap(err, "could not begin record transaction")
	}
	defer tx.Rollback()

	e := Summarize(s)
	_, err = tx.Exec(`
		INSERT INTO episodes (episode_id, steps, progress, max_skew, max_slide, total_distance)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(episode_id) DO UPDATE SET
			steps = excluded.steps,
			progress = excluded.progress,
			max_skew = excluded.max_skew,
			max_slide = excluded.max_slide,
			total_distance = excluded.total_distance`,
		e.EpisodeID, e.Steps, e.Progress, e.MaxSkew, e.MaxSlide, e.TotalDistance)
	if err != nil {
		return errors.Wrap(err, "could not record episode")
	}

	_, err = tx.Exec(`
		INSERT INTO steps (episode_id, step, x, y, progress, track_speed, progress_speed,
			true_bearing, skew, slide, projected_distance, projected_hit_object, waypoints_passed, score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.EpisodeID, s.Step, s.Position.X, s.Position.Y, s.Progress, s.TrackSpeed, s.ProgressSpeed,
		s.TrueBearing, s.Skew, s.Slide, s.ProjectedDistance, s.ProjectedHitObject, string(passed), score)
	if err != nil {
		return errors.Wrap(err, "could not record step")
	}

	return errors.Wrap(tx.Commit(), "could not commit record")
}

func (r *Recorder) Episodes() ([]EpisodeSummary, error) {
	rows, err := r.Query(`
		SELECT episode_id, steps, progress, max_skew, max_slide, total_distance
		FROM episodes ORDER BY started_at, rowid`)
	if err != nil {
		return nil, errors.Wrap(err, "could not query episodes")
	}
	defer rows.Close()

	episodes := []EpisodeSummary{}
	for rows.Next() {
		e := EpisodeSummary{}
		if err := rows.Scan(&e.EpisodeID, &e.Steps, &e.Progress, &e.MaxSkew, &e.MaxSlide, &e.TotalDistance); err != nil {
			return nil, errors.Wrap(err, "could not scan episode")
		}
		episodes = append(episodes, e)
	}
	return episodes, errors.Wrap(rows.Err(), "could not read episodes")
}

// StepScores returns the recorded scores of an episode in step order. Steps
// recorded without a score are skipped.
func (r *Recorder) StepScores(episodeID string) ([]float64, error) {
	rows, err := r.Query(`SELECT score FROM steps WHERE episode_id = ? AND score IS NOT NULL ORDER BY step`, episodeID)
	if err != nil {
		return nil, errors.Wrap(err, "could not query step scores")
	}
	defer rows.Close()

	scores := []float64{}
	for rows.Next() {
		var score float64
		if err := rows.Scan(&score); err != nil {
			return nil, errors.Wrap(err, "could not scan step score")
		}
		scores = append(scores, score)
	}
	return scores, errors.Wrap(rows.Err(), "could not read step scores")
}
