package cereal

import (
	"github.com/pkg/errors"
)

// Status is published by the daemon alongside metrics so tools can show the
// active settings and loop health.
type Status struct {
	Settings   string
	EpisodeID  string
	Step       int
	HistoryLen int
	Rate       float64
}

var statusLayout = layout[Status]{
	floats: []func(*Status) *float64{
		func(s *Status) *float64 { return &s.Rate },
	},
	ints: []func(*Status) *int{
		func(s *Status) *int { return &s.Step },
		func(s *Status) *int { return &s.HistoryLen },
	},
	// settings, episode id
	pointers: 2,
}

func StatusEncoder(evt Event, s Status) error {
	st, err := evt.newPayload(EventWhich_status, statusLayout.size())
	if err != nil {
		return err
	}
	statusLayout.write(st, &s)
	if err := st.SetText(0, s.Settings); err != nil {
		return errors.Wrap(err, "could not set settings")
	}
	return errors.Wrap(st.SetText(1, s.EpisodeID), "could not set episode id")
}

func StatusReader(evt Event) (s Status, err error) {
	st, err := evt.payload(EventWhich_status)
	if err != nil {
		return s, err
	}
	statusLayout.read(st, &s)
	if s.Settings, err = text(st, 0); err != nil {
		return s, errors.Wrap(err, "could not read settings")
	}
	s.EpisodeID, err = text(st, 1)
	return s, errors.Wrap(err, "could not read episode id")
}
