package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pfeifer.dev/trackd/cereal"
)

var (
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	labelStyle = lipgloss.NewStyle().Bold(true)
)

type outputModel struct {
	output cereal.Snapshot
	valid  bool
}

func (m outputModel) Update(msg tea.Msg, mm *uiModel) (outputModel, tea.Cmd) {
	out, success := mm.sub.Read()
	if success {
		m.valid = true
		m.output = out
	}

	return m, nil
}

func (m outputModel) View() string {
	if !m.valid {
		return docStyle.Render("waiting for metrics...") + "\n"
	}
	return docStyle.Render(snapshotView(m.output)) + "\n"
}

func snapshotView(s cereal.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("episode:"), s.EpisodeID)
	fmt.Fprintf(&b, "step: %d  elapsed: %.2fs  progress: %.2f%%\n", s.Step, s.ElapsedTime, s.Progress)
	fmt.Fprintf(&b, "predicted lap: %.2fs  distance: %.2fm\n", s.PredictedLapTime, s.TotalDistance)
	fmt.Fprintf(&b, "track speed: %.2f  progress speed: %.2f  action speed: %.2f\n", s.TrackSpeed, s.ProgressSpeed, s.ActionSpeed)
	fmt.Fprintf(&b, "heading: %.1f  true bearing: %.1f  track bearing: %.1f\n", s.Heading, s.TrueBearing, s.TrackBearing)
	fmt.Fprintf(&b, "skew: %.1f (max %.1f)  slide: %.1f (max %.1f)\n", s.Skew, s.MaxSkew, s.Slide, s.MaxSlide)
	fmt.Fprintf(&b, "waypoints: prev %d next %d closest %d  passed %v\n", s.PreviousWaypointID, s.NextWaypointID, s.ClosestWaypointID, s.WaypointsPassed)
	fmt.Fprintf(&b, "from center: %.3f  from edge: %.3f  curvature: %.4f\n", s.DistanceFromCenter, s.DistanceFromEdge, s.TrackCurvature)
	fmt.Fprintf(&b, "projected distance: %.2f", s.ProjectedDistance)
	if s.ProjectedHitObject {
		b.WriteString(warnStyle.Render("  object ahead"))
	}
	b.WriteString("\n")
	if s.HasObjects {
		fmt.Fprintf(&b, "front object: %d at %.2fm  rear object: %d\n", s.FrontObjectID, s.DistanceToFrontObject, s.RearObjectID)
	}
	if s.IsOffTrack {
		b.WriteString(warnStyle.Render("off track"))
		b.WriteString("\n")
	}
	if s.IsCrashed {
		b.WriteString(warnStyle.Render("crashed"))
		b.WriteString("\n")
	}
	return b.String()
}
