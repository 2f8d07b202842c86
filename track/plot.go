package track

import (
	"image/color"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	m "pfeifer.dev/trackd/math"
)

var (
	centerColor = color.RGBA{R: 120, G: 120, B: 120, A: 255}
	leftColor   = color.RGBA{R: 30, G: 100, B: 220, A: 255}
	rightColor  = color.RGBA{R: 220, G: 60, B: 40, A: 255}
)

// PlotCorridor renders the centerline and safe corridor edges to an image
// file. The format follows the file extension.
func PlotCorridor(t *Track, overhang float64, path string) error {
	corridor := t.Corridor(overhang)
	n := len(corridor)
	if n == 0 {
		return errors.New("track has no waypoints")
	}

	center := make(plotter.XYs, 0, n+1)
	left := make(plotter.XYs, 0, n+1)
	right := make(plotter.XYs, 0, n+1)
	for i := 0; i <= n; i++ {
		pw := corridor[i%n]
		center = append(center, plotter.XY{X: pw.Center.X, Y: pw.Center.Y})
		left = append(left, plotter.XY{X: pw.Left.X, Y: pw.Left.Y})
		right = append(right, plotter.XY{X: pw.Right.X, Y: pw.Right.Y})
	}

	p := plot.New()
	p.Title.Text = t.Name
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"

	for _, series := range []struct {
		name  string
		xys   plotter.XYs
		color color.Color
	}{
		{"centerline", center, centerColor},
		{"left edge", left, leftColor},
		{"right edge", right, rightColor},
	} {
		line, err := plotter.NewLine(series.xys)
		if err != nil {
			return errors.Wrapf(err, "could not build %s line", series.name)
		}
		line.Color = series.color
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(series.name, line)
	}

	// keep the aspect ratio square so corners are not distorted
	bounds := t.Bounds()
	b := bounds.Overlap(t.Width + overhang)
	span := max(b.Width(), b.Height()) / 2
	mid := b.MinPos.Add(b.MaxPos).Scale(0.5)
	square := m.Box{MinPos: m.NewPoint(mid.X-span, mid.Y-span), MaxPos: m.NewPoint(mid.X+span, mid.Y+span)}
	p.X.Min, p.X.Max = square.MinPos.X, square.MaxPos.X
	p.Y.Min, p.Y.Max = square.MinPos.Y, square.MaxPos.Y

	return errors.Wrap(p.Save(8*vg.Inch, 8*vg.Inch, path), "could not save corridor plot")
}
