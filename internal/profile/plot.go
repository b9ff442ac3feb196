package profile

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// SaveProfilePlot renders the elevation profile to a PNG: accepted points as
// a scatter over distance, plus the fitted trend line when roughness stats
// are available. Points must be distance-sorted (the pipeline's normal
// output).
func SaveProfilePlot(points []ProfilePoint, result *AnalysisResult, path string) error {
	if len(points) == 0 {
		return fmt.Errorf("profile: no points to plot")
	}

	p := plot.New()
	p.Title.Text = "Elevation Profile"
	p.X.Label.Text = "Distance along profile (m)"
	p.Y.Label.Text = "Elevation (m)"

	pts := make(plotter.XYs, len(points))
	for i, pp := range points {
		pts[i] = plotter.XY{X: pp.Distance, Y: pp.Z}
	}

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("profile: build scatter: %w", err)
	}
	scatter.GlyphStyle.Radius = vg.Points(1.5)
	scatter.GlyphStyle.Color = color.RGBA{B: 200, A: 255}
	p.Add(scatter)
	p.Legend.Add("points", scatter)

	if result != nil && result.Roughness != nil {
		r := result.Roughness
		first := points[0].Distance
		last := points[len(points)-1].Distance
		trend := plotter.XYs{
			{X: first, Y: r.TrendIntercept + r.TrendSlope*first},
			{X: last, Y: r.TrendIntercept + r.TrendSlope*last},
		}
		trendLine, err := plotter.NewLine(trend)
		if err != nil {
			return fmt.Errorf("profile: build trend line: %w", err)
		}
		trendLine.Width = vg.Points(1.5)
		trendLine.Color = color.RGBA{R: 200, A: 255}
		trendLine.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(trendLine)
		p.Legend.Add("trend", trendLine)
	}

	if err := p.Save(10*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("profile: save plot: %w", err)
	}
	return nil
}
