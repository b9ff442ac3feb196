package api

import (
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/terrain.report/internal/httputil"
	"github.com/banshee-data/terrain.report/internal/profiledb"
)

// renderRunChart renders an HTML page with the elevation profile (and trend
// line when roughness stats exist) plus a residual chart, using go-echarts.
func (s *Server) renderRunChart(w http.ResponseWriter, rec *profiledb.RunRecord) {
	if len(rec.Points) == 0 {
		httputil.NotFound(w, "run has no points to chart")
		return
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Elevation Profile",
			Width:     "1100px",
			Height:    "450px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Elevation Profile",
			Subtitle: fmt.Sprintf("run=%s points=%d buffer=%.1fm", rec.RunID, len(rec.Points), rec.BufferM),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "Distance (m)"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "Elevation (m)", Scale: opts.Bool(true)}),
	)

	pts := make([]opts.ScatterData, 0, len(rec.Points))
	for _, p := range rec.Points {
		pts = append(pts, opts.ScatterData{Value: []interface{}{p.Distance, p.Z}, SymbolSize: 5})
	}
	scatter.AddSeries("points", pts)

	if r := rec.Result.Roughness; r != nil {
		first := rec.Points[0].Distance
		last := rec.Points[len(rec.Points)-1].Distance
		trend := charts.NewLine()
		trend.AddSeries("trend", []opts.LineData{
			{Value: []interface{}{first, r.TrendIntercept + r.TrendSlope*first}},
			{Value: []interface{}{last, r.TrendIntercept + r.TrendSlope*last}},
		})
		scatter.Overlap(trend)
	}

	page := components.NewPage()
	page.AddCharts(scatter)

	if r := rec.Result.Roughness; r != nil {
		deviations := charts.NewBar()
		deviations.SetGlobalOptions(
			charts.WithInitializationOpts(opts.Initialization{Width: "1100px", Height: "300px"}),
			charts.WithTitleOpts(opts.Title{
				Title:    "Trend Deviations",
				Subtitle: fmt.Sprintf("roughness index %.3f m", r.RoughnessIndex),
			}),
			charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "Deviation (m)"}),
		)

		labels := make([]string, len(rec.Points))
		bars := make([]opts.BarData, len(r.Deviations))
		for i := range r.Deviations {
			labels[i] = fmt.Sprintf("%.1f", rec.Points[i].Distance)
			bars[i] = opts.BarData{Value: r.Deviations[i]}
		}
		deviations.SetXAxis(labels).AddSeries("deviation", bars)
		page.AddCharts(deviations)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(w); err != nil {
		httputil.InternalServerError(w, "failed to render chart: "+err.Error())
	}
}
