package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/coverage.report/internal/coverage"
	"github.com/banshee-data/coverage.report/internal/scenario"
)

// Series names used by Chart.
const (
	SeriesRequired = "required"
	SeriesStripe   = "failing stripe"
	SeriesCorner   = "uncovered corner"
)

// Chart builds an interactive line chart with distance on the x axis and
// light on the y axis. Each sensor is a closed outline; the required region
// is drawn last so it sits on top. A failing stripe or corner from rep is
// highlighted.
func Chart(s *scenario.Scenario, rep coverage.Report) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Coverage: " + s.Name, Width: "900px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{Title: s.Name, Subtitle: subtitle(rep)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "Distance", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "Light", NameLocation: "middle", NameGap: 30}),
	)

	colors := sensorColors(len(s.Sensors))
	for i, sensor := range s.Sensors {
		line.AddSeries(sensorLabel(i, sensor), lineData(outline(sensor.Region)),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: hexColor(colors[i]), Width: 2}),
		)
	}

	if rep.Stripe != nil {
		line.AddSeries(SeriesStripe, lineData(outline(stripeRegion(*rep.Stripe, rep.Lattice))),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: hexColor(failColor), Width: 2, Type: "dotted"}),
		)
	}
	if rep.Corner != nil {
		line.AddSeries(SeriesCorner, lineData([][2]float64{{rep.Corner.Distance, rep.Corner.Light}}),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: hexColor(failColor)}),
		)
	}

	line.AddSeries(SeriesRequired, lineData(outline(s.Required)),
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: hexColor(requiredColor), Width: 3, Type: "dashed"}),
	)
	return line
}

// RenderChart writes the chart for s and rep as a standalone HTML page.
func RenderChart(w io.Writer, s *scenario.Scenario, rep coverage.Report) error {
	page := components.NewPage()
	page.AddCharts(Chart(s, rep))
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

func lineData(pts [][2]float64) []opts.LineData {
	data := make([]opts.LineData, len(pts))
	for i, p := range pts {
		data[i] = opts.LineData{Value: []interface{}{p[0], p[1]}}
	}
	return data
}
