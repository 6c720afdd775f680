package render

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/coverage.report/internal/coverage"
	"github.com/banshee-data/coverage.report/internal/scenario"
	"github.com/banshee-data/coverage.report/internal/security"
)

// SupportedPlotFormats lists the file extensions SavePlot can write.
var SupportedPlotFormats = []string{"png", "svg", "pdf"}

// plotMargin pads the axes around everything drawn, as a fraction of the span.
const plotMargin = 0.05

// NewPlot draws the scenario and the outcome of its check.
func NewPlot(s *scenario.Scenario, rep coverage.Report) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s: %s", s.Name, subtitle(rep))
	p.X.Label.Text = "Distance"
	p.Y.Label.Text = "Light"
	p.Add(plotter.NewGrid())

	if rep.Stripe != nil {
		poly, err := plotter.NewPolygon(xys(outline(stripeRegion(*rep.Stripe, rep.Lattice))[:4]))
		if err != nil {
			return nil, fmt.Errorf("stripe polygon: %w", err)
		}
		poly.Color = color.RGBA{R: 214, G: 39, B: 40, A: 64}
		poly.LineStyle.Color = failColor
		p.Add(poly)
		p.Legend.Add(fmt.Sprintf("%s %s", rep.Reason, rep.Stripe), poly)
	}

	colors := sensorColors(len(s.Sensors))
	for i, sensor := range s.Sensors {
		l, err := plotter.NewLine(xys(outline(sensor.Region)))
		if err != nil {
			return nil, fmt.Errorf("sensor %d outline: %w", i, err)
		}
		l.Color = colors[i]
		l.Width = vg.Points(1.5)
		p.Add(l)
		p.Legend.Add(sensorLabel(i, sensor), l)
	}

	req, err := plotter.NewLine(xys(outline(s.Required)))
	if err != nil {
		return nil, fmt.Errorf("required outline: %w", err)
	}
	req.Color = requiredColor
	req.Width = vg.Points(2)
	req.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
	p.Add(req)
	p.Legend.Add(SeriesRequired, req)

	if rep.Corner != nil {
		sc, err := plotter.NewScatter(plotter.XYs{{X: rep.Corner.Distance, Y: rep.Corner.Light}})
		if err != nil {
			return nil, fmt.Errorf("corner marker: %w", err)
		}
		sc.GlyphStyle.Color = failColor
		sc.GlyphStyle.Radius = vg.Points(4)
		p.Add(sc)
		p.Legend.Add(SeriesCorner, sc)
	}

	setExtents(p, s, rep)

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// SavePlot draws the scenario and writes it to path. The image format follows
// the file extension; width and height are in centimetres.
func SavePlot(s *scenario.Scenario, rep coverage.Report, path string, widthCm, heightCm float64) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if !isSupportedFormat(ext) {
		return fmt.Errorf("unsupported plot format %q (want one of %s)", ext, strings.Join(SupportedPlotFormats, ", "))
	}
	if widthCm <= 0 || heightCm <= 0 {
		return fmt.Errorf("plot size must be positive, got %gx%g cm", widthCm, heightCm)
	}

	p, err := NewPlot(s, rep)
	if err != nil {
		return err
	}
	if err := p.Save(vg.Length(widthCm)*vg.Centimeter, vg.Length(heightCm)*vg.Centimeter, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}

// PlotFileName is the file SavePlot output for a run is conventionally written to.
func PlotFileName(s *scenario.Scenario, runID, format string) string {
	if len(runID) > 8 {
		runID = runID[:8]
	}
	return fmt.Sprintf("%s_%s.%s", security.SanitizeFilename(s.Name), runID, strings.ToLower(format))
}

func isSupportedFormat(ext string) bool {
	for _, f := range SupportedPlotFormats {
		if ext == f {
			return true
		}
	}
	return false
}

func setExtents(p *plot.Plot, s *scenario.Scenario, rep coverage.Report) {
	ds := []float64{s.Required.Distance.Min, s.Required.Distance.Max}
	ls := []float64{s.Required.Light.Min, s.Required.Light.Max}
	for _, sensor := range s.Sensors {
		ds = append(ds, sensor.Distance.Min, sensor.Distance.Max)
		ls = append(ls, sensor.Light.Min, sensor.Light.Max)
	}
	if rep.Stripe != nil {
		r := stripeRegion(*rep.Stripe, rep.Lattice)
		ds = append(ds, r.Distance.Min, r.Distance.Max)
	}

	p.X.Min, p.X.Max = padded(floats.Min(ds), floats.Max(ds))
	p.Y.Min, p.Y.Max = padded(floats.Min(ls), floats.Max(ls))
}

func padded(lo, hi float64) (float64, float64) {
	pad := (hi - lo) * plotMargin
	if pad == 0 {
		pad = 1
	}
	return lo - pad, hi + pad
}

func xys(pts [][2]float64) plotter.XYs {
	out := make(plotter.XYs, len(pts))
	for i, pt := range pts {
		out[i] = plotter.XY{X: pt[0], Y: pt[1]}
	}
	return out
}
