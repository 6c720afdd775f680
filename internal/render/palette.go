// Package render draws a scenario's required region, its sensors and the
// outcome of the coverage check: as an interactive go-echarts page for the
// debug routes, or as a static gonum/plot image for reports.
package render

import (
	"fmt"
	"image/color"

	"github.com/banshee-data/coverage.report/internal/coverage"
	"github.com/banshee-data/coverage.report/internal/scenario"
)

var (
	requiredColor = color.RGBA{A: 255}
	failColor     = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// sensorColors creates a palette of n distinct colors, one per sensor.
func sensorColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}
	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		r, g, b := hslToRGB(float64(i)/float64(n), 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

func hexColor(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

// hslToRGB converts HSL to RGB (0-255 range).
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64
	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		q := l + s - l*s
		if l < 0.5 {
			q = l * (1 + s)
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}
	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 1.0/2.0:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}

// outline returns the closed polyline of a region in (distance, light) space.
func outline(r coverage.Region) [][2]float64 {
	d, l := r.Distance, r.Light
	return [][2]float64{
		{d.Min, l.Min}, {d.Max, l.Min}, {d.Max, l.Max}, {d.Min, l.Max}, {d.Min, l.Min},
	}
}

// stripeRegion is the part of the lattice a failing stripe spans. A stripe
// of one integer is widened by half a unit each side so it stays visible.
func stripeRegion(st coverage.Stripe, lat coverage.Lattice) coverage.Region {
	return coverage.Region{
		Distance: coverage.Interval{Min: float64(st.Start) - 0.5, Max: float64(st.End) + 0.5},
		Light:    coverage.Interval{Min: float64(lat.LMin), Max: float64(lat.LMax)},
	}
}

func sensorLabel(i int, s scenario.Sensor) string {
	if s.Name != "" {
		return s.Name
	}
	if s.ID != "" {
		return s.ID
	}
	return fmt.Sprintf("sensor %d", i)
}

func subtitle(rep coverage.Report) string {
	switch {
	case rep.Sufficient:
		return fmt.Sprintf("sufficient, %d effective sensors, %d stripes", rep.EffectiveSensors, rep.StripeCount)
	case rep.Corner != nil:
		return fmt.Sprintf("%s at (%g, %g)", rep.Reason, rep.Corner.Distance, rep.Corner.Light)
	case rep.Stripe != nil:
		return fmt.Sprintf("%s at distance %s", rep.Reason, rep.Stripe)
	}
	return rep.Reason.String()
}
