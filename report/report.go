// Package report renders the output series of a run as PNG plots.
package report

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/pthm-cable/daisyworld/telemetry"
)

// Plot file names written by WritePlots.
const (
	TemperatureFile = "temperature.png"
	AlbedoFile      = "albedo.png"
	PopulationFile  = "population.png"
)

var (
	blue  = color.RGBA{B: 200, A: 255}
	black = color.RGBA{A: 255}
	green = color.RGBA{G: 160, A: 255}
)

// line is one named curve against luminosity.
type line struct {
	label string
	color color.Color
	y     func(i int) float64
}

// WritePlots draws temperature, albedo and population against luminosity
// into dir and returns the written paths.
func WritePlots(s *telemetry.Series, dir string) ([]string, error) {
	if s == nil || s.Len() == 0 {
		return nil, errors.New("report: empty series")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating plot directory: %w", err)
	}

	charts := []struct {
		file   string
		title  string
		ylabel string
		lines  []line
	}{
		{TemperatureFile, "Temperature over luminosity", "Temperature (°C)", []line{
			{"", blue, func(i int) float64 { return s.AvgTemp[i] }},
		}},
		{AlbedoFile, "Average albedo over luminosity", "Albedo", []line{
			{"", blue, func(i int) float64 { return s.AvgAlbedo[i] }},
		}},
		{PopulationFile, "Number of daisies over luminosity", "Count", []line{
			{"Black daisies", black, func(i int) float64 { return float64(s.Black[i]) }},
			{"White daisies", green, func(i int) float64 { return float64(s.White[i]) }},
		}},
	}

	paths := make([]string, 0, len(charts))
	for _, c := range charts {
		path := filepath.Join(dir, c.file)
		if err := plotLines(s, c.title, c.ylabel, c.lines, path); err != nil {
			return paths, fmt.Errorf("plotting %s: %w", c.file, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func plotLines(s *telemetry.Series, title, ylabel string, lines []line, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Solar luminosity"
	p.Y.Label.Text = ylabel

	for _, l := range lines {
		pts := make(plotter.XYs, s.Len())
		for i := range pts {
			pts[i].X = s.Luminosity[i]
			pts[i].Y = l.y(i)
		}

		ln, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		ln.Color = l.color
		p.Add(ln)
		if l.label != "" {
			p.Legend.Add(l.label, ln)
		}
	}

	p.Legend.Top = true

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
