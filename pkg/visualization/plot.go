package visualization

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	_ "gonum.org/v1/plot/font/liberation"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ProfilePlot describes a line-profile plot.
type ProfilePlot struct {
	Title  string
	XLabel string
	YLabel string

	// Width and Height of the saved figure
	Width  vg.Length
	Height vg.Length
}

// DefaultProfilePlot returns an 8x4 inch plot labelled for a hologram profile.
func DefaultProfilePlot() ProfilePlot {
	return ProfilePlot{
		Title:  "Hologram line profile",
		XLabel: "detector position (um)",
		YLabel: "|psi|",
		Width:  8 * vg.Inch,
		Height: 4 * vg.Inch,
	}
}

// ProfileXY pairs a profile with its detector coordinates in micrometers,
// centered on the middle of the line.
func ProfileXY(profile []float64, pixelSize float64) plotter.XYs {
	n := len(profile)
	pts := make(plotter.XYs, n)
	if n == 0 {
		return pts
	}

	half := float64(n-1) / 2 * pixelSize * 1e6
	xs := make([]float64, n)
	if n == 1 {
		xs[0] = 0
	} else {
		floats.Span(xs, -half, half)
	}
	for i := range profile {
		pts[i].X = xs[i]
		pts[i].Y = profile[i]
	}
	return pts
}

// PlotProfile builds a line plot of the viewer's profile along axis at position.
func (v *Viewer) PlotProfile(axis string, position int, style ProfilePlot) (*plot.Plot, error) {
	profile, err := v.ExtractProfile(axis, position)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = style.Title
	p.X.Label.Text = style.XLabel
	p.Y.Label.Text = style.YLabel

	p.Title.TextStyle.Font.Typeface = "Liberation"
	p.Title.TextStyle.Font.Variant = "Sans"
	p.X.Label.TextStyle.Font.Typeface = "Liberation"
	p.X.Label.TextStyle.Font.Variant = "Sans"
	p.Y.Label.TextStyle.Font.Typeface = "Liberation"
	p.Y.Label.TextStyle.Font.Variant = "Sans"

	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(ProfileXY(profile, v.pixelSize))
	if err != nil {
		return nil, fmt.Errorf("failed to build profile line: %w", err)
	}
	line.Color = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	p.Add(line)

	return p, nil
}

// SaveProfilePlot renders the profile plot to filename; the format follows
// the file extension (png, svg, pdf, ...).
func (v *Viewer) SaveProfilePlot(axis string, position int, style ProfilePlot, filename string) error {
	p, err := v.PlotProfile(axis, position, style)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}
	return p.Save(style.Width, style.Height, filename)
}
