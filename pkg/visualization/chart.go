package visualization

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ProfileChart builds an interactive line chart of the profile along axis at
// position, with zoom and a data view.
func (v *Viewer) ProfileChart(axis string, position int, style ProfilePlot) (*charts.Line, error) {
	profile, err := v.ExtractProfile(axis, position)
	if err != nil {
		return nil, err
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			BackgroundColor: "#ffffff",
			Width:           "100%",
			Height:          "600px",
			PageTitle:       style.Title,
		}),
		charts.WithTitleOpts(opts.Title{
			Title: style.Title,
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "slider",
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithToolboxOpts(opts.Toolbox{
			Show: opts.Bool(true),
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{
					Show:  opts.Bool(true),
					Type:  "png",
					Name:  "profile",
					Title: "Save as image",
				},
				DataView: &opts.ToolBoxFeatureDataView{
					Show:  opts.Bool(true),
					Title: "Data view",
					Lang:  []string{"data view", "turn off", "refresh"},
				},
			},
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: style.XLabel,
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:  style.YLabel,
			Type:  "value",
			Scale: opts.Bool(true),
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}),
	)

	pts := ProfileXY(profile, v.pixelSize)
	x := make([]float64, len(pts))
	data := make([]opts.LineData, len(pts))
	for i, p := range pts {
		x[i] = p.X
		data[i] = opts.LineData{Value: p.Y}
	}
	line.SetXAxis(x)
	line.AddSeries(fmt.Sprintf("%s = %d", axis, position), data)

	return line, nil
}

// SaveProfileChart renders the profile chart as a standalone HTML page.
func (v *Viewer) SaveProfileChart(axis string, position int, style ProfilePlot, filename string) error {
	line, err := v.ProfileChart(axis, position, style)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if err := line.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
