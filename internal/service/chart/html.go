package chart

import (
	"bytes"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"trafficflow/internal/model"
)

const timeLabelLayout = "15:04:05"

// RenderHTML builds an interactive page with the density line and the
// vehicle count bars of the given history.
func RenderHTML(samples []model.FrameSample) ([]byte, error) {
	if len(samples) < MinSamples {
		return nil, ErrNotEnoughData
	}

	x := make([]string, len(samples))
	density := make([]opts.LineData, len(samples))
	counts := make([]opts.BarData, len(samples))
	for i, s := range samples {
		x[i] = s.Timestamp.Format(timeLabelLayout)
		density[i] = opts.LineData{Value: s.Density, Name: s.Level.String()}
		counts[i] = opts.BarData{Value: s.VehicleCount}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Traffic History", Width: "100%", Height: "360px"}),
		charts.WithTitleOpts(opts.Title{Title: "Traffic Density Over Time", Subtitle: fmt.Sprintf("samples=%d", len(samples))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Density Score", Min: 0, Max: 1}),
	)
	line.SetXAxis(x).AddSeries("density", density,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}),
	)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "360px"}),
		charts.WithTitleOpts(opts.Title{Title: "Vehicle Count Over Time"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Vehicle Count"}),
	)
	bar.SetXAxis(x).AddSeries("vehicles", counts)

	page := components.NewPage()
	page.AddCharts(line, bar)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return nil, fmt.Errorf("failed to render chart page: %w", err)
	}
	return buf.Bytes(), nil
}
