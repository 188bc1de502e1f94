package chart

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"trafficflow/internal/model"
)

// MinSamples is the smallest history a chart is drawn for.
const MinSamples = 2

var ErrNotEnoughData = errors.New("not enough data, wait for traffic analysis to collect samples")

var (
	densityColor = color.RGBA{R: 0x66, G: 0x7e, B: 0xea, A: 0xff}
	countColor   = color.RGBA{R: 0x56, G: 0xab, B: 0x2f, A: 0xcc}
	levelColors  = map[model.Level]color.Color{
		model.LevelLow:    color.RGBA{R: 0x56, G: 0xab, B: 0x2f, A: 0xff},
		model.LevelMedium: color.RGBA{R: 0xff, G: 0xaa, B: 0x00, A: 0xff},
		model.LevelHigh:   color.RGBA{R: 0xee, G: 0x09, B: 0x79, A: 0xff},
	}
)

// RenderPNG draws density, vehicle count and level over the sample index as
// three stacked panels and returns the encoded PNG.
func RenderPNG(samples []model.FrameSample) ([]byte, error) {
	if len(samples) < MinSamples {
		return nil, ErrNotEnoughData
	}

	density, err := densityPlot(samples)
	if err != nil {
		return nil, err
	}
	count, err := countPlot(samples)
	if err != nil {
		return nil, err
	}
	level, err := levelPlot(samples)
	if err != nil {
		return nil, err
	}

	img := vgimg.New(12*vg.Inch, 8*vg.Inch)
	dc := draw.New(img)
	dc.SetColor(color.RGBA{R: 0xf8, G: 0xf9, B: 0xfa, A: 0xff})
	dc.Fill(dc.Rectangle.Path())

	plots := [][]*plot.Plot{{density}, {count}, {level}}
	tiles := draw.Tiles{
		Rows:      3,
		Cols:      1,
		PadTop:    vg.Points(8),
		PadBottom: vg.Points(8),
		PadLeft:   vg.Points(8),
		PadRight:  vg.Points(8),
		PadY:      vg.Points(12),
	}
	canvases := plot.Align(plots, tiles, dc)
	for j := range plots {
		plots[j][0].Draw(canvases[j][0])
	}

	var buf bytes.Buffer
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode chart: %w", err)
	}
	return buf.Bytes(), nil
}

func densityPlot(samples []model.FrameSample) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Traffic Density Over Time"
	p.Y.Label.Text = "Density Score"
	p.Y.Min, p.Y.Max = 0, 1
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(samples))
	for i, s := range samples {
		pts[i] = plotter.XY{X: float64(i), Y: s.Density}
	}

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to build density line: %w", err)
	}
	line.Color = densityColor
	line.Width = vg.Points(2.5)
	line.FillColor = color.RGBA{R: 0x66, G: 0x7e, B: 0xea, A: 0x4c}
	points.Color = densityColor
	points.Shape = draw.CircleGlyph{}
	points.Radius = vg.Points(2)
	p.Add(line, points)
	return p, nil
}

func countPlot(samples []model.FrameSample) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Vehicle Count Over Time"
	p.Y.Label.Text = "Vehicle Count"
	p.Y.Min = 0
	p.Add(plotter.NewGrid())

	values := make(plotter.Values, len(samples))
	for i, s := range samples {
		values[i] = float64(s.VehicleCount)
	}

	bars, err := plotter.NewBarChart(values, vg.Points(6))
	if err != nil {
		return nil, fmt.Errorf("failed to build count bars: %w", err)
	}
	bars.Color = countColor
	bars.LineStyle.Color = color.RGBA{R: 0x2d, G: 0x50, B: 0x16, A: 0xff}
	p.Add(bars)
	return p, nil
}

func levelPlot(samples []model.FrameSample) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Traffic Level Over Time"
	p.Y.Label.Text = "Traffic Level"
	p.X.Label.Text = "Sample"
	p.Y.Min, p.Y.Max = -0.5, 2.5
	p.Y.Tick.Marker = plot.ConstantTicks([]plot.Tick{
		{Value: float64(model.LevelLow), Label: "Low"},
		{Value: float64(model.LevelMedium), Label: "Medium"},
		{Value: float64(model.LevelHigh), Label: "High"},
	})
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(samples))
	for i, s := range samples {
		pts[i] = plotter.XY{X: float64(i), Y: float64(s.Level)}
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to build level line: %w", err)
	}
	line.Color = color.Gray{Y: 0x80}
	line.Width = vg.Points(1)
	line.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to build level scatter: %w", err)
	}
	scatter.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		c, ok := levelColors[samples[i].Level]
		if !ok {
			c = color.Black
		}
		return draw.GlyphStyle{Color: c, Radius: vg.Points(5), Shape: draw.CircleGlyph{}}
	}

	p.Add(line, scatter)
	return p, nil
}
