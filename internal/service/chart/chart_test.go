package chart

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trafficflow/internal/model"
)

func makeSamples(n int) []model.FrameSample {
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	levels := []model.Level{model.LevelLow, model.LevelMedium, model.LevelHigh}
	samples := make([]model.FrameSample, n)
	for i := range samples {
		samples[i] = model.FrameSample{
			Timestamp:    base.Add(time.Duration(i) * time.Second),
			Density:      float64(i%10) / 10,
			VehicleCount: i % 7,
			Level:        levels[i%3],
		}
	}
	return samples
}

func TestRenderPNG(t *testing.T) {
	t.Run("not enough data", func(t *testing.T) {
		for _, n := range []int{0, 1} {
			_, err := RenderPNG(makeSamples(n))
			assert.ErrorIs(t, err, ErrNotEnoughData, "n=%d", n)
		}
	})

	t.Run("renders png", func(t *testing.T) {
		data, err := RenderPNG(makeSamples(50))
		require.NoError(t, err)
		require.True(t, bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")))

		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		b := img.Bounds()
		assert.Greater(t, b.Dx(), b.Dy(), "chart should be landscape")
	})

	t.Run("two samples are enough", func(t *testing.T) {
		data, err := RenderPNG(makeSamples(2))
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	})
}

func TestRenderHTML(t *testing.T) {
	_, err := RenderHTML(makeSamples(1))
	assert.ErrorIs(t, err, ErrNotEnoughData)

	data, err := RenderHTML(makeSamples(5))
	require.NoError(t, err)
	html := string(data)
	assert.Contains(t, html, "<html")
	assert.Contains(t, html, "Traffic Density Over Time")
	assert.Contains(t, html, "08:00:04")
}
