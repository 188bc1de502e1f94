package history

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"trafficflow/internal/model"
)

// Summary aggregates a history snapshot.
type Summary struct {
	Count         int            `json:"count"`
	MeanDensity   float64        `json:"mean_density"`
	StdDevDensity float64        `json:"stddev_density"`
	MaxDensity    float64        `json:"max_density"`
	MeanVehicles  float64        `json:"mean_vehicles"`
	Levels        map[string]int `json:"levels"`
}

// Summarize computes aggregate statistics over samples.
func Summarize(samples []model.FrameSample) Summary {
	s := Summary{
		Count: len(samples),
		Levels: map[string]int{
			model.LevelLow.String():    0,
			model.LevelMedium.String(): 0,
			model.LevelHigh.String():   0,
		},
	}
	if len(samples) == 0 {
		return s
	}

	densities := make([]float64, len(samples))
	counts := make([]float64, len(samples))
	for i, sample := range samples {
		densities[i] = sample.Density
		counts[i] = float64(sample.VehicleCount)
		s.Levels[sample.Level.String()]++
	}

	s.MaxDensity = floats.Max(densities)
	s.MeanVehicles = stat.Mean(counts, nil)
	if len(samples) == 1 {
		s.MeanDensity = densities[0]
		return s
	}
	s.MeanDensity, s.StdDevDensity = stat.MeanStdDev(densities, nil)
	return s
}
