package traffic

import "trafficflow/internal/model"

const (
	// MediumThreshold is the lowest density classified as medium.
	MediumThreshold = 0.35
	// HighThreshold is the lowest density classified as high.
	HighThreshold = 0.70
)

// Classify maps a density score to a congestion level.
func Classify(density float64) model.Level {
	switch {
	case density < MediumThreshold:
		return model.LevelLow
	case density < HighThreshold:
		return model.LevelMedium
	default:
		return model.LevelHigh
	}
}
