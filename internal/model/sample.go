package model

import "time"

// FrameSample is one analyzed frame as kept in the history buffer.
type FrameSample struct {
	Timestamp    time.Time `json:"timestamp"`
	Density      float64   `json:"density"`
	VehicleCount int       `json:"vehicle_count"`
	Level        Level     `json:"level"`
}

// AnalysisResult is returned by one poll; it is never stored.
type AnalysisResult struct {
	TraceID      string
	Timestamp    time.Time
	Density      float64
	VehicleCount int
	Level        Level
	Summary      string
	Preview      []byte // JPEG
	Source       SourceKind
}

// Sample returns the history entry for this result.
func (r *AnalysisResult) Sample() FrameSample {
	return FrameSample{
		Timestamp:    r.Timestamp,
		Density:      r.Density,
		VehicleCount: r.VehicleCount,
		Level:        r.Level,
	}
}
