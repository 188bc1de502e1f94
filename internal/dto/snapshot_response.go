package dto

import (
	"encoding/base64"
	"time"

	"trafficflow/internal/model"
)

// SnapshotResponse is the result of one poll as sent to the browser.
type SnapshotResponse struct {
	Status       string    `json:"status"`
	TraceID      string    `json:"trace_id"`
	Timestamp    time.Time `json:"timestamp"`
	DensityScore float64   `json:"density_score"`
	BBoxCount    int       `json:"bbox_count"`
	ClusterLabel int       `json:"cluster_label"`
	ClusterLevel string    `json:"cluster_level"`
	Summary      string    `json:"summary"`
	VideoSource  string    `json:"video_source"`
	Frame        string    `json:"frame,omitempty"` // base64 JPEG
}

func NewSnapshotResponse(r *model.AnalysisResult) SnapshotResponse {
	resp := SnapshotResponse{
		Status:       StatusOK,
		TraceID:      r.TraceID,
		Timestamp:    r.Timestamp,
		DensityScore: r.Density,
		BBoxCount:    r.VehicleCount,
		ClusterLabel: r.Level.Label(),
		ClusterLevel: r.Level.String(),
		Summary:      r.Summary,
		VideoSource:  VideoSourceName(r.Source),
	}
	if len(r.Preview) > 0 {
		resp.Frame = base64.StdEncoding.EncodeToString(r.Preview)
	}
	return resp
}

// VideoSourceName maps a source kind to the name the frontend expects.
func VideoSourceName(kind model.SourceKind) string {
	switch kind {
	case model.SourceCamera:
		return "webcam"
	case model.SourceFile:
		return "file"
	default:
		return "none"
	}
}
