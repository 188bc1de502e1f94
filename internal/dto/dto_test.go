package dto

import (
	"encoding/base64"
	"testing"
	"time"

	"trafficflow/internal/model"
	"trafficflow/internal/service/history"
	"trafficflow/internal/service/metrics"
	"trafficflow/internal/service/traffic"
)

func TestNewSnapshotResponse(t *testing.T) {
	ts := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)
	r := &model.AnalysisResult{
		TraceID:      "abc",
		Timestamp:    ts,
		Density:      0.512,
		VehicleCount: 7,
		Level:        model.LevelMedium,
		Summary:      "moderate",
		Preview:      []byte{0xFF, 0xD8, 0xFF},
		Source:       model.SourceFile,
	}

	got := NewSnapshotResponse(r)
	if got.Status != StatusOK || got.TraceID != "abc" || !got.Timestamp.Equal(ts) {
		t.Errorf("Unexpected header fields: %+v", got)
	}
	if got.DensityScore != 0.512 || got.BBoxCount != 7 {
		t.Errorf("Unexpected measurements: %+v", got)
	}
	if got.ClusterLabel != 1 || got.ClusterLevel != "medium" {
		t.Errorf("Unexpected level: %d %s", got.ClusterLabel, got.ClusterLevel)
	}
	if got.VideoSource != "file" {
		t.Errorf("Expected video source \"file\", got %q", got.VideoSource)
	}
	if got.Frame != base64.StdEncoding.EncodeToString(r.Preview) {
		t.Errorf("Unexpected frame %q", got.Frame)
	}

	r.Preview = nil
	if NewSnapshotResponse(r).Frame != "" {
		t.Error("Expected empty frame without preview")
	}
}

func TestVideoSourceName(t *testing.T) {
	tests := map[model.SourceKind]string{
		model.SourceCamera: "webcam",
		model.SourceFile:   "file",
		model.SourceNone:   "none",
		"":                 "none",
	}
	for kind, want := range tests {
		if got := VideoSourceName(kind); got != want {
			t.Errorf("VideoSourceName(%q) = %q, want %q", kind, got, want)
		}
	}
}

func TestNewStatusResponse(t *testing.T) {
	idle := NewStatusResponse(model.SourceStatus{Kind: model.SourceNone}, history.Summary{}, metrics.LatencySnapshot{}, 0)
	if idle.Status != "no_source" || idle.VideoOK {
		t.Errorf("Unexpected idle status: %+v", idle)
	}

	ready := NewStatusResponse(model.SourceStatus{Kind: model.SourceCamera, Ready: true}, history.Summary{Count: 3}, metrics.LatencySnapshot{Count: 3}, 2)
	if ready.Status != "ready" || !ready.VideoOK || ready.VideoSource != "webcam" || ready.Viewers != 2 {
		t.Errorf("Unexpected ready status: %+v", ready)
	}
}

func TestNewUploadInfo(t *testing.T) {
	if NewUploadInfo(nil) != nil {
		t.Error("Expected nil info without an upload")
	}

	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	got := NewUploadInfo(&model.Upload{Filename: "road.mp4", FilePath: "/u/ab12_road.mp4", FileSize: 2048, UploadedAt: ts})
	if got.Filename != "road.mp4" || got.Size != 2048 || !got.UploadedAt.Equal(ts) {
		t.Errorf("Unexpected upload info: %+v", got)
	}
}

func TestNewSignalResponse(t *testing.T) {
	got := NewSignalResponse("high", traffic.SignalTiming{Green: 60, Red: 20})
	if got.GreenTime != 60 || got.RedTime != 20 || got.Note != "Signal configured for high traffic" {
		t.Errorf("Unexpected signal response: %+v", got)
	}
}

func TestNewHistoryResponse_Empty(t *testing.T) {
	got := NewHistoryResponse(nil)
	if got.Samples == nil || len(got.Samples) != 0 {
		t.Errorf("Expected empty non-nil samples, got %#v", got.Samples)
	}
	if got.Summary.Count != 0 {
		t.Errorf("Expected zero count, got %d", got.Summary.Count)
	}
}
