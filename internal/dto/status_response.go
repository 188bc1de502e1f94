package dto

import (
	"time"

	"trafficflow/internal/model"
	"trafficflow/internal/service/history"
	"trafficflow/internal/service/metrics"
)

type StatusResponse struct {
	VideoSource string                  `json:"video_source"`
	VideoOK     bool                    `json:"video_ok"`
	Status      string                  `json:"status"`
	Path        string                  `json:"video_path,omitempty"`
	FramesRead  uint64                  `json:"frames_read"`
	Loops       uint64                  `json:"loops"`
	History     history.Summary         `json:"history"`
	Latency     metrics.LatencySnapshot `json:"latency"`
	Viewers     int                     `json:"viewers"`
	Upload      *UploadInfo             `json:"upload,omitempty"`
}

// UploadInfo describes the stored uploaded video.
type UploadInfo struct {
	Filename   string    `json:"filename"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// NewUploadInfo returns nil when nothing is stored.
func NewUploadInfo(u *model.Upload) *UploadInfo {
	if u == nil {
		return nil
	}
	return &UploadInfo{Filename: u.Filename, Size: u.FileSize, UploadedAt: u.UploadedAt}
}

func NewStatusResponse(s model.SourceStatus, summary history.Summary, latency metrics.LatencySnapshot, viewers int) StatusResponse {
	status := "no_source"
	if s.Ready {
		status = "ready"
	}
	return StatusResponse{
		VideoSource: VideoSourceName(s.Kind),
		VideoOK:     s.Ready,
		Status:      status,
		Path:        s.Path,
		FramesRead:  s.FramesRead,
		Loops:       s.Loops,
		History:     summary,
		Latency:     latency,
		Viewers:     viewers,
	}
}
