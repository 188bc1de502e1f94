package model

import "time"

// Upload represents a stored video file record.
type Upload struct {
	ID         int64     `json:"id"`
	Filename   string    `json:"filename"`
	FilePath   string    `json:"filepath"`
	FileSize   int64     `json:"filesize"`
	UploadedAt time.Time `json:"uploaded_at"`
}
