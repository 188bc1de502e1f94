package model

// SourceKind identifies what the active capture handle reads from.
type SourceKind string

const (
	SourceNone   SourceKind = "none"
	SourceCamera SourceKind = "camera"
	SourceFile   SourceKind = "file"
)

// SourceStatus describes the active source.
type SourceStatus struct {
	Kind       SourceKind `json:"kind"`
	Ready      bool       `json:"ready"`
	Path       string     `json:"path,omitempty"`
	FramesRead uint64     `json:"frames_read"`
	Loops      uint64     `json:"loops"`
}
