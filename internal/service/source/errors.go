package source

import "errors"

var (
	// ErrDeviceNotFound means no camera candidate produced a frame.
	ErrDeviceNotFound = errors.New("no camera device found")
	// ErrFileNotFound means the video path does not exist.
	ErrFileNotFound = errors.New("video file not found")
	// ErrFileUndecodable means the video could not be opened or its first frame read.
	ErrFileUndecodable = errors.New("video file cannot be decoded")
	// ErrNoActiveSource means a frame was requested with nothing acquired.
	ErrNoActiveSource = errors.New("no video source active")
	// ErrFrameReadFailure means the active source returned no frame, even after rewinding.
	ErrFrameReadFailure = errors.New("cannot read frame")
)
