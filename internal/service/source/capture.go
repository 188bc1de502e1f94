package source

import (
	"fmt"
	"strings"

	"gocv.io/x/gocv"
)

// Capture is an open camera device or video file.
// *gocv.VideoCapture satisfies it.
type Capture interface {
	Read(m *gocv.Mat) bool
	Set(prop gocv.VideoCaptureProperties, param float64)
	IsOpened() bool
	Close() error
}

// Opener opens capture handles.
type Opener interface {
	OpenDevice(index int, api gocv.VideoCaptureAPI) (Capture, error)
	OpenFile(path string) (Capture, error)
}

// Candidate is one camera tried by AcquireCamera.
type Candidate struct {
	Backend string
	API     gocv.VideoCaptureAPI
	Index   int
}

func (c Candidate) String() string {
	return fmt.Sprintf("%s:%d", c.Backend, c.Index)
}

var backends = map[string]gocv.VideoCaptureAPI{
	"any":          gocv.VideoCaptureAny,
	"v4l2":         gocv.VideoCaptureV4L2,
	"dshow":        gocv.VideoCaptureDshow,
	"msmf":         gocv.VideoCaptureMSMF,
	"avfoundation": gocv.VideoCaptureAVFoundation,
	"gstreamer":    gocv.VideoCaptureGstreamer,
	"ffmpeg":       gocv.VideoCaptureFFmpeg,
}

// NewCandidate resolves a backend name such as "v4l2" or "dshow".
func NewCandidate(backend string, index int) (Candidate, error) {
	name := strings.ToLower(strings.TrimSpace(backend))
	api, ok := backends[name]
	if !ok {
		return Candidate{}, fmt.Errorf("unknown capture backend %q", backend)
	}
	if index < 0 {
		return Candidate{}, fmt.Errorf("invalid device index %d", index)
	}
	return Candidate{Backend: name, API: api, Index: index}, nil
}

// GocvOpener opens handles through OpenCV.
type GocvOpener struct{}

// OpenDevice opens a camera by index with the given backend.
func (GocvOpener) OpenDevice(index int, api gocv.VideoCaptureAPI) (Capture, error) {
	vc, err := gocv.VideoCaptureDeviceWithAPI(index, api)
	if err != nil {
		if vc != nil {
			vc.Close()
		}
		return nil, err
	}
	return vc, nil
}

// OpenFile opens a video file.
func (GocvOpener) OpenFile(path string) (Capture, error) {
	vc, err := gocv.VideoCaptureFile(path)
	if err != nil {
		if vc != nil {
			vc.Close()
		}
		return nil, err
	}
	return vc, nil
}
