package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"trafficflow/internal/logger"
	"trafficflow/internal/model"
)

// Options control camera probing and source switching.
type Options struct {
	Width         int
	Height        int
	ProbeTimeout  time.Duration // per candidate; 0 disables the timeout
	ReleaseSettle time.Duration // pause after closing a live handle before opening the next
	Candidates    []Candidate
}

// Manager owns the single active capture handle. Every method that touches
// the handle runs under one mutex, so a reader never sees a half-switched
// source.
type Manager struct {
	opener Opener
	opts   Options
	logger *logger.Logger

	mu         sync.Mutex
	capture    Capture
	kind       model.SourceKind
	path       string
	framesRead uint64
	loops      uint64
}

// NewManager creates a Manager with no active source.
func NewManager(opener Opener, opts Options, logger *logger.Logger) *Manager {
	return &Manager{
		opener: opener,
		opts:   opts,
		logger: logger,
		kind:   model.SourceNone,
	}
}

// AcquireCamera releases the current source and probes the candidates in
// order. The first one that delivers a non-empty test frame becomes active.
func (m *Manager) AcquireCamera() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.releaseLocked(true)

	for _, c := range m.opts.Candidates {
		m.logger.Info("Trying camera %s...", c)
		capture, err := m.probe(c)
		if err != nil {
			m.logger.Warning("Camera %s unavailable: %v", c, err)
			continue
		}

		m.capture = capture
		m.kind = model.SourceCamera
		m.logger.Info("✓ Camera %s initialized", c)
		return nil
	}

	m.logger.Error("No camera found (%d candidates tried)", len(m.opts.Candidates))
	return fmt.Errorf("%w: %d candidates tried", ErrDeviceNotFound, len(m.opts.Candidates))
}

// AcquireFile releases the current source and opens the video at path,
// positioned at its first frame.
func (m *Manager) AcquireFile(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.releaseLocked(true)

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("%w: %v", ErrFileUndecodable, err)
	}

	capture, err := m.opener.OpenFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFileUndecodable, err)
	}
	if capture == nil || !capture.IsOpened() {
		m.closeQuietly(capture, path)
		return fmt.Errorf("%w: cannot open %s", ErrFileUndecodable, path)
	}

	frame := gocv.NewMat()
	defer frame.Close()
	if !capture.Read(&frame) || frame.Empty() {
		m.closeQuietly(capture, path)
		return fmt.Errorf("%w: cannot read first frame of %s", ErrFileUndecodable, path)
	}
	capture.Set(gocv.VideoCapturePosFrames, 0)

	m.capture = capture
	m.kind = model.SourceFile
	m.path = path
	m.logger.Info("✓ Video file loaded: %s", path)
	return nil
}

// Release closes the active source. It is a no-op when nothing is active.
func (m *Manager) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releaseLocked(false)
}

// ReadFrame returns the next frame as a Mat owned by the caller, together
// with the kind of source it came from. A file source that hits end of
// stream is rewound and read once more.
func (m *Manager) ReadFrame() (gocv.Mat, model.SourceKind, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.capture == nil || !m.capture.IsOpened() {
		return gocv.Mat{}, model.SourceNone, ErrNoActiveSource
	}

	frame := gocv.NewMat()
	if m.capture.Read(&frame) && !frame.Empty() {
		m.framesRead++
		return frame, m.kind, nil
	}

	if m.kind == model.SourceFile {
		m.capture.Set(gocv.VideoCapturePosFrames, 0)
		m.loops++
		if m.capture.Read(&frame) && !frame.Empty() {
			m.framesRead++
			return frame, m.kind, nil
		}
	}

	frame.Close()
	return gocv.Mat{}, m.kind, fmt.Errorf("%w from %s source", ErrFrameReadFailure, m.kind)
}

// Status reports the active source.
func (m *Manager) Status() model.SourceStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	return model.SourceStatus{
		Kind:       m.kind,
		Ready:      m.capture != nil && m.capture.IsOpened(),
		Path:       m.path,
		FramesRead: m.framesRead,
		Loops:      m.loops,
	}
}

// releaseLocked closes the handle and resets state. Close errors are logged
// only. With settle set, a live handle is followed by the settle pause.
func (m *Manager) releaseLocked(settle bool) {
	hadHandle := m.capture != nil
	if hadHandle {
		m.closeQuietly(m.capture, string(m.kind))
		m.logger.Info("Released %s source", m.kind)
	}

	m.capture = nil
	m.kind = model.SourceNone
	m.path = ""
	m.framesRead = 0
	m.loops = 0

	if settle && hadHandle && m.opts.ReleaseSettle > 0 {
		time.Sleep(m.opts.ReleaseSettle)
	}
}

// probe runs one candidate attempt, bounded by ProbeTimeout. A handle that
// opens after the timeout is closed in the background.
func (m *Manager) probe(c Candidate) (Capture, error) {
	if m.opts.ProbeTimeout <= 0 {
		return m.tryCandidate(c)
	}

	type outcome struct {
		capture Capture
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		capture, err := m.tryCandidate(c)
		done <- outcome{capture: capture, err: err}
	}()

	timer := time.NewTimer(m.opts.ProbeTimeout)
	defer timer.Stop()

	select {
	case o := <-done:
		return o.capture, o.err
	case <-timer.C:
		go func() {
			if o := <-done; o.capture != nil {
				m.closeQuietly(o.capture, c.String())
			}
		}()
		return nil, fmt.Errorf("probe timed out after %s", m.opts.ProbeTimeout)
	}
}

func (m *Manager) tryCandidate(c Candidate) (Capture, error) {
	capture, err := m.opener.OpenDevice(c.Index, c.API)
	if err != nil {
		return nil, fmt.Errorf("open failed: %w", err)
	}
	if capture == nil || !capture.IsOpened() {
		m.closeQuietly(capture, c.String())
		return nil, errors.New("device not opened")
	}

	capture.Set(gocv.VideoCaptureFrameWidth, float64(m.opts.Width))
	capture.Set(gocv.VideoCaptureFrameHeight, float64(m.opts.Height))

	frame := gocv.NewMat()
	defer frame.Close()
	if !capture.Read(&frame) || frame.Empty() {
		m.closeQuietly(capture, c.String())
		return nil, errors.New("test read returned no frame")
	}
	return capture, nil
}

func (m *Manager) closeQuietly(capture Capture, what string) {
	if capture == nil {
		return
	}
	if err := capture.Close(); err != nil {
		m.logger.Warning("Failed to release %s: %v", what, err)
	}
}
