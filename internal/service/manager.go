package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"trafficflow/internal/dto"
	"trafficflow/internal/logger"
	"trafficflow/internal/model"
	"trafficflow/internal/service/history"
	"trafficflow/internal/service/metrics"
	"trafficflow/internal/service/storage"
	"trafficflow/internal/service/traffic"
	"trafficflow/internal/service/vision"
	"trafficflow/internal/service/websocket"
)

// ErrPollPanic is returned when a poll cycle panicked and was recovered.
var ErrPollPanic = errors.New("poll cycle panicked")

// FrameSource is the capture side used by the Manager. source.Manager
// implements it.
type FrameSource interface {
	AcquireCamera() error
	AcquireFile(path string) error
	Release()
	ReadFrame() (gocv.Mat, model.SourceKind, error)
	Status() model.SourceStatus
}

// Manager runs one poll cycle per request: read a frame, analyze, classify,
// record and publish.
type Manager struct {
	source           FrameSource
	uploadStore      *storage.UploadStore
	history          *history.Buffer
	latency          *metrics.LatencyRecorder
	websocketService *websocket.HubService
	logger           *logger.Logger

	// uploadMu keeps the stored upload in step with the active file source.
	uploadMu sync.Mutex

	analyze func(gocv.Mat) (vision.Estimate, error)
}

// NewManager wires the services together. uploadStore and websocketService
// may be nil (CLI use).
func NewManager(source FrameSource, uploadStore *storage.UploadStore, websocketService *websocket.HubService, logger *logger.Logger) *Manager {
	return &Manager{
		source:           source,
		uploadStore:      uploadStore,
		history:          history.NewBuffer(),
		latency:          metrics.NewLatencyRecorder(),
		websocketService: websocketService,
		logger:           logger,
		analyze:          vision.Analyze,
	}
}

// SelectCameraSource switches to the first working camera.
func (m *Manager) SelectCameraSource() error {
	if err := m.source.AcquireCamera(); err != nil {
		m.logger.Error("Camera activation failed: %v", err)
		return err
	}
	m.logger.Info("📹 Camera source active")
	return nil
}

// LoadFileSource switches to the video file at path. The path must already
// be sanitized by the caller.
func (m *Manager) LoadFileSource(path string) error {
	if err := m.source.AcquireFile(path); err != nil {
		m.logger.Error("Loading video %s failed: %v", path, err)
		return err
	}
	m.logger.Info("🎞️  Video source active: %s", path)
	return nil
}

// ReleaseActiveSource releases the active source and purges stored uploads.
// It returns the number of files removed.
func (m *Manager) ReleaseActiveSource() int {
	m.uploadMu.Lock()
	defer m.uploadMu.Unlock()

	m.source.Release()
	if m.uploadStore == nil {
		return 0
	}
	return m.uploadStore.Purge()
}

// UploadVideo stores r under filename and makes it the active source. The
// previous source keeps serving frames while the upload is written; the
// switch itself is one acquire.
func (m *Manager) UploadVideo(filename string, r io.Reader) error {
	if m.uploadStore == nil {
		return errors.New("uploads are not enabled")
	}

	upload, err := m.uploadStore.Stage(filename, r)
	if err != nil {
		m.logger.Error("Upload of %s failed: %v", filename, err)
		return err
	}

	m.uploadMu.Lock()
	defer m.uploadMu.Unlock()

	if err := m.LoadFileSource(upload.FilePath); err != nil {
		// acquire zwalnia poprzednie źródło, nic nie jest aktywne
		m.uploadStore.Discard(upload)
		m.uploadStore.Purge()
		return err
	}
	m.uploadStore.Commit(upload)
	return nil
}

// CaptureAndAnalyze performs one poll cycle. Source errors are returned;
// analysis failures produce the neutral sample instead.
func (m *Manager) CaptureAndAnalyze() (result *model.AnalysisResult, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("Poll cycle panicked: %v", r)
			result, err = nil, fmt.Errorf("%w: %v", ErrPollPanic, r)
		}
	}()

	frame, kind, err := m.source.ReadFrame()
	if err != nil {
		return nil, err
	}
	defer frame.Close()

	est, aerr := m.analyze(frame)
	if aerr != nil {
		m.logger.Warning("Analysis failed, using neutral sample: %v", aerr)
		est = vision.Estimate{}
	}

	level := traffic.Classify(est.Density)
	result = &model.AnalysisResult{
		TraceID:      uuid.NewString(),
		Timestamp:    time.Now(),
		Density:      est.Density,
		VehicleCount: est.Count,
		Level:        level,
		Summary:      traffic.Summary(est.Density, est.Count, level),
		Source:       kind,
	}

	preview, perr := vision.EncodePreview(frame)
	if perr != nil {
		m.logger.Warning("Preview encoding failed (trace %s): %v", result.TraceID, perr)
	} else {
		result.Preview = preview
	}

	m.history.Append(result.Sample())
	m.latency.Record(time.Since(start))
	m.SendToViewers(result)
	return result, nil
}

// SendToViewers broadcasts a result to every connected viewer.
func (m *Manager) SendToViewers(result *model.AnalysisResult) {
	if m.websocketService == nil {
		return
	}
	msg, err := json.Marshal(dto.NewSnapshotResponse(result))
	if err != nil {
		m.logger.Error("Error encoding snapshot: %v", err)
		return
	}
	m.websocketService.Broadcast(msg)
}

func (m *Manager) Status() model.SourceStatus {
	return m.source.Status()
}

// RecommendSignalTiming returns green/red phase lengths for a level name.
func (m *Manager) RecommendSignalTiming(level string) traffic.SignalTiming {
	return traffic.RecommendSignalTiming(level)
}

// HistorySnapshot returns the recent samples, oldest first.
func (m *Manager) HistorySnapshot() []model.FrameSample {
	return m.history.Snapshot()
}

func (m *Manager) Latency() metrics.LatencySnapshot {
	return m.latency.Snapshot()
}

func (m *Manager) GetWebsocketService() *websocket.HubService {
	return m.websocketService
}

func (m *Manager) GetUploadStore() *storage.UploadStore {
	return m.uploadStore
}

// CurrentUpload returns the stored upload record, or nil when none is stored.
func (m *Manager) CurrentUpload() *model.Upload {
	if m.uploadStore == nil {
		return nil
	}
	upload, err := m.uploadStore.Current()
	if err != nil {
		m.logger.Warning("Could not read upload registry: %v", err)
		return nil
	}
	return upload
}

// Shutdown releases the capture handle.
func (m *Manager) Shutdown() {
	m.source.Release()
	m.logger.Info("Capture source released")
}
