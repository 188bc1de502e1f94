package metrics

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	minLatencyMicros = 1
	maxLatencyMicros = 60_000_000 // 60 s
	sigFigs          = 3
)

// LatencySnapshot summarizes recorded latencies in milliseconds.
type LatencySnapshot struct {
	Count  int64   `json:"count"`
	MeanMs float64 `json:"mean_ms"`
	P50Ms  float64 `json:"p50_ms"`
	P95Ms  float64 `json:"p95_ms"`
	P99Ms  float64 `json:"p99_ms"`
	MaxMs  float64 `json:"max_ms"`
}

// LatencyRecorder collects capture+analysis durations in an HDR histogram.
type LatencyRecorder struct {
	mu   sync.Mutex
	hist *hdrhistogram.Histogram
}

func NewLatencyRecorder() *LatencyRecorder {
	return &LatencyRecorder{hist: hdrhistogram.New(minLatencyMicros, maxLatencyMicros, sigFigs)}
}

// Record adds one duration. Values outside the trackable range are clamped.
func (r *LatencyRecorder) Record(d time.Duration) {
	us := d.Microseconds()
	if us < minLatencyMicros {
		us = minLatencyMicros
	}
	if us > maxLatencyMicros {
		us = maxLatencyMicros
	}

	r.mu.Lock()
	_ = r.hist.RecordValue(us)
	r.mu.Unlock()
}

// Snapshot returns the current percentiles.
func (r *LatencyRecorder) Snapshot() LatencySnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hist.TotalCount() == 0 {
		return LatencySnapshot{}
	}
	return LatencySnapshot{
		Count:  r.hist.TotalCount(),
		MeanMs: r.hist.Mean() / 1000,
		P50Ms:  float64(r.hist.ValueAtQuantile(50)) / 1000,
		P95Ms:  float64(r.hist.ValueAtQuantile(95)) / 1000,
		P99Ms:  float64(r.hist.ValueAtQuantile(99)) / 1000,
		MaxMs:  float64(r.hist.Max()) / 1000,
	}
}

// Reset clears all recorded values.
func (r *LatencyRecorder) Reset() {
	r.mu.Lock()
	r.hist.Reset()
	r.mu.Unlock()
}
