package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLatencyRecorder_Empty(t *testing.T) {
	r := NewLatencyRecorder()
	assert.Equal(t, LatencySnapshot{}, r.Snapshot())
}

func TestLatencyRecorder_Percentiles(t *testing.T) {
	r := NewLatencyRecorder()
	for i := 1; i <= 100; i++ {
		r.Record(time.Duration(i) * time.Millisecond)
	}

	s := r.Snapshot()
	assert.Equal(t, int64(100), s.Count)
	assert.InDelta(t, 50.5, s.MeanMs, 0.5)
	assert.InDelta(t, 50, s.P50Ms, 0.5)
	assert.InDelta(t, 95, s.P95Ms, 0.5)
	assert.InDelta(t, 100, s.MaxMs, 0.5)
}

func TestLatencyRecorder_ClampsOutOfRange(t *testing.T) {
	r := NewLatencyRecorder()
	r.Record(0)
	r.Record(2 * time.Minute)

	s := r.Snapshot()
	assert.Equal(t, int64(2), s.Count)
	assert.InDelta(t, 60_000, s.MaxMs, 100)
}

func TestLatencyRecorder_ResetAndConcurrency(t *testing.T) {
	r := NewLatencyRecorder()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				r.Record(5 * time.Millisecond)
				_ = r.Snapshot()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(400), r.Snapshot().Count)
	r.Reset()
	assert.Equal(t, int64(0), r.Snapshot().Count)
}
