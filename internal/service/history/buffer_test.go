package history

import (
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"trafficflow/internal/model"
)

func sampleAt(i int) model.FrameSample {
	return model.FrameSample{
		Timestamp:    time.Date(2025, 6, 15, 14, 0, i, 0, time.UTC),
		Density:      float64(i) / 100,
		VehicleCount: i,
		Level:        model.LevelLow,
	}
}

func TestBuffer_Empty(t *testing.T) {
	b := NewBuffer()

	if b.Len() != 0 {
		t.Errorf("Expected empty buffer, got %d samples", b.Len())
	}
	if snap := b.Snapshot(); len(snap) != 0 {
		t.Errorf("Expected empty snapshot, got %d samples", len(snap))
	}
}

func TestBuffer_OrderBelowCapacity(t *testing.T) {
	b := NewBuffer()
	var want []model.FrameSample
	for i := 0; i < 10; i++ {
		b.Append(sampleAt(i))
		want = append(want, sampleAt(i))
	}

	if diff := cmp.Diff(want, b.Snapshot()); diff != "" {
		t.Errorf("Snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestBuffer_EvictsOldest(t *testing.T) {
	b := NewBuffer()
	for i := 0; i < Capacity+1; i++ {
		b.Append(sampleAt(i))
	}

	snap := b.Snapshot()
	if len(snap) != Capacity {
		t.Fatalf("Expected %d samples, got %d", Capacity, len(snap))
	}
	for _, s := range snap {
		if s.VehicleCount == 0 {
			t.Fatal("First inserted sample should have been evicted")
		}
	}

	var want []model.FrameSample
	for i := 1; i < Capacity+1; i++ {
		want = append(want, sampleAt(i))
	}
	if diff := cmp.Diff(want, snap); diff != "" {
		t.Errorf("Snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestBuffer_WrapsManyTimes(t *testing.T) {
	b := NewBuffer()
	total := Capacity*3 + 7
	for i := 0; i < total; i++ {
		b.Append(sampleAt(i))
	}

	snap := b.Snapshot()
	if snap[0].VehicleCount != total-Capacity {
		t.Errorf("Expected oldest %d, got %d", total-Capacity, snap[0].VehicleCount)
	}
	if snap[len(snap)-1].VehicleCount != total-1 {
		t.Errorf("Expected newest %d, got %d", total-1, snap[len(snap)-1].VehicleCount)
	}
}

func TestBuffer_SnapshotIsCopy(t *testing.T) {
	b := NewBuffer()
	b.Append(sampleAt(1))

	snap := b.Snapshot()
	snap[0].VehicleCount = 999

	if b.Snapshot()[0].VehicleCount != 1 {
		t.Error("Mutating a snapshot must not change the buffer")
	}
}

func TestBuffer_ConcurrentAppend(t *testing.T) {
	b := NewBuffer()

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				b.Append(sampleAt(i))
				_ = b.Snapshot()
			}
		}()
	}
	wg.Wait()

	if b.Len() != Capacity {
		t.Errorf("Expected %d samples, got %d", Capacity, b.Len())
	}
}
