package history

import (
	"sync"

	"trafficflow/internal/model"
)

// Capacity is the number of samples retained.
const Capacity = 50

// Buffer is a fixed-capacity ring of recent samples. The oldest sample is
// evicted when a new one arrives at capacity.
type Buffer struct {
	mu      sync.RWMutex
	samples [Capacity]model.FrameSample
	head    int // index of the oldest sample
	size    int
}

// NewBuffer creates an empty Buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Append inserts a sample, evicting the oldest one when full.
func (b *Buffer) Append(sample model.FrameSample) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.size < Capacity {
		b.samples[(b.head+b.size)%Capacity] = sample
		b.size++
		return
	}
	b.samples[b.head] = sample
	b.head = (b.head + 1) % Capacity
}

// Snapshot returns a copy of the samples ordered oldest to newest.
func (b *Buffer) Snapshot() []model.FrameSample {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]model.FrameSample, b.size)
	for i := 0; i < b.size; i++ {
		out[i] = b.samples[(b.head+i)%Capacity]
	}
	return out
}

// Len returns the number of samples held.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}
