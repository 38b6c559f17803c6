package monitor

import "github.com/kirychukyurii/adg-monitor/internal/model"

// History is a bounded FIFO of latency samples, oldest first.
// It is not safe for concurrent use; the session guards it.
type History struct {
	capacity int
	samples  []model.Sample
}

// NewHistory creates an empty history holding at most capacity samples
func NewHistory(capacity int) *History {
	return &History{
		capacity: capacity,
		samples:  make([]model.Sample, 0, capacity),
	}
}

// Append adds a sample, evicting the oldest one when full
func (h *History) Append(sample model.Sample) {
	if len(h.samples) >= h.capacity {
		copy(h.samples, h.samples[1:])
		h.samples = h.samples[:len(h.samples)-1]
	}
	h.samples = append(h.samples, sample)
}

// Samples returns a copy of the stored samples in chronological order
func (h *History) Samples() []model.Sample {
	samples := make([]model.Sample, len(h.samples))
	copy(samples, h.samples)
	return samples
}

// Len returns the number of stored samples
func (h *History) Len() int {
	return len(h.samples)
}
