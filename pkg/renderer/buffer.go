package renderer

import (
	"fmt"
	"sync"
)

// Buffer accumulates unweighted radiance sums, 3 floats per pixel, together
// with the number of samples each pixel has received. Sum and count are only
// ever read together.
type Buffer struct {
	mu      sync.RWMutex
	width   int
	height  int
	sum     []float64
	samples int
}

// NewBuffer allocates a zeroed buffer for a width x height image
func NewBuffer(width, height int) *Buffer {
	return &Buffer{
		width:  width,
		height: height,
		sum:    make([]float64, width*height*3),
	}
}

// Width returns the image width in pixels
func (b *Buffer) Width() int { return b.width }

// Height returns the image height in pixels
func (b *Buffer) Height() int { return b.height }

// Merge adds a partial sum covering the given number of samples per pixel.
// The partial must have the buffer's dimensions.
func (b *Buffer) Merge(partial []float64, samples int) {
	if len(partial) != len(b.sum) {
		panic(fmt.Sprintf("renderer: merging %d values into a buffer of %d", len(partial), len(b.sum)))
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for i, v := range partial {
		b.sum[i] += v
	}
	b.samples += samples
}

// Snapshot returns a copy of the current sums and the matching sample count
func (b *Buffer) Snapshot() ([]float64, int) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	sum := make([]float64, len(b.sum))
	copy(sum, b.sum)
	return sum, b.samples
}

// Samples returns the number of samples merged so far
func (b *Buffer) Samples() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.samples
}
