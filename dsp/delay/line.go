// Package delay implements a fixed-size integer-delay circular buffer for
// Q1.23 samples, used for limiter lookahead.
package delay

import (
	"fmt"

	"github.com/cwbudde/algo-wdrc/dsp/fixed"
)

// Line is a circular delay line of fixed depth.
type Line struct {
	buffer   []fixed.Sample
	writePos int
}

// New returns a delay line of fixed size.
func New(size int) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay size must be > 0: %d", size)
	}
	return &Line{buffer: make([]fixed.Sample, size)}, nil
}

// Len returns internal buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// Write writes one sample.
func (d *Line) Write(sample fixed.Sample) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read reads an integer delay in samples. Delay 1 is the most recently
// written sample; the largest usable delay equals Len.
func (d *Line) Read(delay int) fixed.Sample {
	size := len(d.buffer)
	readPos := (d.writePos - delay + size) % size
	return d.buffer[readPos]
}

// Process writes one sample and returns the oldest buffered sample, giving
// a constant delay of Len samples.
func (d *Line) Process(sample fixed.Sample) fixed.Sample {
	out := d.buffer[d.writePos]
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
	return out
}

// Reset clears line state.
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.writePos = 0
}
