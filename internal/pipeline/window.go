package pipeline

import (
	"sync"

	"github.com/jmylchreest/swatch/internal/colour"
)

// Window is the rolling buffer of per-frame samples shared by the frame
// and aggregation domains. It is safe for concurrent use.
type Window struct {
	mu      sync.Mutex
	samples []colour.Lab
}

// NewWindow creates an empty Window.
func NewWindow() *Window {
	return &Window{}
}

// Append adds a per-frame sample to the current window.
func (w *Window) Append(s colour.Lab) {
	w.mu.Lock()
	w.samples = append(w.samples, s)
	w.mu.Unlock()
}

// Len returns the number of samples in the current window.
func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.samples)
}

// Drain returns all samples in arrival order and starts a new window.
// A concurrent Append lands entirely in either the drained window or the
// next one.
func (w *Window) Drain() []colour.Lab {
	w.mu.Lock()
	samples := w.samples
	w.samples = nil
	w.mu.Unlock()
	return samples
}

// Aggregate drains the window and returns the mean of its samples and how
// many there were. The window is cleared even when it was empty.
func (w *Window) Aggregate() (colour.Lab, int, error) {
	samples := w.Drain()
	mean, err := colour.Mean(samples)
	return mean, len(samples), err
}
