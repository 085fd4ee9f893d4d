package colour

import "errors"

// ErrEmptyWindow is returned when an aggregation window holds no samples.
var ErrEmptyWindow = errors.New("empty aggregation window")

// Mean returns the per-channel arithmetic mean of samples.
// No outlier rejection is applied; the samples are expected to be
// per-frame medians already.
func Mean(samples []Lab) (Lab, error) {
	if len(samples) == 0 {
		return Lab{}, ErrEmptyWindow
	}

	var sum Lab
	for _, s := range samples {
		sum.L += s.L
		sum.A += s.A
		sum.B += s.B
	}

	n := float64(len(samples))
	return Lab{L: sum.L / n, A: sum.A / n, B: sum.B / n}, nil
}
