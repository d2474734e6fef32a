// Package stimulus synthesizes reproducible spike-train stimulus for the
// neurons targeted by each mesh node and serializes it as text tables.
package stimulus

import (
	"errors"
	"fmt"
)

// ErrInvalidPolicy is returned by Policy.Validate.
var ErrInvalidPolicy = errors.New("invalid stimulus policy")

// Policy holds the calibration constants of stimulus synthesis. The defaults
// reproduce the reference 4x4 configuration exactly; changing them changes
// the generated files.
type Policy struct {
	// JitterBound is the half width of the uniform jitter applied to the
	// nominal inter-spike interval, as a fraction of the interval.
	JitterBound float64 `yaml:"jitter_bound"`

	// MinEvents is the number of jittered spikes below which the fallback
	// schedule replaces the jittered one.
	MinEvents int `yaml:"min_events"`

	// FallbackOffsets are the spike times, in microseconds after the window
	// start, used when jitter produced too few spikes.
	FallbackOffsets []float64 `yaml:"fallback_offsets"`

	// MaxSpikes caps the jittered spike train of a single neuron.
	MaxSpikes int `yaml:"max_spikes"`

	// BurstOffsets expand every base spike into a burst of events at these
	// integer microsecond offsets.
	BurstOffsets []int64 `yaml:"burst_offsets"`

	// EastFanout, SouthFanout and DiagonalFanout are the number of leading
	// neurons of each neighbor node that join a node's target set.
	EastFanout     int `yaml:"east_fanout"`
	SouthFanout    int `yaml:"south_fanout"`
	DiagonalFanout int `yaml:"diagonal_fanout"`
}

// DefaultPolicy returns the reference calibration.
func DefaultPolicy() Policy {
	return Policy{
		JitterBound:     0.2,
		MinEvents:       3,
		FallbackOffsets: []float64{1, 3, 5, 7},
		MaxSpikes:       1 << 20,
		BurstOffsets:    []int64{0, 1, 2, 5, 8, 10},
		EastFanout:      2,
		SouthFanout:     2,
		DiagonalFanout:  1,
	}
}

// Validate checks that the policy produces a terminating, non-empty
// stimulus.
func (p Policy) Validate() error {
	if p.JitterBound < 0 || p.JitterBound >= 1 {
		return fmt.Errorf("%w: jitter bound %g must be in [0, 1)",
			ErrInvalidPolicy, p.JitterBound)
	}

	if p.MinEvents < 0 {
		return fmt.Errorf("%w: min events %d is negative",
			ErrInvalidPolicy, p.MinEvents)
	}

	if len(p.BurstOffsets) == 0 {
		return fmt.Errorf("%w: no burst offsets", ErrInvalidPolicy)
	}

	seen := make(map[int64]bool, len(p.BurstOffsets))
	for _, o := range p.BurstOffsets {
		if o < 0 || seen[o] {
			return fmt.Errorf("%w: burst offset %d is negative or repeated",
				ErrInvalidPolicy, o)
		}
		seen[o] = true
	}

	if p.MaxSpikes < 1 {
		return fmt.Errorf("%w: max spikes %d must be positive",
			ErrInvalidPolicy, p.MaxSpikes)
	}

	if len(p.FallbackOffsets) == 0 {
		return fmt.Errorf("%w: no fallback offsets", ErrInvalidPolicy)
	}

	for _, o := range p.FallbackOffsets {
		if o < 0 {
			return fmt.Errorf("%w: fallback offset %g is negative",
				ErrInvalidPolicy, o)
		}
	}

	if p.EastFanout < 0 || p.SouthFanout < 0 || p.DiagonalFanout < 0 {
		return fmt.Errorf("%w: negative neighbor fanout", ErrInvalidPolicy)
	}

	return nil
}

// CheckWindow verifies that jittered generation over w advances time and
// stays within MaxSpikes per neuron.
func (p Policy) CheckWindow(w Window) error {
	if err := w.validate(); err != nil {
		return err
	}

	step := w.Interval() * (1 - p.JitterBound)
	if end := w.End(); end+step <= end {
		return fmt.Errorf("%w: rate %g Hz is too high to advance past %gus",
			ErrInvalidWindow, w.RateHz, end)
	}

	if w.Duration/step > float64(p.MaxSpikes) {
		return fmt.Errorf("%w: rate %g Hz over %gus exceeds %d spikes per neuron",
			ErrInvalidWindow, w.RateHz, w.Duration, p.MaxSpikes)
	}

	return nil
}

// BurstSize is the number of events each base spike expands into.
func (p Policy) BurstSize() int {
	return len(p.BurstOffsets)
}

// MaxBurstOffset is the largest burst offset.
func (p Policy) MaxBurstOffset() int64 {
	var m int64
	for _, o := range p.BurstOffsets {
		if o > m {
			m = o
		}
	}

	return m
}
