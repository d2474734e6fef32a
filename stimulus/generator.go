package stimulus

import (
	"errors"
	"fmt"
	"math/rand"

	valgen "github.com/sarchlab/meshgen/util"
)

// ErrInvalidWindow is returned for windows that cannot be generated.
var ErrInvalidWindow = errors.New("invalid stimulus window")

// Window is the time span and nominal rate of a stimulus, in microseconds
// and hertz.
type Window struct {
	Start    float64 `yaml:"start_us"`
	Duration float64 `yaml:"duration_us"`
	RateHz   float64 `yaml:"rate_hz"`
}

// End returns the exclusive end of the window.
func (w Window) End() float64 {
	return w.Start + w.Duration
}

// Interval returns the nominal inter-spike interval in microseconds.
func (w Window) Interval() float64 {
	return 1e6 / w.RateHz
}

func (w Window) validate() error {
	if w.RateHz <= 0 {
		return fmt.Errorf("%w: rate %g Hz must be positive",
			ErrInvalidWindow, w.RateHz)
	}

	if w.Duration < 0 {
		return fmt.Errorf("%w: duration %g us is negative",
			ErrInvalidWindow, w.Duration)
	}

	if w.Start < 0 {
		return fmt.Errorf("%w: start %g us is negative",
			ErrInvalidWindow, w.Start)
	}

	return nil
}

// Result holds the base spike times of every requested neuron.
type Result struct {
	Spikes map[int][]float64

	// Fallback lists, in request order, the neurons that received the
	// fallback schedule.
	Fallback []int
}

// Generator produces jittered spike trains. Every neuron draws from its own
// random stream, seeded through Seed, so neurons can be generated in any
// order or concurrently with identical results.
type Generator struct {
	Policy Policy
	Seed   valgen.SeedFunc
}

// NewGenerator creates a generator with the default policy that seeds each
// neuron with seedBase + neuronID.
func NewGenerator(seedBase int64) Generator {
	return Generator{
		Policy: DefaultPolicy(),
		Seed:   valgen.MakeOffsetSeed(seedBase),
	}
}

// Generate produces the base spike times of the given neurons on behalf of
// the given node.
func (g Generator) Generate(
	nodeID int,
	neuronIDs []int,
	w Window,
) (Result, error) {
	if err := g.Policy.Validate(); err != nil {
		return Result{}, err
	}

	if err := g.Policy.CheckWindow(w); err != nil {
		return Result{}, err
	}

	res := Result{Spikes: make(map[int][]float64, len(neuronIDs))}

	for _, id := range neuronIDs {
		spikes, fellBack, err := g.spikeTrain(nodeID, id, w)
		if err != nil {
			return Result{}, err
		}

		res.Spikes[id] = spikes

		if fellBack {
			res.Fallback = append(res.Fallback, id)
		}
	}

	return res, nil
}

func (g Generator) spikeTrain(
	nodeID, neuronID int,
	w Window,
) ([]float64, bool, error) {
	rng := rand.New(rand.NewSource(g.Seed(nodeID, neuronID)))
	interval := w.Interval()
	end := w.End()

	var spikes []float64

	for now := w.Start; now < end; {
		jitter := (rng.Float64()*2 - 1) * g.Policy.JitterBound
		now += interval * (1 + jitter)

		if now < end {
			spikes = append(spikes, now)
		}

		if len(spikes) > g.Policy.MaxSpikes {
			return nil, false, fmt.Errorf("%w: neuron %d exceeds %d spikes",
				ErrInvalidWindow, neuronID, g.Policy.MaxSpikes)
		}
	}

	if len(spikes) >= g.Policy.MinEvents {
		return spikes, false, nil
	}

	return g.fallback(w), true, nil
}

func (g Generator) fallback(w Window) []float64 {
	spikes := make([]float64, 0, len(g.Policy.FallbackOffsets))

	for _, o := range g.Policy.FallbackOffsets {
		t := w.Start + o
		if t < w.End() {
			spikes = append(spikes, t)
		}
	}

	return spikes
}
