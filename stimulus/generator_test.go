package stimulus_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/meshgen/stimulus"
	valgen "github.com/sarchlab/meshgen/util"
)

var _ = Describe("Generator", func() {
	var g stimulus.Generator

	BeforeEach(func() {
		g = stimulus.NewGenerator(42)
	})

	It("should fall back when the rate is too low for the window", func() {
		w := stimulus.Window{Start: 2, Duration: 8, RateHz: 100}

		res, err := g.Generate(0, []int{7}, w)

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Spikes[7]).To(Equal([]float64{3, 5, 7, 9}))
		Expect(res.Fallback).To(Equal([]int{7}))

		events := g.Policy.Expand(7, res.Spikes[7])
		Expect(events).To(HaveLen(24))
	})

	It("should clip the fallback schedule to the window", func() {
		w := stimulus.Window{Start: 2, Duration: 4, RateHz: 100}

		res, err := g.Generate(0, []int{1}, w)

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Spikes[1]).To(Equal([]float64{3, 5}))
	})

	It("should produce a strictly increasing jittered train", func() {
		w := stimulus.Window{Start: 10, Duration: 200, RateHz: 1e6}

		res, err := g.Generate(3, []int{48, 49}, w)

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Fallback).To(BeEmpty())

		for _, id := range []int{48, 49} {
			spikes := res.Spikes[id]
			Expect(len(spikes)).To(BeNumerically(">=", 3))

			prev := w.Start
			for _, t := range spikes {
				Expect(t).To(BeNumerically(">", prev))
				Expect(t).To(BeNumerically("<", w.End()))
				Expect(t - prev).To(BeNumerically(">=", 0.8-1e-9))
				Expect(t - prev).To(BeNumerically("<=", 1.2+1e-9))
				prev = t
			}
		}

		Expect(res.Spikes[48]).NotTo(Equal(res.Spikes[49]))
	})

	It("should be reproducible", func() {
		w := stimulus.Window{Start: 0, Duration: 50, RateHz: 2e5}

		a, _ := g.Generate(1, []int{16, 17, 18}, w)
		b, _ := stimulus.NewGenerator(42).Generate(1, []int{18, 17, 16}, w)

		Expect(a.Spikes).To(Equal(b.Spikes))
	})

	It("should take seeds from the injected function", func() {
		w := stimulus.Window{Start: 0, Duration: 50, RateHz: 2e5}
		g.Seed = valgen.MakeConstSeed(5)

		res, _ := g.Generate(0, []int{1, 2}, w)

		Expect(res.Spikes[1]).To(Equal(res.Spikes[2]))
	})

	DescribeTable("should reject invalid windows",
		func(w stimulus.Window) {
			_, err := g.Generate(0, []int{0}, w)
			Expect(err).To(HaveOccurred())
		},
		Entry("zero rate", stimulus.Window{Start: 0, Duration: 8, RateHz: 0}),
		Entry("negative rate", stimulus.Window{Start: 0, Duration: 8, RateHz: -1}),
		Entry("negative duration", stimulus.Window{Start: 0, Duration: -1, RateHz: 10}),
		Entry("rate too high to advance time", stimulus.Window{Start: 2, Duration: 8, RateHz: 1e300}),
		Entry("rate beyond the spike cap", stimulus.Window{Start: 2, Duration: 8, RateHz: 1e15}),
	)

	It("should cap the spikes of a neuron", func() {
		g.Policy.MaxSpikes = 10
		w := stimulus.Window{Start: 10, Duration: 200, RateHz: 1e6}

		_, err := g.Generate(0, []int{0}, w)

		Expect(err).To(MatchError(stimulus.ErrInvalidWindow))
	})

	It("should stay within the cap of a dense window", func() {
		g.Policy.MaxSpikes = 250
		w := stimulus.Window{Start: 10, Duration: 200, RateHz: 1e6}

		res, err := g.Generate(0, []int{0}, w)

		Expect(err).NotTo(HaveOccurred())
		Expect(len(res.Spikes[0])).To(BeNumerically("<=", 250))
	})

	It("should require a fallback schedule", func() {
		g.Policy.FallbackOffsets = nil
		w := stimulus.Window{Start: 2, Duration: 8, RateHz: 100}

		_, err := g.Generate(0, []int{0}, w)

		Expect(err).To(MatchError(stimulus.ErrInvalidPolicy))
	})

	It("should reject a jitter bound that could stall time", func() {
		g.Policy.JitterBound = 1
		w := stimulus.Window{Start: 0, Duration: 8, RateHz: 100}

		_, err := g.Generate(0, []int{0}, w)

		Expect(err).To(MatchError(stimulus.ErrInvalidPolicy))
	})
})

var _ = Describe("Expand", func() {
	It("should burst every truncated base spike", func() {
		p := stimulus.DefaultPolicy()

		events := p.Expand(3, []float64{12.9, 40})

		Expect(events).To(Equal([]stimulus.Event{
			{Neuron: 3, Time: 12}, {Neuron: 3, Time: 13},
			{Neuron: 3, Time: 14}, {Neuron: 3, Time: 17},
			{Neuron: 3, Time: 20}, {Neuron: 3, Time: 22},
			{Neuron: 3, Time: 40}, {Neuron: 3, Time: 41},
			{Neuron: 3, Time: 42}, {Neuron: 3, Time: 45},
			{Neuron: 3, Time: 48}, {Neuron: 3, Time: 50},
		}))
	})

	It("should produce nothing for no spikes", func() {
		Expect(stimulus.DefaultPolicy().Expand(0, nil)).To(BeEmpty())
	})
})
