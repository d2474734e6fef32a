package stimulus_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/meshgen/mesh"
	"github.com/sarchlab/meshgen/stimulus"
)

var _ = Describe("Synthesize", func() {
	var (
		topo *mesh.Topology
		g    stimulus.Generator
		w    stimulus.Window
	)

	BeforeEach(func() {
		var err error
		topo, err = mesh.Build(4)
		Expect(err).NotTo(HaveOccurred())

		g = stimulus.NewGenerator(42)
		w = stimulus.Window{Start: 2, Duration: 8, RateHz: 100}
	})

	It("should select local and neighbor neurons", func() {
		targets := g.Policy.TargetNeurons(topo, 5, 16)

		expected := []int{}
		for i := 80; i <= 95; i++ {
			expected = append(expected, i)
		}
		expected = append(expected, 96, 97, 144, 145, 160)

		Expect(targets).To(Equal(expected))
	})

	It("should only add existing neighbors at the edge", func() {
		Expect(g.Policy.TargetNeurons(topo, 15, 16)).To(HaveLen(16))
		Expect(g.Policy.TargetNeurons(topo, 3, 16)).
			To(HaveLen(18))
		Expect(g.Policy.TargetNeurons(topo, 12, 16)).
			To(HaveLen(18))
	})

	It("should emit one burst per target on the staggered schedule", func() {
		ns, err := g.Synthesize(topo, 5, 16, stimulus.ScheduleStaggered, w)

		Expect(err).NotTo(HaveOccurred())
		Expect(ns.Targets).To(HaveLen(21))
		Expect(ns.Events).To(HaveLen(126))
		Expect(ns.Events[0]).To(Equal(stimulus.Event{Neuron: 80, Time: 2}))
		Expect(ns.Events[6]).To(Equal(stimulus.Event{Neuron: 81, Time: 3}))
		Expect(ns.Events[125]).
			To(Equal(stimulus.Event{Neuron: 160, Time: 22 + 10}))
	})

	It("should use the fallback floor on the jittered schedule", func() {
		ns, err := g.Synthesize(topo, 5, 16, stimulus.ScheduleJittered, w)

		Expect(err).NotTo(HaveOccurred())
		Expect(ns.Fallback).To(HaveLen(21))
		Expect(ns.Events).To(HaveLen(21 * 24))

		for i, e := range ns.Events {
			Expect(e.Neuron).To(Equal(ns.Targets[i/24]))
		}
	})

	It("should reject an unknown schedule", func() {
		_, err := g.Synthesize(topo, 0, 16, stimulus.Schedule("poisson"), w)
		Expect(err).To(HaveOccurred())

		_, err = stimulus.ParseSchedule("poisson")
		Expect(err).To(HaveOccurred())
	})
})
