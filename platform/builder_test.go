package platform_test

import (
	"errors"
	"fmt"

	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/meshgen/addrmap"
	"github.com/sarchlab/meshgen/component"
	"github.com/sarchlab/meshgen/config"
	"github.com/sarchlab/meshgen/mesh"
	"github.com/sarchlab/meshgen/platform"
)

func files(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("/data/%s_%d", prefix, i)
	}

	return out
}

var _ = Describe("Builder", func() {
	var (
		cfg     *config.Config
		topo    *mesh.Topology
		addrs   addrmap.AddressMap
		builder platform.Builder
	)

	BeforeEach(func() {
		var err error

		cfg = config.Default()
		topo, err = mesh.Build(cfg.MeshSize)
		Expect(err).NotTo(HaveOccurred())
		addrs, err = addrmap.Allocate(
			cfg.Memory.BaseAddress, cfg.Memory.Stride, topo.NumNodes())
		Expect(err).NotTo(HaveOccurred())

		builder = platform.MakeBuilder().
			WithConfig(cfg).
			WithTopology(topo).
			WithAddressMap(addrs).
			WithStimulusFiles(files("spikes", 16)).
			WithWeightFiles(files("weights", 16), "/data/w_{node}.bin")
	})

	Context("with a manifest", func() {
		var m *component.Manifest

		BeforeEach(func() {
			m = component.NewManifest()
			Expect(builder.Build(m)).To(Succeed())
		})

		It("should create one of each per-node component", func() {
			Expect(m.CountType(component.TypeRouter)).To(Equal(16))
			Expect(m.CountType(component.TypePE)).To(Equal(16))
			Expect(m.CountType(component.TypeSpikeSource)).To(Equal(16))
			Expect(m.CountType(component.TypeCache)).To(Equal(64))
			Expect(m.CountType(component.TypeMemController)).To(Equal(65))
			Expect(m.CountType(component.TypeWeightLoader)).To(Equal(1))
		})

		It("should wire the mesh, NICs, spike sources and memories", func() {
			// 1 loader + 16 NIC + 24 mesh + 16 spike + 16*4*2 core links
			Expect(m.Links).To(HaveLen(1 + 16 + 24 + 16 + 128))

			names := map[string]component.Link{}
			for _, l := range m.Links {
				names[l.Name] = l
			}

			east := names["router_east_5_to_6"]
			Expect(east.A.Component).To(Equal("router_5"))
			Expect(east.A.Port).To(Equal("port0"))
			Expect(east.B.Component).To(Equal("router_6"))
			Expect(east.B.Port).To(Equal("port1"))

			south := names["router_south_5_to_9"]
			Expect(south.A.Port).To(Equal("port2"))
			Expect(south.B.Port).To(Equal("port3"))

			nic := names["nic_5_to_router_5"]
			Expect(nic.B.Port).To(Equal("port4"))
		})

		It("should give every PE its own weight address", func() {
			pe, ok := m.Component("multicore_pe_5")
			Expect(ok).To(BeTrue())
			Expect(pe.Params).To(HaveKeyWithValue("base_addr", addrs.Addr(5)))
			Expect(pe.Params).To(HaveKeyWithValue("global_neuron_base", 80))
			Expect(pe.Params).To(HaveKeyWithValue("weights_file", "/data/weights_5"))
			Expect(pe.SubComponents[0].Params).
				To(HaveKeyWithValue("total_nodes", 16))
		})

		It("should describe the weight loader with the consumer template", func() {
			wl, ok := m.Component("weight_loader")
			Expect(ok).To(BeTrue())
			Expect(wl.Params).To(HaveKeyWithValue("file_template", "/data/w_{core}.bin"))
			Expect(wl.Params).To(HaveKeyWithValue("per_core_stride", uint64(32768)))
			Expect(wl.Params).To(HaveKeyWithValue("base_addr_start", uint64(0x10000000)))
		})

		It("should stagger spike source start times", func() {
			for id, start := range map[int]float64{0: 1.0, 1: 1.5, 3: 2.5, 4: 1.0} {
				src, ok := m.Component(fmt.Sprintf("spike_source_%d", id))
				Expect(ok).To(BeTrue())
				Expect(src.Params).To(HaveKeyWithValue("start_time_us", start))
			}
		})

		It("should set program options", func() {
			Expect(m.Program).To(HaveKeyWithValue("stop-at", "50us"))
			Expect(m.Program).To(HaveKeyWithValue("timebase", "1ps"))
		})
	})

	Context("with a mocked instantiator", func() {
		var (
			mockCtrl *gomock.Controller
			inst     *MockInstantiator
		)

		BeforeEach(func() {
			mockCtrl = gomock.NewController(GinkgoT())
			inst = NewMockInstantiator(mockCtrl)
		})

		AfterEach(func() {
			mockCtrl.Finish()
		})

		It("should stop at the first failure", func() {
			inst.EXPECT().
				Instantiate(gomock.Any()).
				Return(errors.New("no such plugin"))

			err := builder.Build(inst)

			Expect(err).To(MatchError("no such plugin"))
		})

		It("should instantiate a single-node platform", func() {
			cfg.MeshSize = 1
			cfg.CoresPerNode = 1
			one, _ := mesh.Build(1)
			oneAddr, _ := addrmap.Allocate(0, 4096, 1)

			inst.EXPECT().Instantiate(gomock.Any()).Return(nil).Times(7)
			inst.EXPECT().Connect(gomock.Any()).Return(nil).Times(5)

			err := builder.
				WithTopology(one).
				WithAddressMap(oneAddr).
				WithStimulusFiles(files("spikes", 1)).
				WithWeightFiles(files("weights", 1), "w_{node}.bin").
				Build(inst)

			Expect(err).NotTo(HaveOccurred())
		})
	})

	It("should refuse mismatched inputs", func() {
		err := builder.WithStimulusFiles(files("spikes", 3)).
			Build(component.NewManifest())

		Expect(err).To(HaveOccurred())
	})
})
