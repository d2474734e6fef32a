// Package platform describes the complete simulated platform of a mesh run:
// routers, processing elements with their network interfaces and memory
// hierarchy, spike sources and the weight loader, plus every link between
// them.
package platform

import (
	"errors"
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/meshgen/addrmap"
	"github.com/sarchlab/meshgen/component"
	"github.com/sarchlab/meshgen/config"
	"github.com/sarchlab/meshgen/mesh"
)

// PEStatistics are the statistics enabled on every processing element.
var PEStatistics = []string{
	"total_external_spikes_received",
	"total_internal_spikes_processed",
	"total_network_spikes_sent",
	"total_neuron_activations",
	"memory_accesses",
}

// RouterStatistics are the statistics enabled on every router.
var RouterStatistics = []string{
	"router.packet_count",
	"router.network_load",
}

type programOptionSetter interface {
	SetProgramOption(key, value string)
}

// Builder can describe a mesh platform through an Instantiator.
type Builder struct {
	cfg            *config.Config
	topo           *mesh.Topology
	addrs          addrmap.AddressMap
	stimulusFiles  []string
	weightFiles    []string
	weightTemplate string
	router         component.RouterParams
	pe             component.PEParams
	linkLatency    sim.VTimeInSec
	coreLatency    sim.VTimeInSec
}

// MakeBuilder creates a builder with the reference platform settings.
func MakeBuilder() Builder {
	return Builder{
		router:      component.DefaultRouterParams(),
		pe:          component.DefaultPEParams(),
		linkLatency: 5e-9,
		coreLatency: 1e-9,
	}
}

// WithConfig sets the run configuration.
func (b Builder) WithConfig(cfg *config.Config) Builder {
	b.cfg = cfg
	return b
}

// WithTopology sets the mesh the routers are wired along.
func (b Builder) WithTopology(topo *mesh.Topology) Builder {
	b.topo = topo
	return b
}

// WithAddressMap sets the weight address of every node.
func (b Builder) WithAddressMap(addrs addrmap.AddressMap) Builder {
	b.addrs = addrs
	return b
}

// WithStimulusFiles sets the stimulus file of every node, in node order.
func (b Builder) WithStimulusFiles(paths []string) Builder {
	b.stimulusFiles = paths
	return b
}

// WithWeightFiles sets the weight file of every node, in node order, and the
// template the weight loader expands to find them.
func (b Builder) WithWeightFiles(paths []string, template string) Builder {
	b.weightFiles = paths
	b.weightTemplate = template

	return b
}

// WithRouterParams overrides the router settings. The id is set per router.
func (b Builder) WithRouterParams(p component.RouterParams) Builder {
	b.router = p
	return b
}

// WithLinkLatency sets the latency of network and memory links.
func (b Builder) WithLinkLatency(t sim.VTimeInSec) Builder {
	b.linkLatency = t
	return b
}

// Build describes the platform through inst.
func (b Builder) Build(inst component.Instantiator) error {
	if err := b.check(); err != nil {
		return err
	}

	if s, ok := inst.(programOptionSetter); ok {
		s.SetProgramOption("timebase", "1ps")
		s.SetProgramOption("stop-at", b.cfg.SimulationTime)
	}

	steps := []func(component.Instantiator) error{
		b.buildWeightLoader,
		b.buildRouters,
		b.buildNodes,
		b.buildSpikeSources,
		b.connectNetwork,
		b.connectSpikeSources,
	}

	for _, step := range steps {
		if err := step(inst); err != nil {
			return err
		}
	}

	return nil
}

func (b Builder) check() error {
	switch {
	case b.cfg == nil:
		return errors.New("platform builder needs a config")
	case b.topo == nil:
		return errors.New("platform builder needs a topology")
	}

	n := b.topo.NumNodes()
	if b.addrs.Count != n {
		return fmt.Errorf("address map covers %d nodes, mesh has %d",
			b.addrs.Count, n)
	}

	if len(b.stimulusFiles) != n || len(b.weightFiles) != n {
		return fmt.Errorf("need %d stimulus and weight files, got %d and %d",
			n, len(b.stimulusFiles), len(b.weightFiles))
	}

	return nil
}

func routerName(id int) string { return fmt.Sprintf("router_%d", id) }
func peName(id int) string { return fmt.Sprintf("multicore_pe_%d", id) }
func spikeSourceName(id int) string { return fmt.Sprintf("spike_source_%d", id) }

func (b Builder) endpoint(comp, port string) component.Endpoint {
	return component.Endpoint{
		Component: comp,
		Port:      port,
		Latency:   b.linkLatency,
	}
}
