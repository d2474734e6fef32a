package platform

import (
	"fmt"

	"github.com/sarchlab/meshgen/component"
	"github.com/sarchlab/meshgen/mesh"
)

// connectNetwork binds every NIC to the local port of its router and every
// mesh edge to the facing router ports.
func (b Builder) connectNetwork(inst component.Instantiator) error {
	for id := 0; id < b.topo.NumNodes(); id++ {
		err := inst.Connect(component.Link{
			Name: fmt.Sprintf("nic_%d_to_router_%d", id, id),
			A:    b.endpoint(peName(id), "network"),
			B:    b.endpoint(routerName(id), mesh.PortLocal.Name()),
		})
		if err != nil {
			return err
		}
	}

	for _, e := range b.topo.Edges() {
		err := inst.Connect(component.Link{
			Name: e.LinkName(),
			A:    b.endpoint(routerName(e.A), e.PortA.Name()),
			B:    b.endpoint(routerName(e.B), e.PortB.Name()),
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (b Builder) connectSpikeSources(inst component.Instantiator) error {
	for id := 0; id < b.topo.NumNodes(); id++ {
		err := inst.Connect(component.Link{
			Name: fmt.Sprintf("spike_source_%d_to_pe_%d", id, id),
			A:    b.endpoint(spikeSourceName(id), "spike_output"),
			B:    b.endpoint(peName(id), "external_spike_input"),
		})
		if err != nil {
			return err
		}
	}

	return nil
}
