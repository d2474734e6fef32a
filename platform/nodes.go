package platform

import (
	"fmt"

	"github.com/sarchlab/meshgen/component"
	"github.com/sarchlab/meshgen/config"
	"github.com/sarchlab/meshgen/mesh"
)

const (
	globalMemName    = "global_memory_controller"
	weightLoaderName = "weight_loader"
)

func (b Builder) buildWeightLoader(inst component.Instantiator) error {
	err := inst.Instantiate(component.Component{
		Name:   globalMemName,
		Type:   component.TypeMemController,
		Params: component.GlobalMemCtrlParams().Params(),
	})
	if err != nil {
		return err
	}

	loader := component.WeightLoaderParams{
		BaseAddrStart:  b.addrs.Base,
		PerCoreStride:  b.addrs.Stride,
		NumCores:       b.topo.NumNodes(),
		NeuronsPerCore: b.cfg.NeuronsPerCore,
		TotalNeurons:   b.cfg.TotalNeurons(),
		FileTemplate:   config.RewritePlaceholder(b.weightTemplate, "core"),
		FillValue:      0,
		ValidateLength: true,
		RowMajor:       true,
		Verbose:        2,
	}

	err = inst.Instantiate(component.Component{
		Name:   weightLoaderName,
		Type:   component.TypeWeightLoader,
		Params: loader.Params(),
		SubComponents: []component.SubComponent{{
			Slot:   "memory",
			Type:   component.TypeStandardMem,
			Params: component.Params{"port": "lowlink"},
		}},
	})
	if err != nil {
		return err
	}

	return inst.Connect(component.Link{
		Name: "weight_loader_to_global_mem",
		A:    b.endpoint(weightLoaderName, "lowlink"),
		B:    b.endpoint(globalMemName, "highlink"),
	})
}

func (b Builder) buildRouters(inst component.Instantiator) error {
	topo := component.MeshTopologyParams{
		Shape:      b.topo.ShapeString(),
		Width:      "1x1",
		LocalPorts: 1,
	}

	for id := 0; id < b.topo.NumNodes(); id++ {
		p := b.router
		p.ID = id
		p.NumPorts = mesh.NumPorts
		p.LinkBandwidth = b.cfg.Network.Bandwidth
		p.XbarBandwidth = b.cfg.Network.Bandwidth

		err := inst.Instantiate(component.Component{
			Name:   routerName(id),
			Type:   component.TypeRouter,
			Params: p.Params(),
			SubComponents: []component.SubComponent{{
				Slot:   "topology",
				Type:   component.TypeMeshTopology,
				Params: topo.Params(),
			}},
			Statistics: RouterStatistics,
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (b Builder) buildNodes(inst component.Instantiator) error {
	for id := 0; id < b.topo.NumNodes(); id++ {
		if err := b.buildNode(inst, id); err != nil {
			return fmt.Errorf("node %d: %w", id, err)
		}
	}

	return nil
}

func (b Builder) buildNode(inst component.Instantiator, id int) error {
	pe := b.pe
	pe.NodeID = id
	pe.NumCores = b.cfg.CoresPerNode
	pe.NeuronsPerCore = b.cfg.NeuronsPerCore
	pe.TotalNeurons = b.cfg.TotalNeurons()
	pe.GlobalNeuronBase = id * b.cfg.NeuronsPerNode()
	pe.BaseAddr = b.addrs.Addr(id)
	pe.WeightsFile = b.weightFiles[id]
	pe.ExpectedWeight = float64(b.cfg.Weights.Fill)

	nic := component.NICParams{
		NodeID:        id,
		TotalNodes:    b.topo.NumNodes(),
		LinkBandwidth: b.cfg.Network.Bandwidth,
		InputBufSize:  b.cfg.Network.BufferSize,
		OutputBufSize: b.cfg.Network.BufferSize,
		PortName:      "network",
	}

	err := inst.Instantiate(component.Component{
		Name:   peName(id),
		Type:   component.TypePE,
		Params: pe.Params(),
		SubComponents: []component.SubComponent{{
			Slot:   "network_interface",
			Type:   component.TypeNIC,
			Params: nic.Params(),
		}},
		Statistics: PEStatistics,
	})
	if err != nil {
		return err
	}

	for core := 0; core < b.cfg.CoresPerNode; core++ {
		if err := b.buildCore(inst, id, core); err != nil {
			return err
		}
	}

	return nil
}

func (b Builder) buildCore(inst component.Instantiator, id, core int) error {
	prefix := fmt.Sprintf("pe_%d_core%d", id, core)
	memName := prefix + "_mem_ctrl"
	l1Name := prefix + "_l1"

	err := inst.Instantiate(component.Component{
		Name:   memName,
		Type:   component.TypeMemController,
		Params: component.CoreMemCtrlParams().Params(),
	})
	if err != nil {
		return err
	}

	err = inst.Instantiate(component.Component{
		Name:   l1Name,
		Type:   component.TypeCache,
		Params: component.DefaultCacheParams().Params(),
	})
	if err != nil {
		return err
	}

	peEnd := b.endpoint(peName(id), fmt.Sprintf("core%d_mem", core))
	peEnd.Latency = b.coreLatency
	l1High := b.endpoint(l1Name, "highlink")
	l1High.Latency = b.coreLatency

	err = inst.Connect(component.Link{
		Name: prefix + "_mem",
		A:    peEnd,
		B:    l1High,
	})
	if err != nil {
		return err
	}

	return inst.Connect(component.Link{
		Name: prefix + "_l1_to_mem",
		A:    b.endpoint(l1Name, "lowlink"),
		B:    b.endpoint(memName, "highlink"),
	})
}

// SpikeSourceStart staggers the start of the spike sources so that they do
// not all inject in the same cycle.
func SpikeSourceStart(id int) float64 {
	return 1.0 + float64(id%4)*0.5
}

func (b Builder) buildSpikeSources(inst component.Instantiator) error {
	for id := 0; id < b.topo.NumNodes(); id++ {
		p := component.SpikeSourceParams{
			SourceID:       id,
			DatasetPath:    b.stimulusFiles[id],
			NeuronsPerCore: b.cfg.NeuronsPerCore,
			StartTimeUs:    SpikeSourceStart(id),
			Loop:           true,
			Verbose:        2,
		}

		err := inst.Instantiate(component.Component{
			Name:   spikeSourceName(id),
			Type:   component.TypeSpikeSource,
			Params: p.Params(),
		})
		if err != nil {
			return err
		}
	}

	return nil
}
