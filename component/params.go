package component

import (
	"github.com/sarchlab/akita/v4/sim"
)

// Component types of the simulator plugins the platform is built from.
const (
	TypeRouter        = "merlin.hr_router"
	TypeMeshTopology  = "merlin.mesh"
	TypePE            = "SnnDL.MultiCorePE"
	TypeNIC           = "SnnDL.SnnNIC"
	TypeSpikeSource   = "SnnDL.SpikeSource"
	TypeWeightLoader  = "SnnDL.WeightLoader"
	TypeMemController = "memHierarchy.MemController"
	TypeCache         = "memHierarchy.Cache"
	TypeStandardMem   = "memHierarchy.standardInterface"
)

func flag(b bool) int {
	if b {
		return 1
	}

	return 0
}

// RouterParams configures one mesh router.
type RouterParams struct {
	ID            int
	NumPorts      int
	LinkBandwidth string
	XbarBandwidth string
	FlitSize      string
	InputLatency  sim.VTimeInSec
	OutputLatency sim.VTimeInSec
	InputBufSize  string
	OutputBufSize string
	NumVNs        int
	XbarArbiter   string
}

// DefaultRouterParams returns the router settings of the reference platform.
func DefaultRouterParams() RouterParams {
	return RouterParams{
		NumPorts:      5,
		LinkBandwidth: "40GiB/s",
		XbarBandwidth: "40GiB/s",
		FlitSize:      "8B",
		InputLatency:  10e-9,
		OutputLatency: 10e-9,
		InputBufSize:  "4KiB",
		OutputBufSize: "4KiB",
		NumVNs:        1,
		XbarArbiter:   "merlin.xbar_arb_lru",
	}
}

// Params converts the settings to simulator parameters.
func (p RouterParams) Params() Params {
	return Params{
		"id":                 p.ID,
		"num_ports":          p.NumPorts,
		"link_bw":            p.LinkBandwidth,
		"xbar_bw":            p.XbarBandwidth,
		"flit_size":          p.FlitSize,
		"input_latency":      FormatTime(p.InputLatency),
		"output_latency":     FormatTime(p.OutputLatency),
		"input_buf_size":     p.InputBufSize,
		"output_buf_size":    p.OutputBufSize,
		"num_vns":            p.NumVNs,
		"xbar_arb":           p.XbarArbiter,
		"debug":              0,
		"verbose":            0,
		"network_inspectors": "",
	}
}

// MeshTopologyParams configures the topology sub-component of a router.
type MeshTopologyParams struct {
	Shape      string
	Width      string
	LocalPorts int
}

// Params converts the settings to simulator parameters.
func (p MeshTopologyParams) Params() Params {
	return Params{
		"shape":       p.Shape,
		"width":       p.Width,
		"local_ports": p.LocalPorts,
	}
}

// PEParams configures one multi-core processing element.
type PEParams struct {
	NodeID           int
	NumCores         int
	NeuronsPerCore   int
	TotalNeurons     int
	GlobalNeuronBase int
	BaseAddr         uint64
	WeightsFile      string
	VThresh          float64
	VRest            float64
	VReset           float64
	EventWeight      float64
	ExpectedWeight   float64
	VerifySamples    int
	WarmupCycles     int
	Verbose          int
}

// DefaultPEParams returns the neuron-model settings of the reference
// platform.
func DefaultPEParams() PEParams {
	return PEParams{
		VThresh:       0.1,
		EventWeight:   0.5,
		VerifySamples: 8,
		WarmupCycles:  100,
		Verbose:       2,
	}
}

// Params converts the settings to simulator parameters.
func (p PEParams) Params() Params {
	return Params{
		"verbose":                   p.Verbose,
		"num_cores":                 p.NumCores,
		"neurons_per_core":          p.NeuronsPerCore,
		"total_neurons":             p.TotalNeurons,
		"node_id":                   p.NodeID,
		"global_neuron_base":        p.GlobalNeuronBase,
		"base_addr":                 p.BaseAddr,
		"enable_test_traffic":       1,
		"enable_memory_weights":     1,
		"write_weights_on_init":     1,
		"weights_file":              p.WeightsFile,
		"v_thresh":                  p.VThresh,
		"v_rest":                    p.VRest,
		"v_reset":                   p.VReset,
		"use_event_weight_fallback": 1,
		"event_weight_fallback":     p.EventWeight,
		"verify_weights":            1,
		"weight_verify_samples":     p.VerifySamples,
		"expected_weight_value":     p.ExpectedWeight,
		"verify_log_each_sample":    1,
		"memory_warmup_cycles":      p.WarmupCycles,
		"enable_weight_fetch":       1,
	}
}

// NICParams configures the network interface of a processing element.
type NICParams struct {
	NodeID        int
	TotalNodes    int
	LinkBandwidth string
	InputBufSize  string
	OutputBufSize string
	PortName      string
}

// Params converts the settings to simulator parameters.
func (p NICParams) Params() Params {
	return Params{
		"node_id":         p.NodeID,
		"link_bw":         p.LinkBandwidth,
		"input_buf_size":  p.InputBufSize,
		"output_buf_size": p.OutputBufSize,
		"use_direct_link": "false",
		"port_name":       p.PortName,
		"verbose":         1,
		"total_nodes":     p.TotalNodes,
	}
}

// CacheParams configures a private L1 cache.
type CacheParams struct {
	Freq                sim.Freq
	Size                string
	Associativity       int
	LineSize            int
	AccessLatencyCycles int
}

// DefaultCacheParams returns the L1 settings of the reference platform.
func DefaultCacheParams() CacheParams {
	return CacheParams{
		Freq:                2 * sim.GHz,
		Size:                "4KiB",
		Associativity:       4,
		LineSize:            64,
		AccessLatencyCycles: 2,
	}
}

// Params converts the settings to simulator parameters.
func (p CacheParams) Params() Params {
	return Params{
		"cache_frequency":       FormatFreq(p.Freq),
		"cache_size":            p.Size,
		"associativity":         p.Associativity,
		"cache_line_size":       p.LineSize,
		"access_latency_cycles": p.AccessLatencyCycles,
		"L1":                    1,
		"coherence_protocol":    "none",
		"debug":                 0,
		"verbose":               0,
	}
}

// MemCtrlParams configures a memory controller with a simple backend.
type MemCtrlParams struct {
	Clock      sim.Freq
	AccessTime sim.VTimeInSec
	MemSize    string
	RangeStart uint64
	RangeEnd   uint64
}

// GlobalMemCtrlParams returns the shared 1 GiB weight memory.
func GlobalMemCtrlParams() MemCtrlParams {
	return MemCtrlParams{
		Clock:      1 * sim.GHz,
		AccessTime: 100e-9,
		MemSize:    "1GiB",
		RangeStart: 0,
		RangeEnd:   1<<30 - 1,
	}
}

// CoreMemCtrlParams returns the per-core 8 MiB memory.
func CoreMemCtrlParams() MemCtrlParams {
	return MemCtrlParams{
		Clock:      2 * sim.GHz,
		AccessTime: 30e-9,
		MemSize:    "8MiB",
		RangeStart: 0,
		RangeEnd:   8<<20 - 1,
	}
}

// Params converts the settings to simulator parameters.
func (p MemCtrlParams) Params() Params {
	return Params{
		"clock":               FormatFreq(p.Clock),
		"backing":             "malloc",
		"backend":             "memHierarchy.simpleMem",
		"backend.access_time": FormatTime(p.AccessTime),
		"backend.mem_size":    p.MemSize,
		"addr_range_start":    p.RangeStart,
		"addr_range_end":      p.RangeEnd,
	}
}

// SpikeSourceParams configures a component that replays a stimulus file.
type SpikeSourceParams struct {
	SourceID       int
	DatasetPath    string
	NeuronsPerCore int
	StartTimeUs    float64
	Loop           bool
	Verbose        int
}

// Params converts the settings to simulator parameters.
func (p SpikeSourceParams) Params() Params {
	return Params{
		"verbose":          p.Verbose,
		"dataset_path":     p.DatasetPath,
		"neurons_per_core": p.NeuronsPerCore,
		"start_time_us":    p.StartTimeUs,
		"loop_dataset":     flag(p.Loop),
		"source_id":        p.SourceID,
	}
}

// WeightLoaderParams configures the component that preloads weight files
// into memory at base_addr_start + core*per_core_stride.
type WeightLoaderParams struct {
	BaseAddrStart  uint64
	PerCoreStride  uint64
	NumCores       int
	NeuronsPerCore int
	TotalNeurons   int
	FileTemplate   string
	FillValue      float32
	ValidateLength bool
	RowMajor       bool
	Verbose        int
}

// Params converts the settings to simulator parameters.
func (p WeightLoaderParams) Params() Params {
	return Params{
		"verbose":          p.Verbose,
		"base_addr_start":  p.BaseAddrStart,
		"per_core_stride":  p.PerCoreStride,
		"num_cores":        p.NumCores,
		"neurons_per_core": p.NeuronsPerCore,
		"total_neurons":    p.TotalNeurons,
		"weight_format":    "bin",
		"per_core_files":   1,
		"file_template":    p.FileTemplate,
		"fill_value":       p.FillValue,
		"validate_length":  flag(p.ValidateLength),
		"row_major":        flag(p.RowMajor),
	}
}
