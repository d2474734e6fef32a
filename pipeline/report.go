package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/meshgen/addrmap"
	"github.com/sarchlab/meshgen/record"
)

// StimulusStat describes one node's stimulus file.
type StimulusStat struct {
	Node     int
	Path     string
	Targets  int
	Events   int
	Bytes    int64
	Fallback []int
}

// WeightStat describes one node's weight file.
type WeightStat struct {
	Node    int
	Path    string
	Address uint64
	Bytes   int64
}

// Report summarizes a finished run.
type Report struct {
	RunID      string
	OutputDir  string
	Manifest   string
	MeshSize   int
	Nodes      int
	Edges      int
	AddressMap addrmap.AddressMap
	Stimulus   []StimulusStat
	Weights    []WeightStat

	TotalEvents     int
	TotalBytes      int64
	FallbackNeurons int
}

func (r *runner) report(nodes []nodeResult) *Report {
	rep := &Report{
		RunID:      r.runID,
		OutputDir:  r.cfg.Output.Dir,
		Manifest:   r.final(r.cfg.Output.Manifest),
		MeshSize:   r.topo.Size(),
		Nodes:      r.topo.NumNodes(),
		Edges:      len(r.topo.Edges()),
		AddressMap: r.addrs,
	}

	for id, n := range nodes {
		rep.Stimulus = append(rep.Stimulus, StimulusStat{
			Node:     id,
			Path:     r.final(n.stimName),
			Targets:  len(n.stim.Targets),
			Events:   len(n.stim.Events),
			Bytes:    n.stimBytes,
			Fallback: n.stim.Fallback,
		})
		rep.Weights = append(rep.Weights, WeightStat{
			Node:    id,
			Path:    r.final(n.weightName),
			Address: r.addrs.Addr(id),
			Bytes:   n.weightBytes,
		})

		rep.TotalEvents += len(n.stim.Events)
		rep.TotalBytes += n.stimBytes + n.weightBytes
		rep.FallbackNeurons += len(n.stim.Fallback)
	}

	return rep
}

// Artifacts lists the files of the run in the form the recorder stores.
func (rep *Report) Artifacts() []record.Artifact {
	var out []record.Artifact

	for _, s := range rep.Stimulus {
		out = append(out, record.Artifact{
			Node: s.Node, Kind: "stimulus", Path: s.Path,
			Bytes: s.Bytes, Events: s.Events,
		})
	}

	for _, w := range rep.Weights {
		out = append(out, record.Artifact{
			Node: w.Node, Kind: "weights", Path: w.Path, Bytes: w.Bytes,
		})
	}

	return out
}

// WriteReport renders the report as tables.
func (rep *Report) WriteReport(w io.Writer) {
	summary := table.NewWriter()
	summary.SetOutputMirror(w)
	summary.SetTitle("Run " + rep.RunID)
	summary.AppendRows([]table.Row{
		{"Output", rep.OutputDir},
		{"Manifest", rep.Manifest},
		{"Mesh", fmt.Sprintf("%dx%d", rep.MeshSize, rep.MeshSize)},
		{"Nodes", rep.Nodes},
		{"Edges", rep.Edges},
		{"Base address", fmt.Sprintf("%#x", rep.AddressMap.Base)},
		{"Stride", rep.AddressMap.Stride},
		{"Events", rep.TotalEvents},
		{"Bytes", rep.TotalBytes},
		{"Fallback neurons", rep.FallbackNeurons},
	})
	summary.Render()

	nodes := table.NewWriter()
	nodes.SetOutputMirror(w)
	nodes.SetTitle("Nodes")
	nodes.AppendHeader(table.Row{
		"Node", "Address", "Targets", "Events", "Stimulus Bytes",
		"Weight Bytes", "Fallback",
	})

	for i, s := range rep.Stimulus {
		nodes.AppendRow(table.Row{
			s.Node,
			fmt.Sprintf("%#x", rep.Weights[i].Address),
			s.Targets,
			s.Events,
			s.Bytes,
			rep.Weights[i].Bytes,
			len(s.Fallback),
		})
	}

	nodes.AppendFooter(table.Row{
		"", "", "", rep.TotalEvents, "", "", rep.FallbackNeurons,
	})
	nodes.Render()
}

func (r *runner) record(path string, started time.Time, rep *Report) (err error) {
	rec, err := record.New(path, r.runID)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := rec.Close(); err == nil {
			err = cerr
		}
	}()

	if err := rec.RecordRun(r.topo.Size(), r.cfg.Output.Dir, started); err != nil {
		return err
	}

	if err := rec.RecordAddressMap(r.addrs); err != nil {
		return err
	}

	if err := rec.RecordEdges(r.topo.Edges()); err != nil {
		return err
	}

	if err := rec.RecordArtifacts(rep.Artifacts()); err != nil {
		return err
	}

	r.logger.Info("run recorded", "path", path, "run_id", r.runID)

	return nil
}
