package verify

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sarchlab/meshgen/component"
	"github.com/sarchlab/meshgen/config"
	"github.com/sarchlab/meshgen/mesh"
	"github.com/sarchlab/meshgen/stimulus"
	"github.com/sarchlab/meshgen/weights"
	"gopkg.in/yaml.v3"
)

type manifestFile struct {
	Components []struct {
		Name string `yaml:"name"`
		Type string `yaml:"type"`
	} `yaml:"components"`
	Links []struct {
		Name string `yaml:"name"`
	} `yaml:"links"`
}

func checkManifest(cfg *config.Config, topo *mesh.Topology, dir string) []Issue {
	data, err := os.ReadFile(filepath.Join(dir, cfg.Output.Manifest))
	if err != nil {
		return []Issue{{Type: IssueLayout, Node: -1, Message: err.Error()}}
	}

	var m manifestFile
	if err := yaml.Unmarshal(data, &m); err != nil {
		return []Issue{{
			Type:    IssueLayout,
			Node:    -1,
			Message: fmt.Sprintf("parsing %s: %v", cfg.Output.Manifest, err),
		}}
	}

	var issues []Issue

	counts := make(map[string]int)
	for _, c := range m.Components {
		counts[c.Type]++
	}

	n := topo.NumNodes()
	for typ, want := range map[string]int{
		component.TypeRouter:      n,
		component.TypePE:          n,
		component.TypeSpikeSource: n,
		component.TypeCache:       n * cfg.CoresPerNode,
	} {
		if counts[typ] != want {
			issues = append(issues, Issue{
				Type:    IssueLayout,
				Node:    -1,
				Message: fmt.Sprintf("manifest has %d %s, want %d", counts[typ], typ, want),
			})
		}
	}

	links := make(map[string]bool, len(m.Links))
	for _, l := range m.Links {
		links[l.Name] = true
	}

	for _, e := range topo.Edges() {
		if !links[e.LinkName()] {
			issues = append(issues, Issue{
				Type:    IssueLayout,
				Node:    e.A,
				Message: fmt.Sprintf("manifest misses link %s", e.LinkName()),
			})
		}
	}

	return issues
}

func checkStimulus(cfg *config.Config, topo *mesh.Topology, dir string) []Issue {
	var issues []Issue

	policy := cfg.Stimulus.Policy
	w := cfg.Stimulus.Window
	staggered := cfg.Stimulus.Schedule == string(stimulus.ScheduleStaggered)

	for id := 0; id < topo.NumNodes(); id++ {
		report := func(format string, args ...any) {
			issues = append(issues, Issue{
				Type:    IssueStimulus,
				Node:    id,
				Message: fmt.Sprintf(format, args...),
			})
		}

		name := config.ExpandTemplate(cfg.Stimulus.Template, id)

		events, err := stimulus.ReadFile(filepath.Join(dir, name))
		if err != nil {
			report("%v", err)
			continue
		}

		targets := policy.TargetNeurons(topo, id, cfg.NeuronsPerNode())
		isTarget := make(map[int]bool, len(targets))
		for _, t := range targets {
			isTarget[t] = true
		}

		if len(events) == 0 || len(events)%policy.BurstSize() != 0 {
			report("%d events is not a whole number of %d-spike bursts",
				len(events), policy.BurstSize())
		}

		if staggered && len(events) != policy.BurstSize()*len(isTarget) {
			report("%d events, want %d", len(events),
				policy.BurstSize()*len(isTarget))
		}

		lo := int64(w.Start)
		hi := int64(w.End()) + policy.MaxBurstOffset()
		if staggered {
			hi = lo + int64(len(targets)-1) + policy.MaxBurstOffset()
		}

		for _, e := range events {
			if !isTarget[e.Neuron] {
				report("neuron %d is not a target of this node", e.Neuron)
			}

			if e.Time < lo || e.Time > hi {
				report("neuron %d spikes at %dus outside [%d, %d]",
					e.Neuron, e.Time, lo, hi)
			}
		}
	}

	return issues
}

func checkWeights(cfg *config.Config, dir string) []Issue {
	var issues []Issue

	for id := 0; id < cfg.NumNodes(); id++ {
		name := config.ExpandTemplate(cfg.Weights.Template, id)

		values, err := weights.Read(filepath.Join(dir, name),
			cfg.WeightRows(), cfg.WeightCols())
		if err != nil {
			issues = append(issues, Issue{
				Type: IssueWeights, Node: id, Message: err.Error(),
			})

			continue
		}

		for i, v := range values {
			if v != cfg.Weights.Fill {
				issues = append(issues, Issue{
					Type:    IssueWeights,
					Node:    id,
					Message: fmt.Sprintf("weight %d is %g, want %g", i, v, cfg.Weights.Fill),
				})

				break
			}
		}
	}

	return issues
}
