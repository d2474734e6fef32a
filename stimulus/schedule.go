package stimulus

import (
	"fmt"

	"github.com/sarchlab/meshgen/mesh"
)

// Schedule selects how base spike times are assigned to target neurons.
type Schedule string

const (
	// ScheduleJittered gives every target neuron its own jittered spike
	// train inside the window, with the fallback schedule as a floor.
	ScheduleJittered Schedule = "jittered"

	// ScheduleStaggered gives the i-th target neuron a single base spike at
	// start + i microseconds, so every file holds exactly one burst per
	// target neuron.
	ScheduleStaggered Schedule = "staggered"
)

// ParseSchedule converts a schedule name.
func ParseSchedule(s string) (Schedule, error) {
	switch Schedule(s) {
	case ScheduleJittered, ScheduleStaggered:
		return Schedule(s), nil
	default:
		return "", fmt.Errorf("unknown stimulus schedule %q", s)
	}
}

// NodeStimulus is the stimulus a single node's spike source replays.
type NodeStimulus struct {
	Node     int
	Targets  []int
	Events   []Event
	Fallback []int
}

// Synthesize builds the stimulus of one node: it selects the target neurons
// from the topology, assigns base spike times with the schedule and expands
// them into events in neuron-then-offset order.
func (g Generator) Synthesize(
	topo *mesh.Topology,
	nodeID int,
	neuronsPerNode int,
	schedule Schedule,
	w Window,
) (NodeStimulus, error) {
	ns := NodeStimulus{
		Node:    nodeID,
		Targets: g.Policy.TargetNeurons(topo, nodeID, neuronsPerNode),
	}

	var spikes map[int][]float64

	switch schedule {
	case ScheduleJittered:
		res, err := g.Generate(nodeID, ns.Targets, w)
		if err != nil {
			return NodeStimulus{}, fmt.Errorf("node %d: %w", nodeID, err)
		}

		spikes = res.Spikes
		ns.Fallback = res.Fallback
	case ScheduleStaggered:
		if err := g.Policy.Validate(); err != nil {
			return NodeStimulus{}, err
		}

		spikes = make(map[int][]float64, len(ns.Targets))
		for i, id := range ns.Targets {
			spikes[id] = append(spikes[id], w.Start+float64(i))
		}
	default:
		return NodeStimulus{}, fmt.Errorf("unknown stimulus schedule %q",
			schedule)
	}

	emitted := make(map[int]bool, len(ns.Targets))
	for _, id := range ns.Targets {
		if emitted[id] {
			continue
		}
		emitted[id] = true

		ns.Events = append(ns.Events, g.Policy.Expand(id, spikes[id])...)
	}

	return ns, nil
}
