package stimulus

import "github.com/sarchlab/meshgen/mesh"

// TargetNeurons returns the neurons a node's stimulus file drives: all
// neurons local to the node, followed by the leading neurons of its east,
// south and south-east neighbors. Missing neighbors contribute nothing.
func (p Policy) TargetNeurons(
	topo *mesh.Topology,
	nodeID int,
	neuronsPerNode int,
) []int {
	first := nodeID * neuronsPerNode
	targets := make([]int, 0,
		neuronsPerNode+p.EastFanout+p.SouthFanout+p.DiagonalFanout)

	for i := 0; i < neuronsPerNode; i++ {
		targets = append(targets, first+i)
	}

	fanouts := []struct {
		dir mesh.Direction
		n   int
	}{
		{mesh.East, p.EastFanout},
		{mesh.South, p.SouthFanout},
		{mesh.SouthEast, p.DiagonalFanout},
	}

	for _, f := range fanouts {
		neighbor, ok := topo.Neighbor(nodeID, f.dir)
		if !ok {
			continue
		}

		start := neighbor * neuronsPerNode
		for i := 0; i < f.n && i < neuronsPerNode; i++ {
			targets = append(targets, start+i)
		}
	}

	return targets
}
