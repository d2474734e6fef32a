// Package verify re-reads a published dataset the way the simulator does and
// reports every place where it breaks the layout, stimulus or weight rules.
package verify

import (
	"fmt"

	"github.com/sarchlab/meshgen/addrmap"
	"github.com/sarchlab/meshgen/config"
	"github.com/sarchlab/meshgen/mesh"
)

// IssueType categorizes verification issues
type IssueType string

const (
	IssueLayout   IssueType = "LAYOUT"   // Address map, mesh or manifest error
	IssueStimulus IssueType = "STIMULUS" // Unreadable or out-of-window stimulus
	IssueWeights  IssueType = "WEIGHTS"  // Wrong length or content of a weight file
)

// Issue represents a single verification issue
type Issue struct {
	Type    IssueType // LAYOUT, STIMULUS or WEIGHTS
	Node    int       // Node id (-1 if not applicable)
	Message string    // Human-readable description
}

func (i Issue) String() string {
	if i.Node < 0 {
		return fmt.Sprintf("[%s] %s", i.Type, i.Message)
	}

	return fmt.Sprintf("[%s node %d] %s", i.Type, i.Node, i.Message)
}

// Check verifies the dataset cfg describes, published in dir.
func Check(cfg *config.Config, dir string) []Issue {
	if err := cfg.Validate(); err != nil {
		return []Issue{{Type: IssueLayout, Node: -1, Message: err.Error()}}
	}

	topo, err := mesh.Build(cfg.MeshSize)
	if err != nil {
		return []Issue{{Type: IssueLayout, Node: -1, Message: err.Error()}}
	}

	addrs, err := addrmap.Allocate(
		cfg.Memory.BaseAddress, cfg.Memory.Stride, topo.NumNodes())
	if err != nil {
		return []Issue{{Type: IssueLayout, Node: -1, Message: err.Error()}}
	}

	var issues []Issue

	issues = append(issues, checkAddresses(addrs)...)
	issues = append(issues, checkMesh(topo)...)
	issues = append(issues, checkManifest(cfg, topo, dir)...)
	issues = append(issues, checkStimulus(cfg, topo, dir)...)
	issues = append(issues, checkWeights(cfg, dir)...)

	return issues
}

func checkAddresses(addrs addrmap.AddressMap) []Issue {
	var issues []Issue

	ranges := addrs.Ranges()
	for a := range ranges {
		if owner, ok := addrs.Owner(addrs.Addr(a)); !ok || owner != a {
			issues = append(issues, Issue{
				Type:    IssueLayout,
				Node:    a,
				Message: fmt.Sprintf("address %#x does not map back to its node", addrs.Addr(a)),
			})
		}

		for b := a + 1; b < len(ranges); b++ {
			if addrmap.Overlaps(ranges[a], ranges[b]) {
				issues = append(issues, Issue{
					Type:    IssueLayout,
					Node:    a,
					Message: fmt.Sprintf("address range overlaps node %d", b),
				})
			}
		}
	}

	return issues
}

var inverse = map[mesh.Direction]mesh.Direction{
	mesh.East:  mesh.West,
	mesh.West:  mesh.East,
	mesh.South: mesh.North,
	mesh.North: mesh.South,
}

func checkMesh(topo *mesh.Topology) []Issue {
	var issues []Issue

	for id := 0; id < topo.NumNodes(); id++ {
		for d, n := range topo.Neighbors(id) {
			back, ok := inverse[d]
			if !ok {
				continue
			}

			if got, ok := topo.Neighbor(n, back); !ok || got != id {
				issues = append(issues, Issue{
					Type: IssueLayout,
					Node: id,
					Message: fmt.Sprintf("%s neighbor %d does not link back %s",
						d.Name(), n, back.Name()),
				})
			}
		}
	}

	s := topo.Size()
	if want := 2 * s * (s - 1); len(topo.Edges()) != want {
		issues = append(issues, Issue{
			Type:    IssueLayout,
			Node:    -1,
			Message: fmt.Sprintf("mesh has %d edges, want %d", len(topo.Edges()), want),
		})
	}

	used := make(map[[2]int]bool)
	for _, e := range topo.Edges() {
		for _, end := range [][2]int{{e.A, int(e.PortA)}, {e.B, int(e.PortB)}} {
			if used[end] {
				issues = append(issues, Issue{
					Type:    IssueLayout,
					Node:    end[0],
					Message: fmt.Sprintf("port%d bound by more than one edge", end[1]),
				})
			}
			used[end] = true
		}
	}

	return issues
}
