// Package mesh derives the adjacency and router wiring of a square,
// non-wrapping 2D mesh from linear node ids.
//
// Nodes are numbered row by row:
//
//	 0  1  2  3
//	 4  5  6  7
//	 8  9 10 11
//	12 13 14 15
package mesh

import (
	"errors"
	"fmt"
)

// ErrInvalidSize is returned when the mesh width is not positive.
var ErrInvalidSize = errors.New("invalid mesh size")

// Edge is a physical link between two adjacent routers. A is always the
// lower id. Horizontal edges bind (A, PortEast) to (B, PortWest); vertical
// edges bind (A, PortSouth) to (B, PortNorth).
type Edge struct {
	A, B  int
	Axis  Axis
	PortA Port
	PortB Port
}

// LinkName returns the name used for the link that implements the edge.
func (e Edge) LinkName() string {
	if e.Axis == Horizontal {
		return fmt.Sprintf("router_east_%d_to_%d", e.A, e.B)
	}

	return fmt.Sprintf("router_south_%d_to_%d", e.A, e.B)
}

// Topology is the adjacency of an S×S mesh.
type Topology struct {
	size      int
	neighbors []map[Direction]int
	edges     []Edge
}

// Build creates the topology of a size×size mesh. A size of 1 yields a
// single node without edges.
func Build(size int) (*Topology, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	t := &Topology{
		size:      size,
		neighbors: make([]map[Direction]int, size*size),
	}

	for id := range t.neighbors {
		t.neighbors[id] = make(map[Direction]int)
	}

	for id := range t.neighbors {
		t.linkForward(id)
	}

	t.collectEdges()

	return t, nil
}

// linkForward computes the east, south and south-east neighbors of a node
// and records west and north on the other end as their inverse.
func (t *Topology) linkForward(id int) {
	n := t.NumNodes()
	hasEast := (id+1)%t.size != 0

	if hasEast {
		t.neighbors[id][East] = id + 1
		t.neighbors[id+1][West] = id
	}

	if id+t.size < n {
		t.neighbors[id][South] = id + t.size
		t.neighbors[id+t.size][North] = id
	}

	if hasEast && id+t.size+1 < n {
		t.neighbors[id][SouthEast] = id + t.size + 1
	}
}

func (t *Topology) collectEdges() {
	t.edges = make([]Edge, 0, 2*t.size*(t.size-1))

	for y := 0; y < t.size; y++ {
		for x := 0; x < t.size-1; x++ {
			t.edges = append(t.edges, Edge{
				A:     t.ID(x, y),
				B:     t.ID(x+1, y),
				Axis:  Horizontal,
				PortA: PortEast,
				PortB: PortWest,
			})
		}
	}

	for x := 0; x < t.size; x++ {
		for y := 0; y < t.size-1; y++ {
			t.edges = append(t.edges, Edge{
				A:     t.ID(x, y),
				B:     t.ID(x, y+1),
				Axis:  Vertical,
				PortA: PortSouth,
				PortB: PortNorth,
			})
		}
	}
}

// Size returns the width of the mesh.
func (t *Topology) Size() int {
	return t.size
}

// NumNodes returns the number of nodes in the mesh.
func (t *Topology) NumNodes() int {
	return t.size * t.size
}

// ShapeString returns the shape in the "SxS" notation used by router
// topology parameters.
func (t *Topology) ShapeString() string {
	return fmt.Sprintf("%dx%d", t.size, t.size)
}

// Coord returns the grid coordinate of a node.
func (t *Topology) Coord(id int) (x, y int) {
	t.mustContain(id)

	return id % t.size, id / t.size
}

// ID returns the node at a grid coordinate.
func (t *Topology) ID(x, y int) int {
	if x < 0 || x >= t.size || y < 0 || y >= t.size {
		panic(fmt.Sprintf("coordinate (%d, %d) outside %s mesh",
			x, y, t.ShapeString()))
	}

	return y*t.size + x
}

// Neighbor returns the neighbor of a node in the given direction, if any.
func (t *Topology) Neighbor(id int, d Direction) (int, bool) {
	t.mustContain(id)

	n, ok := t.neighbors[id][d]

	return n, ok
}

// Neighbors returns a copy of all neighbors of a node.
func (t *Topology) Neighbors(id int) map[Direction]int {
	t.mustContain(id)

	out := make(map[Direction]int, len(t.neighbors[id]))
	for d, n := range t.neighbors[id] {
		out[d] = n
	}

	return out
}

// Edges returns all edges: horizontal edges row by row, then vertical edges
// column by column.
func (t *Topology) Edges() []Edge {
	edges := make([]Edge, len(t.edges))
	copy(edges, t.edges)

	return edges
}

func (t *Topology) mustContain(id int) {
	if id < 0 || id >= t.NumNodes() {
		panic(fmt.Sprintf("node %d outside %s mesh", id, t.ShapeString()))
	}
}
