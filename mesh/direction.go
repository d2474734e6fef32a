package mesh

import "fmt"

// Direction names a neighbor relation of a node in the mesh.
type Direction int

const (
	East Direction = iota
	West
	South
	North
	SouthEast
)

// Directions lists every direction in a fixed order.
var Directions = []Direction{East, West, South, North, SouthEast}

// Name returns the name of the direction.
func (d Direction) Name() string {
	switch d {
	case East:
		return "East"
	case West:
		return "West"
	case South:
		return "South"
	case North:
		return "North"
	case SouthEast:
		return "SouthEast"
	default:
		panic("invalid direction")
	}
}

func (d Direction) String() string {
	return d.Name()
}

// Port identifies a router port. Every router has one port per cardinal
// direction plus one local port that connects the node's network interface.
type Port int

const (
	PortEast Port = iota
	PortWest
	PortSouth
	PortNorth
	PortLocal
)

// NumPorts is the number of ports on every router.
const NumPorts = 5

// Name returns the port name used when wiring routers, e.g. "port0".
func (p Port) Name() string {
	if p < PortEast || p > PortLocal {
		panic("invalid port")
	}

	return fmt.Sprintf("port%d", int(p))
}

// PortOf returns the router port that faces the given cardinal direction.
func PortOf(d Direction) Port {
	switch d {
	case East:
		return PortEast
	case West:
		return PortWest
	case South:
		return PortSouth
	case North:
		return PortNorth
	default:
		panic(fmt.Sprintf("direction %s has no router port", d.Name()))
	}
}

// Axis tells whether an edge runs east-west or north-south.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

// Name returns the name of the axis.
func (a Axis) Name() string {
	switch a {
	case Horizontal:
		return "east-west"
	case Vertical:
		return "north-south"
	default:
		panic("invalid axis")
	}
}
