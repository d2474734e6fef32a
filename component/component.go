// Package component describes simulator component instantiations as typed,
// serializable values. The simulator components themselves are opaque; this
// package only names them, parameterizes them and wires their ports.
package component

import (
	"github.com/sarchlab/akita/v4/sim"
)

// Params are the named parameters of a component as the simulator reads
// them.
type Params map[string]any

// Component is one component instantiation.
type Component struct {
	Name          string         `yaml:"name"`
	Type          string         `yaml:"type"`
	Params        Params         `yaml:"params,omitempty"`
	SubComponents []SubComponent `yaml:"subcomponents,omitempty"`
	Statistics    []string       `yaml:"statistics,omitempty"`
}

// SubComponent is a component loaded into a named slot of its parent.
type SubComponent struct {
	Slot   string `yaml:"slot"`
	Type   string `yaml:"type"`
	Params Params `yaml:"params,omitempty"`
}

// Endpoint is one end of a link.
type Endpoint struct {
	Component string
	Port      string
	Latency   sim.VTimeInSec
}

// MarshalYAML renders the latency with a unit suffix.
func (e Endpoint) MarshalYAML() (interface{}, error) {
	return struct {
		Component string `yaml:"component"`
		Port      string `yaml:"port"`
		Latency   string `yaml:"latency"`
	}{e.Component, e.Port, FormatTime(e.Latency)}, nil
}

// Link connects two component ports.
type Link struct {
	Name string   `yaml:"name"`
	A    Endpoint `yaml:"a"`
	B    Endpoint `yaml:"b"`
}

// An Instantiator can create components and connect them. Implementations
// may drive a simulator binding or only record the requests.
type Instantiator interface {
	Instantiate(c Component) error
	Connect(l Link) error
}
