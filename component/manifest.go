package component

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrDuplicate is returned when a component or link name is reused.
var ErrDuplicate = errors.New("duplicate name")

// ErrUnknownComponent is returned when a link refers to a component that was
// not instantiated.
var ErrUnknownComponent = errors.New("unknown component")

// Manifest is an Instantiator that records every request in order so that
// the platform description can be handed to a simulator as a file.
type Manifest struct {
	Program    map[string]string `yaml:"program,omitempty"`
	Components []Component       `yaml:"components"`
	Links      []Link            `yaml:"links"`

	names     map[string]bool
	linkNames map[string]bool
	usedPorts map[string]string
}

// NewManifest creates an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{
		Program:   make(map[string]string),
		names:     make(map[string]bool),
		linkNames: make(map[string]bool),
		usedPorts: make(map[string]string),
	}
}

// SetProgramOption records a global simulator option such as the stop time.
func (m *Manifest) SetProgramOption(key, value string) {
	m.Program[key] = value
}

// Instantiate records a component.
func (m *Manifest) Instantiate(c Component) error {
	if c.Name == "" || c.Type == "" {
		return fmt.Errorf("component %q of type %q needs a name and a type",
			c.Name, c.Type)
	}

	if m.names[c.Name] {
		return fmt.Errorf("%w: component %s", ErrDuplicate, c.Name)
	}

	m.names[c.Name] = true
	m.Components = append(m.Components, c)

	return nil
}

// Connect records a link. Both ends must name recorded components and no
// port may be bound twice.
func (m *Manifest) Connect(l Link) error {
	if m.linkNames[l.Name] {
		return fmt.Errorf("%w: link %s", ErrDuplicate, l.Name)
	}

	for _, end := range []Endpoint{l.A, l.B} {
		if !m.names[end.Component] {
			return fmt.Errorf("%w: %s in link %s",
				ErrUnknownComponent, end.Component, l.Name)
		}

		key := end.Component + "." + end.Port
		if prev, used := m.usedPorts[key]; used {
			return fmt.Errorf("%w: port %s bound by %s and %s",
				ErrDuplicate, key, prev, l.Name)
		}
	}

	m.linkNames[l.Name] = true
	m.usedPorts[l.A.Component+"."+l.A.Port] = l.Name
	m.usedPorts[l.B.Component+"."+l.B.Port] = l.Name
	m.Links = append(m.Links, l)

	return nil
}

// Component returns the recorded component with the given name.
func (m *Manifest) Component(name string) (Component, bool) {
	for _, c := range m.Components {
		if c.Name == name {
			return c, true
		}
	}

	return Component{}, false
}

// CountType returns how many components of a type were recorded.
func (m *Manifest) CountType(typ string) int {
	n := 0
	for _, c := range m.Components {
		if c.Type == typ {
			n++
		}
	}

	return n
}

// Write renders the manifest as YAML.
func (m *Manifest) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(m); err != nil {
		return err
	}

	return enc.Close()
}

// WriteFile renders the manifest to path.
func (m *Manifest) WriteFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return m.Write(f)
}
