package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sarchlab/meshgen/stimulus"
)

// Validate checks every setting. It is meant to run before any file is
// written.
func (c *Config) Validate() error {
	checks := []func() error{
		c.validateShape,
		c.validateMemory,
		c.validateStimulus,
		c.validateTemplates,
		c.validateOutput,
	}

	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}

	return nil
}

func (c *Config) validateShape() error {
	if c.MeshSize < 1 {
		return fmt.Errorf("%w: mesh size %d must be at least 1",
			ErrInvalidConfig, c.MeshSize)
	}

	if c.CoresPerNode < 1 || c.NeuronsPerCore < 1 {
		return fmt.Errorf("%w: %d cores of %d neurons per node",
			ErrInvalidConfig, c.CoresPerNode, c.NeuronsPerCore)
	}

	return nil
}

func (c *Config) validateMemory() error {
	if c.Memory.BaseAddress < 0 {
		return fmt.Errorf("%w: base address %d is negative",
			ErrInvalidConfig, c.Memory.BaseAddress)
	}

	if c.Memory.Stride <= 0 {
		return fmt.Errorf("%w: stride %d must be positive",
			ErrInvalidConfig, c.Memory.Stride)
	}

	return nil
}

func (c *Config) validateStimulus() error {
	if _, err := stimulus.ParseSchedule(c.Stimulus.Schedule); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	w := c.Stimulus.Window
	if w.RateHz <= 0 || w.Duration < 0 || w.Start < 0 {
		return fmt.Errorf("%w: stimulus window %+v", ErrInvalidConfig, w)
	}

	if err := c.Stimulus.Policy.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if c.Stimulus.Schedule == string(stimulus.ScheduleJittered) {
		if err := c.Stimulus.Policy.CheckWindow(w); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}

	return nil
}

func (c *Config) validateTemplates() error {
	for _, tmpl := range []string{c.Stimulus.Template, c.Weights.Template} {
		if err := CheckTemplate(tmpl); err != nil {
			return err
		}

		if strings.ContainsRune(tmpl, filepath.Separator) {
			return fmt.Errorf("%w: template %q must be a file name",
				ErrInvalidConfig, tmpl)
		}
	}

	return c.checkFileNames()
}

// checkFileNames expands the templates for every node and rejects any file
// name produced twice, including the manifest.
func (c *Config) checkFileNames() error {
	owner := map[string]string{c.Output.Manifest: "manifest"}

	for node := 0; node < c.NumNodes(); node++ {
		for _, f := range []struct{ kind, tmpl string }{
			{"stimulus", c.Stimulus.Template},
			{"weights", c.Weights.Template},
		} {
			name := ExpandTemplate(f.tmpl, node)
			what := fmt.Sprintf("%s of node %d", f.kind, node)

			if prev, ok := owner[name]; ok {
				return fmt.Errorf("%w: %s and %s are both named %q",
					ErrInvalidConfig, prev, what, name)
			}
			owner[name] = what
		}
	}

	return nil
}

func (c *Config) validateOutput() error {
	if c.Output.Dir == "" {
		return fmt.Errorf("%w: empty output directory", ErrInvalidConfig)
	}

	if c.Output.Manifest == "" ||
		strings.ContainsRune(c.Output.Manifest, filepath.Separator) {
		return fmt.Errorf("%w: manifest %q must be a file name",
			ErrInvalidConfig, c.Output.Manifest)
	}

	if c.Output.Workers < 1 {
		return fmt.Errorf("%w: workers %d must be at least 1",
			ErrInvalidConfig, c.Output.Workers)
	}

	switch c.Logging.Level {
	case "", "info", "debug", "trace":
	default:
		return fmt.Errorf("%w: unknown log level %q",
			ErrInvalidConfig, c.Logging.Level)
	}

	return nil
}
