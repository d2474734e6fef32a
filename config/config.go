// Package config provides the run configuration of the generator. It
// supports loading from YAML files, .env files and environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/sarchlab/meshgen/stimulus"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config contains all generator settings.
type Config struct {
	// MeshSize is the width S of the S×S mesh.
	MeshSize int `yaml:"mesh_size"`

	// CoresPerNode and NeuronsPerCore give K = CoresPerNode*NeuronsPerCore
	// neurons per node.
	CoresPerNode   int `yaml:"cores_per_node"`
	NeuronsPerCore int `yaml:"neurons_per_core"`

	Memory   MemoryConfig   `yaml:"memory"`
	Stimulus StimulusConfig `yaml:"stimulus"`
	Weights  WeightsConfig  `yaml:"weights"`
	Network  NetworkConfig  `yaml:"network"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`

	// SimulationTime is the stop time handed to the simulator, e.g. "50us".
	SimulationTime string `yaml:"simulation_time"`
}

// MemoryConfig describes the weight address space.
type MemoryConfig struct {
	BaseAddress int64 `yaml:"base_address"`
	Stride      int64 `yaml:"stride"`
}

// StimulusConfig describes spike-train synthesis.
type StimulusConfig struct {
	Schedule string          `yaml:"schedule"`
	SeedBase int64           `yaml:"seed_base"`
	Window   stimulus.Window `yaml:"window"`
	Policy   stimulus.Policy `yaml:"policy"`
	Template string          `yaml:"template"`
}

// WeightsConfig describes weight-matrix files.
type WeightsConfig struct {
	Fill     float32 `yaml:"fill"`
	Template string  `yaml:"template"`
}

// NetworkConfig holds interconnect parameters passed to routers and NICs.
type NetworkConfig struct {
	Bandwidth  string `yaml:"bandwidth"`
	BufferSize string `yaml:"buffer_size"`
}

// OutputConfig controls where artifacts go.
type OutputConfig struct {
	Dir        string `yaml:"dir"`
	Manifest   string `yaml:"manifest"`
	RecordPath string `yaml:"record_path"`
	Workers    int    `yaml:"workers"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	// Level is "info" (default), "debug" or "trace".
	Level string `yaml:"level"`
}

// Default returns the reference 4x4 configuration.
func Default() *Config {
	return &Config{
		MeshSize:       4,
		CoresPerNode:   4,
		NeuronsPerCore: 4,
		Memory: MemoryConfig{
			BaseAddress: 0x10000000,
			Stride:      32768,
		},
		Stimulus: StimulusConfig{
			Schedule: string(stimulus.ScheduleStaggered),
			SeedBase: 42,
			Window: stimulus.Window{
				Start:    2,
				Duration: 8,
				RateHz:   100,
			},
			Policy:   stimulus.DefaultPolicy(),
			Template: "4x4_spike_data_source_{node}.txt",
		},
		Weights: WeightsConfig{
			Fill:     1.0,
			Template: "4x4_weights_node_{node}.bin",
		},
		Network: NetworkConfig{
			Bandwidth:  "40GiB/s",
			BufferSize: "8KiB",
		},
		Output: OutputConfig{
			Dir:      "datasets",
			Manifest: "platform.yaml",
			Workers:  1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		SimulationTime: "50us",
	}
}

// NeuronsPerNode returns K.
func (c *Config) NeuronsPerNode() int {
	return c.CoresPerNode * c.NeuronsPerCore
}

// NumNodes returns S².
func (c *Config) NumNodes() int {
	return c.MeshSize * c.MeshSize
}

// TotalNeurons returns the neuron count of the whole mesh.
func (c *Config) TotalNeurons() int {
	return c.NumNodes() * c.NeuronsPerNode()
}

// WeightRows and WeightCols give the shape of every node's weight matrix:
// one row per local neuron, one column per neuron in the mesh.
func (c *Config) WeightRows() int { return c.NeuronsPerNode() }

// WeightCols returns the number of columns of a node's weight matrix.
func (c *Config) WeightCols() int { return c.TotalNeurons() }

// Load builds a configuration from the defaults, an optional .env file, an
// optional YAML file and MESHGEN_* environment variables, in that order of
// increasing precedence. An empty path skips the YAML file.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}

		if err := cfg.Overlay(data); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Overlay decodes a YAML document on top of the configuration. Unknown keys
// are rejected.
func (c *Config) Overlay(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

// Encode renders the configuration as YAML.
func (c *Config) Encode() ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := yaml.NewEncoder(buf)
	enc.SetIndent(2)

	if err := enc.Encode(c); err != nil {
		return nil, err
	}

	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
