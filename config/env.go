package config

import (
	"fmt"
	"os"
	"strconv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MESHGEN_"

type envBinding struct {
	key   string
	apply func(c *Config, v string) error
}

var envBindings = []envBinding{
	{"MESH_SIZE", intVar(func(c *Config) *int { return &c.MeshSize })},
	{"CORES_PER_NODE", intVar(func(c *Config) *int { return &c.CoresPerNode })},
	{"NEURONS_PER_CORE", intVar(func(c *Config) *int { return &c.NeuronsPerCore })},
	{"BASE_ADDRESS", int64Var(func(c *Config) *int64 { return &c.Memory.BaseAddress })},
	{"STRIDE", int64Var(func(c *Config) *int64 { return &c.Memory.Stride })},
	{"SEED_BASE", int64Var(func(c *Config) *int64 { return &c.Stimulus.SeedBase })},
	{"SCHEDULE", stringVar(func(c *Config) *string { return &c.Stimulus.Schedule })},
	{"RATE_HZ", floatVar(func(c *Config) *float64 { return &c.Stimulus.Window.RateHz })},
	{"OUTPUT_DIR", stringVar(func(c *Config) *string { return &c.Output.Dir })},
	{"RECORD_PATH", stringVar(func(c *Config) *string { return &c.Output.RecordPath })},
	{"WORKERS", intVar(func(c *Config) *int { return &c.Output.Workers })},
	{"LOG_LEVEL", stringVar(func(c *Config) *string { return &c.Logging.Level })},
}

// ApplyEnv overrides settings from MESHGEN_* environment variables.
func (c *Config) ApplyEnv() error {
	for _, b := range envBindings {
		v, ok := os.LookupEnv(EnvPrefix + b.key)
		if !ok || v == "" {
			continue
		}

		if err := b.apply(c, v); err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, b.key, err)
		}
	}

	return nil
}

func intVar(field func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*field(c) = n

		return nil
	}
}

func int64Var(field func(*Config) *int64) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.ParseInt(v, 0, 64)
		if err != nil {
			return err
		}
		*field(c) = n

		return nil
	}
}

func floatVar(field func(*Config) *float64) func(*Config, string) error {
	return func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*field(c) = f

		return nil
	}
}

func stringVar(field func(*Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		*field(c) = v
		return nil
	}
}
