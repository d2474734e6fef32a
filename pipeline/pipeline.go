// Package pipeline runs a complete generation: it lays out the address
// space and the mesh, synthesizes every node's stimulus and weights, describes
// the platform and publishes the artifact set into the output directory.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/xid"
	"github.com/sarchlab/meshgen/addrmap"
	"github.com/sarchlab/meshgen/component"
	"github.com/sarchlab/meshgen/config"
	"github.com/sarchlab/meshgen/logging"
	"github.com/sarchlab/meshgen/mesh"
	"github.com/sarchlab/meshgen/platform"
	"github.com/sarchlab/meshgen/stimulus"
	valgen "github.com/sarchlab/meshgen/util"
	"github.com/sarchlab/meshgen/weights"
)

// An Option customizes a run.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	workers int
	runID   string
	now     func() time.Time
}

// WithLogger sets the logger of the run.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithWorkers sets how many nodes are generated concurrently. It overrides
// the configured worker count.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithRunID fixes the id of the run instead of drawing a new one.
func WithRunID(id string) Option {
	return func(o *options) { o.runID = id }
}

// WithClock sets the clock the run start time is taken from.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

type runner struct {
	options

	cfg      *config.Config
	schedule stimulus.Schedule
	topo     *mesh.Topology
	addrs    addrmap.AddressMap
	gen      stimulus.Generator
	staging  string
	staged   []string
}

// Run generates every artifact described by cfg. Nothing is written when the
// configuration is invalid, and a failed run leaves the output directory as
// it was.
func Run(ctx context.Context, cfg *config.Config, opts ...Option) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &runner{
		cfg: cfg,
		options: options{
			logger:  logging.Discard(),
			workers: cfg.Output.Workers,
			runID:   xid.New().String(),
			now:     time.Now,
		},
	}
	for _, opt := range opts {
		opt(&r.options)
	}

	if r.workers < 1 {
		r.workers = 1
	}

	if err := r.layout(); err != nil {
		return nil, err
	}

	return r.run(ctx)
}

// layout builds the topology and the address map and checks that one node's
// weight matrix fits into its address range.
func (r *runner) layout() error {
	var err error

	r.schedule, err = stimulus.ParseSchedule(r.cfg.Stimulus.Schedule)
	if err != nil {
		return err
	}

	r.topo, err = mesh.Build(r.cfg.MeshSize)
	if err != nil {
		return err
	}

	r.addrs, err = addrmap.Allocate(
		r.cfg.Memory.BaseAddress, r.cfg.Memory.Stride, r.topo.NumNodes())
	if err != nil {
		return err
	}

	footprint := weights.Size(r.cfg.WeightRows(), r.cfg.WeightCols())
	if err := r.addrs.CheckFootprint(uint64(footprint)); err != nil {
		return err
	}

	r.gen = stimulus.Generator{
		Policy: r.cfg.Stimulus.Policy,
		Seed:   valgen.MakeOffsetSeed(r.cfg.Stimulus.SeedBase),
	}

	r.logger.Debug("layout ready",
		"mesh", r.topo.ShapeString(),
		"edges", len(r.topo.Edges()),
		"base", fmt.Sprintf("%#x", r.addrs.Base),
		"stride", r.addrs.Stride,
		"footprint", footprint)

	return nil
}

func (r *runner) run(ctx context.Context) (report *Report, err error) {
	out := r.cfg.Output.Dir
	if err := os.MkdirAll(out, 0o755); err != nil {
		return nil, err
	}

	r.staging = filepath.Join(out, ".staging-"+r.runID)
	if err := os.Mkdir(r.staging, 0o755); err != nil {
		return nil, err
	}

	defer func() {
		if rmErr := os.RemoveAll(r.staging); rmErr != nil && err == nil {
			err = rmErr
		}
	}()

	started := r.now()
	r.logger.Info("generation started",
		"run_id", r.runID, "mesh", r.topo.ShapeString(), "out", out)

	nodes, err := r.generateNodes(ctx)
	if err != nil {
		return nil, err
	}

	if err := r.describePlatform(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.publish(); err != nil {
		return nil, err
	}

	report = r.report(nodes)

	r.logger.Info("generation finished",
		"run_id", r.runID,
		"events", report.TotalEvents,
		"bytes", report.TotalBytes,
		"fallback_neurons", report.FallbackNeurons)

	if path := r.cfg.Output.RecordPath; path != "" {
		if err := r.record(path, started, report); err != nil {
			return report, fmt.Errorf("recording run: %w", err)
		}
	}

	return report, nil
}

// stage returns the staging path of an artifact and remembers it for
// publishing.
func (r *runner) stage(name string) string {
	r.staged = append(r.staged, name)
	return filepath.Join(r.staging, name)
}

// final returns where an artifact ends up once published.
func (r *runner) final(name string) string {
	return filepath.Join(r.cfg.Output.Dir, name)
}

func (r *runner) describePlatform() error {
	n := r.topo.NumNodes()
	stimFiles := make([]string, n)
	weightFiles := make([]string, n)

	for id := 0; id < n; id++ {
		stimFiles[id] = r.final(config.ExpandTemplate(r.cfg.Stimulus.Template, id))
		weightFiles[id] = r.final(config.ExpandTemplate(r.cfg.Weights.Template, id))
	}

	m := component.NewManifest()

	err := platform.MakeBuilder().
		WithConfig(r.cfg).
		WithTopology(r.topo).
		WithAddressMap(r.addrs).
		WithStimulusFiles(stimFiles).
		WithWeightFiles(weightFiles, r.final(r.cfg.Weights.Template)).
		Build(m)
	if err != nil {
		return fmt.Errorf("describing platform: %w", err)
	}

	if err := m.WriteFile(r.stage(r.cfg.Output.Manifest)); err != nil {
		return err
	}

	r.logger.Debug("platform described",
		"components", len(m.Components), "links", len(m.Links))

	return nil
}
