package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"sync"

	"github.com/sarchlab/meshgen/config"
	"github.com/sarchlab/meshgen/logging"
	"github.com/sarchlab/meshgen/stimulus"
	"github.com/sarchlab/meshgen/weights"
)

// nodeResult is what generating one node produced.
type nodeResult struct {
	stim        stimulus.NodeStimulus
	stimName    string
	stimBytes   int64
	weightName  string
	weightBytes int64
}

// generateNodes produces the artifacts of every node. Nodes share no state,
// so they are spread over the workers; results come back in node order.
func (r *runner) generateNodes(ctx context.Context) ([]nodeResult, error) {
	n := r.topo.NumNodes()
	results := make([]nodeResult, n)
	errs := make([]error, n)

	nodeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	wg := sync.WaitGroup{}

	for w := 0; w < r.workers; w++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for id := range jobs {
				results[id], errs[id] = r.generateNode(nodeCtx, id)
				if errs[id] != nil {
					cancel()
				}
			}
		}()
	}

feed:
	for id := 0; id < n; id++ {
		select {
		case jobs <- id:
		case <-nodeCtx.Done():
			break feed
		}
	}

	close(jobs)
	wg.Wait()

	if err := firstError(errs); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, res := range results {
		r.staged = append(r.staged, res.stimName, res.weightName)
	}

	return results, nil
}

// firstError returns the first failure in node order, preferring a real
// failure over the cancellation it caused in other workers.
func firstError(errs []error) error {
	var first error

	for _, err := range errs {
		if err == nil {
			continue
		}

		if first == nil || errors.Is(first, context.Canceled) {
			first = err
		}
	}

	return first
}

func (r *runner) generateNode(ctx context.Context, id int) (nodeResult, error) {
	if err := ctx.Err(); err != nil {
		return nodeResult{}, err
	}

	res := nodeResult{
		stimName:   config.ExpandTemplate(r.cfg.Stimulus.Template, id),
		weightName: config.ExpandTemplate(r.cfg.Weights.Template, id),
	}

	var err error

	res.stim, err = r.gen.Synthesize(r.topo, id, r.cfg.NeuronsPerNode(),
		r.schedule, r.cfg.Stimulus.Window)
	if err != nil {
		return nodeResult{}, err
	}

	res.stimBytes, err = stimulus.WriteFile(
		filepath.Join(r.staging, res.stimName), res.stim.Events)
	if err != nil {
		return nodeResult{}, err
	}

	for _, neuron := range res.stim.Fallback {
		r.logger.Warn("neuron fell back to the fixed schedule",
			"node", id, "neuron", neuron)
	}

	logging.Trace(r.logger, "stimulus written",
		"node", id,
		"targets", len(res.stim.Targets),
		"events", len(res.stim.Events),
		"bytes", res.stimBytes)

	res.weightBytes, err = weights.Serialize(
		filepath.Join(r.staging, res.weightName),
		r.cfg.WeightRows(), r.cfg.WeightCols(), r.cfg.Weights.Fill)
	if err != nil {
		return nodeResult{}, err
	}

	logging.Trace(r.logger, "weights written",
		"node", id,
		"rows", r.cfg.WeightRows(),
		"cols", r.cfg.WeightCols(),
		"bytes", res.weightBytes)

	return res, nil
}
