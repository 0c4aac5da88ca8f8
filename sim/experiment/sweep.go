package experiment

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/dcsim/dcsim/sim"
)

// SweepSpec is the YAML form of a batch of independent experiments.
type SweepSpec struct {
	Parallelism int                    `yaml:"parallelism"` // <= 0 means one run per CPU
	Experiments []sim.ExperimentConfig `yaml:"experiments"`
}

// LoadSweep reads a YAML sweep file. Unrecognized keys are rejected.
func LoadSweep(path string) (*SweepSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sweep file: %w", err)
	}
	var spec SweepSpec
	if err := sim.DecodeStrict(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing sweep file: %w", err)
	}
	if len(spec.Experiments) == 0 {
		return nil, fmt.Errorf("%w: sweep file %s lists no experiments", sim.ErrInvalidConfiguration, path)
	}
	return &spec, nil
}

// Sweep evaluates every config with at most parallelism runs in flight and
// returns the reports in input order. Each run receives its own copy of its
// config. The first failure stops further runs from starting and is returned;
// runs already in flight finish before Sweep returns.
func Sweep(ctx context.Context, o *Orchestrator, cfgs []sim.ExperimentConfig, parallelism int) ([]*Report, error) {
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	reports := make([]*Report, len(cfgs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, cfg := range cfgs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report, err := o.Evaluate(cfg)
			if err != nil {
				return fmt.Errorf("experiment %d (%s/%s): %w", i, cfg.AllocationPolicy, cfg.SelectionPolicy, err)
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logrus.Infof("Sweep complete: %d experiments", len(reports))
	return reports, nil
}
