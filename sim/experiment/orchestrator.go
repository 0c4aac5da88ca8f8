// Package experiment runs simulated datacenter experiments through a
// sim.SimulationDriver and reduces each run to objective scores.
package experiment

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dcsim/dcsim/sim"
)

// Orchestrator runs one experiment per call. Collaborators are plain fields so
// callers and tests can substitute them; NewOrchestrator fills in the defaults.
type Orchestrator struct {
	Driver sim.SimulationDriver

	// SLAMetrics reduces a VM list to named SLA metrics; must provide sim.SLAAverage.
	SLAMetrics func(vms []sim.VM) map[string]float64
	// TimesBeforeShutdown extracts per-shutdown host uptimes.
	TimesBeforeShutdown func(hosts []sim.Host) []float64
	// Mean averages the extracted uptimes.
	Mean func(values []float64) float64
}

// NewOrchestrator returns an Orchestrator using driver and the default reducers.
func NewOrchestrator(driver sim.SimulationDriver) *Orchestrator {
	return &Orchestrator{
		Driver:              driver,
		SLAMetrics:          sim.SLAMetrics,
		TimesBeforeShutdown: sim.TimesBeforeHostShutdown,
		Mean:                sim.Mean,
	}
}

// RunExperiment validates cfg, executes the run through the driver with the
// random workload, and returns the energy, sla and shutdown scores.
//
// Driver errors are returned unchanged. A reducer result without an "average"
// entry fails with sim.ErrMissingMetric. shutdown is NaN when no host ever
// shut down.
func (o *Orchestrator) RunExperiment(cfg sim.ExperimentConfig) (ObjectiveScores, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logConfig(cfg)

	result, err := o.Driver.Run(sim.NewDriverRequest(cfg, sim.WorkloadRandom))
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("driver returned no result for %s/%s", cfg.AllocationPolicy, cfg.SelectionPolicy)
	}

	slaMetrics := o.SLAMetrics(result.VMs)
	sla, ok := slaMetrics[sim.SLAAverage]
	if !ok {
		return nil, fmt.Errorf("%w: SLA metrics lack %q", sim.ErrMissingMetric, sim.SLAAverage)
	}

	shutdown := math.NaN()
	if times := o.TimesBeforeShutdown(result.Hosts); len(times) > 0 {
		shutdown = o.Mean(times)
		logrus.Debugf("%d host shutdowns, uptime p50=%.1fs p95=%.1fs",
			len(times), sim.CalculatePercentile(times, 50), sim.CalculatePercentile(times, 95))
	}

	energy := result.TotalPower / JoulesPerKWh

	return newObjectiveScores(energy, sla, shutdown), nil
}

// Evaluate runs cfg and wraps the scores in a Report with a fresh run id and
// the wall-clock duration of the run.
func (o *Orchestrator) Evaluate(cfg sim.ExperimentConfig) (*Report, error) {
	runID := uuid.NewString()
	start := time.Now()
	scores, err := o.RunExperiment(cfg)
	wall := time.Since(start)
	if err != nil {
		return nil, err
	}
	logrus.WithField("run", runID).Infof("Total simulation time: %v", wall)
	return NewReport(runID, cfg, scores, wall), nil
}

func logConfig(cfg sim.ExperimentConfig) {
	logrus.WithFields(logrus.Fields{
		"hosts":             cfg.HostCount,
		"vms":               cfg.VMCount,
		"parameter":         cfg.Parameter,
		"allocation_policy": cfg.AllocationPolicy,
		"selection_policy":  cfg.SelectionPolicy,
	}).Info("Starting experiment")
	logrus.Debugf("vm_pes=%v vm_mips=%v vm_ram=%v host_pes=%v host_mips=%v host_ram=%v",
		cfg.VMPEs, cfg.VMMIPS, cfg.VMRAM, cfg.HostPEs, cfg.HostMIPS, cfg.HostRAM)
	logrus.Debugf("host_bw=%d host_storage=%d vm_bw=%d host_types=%d vm_types=%d",
		cfg.HostBandwidth, cfg.HostStorage, cfg.VMBandwidth, cfg.HostTypeCount, cfg.VMTypeCount)
}
