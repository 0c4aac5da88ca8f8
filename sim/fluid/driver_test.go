package fluid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcsim/dcsim/sim"
	"github.com/dcsim/dcsim/sim/experiment"
	"github.com/dcsim/dcsim/sim/utilization"
)

func newTestDriver(t *testing.T, signal []float64, interval, step float64) *Driver {
	t.Helper()
	model, err := utilization.NewSampler(signal, interval)
	require.NoError(t, err)
	power, err := NewLinearPowerModel(250, 0.7)
	require.NoError(t, err)
	d, err := NewDriver(model, step, power)
	require.NoError(t, err)
	return d
}

// singleHostConfig puts one VM type and one host type into the experiment.
func singleHostConfig(hosts, vms, vmMIPS, hostMIPS int) sim.ExperimentConfig {
	cfg := sim.DefaultExperimentConfig()
	cfg.HostCount, cfg.VMCount = hosts, vms
	cfg.HostTypeCount, cfg.VMTypeCount = 1, 1
	cfg.HostPEs, cfg.HostMIPS, cfg.HostRAM = []int{1}, []int{hostMIPS}, []int{1 << 20}
	cfg.VMPEs, cfg.VMMIPS, cfg.VMRAM = []int{1}, []int{vmMIPS}, []int{1}
	return cfg
}

func TestLinearPowerModel_Endpoints(t *testing.T) {
	m, err := NewLinearPowerModel(250, 0.7)
	require.NoError(t, err)

	idle, err := m.Power(0)
	require.NoError(t, err)
	assert.InDelta(t, 175.0, idle, 1e-12)

	full, err := m.Power(1)
	require.NoError(t, err)
	assert.InDelta(t, 250.0, full, 1e-12)

	half, err := m.Power(0.5)
	require.NoError(t, err)
	assert.InDelta(t, 212.5, half, 1e-12)

	_, err = m.Power(1.5)
	assert.ErrorIs(t, err, sim.ErrOutOfRange)
}

func TestNewLinearPowerModel_RejectsBadCoefficients(t *testing.T) {
	_, err := NewLinearPowerModel(0, 0.5)
	assert.ErrorIs(t, err, sim.ErrInvalidConfiguration)
	_, err = NewLinearPowerModel(100, 1.5)
	assert.ErrorIs(t, err, sim.ErrInvalidConfiguration)
}

func TestNewDriver_RejectsBadStep(t *testing.T) {
	model, err := utilization.NewSampler([]float64{10, 20}, 60)
	require.NoError(t, err)
	power, err := NewLinearPowerModel(250, 0.7)
	require.NoError(t, err)

	for _, step := range []float64{0, -1, math.NaN(), 61} {
		_, err := NewDriver(model, step, power)
		assert.ErrorIs(t, err, sim.ErrInvalidConfiguration, "step %v", step)
	}
}

func TestRun_NonRandomWorkload_ReturnsInvalidConfiguration(t *testing.T) {
	d := newTestDriver(t, []float64{10, 20}, 60, 60)
	req := sim.NewDriverRequest(singleHostConfig(1, 1, 100, 1000), "planetlab")

	_, err := d.Run(req)

	assert.ErrorIs(t, err, sim.ErrInvalidConfiguration)
}

func TestRun_SingleHost_PowerIntegratesOverSteps(t *testing.T) {
	// GIVEN one host and one VM under a flat 0% signal over two 60s steps
	d := newTestDriver(t, []float64{0, 0, 0}, 60, 60)
	req := sim.NewDriverRequest(singleHostConfig(1, 1, 100, 1000), sim.WorkloadRandom)

	// WHEN the run executes
	result, err := d.Run(req)

	// THEN the host draws idle power for 120s and switches off at the horizon
	require.NoError(t, err)
	assert.InDelta(t, 175.0*120, result.TotalPower, 1e-9)
	require.Len(t, result.Hosts, 1)
	hist := result.Hosts[0].History
	require.Len(t, hist, 3)
	assert.False(t, hist[len(hist)-1].Active)
	assert.Equal(t, 120.0, hist[len(hist)-1].Time)
	assert.Equal(t, []float64{120}, sim.TimesBeforeHostShutdown(result.Hosts))
}

func TestRun_IdleHostsSwitchOffAfterFirstStep(t *testing.T) {
	d := newTestDriver(t, []float64{50, 50, 50}, 60, 60)
	req := sim.NewDriverRequest(singleHostConfig(3, 1, 100, 1000), sim.WorkloadRandom)

	result, err := d.Run(req)

	require.NoError(t, err)
	times := sim.TimesBeforeHostShutdown(result.Hosts)
	assert.ElementsMatch(t, []float64{60, 60, 120}, times)
}

func TestRun_OvercommittedHost_ProducesSLAViolation(t *testing.T) {
	// GIVEN two 1000-MIPS VMs at full demand on one 1000-MIPS host
	d := newTestDriver(t, []float64{100, 100}, 60, 60)
	req := sim.NewDriverRequest(singleHostConfig(1, 2, 1000, 1000), sim.WorkloadRandom)

	result, err := d.Run(req)

	// THEN every VM is under-allocated and the host runs at full power
	require.NoError(t, err)
	m := sim.SLAMetrics(result.VMs)
	assert.Greater(t, m[sim.SLAAverage], 0.0)
	assert.InDelta(t, 250.0*60, result.TotalPower, 1e-9)
	for _, v := range result.VMs {
		assert.Equal(t, 0, v.HostID)
	}
}

func TestRun_SameSeed_IsDeterministic(t *testing.T) {
	d := newTestDriver(t, []float64{5, 40, 80, 20}, 300, 60)
	cfg := sim.DefaultExperimentConfig()

	a, err := d.Run(sim.NewDriverRequest(cfg, sim.WorkloadRandom))
	require.NoError(t, err)
	b, err := d.Run(sim.NewDriverRequest(cfg, sim.WorkloadRandom))
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestRun_DualPhaseThroughOrchestrator_ProducesFiniteScores(t *testing.T) {
	// GIVEN the reference experiment driven by the dual-phase trace
	model, err := utilization.NewDualPhase(300)
	require.NoError(t, err)
	power, err := NewLinearPowerModel(250, 0.7)
	require.NoError(t, err)
	d, err := NewDriver(model, 300, power)
	require.NoError(t, err)

	// WHEN the orchestrator runs it
	scores, err := experiment.NewOrchestrator(d).RunExperiment(sim.DefaultExperimentConfig())

	// THEN all three scores are finite and energy is positive
	require.NoError(t, err)
	assert.Greater(t, scores.Energy(), 0.0)
	assert.False(t, math.IsNaN(scores.SLA()))
	assert.False(t, math.IsNaN(scores.Shutdown()))
	assert.Greater(t, scores.Shutdown(), 0.0)
}
