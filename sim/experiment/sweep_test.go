package experiment

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcsim/dcsim/sim"
)

// powerByHostsDriver reports total power proportional to the host count so
// each report can be matched to its config.
type powerByHostsDriver struct {
	mu       sync.Mutex
	inFlight int
	peak     int
	failOn   int
}

func (d *powerByHostsDriver) Run(req sim.DriverRequest) (*sim.RunResult, error) {
	d.mu.Lock()
	d.inFlight++
	if d.inFlight > d.peak {
		d.peak = d.inFlight
	}
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		d.inFlight--
		d.mu.Unlock()
	}()

	if d.failOn != 0 && req.Config.HostCount == d.failOn {
		return nil, errors.New("driver exploded")
	}
	return &sim.RunResult{TotalPower: float64(req.Config.HostCount) * JoulesPerKWh}, nil
}

func configsWithHosts(hosts ...int) []sim.ExperimentConfig {
	cfgs := make([]sim.ExperimentConfig, len(hosts))
	for i, h := range hosts {
		cfgs[i] = sim.DefaultExperimentConfig()
		cfgs[i].HostCount = h
	}
	return cfgs
}

func TestSweep_ReportsInInputOrder(t *testing.T) {
	// GIVEN five experiments whose energy equals their host count
	driver := &powerByHostsDriver{}
	cfgs := configsWithHosts(5, 1, 4, 2, 3)

	// WHEN they run two at a time
	reports, err := Sweep(context.Background(), NewOrchestrator(driver), cfgs, 2)

	// THEN report i MUST belong to config i and concurrency MUST stay bounded
	require.NoError(t, err)
	require.Len(t, reports, len(cfgs))
	for i, r := range reports {
		assert.Equal(t, float64(cfgs[i].HostCount), r.Scores.Energy(), "report %d", i)
		assert.Equal(t, cfgs[i].HostCount, r.Config.HostCount)
	}
	assert.LessOrEqual(t, driver.peak, 2)
}

func TestSweep_FailingRun_ReturnsError(t *testing.T) {
	driver := &powerByHostsDriver{failOn: 3}

	reports, err := Sweep(context.Background(), NewOrchestrator(driver), configsWithHosts(1, 2, 3, 4), 1)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "driver exploded")
	assert.Nil(t, reports)
}

func TestSweep_CancelledContext_ReturnsContextError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Sweep(ctx, NewOrchestrator(&powerByHostsDriver{}), configsWithHosts(1, 2), 1)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadSweep_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.yaml")
	yaml := `
parallelism: 3
experiments:
  - allocation_policy: thr
    selection_policy: mmt
    parameter: "0.8"
    hosts: 10
    vms: 20
    vm_pes: [1]
    vm_mips: [1000]
    vm_ram: [512]
    host_pes: [2]
    host_mips: [3000]
    host_ram: [4096]
    host_bw: 100000
    host_storage: 1000000
    vm_bw: 10000
    host_types: 1
    vm_types: 1
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	spec, err := LoadSweep(path)

	require.NoError(t, err)
	assert.Equal(t, 3, spec.Parallelism)
	require.Len(t, spec.Experiments, 1)
	cfg := spec.Experiments[0]
	assert.Equal(t, "thr", cfg.AllocationPolicy)
	assert.Equal(t, []int{3000}, cfg.HostMIPS)
	assert.NoError(t, cfg.Validate())
}

func TestLoadSweep_NoExperiments_ReturnsInvalidConfiguration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.yaml")
	require.NoError(t, os.WriteFile(path, []byte("parallelism: 2\n"), 0644))

	_, err := LoadSweep(path)

	assert.ErrorIs(t, err, sim.ErrInvalidConfiguration)
}

func TestLoadSweep_UnknownKey_ReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.yaml")
	require.NoError(t, os.WriteFile(path, []byte("paralelism: 2\nexperiments: []\n"), 0644))

	_, err := LoadSweep(path)

	assert.Error(t, err)
}
