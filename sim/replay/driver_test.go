package replay

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcsim/dcsim/sim"
	"github.com/dcsim/dcsim/sim/experiment"
)

const recorded = `
total_power: 7200000
vms:
  - id: 0
    type: 1
    host_id: 0
    history:
      - {time: 0, allocated_mips: 50, requested_mips: 100}
      - {time: 300, allocated_mips: 100, requested_mips: 100}
hosts:
  - id: 0
    type: 0
    history:
      - {time: 0, allocated_mips: 50, requested_mips: 100, active: true}
      - {time: 600, allocated_mips: 0, requested_mips: 0, active: false}
`

func writeRecorded(t *testing.T, dir, workload, name, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, workload), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, workload, name+".yaml"), []byte(body), 0644))
}

func TestExperimentName_SkipsEmptyParts(t *testing.T) {
	assert.Equal(t, "lr_mu_1.2", ExperimentName(sim.DriverRequest{AllocationPolicy: "lr", SelectionPolicy: "mu", Parameter: "1.2"}))
	assert.Equal(t, "dvfs", ExperimentName(sim.DriverRequest{AllocationPolicy: "dvfs"}))
}

func TestRun_RecordedFile_LoadsResult(t *testing.T) {
	// GIVEN a recorded result for the default experiment
	dir := t.TempDir()
	req := sim.NewDriverRequest(sim.DefaultExperimentConfig(), sim.WorkloadRandom)
	writeRecorded(t, dir, sim.WorkloadRandom, ExperimentName(req), recorded)

	// WHEN it is replayed
	result, err := NewDriver(dir).Run(req)

	// THEN the histories MUST round-trip from disk
	require.NoError(t, err)
	assert.Equal(t, 7_200_000.0, result.TotalPower)
	require.Len(t, result.VMs, 1)
	assert.Equal(t, 1, result.VMs[0].Type)
	assert.Len(t, result.VMs[0].History, 2)
	require.Len(t, result.Hosts, 1)
	assert.False(t, result.Hosts[0].History[1].Active)
}

func TestRun_MissingFile_ReturnsReadErrorUnchanged(t *testing.T) {
	req := sim.NewDriverRequest(sim.DefaultExperimentConfig(), sim.WorkloadRandom)

	_, err := NewDriver(t.TempDir()).Run(req)

	var pathErr *os.PathError
	require.ErrorAs(t, err, &pathErr)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun_UnknownKey_ReturnsParseError(t *testing.T) {
	dir := t.TempDir()
	req := sim.NewDriverRequest(sim.DefaultExperimentConfig(), sim.WorkloadRandom)
	writeRecorded(t, dir, sim.WorkloadRandom, ExperimentName(req), "total_powr: 1\n")

	_, err := NewDriver(dir).Run(req)

	assert.Error(t, err)
	assert.NotErrorIs(t, err, os.ErrNotExist)
}

func TestReplay_ThroughOrchestrator_ReducesScores(t *testing.T) {
	// GIVEN a recorded run with 2 kWh, a 50% violation for 300s and one shutdown at 600s
	dir := t.TempDir()
	cfg := sim.DefaultExperimentConfig()
	writeRecorded(t, dir, sim.WorkloadRandom, ExperimentName(sim.NewDriverRequest(cfg, sim.WorkloadRandom)), recorded)

	// WHEN the orchestrator evaluates the experiment
	scores, err := experiment.NewOrchestrator(NewDriver(dir)).RunExperiment(cfg)

	// THEN the scores MUST be the reductions of the recorded histories
	require.NoError(t, err)
	assert.InDelta(t, 2.0, scores.Energy(), 1e-12)
	assert.InDelta(t, 0.5, scores.SLA(), 1e-12)
	assert.InDelta(t, 600.0, scores.Shutdown(), 1e-12)
}
