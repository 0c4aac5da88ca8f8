// Package sim holds the shared types of the VM consolidation evaluator.
//
// # Reading Guide
//
// Start with these files:
//   - config.go: ExperimentConfig, its defaults, validation and YAML loading
//   - driver.go: the SimulationDriver and UtilizationModel extension points
//   - result.go: per-VM and per-host state histories returned by a run
//   - metrics_utils.go: reductions of those histories (SLA metrics, times before shutdown)
//
// # Architecture
//
// The sim package defines interfaces and value types; implementations live in
// sub-packages:
//   - sim/utilization/: interpolated utilization signals and the dual-phase trace
//   - sim/experiment/: the orchestrator reducing one run to objective scores, reports, sweeps
//   - sim/fluid/: a fixed-step capacity model driver
//   - sim/replay/: a driver that loads recorded run results from disk
//
// Randomized drivers derive per-subsystem sources from PartitionedRNG so a
// change in one subsystem's draws never shifts another's.
package sim
