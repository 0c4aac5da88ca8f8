// sim/metrics_utils.go
package sim

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Keys of the map returned by SLAMetrics.
const (
	SLAOverall                 = "overall"
	SLAAverage                 = "average"
	SLAUnderallocatedMigration = "underallocated_migration"
)

type IntOrFloat64 interface {
	int | int64 | float64
}

// Mean is the arithmetic mean of values, NaN when values is empty.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.Mean(values, nil)
}

// CalculatePercentile returns the p-th percentile of data using linear
// interpolation between closest ranks. data need not be sorted.
// Returns NaN for empty input.
func CalculatePercentile[T IntOrFloat64](data []T, p float64) float64 {
	n := len(data)
	if n == 0 {
		return math.NaN()
	}
	sorted := make([]float64, n)
	for i, v := range data {
		sorted[i] = float64(v)
	}
	sort.Float64s(sorted)

	rank := p / 100.0 * float64(n-1)
	lowerIdx := int(math.Floor(rank))
	upperIdx := int(math.Ceil(rank))
	if upperIdx >= n {
		return sorted[n-1]
	}
	if lowerIdx == upperIdx {
		return sorted[lowerIdx]
	}
	return sorted[lowerIdx] + (sorted[upperIdx]-sorted[lowerIdx])*(rank-float64(lowerIdx))
}

// SLAMetrics reduces VM allocation histories to SLA violation metrics.
//
// Each history segment contributes allocated and requested MIPS-seconds.
// A segment whose allocation falls short of the request is a violation of
// (requested - allocated) / requested; shortfall accrued while the VM was
// migrating is reported separately. "average" is 0 when nothing was violated.
// "overall" and "underallocated_migration" are NaN when nothing was requested.
func SLAMetrics(vms []VM) map[string]float64 {
	var violations []float64
	totalAllocated, totalRequested, totalUnderMigration := 0.0, 0.0, 0.0

	for _, vm := range vms {
		for i := 1; i < len(vm.History); i++ {
			prev, entry := vm.History[i-1], vm.History[i]
			dt := entry.Time - prev.Time
			totalAllocated += prev.AllocatedMIPS * dt
			totalRequested += prev.RequestedMIPS * dt
			if prev.AllocatedMIPS < prev.RequestedMIPS {
				violations = append(violations, (prev.RequestedMIPS-prev.AllocatedMIPS)/prev.RequestedMIPS)
				if prev.InMigration {
					totalUnderMigration += (prev.RequestedMIPS - prev.AllocatedMIPS) * dt
				}
			}
		}
	}

	metrics := map[string]float64{
		SLAOverall:                 math.NaN(),
		SLAAverage:                 0,
		SLAUnderallocatedMigration: math.NaN(),
	}
	if totalRequested > 0 {
		metrics[SLAOverall] = (totalRequested - totalAllocated) / totalRequested
		metrics[SLAUnderallocatedMigration] = totalUnderMigration / totalRequested
	}
	if len(violations) > 0 {
		metrics[SLAAverage] = Mean(violations)
	}
	return metrics
}

// TimesBeforeHostShutdown returns, for every active-to-inactive transition in
// every host history, how long the host had been on. Hosts count as switched
// on at time 0.
func TimesBeforeHostShutdown(hosts []Host) []float64 {
	times := make([]float64, 0)
	for _, host := range hosts {
		previousActive := true
		lastSwitchedOn := 0.0
		for _, entry := range host.History {
			if previousActive && !entry.Active {
				times = append(times, entry.Time-lastSwitchedOn)
			}
			if !previousActive && entry.Active {
				lastSwitchedOn = entry.Time
			}
			previousActive = entry.Active
		}
	}
	return times
}
