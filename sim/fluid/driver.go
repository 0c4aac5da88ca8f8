// Package fluid provides a fixed-step capacity model that implements
// sim.SimulationDriver without an event kernel or placement policy.
//
// Each VM's CPU demand follows a shared utilization model scaled by a
// per-VM factor. VMs are placed once, first-fit, and never migrate; host
// capacity is shared proportionally when demand exceeds it. The driver is
// deterministic for a given ExperimentConfig.Seed.
package fluid

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/dcsim/dcsim/sim"
)

// Driver runs fluid simulations. It holds no per-run state and is safe for
// concurrent Run calls when its UtilizationModel is.
type Driver struct {
	model sim.UtilizationModel
	step  float64
	power PowerModel
}

var _ sim.SimulationDriver = (*Driver)(nil)

// NewDriver returns a Driver that advances in increments of step seconds up
// to model.Span(). model yields utilization in percent.
func NewDriver(model sim.UtilizationModel, step float64, power PowerModel) (*Driver, error) {
	if model == nil || power == nil {
		return nil, fmt.Errorf("%w: utilization and power models are required", sim.ErrInvalidConfiguration)
	}
	if math.IsNaN(step) || math.IsInf(step, 0) || step <= 0 {
		return nil, fmt.Errorf("%w: step must be positive, got %v", sim.ErrInvalidConfiguration, step)
	}
	if model.Span() < step {
		return nil, fmt.Errorf("%w: step %v exceeds utilization model span %v", sim.ErrInvalidConfiguration, step, model.Span())
	}
	return &Driver{model: model, step: step, power: power}, nil
}

type host struct {
	id       int
	typ      int
	capacity float64 // MIPS
	ram      int
	usedPeak float64
	usedRAM  int
	vms      []int
}

type vm struct {
	id    int
	typ   int
	peak  float64 // MIPS
	ram   int
	scale float64
	host  int
}

// Run simulates req.Config under the random workload.
func (d *Driver) Run(req sim.DriverRequest) (*sim.RunResult, error) {
	if req.Workload != sim.WorkloadRandom {
		return nil, fmt.Errorf("%w: fluid driver supports only the %q workload, got %q",
			sim.ErrInvalidConfiguration, sim.WorkloadRandom, req.Workload)
	}
	cfg := req.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logrus.Debugf("fluid driver: allocation=%s selection=%s parameter=%s (placement is static first-fit)",
		req.AllocationPolicy, req.SelectionPolicy, req.Parameter)

	rng := sim.NewPartitionedRNG(cfg.Seed)
	hosts := buildHosts(cfg)
	vms := buildVMs(cfg, rng)
	overcommitted := place(hosts, vms, rng)
	if overcommitted > 0 {
		logrus.Warnf("fluid driver: %d of %d VMs placed on overcommitted hosts", overcommitted, len(vms))
	}

	return d.simulate(hosts, vms)
}

func buildHosts(cfg sim.ExperimentConfig) []*host {
	hosts := make([]*host, cfg.HostCount)
	for i := range hosts {
		t := i % cfg.HostTypeCount
		hosts[i] = &host{
			id:       i,
			typ:      t,
			capacity: float64(cfg.HostMIPS[t] * cfg.HostPEs[t]),
			ram:      cfg.HostRAM[t],
		}
	}
	return hosts
}

func buildVMs(cfg sim.ExperimentConfig, rng *sim.PartitionedRNG) []*vm {
	perType := int(math.Ceil(float64(cfg.VMCount) / float64(cfg.VMTypeCount)))
	workload := rng.ForSubsystem(sim.SubsystemWorkload)
	vms := make([]*vm, cfg.VMCount)
	for i := range vms {
		t := min(i/perType, cfg.VMTypeCount-1)
		vms[i] = &vm{
			id:    i,
			typ:   t,
			peak:  float64(cfg.VMMIPS[t] * cfg.VMPEs[t]),
			ram:   cfg.VMRAM[t],
			scale: 0.5 + 0.5*workload.Float64(),
			host:  -1,
		}
	}
	return vms
}

// place assigns every VM to the first host (in a seeded random order) with
// room for its peak MIPS and RAM, or to the least loaded host when none has.
// Returns the number of VMs placed without room.
func place(hosts []*host, vms []*vm, rng *sim.PartitionedRNG) int {
	order := rng.ForSubsystem(sim.SubsystemPlacement).Perm(len(hosts))
	overcommitted := 0
	for _, v := range vms {
		chosen := -1
		for _, hi := range order {
			h := hosts[hi]
			if h.usedPeak+v.peak <= h.capacity && h.usedRAM+v.ram <= h.ram {
				chosen = hi
				break
			}
		}
		if chosen < 0 {
			overcommitted++
			best := math.Inf(1)
			for _, hi := range order {
				if load := hosts[hi].usedPeak / hosts[hi].capacity; load < best {
					best, chosen = load, hi
				}
			}
		}
		h := hosts[chosen]
		h.usedPeak += v.peak
		h.usedRAM += v.ram
		h.vms = append(h.vms, v.id)
		v.host = chosen
	}
	return overcommitted
}

func (d *Driver) simulate(hosts []*host, vms []*vm) (*sim.RunResult, error) {
	steps := int(math.Floor(d.model.Span() / d.step))
	end := float64(steps) * d.step

	result := &sim.RunResult{
		VMs:   make([]sim.VM, len(vms)),
		Hosts: make([]sim.Host, len(hosts)),
	}
	for i, v := range vms {
		result.VMs[i] = sim.VM{ID: v.id, Type: v.typ, HostID: v.host}
	}
	for i, h := range hosts {
		result.Hosts[i] = sim.Host{ID: h.id, Type: h.typ}
	}

	demand := make([]float64, len(vms))
	for k := 0; k < steps; k++ {
		t := float64(k) * d.step
		u, err := d.model.Utilization(t)
		if err != nil {
			return nil, err
		}
		frac := math.Min(u/100, 1)

		for _, h := range hosts {
			if len(h.vms) == 0 {
				if k == 0 {
					// Idle hosts draw static power for one step, then switch off.
					p, err := d.power.Power(0)
					if err != nil {
						return nil, err
					}
					result.TotalPower += p * d.step
					result.Hosts[h.id].History = append(result.Hosts[h.id].History,
						sim.HostStateEntry{Time: 0, Active: true},
						sim.HostStateEntry{Time: d.step, Active: false})
				}
				continue
			}

			requested := 0.0
			for _, id := range h.vms {
				demand[id] = vms[id].peak * vms[id].scale * frac
				requested += demand[id]
			}
			share := 1.0
			if requested > h.capacity {
				share = h.capacity / requested
			}
			allocated := 0.0
			for _, id := range h.vms {
				a := demand[id] * share
				allocated += a
				result.VMs[id].History = append(result.VMs[id].History, sim.VMStateEntry{
					Time:          t,
					AllocatedMIPS: a,
					RequestedMIPS: demand[id],
				})
			}

			p, err := d.power.Power(math.Min(allocated/h.capacity, 1))
			if err != nil {
				return nil, err
			}
			result.TotalPower += p * d.step
			result.Hosts[h.id].History = append(result.Hosts[h.id].History, sim.HostStateEntry{
				Time:          t,
				AllocatedMIPS: allocated,
				RequestedMIPS: requested,
				Active:        true,
			})
		}
	}

	// Close the last segment: VMs finish and busy hosts switch off at the horizon.
	for i := range result.VMs {
		result.VMs[i].History = append(result.VMs[i].History, sim.VMStateEntry{Time: end})
	}
	for _, h := range hosts {
		if len(h.vms) > 0 {
			result.Hosts[h.id].History = append(result.Hosts[h.id].History, sim.HostStateEntry{Time: end, Active: false})
		}
	}

	logrus.Debugf("fluid driver: %d steps of %vs, total power %.1f W·s", steps, d.step, result.TotalPower)
	return result, nil
}
