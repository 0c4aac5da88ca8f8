package sim

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// WorkloadRandom is the only workload kind the orchestrator requests.
const WorkloadRandom = "random"

// ExperimentConfig describes one simulated datacenter experiment.
// It is created once per run and passed by value into the driver; nothing
// reads experiment parameters from package state.
type ExperimentConfig struct {
	AllocationPolicy string `yaml:"allocation_policy" json:"allocation_policy"` // "dvfs", "iqr", "mad", "lr", "lrr", "thr"
	SelectionPolicy  string `yaml:"selection_policy" json:"selection_policy"`   // "mc", "mmt", "mu", "rs"; empty only with dvfs
	Parameter        string `yaml:"parameter" json:"parameter"`                 // string-encoded real tuning parameter

	HostCount int `yaml:"hosts" json:"hosts"`
	VMCount   int `yaml:"vms" json:"vms"`

	VMPEs    []int `yaml:"vm_pes" json:"vm_pes"`
	VMMIPS   []int `yaml:"vm_mips" json:"vm_mips"`
	VMRAM    []int `yaml:"vm_ram" json:"vm_ram"` // MB
	HostPEs  []int `yaml:"host_pes" json:"host_pes"`
	HostMIPS []int `yaml:"host_mips" json:"host_mips"`
	HostRAM  []int `yaml:"host_ram" json:"host_ram"` // MB

	HostBandwidth int `yaml:"host_bw" json:"host_bw"`
	HostStorage   int `yaml:"host_storage" json:"host_storage"`
	VMBandwidth   int `yaml:"vm_bw" json:"vm_bw"`

	HostTypeCount int `yaml:"host_types" json:"host_types"`
	VMTypeCount   int `yaml:"vm_types" json:"vm_types"`

	Seed int64 `yaml:"seed" json:"seed"` // used by drivers that randomize per-VM workload
}

// DefaultExperimentConfig returns the two-host-type, two-VM-type reference
// experiment with the local-regression / minimum-utilization policy pair.
func DefaultExperimentConfig() ExperimentConfig {
	return ExperimentConfig{
		AllocationPolicy: "lr",
		SelectionPolicy:  "mu",
		Parameter:        "1.393674679793466",
		HostCount:        49,
		VMCount:          97,
		VMPEs:            []int{1, 1},
		VMMIPS:           []int{2500, 100},
		VMRAM:            []int{870, 1740},
		HostPEs:          []int{2, 2},
		HostMIPS:         []int{1860, 5000},
		HostRAM:          []int{4096, 4096},
		HostBandwidth:    870291,
		HostStorage:      1074982,
		VMBandwidth:      129904,
		HostTypeCount:    2,
		VMTypeCount:      2,
		Seed:             42,
	}
}

// ValidAllocationPolicies is the set of recognized VM allocation policy names.
var ValidAllocationPolicies = map[string]bool{"dvfs": true, "iqr": true, "mad": true, "lr": true, "lrr": true, "thr": true}

// ValidSelectionPolicies is the set of recognized VM selection policy names.
var ValidSelectionPolicies = map[string]bool{"mc": true, "mmt": true, "mu": true, "rs": true}

// Validate checks policy names, counts, the tuning parameter and that every
// per-type array has exactly one entry per declared type.
// All failures wrap ErrInvalidConfiguration.
func (c *ExperimentConfig) Validate() error {
	if !ValidAllocationPolicies[c.AllocationPolicy] {
		return invalidf("unknown allocation policy %q", c.AllocationPolicy)
	}
	if c.SelectionPolicy == "" {
		if c.AllocationPolicy != "dvfs" {
			return invalidf("selection policy required for allocation policy %q", c.AllocationPolicy)
		}
	} else if !ValidSelectionPolicies[c.SelectionPolicy] {
		return invalidf("unknown selection policy %q", c.SelectionPolicy)
	}
	if c.Parameter != "" || c.AllocationPolicy != "dvfs" {
		if _, err := c.ParameterValue(); err != nil {
			return err
		}
	}
	if c.HostCount <= 0 {
		return invalidf("hosts must be positive, got %d", c.HostCount)
	}
	if c.VMCount <= 0 {
		return invalidf("vms must be positive, got %d", c.VMCount)
	}
	if c.HostTypeCount <= 0 {
		return invalidf("host_types must be positive, got %d", c.HostTypeCount)
	}
	if c.VMTypeCount <= 0 {
		return invalidf("vm_types must be positive, got %d", c.VMTypeCount)
	}
	arrays := []struct {
		name  string
		arr   []int
		types int
	}{
		{"host_pes", c.HostPEs, c.HostTypeCount},
		{"host_mips", c.HostMIPS, c.HostTypeCount},
		{"host_ram", c.HostRAM, c.HostTypeCount},
		{"vm_pes", c.VMPEs, c.VMTypeCount},
		{"vm_mips", c.VMMIPS, c.VMTypeCount},
		{"vm_ram", c.VMRAM, c.VMTypeCount},
	}
	for _, a := range arrays {
		if err := validateTypeArray(a.name, a.arr, a.types); err != nil {
			return err
		}
	}
	if c.HostBandwidth <= 0 || c.HostStorage <= 0 || c.VMBandwidth <= 0 {
		return invalidf("host_bw, host_storage and vm_bw must be positive, got %d, %d, %d",
			c.HostBandwidth, c.HostStorage, c.VMBandwidth)
	}
	return nil
}

// ParameterValue parses the string-encoded tuning parameter.
func (c *ExperimentConfig) ParameterValue() (float64, error) {
	v, err := strconv.ParseFloat(c.Parameter, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, invalidf("parameter %q is not a finite real number", c.Parameter)
	}
	return v, nil
}

func validateTypeArray(name string, arr []int, types int) error {
	if len(arr) != types {
		return invalidf("%s has %d entries, want %d (one per type)", name, len(arr), types)
	}
	for i, v := range arr {
		if v <= 0 {
			return invalidf("%s[%d] must be positive, got %d", name, i, v)
		}
	}
	return nil
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}

// LoadExperimentConfig reads a YAML experiment configuration file.
// Keys absent from the file keep their DefaultExperimentConfig values and
// unrecognized keys are rejected. The result is not validated.
func LoadExperimentConfig(path string) (ExperimentConfig, error) {
	cfg := DefaultExperimentConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading experiment config: %w", err)
	}
	if err := DecodeStrict(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing experiment config: %w", err)
	}
	return cfg, nil
}

// DecodeStrict unmarshals YAML into out, failing on unknown fields so typos
// in hand-written files surface as errors.
func DecodeStrict(data []byte, out any) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	return decoder.Decode(out)
}
