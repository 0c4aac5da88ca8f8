package sim

// VMStateEntry is one sample of a VM's MIPS allocation history.
// The values hold from Time until the next entry.
type VMStateEntry struct {
	Time          float64 `yaml:"time"`
	AllocatedMIPS float64 `yaml:"allocated_mips"`
	RequestedMIPS float64 `yaml:"requested_mips"`
	InMigration   bool    `yaml:"in_migration,omitempty"`
}

// HostStateEntry is one sample of a host's state history.
type HostStateEntry struct {
	Time          float64 `yaml:"time"`
	AllocatedMIPS float64 `yaml:"allocated_mips"`
	RequestedMIPS float64 `yaml:"requested_mips"`
	Active        bool    `yaml:"active"`
}

// VM is a simulated virtual machine as reported after a run.
type VM struct {
	ID      int            `yaml:"id"`
	Type    int            `yaml:"type"`
	HostID  int            `yaml:"host_id"`
	History []VMStateEntry `yaml:"history"`
}

// Host is a simulated physical host as reported after a run.
type Host struct {
	ID      int              `yaml:"id"`
	Type    int              `yaml:"type"`
	History []HostStateEntry `yaml:"history"`
}

// RunResult is the raw output of one simulated run.
type RunResult struct {
	VMs        []VM    `yaml:"vms"`
	Hosts      []Host  `yaml:"hosts"`
	TotalPower float64 `yaml:"total_power"` // watt-seconds integrated over simulated time
}
