package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dcsim/dcsim/sim"
	"github.com/dcsim/dcsim/sim/experiment"
)

var (
	// Experiment flags, one per sim.ExperimentConfig field
	allocationPolicy string // VM allocation policy name
	selectionPolicy  string // VM selection policy name
	parameter        string // Allocation policy parameter, string-encoded real
	hostCount        int    // Number of hosts
	vmCount          int    // Number of VMs
	vmPEs            []int  // PEs per VM type
	vmMIPS           []int  // MIPS per VM type
	vmRAM            []int  // RAM (MB) per VM type
	hostPEs          []int  // PEs per host type
	hostMIPS         []int  // MIPS per host type
	hostRAM          []int  // RAM (MB) per host type
	hostBandwidth    int    // Host bandwidth
	hostStorage      int    // Host storage
	vmBandwidth      int    // VM bandwidth
	hostTypeCount    int    // Number of host types
	vmTypeCount      int    // Number of VM types
	seed             int64  // Seed for drivers that randomize

	experimentPath string // YAML experiment config; explicit flags override its values
	logLevel       string // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "dcsim",
	Short: "Energy and SLA evaluation of VM consolidation experiments",
}

// runCmd evaluates one experiment and prints its report as JSON
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one consolidation experiment",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		cfg, err := experimentConfig(cmd)
		if err != nil {
			logrus.Fatalf("Invalid experiment configuration: %v", err)
		}
		driver, err := newDriver()
		if err != nil {
			logrus.Fatalf("Cannot build %s driver: %v", driverName, err)
		}

		report, err := experiment.NewOrchestrator(driver).Evaluate(cfg)
		if err != nil {
			logrus.Fatalf("Experiment failed: %v", err)
		}
		if err := printJSON(os.Stdout, report); err != nil {
			logrus.Fatalf("Cannot write report: %v", err)
		}
		logrus.Info("Experiment complete.")
	},
}

// sweepCmd evaluates every experiment listed in a sweep file
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run a batch of independent experiments concurrently",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		if sweepPath == "" {
			logrus.Fatalf("Sweep file not provided. Use --config.")
		}
		spec, err := experiment.LoadSweep(sweepPath)
		if err != nil {
			logrus.Fatalf("Cannot load sweep: %v", err)
		}
		if cmd.Flags().Changed("parallelism") {
			spec.Parallelism = parallelism
		}
		driver, err := newDriver()
		if err != nil {
			logrus.Fatalf("Cannot build %s driver: %v", driverName, err)
		}

		reports, err := experiment.Sweep(context.Background(), experiment.NewOrchestrator(driver), spec.Experiments, spec.Parallelism)
		if err != nil {
			logrus.Fatalf("Sweep failed: %v", err)
		}
		if err := printJSON(os.Stdout, reports); err != nil {
			logrus.Fatalf("Cannot write reports: %v", err)
		}
	},
}

var (
	sweepPath   string // YAML sweep file
	parallelism int    // Overrides the sweep file's parallelism when set
)

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setLogLevel() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// experimentConfig starts from the defaults (or --config when given) and
// applies every experiment flag set explicitly on cmd.
func experimentConfig(cmd *cobra.Command) (sim.ExperimentConfig, error) {
	cfg := sim.DefaultExperimentConfig()
	if experimentPath != "" {
		loaded, err := sim.LoadExperimentConfig(experimentPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	overrides := []struct {
		flag  string
		apply func()
	}{
		{"allocation-policy", func() { cfg.AllocationPolicy = allocationPolicy }},
		{"selection-policy", func() { cfg.SelectionPolicy = selectionPolicy }},
		{"parameter", func() { cfg.Parameter = parameter }},
		{"hosts", func() { cfg.HostCount = hostCount }},
		{"vms", func() { cfg.VMCount = vmCount }},
		{"vm-pes", func() { cfg.VMPEs = vmPEs }},
		{"vm-mips", func() { cfg.VMMIPS = vmMIPS }},
		{"vm-ram", func() { cfg.VMRAM = vmRAM }},
		{"host-pes", func() { cfg.HostPEs = hostPEs }},
		{"host-mips", func() { cfg.HostMIPS = hostMIPS }},
		{"host-ram", func() { cfg.HostRAM = hostRAM }},
		{"host-bw", func() { cfg.HostBandwidth = hostBandwidth }},
		{"host-storage", func() { cfg.HostStorage = hostStorage }},
		{"vm-bw", func() { cfg.VMBandwidth = vmBandwidth }},
		{"host-types", func() { cfg.HostTypeCount = hostTypeCount }},
		{"vm-types", func() { cfg.VMTypeCount = vmTypeCount }},
		{"seed", func() { cfg.Seed = seed }},
	}
	for _, o := range overrides {
		if cmd.Flags().Changed(o.flag) {
			o.apply()
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("experiment %s/%s/%s: %w", cfg.AllocationPolicy, cfg.SelectionPolicy, cfg.Parameter, err)
	}
	return cfg, nil
}

// init sets up CLI flags and subcommands
func init() {
	d := sim.DefaultExperimentConfig()

	runCmd.Flags().StringVar(&allocationPolicy, "allocation-policy", d.AllocationPolicy, "VM allocation policy (dvfs, iqr, mad, lr, lrr, thr)")
	runCmd.Flags().StringVar(&selectionPolicy, "selection-policy", d.SelectionPolicy, "VM selection policy (mc, mmt, mu, rs); empty only with dvfs")
	runCmd.Flags().StringVar(&parameter, "parameter", d.Parameter, "Allocation policy parameter")
	runCmd.Flags().IntVar(&hostCount, "hosts", d.HostCount, "Number of hosts")
	runCmd.Flags().IntVar(&vmCount, "vms", d.VMCount, "Number of VMs")
	runCmd.Flags().IntSliceVar(&vmPEs, "vm-pes", d.VMPEs, "Comma-separated PEs per VM type")
	runCmd.Flags().IntSliceVar(&vmMIPS, "vm-mips", d.VMMIPS, "Comma-separated MIPS per VM type")
	runCmd.Flags().IntSliceVar(&vmRAM, "vm-ram", d.VMRAM, "Comma-separated RAM (MB) per VM type")
	runCmd.Flags().IntSliceVar(&hostPEs, "host-pes", d.HostPEs, "Comma-separated PEs per host type")
	runCmd.Flags().IntSliceVar(&hostMIPS, "host-mips", d.HostMIPS, "Comma-separated MIPS per host type")
	runCmd.Flags().IntSliceVar(&hostRAM, "host-ram", d.HostRAM, "Comma-separated RAM (MB) per host type")
	runCmd.Flags().IntVar(&hostBandwidth, "host-bw", d.HostBandwidth, "Host bandwidth")
	runCmd.Flags().IntVar(&hostStorage, "host-storage", d.HostStorage, "Host storage")
	runCmd.Flags().IntVar(&vmBandwidth, "vm-bw", d.VMBandwidth, "VM bandwidth")
	runCmd.Flags().IntVar(&hostTypeCount, "host-types", d.HostTypeCount, "Number of host types")
	runCmd.Flags().IntVar(&vmTypeCount, "vm-types", d.VMTypeCount, "Number of VM types")
	runCmd.Flags().Int64Var(&seed, "seed", d.Seed, "Seed for drivers that randomize")
	runCmd.Flags().StringVar(&experimentPath, "config", "", "YAML experiment config; explicit flags override its values")
	addDriverFlags(runCmd)

	sweepCmd.Flags().StringVar(&sweepPath, "config", "", "YAML sweep file listing experiments")
	sweepCmd.Flags().IntVar(&parallelism, "parallelism", 0, "Max experiments in flight (overrides the sweep file; <= 0 means one per CPU)")
	addDriverFlags(sweepCmd)

	sampleCmd.Flags().Float64SliceVar(&sampleTimes, "time", nil, "Comma-separated simulated times (s) to sample")
	addSignalFlags(sampleCmd)

	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(sampleCmd)
}
