package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dcsim/dcsim/sim"
	"github.com/dcsim/dcsim/sim/fluid"
	"github.com/dcsim/dcsim/sim/replay"
	"github.com/dcsim/dcsim/sim/utilization"
)

// Driver names accepted by --driver.
const (
	DriverFluid  = "fluid"
	DriverReplay = "replay"
)

var (
	driverName         string  // Simulation driver (fluid, replay)
	inputDir           string  // Root of recorded results for the replay driver
	signalPath         string  // YAML utilization signal; empty uses the dual-phase trace
	schedulingInterval float64 // Seconds between utilization samples
	step               float64 // Fluid driver step (s); <= 0 uses the scheduling interval
	maxPower           float64 // Fluid driver host power at full load (W)
	staticFraction     float64 // Share of max power drawn by an idle host
)

func addSignalFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&signalPath, "signal", "", "YAML utilization signal (interval, samples); default is the dual-phase trace")
	cmd.Flags().Float64Var(&schedulingInterval, "scheduling-interval", 300, "Seconds between dual-phase samples (ignored with --signal)")
}

func addDriverFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&driverName, "driver", DriverFluid, "Simulation driver (fluid, replay)")
	cmd.Flags().StringVar(&inputDir, "input-dir", "", "Directory of recorded results for the replay driver")
	cmd.Flags().Float64Var(&step, "step", 0, "Fluid driver step in seconds (<= 0 uses the signal interval)")
	cmd.Flags().Float64Var(&maxPower, "max-power", 250, "Fluid driver host power at full load (W)")
	cmd.Flags().Float64Var(&staticFraction, "static-fraction", 0.7, "Share of max power an idle host draws")
	addSignalFlags(cmd)
}

// newUtilizationModel loads --signal, or builds the dual-phase trace.
func newUtilizationModel() (*utilization.Sampler, error) {
	if signalPath != "" {
		return utilization.LoadSignal(signalPath)
	}
	return utilization.NewDualPhase(schedulingInterval)
}

// newDriver builds the driver named by --driver from the current flags.
func newDriver() (sim.SimulationDriver, error) {
	switch driverName {
	case DriverReplay:
		if inputDir == "" {
			return nil, fmt.Errorf("%w: --input-dir is required with the replay driver", sim.ErrInvalidConfiguration)
		}
		return replay.NewDriver(inputDir), nil
	case DriverFluid:
		model, err := newUtilizationModel()
		if err != nil {
			return nil, err
		}
		power, err := fluid.NewLinearPowerModel(maxPower, staticFraction)
		if err != nil {
			return nil, err
		}
		s := step
		if s <= 0 {
			s = model.Interval()
		}
		return fluid.NewDriver(model, s, power)
	default:
		return nil, fmt.Errorf("%w: unknown driver %q (valid: %s, %s)", sim.ErrInvalidConfiguration, driverName, DriverFluid, DriverReplay)
	}
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
