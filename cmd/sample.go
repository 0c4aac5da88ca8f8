package cmd

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var sampleTimes []float64 // Simulated times (s) to evaluate the signal at

// Sample is one evaluated point of a utilization signal.
type Sample struct {
	Time        float64 `json:"time"`
	Utilization float64 `json:"utilization"`
}

// sampleCmd evaluates the utilization signal at the requested times
var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Evaluate a utilization signal at given simulated times",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		if err := writeSamples(os.Stdout, sampleTimes); err != nil {
			logrus.Fatalf("Sampling failed: %v", err)
		}
	},
}

// writeSamples evaluates the configured signal at times and prints the
// samples as JSON. The first out-of-range time aborts the whole batch.
func writeSamples(w io.Writer, times []float64) error {
	model, err := newUtilizationModel()
	if err != nil {
		return err
	}
	logrus.Debugf("sampling %d samples every %vs (span %vs)", model.Len(), model.Interval(), model.Span())

	samples := make([]Sample, 0, len(times))
	for _, t := range times {
		u, err := model.Utilization(t)
		if err != nil {
			return err
		}
		samples = append(samples, Sample{Time: t, Utilization: u})
	}
	return printJSON(w, samples)
}
