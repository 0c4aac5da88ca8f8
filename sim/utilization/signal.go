package utilization

import (
	"fmt"
	"os"

	"github.com/dcsim/dcsim/sim"
)

// SignalFile is the on-disk form of a sampled utilization signal.
//
//	interval: 300
//	samples: [7, 6, 5, 7]
type SignalFile struct {
	Interval float64   `yaml:"interval"`
	Samples  []float64 `yaml:"samples"`
}

// LoadSignal reads a YAML signal file and builds a Sampler from it.
// Read errors are returned unchanged; unknown keys are rejected.
func LoadSignal(path string) (*Sampler, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sf SignalFile
	if err := sim.DecodeStrict(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing signal file %s: %w", path, err)
	}
	return NewSampler(sf.Samples, sf.Interval)
}
