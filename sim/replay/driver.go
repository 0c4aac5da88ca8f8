// Package replay implements sim.SimulationDriver by loading recorded run
// results from disk instead of simulating.
package replay

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dcsim/dcsim/sim"
)

// Driver reads results laid out as <dir>/<workload>/<experiment>.yaml, where
// the experiment name joins the non-empty allocation policy, selection policy
// and parameter with underscores.
type Driver struct {
	dir string
}

var _ sim.SimulationDriver = (*Driver)(nil)

func NewDriver(dir string) *Driver {
	return &Driver{dir: dir}
}

// ExperimentName is the file stem a recorded run is stored under.
func ExperimentName(req sim.DriverRequest) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{req.AllocationPolicy, req.SelectionPolicy, req.Parameter} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "_")
}

// Path returns the file a request is replayed from.
func (d *Driver) Path(req sim.DriverRequest) string {
	return filepath.Join(d.dir, req.Workload, ExperimentName(req)+".yaml")
}

// Run loads the recorded result for req. Read errors are returned as-is.
func (d *Driver) Run(req sim.DriverRequest) (*sim.RunResult, error) {
	path := d.Path(req)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var result sim.RunResult
	if err := sim.DecodeStrict(data, &result); err != nil {
		return nil, fmt.Errorf("parse recorded result %s: %w", path, err)
	}
	logrus.Debugf("replay driver: loaded %s (%d VMs, %d hosts)", path, len(result.VMs), len(result.Hosts))
	return &result, nil
}
