package sim

// DriverRequest carries everything a SimulationDriver needs for one run.
// Config is a copy owned by the run.
type DriverRequest struct {
	AllocationPolicy string
	SelectionPolicy  string
	Parameter        string
	Workload         string
	Config           ExperimentConfig
}

// NewDriverRequest builds the request the orchestrator sends for cfg.
func NewDriverRequest(cfg ExperimentConfig, workload string) DriverRequest {
	return DriverRequest{
		AllocationPolicy: cfg.AllocationPolicy,
		SelectionPolicy:  cfg.SelectionPolicy,
		Parameter:        cfg.Parameter,
		Workload:         workload,
		Config:           cfg,
	}
}

// SimulationDriver executes a full configured run and returns its raw output.
// Implementations must tolerate concurrent Run calls with distinct requests.
type SimulationDriver interface {
	Run(req DriverRequest) (*RunResult, error)
}

// UtilizationModel maps simulated time (seconds) to a utilization level.
type UtilizationModel interface {
	Utilization(time float64) (float64, error)
	// Span is the last simulated time the model is defined at.
	Span() float64
}
