package experiment

import (
	"time"

	"github.com/dcsim/dcsim/sim"
)

// Report bundles the outputs of one experiment run.
type Report struct {
	RunID    string               `json:"run_id"`
	Config   sim.ExperimentConfig `json:"config"`
	Scores   ObjectiveScores      `json:"scores"`
	WallTime time.Duration        `json:"wall_time_ns"`
}

// NewReport constructs a Report.
func NewReport(runID string, cfg sim.ExperimentConfig, scores ObjectiveScores, wallTime time.Duration) *Report {
	return &Report{
		RunID:    runID,
		Config:   cfg,
		Scores:   scores,
		WallTime: wallTime,
	}
}
