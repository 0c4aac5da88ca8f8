package sim

import "errors"

// Error kinds shared by the sampler, the orchestrator and the drivers.
// Callers match them with errors.Is; producers wrap them with context.
var (
	// ErrInvalidConfiguration reports an illegal sampler interval, signal, or
	// experiment configuration (counts, parameter, per-type array lengths).
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrOutOfRange reports a query outside the span a utilization model is defined on.
	ErrOutOfRange = errors.New("out of range")

	// ErrMissingMetric reports a reducer result lacking an expected key.
	ErrMissingMetric = errors.New("missing metric")
)
