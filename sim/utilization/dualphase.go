package utilization

// dualPhaseSamples is a synthetic utilization trace in percent: a flat phase
// between 5 and 7, a ramp, then a plateau between 51 and 53.
var dualPhaseSamples = [...]float64{
	7, 6, 5, 7, 7, 5, 7, 5, 7, 7, 6, 5, 7, 7, 6, 5, 5, 5, 5, 5, 5, 7, 7, 6, 6, 6, 6, 6, 6, 6, 7, 6, 7,
	7, 7, 7, 6, 5, 5, 6, 6, 6, 5, 7, 7, 7, 5, 5, 6, 7, 5, 6, 7, 6, 7, 5, 7, 5, 7, 5, 6, 7, 5, 7, 6, 6,
	5, 7, 7, 5, 6, 5, 5, 7, 5, 6, 6, 5, 7, 5, 7, 6, 7, 6, 6, 6, 6, 7, 7, 6, 7, 7, 6, 7, 6, 6, 5, 7, 5,
	5, 5, 7, 7, 7, 5, 5, 7, 6, 7, 6, 7, 5, 5, 6, 7, 7, 7, 5, 6, 6, 7, 7, 6, 5, 5, 7, 6, 6, 5, 7, 7, 6,
	5, 6, 6, 7, 5, 5, 6, 5, 5, 5, 7, 7, 5, 6, 7, 7, 5, 6, 7, 6, 5, 5, 7, 6, 7, 5, 7, 7, 6, 7, 7, 6, 7,
	5, 5.5, 7, 7.86, 8, 8.36, 8.98, 9.43, 10.3, 10.71, 10.86, 11.97, 12.13, 13.17, 13.84, 14.55,
	14.74, 14.92, 15.23, 15.93, 16.27, 16.76, 17.05, 17.23, 18.32, 19.09, 19.44, 20.06, 20.54, 20.91,
	21.85, 22.85, 23.82, 24.19, 25.15, 25.63, 26.56, 27, 27.28, 27.97, 29.06, 29.62, 29.74, 30.66,
	31.01, 31.47, 31.94, 32.89, 33.83, 34.12, 35.03, 35.86, 36.26, 37.06, 37.85, 37.98, 38.78, 39.4,
	39.52, 40.32, 41.21, 41.88, 42.33, 42.94, 43.48, 44.16, 44.71, 44.9, 45.29, 45.5, 46.24, 47.25,
	47.98, 48.85, 48, 48, 49, 49, 47, 48, 49, 50, 51, 51, 51, 51, 51, 51, 53, 53, 51, 51, 51, 51, 53,
	53, 52, 53, 51, 53, 51, 52, 52, 53, 51, 53, 53, 52, 53, 53, 51, 53, 52, 52, 52, 51, 52, 51, 51,
	52, 53, 52, 51, 52, 52, 51, 51, 51, 53, 51, 52, 52, 52, 52, 52, 53, 53, 51, 53, 51, 51, 51, 52,
	53, 51, 52, 51, 52, 52, 52, 51, 52, 53, 52, 53, 53, 53, 51, 51, 52, 53, 52, 53, 52, 52, 52, 51,
	52, 53, 51, 53, 53, 53, 52, 51, 52, 52, 51, 52, 51, 51, 53, 53, 53, 53, 52, 52, 52, 52, 51, 53,
	52, 51, 51, 52, 53, 52, 53, 51, 53, 53, 51, 51, 53, 53, 53, 51, 51, 52, 53, 51, 53, 53, 53, 51,
	53, 53, 51, 52, 52,
}

// DualPhaseLen is the number of samples in the dual-phase trace.
const DualPhaseLen = len(dualPhaseSamples)

// NewDualPhase returns a sampler over the dual-phase trace with samples spaced
// interval seconds apart.
func NewDualPhase(interval float64) (*Sampler, error) {
	return NewSampler(dualPhaseSamples[:], interval)
}
