// Package utilization turns fixed, equally spaced utilization samples into a
// continuous function of simulated time by linear interpolation.
package utilization

import (
	"fmt"
	"math"

	"github.com/dcsim/dcsim/sim"
)

// Sampler interpolates a fixed signal whose sample k sits at time k*interval.
// A Sampler is immutable after construction and safe for concurrent use.
type Sampler struct {
	signal   []float64
	interval float64
}

var _ sim.UtilizationModel = (*Sampler)(nil)

// NewSampler copies signal and validates it together with the sampling interval.
// The interval must be finite and positive, the signal must hold at least two
// samples, and every sample must be finite and non-negative.
func NewSampler(signal []float64, interval float64) (*Sampler, error) {
	if math.IsNaN(interval) || math.IsInf(interval, 0) || interval <= 0 {
		return nil, fmt.Errorf("%w: scheduling interval must be positive, got %v", sim.ErrInvalidConfiguration, interval)
	}
	if len(signal) < 2 {
		return nil, fmt.Errorf("%w: signal needs at least 2 samples, got %d", sim.ErrInvalidConfiguration, len(signal))
	}
	for i, v := range signal {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return nil, fmt.Errorf("%w: sample %d must be finite and non-negative, got %v", sim.ErrInvalidConfiguration, i, v)
		}
	}
	return &Sampler{
		signal:   append([]float64(nil), signal...),
		interval: interval,
	}, nil
}

// Utilization returns the signal value at simulated time t.
//
// At exact multiples of the interval the stored sample is returned unchanged.
// Between samples k and k+1 the result is v[k] + (v[k+1]-v[k]) * f with
// f = (t - k*interval) / interval. Times that are negative or past Span fail
// with sim.ErrOutOfRange.
func (s *Sampler) Utilization(t float64) (float64, error) {
	last := len(s.signal) - 1
	if math.IsNaN(t) || t < 0 || t > s.Span() {
		return 0, s.outOfRange(t)
	}

	if math.Mod(t, s.interval) == 0 {
		idx := int(t / s.interval)
		if idx > last {
			return 0, s.outOfRange(t)
		}
		return s.signal[idx], nil
	}

	k1 := int(math.Floor(t / s.interval))
	if k1 >= last {
		// t/interval rounded onto the final sample.
		return s.signal[last], nil
	}
	v1, v2 := s.signal[k1], s.signal[k1+1]
	f := (t - float64(k1)*s.interval) / s.interval
	return v1 + (v2-v1)*f, nil
}

// Span is the last simulated time the signal is defined at.
func (s *Sampler) Span() float64 {
	return float64(len(s.signal)-1) * s.interval
}

// Interval is the spacing between consecutive samples.
func (s *Sampler) Interval() float64 {
	return s.interval
}

// Len is the number of samples.
func (s *Sampler) Len() int {
	return len(s.signal)
}

func (s *Sampler) outOfRange(t float64) error {
	return fmt.Errorf("%w: time %v outside [0, %v]", sim.ErrOutOfRange, t, s.Span())
}
