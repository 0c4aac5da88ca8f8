package fluid

import (
	"fmt"
	"math"

	"github.com/dcsim/dcsim/sim"
)

// PowerModel maps host CPU utilization in [0, 1] to power draw in watts.
type PowerModel interface {
	Power(utilization float64) (float64, error)
}

// LinearPowerModel draws StaticFraction*MaxPower when idle and grows linearly
// to MaxPower at full utilization.
type LinearPowerModel struct {
	MaxPower       float64 // W
	StaticFraction float64 // share of MaxPower drawn at idle, [0, 1]
}

// NewLinearPowerModel validates and returns a LinearPowerModel.
func NewLinearPowerModel(maxPower, staticFraction float64) (*LinearPowerModel, error) {
	if math.IsNaN(maxPower) || math.IsInf(maxPower, 0) || maxPower <= 0 {
		return nil, fmt.Errorf("%w: max power must be positive, got %v", sim.ErrInvalidConfiguration, maxPower)
	}
	if math.IsNaN(staticFraction) || staticFraction < 0 || staticFraction > 1 {
		return nil, fmt.Errorf("%w: static fraction must be in [0, 1], got %v", sim.ErrInvalidConfiguration, staticFraction)
	}
	return &LinearPowerModel{MaxPower: maxPower, StaticFraction: staticFraction}, nil
}

// Power returns the draw at the given utilization.
func (m *LinearPowerModel) Power(utilization float64) (float64, error) {
	if math.IsNaN(utilization) || utilization < 0 || utilization > 1 {
		return 0, fmt.Errorf("%w: utilization %v outside [0, 1]", sim.ErrOutOfRange, utilization)
	}
	static := m.MaxPower * m.StaticFraction
	return static + (m.MaxPower-static)*utilization, nil
}
