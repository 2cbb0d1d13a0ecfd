package dynamo

import (
	"fmt"
	"math"
)

// MinPivotLength is the smallest pivot-to-bob distance the model accepts.
const MinPivotLength = 1e-6

// State is the live pendulum state. Angles are radians and never wrapped.
type State struct {
	Theta          float64
	ThetaDot       float64
	ThetaDoubleDot float64
	PivotLength    float64
	DriftX         float64
}

func (s State) IsValid() bool {
	for _, v := range []float64{s.Theta, s.ThetaDot, s.ThetaDoubleDot, s.PivotLength} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Phase returns the (theta, theta-dot) coordinates of the state.
func (s State) Phase() (float64, float64) {
	return s.Theta, s.ThetaDot
}

func (s State) String() string {
	return fmt.Sprintf("θ=%.4f θ̇=%.4f θ̈=%.4f L=%.2f", s.Theta, s.ThetaDot, s.ThetaDoubleDot, s.PivotLength)
}

// Params holds the physical parameters read by every acceleration evaluation.
type Params struct {
	Damping  float64
	Gravity  float64
	TimeStep float64
}

func DefaultParams() Params {
	return Params{
		Damping:  0.01,
		Gravity:  40.8,
		TimeStep: 0.1,
	}
}

// Validate reports parameters that break the model invariants.
func (p Params) Validate() error {
	if p.Damping < 0 {
		return fmt.Errorf("%w: damping must be non-negative, got %f", ErrParameterBounds, p.Damping)
	}
	if p.TimeStep <= 0 {
		return fmt.Errorf("%w: time step must be positive, got %f", ErrParameterBounds, p.TimeStep)
	}
	if math.IsNaN(p.Gravity) || math.IsInf(p.Gravity, 0) {
		return fmt.Errorf("%w: gravity must be finite", ErrParameterBounds)
	}
	return nil
}

func (p Params) GetParams() map[string]float64 {
	return map[string]float64{
		"damping":   p.Damping,
		"gravity":   p.Gravity,
		"time_step": p.TimeStep,
	}
}

func (p *Params) SetParam(name string, value float64) error {
	switch name {
	case "damping":
		p.Damping = value
	case "gravity":
		p.Gravity = value
	case "time_step":
		p.TimeStep = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}

// Acceleration evaluates theta-double-dot for a phase-space point.
type Acceleration func(theta, thetaDot float64) (float64, error)

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

var _ Configurable = (*Params)(nil)

// Stepper advances a state by one fixed step.
type Stepper interface {
	Step(acc Acceleration, x State, dt float64) (State, error)
}
