package integrators

import (
	"fmt"

	"github.com/san-kum/phasependulum/internal/dynamo"
)

// Euler is the explicit scheme: both updates use the acceleration at the
// start of the step.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(acc dynamo.Acceleration, x dynamo.State, dt float64) (dynamo.State, error) {
	a, err := acc(x.Theta, x.ThetaDot)
	if err != nil {
		return x, fmt.Errorf("euler step: %w", err)
	}
	result := x
	result.Theta = x.Theta + dt*x.ThetaDot
	result.ThetaDot = x.ThetaDot + dt*a
	result.ThetaDoubleDot = a
	return result, nil
}

// SemiImplicitEuler advances theta first and evaluates the acceleration at
// the new angle.
type SemiImplicitEuler struct{}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (s *SemiImplicitEuler) Step(acc dynamo.Acceleration, x dynamo.State, dt float64) (dynamo.State, error) {
	result := x
	result.Theta = x.Theta + dt*x.ThetaDot
	a, err := acc(result.Theta, x.ThetaDot)
	if err != nil {
		return x, fmt.Errorf("semi-implicit euler step: %w", err)
	}
	result.ThetaDot = x.ThetaDot + dt*a
	result.ThetaDoubleDot = a
	return result, nil
}
