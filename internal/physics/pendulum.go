package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/phasependulum/internal/dynamo"
	"github.com/san-kum/phasependulum/internal/integrators"
)

// AngularAcceleration returns -b·θ̇ - (g/L)·sin θ.
// A pivot length below dynamo.MinPivotLength, or non-finite, yields ErrDivisionByZero.
func AngularAcceleration(theta, thetaDot, length float64, p dynamo.Params) (float64, error) {
	if !(length >= dynamo.MinPivotLength) || math.IsInf(length, 0) {
		return 0, fmt.Errorf("%w: length=%g", dynamo.ErrDivisionByZero, length)
	}
	return -p.Damping*thetaDot - (p.Gravity/length)*math.Sin(theta), nil
}

// Acceleration binds a pivot length and parameters into a dynamo.Acceleration.
// p is read on every call so control changes take effect immediately.
func Acceleration(length float64, p *dynamo.Params) dynamo.Acceleration {
	return func(theta, thetaDot float64) (float64, error) {
		return AngularAcceleration(theta, thetaDot, length, *p)
	}
}

// IntegrateThetaDot advances (theta, thetaDot) for duration seconds in fixed
// steps of p.TimeStep using explicit Euler and returns the final thetaDot.
// Only whole steps are taken; a remainder shorter than TimeStep is dropped.
func IntegrateThetaDot(duration, theta, thetaDot, length float64, p dynamo.Params) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if duration < 0 {
		return 0, fmt.Errorf("%w: duration must be non-negative, got %f", dynamo.ErrParameterBounds, duration)
	}

	acc := Acceleration(length, &p)
	euler := integrators.NewEuler()
	x := dynamo.State{Theta: theta, ThetaDot: thetaDot, PivotLength: length}

	steps := int(math.Floor(duration/p.TimeStep + 1e-9))
	for i := 0; i < steps; i++ {
		next, err := euler.Step(acc, x, p.TimeStep)
		if err != nil {
			return 0, err
		}
		x = next
	}
	return x.ThetaDot, nil
}

// Energy returns mechanical energy per unit mass.
func Energy(theta, thetaDot, length, gravity float64) float64 {
	v := length * thetaDot
	ke := 0.5 * v * v
	pe := gravity * length * (1.0 - math.Cos(theta))
	return ke + pe
}

// BobPosition maps an angle to the bob's position relative to the pivot,
// y pointing up.
func BobPosition(theta, length float64) mgl64.Vec2 {
	return mgl64.Vec2{math.Sin(theta) * length, -math.Cos(theta) * length}
}

// AngleFromPosition inverts BobPosition. The result is shifted by whole
// turns to the branch closest to prev, keeping angles unbounded.
func AngleFromPosition(pos mgl64.Vec2, prev float64) float64 {
	theta := math.Atan2(pos.X(), -pos.Y())
	turns := math.Round((prev - theta) / (2 * math.Pi))
	return theta + turns*2*math.Pi
}
