// Package pendulum animates the physical pendulum and lets the user grab
// the bob to reposition it.
package pendulum

import (
	"fmt"

	"github.com/san-kum/phasependulum/internal/dynamo"
	"github.com/san-kum/phasependulum/internal/integrators"
	"github.com/san-kum/phasependulum/internal/physics"
	"github.com/san-kum/phasependulum/internal/scene"
	log "github.com/sirupsen/logrus"
)

type Mode int

const (
	Free Mode = iota
	Dragging
)

func (m Mode) String() string {
	if m == Dragging {
		return "dragging"
	}
	return "free"
}

const (
	BobRadius = 10
	BobColor  = "#ffffffff"
	RodColor  = "#ffffffff"
)

// View owns the live state. It integrates while Free and follows the
// pointer while Dragging.
type View struct {
	state   *dynamo.State
	params  *dynamo.Params
	stepper dynamo.Stepper
	mode    Mode
	frame   int
	lastErr error

	Bob *scene.Circle
	Rod *scene.Arrow
}

func New(state *dynamo.State, params *dynamo.Params) *View {
	rod := scene.NewArrow(scene.Vec{}, scene.Vec{}, RodColor)
	rod.ShowOrigin = false
	return &View{
		state:   state,
		params:  params,
		stepper: integrators.NewSemiImplicitEuler(),
		Bob:     scene.NewCircle(scene.Vec{}, BobRadius, BobColor),
		Rod:     rod,
	}
}

func (v *View) Shapes() []scene.Shape {
	return []scene.Shape{v.Rod, v.Bob}
}

func (v *View) Mode() Mode           { return v.mode }
func (v *View) State() *dynamo.State { return v.state }

// Err returns the most recent frame error, if the last frame had one.
func (v *View) Err() error { return v.lastErr }

// Place moves the bob to pos and re-derives the state from it. The
// angular velocity is a finite difference over one time step.
func (v *View) Place(pos scene.Vec) {
	v.Bob.Position = pos
	v.Rod.Vector = pos

	length := pos.Len()
	if length < dynamo.MinPivotLength {
		log.WithFields(log.Fields{
			"length":  length,
			"clamped": dynamo.MinPivotLength,
		}).Warn(dynamo.ErrDivisionByZero)
		length = dynamo.MinPivotLength
	}

	prev := v.state.Theta
	theta := prev
	if pos.Len() > 0 {
		theta = physics.AngleFromPosition(pos, prev)
	}

	v.state.PivotLength = length
	v.state.Theta = theta
	if v.params.TimeStep > 0 {
		v.state.ThetaDot = (theta - prev) / v.params.TimeStep
	} else {
		v.state.ThetaDot = 0
	}

	a, err := physics.AngularAcceleration(theta, v.state.ThetaDot, length, *v.params)
	if err != nil {
		v.fail(err)
		return
	}
	v.state.ThetaDoubleDot = a
	v.lastErr = nil
}

// SetAngle places the pendulum at an explicit phase point.
func (v *View) SetAngle(theta, thetaDot, length float64) error {
	a, err := physics.AngularAcceleration(theta, thetaDot, length, *v.params)
	if err != nil {
		return err
	}
	*v.state = dynamo.State{
		Theta:          theta,
		ThetaDot:       thetaDot,
		ThetaDoubleDot: a,
		PivotLength:    length,
		DriftX:         v.state.DriftX,
	}
	bob := physics.BobPosition(theta, length)
	v.Bob.Position = bob
	v.Rod.Vector = bob
	v.lastErr = nil
	return nil
}

func (v *View) OnDrag(p scene.Pointer) {
	if !p.Pressed {
		v.mode = Free
		return
	}
	v.mode = Dragging
	v.Place(p.Position)
}

func (v *View) OnFrame() {
	v.frame++
	if v.mode == Dragging {
		return
	}

	acc := physics.Acceleration(v.state.PivotLength, v.params)
	next, err := v.stepper.Step(acc, *v.state, v.params.TimeStep)
	if err == nil && !next.IsValid() {
		err = dynamo.ErrInvalidState
	}
	if err != nil {
		v.fail(err)
		return
	}
	*v.state = next
	v.lastErr = nil

	bob := physics.BobPosition(v.state.Theta, v.state.PivotLength)
	v.Bob.Position = bob
	v.Rod.Vector = bob
}

// fail records err with frame context. Only the first error of a run of
// failing frames is logged.
func (v *View) fail(err error) {
	simErr := &dynamo.SimulationError{Frame: v.frame, State: *v.state, Wrapped: err}
	if v.lastErr == nil {
		log.WithField("mode", v.mode.String()).Error(simErr)
	}
	v.lastErr = simErr
}

func (v *View) String() string {
	return fmt.Sprintf("pendulum[%s] %s", v.mode, v.state)
}
