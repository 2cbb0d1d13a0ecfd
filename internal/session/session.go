// Package session wires the pendulum and phase-field views, their canvases
// and the control panel into one frame loop.
package session

import (
	"context"
	"fmt"

	"github.com/san-kum/phasependulum/internal/config"
	"github.com/san-kum/phasependulum/internal/controls"
	"github.com/san-kum/phasependulum/internal/dynamo"
	"github.com/san-kum/phasependulum/internal/field"
	"github.com/san-kum/phasependulum/internal/pendulum"
	"github.com/san-kum/phasependulum/internal/physics"
	"github.com/san-kum/phasependulum/internal/scene"
	log "github.com/sirupsen/logrus"
)

// GrabSlack is how far outside the bob a press still grabs it.
const GrabSlack = 4.0

// Observer is called after every frame.
type Observer func(frame int, s dynamo.State)

type Session struct {
	cfg *config.Config

	State  *dynamo.State
	Params *dynamo.Params

	PendulumCanvas *scene.Canvas
	FieldCanvas    *scene.Canvas
	Pendulum       *pendulum.View
	Field          *field.View
	Panel          *controls.Panel

	driver    *scene.Driver
	observers []Observer
}

// Setup builds both scenes from cfg. The field is sampled once here, after
// the initial placement has fixed the pivot length.
func Setup(cfg *config.Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	fieldOpts, err := cfg.FieldOptions()
	if err != nil {
		return nil, err
	}

	params := cfg.DynamoParams()
	s := &Session{
		cfg:    cfg,
		State:  &dynamo.State{},
		Params: &params,
		PendulumCanvas: scene.NewCanvas(scene.Options{
			Background:     cfg.Display.Background,
			DisplayNumbers: cfg.Display.Numbers,
			DisplayGrid:    cfg.Display.Grid,
			Width:          cfg.Display.PendulumWidth,
			Height:         cfg.Display.PendulumHeight,
		}),
		FieldCanvas: scene.NewCanvas(scene.Options{
			Background:      cfg.Display.Background,
			DisplayNumbers:  cfg.Display.Numbers,
			DisplayGrid:     cfg.Display.Grid,
			EnableMouseMove: true,
			Width:           cfg.Display.FieldWidth,
			Height:          cfg.Display.FieldHeight,
		}),
		driver: scene.NewDriver(),
	}

	s.Pendulum = pendulum.New(s.State, s.Params)
	s.PendulumCanvas.AddShapes(s.Pendulum.Shapes()...)
	if err := s.place(); err != nil {
		return nil, err
	}

	s.Field, err = field.New(s.FieldCanvas, s.State, s.Params, fieldOpts)
	if err != nil {
		return nil, fmt.Errorf("phase field: %w", err)
	}

	s.driver.Attach(s.Pendulum, s.Pendulum.Bob)
	s.driver.Attach(s.Field)

	if cfg.Controls.Enabled {
		s.Panel = controls.ParamsPanel(s.Params)
		s.Panel.SetFPS(cfg.Display.FPS)
	}

	log.WithFields(log.Fields{
		"placement": cfg.InitState.Placement,
		"state":     s.State.String(),
		"controls":  cfg.Controls.Enabled,
	}).Info("session ready")
	return s, nil
}

func (s *Session) place() error {
	st := s.cfg.InitState
	s.State.DriftX = st.DriftX
	if st.Placement == config.PlaceAngle {
		return s.Pendulum.SetAngle(st.Theta, st.ThetaDot, st.Length)
	}
	s.Pendulum.Place(scene.Vec{st.DriftX, -st.Length})
	return s.Pendulum.Err()
}

func (s *Session) Config() *config.Config { return s.cfg }

// Observe registers fn to run after every frame.
func (s *Session) Observe(fn Observer) {
	s.observers = append(s.observers, fn)
}

// Frame advances both views once and ticks the slider easing.
func (s *Session) Frame() {
	s.driver.Frame()
	if s.Panel != nil {
		s.Panel.Tick()
	}
	for _, obs := range s.observers {
		obs(s.driver.Frames(), *s.State)
	}
}

// Run advances n frames without a front-end.
func (s *Session) Run(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		s.Frame()
	}
	return nil
}

func (s *Session) Frames() int    { return s.driver.Frames() }
func (s *Session) Dragging() bool { return s.driver.Dragging() }

// Press starts a drag if p, in pendulum canvas units, hits the bob.
func (s *Session) Press(p scene.Vec) bool {
	return s.Grab(p, GrabSlack)
}

// Grab is Press with an explicit slack, for pointers coarser than a pixel.
func (s *Session) Grab(p scene.Vec, slack float64) bool {
	return s.driver.Press(s.PendulumCanvas, p, slack)
}

func (s *Session) Move(p scene.Vec) bool {
	return s.driver.Move(p)
}

func (s *Session) Release(p scene.Vec) {
	s.driver.Release(p)
}

// SetParam routes a parameter change through its slider when the panel is
// enabled, so the value is clamped to the slider range.
func (s *Session) SetParam(key string, value float64) error {
	if s.Panel != nil {
		if sl := s.Panel.Find(key); sl != nil {
			return sl.Set(value)
		}
	}
	next := *s.Params
	if err := next.SetParam(key, value); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*s.Params = next
	return nil
}

// Energy is the current mechanical energy per unit mass.
func (s *Session) Energy() float64 {
	return physics.Energy(s.State.Theta, s.State.ThetaDot, s.State.PivotLength, s.Params.Gravity)
}

// Reset restores the configured params and initial placement.
func (s *Session) Reset() error {
	*s.Params = s.cfg.DynamoParams()
	*s.State = dynamo.State{}
	if err := s.place(); err != nil {
		return err
	}
	if s.Panel != nil {
		s.Panel = controls.ParamsPanel(s.Params)
		s.Panel.SetFPS(s.cfg.Display.FPS)
	}
	if s.Field.Stale() {
		if err := s.Field.Resample(); err != nil {
			return err
		}
	}
	log.Info("session reset")
	return nil
}
