package controls

import (
	"math"

	"github.com/san-kum/phasependulum/internal/dynamo"
	log "github.com/sirupsen/logrus"
)

// Range places a slider's bounds relative to the starting value.
type Range struct {
	Below float64 `yaml:"below" ini:"below"`
	Above float64 `yaml:"above" ini:"above"`
	Step  float64 `yaml:"step" ini:"step"`
}

var (
	DampingRange  = Range{Below: 5, Above: 5, Step: 0.1}
	GravityRange  = Range{Below: 20, Above: 20, Step: 1}
	TimeStepRange = Range{Below: 0.4, Above: 0.4, Step: 0.004}
)

// Panel is an ordered set of sliders with one selected at a time.
type Panel struct {
	Sliders []*Slider
	Color   string
	cursor  int
}

func NewPanel(sliders ...*Slider) *Panel {
	return &Panel{Sliders: sliders, Color: "#ffffffff"}
}

// ParamsPanel builds the damping, gravity and time-step sliders around
// the current values of p. Lower bounds never go below what
// p.Validate accepts.
func ParamsPanel(p *dynamo.Params) *Panel {
	bind := func(key string) func(float64) {
		return func(v float64) {
			if err := p.SetParam(key, v); err != nil {
				log.WithError(err).Warn("slider input dropped")
				return
			}
			log.WithFields(log.Fields{"param": key, "value": v}).Info("parameter changed")
		}
	}

	damping := NewSlider("Air resistance", "damping",
		p.Damping,
		math.Max(0, p.Damping-DampingRange.Below),
		p.Damping+DampingRange.Above,
		DampingRange.Step, bind("damping"))

	gravity := NewSlider("Gravity", "gravity",
		p.Gravity,
		p.Gravity-GravityRange.Below,
		p.Gravity+GravityRange.Above,
		GravityRange.Step, bind("gravity"))

	timeStep := NewSlider("Delta time", "time_step",
		p.TimeStep,
		math.Max(TimeStepRange.Step, p.TimeStep-TimeStepRange.Below),
		p.TimeStep+TimeStepRange.Above,
		TimeStepRange.Step, bind("time_step"))

	return NewPanel(damping, gravity, timeStep)
}

func (p *Panel) Selected() *Slider {
	if len(p.Sliders) == 0 {
		return nil
	}
	return p.Sliders[p.cursor]
}

func (p *Panel) Cursor() int { return p.cursor }

func (p *Panel) Next() {
	if len(p.Sliders) > 0 {
		p.cursor = (p.cursor + 1) % len(p.Sliders)
	}
}

func (p *Panel) Prev() {
	if len(p.Sliders) > 0 {
		p.cursor = (p.cursor - 1 + len(p.Sliders)) % len(p.Sliders)
	}
}

// Adjust nudges the selected slider.
func (p *Panel) Adjust(steps int) error {
	s := p.Selected()
	if s == nil {
		return nil
	}
	return s.Nudge(steps)
}

// Find returns the slider bound to key.
func (p *Panel) Find(key string) *Slider {
	for _, s := range p.Sliders {
		if s.Key == key {
			return s
		}
	}
	return nil
}

func (p *Panel) Tick() {
	for _, s := range p.Sliders {
		s.Tick()
	}
}

func (p *Panel) SetFPS(fps int) {
	for _, s := range p.Sliders {
		s.SetFPS(fps)
	}
}
