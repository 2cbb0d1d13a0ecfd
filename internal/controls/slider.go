// Package controls provides the slider panel that edits simulation
// parameters while the frame loop runs.
package controls

import (
	"fmt"
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/san-kum/phasependulum/internal/dynamo"
)

// Slider is a ranged numeric input. Values snap to Origin + k·Step, so
// the starting value stays reachable even when Min is off its grid.
type Slider struct {
	Label   string
	Key     string
	Value   float64
	Origin  float64
	Min     float64
	Max     float64
	Step    float64
	OnInput func(float64)

	spring harmonica.Spring
	shown  float64
	vel    float64
}

func NewSlider(label, key string, value, lo, hi, step float64, onInput func(float64)) *Slider {
	return &Slider{
		Label:   label,
		Key:     key,
		Value:   value,
		Origin:  value,
		Min:     lo,
		Max:     hi,
		Step:    step,
		OnInput: onInput,
		spring:  harmonica.NewSpring(harmonica.FPS(60), 8.0, 1.0),
		shown:   value,
	}
}

// SetFPS retunes the display easing to the frame rate of the caller.
func (s *Slider) SetFPS(fps int) {
	if fps <= 0 {
		return
	}
	s.spring = harmonica.NewSpring(harmonica.FPS(fps), 8.0, 1.0)
}

// Set snaps v to the step grid, clamps it to [Min, Max] and fires
// OnInput. An input outside the range is still applied after clamping;
// the returned error wraps dynamo.ErrOutOfRange.
func (s *Slider) Set(v float64) error {
	if math.IsNaN(v) {
		return fmt.Errorf("%w: %s is NaN", dynamo.ErrOutOfRange, s.Key)
	}

	var err error
	if v < s.Min || v > s.Max {
		err = fmt.Errorf("%w: %s=%g not in [%g, %g]", dynamo.ErrOutOfRange, s.Key, v, s.Min, s.Max)
	}

	v = s.snap(v)
	v = math.Max(s.Min, math.Min(s.Max, v))
	s.Value = v
	if s.OnInput != nil {
		s.OnInput(v)
	}
	return err
}

// Nudge moves the value by a whole number of steps.
func (s *Slider) Nudge(steps int) error {
	return s.Set(s.Value + float64(steps)*s.Step)
}

// Fraction is the value's position within the range, in [0, 1].
func (s *Slider) Fraction() float64 {
	if s.Max <= s.Min {
		return 0
	}
	return (s.Value - s.Min) / (s.Max - s.Min)
}

// Tick advances the eased display value one frame towards Value.
func (s *Slider) Tick() {
	s.shown, s.vel = s.spring.Update(s.shown, s.vel, s.Value)
}

// Display is the eased value, for drawing the knob.
func (s *Slider) Display() float64 {
	return s.shown
}

// DisplayFraction is Fraction for the eased value.
func (s *Slider) DisplayFraction() float64 {
	if s.Max <= s.Min {
		return 0
	}
	return math.Max(0, math.Min(1, (s.shown-s.Min)/(s.Max-s.Min)))
}

func (s *Slider) String() string {
	return fmt.Sprintf("%s: %.3f [%.3f, %.3f]", s.Label, s.Value, s.Min, s.Max)
}

func (s *Slider) snap(v float64) float64 {
	if s.Step <= 0 {
		return v
	}
	k := math.Round((v - s.Origin) / s.Step)
	return s.Origin + k*s.Step
}
