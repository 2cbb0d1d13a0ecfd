package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/phasependulum/internal/dynamo"
	"github.com/san-kum/phasependulum/internal/integrators"
	"github.com/san-kum/phasependulum/internal/physics"
)

// Point is a phase-space coordinate (θ, θ̇).
type Point struct{ X, Y float64 }

// PhasePortrait2D is a sampled trajectory in (θ, θ̇).
type PhasePortrait2D struct {
	Points []Point
}

// GeneratePhasePortrait steps x0 for the given number of frames with the
// same per-frame update the live pendulum uses and records (θ, θ̇).
func GeneratePhasePortrait(x0 dynamo.State, p dynamo.Params, frames int) (*PhasePortrait2D, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if frames < 0 {
		return nil, fmt.Errorf("%w: frames must be non-negative, got %d", dynamo.ErrParameterBounds, frames)
	}

	portrait := &PhasePortrait2D{
		Points: make([]Point, 0, frames),
	}

	step := integrators.NewSemiImplicitEuler()
	acc := physics.Acceleration(x0.PivotLength, &p)
	x := x0
	for i := 0; i < frames; i++ {
		next, err := step.Step(acc, x, p.TimeStep)
		if err != nil {
			return nil, &dynamo.SimulationError{Frame: i, State: x, Wrapped: err}
		}
		x = next
		portrait.Points = append(portrait.Points, Point{X: x.Theta, Y: x.ThetaDot})
	}

	return portrait, nil
}

// Thetas returns the angle series.
func (p *PhasePortrait2D) Thetas() []float64 {
	out := make([]float64, len(p.Points))
	for i, pt := range p.Points {
		out[i] = pt.X
	}
	return out
}

// TurningPoints returns the portrait points where θ̇ changes sign, which
// are the swing extremes.
func TurningPoints(portrait *PhasePortrait2D) []Point {
	if portrait == nil {
		return nil
	}
	var out []Point
	for i := 1; i < len(portrait.Points); i++ {
		prev, curr := portrait.Points[i-1].Y, portrait.Points[i].Y
		if (prev > 0 && curr <= 0) || (prev < 0 && curr >= 0) {
			out = append(out, portrait.Points[i])
		}
	}
	return out
}

// Bounds returns the portrait's extent padded by a tenth of its range on
// each side. A flat axis gets a unit range.
func (p *PhasePortrait2D) Bounds() (lo, hi Point) {
	lo, hi = p.Points[0], p.Points[0]
	for _, pt := range p.Points[1:] {
		lo = Point{math.Min(lo.X, pt.X), math.Min(lo.Y, pt.Y)}
		hi = Point{math.Max(hi.X, pt.X), math.Max(hi.Y, pt.Y)}
	}
	pad := func(a, b float64) (float64, float64) {
		r := b - a
		if r == 0 {
			r = 1
		}
		return a - r*0.1, b + r*0.1
	}
	lo.X, hi.X = pad(lo.X, hi.X)
	lo.Y, hi.Y = pad(lo.Y, hi.Y)
	return lo, hi
}

// PhasePortraitToASCII plots θ across and θ̇ up. The first point is drawn
// as 'o', the rest as '•', and the axes fill whatever cells stay blank.
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	lo, hi := portrait.Bounds()
	cell := func(pt Point) (int, int) {
		col := int((pt.X - lo.X) / (hi.X - lo.X) * float64(width-1))
		row := height - 1 - int((pt.Y-lo.Y)/(hi.Y-lo.Y)*float64(height-1))
		return col, row
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}
	for _, pt := range portrait.Points {
		if col, row := cell(pt); row >= 0 && row < height && col >= 0 && col < width {
			grid[row][col] = '•'
		}
	}
	col0, row0 := cell(portrait.Points[0])
	grid[row0][col0] = 'o'

	axisCol, axisRow := cell(Point{})
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			if grid[row][col] != ' ' {
				continue
			}
			switch {
			case col == axisCol && lo.X <= 0 && hi.X >= 0:
				grid[row][col] = '│'
			case row == axisRow && lo.Y <= 0 && hi.Y >= 0:
				grid[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(string(row))
		sb.WriteByte('\n')
	}
	return sb.String()
}
