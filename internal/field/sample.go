package field

import (
	"fmt"
	"math"

	"github.com/san-kum/phasependulum/internal/dynamo"
	"github.com/san-kum/phasependulum/internal/physics"
	"github.com/san-kum/phasependulum/internal/scene"
)

const (
	DefaultSpacing      = 50.0
	DefaultArrowLength  = 30.0
	DefaultDisplayScale = 10.0
	DefaultMarkerScale  = 100.0

	// Saturation and Lightness of every field arrow.
	Saturation = 1.0
	Lightness  = 0.6
)

// Sample is one grid cell of the field.
type Sample struct {
	Position  scene.Vec
	Theta     float64
	ThetaDot  float64
	Velocity  scene.Vec
	Magnitude float64
	Color     string
}

// Color maps a display velocity magnitude to an arrow colour. The hue is
// magnitude/10 degrees and wraps every 3600 units of magnitude.
func Color(magnitude float64) string {
	return scene.HSL(magnitude/10, Saturation, Lightness)
}

// CornerGrid walks the viewport corners: rows from one spacing below the
// top edge while above the bottom edge, columns from one spacing left of
// the left edge to one spacing past the right edge.
func CornerGrid(topLeft, bottomRight scene.Vec, spacing float64) ([]scene.Vec, error) {
	if !(spacing > 0) {
		return nil, fmt.Errorf("%w: spacing must be positive, got %f", dynamo.ErrParameterBounds, spacing)
	}
	var points []scene.Vec
	for y := topLeft.Y() - spacing; y > bottomRight.Y(); y -= spacing {
		for x := topLeft.X() - spacing; x < bottomRight.X()+spacing; x += spacing {
			points = append(points, scene.Vec{x, y})
		}
	}
	return points, nil
}

// ExtentGrid covers [-extent, extent] on both axes, inclusive.
func ExtentGrid(extent, spacing float64) ([]scene.Vec, error) {
	if !(spacing > 0) {
		return nil, fmt.Errorf("%w: spacing must be positive, got %f", dynamo.ErrParameterBounds, spacing)
	}
	n := int(math.Floor(extent/spacing + 1e-9))
	points := make([]scene.Vec, 0, (2*n+1)*(2*n+1))
	for j := n; j >= -n; j-- {
		for i := -n; i <= n; i++ {
			points = append(points, scene.Vec{float64(i) * spacing, float64(j) * spacing})
		}
	}
	return points, nil
}

// SampleAt evaluates the field at one display position.
func SampleAt(pos scene.Vec, length float64, p dynamo.Params, displayScale float64) (Sample, error) {
	theta := pos.X() * p.TimeStep
	thetaDot := pos.Y() * p.TimeStep

	a, err := physics.AngularAcceleration(theta, thetaDot, length, p)
	if err != nil {
		return Sample{}, fmt.Errorf("sample at %v: %w", pos, err)
	}

	vel := scene.Vec{thetaDot, a}.Mul(displayScale)
	mag := vel.Len()
	return Sample{
		Position:  pos,
		Theta:     theta,
		ThetaDot:  thetaDot,
		Velocity:  vel,
		Magnitude: mag,
		Color:     Color(mag),
	}, nil
}

// SampleAll evaluates every point. Points are split across workers; the
// result order matches the input.
func SampleAll(points []scene.Vec, length float64, p dynamo.Params, displayScale float64) ([]Sample, error) {
	if _, err := physics.AngularAcceleration(0, 0, length, p); err != nil {
		return nil, err
	}

	samples := make([]Sample, len(points))
	errs := make([]error, len(points))
	dynamo.ParallelFor(len(points), 64, func(start, end int) {
		for i := start; i < end; i++ {
			samples[i], errs[i] = SampleAt(points[i], length, p, displayScale)
		}
	})
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return samples, nil
}
