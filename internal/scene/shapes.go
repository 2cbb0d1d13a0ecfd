package scene

import "github.com/go-gl/mathgl/mgl64"

// Vec is a 2D vector in display units.
type Vec = mgl64.Vec2

// Shape is anything a Canvas can hold. Renderers type-switch on the
// concrete *Circle and *Arrow types.
type Shape interface {
	shape()
}

type Circle struct {
	Position  Vec
	Radius    float64
	Color     string
	Draggable bool
}

func NewCircle(position Vec, radius float64, color string) *Circle {
	return &Circle{Position: position, Radius: radius, Color: color}
}

func (c *Circle) shape() {}

// Contains reports whether p lies within the radius plus slack.
func (c *Circle) Contains(p Vec, slack float64) bool {
	return p.Sub(c.Position).Len() <= c.Radius+slack
}

// Arrow is a vector drawn from Origin. With UnitScale set, the drawn
// length is UnitScaleFactor regardless of the vector's magnitude.
type Arrow struct {
	Origin          Vec
	Vector          Vec
	Color           string
	ShowOrigin      bool
	UnitScale       bool
	UnitScaleFactor float64
}

func NewArrow(origin, vector Vec, color string) *Arrow {
	return &Arrow{Origin: origin, Vector: vector, Color: color, ShowOrigin: true, UnitScaleFactor: 1}
}

func (a *Arrow) shape() {}

// Display returns the vector as it is drawn.
func (a *Arrow) Display() Vec {
	if !a.UnitScale {
		return a.Vector
	}
	l := a.Vector.Len()
	if l == 0 {
		return Vec{}
	}
	return a.Vector.Mul(a.UnitScaleFactor / l)
}

func (a *Arrow) Tip() Vec {
	return a.Origin.Add(a.Display())
}

// Head returns the two barb end points of the arrow head.
func (a *Arrow) Head(size float64) (Vec, Vec) {
	d := a.Display()
	l := d.Len()
	if l == 0 {
		return a.Origin, a.Origin
	}
	if size > l/2 {
		size = l / 2
	}
	back := d.Mul(-size / l)
	perp := Vec{-back.Y(), back.X()}.Mul(0.5)
	tip := a.Origin.Add(d)
	return tip.Add(back).Add(perp), tip.Add(back).Sub(perp)
}
