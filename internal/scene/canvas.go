package scene

import "math"

// Options configures a Canvas the way a drawing context is configured.
type Options struct {
	Background      string
	DisplayNumbers  bool
	DisplayGrid     bool
	EnableMouseMove bool
	Width, Height   float64
}

// Canvas is a viewport of Width x Height display units centred on the
// origin, shifted by Offset when panning is enabled.
type Canvas struct {
	opts   Options
	shapes []Shape
	offset Vec
}

func NewCanvas(opts Options) *Canvas {
	if opts.Width <= 0 {
		opts.Width = 600
	}
	if opts.Height <= 0 {
		opts.Height = 600
	}
	if opts.Background == "" {
		opts.Background = "#000000"
	}
	return &Canvas{opts: opts, shapes: make([]Shape, 0, 64)}
}

func (c *Canvas) Options() Options { return c.opts }
func (c *Canvas) Shapes() []Shape  { return c.shapes }
func (c *Canvas) Offset() Vec      { return c.offset }

func (c *Canvas) AddShape(s Shape) {
	c.shapes = append(c.shapes, s)
}

func (c *Canvas) AddShapes(shapes ...Shape) {
	c.shapes = append(c.shapes, shapes...)
}

// Boundaries returns the visible top-left and bottom-right corners.
func (c *Canvas) Boundaries() (topLeft, bottomRight Vec) {
	hw, hh := c.opts.Width/2, c.opts.Height/2
	topLeft = Vec{-hw, hh}.Add(c.offset)
	bottomRight = Vec{hw, -hh}.Add(c.offset)
	return topLeft, bottomRight
}

// Max returns the symmetric half extent of the viewport.
func (c *Canvas) Max() float64 {
	return math.Max(c.opts.Width, c.opts.Height) / 2
}

// Pan shifts the viewport. It is a no-op unless EnableMouseMove is set.
func (c *Canvas) Pan(delta Vec) {
	if !c.opts.EnableMouseMove {
		return
	}
	c.offset = c.offset.Add(delta)
}

func (c *Canvas) ResetView() {
	c.offset = Vec{}
}

// HitTest returns the topmost draggable circle under p.
func (c *Canvas) HitTest(p Vec, slack float64) *Circle {
	for i := len(c.shapes) - 1; i >= 0; i-- {
		if circle, ok := c.shapes[i].(*Circle); ok && circle.Draggable && circle.Contains(p, slack) {
			return circle
		}
	}
	return nil
}

// Transform maps display units to a pixel grid of w x h with y down.
func (c *Canvas) Transform(w, h float64) func(Vec) (float64, float64) {
	topLeft, _ := c.Boundaries()
	sx, sy := w/c.opts.Width, h/c.opts.Height
	return func(v Vec) (float64, float64) {
		return (v.X() - topLeft.X()) * sx, (topLeft.Y() - v.Y()) * sy
	}
}

// Inverse maps a pixel position on a w x h grid back to display units.
func (c *Canvas) Inverse(w, h float64) func(px, py float64) Vec {
	topLeft, _ := c.Boundaries()
	sx, sy := c.opts.Width/w, c.opts.Height/h
	return func(px, py float64) Vec {
		return Vec{topLeft.X() + px*sx, topLeft.Y() - py*sy}
	}
}
