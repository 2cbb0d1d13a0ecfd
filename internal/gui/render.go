package gui

import (
	"math"
	"strconv"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/phasependulum/internal/scene"
)

// GridSpacing is the background grid pitch in display units.
const GridSpacing = 50.0

// toColor converts a scene colour string, falling back to white.
func toColor(hex string) rl.Color {
	c, alpha, err := scene.ParseColor(hex)
	if err != nil {
		return rl.White
	}
	r, g, b := c.RGB255()
	return rl.NewColor(r, g, b, alpha)
}

// drawScene clips to v and draws every shape of c in insertion order.
func (a *App) drawScene(c *scene.Canvas, v Viewport) {
	opts := c.Options()
	rl.BeginScissorMode(int32(v.X), int32(v.Y), int32(v.W), int32(v.H))
	defer rl.EndScissorMode()

	rl.DrawRectangle(int32(v.X), int32(v.Y), int32(v.W), int32(v.H), toColor(opts.Background))
	if opts.DisplayGrid {
		a.drawGrid(c, v)
	}

	scale := float32(v.W / opts.Width)
	for _, shape := range c.Shapes() {
		switch s := shape.(type) {
		case *scene.Arrow:
			drawArrow(c, v, s, scale)
		case *scene.Circle:
			rl.DrawCircleV(v.ToScreen(c, s.Position), float32(s.Radius)*scale, toColor(s.Color))
		}
	}
	rl.DrawRectangleLines(int32(v.X), int32(v.Y), int32(v.W), int32(v.H), ColTextDim)
}

func (a *App) drawGrid(c *scene.Canvas, v Viewport) {
	opts := c.Options()
	topLeft, bottomRight := c.Boundaries()
	for x := ceilTo(topLeft.X(), GridSpacing); x <= bottomRight.X(); x += GridSpacing {
		p := v.ToScreen(c, scene.Vec{x, 0})
		rl.DrawLineV(rl.NewVector2(p.X, float32(v.Y)), rl.NewVector2(p.X, float32(v.Y+v.H)), ColGrid)
		if opts.DisplayNumbers {
			a.drawText(ftoa(x), int(p.X)+2, int(v.Y+v.H)-16, 12, ColTextDim)
		}
	}
	for y := ceilTo(bottomRight.Y(), GridSpacing); y <= topLeft.Y(); y += GridSpacing {
		p := v.ToScreen(c, scene.Vec{0, y})
		rl.DrawLineV(rl.NewVector2(float32(v.X), p.Y), rl.NewVector2(float32(v.X+v.W), p.Y), ColGrid)
		if opts.DisplayNumbers {
			a.drawText(ftoa(y), int(v.X)+2, int(p.Y)+2, 12, ColTextDim)
		}
	}
}

func drawArrow(c *scene.Canvas, v Viewport, s *scene.Arrow, scale float32) {
	col := toColor(s.Color)
	origin := v.ToScreen(c, s.Origin)
	tip := v.ToScreen(c, s.Tip())
	rl.DrawLineEx(origin, tip, 2, col)

	size := s.Display().Len() * 0.3
	if size > 0 {
		l, r := s.Head(size)
		rl.DrawTriangle(tip, v.ToScreen(c, l), v.ToScreen(c, r), col)
		// raylib culls clockwise triangles, so draw both windings.
		rl.DrawTriangle(tip, v.ToScreen(c, r), v.ToScreen(c, l), col)
	}
	if s.ShowOrigin {
		rl.DrawCircleV(origin, 1.5*scale, col)
	}
}

func ceilTo(v, step float64) float64 {
	return math.Ceil(v/step) * step
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
