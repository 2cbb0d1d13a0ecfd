package viz

import (
	"math"

	"github.com/san-kum/phasependulum/internal/scene"
)

// GridSpacing is the background grid pitch in display units.
const GridSpacing = 50.0

// Rasterize draws the shapes of sc onto bc, scaling the viewport to the
// full sub-pixel area.
func Rasterize(bc *Canvas, sc *scene.Canvas, gridColor string) {
	w, h := float64(bc.SubWidth()), float64(bc.SubHeight())
	tr := sc.Transform(w, h)
	px := func(v scene.Vec) (int, int) {
		x, y := tr(v)
		return int(math.Round(x)), int(math.Round(y))
	}
	opts := sc.Options()
	scale := w / opts.Width

	if opts.DisplayGrid {
		topLeft, bottomRight := sc.Boundaries()
		for x := math.Ceil(topLeft.X()/GridSpacing) * GridSpacing; x <= bottomRight.X(); x += GridSpacing {
			gx, _ := px(scene.Vec{x, 0})
			for y := 0; y < bc.SubHeight(); y += 2 {
				bc.SetColor(gx, y, gridColor)
			}
		}
		for y := math.Ceil(bottomRight.Y()/GridSpacing) * GridSpacing; y <= topLeft.Y(); y += GridSpacing {
			_, gy := px(scene.Vec{0, y})
			for x := 0; x < bc.SubWidth(); x += 2 {
				bc.SetColor(x, gy, gridColor)
			}
		}
	}

	for _, shape := range sc.Shapes() {
		switch s := shape.(type) {
		case *scene.Arrow:
			x0, y0 := px(s.Origin)
			x1, y1 := px(s.Tip())
			bc.DrawLine(x0, y0, x1, y1, s.Color)
			if s.Display().Len()*scale >= 4 {
				l, r := s.Head(s.Display().Len() * 0.3)
				lx, ly := px(l)
				rx, ry := px(r)
				bc.DrawLine(lx, ly, x1, y1, s.Color)
				bc.DrawLine(rx, ry, x1, y1, s.Color)
			}
		case *scene.Circle:
			cx, cy := px(s.Position)
			r := int(math.Round(s.Radius * scale))
			bc.FillCircle(cx, cy, r, s.Color)
		}
	}
}

// ToDisplay maps the centre of a terminal cell, relative to the canvas
// origin, to display units of sc.
func ToDisplay(bc *Canvas, sc *scene.Canvas, col, row int) scene.Vec {
	inv := sc.Inverse(float64(bc.SubWidth()), float64(bc.SubHeight()))
	return inv(float64(col*2)+1, float64(row*4)+2)
}

// CellRadius is half the diagonal of one terminal cell in display units.
func CellRadius(bc *Canvas, sc *scene.Canvas) float64 {
	opts := sc.Options()
	return math.Hypot(opts.Width/float64(bc.Width), opts.Height/float64(bc.Height)) / 2
}
