package export

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/san-kum/phasependulum/internal/field"
	"github.com/san-kum/phasependulum/internal/scene"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// arrowPlotter draws scene arrows in data coordinates.
type arrowPlotter struct {
	arrows []*scene.Arrow
	width  vg.Length
	head   float64
}

func rgba(c string) color.Color {
	col, alpha, err := scene.ParseColor(c)
	if err != nil {
		return color.Black
	}
	r, g, b := col.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}
}

func (a *arrowPlotter) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	for _, arrow := range a.arrows {
		sty := draw.LineStyle{Color: rgba(arrow.Color), Width: a.width}
		o, tip := arrow.Origin, arrow.Tip()
		c.StrokeLine2(sty, trX(o.X()), trY(o.Y()), trX(tip.X()), trY(tip.Y()))
		if arrow.Display().Len() == 0 {
			continue
		}
		l, r := arrow.Head(a.head)
		c.StrokeLine2(sty, trX(l.X()), trY(l.Y()), trX(tip.X()), trY(tip.Y()))
		c.StrokeLine2(sty, trX(r.X()), trY(r.Y()), trX(tip.X()), trY(tip.Y()))
	}
}

func (a *arrowPlotter) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, ymin = math.Inf(1), math.Inf(1)
	xmax, ymax = math.Inf(-1), math.Inf(-1)
	for _, arrow := range a.arrows {
		for _, p := range []scene.Vec{arrow.Origin, arrow.Tip()} {
			xmin, xmax = math.Min(xmin, p.X()), math.Max(xmax, p.X())
			ymin, ymax = math.Min(ymin, p.Y()), math.Max(ymax, p.Y())
		}
	}
	return xmin, xmax, ymin, ymax
}

// FieldPlot builds a plot of the sampled field with the live marker and an
// optional trail, all in display units.
func FieldPlot(v *field.View, trail []scene.Vec, title string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "θ / dt"
	p.Y.Label.Text = "θ̇ / dt"

	if v.Canvas().Options().DisplayGrid {
		p.Add(plotter.NewGrid())
	}

	p.Add(&arrowPlotter{arrows: v.Arrows(), width: vg.Points(0.8), head: 8})

	if len(trail) > 1 {
		pts := make(plotter.XYs, len(trail))
		for i, t := range trail {
			pts[i].X, pts[i].Y = t.X(), t.Y()
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		line.LineStyle.Color = color.Gray{Y: 128}
		line.LineStyle.Width = vg.Points(1)
		p.Add(line)
	}

	marker := *v.MarkerArrow
	marker.Color = "#000000ff"
	p.Add(&arrowPlotter{arrows: []*scene.Arrow{&marker}, width: vg.Points(1.5), head: 12})

	dot, err := plotter.NewScatter(plotter.XYs{{X: v.Marker.Position.X(), Y: v.Marker.Position.Y()}})
	if err != nil {
		return nil, err
	}
	dot.GlyphStyle.Shape = draw.CircleGlyph{}
	dot.GlyphStyle.Radius = vg.Points(v.Marker.Radius * 0.6)
	dot.GlyphStyle.Color = color.Black
	p.Add(dot)

	return p, nil
}

// WritePNG renders p at the given size and resolution.
func WritePNG(w io.Writer, p *plot.Plot, width, height vg.Length, dpi int) error {
	c := vgimg.NewWith(
		vgimg.UseWH(width, height),
		vgimg.UseDPI(dpi),
	)
	p.Draw(draw.New(c))

	bw := bufio.NewWriter(w)
	pngc := vgimg.PngCanvas{Canvas: c}
	if _, err := pngc.WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return bw.Flush()
}

// SaveFieldPNG writes the field plot to path, creating parent directories.
func SaveFieldPNG(path string, v *field.View, trail []scene.Vec) error {
	p, err := FieldPlot(v, trail, "Phase field")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()

	return WritePNG(f, p, 8*vg.Inch, 8*vg.Inch, 150)
}
