// Package export renders scenes and trajectories to static files.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/phasependulum/internal/analysis"
	"github.com/san-kum/phasependulum/internal/scene"
)

// GridSpacing is the distance between background grid lines, in display units.
const GridSpacing = 50.0

// svgColor splits #rrggbbaa into an SVG colour and opacity.
func svgColor(c string) (string, float64) {
	col, alpha, err := scene.ParseColor(c)
	if err != nil {
		return c, 1
	}
	return col.Hex(), float64(alpha) / 255
}

// CanvasToSVG draws every shape on c into a width x height SVG. The trail,
// in display units, is drawn as a polyline under the shapes.
func CanvasToSVG(c *scene.Canvas, width, height int, trail []scene.Vec) string {
	if c == nil || width <= 0 || height <= 0 {
		return ""
	}
	opts := c.Options()
	tr := c.Transform(float64(width), float64(height))
	bg, _ := svgColor(opts.Background)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, bg))

	if opts.DisplayGrid {
		writeGrid(&sb, c, tr)
	}

	if len(trail) > 1 {
		sb.WriteString(`<path fill="none" stroke="#808080" stroke-width="1" d="M`)
		for i, p := range trail {
			x, y := tr(p)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sx := float64(width) / opts.Width
	for _, shape := range c.Shapes() {
		switch s := shape.(type) {
		case *scene.Arrow:
			writeArrow(&sb, s, tr)
		case *scene.Circle:
			fill, op := svgColor(s.Color)
			x, y := tr(s.Position)
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" fill-opacity="%.2f"/>
`, x, y, s.Radius*sx, fill, op))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func writeGrid(sb *strings.Builder, c *scene.Canvas, tr func(scene.Vec) (float64, float64)) {
	topLeft, bottomRight := c.Boundaries()
	sb.WriteString(`<g stroke="#303030" stroke-width="0.5">` + "\n")
	for x := math.Ceil(topLeft.X()/GridSpacing) * GridSpacing; x <= bottomRight.X(); x += GridSpacing {
		x0, y0 := tr(scene.Vec{x, topLeft.Y()})
		x1, y1 := tr(scene.Vec{x, bottomRight.Y()})
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", x0, y0, x1, y1))
	}
	for y := math.Ceil(bottomRight.Y()/GridSpacing) * GridSpacing; y <= topLeft.Y(); y += GridSpacing {
		x0, y0 := tr(scene.Vec{topLeft.X(), y})
		x1, y1 := tr(scene.Vec{bottomRight.X(), y})
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", x0, y0, x1, y1))
	}
	sb.WriteString("</g>\n")
}

func writeArrow(sb *strings.Builder, a *scene.Arrow, tr func(scene.Vec) (float64, float64)) {
	stroke, op := svgColor(a.Color)
	x0, y0 := tr(a.Origin)
	x1, y1 := tr(a.Tip())
	sb.WriteString(fmt.Sprintf(`<g stroke="%s" stroke-opacity="%.2f" stroke-width="1.5">`, stroke, op))
	sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`, x0, y0, x1, y1))
	if a.Display().Len() > 0 {
		l, r := a.Head(8)
		lx, ly := tr(l)
		rx, ry := tr(r)
		sb.WriteString(fmt.Sprintf(`<polyline fill="none" points="%.1f,%.1f %.1f,%.1f %.1f,%.1f"/>`, lx, ly, x1, y1, rx, ry))
	}
	sb.WriteString("</g>\n")
	if a.ShowOrigin {
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="1.5" fill="%s" fill-opacity="%.2f"/>
`, x0, y0, stroke, op))
	}
}

// Trail maps phase points to display units, the way the field marker is
// placed.
func Trail(points []analysis.Point, scale float64) []scene.Vec {
	out := make([]scene.Vec, len(points))
	for i, p := range points {
		out[i] = scene.Vec{p.X * scale, p.Y * scale}
	}
	return out
}

// TrajectoryToSVG creates an SVG from a phase portrait
func TrajectoryToSVG(points []analysis.Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	// Find bounds
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
