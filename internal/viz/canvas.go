package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a braille canvas with one foreground colour per cell; the
// last colour written to a cell wins.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]string
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Colors: make([][]string, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]string, w)
	}
	c.Clear()
	return c
}

// SubWidth and SubHeight are the canvas size in sub-pixels.
func (c *Canvas) SubWidth() int  { return c.Width * 2 }
func (c *Canvas) SubHeight() int { return c.Height * 4 }

// Set sets a pixel at (x, y) in sub-pixel coordinates.
func (c *Canvas) Set(x, y int) {
	c.SetColor(x, y, "")
}

// SetColor sets a pixel and colours its cell. An empty colour keeps the
// cell's current colour.
func (c *Canvas) SetColor(x, y int, color string) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	if color != "" {
		c.Colors[row][col] = color
	}
}

// IsSet reports whether the sub-pixel is lit.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Colors[i][j] = ""
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, color string) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.SetColor(x0, y0, color)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// FillCircle lights every sub-pixel within r of (cx, cy).
func (c *Canvas) FillCircle(cx, cy, r int, color string) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				c.SetColor(cx+dx, cy+dy, color)
			}
		}
	}
}

// String renders the canvas without colour.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render renders the canvas with each run of same-coloured cells wrapped
// in one lipgloss style. Uncoloured cells use fallback.
func (c *Canvas) Render(fallback lipgloss.Color) string {
	var b strings.Builder
	for i, row := range c.Grid {
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && c.Colors[i][j] == c.Colors[i][start] {
				continue
			}
			color := fallback
			if hex := c.Colors[i][start]; hex != "" {
				color = lipgloss.Color(trimAlpha(hex))
			}
			b.WriteString(lipgloss.NewStyle().Foreground(color).Render(string(row[start:j])))
			start = j
		}
		if i < len(c.Grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// trimAlpha drops the alpha byte of #rrggbbaa; terminals have no alpha.
func trimAlpha(hex string) string {
	if len(hex) == 9 {
		return hex[:7]
	}
	return hex
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
