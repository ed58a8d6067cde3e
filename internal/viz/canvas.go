package viz

import (
	"strings"

	"github.com/go-gl/mathgl/mgl64"
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

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights a dot at sub-pixel (x, y). The canvas is Width*2 by Height*4
// dots.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
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
		c.Set(x0, y0)
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

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Viewport maps the world's x/y plane onto a canvas. Z is dropped.
type Viewport struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// DefaultViewport covers the hand's reach and a crate two metres out.
func DefaultViewport() Viewport {
	return Viewport{MinX: -1, MaxX: 3, MinY: -0.1, MaxY: 1.9}
}

func (v Viewport) project(c *Canvas, p mgl64.Vec3) (int, int) {
	w := float64(c.Width*2 - 1)
	h := float64(c.Height*4 - 1)
	x := (p[0] - v.MinX) / (v.MaxX - v.MinX) * w
	y := (v.MaxY - p[1]) / (v.MaxY - v.MinY) * h
	return int(x + 0.5), int(y + 0.5)
}

// Box outlines an axis-aligned box around center.
func (v Viewport) Box(c *Canvas, center, half mgl64.Vec3) {
	x0, y0 := v.project(c, center.Sub(half))
	x1, y1 := v.project(c, center.Add(half))
	c.DrawLine(x0, y0, x1, y0)
	c.DrawLine(x1, y0, x1, y1)
	c.DrawLine(x1, y1, x0, y1)
	c.DrawLine(x0, y1, x0, y0)
}

// Cross marks a point with a small plus sign.
func (v Viewport) Cross(c *Canvas, p mgl64.Vec3) {
	x, y := v.project(c, p)
	c.DrawLine(x-2, y, x+2, y)
	c.DrawLine(x, y-2, x, y+2)
}

// Ground draws the y = 0 line across the canvas.
func (v Viewport) Ground(c *Canvas) {
	_, y := v.project(c, mgl64.Vec3{})
	c.DrawLine(0, y, c.Width*2-1, y)
}

// Path joins consecutive points with lines.
func (v Viewport) Path(c *Canvas, pts []mgl64.Vec3) {
	for i := 1; i < len(pts); i++ {
		x0, y0 := v.project(c, pts[i-1])
		x1, y1 := v.project(c, pts[i])
		c.DrawLine(x0, y0, x1, y1)
	}
}
