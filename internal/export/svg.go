// Package export renders stored runs to files outside the terminal.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/xrgrab/internal/storage"
)

var palette = []string{"#00ffff", "#ff00ff", "#ffaa00", "#00ff88", "#ff4444", "#8888ff"}

// Paths lists the prefixes of every x/y column pair in the table, in column
// order.
func Paths(table *storage.FrameTable) []string {
	var out []string
	for _, c := range table.Columns {
		p, ok := strings.CutSuffix(c, "_x")
		if !ok {
			continue
		}
		if _, ok := table.Column(p + "_y"); ok {
			out = append(out, p)
		}
	}
	return out
}

// TrajectorySVG draws each named path in the x/y plane as a polyline, with
// the ground line at y = 0 when it is in view.
func TrajectorySVG(w io.Writer, table *storage.FrameTable, names []string, width, height int) error {
	if len(names) == 0 {
		return fmt.Errorf("export: no paths to draw")
	}

	xs := make([][]float64, len(names))
	ys := make([][]float64, len(names))
	minX, maxX, minY, maxY := 0.0, 0.0, 0.0, 0.0
	first := true
	for i, name := range names {
		x, okX := table.Column(name + "_x")
		y, okY := table.Column(name + "_y")
		if !okX || !okY {
			return fmt.Errorf("export: unknown path %q", name)
		}
		xs[i], ys[i] = x, y
		for j := range x {
			if first {
				minX, maxX, minY, maxY = x[j], x[j], y[j], y[j]
				first = false
			}
			minX, maxX = min(minX, x[j]), max(maxX, x[j])
			minY, maxY = min(minY, y[j]), max(maxY, y[j])
		}
	}

	const margin = 20.0
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	sx := (float64(width) - 2*margin) / rangeX
	sy := (float64(height) - 2*margin) / rangeY
	project := func(x, y float64) (float64, float64) {
		return margin + (x-minX)*sx, float64(height) - margin - (y-minY)*sy
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	if minY <= 0 && maxY >= 0 {
		x0, gy := project(minX, 0)
		x1, _ := project(maxX, 0)
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#444466" stroke-dasharray="4 4"/>
`, x0, gy, x1, gy)
	}

	for i, name := range names {
		color := palette[i%len(palette)]
		fmt.Fprintf(&sb, `<polyline fill="none" stroke="%s" stroke-width="1.5" points="`, color)
		for j := range xs[i] {
			px, py := project(xs[i][j], ys[i][j])
			fmt.Fprintf(&sb, "%.1f,%.1f ", px, py)
		}
		sb.WriteString("\"/>\n")
		lx, ly := project(xs[i][0], ys[i][0])
		fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" fill="%s" font-family="monospace" font-size="10">%s</text>
`, lx+4, ly-4, color, name)
	}
	sb.WriteString("</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}
