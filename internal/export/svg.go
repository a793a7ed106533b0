// Package export renders worlds and stat series to standalone SVG files.
package export

import (
	"fmt"
	"strings"

	"github.com/sbrunel/cytomech/internal/mech"
	"github.com/sbrunel/cytomech/internal/sim"
)

// WorldSVG renders an XY projection of the world: membranes as circles,
// cell-cell connections as lines. The viewport is fitted to the population
// with a small margin.
func WorldSVG(w *sim.World, width, height int) string {
	cells := w.Cells()
	if len(cells) == 0 {
		return ""
	}

	minX, maxX := cells[0].Position.X, cells[0].Position.X
	minY, maxY := cells[0].Position.Y, cells[0].Position.Y
	for _, c := range cells {
		r := c.Membrane.BoundingRadius()
		minX = min(minX, c.Position.X-r)
		maxX = max(maxX, c.Position.X+r)
		minY = min(minY, c.Position.Y-r)
		maxY = max(maxY, c.Position.Y+r)
	}

	spanX := maxX - minX
	spanY := maxY - minY
	if spanX == 0 {
		spanX = 1
	}
	if spanY == 0 {
		spanY = 1
	}
	minX -= spanX * 0.05
	minY -= spanY * 0.05
	spanX *= 1.1
	spanY *= 1.1

	scale := min(float64(width)/spanX, float64(height)/spanY)
	toX := func(x float64) float64 { return (x - minX) * scale }
	toY := func(y float64) float64 { return float64(height) - (y-minY)*scale }

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	sb.WriteString(`<g stroke="#3a6ea5" stroke-width="1">` + "\n")
	w.Manager().ForEach(func(_ mech.Handle, con *mech.CellCellConnection) {
		p0, p1 := con.Cells[0].Position, con.Cells[1].Position
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n",
			toX(p0.X), toY(p0.Y), toX(p1.X), toY(p1.Y)))
	})
	sb.WriteString("</g>\n")

	sb.WriteString(`<g fill="none" stroke="#00ff88" stroke-width="1.5">` + "\n")
	for _, c := range cells {
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n",
			toX(c.Position.X), toY(c.Position.Y), c.Membrane.BoundingRadius()*scale))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SeriesSVG renders a stat series as a polyline over time.
func SeriesSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minV, maxV := values[0], values[0]
	for _, v := range values {
		minV = min(minV, v)
		maxV = max(maxV, v)
	}
	spanV := maxV - minV
	if spanV == 0 {
		spanV = 1
	}
	minV -= spanV * 0.1
	spanV *= 1.2

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, v := range values {
		x := float64(i) / float64(len(values)-1) * float64(width)
		y := float64(height) - (v-minV)/spanV*float64(height)
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

// StepsSVG renders the connection-count series of a saved run.
func StepsSVG(steps []sim.StepStats, width, height int) string {
	values := make([]float64, len(steps))
	for i, s := range steps {
		values[i] = float64(s.Connections)
	}
	return SeriesSVG(values, width, height, "#00ff88")
}
