package obstacles

import (
	"fmt"
	"linkroute/geometry"
	"math"
	"strings"
)

// DebugVisualizer renders an obstacle map as a character grid sampled
// every Step scene units, the way the router's search sees it.
type DebugVisualizer struct {
	Step float64
}

// VisualizeMap samples m over bounds. Blocked samples are '█', free ones
// '·'. Each mark replaces the sample nearest to its point; marks outside
// bounds are dropped.
func (dv *DebugVisualizer) VisualizeMap(m *Map, bounds geometry.Rect, marks map[geometry.Point]rune) string {
	step := dv.Step
	if step <= 0 {
		step = 10
	}
	bounds = bounds.Normalize()
	cols := int(math.Floor(bounds.Width/step)) + 1
	rows := int(math.Floor(bounds.Height/step)) + 1

	grid := make([][]rune, rows)
	for r := range grid {
		grid[r] = make([]rune, cols)
		for c := range grid[r] {
			p := geometry.Pt(bounds.X+float64(c)*step, bounds.Y+float64(r)*step)
			if m.IsAccessible(p) {
				grid[r][c] = '·'
			} else {
				grid[r][c] = '█'
			}
		}
	}

	for p, char := range marks {
		c := int(math.Round((p.X - bounds.X) / step))
		r := int(math.Round((p.Y - bounds.Y) / step))
		if r >= 0 && r < rows && c >= 0 && c < cols {
			grid[r][c] = char
		}
	}

	var result strings.Builder
	for _, row := range grid {
		result.WriteString(string(row))
		result.WriteString("\n")
	}
	return result.String()
}

// GetLegend returns a legend explaining the visualization symbols
func (dv *DebugVisualizer) GetLegend() string {
	legend := []string{
		"Obstacle Visualization Legend:",
		"  █ - Blocked sample (inside a padded obstacle)",
		"  · - Free sample",
		"  S - Source anchor",
		"  T - Target anchor",
		"  o - Route bend",
	}
	return strings.Join(legend, "\n")
}

// ExportObstacleData lists the obstacles of m for external visualization.
func ExportObstacleData(m *Map) string {
	var result strings.Builder

	result.WriteString(fmt.Sprintf("# Obstacles (cell size %g)\n", m.CellSize()))
	for i, r := range m.Obstacles() {
		result.WriteString(fmt.Sprintf("Obstacle %d: origin=(%g,%g) size=%gx%g\n",
			i, r.X, r.Y, r.Width, r.Height))
	}
	return result.String()
}
