package pathfinding

import (
	"linkroute/geometry"
	"math"
)

// gridKey identifies a grid point by its coordinates scaled to integers at
// the router precision.
type gridKey struct {
	X, Y int64
}

func keyOf(p geometry.Point, precision int) gridKey {
	return gridKey{X: geometry.Quantize(p.X, precision), Y: geometry.Quantize(p.Y, precision)}
}

// grid is the search lattice of one segment. Its spacing is stretched per
// axis so that a whole number of steps spans the distance between the
// source and target anchors, and it is anchored at the source.
type grid struct {
	source geometry.Point
	x, y   float64
}

func newGrid(step float64, source, target geometry.Point) grid {
	return grid{
		source: source,
		x:      gridDimension(target.X-source.X, step),
		y:      gridDimension(target.Y-source.Y, step),
	}
}

// gridDimension returns the spacing closest to step that divides diff into
// whole steps.
func gridDimension(diff, step float64) float64 {
	if diff == 0 {
		return step
	}
	abs := math.Abs(diff)
	n := math.Round(abs / step)
	if n == 0 {
		return abs
	}
	return step + (abs-n*step)/n
}

// snap moves p to the nearest grid point.
func (g grid) snap(p geometry.Point) geometry.Point {
	return geometry.Pt(
		geometry.SnapToGrid(p.X-g.source.X, g.x)+g.source.X,
		geometry.SnapToGrid(p.Y-g.source.Y, g.y)+g.source.Y,
	)
}

// align snaps p and rounds it to precision so that equal grid points always
// produce equal keys.
func (g grid) align(p geometry.Point, precision int) geometry.Point {
	return g.snap(p).Round(precision)
}

// neighbor is a move to an adjacent grid point.
type neighbor struct {
	dx, dy float64 // unit offset
	angle  float64 // heading of the move in degrees
}

// neighbors lists the four moves in the order they are tried.
var neighbors = [4]neighbor{
	{dx: 1, dy: 0, angle: 0},
	{dx: -1, dy: 0, angle: 180},
	{dx: 0, dy: 1, angle: 270},
	{dx: 0, dy: -1, angle: 90},
}

// directionAngle quantises the heading from start to end to a multiple of
// 90 degrees, after undoing the stretch of the grid so that a move of one
// cell reads as exactly horizontal or vertical.
func directionAngle(start, end geometry.Point, g grid, step float64) float64 {
	const quadrant = 360.0 / 4
	fixed := geometry.Pt(
		start.X+fixAxis(end.X-start.X, g.x, step),
		start.Y+fixAxis(end.Y-start.Y, g.y, step),
	)
	theta := start.Theta(fixed)
	return quadrant * math.Floor(geometry.NormalizeAngle(theta+quadrant/2)/quadrant)
}

func fixAxis(diff, gridSize, step float64) float64 {
	return (diff / gridSize) * step
}

// directionChange returns the unsigned turn between two headings, 0..180.
func directionChange(a, b float64) float64 {
	d := math.Abs(a - b)
	if d > 180 {
		return 360 - d
	}
	return d
}
