package obstacles

import (
	"linkroute/core"
	"linkroute/geometry"
	"math"
)

// DefaultCellSize is the side of the square cells the map is bucketed into.
const DefaultCellSize = 100

type cellKey struct {
	X, Y int64
}

// Map answers whether a point lies inside any obstacle. Obstacles are
// bucketed into a uniform grid so a query only inspects the rectangles
// registered in the point's cell.
type Map struct {
	cellSize  float64
	cells     map[cellKey][]geometry.Rect
	obstacles []geometry.Rect
}

// NewMap returns an empty map. A non-positive cellSize selects
// DefaultCellSize.
func NewMap(cellSize float64) *Map {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &Map{
		cellSize: cellSize,
		cells:    make(map[cellKey][]geometry.Rect),
	}
}

// Build creates a map from the shapes that are not excluded. Every bounding
// box is moved and expanded by paddingBox before insertion.
func Build(shapes []core.Shape, ex Exclusions, paddingBox geometry.Rect, cellSize float64) *Map {
	m := NewMap(cellSize)
	for _, shape := range shapes {
		if ex.Excludes(shape) {
			continue
		}
		m.Add(shape.BBox.MoveAndExpand(paddingBox))
	}
	return m
}

// Add registers an obstacle in every cell its rectangle overlaps. Rectangles
// with zero area never block and are ignored.
func (m *Map) Add(r geometry.Rect) {
	r = r.Normalize()
	if r.Empty() {
		return
	}
	m.obstacles = append(m.obstacles, r)

	origin := r.Origin().SnapToGrid(m.cellSize, m.cellSize)
	corner := r.Corner().SnapToGrid(m.cellSize, m.cellSize)
	for x := origin.X; x <= corner.X; x += m.cellSize {
		for y := origin.Y; y <= corner.Y; y += m.cellSize {
			key := m.key(x, y)
			m.cells[key] = append(m.cells[key], r)
		}
	}
}

func (m *Map) key(x, y float64) cellKey {
	return cellKey{X: int64(math.Round(x / m.cellSize)), Y: int64(math.Round(y / m.cellSize))}
}

// IsAccessible reports whether p lies outside every obstacle. A point in a
// cell without obstacles is always accessible.
func (m *Map) IsAccessible(p geometry.Point) bool {
	snapped := p.SnapToGrid(m.cellSize, m.cellSize)
	for _, r := range m.cells[m.key(snapped.X, snapped.Y)] {
		if r.ContainsPoint(p) {
			return false
		}
	}
	return true
}

// IsObstacle is the negation of IsAccessible, shaped to be used as an
// obstacle checker.
func (m *Map) IsObstacle(p geometry.Point) bool {
	return !m.IsAccessible(p)
}

// Obstacles returns the registered rectangles in insertion order.
func (m *Map) Obstacles() []geometry.Rect {
	return m.obstacles
}

// Len returns the number of registered obstacles.
func (m *Map) Len() int {
	return len(m.obstacles)
}

// CellSize returns the bucket size.
func (m *Map) CellSize() float64 {
	return m.cellSize
}
