package geometry

import (
	"fmt"
	"math"
)

// Side names one side of a rectangle.
type Side int

const (
	Left Side = iota
	Right
	Top
	Bottom
)

// String returns the lower-case side name.
func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	default:
		return "unknown"
	}
}

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// R is shorthand for Rect{X: x, Y: y, Width: w, Height: h}.
func R(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// PointRect returns the zero-size rectangle at p.
func PointRect(p Point) Rect {
	return Rect{X: p.X, Y: p.Y}
}

// UnionRects returns the smallest rectangle containing every rect. The second
// result is false when no rects are given.
func UnionRects(rects ...Rect) (Rect, bool) {
	if len(rects) == 0 {
		return Rect{}, false
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, r := range rects {
		minX = math.Min(minX, r.X)
		minY = math.Min(minY, r.Y)
		maxX = math.Max(maxX, r.X+r.Width)
		maxY = math.Max(maxY, r.Y+r.Height)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

// Corner returns the bottom-right corner.
func (r Rect) Corner() Point { return Point{X: r.X + r.Width, Y: r.Y + r.Height} }

// TopLeft returns the top-left corner.
func (r Rect) TopLeft() Point { return r.Origin() }

// TopRight returns the top-right corner.
func (r Rect) TopRight() Point { return Point{X: r.X + r.Width, Y: r.Y} }

// BottomLeft returns the bottom-left corner.
func (r Rect) BottomLeft() Point { return Point{X: r.X, Y: r.Y + r.Height} }

// BottomRight returns the bottom-right corner.
func (r Rect) BottomRight() Point { return r.Corner() }

// Center returns the centre point.
func (r Rect) Center() Point { return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2} }

// TopMiddle returns the middle of the top side.
func (r Rect) TopMiddle() Point { return Point{X: r.X + r.Width/2, Y: r.Y} }

// RightMiddle returns the middle of the right side.
func (r Rect) RightMiddle() Point { return Point{X: r.X + r.Width, Y: r.Y + r.Height/2} }

// BottomMiddle returns the middle of the bottom side.
func (r Rect) BottomMiddle() Point { return Point{X: r.X + r.Width/2, Y: r.Y + r.Height} }

// LeftMiddle returns the middle of the left side.
func (r Rect) LeftMiddle() Point { return Point{X: r.X, Y: r.Y + r.Height/2} }

// TopLine returns the top side, left to right.
func (r Rect) TopLine() Line { return Line{Start: r.TopLeft(), End: r.TopRight()} }

// RightLine returns the right side, top to bottom.
func (r Rect) RightLine() Line { return Line{Start: r.TopRight(), End: r.BottomRight()} }

// BottomLine returns the bottom side, left to right.
func (r Rect) BottomLine() Line { return Line{Start: r.BottomLeft(), End: r.BottomRight()} }

// LeftLine returns the left side, top to bottom.
func (r Rect) LeftLine() Line { return Line{Start: r.TopLeft(), End: r.BottomLeft()} }

// SideLines returns the four sides in top, right, bottom, left order.
func (r Rect) SideLines() [4]Line {
	return [4]Line{r.TopLine(), r.RightLine(), r.BottomLine(), r.LeftLine()}
}

// Area returns width times height of the normalized rectangle.
func (r Rect) Area() float64 {
	n := r.Normalize()
	return n.Width * n.Height
}

// Empty reports whether the rectangle has zero area.
func (r Rect) Empty() bool {
	return r.Width == 0 || r.Height == 0
}

// Normalize returns an equivalent rectangle with non-negative width and
// height.
func (r Rect) Normalize() Rect {
	if r.Width < 0 {
		r.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

// Equals compares the normalized rectangles.
func (r Rect) Equals(o Rect) bool {
	return r.Normalize() == o.Normalize()
}

// ContainsPoint reports whether p lies inside r or on its boundary.
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// ContainsRect reports whether o lies entirely inside r. Rectangles with a
// zero dimension are never contained and never contain.
func (r Rect) ContainsRect(o Rect) bool {
	r0 := r.Normalize()
	r1 := o.Normalize()
	if r0.Empty() || r1.Empty() {
		return false
	}
	return r0.X <= r1.X && r1.X+r1.Width <= r0.X+r0.Width &&
		r0.Y <= r1.Y && r1.Y+r1.Height <= r0.Y+r0.Height
}

// Intersect returns the overlap of r and o. Rectangles that only touch do not
// intersect.
func (r Rect) Intersect(o Rect) (Rect, bool) {
	myOrigin, myCorner := r.Origin(), r.Corner()
	oOrigin, oCorner := o.Origin(), o.Corner()

	if oCorner.X <= myOrigin.X || oCorner.Y <= myOrigin.Y ||
		oOrigin.X >= myCorner.X || oOrigin.Y >= myCorner.Y {
		return Rect{}, false
	}

	x := math.Max(myOrigin.X, oOrigin.X)
	y := math.Max(myOrigin.Y, oOrigin.Y)
	return Rect{
		X:      x,
		Y:      y,
		Width:  math.Min(myCorner.X, oCorner.X) - x,
		Height: math.Min(myCorner.Y, oCorner.Y) - y,
	}, true
}

// Union returns the smallest rectangle containing r and o.
func (r Rect) Union(o Rect) Rect {
	u, _ := UnionRects(r, o)
	return u
}

// Inflate grows r by dx on the left and right and by dy on the top and
// bottom.
func (r Rect) Inflate(dx, dy float64) Rect {
	return Rect{X: r.X - dx, Y: r.Y - dy, Width: r.Width + 2*dx, Height: r.Height + 2*dy}
}

// MoveAndExpand adds delta field by field.
func (r Rect) MoveAndExpand(delta Rect) Rect {
	return Rect{
		X:      r.X + delta.X,
		Y:      r.Y + delta.Y,
		Width:  r.Width + delta.Width,
		Height: r.Height + delta.Height,
	}
}

// Offset translates r by (dx, dy).
func (r Rect) Offset(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Round rounds every field to precision decimal digits.
func (r Rect) Round(precision int) Rect {
	return Rect{
		X:      Round(r.X, precision),
		Y:      Round(r.Y, precision),
		Width:  Round(r.Width, precision),
		Height: Round(r.Height, precision),
	}
}

// SideNearestToPoint returns the side of r closest to p. Ties prefer left,
// then right, then top.
func (r Rect) SideNearestToPoint(p Point) Side {
	distToLeft := p.X - r.X
	distToRight := (r.X + r.Width) - p.X
	distToTop := p.Y - r.Y
	distToBottom := (r.Y + r.Height) - p.Y

	closest := distToLeft
	side := Left
	if distToRight < closest {
		closest = distToRight
		side = Right
	}
	if distToTop < closest {
		closest = distToTop
		side = Top
	}
	if distToBottom < closest {
		side = Bottom
	}
	return side
}

// PointNearestToPoint returns the point on the boundary of r nearest to p.
// Points outside r are clamped onto it.
func (r Rect) PointNearestToPoint(p Point) Point {
	if r.ContainsPoint(p) {
		switch r.SideNearestToPoint(p) {
		case Right:
			return Point{X: r.X + r.Width, Y: p.Y}
		case Left:
			return Point{X: r.X, Y: p.Y}
		case Bottom:
			return Point{X: p.X, Y: r.Y + r.Height}
		case Top:
			return Point{X: p.X, Y: r.Y}
		}
	}
	return p.AdhereToRect(r)
}

// String formats r as "origin corner".
func (r Rect) String() string {
	return fmt.Sprintf("%s %s", r.Origin(), r.Corner())
}
