package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Line is a directed segment from Start to End.
type Line struct {
	Start Point
	End   Point
}

// Ln is shorthand for Line{Start: a, End: b}.
func Ln(a, b Point) Line {
	return Line{Start: a, End: b}
}

// Vector returns End - Start.
func (l Line) Vector() Point {
	return l.End.Difference(l.Start)
}

// Length returns the Euclidean length of the segment.
func (l Line) Length() float64 {
	return math.Sqrt(l.SquaredLength())
}

// SquaredLength returns the squared length of the segment.
func (l Line) SquaredLength() float64 {
	return l.Start.SquaredDistance(l.End)
}

// Midpoint returns the point halfway between Start and End.
func (l Line) Midpoint() Point {
	return Point{X: (l.Start.X + l.End.X) / 2, Y: (l.Start.Y + l.End.Y) / 2}
}

// PointAt returns the point at parameter t, clamped to [0, 1].
func (l Line) PointAt(t float64) Point {
	if t <= 0 {
		return l.Start
	}
	if t >= 1 {
		return l.End
	}
	return fromVec(r2.Add(l.Start.vec(), r2.Scale(t, l.Vector().vec())))
}

// PointAtLength returns the point at the given distance from Start. Negative
// lengths are measured back from End.
func (l Line) PointAtLength(length float64) Point {
	fromStart := true
	if length < 0 {
		fromStart = false
		length = -length
	}

	total := l.Length()
	if length >= total {
		if fromStart {
			return l.End
		}
		return l.Start
	}

	t := length / total
	if !fromStart {
		t = 1 - t
	}
	return l.PointAt(t)
}

// ClosestPointT returns the parameter of the point on the segment nearest to p.
func (l Line) ClosestPointT(p Point) float64 {
	v := l.Vector().vec()
	sq := r2.Norm2(v)
	if sq == 0 {
		return 0
	}
	t := r2.Dot(r2.Sub(p.vec(), l.Start.vec()), v) / sq
	return math.Min(1, math.Max(0, t))
}

// ClosestPoint returns the point on the segment nearest to p.
func (l Line) ClosestPoint(p Point) Point {
	return l.PointAt(l.ClosestPointT(p))
}

// TangentAt returns a segment of the same length as l starting at the point at
// parameter t and pointing along l. The second result is false for a
// zero-length line.
func (l Line) TangentAt(t float64) (Line, bool) {
	if l.Start.Equals(l.End) {
		return Line{}, false
	}
	p := l.PointAt(t)
	v := l.Vector()
	return Line{Start: p, End: p.Offset(v.X, v.Y)}, true
}

// ContainsPoint reports whether p lies on the segment within a small
// tolerance.
func (l Line) ContainsPoint(p Point) bool {
	const epsilon = 1e-6
	v := l.Vector().vec()
	w := r2.Sub(p.vec(), l.Start.vec())
	if math.Abs(r2.Cross(v, w)) > epsilon*math.Max(1, r2.Norm(v)) {
		return false
	}
	dot := r2.Dot(w, v)
	return dot >= -epsilon && dot <= r2.Norm2(v)+epsilon
}

// Intersect returns the intersection point of two segments. Parallel,
// collinear and zero-length segments have no intersection.
func (l Line) Intersect(other Line) (Point, bool) {
	d1 := l.Vector()
	d2 := other.Vector()
	det := d1.X*d2.Y - d1.Y*d2.X
	delta := other.Start.Difference(l.Start)
	alpha := delta.X*d2.Y - delta.Y*d2.X
	beta := delta.X*d1.Y - delta.Y*d1.X

	if det == 0 || alpha*det < 0 || beta*det < 0 {
		return Point{}, false
	}
	if det > 0 {
		if alpha > det || beta > det {
			return Point{}, false
		}
	} else if alpha < det || beta < det {
		return Point{}, false
	}

	return Point{
		X: l.Start.X + alpha*d1.X/det,
		Y: l.Start.Y + alpha*d1.Y/det,
	}, true
}

// IntersectRect returns the distinct points where the segment crosses the
// sides of r, in top, right, bottom, left order.
func (l Line) IntersectRect(r Rect) []Point {
	var points []Point
	for _, side := range r.SideLines() {
		p, ok := l.Intersect(side)
		if !ok || containsPoint(points, p) {
			continue
		}
		points = append(points, p)
	}
	return points
}

func containsPoint(points []Point, p Point) bool {
	for _, q := range points {
		if q.Equals(p) {
			return true
		}
	}
	return false
}
