package geometry

import (
	"math"
	"strconv"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a 2D coordinate. It is a value type; every method returns a new
// Point and leaves the receiver untouched.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) vec() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

func fromVec(v r2.Vec) Point { return Point{X: v.X, Y: v.Y} }

// FromPolar returns the point at the given distance and angle (radians) from
// origin. The angle is interpreted in the same screen orientation as Theta.
func FromPolar(distance, angle float64, origin Point) Point {
	x := math.Abs(distance * math.Cos(angle))
	y := math.Abs(distance * math.Sin(angle))
	deg := NormalizeAngle(ToDeg(angle))

	switch {
	case deg < 90:
		y = -y
	case deg < 180:
		x = -x
		y = -y
	case deg < 270:
		x = -x
	}

	return Point{X: origin.X + x, Y: origin.Y + y}
}

// Offset returns p translated by (dx, dy).
func (p Point) Offset(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Difference returns the vector p - q.
func (p Point) Difference(q Point) Point {
	return fromVec(r2.Sub(p.vec(), q.vec()))
}

// Equals reports whether both coordinates are exactly equal.
func (p Point) Equals(q Point) bool {
	return p.X == q.X && p.Y == q.Y
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Sqrt(p.SquaredDistance(q))
}

// SquaredDistance returns the squared Euclidean distance between p and q.
func (p Point) SquaredDistance(q Point) float64 {
	return r2.Norm2(r2.Sub(p.vec(), q.vec()))
}

// ManhattanDistance returns |dx| + |dy|.
func (p Point) ManhattanDistance(q Point) float64 {
	return math.Abs(q.X-p.X) + math.Abs(q.Y-p.Y)
}

// Magnitude returns the length of p taken as a vector.
func (p Point) Magnitude() float64 {
	return r2.Norm(p.vec())
}

// Theta returns the angle in degrees [0, 360) of the ray from p to q. The y
// axis is inverted so angles grow counter-clockwise on screen. The angle of a
// point to itself is 0.
func (p Point) Theta(q Point) float64 {
	y := -(q.Y - p.Y)
	x := q.X - p.X
	if x == 0 && y == 0 {
		return 0
	}
	rad := math.Atan2(y, x)
	if rad < 0 {
		rad += 2 * math.Pi
	}
	return 180 * rad / math.Pi
}

// Rotate rotates p around origin by angle degrees, counter-clockwise on
// screen.
func (p Point) Rotate(origin Point, angle float64) Point {
	if angle == 0 {
		return p
	}
	return fromVec(r2.Rotate(p.vec(), -ToRad(angle), origin.vec()))
}

// Move returns p moved by distance along the ray from ref through p. A
// negative distance moves p toward ref.
func (p Point) Move(ref Point, distance float64) Point {
	theta := ToRad(ref.Theta(p))
	return p.Offset(math.Cos(theta)*distance, -math.Sin(theta)*distance)
}

// Round rounds both coordinates to precision decimal digits.
func (p Point) Round(precision int) Point {
	return Point{X: Round(p.X, precision), Y: Round(p.Y, precision)}
}

// SnapToGrid snaps p to a grid with the given horizontal and vertical spacing.
func (p Point) SnapToGrid(gx, gy float64) Point {
	return Point{X: SnapToGrid(p.X, gx), Y: SnapToGrid(p.Y, gy)}
}

// AdhereToRect clamps p into r. Points already inside r are returned as is.
func (p Point) AdhereToRect(r Rect) Point {
	if r.ContainsPoint(p) {
		return p
	}
	return Point{
		X: math.Min(math.Max(p.X, r.X), r.X+r.Width),
		Y: math.Min(math.Max(p.Y, r.Y), r.Y+r.Height),
	}
}

// Sign returns the component-wise sign of p: each coordinate becomes -1, 0
// or 1.
func (p Point) Sign() Point {
	return Point{X: sign(p.X), Y: sign(p.Y)}
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// String formats p as "x@y".
func (p Point) String() string {
	return strconv.FormatFloat(p.X, 'f', -1, 64) + "@" + strconv.FormatFloat(p.Y, 'f', -1, 64)
}
