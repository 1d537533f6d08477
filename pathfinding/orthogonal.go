package pathfinding

import (
	"linkroute/core"
	"linkroute/geometry"
	"math"
)

// Orthogonal routes a link with at most a few axis-aligned bends per
// segment, chosen by case analysis on the relative position of the
// endpoints. It never searches and ignores obstacles other than the two
// end elements, so it always succeeds. It is the fallback of the Manhattan
// router.
type Orthogonal struct {
	padding Sides
}

// NewOrthogonal creates an orthogonal router that keeps padding around the
// end elements. Zero padding selects DefaultElementPadding.
func NewOrthogonal(padding Sides) *Orthogonal {
	if padding.IsZero() {
		padding = UniformSides(DefaultElementPadding)
	}
	return &Orthogonal{padding: padding}
}

// segment is the result of one case: the bends and the heading at its end.
type segment struct {
	points    []geometry.Point
	direction core.Direction
}

// Route implements Router. It never returns an error.
func (o *Orthogonal) Route(req Request) ([]geometry.Point, error) {
	pad := o.padding.Box()
	sourceBBox := req.SourceBBox.MoveAndExpand(pad).Union(geometry.PointRect(req.SourceAnchor))
	targetBBox := req.TargetBBox.MoveAndExpand(pad).Union(geometry.PointRect(req.TargetAnchor))

	vertices := req.Points()
	last := len(vertices) - 1

	var (
		route   []geometry.Point
		bearing = core.NoDirection
	)
	for i := 0; i < last; i++ {
		from, to := vertices[i], vertices[i+1]
		isOrthogonal := bearingOf(from, to) != core.NoDirection

		var seg *segment
		switch {
		case i == 0 && i+1 == last:
			// source element to target element
			if _, ok := sourceBBox.Intersect(targetBBox.Inflate(1, 1)); ok {
				seg = insideElement(from, to, sourceBBox, targetBBox, core.NoDirection)
			} else if !isOrthogonal {
				seg = elementElement(from, to, sourceBBox, targetBBox)
			}
		case i == 0:
			// source element to vertex
			if sourceBBox.ContainsPoint(to) {
				seg = insideElement(from, to, sourceBBox, geometry.PointRect(to).MoveAndExpand(pad), core.NoDirection)
			} else if !isOrthogonal {
				seg = elementVertex(from, to, sourceBBox)
			}
		case i+1 == last:
			// vertex to target element
			isOrthogonalLoop := isOrthogonal && bearingOf(to, from) == bearing
			if targetBBox.ContainsPoint(from) || isOrthogonalLoop {
				seg = insideElement(from, to, geometry.PointRect(from).MoveAndExpand(pad), targetBBox, bearing)
			} else if !isOrthogonal {
				seg = vertexElement(from, to, targetBBox, bearing)
			}
		case !isOrthogonal:
			seg = vertexVertex(from, to, bearing)
		}

		if seg != nil {
			route = append(route, seg.points...)
			bearing = seg.direction
		} else {
			bearing = bearingOf(from, to)
		}
		if i+1 < last {
			route = append(route, to)
		}
	}
	return route, nil
}

// bearingOf returns the direction of an axis-aligned move from one point to
// another, or NoDirection for a diagonal one. Equal points read as South.
func bearingOf(from, to geometry.Point) core.Direction {
	switch {
	case from.X == to.X:
		if from.Y > to.Y {
			return core.North
		}
		return core.South
	case from.Y == to.Y:
		if from.X > to.X {
			return core.West
		}
		return core.East
	}
	return core.NoDirection
}

// bearingRadians is the screen angle of a bearing as used by FromPolar.
func bearingRadians(d core.Direction) float64 {
	switch d {
	case core.North:
		return -3 * math.Pi / 2
	case core.South:
		return -math.Pi / 2
	case core.West:
		return math.Pi
	default:
		return 0
	}
}

// bboxSize is the extent of box along bearing.
func bboxSize(box geometry.Rect, bearing core.Direction) float64 {
	if bearing == core.West || bearing == core.East {
		return box.Width
	}
	return box.Height
}

// freeJoin returns the corner of the L between p1 and p2 that lies outside
// box, preferring the one below or above p1.
func freeJoin(p1, p2 geometry.Point, box geometry.Rect) geometry.Point {
	p := geometry.Pt(p1.X, p2.Y)
	if box.ContainsPoint(p) {
		p = geometry.Pt(p2.X, p1.Y)
	}
	return p
}

func vertexVertex(from, to geometry.Point, bearing core.Direction) *segment {
	p1 := geometry.Pt(from.X, to.Y)
	p2 := geometry.Pt(to.X, from.Y)
	d1 := bearingOf(from, p1)
	d2 := bearingOf(from, p2)
	opposite := bearing.Opposite()

	p := p2
	if d1 == bearing || (d1 != opposite && (d2 == opposite || d2 != bearing)) {
		p = p1
	}
	return &segment{points: []geometry.Point{p}, direction: bearingOf(p, to)}
}

func elementVertex(from, to geometry.Point, fromBBox geometry.Rect) *segment {
	p := freeJoin(from, to, fromBBox)
	return &segment{points: []geometry.Point{p}, direction: bearingOf(p, to)}
}

func vertexElement(from, to geometry.Point, toBBox geometry.Rect, bearing core.Direction) *segment {
	corners := [2]geometry.Point{geometry.Pt(from.X, to.Y), geometry.Pt(to.X, from.Y)}

	var free, freeBearing []geometry.Point
	for _, c := range corners {
		if !toBBox.ContainsPoint(c) {
			free = append(free, c)
		}
	}
	for _, c := range free {
		if bearingOf(c, from) != bearing {
			freeBearing = append(freeBearing, c)
		}
	}

	if len(freeBearing) > 0 {
		// Prefer a corner that continues straight on.
		p := freeBearing[0]
		for _, c := range freeBearing {
			if bearingOf(from, c) == bearing {
				p = c
			}
		}
		return &segment{points: []geometry.Point{p}, direction: bearingOf(p, to)}
	}

	// Both corners are blocked: step out of the element by half its size
	// along the bearing before joining.
	p := corners[0]
	for _, c := range corners {
		if toBBox.ContainsPoint(c) {
			p = c
			break
		}
	}
	p2 := to.Move(p, -bboxSize(toBBox, bearing)/2)
	p1 := freeJoin(p2, from, toBBox)
	return &segment{points: []geometry.Point{p1, p2}, direction: bearingOf(p2, to)}
}

func elementElement(from, to geometry.Point, fromBBox, toBBox geometry.Rect) *segment {
	seg := elementVertex(to, from, toBBox)
	p1 := seg.points[0]
	if !fromBBox.ContainsPoint(p1) {
		return seg
	}

	seg = elementVertex(from, to, fromBBox)
	p2 := seg.points[0]
	if !toBBox.ContainsPoint(p2) {
		return seg
	}

	// Each join lands in the other element: go through the midpoint between
	// the two borders.
	fromBorder := from.Move(p2, -bboxSize(fromBBox, bearingOf(from, p2))/2)
	toBorder := to.Move(p1, -bboxSize(toBBox, bearingOf(to, p1))/2)
	mid := geometry.Ln(fromBorder, toBorder).Midpoint()

	start := elementVertex(from, mid, fromBBox)
	end := vertexVertex(mid, to, start.direction)
	return &segment{points: []geometry.Point{start.points[0], end.points[0]}, direction: end.direction}
}

// insideElement handles overlapping elements and loops back into an element.
// It leaves the union of both boxes from the endpoint nearer to its border
// and joins the other endpoint from outside.
func insideElement(from, to geometry.Point, fromBBox, toBBox geometry.Rect, bearing core.Direction) *segment {
	boundary := fromBBox.Union(toBBox).Inflate(1, 1)

	center := boundary.Center()
	reversed := center.Distance(to) > center.Distance(from)
	start, end := from, to
	if reversed {
		start, end = to, from
	}

	var p1 geometry.Point
	if bearing != core.NoDirection {
		// A point at distance width+height is outside the boundary whatever
		// the start; pull it back onto the boundary.
		p1 = geometry.FromPolar(boundary.Width+boundary.Height, bearingRadians(bearing), start)
		p1 = boundary.PointNearestToPoint(p1).Move(p1, -1)
	} else {
		p1 = boundary.PointNearestToPoint(start).Move(start, 1)
	}

	p2 := freeJoin(p1, end, boundary)

	var points []geometry.Point
	if p1.Round(0).Equals(p2.Round(0)) {
		p2 = geometry.FromPolar(boundary.Width+boundary.Height, geometry.ToRad(p1.Theta(start))+math.Pi/2, end)
		p2 = boundary.PointNearestToPoint(p2).Move(end, 1).Round(0)
		p3 := freeJoin(p1, p2, boundary)
		if reversed {
			points = []geometry.Point{p2, p3, p1}
		} else {
			points = []geometry.Point{p1, p3, p2}
		}
	} else if reversed {
		points = []geometry.Point{p2, p1}
	} else {
		points = []geometry.Point{p1, p2}
	}

	direction := bearingOf(p2, to)
	if reversed {
		direction = bearingOf(p1, to)
	}
	return &segment{points: points, direction: direction}
}
