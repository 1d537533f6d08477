// Package pathfinding contains the connector routers: a grid based A* search
// that avoids obstacles (Manhattan) and a closed-form case analysis that
// produces a few orthogonal bends without searching (Orthogonal). The
// orthogonal router is also the fallback whenever the search gives up.
package pathfinding

import (
	"errors"
	"fmt"
	"linkroute/geometry"
)

// ErrNoRoute signals that the search exhausted its frontier or loop budget,
// or that no start or end candidate was accessible. It is recoverable and
// callers are expected to fall back to another router.
var ErrNoRoute = errors.New("no route found")

// SearchError describes a failed segment search. It unwraps to ErrNoRoute.
type SearchError struct {
	Reason string
	Start  geometry.Point // rounded source anchor of the segment
	End    geometry.Point // rounded target anchor of the segment
	Loops  int            // frontier pops spent
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("%v from %v to %v: %s", ErrNoRoute, e.Start, e.End, e.Reason)
}

func (e *SearchError) Unwrap() error { return ErrNoRoute }

// Endpoint is one end of a routed segment: a free point or an element box
// with its anchor.
type Endpoint interface {
	anchor() geometry.Point
}

// PointEndpoint is a free point or a via vertex.
type PointEndpoint struct {
	Point geometry.Point
}

func (e PointEndpoint) anchor() geometry.Point { return e.Point }

// BoxEndpoint is an element. Box is the padded bounding box, Anchor the
// point the link attaches to.
type BoxEndpoint struct {
	Box    geometry.Rect
	Anchor geometry.Point
}

func (e BoxEndpoint) anchor() geometry.Point { return e.Anchor }

// Heading is the travel direction, in degrees, carried from one segment to
// the next. The zero value means no segment has been routed yet.
type Heading struct {
	Angle float64
	Known bool
}

// Request is the input of a whole-link router.
type Request struct {
	SourceBBox   geometry.Rect // source element box without routing padding
	TargetBBox   geometry.Rect
	SourceAnchor geometry.Point
	TargetAnchor geometry.Point
	Vertices     []geometry.Point
}

// Points returns the source anchor, the vertices and the target anchor.
func (r Request) Points() []geometry.Point {
	points := make([]geometry.Point, 0, len(r.Vertices)+2)
	points = append(points, r.SourceAnchor)
	points = append(points, r.Vertices...)
	return append(points, r.TargetAnchor)
}

// Router computes the bend points of a whole link, anchors excluded.
type Router interface {
	Route(req Request) ([]geometry.Point, error)
}

// RouterFunc adapts a function to Router.
type RouterFunc func(req Request) ([]geometry.Point, error)

// Route calls f(req).
func (f RouterFunc) Route(req Request) ([]geometry.Point, error) { return f(req) }

// DraggingRouter routes the last segment of a link while one of its ends is
// a free point being dragged. Returning an error hands the segment back to
// the search.
type DraggingRouter interface {
	RouteDragging(from, to geometry.Point) ([]geometry.Point, error)
}

// DraggingRouterFunc adapts a function to DraggingRouter.
type DraggingRouterFunc func(from, to geometry.Point) ([]geometry.Point, error)

// RouteDragging calls f(from, to).
func (f DraggingRouterFunc) RouteDragging(from, to geometry.Point) ([]geometry.Point, error) {
	return f(from, to)
}

// SegmentFallback may supply the route of a segment the search could not
// solve. Returning an error leaves the link to the fallback Router.
type SegmentFallback interface {
	RouteSegment(from, to geometry.Point, heading Heading) ([]geometry.Point, error)
}

// SegmentFallbackFunc adapts a function to SegmentFallback.
type SegmentFallbackFunc func(from, to geometry.Point, heading Heading) ([]geometry.Point, error)

// RouteSegment calls f(from, to, heading).
func (f SegmentFallbackFunc) RouteSegment(from, to geometry.Point, heading Heading) ([]geometry.Point, error) {
	return f(from, to, heading)
}
