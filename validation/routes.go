package validation

import (
	"fmt"
	"linkroute/core"
	"linkroute/geometry"
	"linkroute/obstacles"
	"linkroute/pathfinding"
	"math"
)

// IssueKind classifies a route problem.
type IssueKind int

const (
	// IssueDiagonal is a segment that is not axis aligned.
	IssueDiagonal IssueKind = iota
	// IssueBendInShape is a bend point inside an obstacle shape.
	IssueBendInShape
	// IssueCrossesShape is a segment passing through an obstacle shape.
	IssueCrossesShape
	// IssueUnknownLink is a route whose link is not in the scene.
	IssueUnknownLink
)

func (k IssueKind) String() string {
	switch k {
	case IssueDiagonal:
		return "diagonal"
	case IssueBendInShape:
		return "bend-in-shape"
	case IssueCrossesShape:
		return "crosses-shape"
	case IssueUnknownLink:
		return "unknown-link"
	default:
		return fmt.Sprintf("IssueKind(%d)", int(k))
	}
}

// RouteIssue is a problem found in a computed route.
type RouteIssue struct {
	LinkID  string
	Kind    IssueKind
	Segment int // polyline segment index, -1 when not tied to one
	ShapeID string
	Message string
}

func (i RouteIssue) String() string {
	return fmt.Sprintf("link %q [%s]: %s", i.LinkID, i.Kind, i.Message)
}

// tolerance absorbs rounding when comparing coordinates.
const tolerance = 1e-6

// RouteValidator checks computed routes against the scene they were routed
// through, honouring the same end and type exclusions as the router.
//
// Routes produced by the fallback router are not checked: they do not avoid
// obstacles. Points the route is pinned to (its anchors and the link's
// vertices) may lie inside shapes; segments touching them are not reported
// for those shapes.
type RouteValidator struct {
	excludeEnds  []obstacles.End
	excludeTypes []string
}

// NewRouteValidator creates a validator using the exclusions of opts.
func NewRouteValidator(opts pathfinding.Options) *RouteValidator {
	return &RouteValidator{excludeEnds: opts.ExcludeEnds, excludeTypes: opts.ExcludeTypes}
}

// Validate checks every route and returns the issues in route order.
func (v *RouteValidator) Validate(scene *core.Scene, routes []core.Route) []RouteIssue {
	var issues []RouteIssue
	for _, r := range routes {
		issues = append(issues, v.ValidateRoute(scene, r)...)
	}
	return issues
}

// ValidateRoute checks a single route.
func (v *RouteValidator) ValidateRoute(scene *core.Scene, route core.Route) []RouteIssue {
	link, ok := findLink(scene, route.LinkID)
	if !ok {
		return []RouteIssue{{
			LinkID:  route.LinkID,
			Kind:    IssueUnknownLink,
			Segment: -1,
			Message: "route does not belong to any link of the scene",
		}}
	}
	if route.Fallback {
		return nil
	}

	var issues []RouteIssue
	polyline := route.Polyline()
	for i := 1; i < len(polyline); i++ {
		a, b := polyline[i-1], polyline[i]
		if math.Abs(a.X-b.X) > tolerance && math.Abs(a.Y-b.Y) > tolerance {
			issues = append(issues, RouteIssue{
				LinkID:  route.LinkID,
				Kind:    IssueDiagonal,
				Segment: i - 1,
				Message: fmt.Sprintf("segment %v-%v is not axis aligned", a, b),
			})
		}
	}

	pinned := func(i int) bool {
		if i == 0 || i == len(polyline)-1 {
			return true
		}
		for _, vx := range link.Vertices {
			if vx.Equals(polyline[i]) {
				return true
			}
		}
		return false
	}

	ex := obstacles.ExclusionsFor(scene, link, v.excludeEnds, v.excludeTypes)
	for _, shape := range scene.Shapes {
		if ex.Excludes(shape) {
			continue
		}
		inner := shape.BBox.Normalize().Inflate(-tolerance, -tolerance)
		if inner.Width <= 0 || inner.Height <= 0 {
			continue
		}
		inside := func(i int) bool {
			return inner.ContainsPoint(polyline[i])
		}

		for i := 1; i < len(polyline)-1; i++ {
			if !pinned(i) && inside(i) {
				issues = append(issues, RouteIssue{
					LinkID:  route.LinkID,
					Kind:    IssueBendInShape,
					Segment: -1,
					ShapeID: shape.ID,
					Message: fmt.Sprintf("bend %v lies inside shape %q", polyline[i], shape.ID),
				})
			}
		}
		for i := 1; i < len(polyline); i++ {
			if (pinned(i-1) && inside(i-1)) || (pinned(i) && inside(i)) {
				continue
			}
			if crossesInterior(polyline[i-1], polyline[i], inner) {
				issues = append(issues, RouteIssue{
					LinkID:  route.LinkID,
					Kind:    IssueCrossesShape,
					Segment: i - 1,
					ShapeID: shape.ID,
					Message: fmt.Sprintf("segment %v-%v passes through shape %q", polyline[i-1], polyline[i], shape.ID),
				})
			}
		}
	}
	return issues
}

// crossesInterior reports whether the axis-aligned segment a-b overlaps the
// open rectangle inner.
func crossesInterior(a, b geometry.Point, inner geometry.Rect) bool {
	minX, maxX := math.Min(a.X, b.X), math.Max(a.X, b.X)
	minY, maxY := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	return minX < inner.X+inner.Width && maxX > inner.X &&
		minY < inner.Y+inner.Height && maxY > inner.Y
}

func findLink(scene *core.Scene, id string) (core.Link, bool) {
	if scene == nil {
		return core.Link{}, false
	}
	for _, l := range scene.Links {
		if l.ID == id {
			return l, true
		}
	}
	return core.Link{}, false
}
