// Package connections routes the links of a scene. It chains the per-segment
// Manhattan search through the link vertices, builds the obstacle map from
// the scene, and hands a link to the fallback router when any segment
// cannot be routed.
package connections

import (
	"errors"
	"fmt"
	"linkroute/core"
	"linkroute/geometry"
	"linkroute/log"
	"linkroute/obstacles"
	"linkroute/pathfinding"
	"log/slog"
)

// Router handles the routing of links between shapes.
type Router struct {
	opts            pathfinding.Options
	fallback        pathfinding.Router
	dragging        pathfinding.DraggingRouter
	segmentFallback pathfinding.SegmentFallback
	isObstacle      pathfinding.ObstacleChecker
	bounds          *geometry.Rect
	cellSize        float64
	workers         int
	cache           *RouteCache
	logger          *slog.Logger
}

// Option customises a Router.
type Option func(*Router)

// WithFallback replaces the orthogonal fallback router.
func WithFallback(fallback pathfinding.Router) Option {
	return func(r *Router) { r.fallback = fallback }
}

// WithDraggingRouter routes the last segment of links with a free end.
func WithDraggingRouter(d pathfinding.DraggingRouter) Option {
	return func(r *Router) { r.dragging = d }
}

// WithSegmentFallback is consulted for a segment the search gave up on
// before the whole link goes to the fallback router.
func WithSegmentFallback(f pathfinding.SegmentFallback) Option {
	return func(r *Router) { r.segmentFallback = f }
}

// WithObstacleChecker replaces the obstacle map built from the scene.
func WithObstacleChecker(c pathfinding.ObstacleChecker) Option {
	return func(r *Router) { r.isObstacle = c }
}

// WithBounds blocks every point outside bounds.
func WithBounds(bounds geometry.Rect) Option {
	return func(r *Router) { r.bounds = &bounds }
}

// WithCellSize sets the bucket size of the obstacle map.
func WithCellSize(size float64) Option {
	return func(r *Router) { r.cellSize = size }
}

// WithWorkers limits the number of links RouteScene routes at once.
func WithWorkers(n int) Option {
	return func(r *Router) { r.workers = n }
}

// WithCache memoises routes. It is ignored when an obstacle checker
// override is configured, because the checker cannot be fingerprinted.
func WithCache(c *RouteCache) Option {
	return func(r *Router) { r.cache = c }
}

// NewRouter creates a router with the given options. The fallback defaults
// to an orthogonal router padded like the options ask.
func NewRouter(opts pathfinding.Options, options ...Option) (*Router, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	r := &Router{
		opts:     opts,
		fallback: pathfinding.NewOrthogonal(opts.ElementPadding()),
		cellSize: obstacles.DefaultCellSize,
		logger:   log.WithComponent("connections"),
	}
	for _, o := range options {
		o(r)
	}
	if r.fallback == nil {
		return nil, fmt.Errorf("%w: a fallback router is required", pathfinding.ErrInvalidOptions)
	}
	return r, nil
}

// MustNewRouter is like NewRouter but panics on a configuration error.
func MustNewRouter(opts pathfinding.Options, options ...Option) *Router {
	r, err := NewRouter(opts, options...)
	if err != nil {
		panic(fmt.Sprintf("connections: %v", err))
	}
	return r
}

// Options returns the router configuration.
func (r *Router) Options() pathfinding.Options {
	return r.opts
}

// RouteLink routes one link of scene. Ends attached to shapes use the shape
// bounding box and its anchor (the centre unless given); free ends are zero
// sized boxes at their point.
func (r *Router) RouteLink(scene *core.Scene, link core.Link) (core.Route, error) {
	req, err := Resolve(scene, link)
	if err != nil {
		return core.Route{}, err
	}
	freeEnd := link.Source.IsFree() || link.Target.IsFree()

	var (
		isObstacle pathfinding.ObstacleChecker
		cacheKey   uint64
		cacheable  bool
	)
	if r.isObstacle != nil {
		isObstacle = r.isObstacle
	} else {
		ex := obstacles.ExclusionsFor(scene, link, r.opts.ExcludeEnds, r.opts.ExcludeTypes)
		m := obstacles.Build(scene.Shapes, ex, r.opts.PaddingRect(), r.cellSize)
		isObstacle = m.IsObstacle
		if r.cache != nil {
			cacheKey, cacheable = fingerprint(req, r.opts, m.Obstacles(), freeEnd, r.bounds), true
		}
	}

	if cacheable {
		if route, ok := r.cache.Get(cacheKey); ok {
			r.logger.Debug("route cache hit", slog.String("link", link.ID))
			route.LinkID = link.ID
			return route, nil
		}
	}

	route, err := r.RouteRequest(req, isObstacle, freeEnd)
	if err != nil {
		return core.Route{}, fmt.Errorf("link %q: %w", link.ID, err)
	}
	route.LinkID = link.ID

	if cacheable {
		r.cache.Put(cacheKey, route)
	}
	return route, nil
}

// Resolve builds the routing request of link from the scene.
func Resolve(scene *core.Scene, link core.Link) (pathfinding.Request, error) {
	sourceBBox, sourceAnchor, err := resolveEnd(scene, link.Source)
	if err != nil {
		return pathfinding.Request{}, fmt.Errorf("link %q source: %w", link.ID, err)
	}
	targetBBox, targetAnchor, err := resolveEnd(scene, link.Target)
	if err != nil {
		return pathfinding.Request{}, fmt.Errorf("link %q target: %w", link.ID, err)
	}
	return pathfinding.Request{
		SourceBBox:   sourceBBox,
		TargetBBox:   targetBBox,
		SourceAnchor: sourceAnchor,
		TargetAnchor: targetAnchor,
		Vertices:     link.Vertices,
	}, nil
}

func resolveEnd(scene *core.Scene, end core.LinkEnd) (geometry.Rect, geometry.Point, error) {
	if end.IsFree() {
		if end.Point == nil {
			return geometry.Rect{}, geometry.Point{}, errors.New("free end without a point")
		}
		return geometry.PointRect(*end.Point), *end.Point, nil
	}
	shape, ok := scene.Shape(end.ShapeID)
	if !ok {
		return geometry.Rect{}, geometry.Point{}, fmt.Errorf("unknown shape %q", end.ShapeID)
	}
	bbox := shape.BBox.Normalize()
	anchor := bbox.Center()
	if end.Anchor != nil {
		anchor = *end.Anchor
	}
	return bbox, anchor, nil
}

// RouteRequest routes req segment by segment: from the source box through
// every vertex to the target box. A leading bend equal to the end of the
// previous segment is dropped. When a segment cannot be routed and no
// segment fallback supplies one, the whole link is routed by the fallback
// router and the returned route is flagged as such. freeEnd marks links
// with an end that is not attached to a shape; their last segment goes to
// the dragging router when one is configured.
func (r *Router) RouteRequest(req pathfinding.Request, isObstacle pathfinding.ObstacleChecker, freeEnd bool) (core.Route, error) {
	if r.bounds != nil {
		isObstacle = pathfinding.CombineObstacleCheckers(isObstacle, pathfinding.BoundsChecker(*r.bounds))
	}
	m, err := pathfinding.NewManhattan(r.opts, isObstacle)
	if err != nil {
		return core.Route{}, err
	}

	pad := r.opts.PaddingRect()
	source := pathfinding.BoxEndpoint{Box: req.SourceBBox.MoveAndExpand(pad), Anchor: req.SourceAnchor}
	target := pathfinding.BoxEndpoint{Box: req.TargetBBox.MoveAndExpand(pad), Anchor: req.TargetAnchor}

	result := core.Route{Source: req.SourceAnchor, Target: req.TargetAnchor}

	var (
		from    pathfinding.Endpoint = source
		heading pathfinding.Heading
		tail    = req.SourceAnchor
	)
	for i := 0; i <= len(req.Vertices); i++ {
		var to pathfinding.Endpoint = target
		last := i == len(req.Vertices)
		if !last {
			to = pathfinding.PointEndpoint{Point: req.Vertices[i]}
		}

		partial, routed := r.drag(req, i, last, freeEnd)
		if !routed {
			var next pathfinding.Heading
			partial, next, err = m.FindRoute(from, to, heading)
			if err != nil {
				partial, err = r.recoverSegment(err, heading)
			} else {
				heading = next
			}
			if err != nil {
				return r.routeFallback(req, err)
			}
		}

		if len(partial) > 0 && partial[0].Equals(tail) {
			partial = partial[1:]
		}
		if len(partial) > 0 {
			tail = partial[len(partial)-1]
		}
		result.Points = append(result.Points, partial...)
		from = to
	}
	return result, nil
}

// drag asks the dragging router for the last segment of a link with a free
// end.
func (r *Router) drag(req pathfinding.Request, i int, last, freeEnd bool) ([]geometry.Point, bool) {
	if !last || !freeEnd || r.dragging == nil {
		return nil, false
	}
	from := req.SourceAnchor
	if i > 0 {
		from = req.Vertices[i-1]
	}
	points, err := r.dragging.RouteDragging(from, req.TargetAnchor)
	if err != nil {
		r.logger.Debug("dragging route declined", slog.String("err", err.Error()))
		return nil, false
	}
	return points, true
}

func (r *Router) recoverSegment(err error, heading pathfinding.Heading) ([]geometry.Point, error) {
	var searchErr *pathfinding.SearchError
	if r.segmentFallback == nil || !errors.As(err, &searchErr) {
		return nil, err
	}
	points, fbErr := r.segmentFallback.RouteSegment(searchErr.Start, searchErr.End, heading)
	if fbErr != nil {
		return nil, err
	}
	return points, nil
}

func (r *Router) routeFallback(req pathfinding.Request, cause error) (core.Route, error) {
	r.logger.Debug("falling back", slog.String("reason", cause.Error()), slog.Int("vertices", len(req.Vertices)))
	points, err := r.fallback.Route(req)
	if err != nil {
		return core.Route{}, fmt.Errorf("fallback router: %w", err)
	}
	return core.Route{Points: points, Fallback: true, Source: req.SourceAnchor, Target: req.TargetAnchor}, nil
}
