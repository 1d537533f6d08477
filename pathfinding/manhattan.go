package pathfinding

import (
	"fmt"
	"linkroute/core"
	"linkroute/geometry"
	"linkroute/log"
	"log/slog"
	"math"
	"slices"
)

// Manhattan finds axis-aligned routes between two endpoints with an A*
// search over a grid of Options.Step spacing. Moves are restricted by
// MaxAllowedDirectionChange and turns are charged by the penalty table.
// A Manhattan value is safe for concurrent use; every search owns its
// frontier and records.
type Manhattan struct {
	opts       Options
	penalties  penaltyTable
	isObstacle ObstacleChecker
	logger     *slog.Logger
}

// NewManhattan creates a router over the given obstacles. A nil checker
// means open space.
func NewManhattan(opts Options, isObstacle ObstacleChecker) (*Manhattan, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if isObstacle == nil {
		isObstacle = NoObstacles
	}
	return &Manhattan{
		opts:       opts,
		penalties:  newPenaltyTable(opts),
		isObstacle: isObstacle,
		logger:     log.WithComponent("pathfinding"),
	}, nil
}

// Options returns the router configuration.
func (m *Manhattan) Options() Options {
	return m.opts
}

// search holds the per-segment state of one A* run.
type search struct {
	*Manhattan
	grid      grid
	start     geometry.Point
	end       geometry.Point
	endPoints []geometry.Point
	endKeys   map[gridKey]bool

	frontier *Frontier[gridKey]
	points   map[gridKey]geometry.Point
	parents  map[gridKey]geometry.Point
	costs    map[gridKey]float64
}

// FindRoute searches a route from one endpoint to the other. heading is the
// direction the link arrived with at from; pass the zero Heading for the
// first segment of a link. On success it returns the bend points between
// the anchors, in order, and the heading to hand to the next segment. On
// failure the error is a *SearchError wrapping ErrNoRoute and the heading
// is returned unchanged.
func (m *Manhattan) FindRoute(from, to Endpoint, heading Heading) ([]geometry.Point, Heading, error) {
	precision := m.opts.Precision
	start := from.anchor().Round(precision)
	end := to.anchor().Round(precision)

	s := &search{
		Manhattan: m,
		grid:      newGrid(m.opts.Step, start, end),
		start:     start,
		end:       end,
	}

	startPoints := s.candidates(from, m.opts.StartDirections)
	s.endPoints = s.candidates(to, m.opts.EndDirections)
	if len(startPoints) == 0 || len(s.endPoints) == 0 {
		m.logger.Debug("no accessible route point",
			slog.String("from", start.String()),
			slog.String("to", end.String()),
			slog.Int("start_points", len(startPoints)),
			slog.Int("end_points", len(s.endPoints)))
		return nil, heading, &SearchError{Reason: "no accessible start or end point", Start: start, End: end}
	}

	route, next, loops, err := s.run(startPoints, heading)
	if err != nil {
		m.logger.Debug("search failed", slog.String("from", start.String()), slog.String("to", end.String()), slog.Int("loops", loops))
		return nil, heading, err
	}
	m.logger.Debug("route found", slog.String("from", start.String()), slog.String("to", end.String()),
		slog.Int("loops", loops), slog.Int("bends", len(route)))
	return route, next, nil
}

// candidates returns the accessible grid points the search may start or
// finish at.
func (s *search) candidates(e Endpoint, dirs []core.Direction) []geometry.Point {
	var points []geometry.Point
	switch e := e.(type) {
	case PointEndpoint:
		points = []geometry.Point{e.Point.Round(s.opts.Precision)}
	case BoxEndpoint:
		points = s.rectPoints(e.Anchor.Round(s.opts.Precision), e.Box, dirs)
	default:
		panic(fmt.Sprintf("pathfinding: unknown endpoint %T", e))
	}
	return slices.DeleteFunc(points, s.isObstacle)
}

// rectPoints casts a ray from anchor in every allowed direction and keeps the
// far intersection with box, aligned to the grid and pushed one cell further
// out when alignment pulled it back inside. An anchor outside its own box is
// a candidate as well.
func (s *search) rectPoints(anchor geometry.Point, box geometry.Rect, dirs []core.Direction) []geometry.Point {
	precision := s.opts.Precision
	offset := anchor.Difference(box.Center())

	var points []geometry.Point
	for _, d := range core.Directions {
		if !slices.Contains(dirs, d) {
			continue
		}
		v := d.Vector()
		far := geometry.Pt(
			anchor.X+v.X*(math.Abs(offset.X)+box.Width),
			anchor.Y+v.Y*(math.Abs(offset.Y)+box.Height),
		)

		var (
			farthest geometry.Point
			found    bool
			best     float64
		)
		for _, p := range geometry.Ln(anchor, far).IntersectRect(box) {
			if dist := anchor.SquaredDistance(p); !found || dist > best {
				farthest, best, found = p, dist, true
			}
		}
		if !found {
			continue
		}

		p := s.grid.align(farthest, precision)
		if box.ContainsPoint(p) {
			p = s.grid.align(p.Offset(v.X*s.grid.x, v.Y*s.grid.y), precision)
		}
		points = append(points, p)
	}

	if !box.ContainsPoint(anchor) {
		points = append(points, s.grid.align(anchor, precision))
	}
	return points
}

func (s *search) key(p geometry.Point) gridKey {
	return keyOf(p, s.opts.Precision)
}

// estimateCost is the Manhattan distance to the nearest end point. It never
// overestimates because every move costs at least its length in steps.
func (s *search) estimateCost(p geometry.Point) float64 {
	best := math.Inf(1)
	for _, end := range s.endPoints {
		best = math.Min(best, p.ManhattanDistance(end))
	}
	return best
}

func (s *search) run(startPoints []geometry.Point, heading Heading) ([]geometry.Point, Heading, int, error) {
	opts := s.opts
	s.frontier = NewFrontier[gridKey]()
	s.points = make(map[gridKey]geometry.Point)
	s.parents = make(map[gridKey]geometry.Point)
	s.costs = make(map[gridKey]float64)

	for _, p := range startPoints {
		k := s.key(p)
		s.frontier.Add(k, s.estimateCost(p))
		s.points[k] = p
		s.costs[k] = 0
	}

	s.endKeys = make(map[gridKey]bool, len(s.endPoints))
	for _, p := range s.endPoints {
		s.endKeys[s.key(p)] = true
	}
	samePoints := slices.EqualFunc(startPoints, s.endPoints, geometry.Point.Equals)

	isPathBeginning := !heading.Known
	loops := 0

	for loops < opts.MaximumLoops {
		currentKey, ok := s.frontier.Pop()
		if !ok {
			return nil, heading, loops, &SearchError{Reason: "frontier exhausted", Start: s.start, End: s.end, Loops: loops}
		}
		current := s.points[currentKey]
		parent, hasParent := s.parents[currentKey]
		cost := s.costs[currentKey]

		isRouteBeginning := !hasParent
		isStart := current.Equals(s.start)

		var prev Heading
		switch {
		case !isRouteBeginning:
			prev = Heading{Angle: directionAngle(parent, current, s.grid, opts.Step), Known: true}
		case !isPathBeginning:
			prev = heading
		case !isStart:
			prev = Heading{Angle: directionAngle(s.start, current, s.grid, opts.Step), Known: true}
		}

		// A start point that is also an end point does not finish the search
		// on the first pop when both candidate lists are identical.
		skipEndCheck := isRouteBeginning && samePoints
		if !skipEndCheck && s.endKeys[currentKey] {
			// An unknown heading reads as 0 in the direction checks, and the
			// next segment carries it on as such.
			prev.Known = true
			return s.reconstruct(current), prev, loops, nil
		}

		for _, n := range neighbors {
			change := directionChange(prev.Angle, n.angle)
			if !(isPathBeginning && isStart) && change > opts.MaxAllowedDirectionChange {
				continue
			}

			next := s.grid.align(current.Offset(n.dx*s.grid.x, n.dy*s.grid.y), opts.Precision)
			nextKey := s.key(next)
			if s.frontier.IsClosed(nextKey) || s.isObstacle(next) {
				continue
			}

			// End points may only be entered at an angle from which the
			// target anchor is still reachable.
			if s.endKeys[nextKey] && !next.Equals(s.end) {
				endAngle := directionAngle(next, s.end, s.grid, opts.Step)
				if directionChange(n.angle, endAngle) > opts.MaxAllowedDirectionChange {
					continue
				}
			}

			penalty := 0.0
			if !isStart {
				penalty = s.penalties.cost(change)
			}
			costFromStart := cost + opts.Step + penalty

			if !s.frontier.IsOpen(nextKey) || costFromStart < s.costs[nextKey] {
				s.points[nextKey] = next
				s.parents[nextKey] = current
				s.costs[nextKey] = costFromStart
				s.frontier.Add(nextKey, costFromStart+s.estimateCost(next))
			}
		}
		loops++
	}

	return nil, heading, loops, &SearchError{Reason: "loop limit reached", Start: s.start, End: s.end, Loops: loops}
}

// reconstruct walks the parents back from tail and keeps only the points
// where the travel direction changes.
func (s *search) reconstruct(tail geometry.Point) []geometry.Point {
	var route []geometry.Point
	prevDiff := s.end.Difference(tail).Sign()

	currentKey := s.key(tail)
	parent, ok := s.parents[currentKey]
	for ok {
		point := s.points[currentKey]
		if diff := point.Difference(parent).Sign(); !diff.Equals(prevDiff) {
			route = append(route, point)
			prevDiff = diff
		}
		currentKey = s.key(parent)
		parent, ok = s.parents[currentKey]
	}

	lead := s.points[currentKey]
	if !lead.Difference(s.start).Sign().Equals(prevDiff) {
		route = append(route, lead)
	}

	slices.Reverse(route)
	return route
}
