package pathfinding

import (
	"linkroute/geometry"
)

// ObstacleChecker is a function that returns true if a point is blocked.
type ObstacleChecker func(geometry.Point) bool

// NoObstacles is an ObstacleChecker that never blocks.
func NoObstacles(geometry.Point) bool { return false }

// RectChecker blocks every point inside one of rects, boundary included.
func RectChecker(rects ...geometry.Rect) ObstacleChecker {
	blocked := make([]geometry.Rect, 0, len(rects))
	for _, r := range rects {
		if r = r.Normalize(); !r.Empty() {
			blocked = append(blocked, r)
		}
	}
	return func(p geometry.Point) bool {
		for _, r := range blocked {
			if r.ContainsPoint(p) {
				return true
			}
		}
		return false
	}
}

// BoundsChecker blocks every point outside bounds.
func BoundsChecker(bounds geometry.Rect) ObstacleChecker {
	bounds = bounds.Normalize()
	return func(p geometry.Point) bool {
		return !bounds.ContainsPoint(p)
	}
}

// CombineObstacleCheckers combines multiple obstacle checkers with OR logic.
// Nil checkers are skipped.
func CombineObstacleCheckers(checkers ...ObstacleChecker) ObstacleChecker {
	active := make([]ObstacleChecker, 0, len(checkers))
	for _, c := range checkers {
		if c != nil {
			active = append(active, c)
		}
	}
	return func(p geometry.Point) bool {
		for _, checker := range active {
			if checker(p) {
				return true
			}
		}
		return false
	}
}
