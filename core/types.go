// Package core contains the scene model shared by the routers, importers and
// renderers: shapes, links and the routes computed for them.
package core

import (
	"errors"
	"fmt"
	"linkroute/geometry"
	"strings"
)

// Direction represents a cardinal direction on screen.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// NoDirection marks an unknown or undefined bearing.
const NoDirection Direction = -1

// Directions lists the cardinal directions in top, right, bottom, left order.
var Directions = []Direction{North, East, South, West}

// String returns the string representation of a Direction.
func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	default:
		return "Unknown"
	}
}

// Side returns the rectangle side name for the direction: top, right, bottom
// or left.
func (d Direction) Side() string {
	switch d {
	case North:
		return "top"
	case East:
		return "right"
	case South:
		return "bottom"
	case West:
		return "left"
	default:
		return ""
	}
}

// Opposite returns the opposite direction.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case East:
		return West
	case South:
		return North
	case West:
		return East
	default:
		return d
	}
}

// Vector returns the unit step for the direction in screen coordinates.
func (d Direction) Vector() geometry.Point {
	switch d {
	case North:
		return geometry.Pt(0, -1)
	case East:
		return geometry.Pt(1, 0)
	case South:
		return geometry.Pt(0, 1)
	case West:
		return geometry.Pt(-1, 0)
	default:
		return geometry.Point{}
	}
}

// ParseDirection accepts side names (top, right, bottom, left), compass names
// (north, east, south, west) and their initials.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top", "north", "n", "t":
		return North, nil
	case "right", "east", "e", "r":
		return East, nil
	case "bottom", "south", "s", "b":
		return South, nil
	case "left", "west", "w", "l":
		return West, nil
	}
	return NoDirection, fmt.Errorf("unknown direction %q", s)
}

// Shape is an element of the scene. Every shape is a potential obstacle for
// links that do not start or end at it.
type Shape struct {
	ID     string        `json:"id" yaml:"id"`
	Type   string        `json:"type,omitempty" yaml:"type,omitempty"`
	BBox   geometry.Rect `json:"bbox" yaml:"bbox"`
	Parent string        `json:"parent,omitempty" yaml:"parent,omitempty"`
	Label  string        `json:"label,omitempty" yaml:"label,omitempty"`
}

// LinkEnd is one end of a link: either attached to a shape or a free point.
type LinkEnd struct {
	ShapeID string          `json:"id,omitempty" yaml:"id,omitempty"`
	Anchor  *geometry.Point `json:"anchor,omitempty" yaml:"anchor,omitempty"` // defaults to the shape centre
	Point   *geometry.Point `json:"point,omitempty" yaml:"point,omitempty"`   // used when ShapeID is empty
}

// IsFree reports whether the end is not attached to a shape.
func (e LinkEnd) IsFree() bool {
	return e.ShapeID == ""
}

// Link is a connector between two ends passing through optional vertices.
type Link struct {
	ID       string           `json:"id" yaml:"id"`
	Source   LinkEnd          `json:"source" yaml:"source"`
	Target   LinkEnd          `json:"target" yaml:"target"`
	Vertices []geometry.Point `json:"vertices,omitempty" yaml:"vertices,omitempty"`
}

// Metadata contains optional scene metadata.
type Metadata struct {
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// Scene is the routing input: shapes and the links between them.
type Scene struct {
	Shapes   []Shape  `json:"shapes" yaml:"shapes"`
	Links    []Link   `json:"links" yaml:"links"`
	Metadata Metadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Shape returns the shape with the given id.
func (s *Scene) Shape(id string) (Shape, bool) {
	for _, shape := range s.Shapes {
		if shape.ID == id {
			return shape, true
		}
	}
	return Shape{}, false
}

// Ancestors returns the ids of the parents of shape id, nearest first. Parent
// cycles are cut at the first repeated id.
func (s *Scene) Ancestors(id string) []string {
	var ancestors []string
	seen := map[string]bool{id: true}

	shape, ok := s.Shape(id)
	for ok && shape.Parent != "" && !seen[shape.Parent] {
		seen[shape.Parent] = true
		ancestors = append(ancestors, shape.Parent)
		shape, ok = s.Shape(shape.Parent)
	}
	return ancestors
}

// Validate checks referential integrity: unique shape ids, known parents and
// link ends that either name a known shape or carry a free point.
func (s *Scene) Validate() error {
	var errs []error
	ids := make(map[string]bool, len(s.Shapes))

	for _, shape := range s.Shapes {
		if shape.ID == "" {
			errs = append(errs, errors.New("shape with empty id"))
			continue
		}
		if ids[shape.ID] {
			errs = append(errs, fmt.Errorf("duplicate shape id %q", shape.ID))
		}
		ids[shape.ID] = true
	}
	for _, shape := range s.Shapes {
		if shape.Parent != "" && !ids[shape.Parent] {
			errs = append(errs, fmt.Errorf("shape %q: unknown parent %q", shape.ID, shape.Parent))
		}
	}
	for _, link := range s.Links {
		for _, end := range []struct {
			name string
			end  LinkEnd
		}{{"source", link.Source}, {"target", link.Target}} {
			switch {
			case end.end.IsFree() && end.end.Point == nil:
				errs = append(errs, fmt.Errorf("link %q: %s has neither shape nor point", link.ID, end.name))
			case !end.end.IsFree() && !ids[end.end.ShapeID]:
				errs = append(errs, fmt.Errorf("link %q: %s references unknown shape %q", link.ID, end.name, end.end.ShapeID))
			}
		}
	}

	return errors.Join(errs...)
}

// Route is the computed path of a link: the bend points between its anchors.
type Route struct {
	LinkID   string           `json:"link"`
	Points   []geometry.Point `json:"points"`
	Fallback bool             `json:"fallback,omitempty"` // produced by the fallback router
	Source   geometry.Point   `json:"source"`             // resolved source anchor
	Target   geometry.Point   `json:"target"`             // resolved target anchor
}

// Polyline returns the full polyline from source anchor to target anchor.
func (r Route) Polyline() []geometry.Point {
	points := make([]geometry.Point, 0, len(r.Points)+2)
	points = append(points, r.Source)
	points = append(points, r.Points...)
	return append(points, r.Target)
}

// Length returns the number of bend points in the route.
func (r Route) Length() int {
	return len(r.Points)
}

// IsEmpty returns true if the route has no bend points.
func (r Route) IsEmpty() bool {
	return len(r.Points) == 0
}
