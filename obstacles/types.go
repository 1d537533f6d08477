// Package obstacles builds the per-route obstacle map: a spatial hash of the
// padded bounding boxes of every shape a link has to route around.
package obstacles

import (
	"fmt"
	"linkroute/core"
	"strings"
)

// End selects one end of a link.
type End int

const (
	SourceEnd End = iota
	TargetEnd
)

// String returns "source" or "target".
func (e End) String() string {
	switch e {
	case SourceEnd:
		return "source"
	case TargetEnd:
		return "target"
	default:
		return "unknown"
	}
}

// ParseEnd parses "source" or "target".
func ParseEnd(s string) (End, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "source":
		return SourceEnd, nil
	case "target":
		return TargetEnd, nil
	}
	return 0, fmt.Errorf("unknown link end %q", s)
}

// Exclusions lists shapes that must not become obstacles for a route.
type Exclusions struct {
	IDs   map[string]bool // excluded end shapes and ancestors of both ends
	Types map[string]bool // excluded shape types
}

// Excludes reports whether shape is excluded.
func (e Exclusions) Excludes(shape core.Shape) bool {
	return e.IDs[shape.ID] || e.Types[shape.Type]
}

// ExclusionsFor computes the exclusions for routing link through scene. The
// shapes named by excludeEnds are removed, as are all ancestors of the source
// and target shapes so that a link can leave its enclosing groups. The source
// and target shapes themselves stay obstacles unless listed in excludeEnds.
func ExclusionsFor(scene *core.Scene, link core.Link, excludeEnds []End, excludeTypes []string) Exclusions {
	ex := Exclusions{
		IDs:   make(map[string]bool),
		Types: make(map[string]bool, len(excludeTypes)),
	}

	for _, end := range excludeEnds {
		id := link.Source.ShapeID
		if end == TargetEnd {
			id = link.Target.ShapeID
		}
		if _, ok := scene.Shape(id); ok {
			ex.IDs[id] = true
		}
	}

	for _, id := range []string{link.Source.ShapeID, link.Target.ShapeID} {
		if id == "" {
			continue
		}
		for _, ancestor := range scene.Ancestors(id) {
			ex.IDs[ancestor] = true
		}
	}

	for _, t := range excludeTypes {
		ex.Types[t] = true
	}

	return ex
}
