// Package export writes routed scenes as text art, JSON, SVG or PNG.
package export

import (
	"errors"
	"fmt"
	"io"
	"linkroute/canvas"
	"linkroute/core"
	"linkroute/geometry"
	"strings"
)

// ErrUnsupportedFormat is returned for unknown export formats.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format represents an export format
type Format string

const (
	// FormatASCII draws the scene with box-drawing characters
	FormatASCII Format = "ascii"
	// FormatJSON writes the computed routes
	FormatJSON Format = "json"
	// FormatSVG writes a vector image
	FormatSVG Format = "svg"
	// FormatPNG writes a raster image
	FormatPNG Format = "png"
)

// Document is what gets exported: a scene, the routes of its links and,
// optionally, the padded obstacle boxes the routes were computed against.
type Document struct {
	Scene     *core.Scene
	Routes    []core.Route
	Obstacles []geometry.Rect
}

// Options controls the geometry of the outputs.
type Options struct {
	// Scale is the number of scene units per text cell.
	Scale float64
	// PixelScale multiplies scene units for PNG output.
	PixelScale float64
	// Margin is added around the scene in scene units.
	Margin float64
	// Style selects the line characters of text output.
	Style canvas.Style
}

// DefaultOptions returns the default export options.
func DefaultOptions() Options {
	return Options{Scale: 10, PixelScale: 1, Margin: 20, Style: canvas.Unicode}
}

// Exporter interface for different export formats
type Exporter interface {
	// Export writes doc to w
	Export(w io.Writer, doc Document) error
	// GetFileExtension returns the recommended file extension for this format
	GetFileExtension() string
	// GetFormatName returns a human-readable name for this format
	GetFormatName() string
}

// NewExporter creates an exporter for the specified format
func NewExporter(format Format, opts Options) (Exporter, error) {
	if opts.Scale <= 0 {
		opts.Scale = DefaultOptions().Scale
	}
	if opts.PixelScale <= 0 {
		opts.PixelScale = DefaultOptions().PixelScale
	}
	if opts.Margin < 0 {
		opts.Margin = 0
	}
	switch format {
	case FormatASCII:
		return NewASCIIExporter(opts), nil
	case FormatJSON:
		return NewJSONExporter(), nil
	case FormatSVG:
		return NewSVGExporter(opts), nil
	case FormatPNG:
		return NewPNGExporter(opts), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ascii", "text", "txt":
		return FormatASCII, nil
	case "json":
		return FormatJSON, nil
	case "svg":
		return FormatSVG, nil
	case "png":
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, s)
	}
}

// GetAvailableFormats returns a list of all available export formats
func GetAvailableFormats() []Format {
	return []Format{FormatASCII, FormatJSON, FormatSVG, FormatPNG}
}

// GetFormatDescriptions returns human-readable descriptions of all formats
func GetFormatDescriptions() map[Format]string {
	return map[Format]string{
		FormatASCII: "Box-drawing text art",
		FormatJSON:  "Computed routes as JSON",
		FormatSVG:   "Scalable vector image",
		FormatPNG:   "Raster image",
	}
}

// Bounds returns the area covering every shape, route and obstacle of doc,
// grown by margin on each side.
func Bounds(doc Document, margin float64) geometry.Rect {
	var rects []geometry.Rect
	if doc.Scene != nil {
		for _, s := range doc.Scene.Shapes {
			rects = append(rects, s.BBox.Normalize())
		}
	}
	for _, r := range doc.Routes {
		for _, p := range r.Polyline() {
			rects = append(rects, geometry.PointRect(p))
		}
	}
	rects = append(rects, doc.Obstacles...)
	b, _ := geometry.UnionRects(rects...)
	return b.Inflate(margin, margin)
}

// VisiblePolyline returns the drawn part of a route: its polyline with the
// first and last legs clipped to the outline of the shapes the link is
// attached to.
func VisiblePolyline(scene *core.Scene, route core.Route) []geometry.Point {
	points := route.Polyline()
	if scene == nil {
		return points
	}
	var link *core.Link
	for i := range scene.Links {
		if scene.Links[i].ID == route.LinkID {
			link = &scene.Links[i]
			break
		}
	}
	if link == nil {
		return points
	}

	last := len(points) - 1
	if shape, ok := scene.Shape(link.Source.ShapeID); ok && !link.Source.IsFree() {
		points[0] = clipToOutline(points[0], points[1], shape.BBox.Normalize())
	}
	if shape, ok := scene.Shape(link.Target.ShapeID); ok && !link.Target.IsFree() {
		points[last] = clipToOutline(points[last], points[last-1], shape.BBox.Normalize())
	}
	return points
}

// clipToOutline moves an end point inside box to where the leg towards next
// leaves box.
func clipToOutline(end, next geometry.Point, box geometry.Rect) geometry.Point {
	if !box.ContainsPoint(end) || box.ContainsPoint(next) {
		return end
	}
	crossings := geometry.Ln(end, next).IntersectRect(box)
	if len(crossings) == 0 {
		return end
	}
	best := crossings[0]
	for _, p := range crossings[1:] {
		if p.SquaredDistance(next) < best.SquaredDistance(next) {
			best = p
		}
	}
	return best
}
