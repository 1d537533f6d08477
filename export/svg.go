package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// SVGExporter writes a vector image in scene units.
type SVGExporter struct {
	opts Options
}

// NewSVGExporter creates an SVG exporter.
func NewSVGExporter(opts Options) *SVGExporter {
	return &SVGExporter{opts: opts}
}

// Export writes doc as a standalone SVG document. Fallback routes are
// dashed and obstacle boxes, when present, are drawn as light outlines.
func (e *SVGExporter) Export(w io.Writer, doc Document) error {
	b := Bounds(doc, e.opts.Margin)
	bw := bufio.NewWriter(w)
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(bw, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%g\" height=\"%g\" viewBox=\"%g %g %g %g\">\n",
		b.Width, b.Height, b.X, b.Y, b.Width, b.Height)
	wf("  <defs><marker id=\"arrow\" viewBox=\"0 0 10 10\" refX=\"10\" refY=\"5\" markerWidth=\"8\" markerHeight=\"8\" orient=\"auto-start-reverse\"><path d=\"M 0 0 L 10 5 L 0 10 z\" fill=\"#333\"/></marker></defs>\n")
	wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"#ffffff\"/>\n", b.X, b.Y, b.Width, b.Height)

	for _, o := range doc.Obstacles {
		wf("  <rect class=\"obstacle\" x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"none\" stroke=\"#e0b0b0\" stroke-width=\"0.5\"/>\n",
			o.X, o.Y, o.Width, o.Height)
	}

	if doc.Scene != nil {
		for _, s := range doc.Scene.Shapes {
			r := s.BBox.Normalize()
			wf("  <rect id=\"%s\" x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"#f5f5f5\" stroke=\"#333\" stroke-width=\"1\"/>\n",
				escAttr(s.ID), r.X, r.Y, r.Width, r.Height)
			label := s.Label
			if label == "" {
				label = s.ID
			}
			c := r.Center()
			wf("  <text x=\"%g\" y=\"%g\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"12\" text-anchor=\"middle\" dominant-baseline=\"middle\" fill=\"#000\">%s</text>\n",
				c.X, c.Y, escText(label))
		}
	}

	for _, route := range doc.Routes {
		points := VisiblePolyline(doc.Scene, route)
		coords := make([]string, len(points))
		for i, p := range points {
			coords[i] = fmt.Sprintf("%g,%g", p.X, p.Y)
		}
		dash := ""
		if route.Fallback {
			dash = " stroke-dasharray=\"4 2\""
		}
		wf("  <polyline data-link=\"%s\" points=\"%s\" fill=\"none\" stroke=\"#333\" stroke-width=\"1.5\"%s marker-end=\"url(#arrow)\"/>\n",
			escAttr(route.LinkID), strings.Join(coords, " "), dash)
	}

	wf("</svg>\n")
	if werr != nil {
		return fmt.Errorf("build svg: %w", werr)
	}
	return bw.Flush()
}

// GetFileExtension returns the file extension for SVG
func (e *SVGExporter) GetFileExtension() string {
	return ".svg"
}

// GetFormatName returns the format name
func (e *SVGExporter) GetFormatName() string {
	return "SVG"
}

var (
	attrEscaper = strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", "\n", " ", "\r", "")
	textEscaper = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;")
)

func escAttr(s string) string { return attrEscaper.Replace(s) }

func escText(s string) string { return textEscaper.Replace(s) }
