package export

import (
	"fmt"
	"io"
	"linkroute/canvas"
	"linkroute/geometry"
	"math"
)

// ASCIIExporter draws scenes as box-drawing text art.
type ASCIIExporter struct {
	opts Options
}

// NewASCIIExporter creates a text exporter.
func NewASCIIExporter(opts Options) *ASCIIExporter {
	return &ASCIIExporter{opts: opts}
}

// Export writes the drawing of doc followed by a newline.
func (e *ASCIIExporter) Export(w io.Writer, doc Document) error {
	c, err := e.Render(doc)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, c.String())
	return err
}

// Render draws doc onto a canvas sized to fit it. Shapes are boxes labelled
// with their label or id; routes end in an arrow head at the target.
func (e *ASCIIExporter) Render(doc Document) (*canvas.Canvas, error) {
	bounds := Bounds(doc, e.opts.Margin)
	scale := e.opts.Scale
	toCell := func(p geometry.Point) canvas.Cell {
		return canvas.Cell{
			X: int(math.Round((p.X - bounds.X) / scale)),
			Y: int(math.Round((p.Y - bounds.Y) / scale)),
		}
	}

	width := int(math.Ceil(bounds.Width/scale)) + 1
	height := int(math.Ceil(bounds.Height/scale)) + 1
	c, err := canvas.New(width, height, e.opts.Style)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	if doc.Scene != nil {
		for _, shape := range doc.Scene.Shapes {
			box := shape.BBox.Normalize()
			tl, br := toCell(box.Origin()), toCell(box.Corner())
			w, h := br.X-tl.X+1, br.Y-tl.Y+1
			c.DrawBox(tl.X, tl.Y, w, h)

			label := shape.Label
			if label == "" {
				label = shape.ID
			}
			if tw := canvas.TextWidth(label); h >= 3 && tw <= w-2 {
				c.DrawText(tl.X+(w-tw)/2, tl.Y+h/2, label)
			}
		}
	}

	for _, route := range doc.Routes {
		var cells []canvas.Cell
		for _, p := range VisiblePolyline(doc.Scene, route) {
			cell := toCell(p)
			if n := len(cells); n > 0 && cells[n-1] == cell {
				continue
			}
			cells = append(cells, cell)
		}
		c.DrawPath(cells, true)
	}
	return c, nil
}

// GetFileExtension returns the recommended file extension
func (e *ASCIIExporter) GetFileExtension() string {
	return ".txt"
}

// GetFormatName returns the format name
func (e *ASCIIExporter) GetFormatName() string {
	return "ASCII"
}
