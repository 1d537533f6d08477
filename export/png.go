package export

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"linkroute/geometry"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

var (
	colorBackground = color.RGBA{255, 255, 255, 255}
	colorShapeFill  = color.RGBA{245, 245, 245, 255}
	colorInk        = color.RGBA{51, 51, 51, 255}    // #333
	colorFallback   = color.RGBA{192, 64, 64, 255}   // #c04040
	colorObstacle   = color.RGBA{224, 176, 176, 255} // #e0b0b0
)

// PNGExporter rasterises doc with anti-aliased strokes.
type PNGExporter struct {
	opts Options
}

// NewPNGExporter creates a PNG exporter.
func NewPNGExporter(opts Options) *PNGExporter {
	return &PNGExporter{opts: opts}
}

// pngCanvas maps scene coordinates to pixels.
type pngCanvas struct {
	img    *image.RGBA
	bounds geometry.Rect
	scale  float64
}

func (c *pngCanvas) px(p geometry.Point) (float32, float32) {
	return float32((p.X - c.bounds.X) * c.scale), float32((p.Y - c.bounds.Y) * c.scale)
}

// fill rasterises the closed polygon through points.
func (c *pngCanvas) fill(col color.Color, points ...geometry.Point) {
	size := c.img.Bounds().Size()
	z := vector.NewRasterizer(size.X, size.Y)
	for i, p := range points {
		x, y := c.px(p)
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
	z.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{})
}

// stroke draws the segment a-b as a quad width scene units wide.
func (c *pngCanvas) stroke(col color.Color, width float64, a, b geometry.Point) {
	l := geometry.Ln(a, b).Length()
	if l == 0 {
		return
	}
	// unit normal scaled to half the width
	nx := -(b.Y - a.Y) / l * width / 2
	ny := (b.X - a.X) / l * width / 2
	c.fill(col, a.Offset(nx, ny), b.Offset(nx, ny), b.Offset(-nx, -ny), a.Offset(-nx, -ny))
}

func (c *pngCanvas) strokeRect(col color.Color, width float64, r geometry.Rect) {
	for _, side := range r.SideLines() {
		c.stroke(col, width, side.Start, side.End)
	}
}

// text draws s centred on p with the 7x13 bitmap face.
func (c *pngCanvas) text(col color.Color, p geometry.Point, s string) {
	d := &font.Drawer{Dst: c.img, Src: image.NewUniform(col), Face: basicfont.Face7x13}
	x, y := c.px(p)
	w := d.MeasureString(s)
	d.Dot = fixed.Point26_6{
		X: fixed.I(int(math.Round(float64(x)))) - w/2,
		Y: fixed.I(int(math.Round(float64(y))) + basicfont.Face7x13.Ascent/2),
	}
	d.DrawString(s)
}

// Export writes doc as a PNG image. Routes produced by the fallback router
// are drawn in red.
func (e *PNGExporter) Export(w io.Writer, doc Document) error {
	b := Bounds(doc, e.opts.Margin)
	scale := e.opts.PixelScale
	width := max(1, int(math.Ceil(b.Width*scale)))
	height := max(1, int(math.Ceil(b.Height*scale)))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: colorBackground}, image.Point{}, draw.Src)
	c := &pngCanvas{img: img, bounds: b, scale: scale}

	for _, o := range doc.Obstacles {
		c.strokeRect(colorObstacle, 0.5, o)
	}

	if doc.Scene != nil {
		for _, s := range doc.Scene.Shapes {
			r := s.BBox.Normalize()
			if r.Empty() {
				continue
			}
			c.fill(colorShapeFill, r.TopLeft(), r.TopRight(), r.BottomRight(), r.BottomLeft())
			c.strokeRect(colorInk, 1, r)
			label := s.Label
			if label == "" {
				label = s.ID
			}
			c.text(colorInk, r.Center(), label)
		}
	}

	for _, route := range doc.Routes {
		col := colorInk
		if route.Fallback {
			col = colorFallback
		}
		points := VisiblePolyline(doc.Scene, route)
		for i := 1; i < len(points); i++ {
			c.stroke(col, 1.5, points[i-1], points[i])
		}
		c.arrowHead(col, points)
	}

	return png.Encode(w, img)
}

// arrowHead draws a filled triangle at the end of the last non-empty leg.
func (c *pngCanvas) arrowHead(col color.Color, points []geometry.Point) {
	const length, half = 8.0, 4.0
	for i := len(points) - 1; i > 0; i-- {
		tip, from := points[i], points[i-1]
		l := geometry.Ln(from, tip).Length()
		if l == 0 {
			continue
		}
		ux, uy := (tip.X-from.X)/l, (tip.Y-from.Y)/l
		base := tip.Offset(-ux*length, -uy*length)
		c.fill(col, tip, base.Offset(-uy*half, ux*half), base.Offset(uy*half, -ux*half))
		return
	}
}

// GetFileExtension returns the file extension for PNG
func (e *PNGExporter) GetFileExtension() string {
	return ".png"
}

// GetFormatName returns the format name
func (e *PNGExporter) GetFormatName() string {
	return "PNG"
}
