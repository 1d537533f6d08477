package canvas

import (
	"github.com/mattn/go-runewidth"
)

// DrawHorizontalLine connects the cells from x1 to x2 on row y.
func (c *Canvas) DrawHorizontalLine(x1, y, x2 int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := x1; x < x2; x++ {
		c.connect(x, y, East)
		c.connect(x+1, y, West)
	}
}

// DrawVerticalLine connects the cells from y1 to y2 in column x.
func (c *Canvas) DrawVerticalLine(x, y1, y2 int) {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y < y2; y++ {
		c.connect(x, y, South)
		c.connect(x, y+1, North)
	}
}

// DrawBox draws the outline of a width by height box with its top-left
// corner at (x, y). Boxes narrower or shorter than two cells collapse to a
// line.
func (c *Canvas) DrawBox(x, y, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	right, bottom := x+width-1, y+height-1
	c.DrawHorizontalLine(x, y, right)
	c.DrawHorizontalLine(x, bottom, right)
	c.DrawVerticalLine(x, y, bottom)
	c.DrawVerticalLine(right, y, bottom)
}

// DrawPath draws an orthogonal polyline. A diagonal step is drawn as a
// horizontal then a vertical leg. With arrow set, the last cell becomes an
// arrow head pointing along the last non-empty leg.
func (c *Canvas) DrawPath(points []Cell, arrow bool) {
	if len(points) < 2 {
		return
	}
	heading := Mask(0)
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		if a.X != b.X {
			c.DrawHorizontalLine(a.X, a.Y, b.X)
			heading = East
			if b.X < a.X {
				heading = West
			}
		}
		if a.Y != b.Y {
			c.DrawVerticalLine(b.X, a.Y, b.Y)
			heading = South
			if b.Y < a.Y {
				heading = North
			}
		}
	}
	if arrow && heading != 0 {
		c.Set(points[len(points)-1], c.style.Arrow(heading))
	}
}

// DrawText writes text starting at (x, y), clipping at the canvas edges.
// Wide characters take two cells; zero-width ones are dropped.
func (c *Canvas) DrawText(x, y int, text string) {
	if y < 0 || y >= c.height {
		return
	}
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > c.width {
			return
		}
		if x >= 0 {
			c.cells[y][x] = cell{r: r, fixed: true}
			if w == 2 {
				c.cells[y][x+1] = cell{r: continuation, fixed: true}
			}
		}
		x += w
	}
}

// TextWidth returns the number of cells text occupies.
func TextWidth(text string) int {
	return runewidth.StringWidth(text)
}
