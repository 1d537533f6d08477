// Package canvas is a character grid for drawing scenes and routes as text.
// Line cells remember which neighbours they connect to, so crossing and
// touching lines resolve to the right junction glyph whatever the drawing
// order.
package canvas

import (
	"errors"
	"strings"
)

// Common errors
var (
	ErrOutOfBounds = errors.New("position out of bounds")
	ErrInvalidSize = errors.New("invalid canvas size")
)

// Cell is a character position. Origin is top-left, Y grows downward.
type Cell struct {
	X, Y int
}

type cell struct {
	r     rune
	mask  Mask
	fixed bool // text or arrow; line drawing leaves it alone
}

// Canvas is a fixed-size character grid. It is not safe for concurrent
// writes.
type Canvas struct {
	cells  [][]cell
	width  int
	height int
	style  Style
}

// New creates a blank canvas drawing lines in style.
func New(width, height int, style Style) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidSize
	}
	cells := make([][]cell, height)
	for y := range cells {
		cells[y] = make([]cell, width)
	}
	c := &Canvas{cells: cells, width: width, height: height, style: style}
	c.Clear()
	return c, nil
}

// Size returns the width and height of the canvas.
func (c *Canvas) Size() (width, height int) {
	return c.width, c.height
}

func (c *Canvas) inside(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// Get returns the character at p, or a space outside the canvas.
func (c *Canvas) Get(p Cell) rune {
	if !c.inside(p.X, p.Y) {
		return ' '
	}
	return c.cells[p.Y][p.X].r
}

// Set places a character at p. The cell stops taking part in junctions.
func (c *Canvas) Set(p Cell, r rune) error {
	if !c.inside(p.X, p.Y) {
		return ErrOutOfBounds
	}
	c.cells[p.Y][p.X] = cell{r: r, fixed: true}
	return nil
}

// connect adds directions to the line mask at (x, y). Points outside the
// canvas are clipped.
func (c *Canvas) connect(x, y int, m Mask) {
	if !c.inside(x, y) {
		return
	}
	cl := &c.cells[y][x]
	if cl.fixed {
		return
	}
	cl.mask |= m
	cl.r = c.style.Glyph(cl.mask)
}

// Clear resets the canvas to spaces.
func (c *Canvas) Clear() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = cell{r: ' '}
		}
	}
}

// Lines returns the rows with trailing spaces removed.
func (c *Canvas) Lines() []string {
	lines := make([]string, c.height)
	var sb strings.Builder
	for y, row := range c.cells {
		sb.Reset()
		for _, cl := range row {
			if cl.r == continuation {
				continue
			}
			sb.WriteRune(cl.r)
		}
		lines[y] = strings.TrimRight(sb.String(), " ")
	}
	return lines
}

// String returns the canvas rows joined by newlines.
func (c *Canvas) String() string {
	return strings.Join(c.Lines(), "\n")
}
