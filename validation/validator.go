// Package validation checks routed scenes: the geometry of computed routes
// and the line drawing of their text rendering.
package validation

import (
	"fmt"
	"linkroute/canvas"
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// LineValidator validates that rendered diagrams follow line drawing rules:
// every line glyph that reaches towards a neighbour must be met by a glyph
// reaching back.
type LineValidator struct {
	errors []ValidationError
	// strictMode also reports line ends and arrows facing empty cells
	strictMode bool
}

// ValidationError represents a validation error with location information.
type ValidationError struct {
	X, Y    int
	Char    rune
	Context string
	Message string
}

// NewLineValidator creates a new validator with default settings.
func NewLineValidator() *LineValidator {
	return &LineValidator{}
}

// SetStrictMode enables or disables strict validation.
func (v *LineValidator) SetStrictMode(strict bool) {
	v.strictMode = strict
}

type direction struct {
	mask     canvas.Mask
	opposite canvas.Mask
	dx, dy   int
	name     string
}

var directions = []direction{
	{canvas.North, canvas.South, 0, -1, "north"},
	{canvas.East, canvas.West, 1, 0, "east"},
	{canvas.South, canvas.North, 0, 1, "south"},
	{canvas.West, canvas.East, -1, 0, "west"},
}

func directionOf(m canvas.Mask) direction {
	for _, d := range directions {
		if d.mask == m {
			return d
		}
	}
	return directions[0]
}

// Validate checks a rendered diagram for line drawing errors. Columns are
// counted in cells, so wide characters take two.
func (v *LineValidator) Validate(diagram string) []ValidationError {
	v.errors = nil

	lines := strings.Split(strings.TrimRight(diagram, "\n"), "\n")
	grid := make([][]rune, len(lines))
	for i, line := range lines {
		for _, r := range line {
			grid[i] = append(grid[i], r)
			if runewidth.RuneWidth(r) == 2 {
				grid[i] = append(grid[i], 0)
			}
		}
	}

	for y := range grid {
		for x, char := range grid[y] {
			if heading, ok := arrowHeading(char); ok {
				v.checkArrow(grid, x, y, char, heading)
				continue
			}
			if mask, ok := canvas.MaskOf(char); ok && char != '+' {
				v.checkLine(grid, x, y, char, mask)
			}
		}
	}

	return v.errors
}

// checkLine validates the neighbours a line glyph reaches towards.
func (v *LineValidator) checkLine(grid [][]rune, x, y int, char rune, mask canvas.Mask) {
	for _, d := range directions {
		if mask&d.mask == 0 {
			continue
		}
		n := getChar(grid, x+d.dx, y+d.dy)
		ctx := fmt.Sprintf("%s=%c", d.name, n)

		if heading, ok := arrowHeading(n); ok {
			// arrows may sit on a line they cross, but never point back at it
			if heading == d.opposite {
				v.addError(x, y, char, ctx, "Line cannot end in %c on the %s", n, d.name)
			}
			continue
		}
		if nm, ok := canvas.MaskOf(n); ok {
			if nm&d.opposite == 0 {
				v.addError(x, y, char, ctx, "Line cannot connect to %c on the %s", n, d.name)
			}
			continue
		}
		if v.strictMode {
			v.addError(x, y, char, ctx, "Line ends open on the %s", d.name)
		}
	}
}

// checkArrow validates that an arrow head is fed by a line from behind.
func (v *LineValidator) checkArrow(grid [][]rune, x, y int, char rune, heading canvas.Mask) {
	behind := directionOf(directionOf(heading).opposite)
	n := getChar(grid, x+behind.dx, y+behind.dy)
	ctx := fmt.Sprintf("%s=%c", behind.name, n)

	if nm, ok := canvas.MaskOf(n); ok {
		if nm&behind.opposite == 0 {
			v.addError(x, y, char, ctx, "Arrow is not fed by %c on the %s", n, behind.name)
		}
		return
	}
	if v.strictMode {
		v.addError(x, y, char, ctx, "Arrow has no line on the %s", behind.name)
	}
}

// arrowHeading is canvas.ArrowHeading except that letters are text, so the
// ASCII down arrow 'v' reads as a letter.
func arrowHeading(r rune) (canvas.Mask, bool) {
	if unicode.IsLetter(r) {
		return 0, false
	}
	return canvas.ArrowHeading(r)
}

// getChar safely gets a character from the grid.
func getChar(grid [][]rune, x, y int) rune {
	if y < 0 || y >= len(grid) {
		return ' '
	}
	if x < 0 || x >= len(grid[y]) {
		return ' '
	}
	return grid[y][x]
}

// addError adds a validation error.
func (v *LineValidator) addError(x, y int, char rune, context, format string, args ...any) {
	v.errors = append(v.errors, ValidationError{
		X:       x,
		Y:       y,
		Char:    char,
		Context: context,
		Message: fmt.Sprintf(format, args...),
	})
}

// String formats validation errors as a string.
func (e ValidationError) String() string {
	return fmt.Sprintf("(%d,%d) '%c' [%s]: %s", e.X, e.Y, e.Char, e.Context, e.Message)
}
