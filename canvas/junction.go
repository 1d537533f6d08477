package canvas

// Mask is the set of neighbours a line cell connects to.
type Mask uint8

const (
	North Mask = 1 << iota
	East
	South
	West
)

// continuation marks the second column of a wide character.
const continuation = '\x00'

// Style maps line masks and arrow headings to glyphs.
type Style struct {
	glyphs [16]rune
	arrows [4]rune // north, east, south, west
}

// Unicode draws with box-drawing characters.
var Unicode = Style{
	glyphs: [16]rune{
		' ', '│', '─', '└',
		'│', '│', '┌', '├',
		'─', '┘', '─', '┴',
		'┐', '┤', '┬', '┼',
	},
	arrows: [4]rune{'▲', '▶', '▼', '◀'},
}

// ASCII draws with -, | and +.
var ASCII = Style{
	glyphs: [16]rune{
		' ', '|', '-', '+',
		'|', '|', '+', '+',
		'-', '+', '-', '+',
		'+', '+', '+', '+',
	},
	arrows: [4]rune{'^', '>', 'v', '<'},
}

// Glyph returns the character for a combination of connections.
func (s Style) Glyph(m Mask) rune {
	return s.glyphs[m&0xF]
}

// Arrow returns the arrow head pointing towards d, which must be a single
// direction.
func (s Style) Arrow(d Mask) rune {
	switch d {
	case North:
		return s.arrows[0]
	case East:
		return s.arrows[1]
	case South:
		return s.arrows[2]
	default:
		return s.arrows[3]
	}
}

// IsArrow reports whether r is an arrow head of either style.
func IsArrow(r rune) bool {
	_, ok := ArrowHeading(r)
	return ok
}

// ArrowHeading returns the direction an arrow head of either style points to.
func ArrowHeading(r rune) (Mask, bool) {
	for _, s := range []Style{Unicode, ASCII} {
		for i, a := range s.arrows {
			if a == r {
				return North << i, true
			}
		}
	}
	return 0, false
}

// MaskOf returns the connections drawn by a line glyph of either style.
// ASCII corners and junctions are ambiguous and report every direction.
func MaskOf(r rune) (Mask, bool) {
	for m, g := range Unicode.glyphs {
		if g == r && r != ' ' {
			return canonical(Mask(m)), true
		}
	}
	switch r {
	case '-':
		return East | West, true
	case '|':
		return North | South, true
	case '+':
		return North | East | South | West, true
	}
	return 0, false
}

// canonical widens single-ended stubs to the straight line they render as.
func canonical(m Mask) Mask {
	switch m {
	case North, South:
		return North | South
	case East, West:
		return East | West
	}
	return m
}
