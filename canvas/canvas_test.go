package canvas

import (
	"errors"
	"strings"
	"testing"
)

func newCanvas(t *testing.T, w, h int, style Style) *Canvas {
	t.Helper()
	c, err := New(w, h, style)
	if err != nil {
		t.Fatalf("New(%d, %d) failed: %v", w, h, err)
	}
	return c
}

func TestNew_InvalidSize(t *testing.T) {
	for _, size := range [][2]int{{0, 5}, {5, 0}, {-1, -1}} {
		if _, err := New(size[0], size[1], Unicode); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("New(%v) = %v, want ErrInvalidSize", size, err)
		}
	}
}

func TestCanvas_Drawing(t *testing.T) {
	tests := []struct {
		name  string
		w, h  int
		style Style
		draw  func(c *Canvas)
		want  []string
	}{
		{
			name: "box",
			w:    4, h: 3,
			style: Unicode,
			draw:  func(c *Canvas) { c.DrawBox(0, 0, 4, 3) },
			want: []string{
				"┌──┐",
				"│  │",
				"└──┘",
			},
		},
		{
			name: "crossing lines",
			w:    3, h: 3,
			style: Unicode,
			draw: func(c *Canvas) {
				c.DrawHorizontalLine(0, 1, 2)
				c.DrawVerticalLine(1, 0, 2)
			},
			want: []string{
				" │",
				"─┼─",
				" │",
			},
		},
		{
			name: "path with corners and arrow",
			w:    5, h: 3,
			style: Unicode,
			draw: func(c *Canvas) {
				c.DrawPath([]Cell{{0, 0}, {2, 0}, {2, 2}, {4, 2}}, true)
			},
			want: []string{
				"──┐",
				"  │",
				"  └─▶",
			},
		},
		{
			name: "path leaving a box makes a junction",
			w:    5, h: 3,
			style: Unicode,
			draw: func(c *Canvas) {
				c.DrawBox(0, 0, 3, 3)
				c.DrawPath([]Cell{{2, 1}, {4, 1}}, false)
			},
			want: []string{
				"┌─┐",
				"│ ├──",
				"└─┘",
			},
		},
		{
			name: "ascii style",
			w:    4, h: 3,
			style: ASCII,
			draw: func(c *Canvas) {
				c.DrawBox(0, 0, 3, 3)
				c.DrawPath([]Cell{{1, 1}, {3, 1}, {3, 0}}, true)
			},
			want: []string{
				"+-+^",
				"|-++",
				"+-+",
			},
		},
		{
			name: "text is not merged and clips",
			w:    6, h: 1,
			style: Unicode,
			draw: func(c *Canvas) {
				c.DrawText(1, 0, "label!!")
				c.DrawHorizontalLine(0, 0, 5)
			},
			want: []string{"─label"},
		},
		{
			name: "wide characters take two cells",
			w:    6, h: 1,
			style: Unicode,
			draw:  func(c *Canvas) { c.DrawText(0, 0, "日本x") },
			want:  []string{"日本x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCanvas(t, tt.w, tt.h, tt.style)
			tt.draw(c)
			got := c.String()
			want := strings.Join(tt.want, "\n")
			if got != want {
				t.Errorf("got:\n%s\nwant:\n%s", got, want)
			}
		})
	}
}

func TestCanvas_SetGet(t *testing.T) {
	c := newCanvas(t, 3, 3, Unicode)
	if err := c.Set(Cell{1, 1}, 'x'); err != nil {
		t.Fatal(err)
	}
	if c.Get(Cell{1, 1}) != 'x' {
		t.Errorf("Get = %q", c.Get(Cell{1, 1}))
	}
	if err := c.Set(Cell{3, 0}, 'x'); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Set outside = %v", err)
	}
	if c.Get(Cell{-1, 0}) != ' ' {
		t.Error("Get outside should be a space")
	}

	// fixed cells survive line drawing
	c.DrawHorizontalLine(0, 1, 2)
	if c.Get(Cell{1, 1}) != 'x' {
		t.Error("line overwrote a fixed cell")
	}

	c.Clear()
	if c.String() != "\n\n" {
		t.Errorf("Clear left %q", c.String())
	}
}

func TestMaskOf(t *testing.T) {
	tests := []struct {
		r    rune
		want Mask
		ok   bool
	}{
		{'─', East | West, true},
		{'│', North | South, true},
		{'┌', East | South, true},
		{'┼', North | East | South | West, true},
		{'-', East | West, true},
		{'+', North | East | South | West, true},
		{'x', 0, false},
		{' ', 0, false},
	}
	for _, tt := range tests {
		got, ok := MaskOf(tt.r)
		if got != tt.want || ok != tt.ok {
			t.Errorf("MaskOf(%q) = %v, %v; want %v, %v", tt.r, got, ok, tt.want, tt.ok)
		}
	}
	if !IsArrow('▶') || !IsArrow('v') || IsArrow('─') {
		t.Error("IsArrow misclassifies")
	}
	if TextWidth("日本x") != 5 {
		t.Errorf("TextWidth = %d", TextWidth("日本x"))
	}
}
