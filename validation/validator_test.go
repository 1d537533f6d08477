package validation

import (
	"linkroute/canvas"
	"strings"
	"testing"
)

func TestLineValidator(t *testing.T) {
	tests := []struct {
		name    string
		diagram string
		strict  bool
		want    int
		errMsg  string
	}{
		{
			name:    "closed box",
			diagram: "┌─┐\n│ │\n└─┘",
		},
		{
			name:    "ascii box",
			diagram: "+-+\n| |\n+-+",
		},
		{
			name:    "broken horizontal line",
			diagram: "──│──",
			want:    2,
			errMsg:  "Line cannot connect",
		},
		{
			name:    "broken vertical line",
			diagram: "│\n─\n│",
			want:    2,
			errMsg:  "Line cannot connect",
		},
		{
			name:    "corner facing a vertical line",
			diagram: "┌│",
			want:    1,
			errMsg:  "Line cannot connect",
		},
		{
			name:    "arrow fed from behind",
			diagram: "──▶",
		},
		{
			name:    "arrow beside a vertical line",
			diagram: "│▶",
			want:    1,
			errMsg:  "Arrow is not fed",
		},
		{
			name:    "arrow on a crossing line",
			diagram: "│\n▶\n│",
		},
		{
			name:    "line running into an arrow tip",
			diagram: "─◀",
			want:    1,
			errMsg:  "cannot end in",
		},
		{
			name:    "labels are text",
			diagram: "┌──────┐\n│ move │\n└──────┘",
		},
		{
			name:    "open line ends pass by default",
			diagram: "───",
		},
		{
			name:    "open line ends fail in strict mode",
			diagram: "───",
			strict:  true,
			want:    2,
			errMsg:  "ends open",
		},
		{
			name:    "wide characters take two columns",
			diagram: "日┐\n  ─",
			want:    1,
			errMsg:  "on the south",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewLineValidator()
			v.SetStrictMode(tt.strict)
			errs := v.Validate(tt.diagram)

			if len(errs) != tt.want {
				t.Fatalf("got %d errors, want %d: %v", len(errs), tt.want, errs)
			}
			for _, err := range errs {
				if !strings.Contains(err.Message, tt.errMsg) {
					t.Errorf("error %v does not mention %q", err, tt.errMsg)
				}
			}
		})
	}
}

func TestLineValidator_CanvasOutput(t *testing.T) {
	for _, style := range []canvas.Style{canvas.Unicode, canvas.ASCII} {
		c, err := canvas.New(10, 5, style)
		if err != nil {
			t.Fatal(err)
		}
		c.DrawBox(0, 0, 4, 3)
		c.DrawBox(5, 2, 4, 3)
		c.DrawPath([]canvas.Cell{{X: 3, Y: 1}, {X: 9, Y: 1}, {X: 9, Y: 4}}, true)
		c.DrawHorizontalLine(0, 4, 3)

		if errs := NewLineValidator().Validate(c.String()); len(errs) > 0 {
			t.Errorf("rendered canvas has errors:\n%s\n%v", c.String(), errs)
		}
	}
}

func TestValidationError_String(t *testing.T) {
	e := ValidationError{X: 1, Y: 2, Char: '─', Context: "east=│", Message: "broken"}
	if got := e.String(); got != "(1,2) '─' [east=│]: broken" {
		t.Errorf("String() = %q", got)
	}
}
