package pathfinding

import (
	"encoding/json"
	"errors"
	"linkroute/core"
	"linkroute/geometry"
	"math"
	"reflect"
	"strings"
	"testing"
)

var (
	rectA = geometry.R(20, 30, 120, 80)
	rectB = geometry.R(320, 30, 120, 80)
	rectC = geometry.R(620, 30, 120, 80)

	rectAMoved = geometry.R(20, 80, 120, 80)
	rectCMoved = geometry.R(620, -20, 120, 80)
)

// zeroPadOptions routes on a 20 unit grid without padding around shapes.
func zeroPadOptions() Options {
	opts := DefaultOptions()
	opts.Step = 20
	opts.PaddingBox = &geometry.Rect{}
	return opts
}

func pts(coords ...float64) []geometry.Point {
	points := make([]geometry.Point, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		points = append(points, geometry.Pt(coords[i], coords[i+1]))
	}
	return points
}

func samePoints(a, b []geometry.Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i].X-b[i].X) > 1e-9 || math.Abs(a[i].Y-b[i].Y) > 1e-9 {
			return false
		}
	}
	return true
}

// findRoute routes from the centre of src to the centre of dst. Both boxes
// and every obstacle are padded with the options' padding box.
func findRoute(t *testing.T, opts Options, src, dst geometry.Rect, obstacles ...geometry.Rect) ([]geometry.Point, error) {
	t.Helper()
	pad := opts.PaddingRect()

	padded := make([]geometry.Rect, len(obstacles))
	for i, r := range obstacles {
		padded[i] = r.MoveAndExpand(pad)
	}

	m, err := NewManhattan(opts, RectChecker(padded...))
	if err != nil {
		t.Fatalf("NewManhattan failed: %v", err)
	}
	route, _, err := m.FindRoute(
		BoxEndpoint{Box: src.MoveAndExpand(pad), Anchor: src.Center()},
		BoxEndpoint{Box: dst.MoveAndExpand(pad), Anchor: dst.Center()},
		Heading{},
	)
	return route, err
}

func TestManhattan_FindRoute(t *testing.T) {
	withPadding := DefaultOptions()
	withPadding.Step = 20
	withPadding.PaddingBox = &geometry.Rect{X: -20, Y: -20, Width: 40, Height: 40}

	sideways := zeroPadOptions()
	sideways.StartDirections = []core.Direction{core.West}
	sideways.EndDirections = []core.Direction{core.East}

	tests := []struct {
		name      string
		opts      Options
		src, dst  geometry.Rect
		obstacles []geometry.Rect
		want      []geometry.Point
	}{
		{
			name:      "detour above obstacle",
			opts:      zeroPadOptions(),
			src:       rectA,
			dst:       rectC,
			obstacles: []geometry.Rect{rectA, rectB, rectC},
			want:      pts(300, 70, 300, 10, 600, 10, 600, 70),
		},
		{
			name:      "source moved down",
			opts:      zeroPadOptions(),
			src:       rectAMoved,
			dst:       rectC,
			obstacles: []geometry.Rect{rectAMoved, rectB, rectC},
			want:      pts(600, 120, 600, 70),
		},
		{
			name:      "target moved up",
			opts:      zeroPadOptions(),
			src:       rectAMoved,
			dst:       rectCMoved,
			obstacles: []geometry.Rect{rectAMoved, rectB, rectCMoved},
			want:      pts(600, 120, 600, 20),
		},
		{
			name:      "padding box",
			opts:      withPadding,
			src:       rectAMoved,
			dst:       rectCMoved,
			obstacles: []geometry.Rect{rectAMoved, rectB, rectCMoved},
			want:      pts(280, 120, 280, 0, 580, 0, 580, 20),
		},
		{
			name:      "start and end directions",
			opts:      sideways,
			src:       rectA,
			dst:       rectC,
			obstacles: []geometry.Rect{rectA, rectC},
			want:      pts(0, 70, 0, 10, 760, 10, 760, 70),
		},
		{
			name:      "default options",
			opts:      DefaultOptions(),
			src:       rectA,
			dst:       rectC,
			obstacles: []geometry.Rect{rectA, rectB, rectC},
			want:      pts(300, 70, 300, 130, 600, 130, 600, 70),
		},
		{
			name: "open space is a straight line",
			opts: DefaultOptions(),
			src:  rectA,
			dst:  rectC,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := findRoute(t, tt.opts, tt.src, tt.dst, tt.obstacles...)
			if err != nil {
				t.Fatalf("FindRoute failed: %v", err)
			}
			if !samePoints(got, tt.want) {
				t.Errorf("FindRoute() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestManhattan_Deterministic(t *testing.T) {
	obstacles := []geometry.Rect{rectA, rectB, rectC}
	first, err := findRoute(t, DefaultOptions(), rectA, rectC, obstacles...)
	if err != nil {
		t.Fatalf("FindRoute failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := findRoute(t, DefaultOptions(), rectA, rectC, obstacles...)
		if err != nil {
			t.Fatalf("FindRoute failed: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d: %v differs from %v", i, again, first)
		}
	}
}

func TestManhattan_LoopLimit(t *testing.T) {
	opts := zeroPadOptions()
	opts.MaximumLoops = 1

	_, err := findRoute(t, opts, rectAMoved, rectCMoved, rectAMoved, rectB, rectCMoved)
	if !errors.Is(err, ErrNoRoute) {
		t.Fatalf("expected ErrNoRoute, got %v", err)
	}
	var searchErr *SearchError
	if !errors.As(err, &searchErr) {
		t.Fatalf("expected *SearchError, got %T", err)
	}
	if searchErr.Reason != "loop limit reached" || searchErr.Loops != 1 {
		t.Errorf("unexpected search error: %+v", searchErr)
	}
	if searchErr.Start != rectAMoved.Center() || searchErr.End != rectCMoved.Center() {
		t.Errorf("search error anchors = %v, %v", searchErr.Start, searchErr.End)
	}
}

func TestManhattan_NoAccessibleEndPoint(t *testing.T) {
	m, err := NewManhattan(DefaultOptions(), RectChecker(geometry.R(90, -10, 20, 20)))
	if err != nil {
		t.Fatal(err)
	}
	_, heading, err := m.FindRoute(PointEndpoint{Point: geometry.Pt(0, 0)}, PointEndpoint{Point: geometry.Pt(100, 0)}, Heading{Angle: 90, Known: true})
	if !errors.Is(err, ErrNoRoute) || !strings.Contains(err.Error(), "no accessible") {
		t.Fatalf("expected inaccessible end error, got %v", err)
	}
	if heading != (Heading{Angle: 90, Known: true}) {
		t.Errorf("heading changed on failure: %+v", heading)
	}
}

// Identical start and end candidates must not produce a zero-length route on
// the first pop. Every candidate is closed before it can be reached again,
// so the search runs out of loops and the caller falls back.
func TestManhattan_SamePointsSkipEndCheck(t *testing.T) {
	box := geometry.R(0, 0, 50, 50)
	_, err := findRoute(t, DefaultOptions(), box, box, box, box)
	var searchErr *SearchError
	if !errors.As(err, &searchErr) {
		t.Fatalf("expected search failure, got %v", err)
	}
	if searchErr.Reason != "loop limit reached" {
		t.Errorf("Reason = %q", searchErr.Reason)
	}

	// A free point routed to itself behaves the same way.
	m, _ := NewManhattan(DefaultOptions(), nil)
	p := PointEndpoint{Point: geometry.Pt(5, 5)}
	if _, _, err := m.FindRoute(p, p, Heading{}); !errors.Is(err, ErrNoRoute) {
		t.Errorf("point to itself: expected ErrNoRoute, got %v", err)
	}

	// Candidate lists that merely share a point finish on the first pop.
	route, heading, err := m.FindRoute(
		BoxEndpoint{Box: geometry.R(0, 0, 50, 50), Anchor: geometry.Pt(25, 25)},
		PointEndpoint{Point: geometry.Pt(25, -5)},
		Heading{},
	)
	if err != nil {
		t.Fatalf("shared candidate: %v", err)
	}
	if !samePoints(route, pts(25, -5)) || heading.Angle != 90 {
		t.Errorf("shared candidate: route %v heading %+v", route, heading)
	}
}

func TestManhattan_HeadingCarried(t *testing.T) {
	m, _ := NewManhattan(DefaultOptions(), nil)

	// Leaving the start anchor is free; the heading of the last move is
	// reported: 270 degrees is downwards on screen.
	route, heading, err := m.FindRoute(PointEndpoint{Point: geometry.Pt(0, 0)}, PointEndpoint{Point: geometry.Pt(0, 100)}, Heading{})
	if err != nil {
		t.Fatal(err)
	}
	// Free points are part of the route when the direction changes there.
	if !samePoints(route, pts(0, 0, 0, 100)) {
		t.Errorf("route = %v", route)
	}
	if !heading.Known || heading.Angle != 270 {
		t.Errorf("heading = %+v, want 270", heading)
	}

	// Arriving eastwards, a target straight behind the start cannot be
	// reached without a U-turn, which the direction limit forbids at the
	// first step; the route has to bend.
	route, heading, err = m.FindRoute(PointEndpoint{Point: geometry.Pt(0, 0)}, PointEndpoint{Point: geometry.Pt(-100, 0)}, Heading{Angle: 0, Known: true})
	if err != nil {
		t.Fatal(err)
	}
	if !samePoints(route, pts(0, 0, 0, 10, -100, 10, -100, 0)) {
		t.Errorf("route = %v, expected a detour around the forbidden U-turn", route)
	}
	if heading.Angle != 90 {
		t.Errorf("heading = %+v, want 90", heading)
	}
}

// asciiObstacles converts a character map into obstacles: every '#' at
// column c and row r blocks the 10x10 cell centred on (10c, 10r). 'S' and
// 'T' mark the start and the target.
func asciiObstacles(lines ...string) (rects []geometry.Rect, start, target geometry.Point) {
	for r, line := range lines {
		for c, ch := range line {
			p := geometry.Pt(float64(c*10), float64(r*10))
			switch ch {
			case '#':
				rects = append(rects, geometry.R(p.X-5, p.Y-5, 10, 10))
			case 'S':
				start = p
			case 'T':
				target = p
			}
		}
	}
	return rects, start, target
}

// crossesInterior reports whether the axis-aligned segment a-b enters the
// open interior of r.
func crossesInterior(a, b geometry.Point, r geometry.Rect) bool {
	minX, maxX := math.Min(a.X, b.X), math.Max(a.X, b.X)
	minY, maxY := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	return minX < r.X+r.Width && maxX > r.X && minY < r.Y+r.Height && maxY > r.Y
}

func TestManhattan_DetoursAroundWall(t *testing.T) {
	rects, start, target := asciiObstacles(
		"..........",
		"S....#...T",
		".....#....",
		".....#....",
		"..........",
	)

	m, err := NewManhattan(DefaultOptions(), RectChecker(rects...))
	if err != nil {
		t.Fatal(err)
	}
	route, _, err := m.FindRoute(PointEndpoint{Point: start}, PointEndpoint{Point: target}, Heading{})
	if err != nil {
		t.Fatalf("FindRoute failed: %v", err)
	}
	if !samePoints(route, pts(0, 10, 40, 10, 40, 0, 90, 0, 90, 10)) {
		t.Errorf("route = %v", route)
	}

	polyline := append(append([]geometry.Point{start}, route...), target)
	for i := 1; i < len(polyline); i++ {
		a, b := polyline[i-1], polyline[i]
		if a.X != b.X && a.Y != b.Y {
			t.Errorf("segment %v-%v is not axis aligned", a, b)
		}
		for _, r := range rects {
			if crossesInterior(a, b, r) {
				t.Errorf("segment %v-%v crosses obstacle %v", a, b, r)
			}
		}
	}
}

func TestGridDimension(t *testing.T) {
	tests := []struct {
		diff, step, want float64
	}{
		{0, 10, 10},
		{4, 10, 4},
		{-4, 10, 4},
		{100, 10, 10},
		{105, 10, 105.0 / 11},
		{-95, 10, 9.5},
	}
	for _, tt := range tests {
		if got := gridDimension(tt.diff, tt.step); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("gridDimension(%v, %v) = %v, want %v", tt.diff, tt.step, got, tt.want)
		}
	}
}

func TestDirectionAngle(t *testing.T) {
	g := newGrid(10, geometry.Pt(0, 0), geometry.Pt(105, 0))
	origin := geometry.Pt(0, 0)

	tests := []struct {
		to   geometry.Point
		want float64
	}{
		{geometry.Pt(g.x, 0), 0},
		{geometry.Pt(-g.x, 0), 180},
		{geometry.Pt(0, -10), 90},
		{geometry.Pt(0, 10), 270},
		{geometry.Pt(g.x, -10), 90}, // one cell in both axes reads as 45 and is quantised up
	}
	for _, tt := range tests {
		if got := directionAngle(origin, tt.to, g, 10); got != tt.want {
			t.Errorf("directionAngle(%v) = %v, want %v", tt.to, got, tt.want)
		}
	}

	if got := directionChange(0, 270); got != 90 {
		t.Errorf("directionChange(0, 270) = %v, want 90", got)
	}
	if got := directionChange(180, 0); got != 180 {
		t.Errorf("directionChange(180, 0) = %v, want 180", got)
	}
}

func TestOptions_Validate(t *testing.T) {
	if err := DefaultOptions().Validate(); err != nil {
		t.Fatalf("defaults rejected: %v", err)
	}

	bad := DefaultOptions()
	bad.Step = 0
	bad.MaximumLoops = -1
	bad.MaxAllowedDirectionChange = 270
	bad.StartDirections = []core.Direction{core.NoDirection}

	err := bad.Validate()
	if !errors.Is(err, ErrInvalidOptions) {
		t.Fatalf("expected ErrInvalidOptions, got %v", err)
	}
	for _, want := range []string{"step", "maximumLoops", "maxAllowedDirectionChange", "startDirections"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}

	if _, err := NewManhattan(bad, nil); !errors.Is(err, ErrInvalidOptions) {
		t.Errorf("NewManhattan accepted invalid options: %v", err)
	}
}

func TestOptions_Padding(t *testing.T) {
	opts := DefaultOptions()
	if got := opts.PaddingRect(); got != geometry.R(-10, -10, 20, 20) {
		t.Errorf("default PaddingRect() = %v", got)
	}

	opts.PaddingBox = &geometry.Rect{X: -1, Y: -2, Width: 3, Height: 4}
	if got := opts.PaddingRect(); got != *opts.PaddingBox {
		t.Errorf("PaddingRect() = %v, want padding box", got)
	}

	opts.Padding = &Sides{Top: 1, Right: 2, Bottom: 3, Left: 4}
	if got := opts.PaddingRect(); got != geometry.R(-4, -1, 6, 4) {
		t.Errorf("PaddingRect() = %v, padding should win", got)
	}
	if got := opts.ElementPadding(); got != *opts.Padding {
		t.Errorf("ElementPadding() = %v", got)
	}
	if got := DefaultOptions().ElementPadding(); got != UniformSides(DefaultElementPadding) {
		t.Errorf("default ElementPadding() = %v", got)
	}

	// An explicit zero padding turns the padding box off.
	opts = DefaultOptions()
	opts.Padding = &Sides{}
	if got := opts.PaddingRect(); got != (geometry.Rect{}) {
		t.Errorf("zero padding PaddingRect() = %v, want empty", got)
	}
	if got := opts.ElementPadding(); got != UniformSides(DefaultElementPadding) {
		t.Errorf("zero padding ElementPadding() = %v", got)
	}
}

func TestOptions_JSON(t *testing.T) {
	opts := DefaultOptions()
	opts.Penalties = map[float64]float64{0: 0, 90: 3}
	data, err := json.Marshal(opts)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if strings.Contains(string(data), "penalties") {
		t.Errorf("penalties encoded: %s", data)
	}
	var back Options
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if back.Step != opts.Step || back.Penalties != nil {
		t.Errorf("decoded %+v", back)
	}
}

func TestPenaltyTable(t *testing.T) {
	table := newPenaltyTable(DefaultOptions())
	tests := map[float64]float64{0: 0, 45: 5, 90: 5, 60: 5, 180: 5}
	for change, want := range tests {
		if got := table.cost(change); got != want {
			t.Errorf("cost(%v) = %v, want %v", change, got, want)
		}
	}

	custom := DefaultOptions()
	custom.Penalties = map[float64]float64{90: 7}
	if got := newPenaltyTable(custom).cost(0); got != 0 {
		t.Errorf("change below every entry costs %v, want 0", got)
	}
}
