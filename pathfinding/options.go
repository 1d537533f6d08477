package pathfinding

import (
	"errors"
	"fmt"
	"linkroute/core"
	"linkroute/geometry"
	"linkroute/obstacles"
	"math"
	"slices"
	"sort"
)

// ErrInvalidOptions is returned for router options that cannot be used.
var ErrInvalidOptions = errors.New("invalid router options")

// Default router settings.
const (
	DefaultStep                      = 10
	DefaultMaximumLoops              = 2000
	DefaultPrecision                 = 1
	DefaultMaxAllowedDirectionChange = 90
	DefaultElementPadding            = 20
)

// Sides holds a padding per rectangle side.
type Sides struct {
	Top    float64 `json:"top" yaml:"top"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
	Left   float64 `json:"left" yaml:"left"`
}

// UniformSides pads every side by v.
func UniformSides(v float64) Sides {
	return Sides{Top: v, Right: v, Bottom: v, Left: v}
}

// Box converts the padding to a move-and-expand delta rectangle.
func (s Sides) Box() geometry.Rect {
	return geometry.R(-s.Left, -s.Top, s.Left+s.Right, s.Top+s.Bottom)
}

// IsZero reports whether no side is padded.
func (s Sides) IsZero() bool {
	return s == Sides{}
}

// Options configures the routers. The zero value is not usable; start from
// DefaultOptions and override fields. Options are treated as immutable once
// handed to a router.
type Options struct {
	// Step is the grid spacing of the search.
	Step float64 `json:"step" yaml:"step"`
	// MaximumLoops caps the number of frontier pops per segment.
	MaximumLoops int `json:"maximumLoops" yaml:"maximumLoops"`
	// Precision is the number of decimal digits grid points are rounded to.
	Precision int `json:"precision" yaml:"precision"`
	// MaxAllowedDirectionChange is the largest turn in degrees allowed at
	// any grid point except the true start anchor.
	MaxAllowedDirectionChange float64 `json:"maxAllowedDirectionChange" yaml:"maxAllowedDirectionChange"`
	// Perpendicular asks renderers to attach the ends perpendicular to the
	// shape outlines. The search itself does not read it.
	Perpendicular bool `json:"perpendicular" yaml:"perpendicular"`

	StartDirections []core.Direction `json:"startDirections,omitempty" yaml:"startDirections,omitempty"`
	EndDirections   []core.Direction `json:"endDirections,omitempty" yaml:"endDirections,omitempty"`

	// Penalties maps a direction change in degrees to an extra cost. Nil
	// selects 0 for straight moves and Step/2 for 45 and 90 degree turns.
	// encoding/json cannot key a map by float64, so it is YAML only.
	Penalties map[float64]float64 `json:"-" yaml:"penalties,omitempty"`

	// PaddingBox is added to obstacle and end bounding boxes. Nil selects
	// one step on every side.
	PaddingBox *geometry.Rect `json:"paddingBox,omitempty" yaml:"paddingBox,omitempty"`
	// Padding overrides PaddingBox when set. The orthogonal router uses it
	// as element padding too.
	Padding *Sides `json:"padding,omitempty" yaml:"padding,omitempty"`

	ExcludeEnds  []obstacles.End `json:"excludeEnds,omitempty" yaml:"excludeEnds,omitempty"`
	ExcludeTypes []string        `json:"excludeTypes,omitempty" yaml:"excludeTypes,omitempty"`
}

// DefaultOptions returns the default router configuration.
func DefaultOptions() Options {
	return Options{
		Step:                      DefaultStep,
		MaximumLoops:              DefaultMaximumLoops,
		Precision:                 DefaultPrecision,
		MaxAllowedDirectionChange: DefaultMaxAllowedDirectionChange,
		StartDirections:           slices.Clone(core.Directions),
		EndDirections:             slices.Clone(core.Directions),
	}
}

// Validate checks the options and returns an error wrapping
// ErrInvalidOptions for every problem found.
func (o Options) Validate() error {
	var errs []error
	if !(o.Step > 0) || math.IsInf(o.Step, 0) {
		errs = append(errs, fmt.Errorf("step must be positive, got %v", o.Step))
	}
	if o.MaximumLoops <= 0 {
		errs = append(errs, fmt.Errorf("maximumLoops must be positive, got %d", o.MaximumLoops))
	}
	if o.Precision < 0 || o.Precision > 9 {
		errs = append(errs, fmt.Errorf("precision must be within 0..9, got %d", o.Precision))
	}
	if o.MaxAllowedDirectionChange < 0 || o.MaxAllowedDirectionChange > 180 {
		errs = append(errs, fmt.Errorf("maxAllowedDirectionChange must be within 0..180, got %v", o.MaxAllowedDirectionChange))
	}
	for name, dirs := range map[string][]core.Direction{"startDirections": o.StartDirections, "endDirections": o.EndDirections} {
		for _, d := range dirs {
			if d < core.North || d > core.West {
				errs = append(errs, fmt.Errorf("%s: unknown direction %d", name, d))
			}
		}
	}
	for angle, cost := range o.Penalties {
		if cost < 0 || angle < 0 {
			errs = append(errs, fmt.Errorf("penalty %v: %v must not be negative", angle, cost))
		}
	}
	if o.PaddingBox != nil && (o.PaddingBox.Width < 0 || o.PaddingBox.Height < 0) {
		errs = append(errs, fmt.Errorf("paddingBox %v has negative size", *o.PaddingBox))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidOptions, errors.Join(errs...))
}

// PaddingRect returns the move-and-expand delta applied to obstacles and end
// bounding boxes.
func (o Options) PaddingRect() geometry.Rect {
	switch {
	case o.Padding != nil:
		return o.Padding.Box()
	case o.PaddingBox != nil:
		return *o.PaddingBox
	default:
		return geometry.R(-o.Step, -o.Step, 2*o.Step, 2*o.Step)
	}
}

// ElementPadding returns the padding the orthogonal router puts around
// elements.
func (o Options) ElementPadding() Sides {
	if o.Padding != nil && !o.Padding.IsZero() {
		return *o.Padding
	}
	return UniformSides(DefaultElementPadding)
}

// penaltyTable is the resolved, sorted form of Options.Penalties.
type penaltyTable struct {
	angles []float64
	costs  []float64
}

func newPenaltyTable(o Options) penaltyTable {
	penalties := o.Penalties
	if penalties == nil {
		penalties = map[float64]float64{0: 0, 45: o.Step / 2, 90: o.Step / 2}
	}
	t := penaltyTable{angles: make([]float64, 0, len(penalties))}
	for angle := range penalties {
		t.angles = append(t.angles, angle)
	}
	sort.Float64s(t.angles)
	for _, angle := range t.angles {
		t.costs = append(t.costs, penalties[angle])
	}
	return t
}

// cost returns the penalty for a direction change. A change missing from the
// table costs as much as the largest listed change below it.
func (t penaltyTable) cost(change float64) float64 {
	i := sort.SearchFloat64s(t.angles, change)
	if i < len(t.angles) && t.angles[i] == change {
		return t.costs[i]
	}
	if i == 0 {
		return 0
	}
	return t.costs[i-1]
}
