package svgpath

import (
	"image/color"

	"golang.org/x/exp/slices"
)

// GradientUnits is the type for gradient units
type GradientUnits byte

// SVG bounds parameter constants
const (
	ObjectBoundingBox GradientUnits = iota
	UserSpaceOnUse
)

// SpreadMethod is the type for spread parameters
type SpreadMethod byte

// SVG spread parameter constants
const (
	PadSpread SpreadMethod = iota
	ReflectSpread
	RepeatSpread
)

func (s SpreadMethod) String() string {
	switch s {
	case PadSpread:
		return "pad"
	case ReflectSpread:
		return "reflect"
	case RepeatSpread:
		return "repeat"
	default:
		return "<unknown SpreadMethod>"
	}
}

// GradStop is a color stop of a gradient.
// The opacity of the stop is stored in the alpha channel of StopColor.
type GradStop struct {
	StopColor color.NRGBA
	Offset    float64
}

// Gradient holds a description of an SVG gradient,
// independent of the shape it is applied to.
type Gradient struct {
	Direction GradientDirecter // Linear or Radial
	Stops     []GradStop       // sorted by ascending offsets
	Spread    SpreadMethod
	Units     GradientUnits
}

// GradientDirecter is either Linear or Radial
type GradientDirecter interface {
	isRadial() bool
}

// Linear stores x1, y1, x2, y2
type Linear [4]float64

func (Linear) isRadial() bool { return false }

// Radial stores cx, cy, fx, fy, r
type Radial [5]float64

func (Radial) isRadial() bool { return true }

// SetStop records a stop, replacing the color of an
// existing stop with the same offset, and keeps the stops sorted.
// Offsets are not clamped.
func (g *Gradient) SetStop(offset float64, c color.NRGBA) {
	for i := range g.Stops {
		if g.Stops[i].Offset == offset {
			g.Stops[i].StopColor = c
			return
		}
	}
	g.Stops = append(g.Stops, GradStop{StopColor: c, Offset: offset})
	slices.SortStableFunc(g.Stops, func(a, b GradStop) int {
		switch {
		case a.Offset < b.Offset:
			return -1
		case a.Offset > b.Offset:
			return 1
		default:
			return 0
		}
	})
}

// Offsets returns the stop positions, in ascending order.
func (g *Gradient) Offsets() []float64 {
	out := make([]float64, len(g.Stops))
	for i, s := range g.Stops {
		out[i] = s.Offset
	}
	return out
}
