package svgdraw

import (
	"image/color"

	"github.com/benoitkugler/svgpicture/svgpath"
)

// PaintStyle selects between filling and stroking.
type PaintStyle uint8

const (
	FillStyle PaintStyle = iota
	StrokeStyle
)

// JoinMode type to specify how segments join.
type JoinMode uint8

const (
	MiterJoin JoinMode = iota
	RoundJoin
	BevelJoin
)

func (s JoinMode) String() string {
	switch s {
	case RoundJoin:
		return "Round"
	case BevelJoin:
		return "Bevel"
	case MiterJoin:
		return "Miter"
	default:
		return "<unknown JoinMode>"
	}
}

// CapMode defines how to draw caps on the ends of lines
type CapMode uint8

const (
	ButtCap CapMode = iota
	RoundCap
	SquareCap
)

func (c CapMode) String() string {
	switch c {
	case ButtCap:
		return "ButtCap"
	case SquareCap:
		return "SquareCap"
	case RoundCap:
		return "RoundCap"
	default:
		return "<unknown CapMode>"
	}
}

// Dash is a dash pattern, with an even number of intervals.
type Dash struct {
	Intervals []float64
	Offset    float64 // starting offset into the dash array
}

// TextAlign is the horizontal anchor of a text block.
type TextAlign uint8

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

// Paint describes how to draw a geometry.
type Paint struct {
	Style     PaintStyle
	Color     color.NRGBA
	AntiAlias bool

	// Shader, when not nil, replaces Color.
	Shader Shader

	// EvenOdd selects the even-odd fill rule instead of the non zero one.
	EvenOdd bool

	// stroke parameters
	StrokeWidth float64
	MiterLimit  float64
	Cap         CapMode
	Join        JoinMode
	Dash        *Dash // nil for a plain line

	// text parameters
	Typeface Typeface
	TextSize float64
}

// NewFillPaint returns an opaque black, antialiased fill paint.
func NewFillPaint() *Paint {
	return &Paint{
		Style:     FillStyle,
		Color:     color.NRGBA{A: 0xff},
		AntiAlias: true,
		Typeface:  DefaultTypeface,
		TextSize:  12,
	}
}

// NewStrokePaint returns an opaque black, antialiased stroke paint,
// with width 1, miter limit 4, butt caps and miter joins.
func NewStrokePaint() *Paint {
	pt := NewFillPaint()
	pt.Style = StrokeStyle
	pt.StrokeWidth = 1
	pt.MiterLimit = 4
	pt.Join = MiterJoin
	pt.Cap = ButtCap
	return pt
}

// Clone returns a deep copy of the paint, so that
// the returned value may be mutated freely.
func (p *Paint) Clone() *Paint {
	if p == nil {
		return nil
	}
	out := *p
	if p.Dash != nil {
		d := Dash{Offset: p.Dash.Offset, Intervals: append([]float64(nil), p.Dash.Intervals...)}
		out.Dash = &d
	}
	return &out
}

// WithAlpha returns c with its alpha channel set to a.
func WithAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = a
	return c
}

// Shader is either a LinearGradient or a RadialGradient,
// expressed in user space.
type Shader interface {
	isShader()
}

// LinearGradient varies along the segment Start-End.
type LinearGradient struct {
	Start, End Point
	Stops      []svgpath.GradStop
	Spread     svgpath.SpreadMethod
}

// RadialGradient varies from Focus to the circle (Center, Radius).
type RadialGradient struct {
	Center, Focus Point
	Radius        float64
	Stops         []svgpath.GradStop
	Spread        svgpath.SpreadMethod
}

func (LinearGradient) isShader() {}
func (RadialGradient) isShader() {}
