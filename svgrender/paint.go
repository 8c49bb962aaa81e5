package svgrender

import (
	"image/color"
	"strings"

	"github.com/benoitkugler/svgpicture/svgdraw"
	"github.com/benoitkugler/svgpicture/svgpath"
)

// paintState is the inherited paint context of an element.
// A nil paint means nothing is drawn for this style.
type paintState struct {
	stroke *svgdraw.Paint
	fill   *svgdraw.Paint

	// fillGradient is set when the fill refers to a gradient;
	// the shader is resolved against each drawn element.
	fillGradient *svgpath.Gradient
}

// clone returns an independent copy of ps. Gradients are shared
// since they are never modified after their construction.
func (ps paintState) clone() paintState {
	return paintState{stroke: ps.stroke.Clone(), fill: ps.fill.Clone(), fillGradient: ps.fillGradient}
}

// resolvePaint returns the paint state of an element with the given style,
// inheriting from parent, which is not modified.
// The element opacity is not applied to groups, which use a layer instead.
func (c *Converter) resolvePaint(style map[string]string, parent paintState, isGroup bool) (paintState, error) {
	ps := parent.clone()

	elementOpacity := 1.
	if !isGroup {
		elementOpacity = c.units.readOpacity(style)
	}

	c.resolveStroke(style, &ps)
	if ps.stroke != nil {
		ps.stroke.Color.A = uint8(float64(ps.stroke.Color.A) * elementOpacity)
	}

	if err := c.resolveFill(style, &ps); err != nil {
		return ps, err
	}
	if ps.fill != nil {
		ps.fill.Color.A = uint8(float64(ps.fill.Color.A) * elementOpacity)
	}

	return ps, nil
}

func isNone(v string) bool { return strings.TrimSpace(v) == "none" }

// setColor applies a parsed color, keeping the current alpha
// when the new color is opaque, so that a previous opacity is preserved.
func setColor(paint *svgdraw.Paint, col string) bool {
	cl, ok := parseColor(col)
	if !ok {
		return false
	}
	if cl.A == 0xff {
		cl.A = paint.Color.A
	}
	paint.Color = cl
	return true
}

func (c *Converter) resolveStroke(style map[string]string, ps *paintState) {
	if v, ok := style["stroke"]; ok {
		if v = strings.TrimSpace(v); isNone(v) {
			ps.stroke = nil
		} else if v != "" {
			if ps.stroke == nil {
				ps.stroke = svgdraw.NewStrokePaint()
			}
			setColor(ps.stroke, v)
		}
	}

	// any stroke property materializes a stroke, unless
	// the element explicitly disables it
	if !isNone(style["stroke"]) {
		for _, key := range [...]string{"stroke-dasharray", "stroke-width", "stroke-opacity", "stroke-linecap", "stroke-linejoin"} {
			if _, ok := style[key]; ok && ps.stroke == nil {
				ps.stroke = svgdraw.NewStrokePaint()
				break
			}
		}
	}
	if ps.stroke == nil {
		return
	}
	stroke := ps.stroke

	if v, ok := style["stroke-dasharray"]; ok {
		stroke.Dash = c.readDash(v, style["stroke-dashoffset"])
	}

	if v, ok := style["stroke-width"]; ok {
		stroke.StrokeWidth = c.units.readNumber(v)
	} else {
		stroke.StrokeWidth = 1
	}

	if v, ok := style["stroke-opacity"]; ok {
		stroke.Color.A = uint8(clamp01(c.units.readNumber(v)) * 255)
	}

	switch strings.TrimSpace(style["stroke-linecap"]) {
	case "butt":
		stroke.Cap = svgdraw.ButtCap
	case "round":
		stroke.Cap = svgdraw.RoundCap
	case "square":
		stroke.Cap = svgdraw.SquareCap
	}

	switch strings.TrimSpace(style["stroke-linejoin"]) {
	case "miter":
		stroke.Join = svgdraw.MiterJoin
	case "round":
		stroke.Join = svgdraw.RoundJoin
	case "bevel":
		stroke.Join = svgdraw.BevelJoin
	}

	if v, ok := style["stroke-miterlimit"]; ok {
		if limit := c.units.readNumber(v); limit >= 1 {
			stroke.MiterLimit = limit
		}
	}
}

// readDash returns nil for "none" or an empty list.
// An odd number of intervals is repeated.
func (c *Converter) readDash(array, offset string) *svgdraw.Dash {
	if strings.TrimSpace(array) == "none" {
		return nil
	}
	intervals := c.units.readNumbers(array)
	if len(intervals) == 0 {
		return nil
	}
	if len(intervals)%2 == 1 {
		intervals = append(intervals, intervals...)
	}
	return &svgdraw.Dash{Intervals: intervals, Offset: c.units.readNumber(offset)}
}

func (c *Converter) resolveFill(style map[string]string, ps *paintState) error {
	if v, ok := style["fill"]; ok {
		v = strings.TrimSpace(v)
		switch {
		case isNone(v):
			ps.fill, ps.fillGradient = nil, nil
		case v == "":
		default:
			if _, isColor := parseColor(v); isColor {
				if ps.fill == nil {
					ps.fill = svgdraw.NewFillPaint()
				}
				setColor(ps.fill, v)
				ps.fillGradient = nil
			} else if err := c.resolveFillReference(v, ps); err != nil {
				return err
			}
		}
	}

	if v, ok := style["fill-opacity"]; ok && !isNone(style["fill"]) {
		if ps.fill == nil {
			ps.fill = svgdraw.NewFillPaint()
		}
		ps.fill.Color.A = uint8(clamp01(c.units.readNumber(v)) * 255)
	}
	return nil
}

// resolveFillReference handles "url(#id)" fills
func (c *Converter) resolveFillReference(v string, ps *paintState) error {
	id, ok := parseURLReference(v)
	if !ok {
		return c.report("fill", "unsupported fill: %s", v)
	}
	def, ok := c.defs[id]
	if !ok || (def.Kind != KindLinearGradient && def.Kind != KindRadialGradient) {
		return c.report("fill", "invalid fill url reference: %s", id)
	}
	ps.fillGradient = c.gradient(id, def)
	if ps.fill == nil {
		ps.fill = svgdraw.NewFillPaint()
	}
	ps.fill.Color = color.NRGBA{} // transparent, the shader is used instead
	return nil
}
