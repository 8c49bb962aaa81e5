package svgrender

import (
	"image/color"
	"math"
	"strings"

	"github.com/benoitkugler/svgpicture/svgdraw"
	"github.com/benoitkugler/svgpicture/svgpath"
)

// gradient returns the cached descriptor for the definition def,
// building it on first use.
func (c *Converter) gradient(id string, def *Element) *svgpath.Gradient {
	if g, ok := c.gradients[id]; ok {
		return g
	}
	var g *svgpath.Gradient
	if def.Kind == KindRadialGradient {
		g = c.readRadialGradient(def)
	} else {
		g = c.readLinearGradient(def)
	}
	c.gradients[id] = g
	c.logger.V(1).Info("gradient resolved", "id", id, "offsets", g.Offsets())
	return g
}

func (c *Converter) readLinearGradient(e *Element) *svgpath.Gradient {
	g := c.readGradientCommon(e)
	g.Direction = svgpath.Linear{
		c.units.readAttr(e, "x1", "0%"),
		c.units.readAttr(e, "y1", "0%"),
		c.units.readAttr(e, "x2", "100%"),
		c.units.readAttr(e, "y2", "0%"),
	}
	return g
}

func (c *Converter) readRadialGradient(e *Element) *svgpath.Gradient {
	g := c.readGradientCommon(e)
	cx := c.units.readAttr(e, "cx", "50%")
	cy := c.units.readAttr(e, "cy", "50%")
	fx, fy := cx, cy
	if v := c.units.readOptionalNumber(e, "fx"); v != nil {
		fx = *v
	}
	if v := c.units.readOptionalNumber(e, "fy"); v != nil {
		fy = *v
	}
	g.Direction = svgpath.Radial{cx, cy, fx, fy, c.units.readAttr(e, "r", "50%")}
	return g
}

func (c *Converter) readGradientCommon(e *Element) *svgpath.Gradient {
	g := &svgpath.Gradient{}
	switch strings.TrimSpace(e.attr("spreadMethod")) {
	case "reflect":
		g.Spread = svgpath.ReflectSpread
	case "repeat":
		g.Spread = svgpath.RepeatSpread
	default:
		g.Spread = svgpath.PadSpread
	}
	if strings.TrimSpace(e.attr("gradientUnits")) == "userSpaceOnUse" {
		g.Units = svgpath.UserSpaceOnUse
	}
	for _, stop := range e.Elements() {
		if stop.Kind != KindStop {
			continue
		}
		offset, col := c.readStop(stop)
		g.SetStop(offset, col)
	}
	return g
}

// readStop returns the offset and the color (with the opacity
// in the alpha channel) of a gradient stop.
func (c *Converter) readStop(e *Element) (float64, color.NRGBA) {
	style := readStyle(e)
	offset := c.units.readNumber(style["offset"])

	col := color.NRGBA{A: 0xff}
	if cl, ok := parseColor(style["stop-color"]); ok {
		if cl.A == 0xff {
			cl.A = col.A
		}
		col = cl
	}
	if v, ok := style["stop-opacity"]; ok {
		col.A = uint8(clamp01(c.units.readNumber(v)) * 255)
	}
	return offset, col
}

// gradientShader resolves the gradient for the element e. In bounding box units,
// the gradient coordinates are fractions of the element "x", "y" and size.
func (c *Converter) gradientShader(g *svgpath.Gradient, e *Element) svgdraw.Shader {
	var x, y, w, h float64
	if g.Units == svgpath.ObjectBoundingBox {
		x = c.units.readNumber(e.attr("x"))
		y = c.units.readNumber(e.attr("y"))
		size := c.elementSize(e)
		w, h = size.W, size.H
	}
	toUser := func(fx, fy float64) svgdraw.Point {
		if g.Units == svgpath.UserSpaceOnUse {
			return svgdraw.Point{X: fx, Y: fy}
		}
		return svgdraw.Point{X: x + w*fx, Y: y + h*fy}
	}

	switch dir := g.Direction.(type) {
	case svgpath.Radial:
		r := dir[4]
		if g.Units == svgpath.ObjectBoundingBox {
			r *= math.Max(w, h)
		}
		return svgdraw.RadialGradient{
			Center: toUser(dir[0], dir[1]),
			Focus:  toUser(dir[2], dir[3]),
			Radius: r,
			Stops:  g.Stops,
			Spread: g.Spread,
		}
	case svgpath.Linear:
		return svgdraw.LinearGradient{
			Start:  toUser(dir[0], dir[1]),
			End:    toUser(dir[2], dir[3]),
			Stops:  g.Stops,
			Spread: g.Spread,
		}
	}
	return nil
}

// elementSize returns the explicit "width" and "height" of the
// closest ancestor (or e itself) defining both, then falls back
// on the root attributes and finally on the canvas size.
func (c *Converter) elementSize(e *Element) Size {
	for ; e != nil; e = e.parent {
		w, okW := e.Attr("width")
		h, okH := e.Attr("height")
		if okW && okH {
			return Size{W: c.units.readNumber(w), H: c.units.readNumber(h)}
		}
	}
	if c.root != nil {
		w, okW := c.root.Attr("width")
		h, okH := c.root.Attr("height")
		if okW && okH {
			return Size{W: c.units.readNumber(w), H: c.units.readNumber(h)}
		}
	}
	return c.canvasSize
}

// resolveClip returns the clip geometry for a "clip-path" value.
// Resolved clips are cached by id.
func (c *Converter) resolveClip(value string) (svgpath.Path, bool, error) {
	id, ok := parseURLReference(value)
	if !ok {
		return nil, false, c.report("clip-path", "unsupported clip-path: %s", value)
	}
	if clip, ok := c.clips[id]; ok {
		return clip, true, nil
	}
	def, ok := c.defs[id]
	if !ok {
		return nil, false, c.report("clip-path", "invalid clip-path url reference: %s", id)
	}
	if def.Kind != KindClipPath || len(def.Elements()) == 0 {
		return nil, false, c.report("clip-path", "unsupported clip-path: %s", value)
	}
	clip, err := c.readClipPath(def)
	if err != nil {
		return nil, false, err
	}
	c.clips[id] = clip
	return clip, true, nil
}

// readClipPath unions the geometry of the children of def,
// each one transformed by its own "transform" attribute.
func (c *Converter) readClipPath(def *Element) (svgpath.Path, error) {
	clip := svgpath.Path{}
	for _, child := range def.Elements() {
		geom, ok := c.buildGeometry(child)
		if !ok {
			if !isShape(child.Kind) {
				if err := c.report("clip-path", "SVG element '%s' is not supported in clipPath", child.Name.Local); err != nil {
					return nil, err
				}
			}
			continue
		}
		m, err := svgpath.ParseTransform(child.attr("transform"), c.units.readNumber, c.reporter("transform"))
		if err != nil {
			return nil, err
		}
		if !m.IsIdentity() {
			geom = geom.Transform(m)
		}
		clip.Append(geom)
	}
	return clip, nil
}
