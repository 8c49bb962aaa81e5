package svgrender

import (
	"encoding/xml"
	"strings"

	"github.com/benoitkugler/svgpicture/svgdraw"
	"github.com/benoitkugler/svgpicture/svgpath"
	"github.com/tdewolff/parse/v2"
)

// drawElement draws e and its descendants, in document order.
// The canvas state is saved before, and restored after, even on error.
func (c *Converter) drawElement(e *Element, canvas svgdraw.Canvas, parent paintState) error {
	if e.attr("display") == "none" {
		return nil
	}

	canvas.Save()
	defer canvas.Restore()

	m, err := svgpath.ParseTransform(e.attr("transform"), c.units.readNumber, c.reporter("transform"))
	if err != nil {
		return err
	}
	if !m.IsIdentity() {
		canvas.Concat(m)
	}

	style := readStyle(e)
	if v := strings.TrimSpace(style["clip-path"]); v != "" && v != "none" {
		clip, ok, err := c.resolveClip(v)
		if err != nil {
			return err
		}
		if ok {
			canvas.ClipPath(clip)
		}
	}

	ps, err := c.resolvePaint(style, parent, e.Kind == KindGroup)
	if err != nil {
		return err
	}

	switch e.Kind {
	case KindImage:
		return c.drawImage(e, canvas)
	case KindText:
		if ps.stroke != nil || ps.fill != nil {
			c.drawText(e, canvas, ps)
		}
	case KindRect, KindEllipse, KindCircle, KindPath, KindPolygon, KindPolyline, KindLine:
		if ps.stroke != nil || ps.fill != nil {
			c.drawShape(e, style, canvas, ps)
		}
	case KindGroup:
		return c.drawGroup(e, style, canvas, ps)
	case KindUse:
		return c.drawUse(e, canvas, ps)
	case KindSwitch:
		for _, child := range e.Elements() {
			if hasConditionalAttribute(child) {
				continue
			}
			if err := c.drawElement(child, canvas, ps); err != nil {
				return err
			}
		}
	case KindDefs:
	default:
		return c.report("element", "SVG element '%s' is not supported", e.Name.Local)
	}
	return nil
}

func (c *Converter) drawShape(e *Element, style map[string]string, canvas svgdraw.Canvas, ps paintState) {
	geom, ok := c.buildGeometry(e)
	if !ok {
		c.logger.V(1).Info("skipping shape without geometry", "element", e.Name.Local)
		return
	}
	evenOdd := strings.TrimSpace(style["fill-rule"]) == "evenodd"

	if ps.fill != nil {
		fill := ps.fill
		if ps.fillGradient != nil {
			fill = svgdraw.NewFillPaint()
			fill.Shader = c.gradientShader(ps.fillGradient, e)
		}
		fill.EvenOdd = evenOdd
		canvas.DrawPath(geom, fill)
	}
	if ps.stroke != nil {
		canvas.DrawPath(geom, ps.stroke)
	}
}

// drawGroup draws the children of e, in a layer when
// the group is translucent.
func (c *Converter) drawGroup(e *Element, style map[string]string, canvas svgdraw.Canvas, ps paintState) error {
	children := e.Elements()
	if len(children) == 0 {
		return nil
	}
	if opacity := c.units.readOpacity(style); opacity != 1 {
		canvas.SaveLayer(uint8(255 * opacity))
		defer canvas.Restore()
	}
	for _, child := range children {
		if err := c.drawElement(child, canvas, ps); err != nil {
			return err
		}
	}
	return nil
}

// drawUse draws a copy of the referenced definition, placed at the
// position of e, with the attributes of e overriding its own.
func (c *Converter) drawUse(e *Element, canvas svgdraw.Canvas, ps paintState) error {
	ref := lookupHref(e, c.defs)
	if ref == nil {
		c.logger.V(1).Info("skipping use with unknown reference", "href", e.href())
		return nil
	}
	if c.useDepth >= maxUseDepth {
		return c.report("use", "too many nested use elements (reference %s)", e.href())
	}

	clone := ref.clone(e.parent)
	for _, a := range e.Attrs {
		if isHref(a.Name) || isUseOnlyAttr(a.Name) {
			continue
		}
		clone.SetAttr(a.Name, a.Value)
	}

	c.useDepth++
	defer func() { c.useDepth-- }()
	return c.drawElement(clone, canvas, ps)
}

// isUseOnlyAttr returns true for the attributes of use elements
// which are not copied on the referenced definition.
func isUseOnlyAttr(name xml.Name) bool {
	return name.Space == "" && (name.Local == "id" || name.Local == "transform")
}

// hasConditionalAttribute returns true if e is subject to conditional
// processing in a switch element.
func hasConditionalAttribute(e *Element) bool {
	for _, name := range [...]string{"requiredFeatures", "requiredExtensions", "systemLanguage"} {
		if _, ok := e.Attr(name); ok {
			return true
		}
	}
	return false
}

func (c *Converter) drawImage(e *Element, canvas svgdraw.Canvas) error {
	dst := svgdraw.Rect{
		X: c.units.readNumber(e.attr("x")),
		Y: c.units.readNumber(e.attr("y")),
		W: c.units.readNumber(e.attr("width")),
		H: c.units.readNumber(e.attr("height")),
	}
	href := strings.TrimSpace(e.href())
	if href == "" {
		return nil
	}
	if !strings.HasPrefix(href, "data:") {
		return c.report("image", "remote images are not supported: %s", shorten(href))
	}

	// base64 payloads are often wrapped
	href = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, href)
	_, data, err := parse.DataURI([]byte(href))
	if err != nil {
		c.logger.V(1).Info("skipping invalid data URI", "error", err)
		return nil
	}
	img, err := svgdraw.DecodeBitmap(data)
	if err != nil {
		c.logger.V(1).Info("skipping invalid image", "error", err)
		return nil
	}
	if dst.IsEmpty() {
		bounds := img.Bounds()
		dst.W, dst.H = float64(bounds.Dx()), float64(bounds.Dy())
	}
	canvas.DrawImage(img, dst)
	return nil
}

func shorten(s string) string {
	const maxLen = 64
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
