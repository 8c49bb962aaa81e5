package svgrender

import (
	"strings"

	"github.com/benoitkugler/svgpicture/svgdraw"
)

// textRun is a piece of text drawn with the same paints.
type textRun struct {
	text          string
	x, y          *float64 // optional absolute position
	baselineShift float64
	fill, stroke  *svgdraw.Paint
}

// textBlock is a text element, laid out on a single line.
type textBlock struct {
	x, y  float64
	align svgdraw.TextAlign
	runs  []textRun
}

// readTextAlign reads the text-anchor attribute, or its inline style.
func readTextAlign(e *Element) svgdraw.TextAlign {
	anchor, ok := e.Attr("text-anchor")
	if !ok {
		anchor = parseStyleAttr(e.attr("style"))["text-anchor"]
	}
	switch strings.TrimSpace(anchor) {
	case "end":
		return svgdraw.AlignRight
	case "middle":
		return svgdraw.AlignCenter
	default:
		return svgdraw.AlignLeft
	}
}

// readBaselineShift reads the baseline-shift attribute, or its inline style.
func (c *Converter) readBaselineShift(e *Element) float64 {
	v, ok := e.Attr("baseline-shift")
	if !ok {
		v = parseStyleAttr(e.attr("style"))["baseline-shift"]
	}
	return c.units.readNumber(v)
}

// applyFontAttributes updates the typeface and text size of paint
// (which may be nil) with the font properties of e.
func (c *Converter) applyFontAttributes(e *Element, paint *svgdraw.Paint) {
	if paint == nil {
		return
	}
	style := readStyle(e)

	if family := strings.TrimSpace(style["font-family"]); family != "" {
		paint.Typeface.Family = family
	}
	if v, ok := style["font-weight"]; ok {
		paint.Typeface.Weight = c.readFontWeight(v, paint.Typeface.Weight)
	}
	if v, ok := style["font-stretch"]; ok {
		if width, ok := fontStretches[strings.TrimSpace(v)]; ok {
			paint.Typeface.Width = width
		}
	}
	switch strings.TrimSpace(style["font-style"]) {
	case "italic":
		paint.Typeface.Slant = svgdraw.Italic
	case "oblique":
		paint.Typeface.Slant = svgdraw.Oblique
	case "normal":
		paint.Typeface.Slant = svgdraw.Upright
	}
	if v, ok := style["font-size"]; ok {
		if size := c.units.readNumber(v); size > 0 {
			paint.TextSize = size
		}
	}
}

var fontStretches = map[string]int{
	"ultra-condensed": 1,
	"extra-condensed": 2,
	"condensed":       3,
	"semi-condensed":  4,
	"normal":          5,
	"semi-expanded":   6,
	"expanded":        7,
	"extra-expanded":  8,
	"ultra-expanded":  9,
}

// readFontWeight resolves absolute and relative weights.
func (c *Converter) readFontWeight(v string, inherited int) int {
	switch v = strings.TrimSpace(v); v {
	case "normal":
		return 400
	case "bold":
		return 700
	case "bolder":
		switch {
		case inherited < 350:
			return 400
		case inherited < 550:
			return 700
		default:
			return 900
		}
	case "lighter":
		switch {
		case inherited < 550:
			return 100
		case inherited < 750:
			return 400
		default:
			return 700
		}
	}
	w := int(c.units.readNumber(v))
	if w < 1 || w > 1000 {
		return inherited
	}
	return w
}

// normalizeText removes the line breaks of a text node, trimming the
// leading space of the first node and the trailing space of the last one,
// and collapses runs of white space.
func normalizeText(s string, isFirst, isLast bool) string {
	lines := strings.FieldsFunc(s, func(r rune) bool { return r == '\n' || r == '\r' })
	for i := range lines {
		if i == 0 && isFirst {
			lines[i] = strings.TrimLeft(lines[i], " \t")
		}
		if i == len(lines)-1 && isLast {
			lines[i] = strings.TrimRight(lines[i], " \t")
		}
	}
	return spacesRe.ReplaceAllString(strings.Join(lines, ""), " ")
}

// readText splits a text element into runs: its own text nodes and its tspan children.
func (c *Converter) readText(e *Element, ps paintState) textBlock {
	block := textBlock{
		x:     c.units.readNumber(e.attr("x")),
		y:     c.units.readNumber(e.attr("y")),
		align: readTextAlign(e),
	}
	baselineShift := c.readBaselineShift(e)

	fill, stroke := ps.fill.Clone(), ps.stroke.Clone()
	c.applyFontAttributes(e, fill)
	c.applyFontAttributes(e, stroke)

	for i, node := range e.Children {
		switch node := node.(type) {
		case Text:
			text := normalizeText(string(node), i == 0, i == len(e.Children)-1)
			if text == "" {
				continue
			}
			block.runs = append(block.runs, textRun{
				text: text, baselineShift: baselineShift,
				fill: fill, stroke: stroke,
			})
		case *Element:
			if node.Kind != KindTSpan {
				continue
			}
			run := textRun{
				text:   normalizeText(node.Text(), true, true),
				x:      c.units.readOptionalNumber(node, "x"),
				y:      c.units.readOptionalNumber(node, "y"),
				fill:   fill.Clone(),
				stroke: stroke.Clone(),
			}
			c.applyFontAttributes(node, run.fill)
			c.applyFontAttributes(node, run.stroke)
			baselineShift = c.readBaselineShift(node)
			run.baselineShift = baselineShift
			block.runs = append(block.runs, run)
		}
	}
	return block
}

// measurePaint returns the paint used to measure a run.
func (r textRun) measurePaint() *svgdraw.Paint {
	if r.fill != nil {
		return r.fill
	}
	return r.stroke
}

// drawText lays out the runs of e on a single line, applying the
// anchor to the whole block.
func (c *Converter) drawText(e *Element, canvas svgdraw.Canvas, ps paintState) {
	block := c.readText(e, ps)
	if len(block.runs) == 0 {
		return
	}

	x, y := block.x, block.y
	if block.align != svgdraw.AlignLeft {
		var width float64
		for _, run := range block.runs {
			width += canvas.MeasureText(run.text, run.measurePaint())
		}
		if block.align == svgdraw.AlignCenter {
			width *= 0.5
		}
		x -= width
	}

	for _, run := range block.runs {
		if run.x != nil {
			x = *run.x
		}
		if run.y != nil {
			y = *run.y
		}
		if run.fill != nil {
			canvas.DrawText(run.text, x, y+run.baselineShift, run.fill)
		}
		if run.stroke != nil {
			canvas.DrawText(run.text, x, y+run.baselineShift, run.stroke)
		}
		x += canvas.MeasureText(run.text, run.measurePaint())
	}
}
