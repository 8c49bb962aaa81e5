package svgrender

import (
	"strings"

	"github.com/benoitkugler/svgpicture/svgpath"
)

func isShape(k Kind) bool {
	switch k {
	case KindRect, KindEllipse, KindCircle, KindPath, KindPolygon, KindPolyline, KindLine:
		return true
	}
	return false
}

// buildGeometry returns the path described by a shape element.
// false is returned for other elements, and for shapes whose
// attributes don't describe a drawable geometry.
func (c *Converter) buildGeometry(e *Element) (svgpath.Path, bool) {
	var p svgpath.Path
	u := c.units
	switch e.Kind {
	case KindRect:
		x, y := u.readNumber(e.attr("x")), u.readNumber(e.attr("y"))
		w, h := u.readNumber(e.attr("width")), u.readNumber(e.attr("height"))
		if w <= 0 || h <= 0 {
			return nil, false
		}
		rx, ry := u.readOptionalNumber(e, "rx"), u.readOptionalNumber(e, "ry")
		if rx == nil {
			rx = ry
		} else if ry == nil {
			ry = rx
		}
		if rx != nil && *rx > 0 && *ry > 0 {
			p.AddRoundRect(x, y, w, h, *rx, *ry)
		} else {
			p.AddRect(x, y, w, h)
		}
	case KindEllipse:
		rx, ry := u.readNumber(e.attr("rx")), u.readNumber(e.attr("ry"))
		if rx <= 0 || ry <= 0 {
			return nil, false
		}
		p.AddEllipse(u.readNumber(e.attr("cx")), u.readNumber(e.attr("cy")), rx, ry)
	case KindCircle:
		r := u.readNumber(e.attr("r"))
		if r <= 0 {
			return nil, false
		}
		p.AddCircle(u.readNumber(e.attr("cx")), u.readNumber(e.attr("cy")), r)
	case KindPath:
		return parseGeometry(e.attr("d"))
	case KindPolygon:
		return parseGeometry("M" + e.attr("points") + " Z")
	case KindPolyline:
		return parseGeometry("M" + e.attr("points"))
	case KindLine:
		p.AddLine(u.readNumber(e.attr("x1")), u.readNumber(e.attr("y1")),
			u.readNumber(e.attr("x2")), u.readNumber(e.attr("y2")))
	default:
		return nil, false
	}
	return p, true
}

// parseGeometry returns false for empty or invalid path data.
func parseGeometry(d string) (svgpath.Path, bool) {
	if strings.TrimSpace(strings.TrimPrefix(d, "M")) == "" {
		return nil, false
	}
	p, err := svgpath.ParsePathData(d)
	if err != nil || len(p) == 0 {
		return nil, false
	}
	return p, true
}
