package svgrender

import (
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// parseColor parses a CSS color: hexadecimal notations (with the
// alpha component first for the 4 and 8 digits forms), rgb() and rgba()
// functions, "transparent" and the SVG named colors.
func parseColor(raw string) (color.NRGBA, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case s == "":
		return color.NRGBA{}, false
	case s == "transparent":
		return color.NRGBA{}, true
	case s[0] == '#':
		return parseHexColor(s[1:])
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		return parseRGBFunction(s[5:len(s)-1], true)
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		return parseRGBFunction(s[4:len(s)-1], false)
	}
	if c, ok := colornames.Map[s]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, true
	}
	return color.NRGBA{}, false
}

func parseHexColor(s string) (color.NRGBA, bool) {
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, false
	}
	// expand one nibble to a byte
	nib := func(shift uint) uint8 { n := uint8(v>>shift) & 0xf; return n<<4 | n }
	byt := func(shift uint) uint8 { return uint8(v >> shift) }
	switch len(s) {
	case 3: // rgb
		return color.NRGBA{R: nib(8), G: nib(4), B: nib(0), A: 0xff}, true
	case 4: // argb
		return color.NRGBA{A: nib(12), R: nib(8), G: nib(4), B: nib(0)}, true
	case 6: // rrggbb
		return color.NRGBA{R: byt(16), G: byt(8), B: byt(0), A: 0xff}, true
	case 8: // aarrggbb
		return color.NRGBA{A: byt(24), R: byt(16), G: byt(8), B: byt(0)}, true
	}
	return color.NRGBA{}, false
}

func parseRGBFunction(args string, withAlpha bool) (color.NRGBA, bool) {
	fields := strings.Split(args, ",")
	if withAlpha && len(fields) != 4 || !withAlpha && len(fields) != 3 {
		return color.NRGBA{}, false
	}
	var comps [3]uint8
	for i := range comps {
		f := strings.TrimSpace(fields[i])
		var v float64
		if strings.HasSuffix(f, "%") {
			v = parseFloat(f[:len(f)-1]) * 255 / 100
		} else {
			v = parseFloat(f)
		}
		comps[i] = uint8(clamp01(v/255)*255 + 0.5)
	}
	alpha := uint8(0xff)
	if withAlpha {
		alpha = uint8(clamp01(parseFloat(strings.TrimSpace(fields[3])))*255 + 0.5)
	}
	return color.NRGBA{R: comps[0], G: comps[1], B: comps[2], A: alpha}, true
}
