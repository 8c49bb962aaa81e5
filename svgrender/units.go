package svgrender

import (
	"math"
	"strings"

	"github.com/tdewolff/parse/v2/strconv"
)

// DefaultPixelsPerInch is the resolution used to convert
// absolute units when Options.PixelsPerInch is not set.
const DefaultPixelsPerInch = 160

// units converts SVG lengths to user units.
type units struct {
	ppi float64
}

// readNumber parses a length. Absolute units are converted with the
// resolution, "px", "em" and "ex" are stripped and percentages
// yield a fraction. Invalid or empty text gives 0.
func (u units) readNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	factor, suffix := u.unitFactor(s)
	s = s[:len(s)-suffix]
	return factor * parseFloat(strings.TrimSpace(s))
}

// unitFactor returns the conversion factor for the unit ending s,
// and the length of the unit suffix.
func (u units) unitFactor(s string) (float64, int) {
	if strings.HasSuffix(s, "%") {
		return 0.01, 1
	}
	if len(s) < 2 {
		return 1, 0
	}
	switch s[len(s)-2:] {
	case "in":
		return u.ppi, 2
	case "cm":
		return u.ppi / 2.54, 2
	case "mm":
		return u.ppi / 25.4, 2
	case "pt":
		return u.ppi / 72, 2
	case "pc":
		return u.ppi / 6, 2
	case "px", "em", "ex":
		return 1, 2
	}
	return 1, 0
}

// parseFloat returns 0 when s is not entirely a valid number.
func parseFloat(s string) float64 {
	v, n := strconv.ParseFloat([]byte(s))
	if n == 0 || n != len(s) || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// readOptionalNumber returns nil for a missing attribute.
func (u units) readOptionalNumber(e *Element, name string) *float64 {
	v, ok := e.Attr(name)
	if !ok {
		return nil
	}
	f := u.readNumber(v)
	return &f
}

// readAttr reads the number in the given attribute, falling back
// on def when it is absent.
func (u units) readAttr(e *Element, name, def string) float64 {
	v, ok := e.Attr(name)
	if !ok {
		v = def
	}
	return u.readNumber(v)
}

// readNumbers reads a list of numbers separated by whitespace or commas.
func (u units) readNumbers(s string) []float64 {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	out := make([]float64, len(fields))
	for i, f := range fields {
		out[i] = u.readNumber(f)
	}
	return out
}

// readOpacity returns the clamped "opacity" value, 1 if absent
func (u units) readOpacity(style map[string]string) float64 {
	v, ok := style["opacity"]
	if !ok {
		return 1
	}
	return clamp01(u.readNumber(v))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
