package svgrender

import (
	"testing"

	"github.com/benoitkugler/svgpicture/svgdraw"
	"github.com/tdewolff/test"
)

func TestNormalizeText(t *testing.T) {
	for _, tt := range []struct {
		in          string
		first, last bool
		want        string
	}{
		{"\n   Hello    world  \n", true, true, "Hello world"},
		{" a ", false, false, " a "},
		{" a ", true, false, "a "},
		{" a ", false, true, " a"},
		{"line1\r\n  line2", true, true, "line1 line2"},
		{"\n\n", true, true, ""},
	} {
		test.String(t, normalizeText(tt.in, tt.first, tt.last), tt.want, tt.in)
	}
}

func TestReadFontWeight(t *testing.T) {
	c := NewConverter(Options{})
	test.T(t, c.readFontWeight("bold", 400), 700)
	test.T(t, c.readFontWeight("normal", 700), 400)
	test.T(t, c.readFontWeight("bolder", 400), 700)
	test.T(t, c.readFontWeight("lighter", 400), 100)
	test.T(t, c.readFontWeight("600", 400), 600)
	test.T(t, c.readFontWeight("heavy", 300), 300)
}

func TestReadText(t *testing.T) {
	c := newTestConverter(t, `<svg>
	<text x="10" y="20" text-anchor="middle" font-family="Courier" font-size="10">
		A <tspan x="30" font-weight="bold" font-style="italic" baseline-shift="5">B</tspan> C
	</text>
	<text style="text-anchor: end">x</text>
</svg>`)
	texts := c.root.Elements()

	block := c.readText(texts[0], rootPaint())
	test.Float(t, block.x, 10)
	test.Float(t, block.y, 20)
	test.T(t, block.align, svgdraw.AlignCenter)
	test.T(t, len(block.runs), 3)

	a, b, cRun := block.runs[0], block.runs[1], block.runs[2]
	test.String(t, a.text, "A ")
	test.That(t, a.x == nil && a.y == nil)
	test.Float(t, a.baselineShift, 0)
	test.String(t, a.fill.Typeface.Family, "Courier")
	test.Float(t, a.fill.TextSize, 10)
	test.That(t, a.stroke == nil)

	test.String(t, b.text, "B")
	test.Float(t, *b.x, 30)
	test.That(t, b.y == nil)
	test.Float(t, b.baselineShift, 5)
	test.T(t, b.fill.Typeface.Weight, 700)
	test.T(t, b.fill.Typeface.Slant, svgdraw.Italic)
	test.String(t, b.fill.Typeface.Family, "Courier")

	// the shift of the last span is kept, but not its font
	test.String(t, cRun.text, " C")
	test.Float(t, cRun.baselineShift, 5)
	test.T(t, cRun.fill.Typeface.Weight, 400)

	test.T(t, readTextAlign(texts[1]), svgdraw.AlignRight)
}

func TestReadTextSpanWhitespace(t *testing.T) {
	c := newTestConverter(t, "<svg><text>A<tspan>\n  B   C\n</tspan></text></svg>")
	block := c.readText(c.root.Elements()[0], rootPaint())
	test.T(t, len(block.runs), 2)
	test.String(t, block.runs[1].text, "B C")
}
