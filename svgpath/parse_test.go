package svgpath

import (
	"testing"

	"github.com/tdewolff/test"
	"golang.org/x/image/math/fixed"
)

func pt(x, y float64) fixed.Point26_6 { return toFixedP(x, y) }

func TestParsePathData(t *testing.T) {
	tests := []struct {
		d        string
		expected Path
	}{
		{"", nil},
		{"M10 20L30 40", Path{MoveTo(pt(10, 20)), LineTo(pt(30, 40))}},
		{"M10,20 30,40 50,60", Path{MoveTo(pt(10, 20)), LineTo(pt(30, 40)), LineTo(pt(50, 60))}},
		{"m10 20l5 5z", Path{MoveTo(pt(10, 20)), LineTo(pt(15, 25)), Close{}}},
		{"M0 0H10V10h-10z", Path{MoveTo(pt(0, 0)), LineTo(pt(10, 0)), LineTo(pt(10, 10)), LineTo(pt(0, 10)), Close{}}},
		{"M0 0Q5 5 10 0T20 0", Path{MoveTo(pt(0, 0)), QuadTo{pt(5, 5), pt(10, 0)}, QuadTo{pt(15, -5), pt(20, 0)}}},
		{"M0 0C0 10 10 10 10 0S20 -10 20 0", Path{
			MoveTo(pt(0, 0)),
			CubicTo{pt(0, 10), pt(10, 10), pt(10, 0)},
			CubicTo{pt(10, -10), pt(20, -10), pt(20, 0)},
		}},
		{"M-1.5-2.5l.5.5", Path{MoveTo(pt(-1.5, -2.5)), LineTo(pt(-1, -2))}},
		{"M1e1 2E1", Path{MoveTo(pt(10, 20))}},
		// relative moveto after a close starts from the sub-path start
		{"M10 10l10 0zm5 5", Path{MoveTo(pt(10, 10)), LineTo(pt(20, 10)), Close{}, MoveTo(pt(15, 15))}},
		// degenerate arc
		{"M0 0A0 5 0 0 1 10 10", Path{MoveTo(pt(0, 0)), LineTo(pt(10, 10))}},
	}
	for _, tt := range tests {
		t.Run(tt.d, func(t *testing.T) {
			p, err := ParsePathData(tt.d)
			test.Error(t, err)
			test.T(t, p, tt.expected)
		})
	}
}

func TestParsePathDataArc(t *testing.T) {
	for _, d := range []string{
		"M0 0A10 10 0 0 1 20 0",
		"M0 0a10 10 0 0120 0", // packed flags
		"M0,0 A10,10,0,0,1,20,0",
	} {
		p, err := ParsePathData(d)
		test.Error(t, err)
		test.That(t, len(p) > 1, d)
		last, ok := p[len(p)-1].(CubicTo)
		test.That(t, ok, "arc approximated by cubics")
		test.T(t, last[2], pt(20, 0))
		// the half circle is above the chord
		b := p.Bounds()
		test.That(t, (b.Min.Y+fixed.I(10)).Round() == 0, d, b)
	}
}

func TestParsePathDataErrors(t *testing.T) {
	for _, d := range []string{
		"L10 10",
		"M10",
		"M10 10 L",
		"M10 10 X20",
		"M10 10 L 1 # 2",
		"M0 0 A 1 1 0 2 0 10 10",
		"M0 0 Z 4",
	} {
		t.Run(d, func(t *testing.T) {
			_, err := ParsePathData(d)
			test.That(t, err != nil, "expected an error")
		})
	}
}

func TestShapes(t *testing.T) {
	var r Path
	r.AddRoundRect(0, 0, 10, 20, 0, 5)
	test.T(t, len(r), 5) // zero radius gives a plain rectangle

	var rr Path
	rr.AddRoundRect(0, 0, 10, 20, 50, 50)
	b := rr.Bounds()
	test.T(t, [4]int{b.Min.X.Round(), b.Min.Y.Round(), b.Max.X.Round(), b.Max.Y.Round()}, [4]int{0, 0, 10, 20})

	var e Path
	e.AddEllipse(0, 0, 0, 10)
	test.T(t, len(e), 0)

	var l Path
	l.AddLine(1, 2, 3, 4)
	test.T(t, l, Path{MoveTo(pt(1, 2)), LineTo(pt(3, 4))})
}
