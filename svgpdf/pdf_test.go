package svgpdf

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/benoitkugler/svgpicture/svgdraw"
	"github.com/benoitkugler/svgpicture/svgpath"
	"github.com/benoitkugler/svgpicture/svgrender"
	"github.com/jung-kurt/gofpdf"
	"github.com/tdewolff/test"
	"golang.org/x/image/math/fixed"
)

// newTestPDF returns an uncompressed document, so that
// the content stream may be inspected.
func newTestPDF() *gofpdf.Fpdf {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{UnitStr: "pt", Size: gofpdf.SizeType{Wd: 100, Ht: 50}})
	pdf.SetCompression(false)
	pdf.AddPage()
	return pdf
}

func output(t *testing.T, pdf *gofpdf.Fpdf) string {
	t.Helper()
	var buf bytes.Buffer
	test.Error(t, pdf.Output(&buf))
	test.Error(t, os.WriteFile(filepath.Join(t.TempDir(), "out.pdf"), buf.Bytes(), os.ModePerm))
	return buf.String()
}

func TestPather(t *testing.T) {
	pdf := newTestPDF()
	var p svgpath.Path
	p.Start(fToFixed(10, 10))
	p.QuadBezier(fToFixed(20, 10), fToFixed(20, 20))
	p.CubeBezier(fToFixed(20, 30), fToFixed(10, 30), fToFixed(10, 20))
	p.Stop(true)
	p.AddTo(&pather{pdf: pdf}, svgpath.Identity)
	pdf.DrawPath("D")

	out := output(t, pdf)
	test.That(t, strings.Contains(out, "10.00 40.00 m"))
	// the quadratic curve is elevated to a cubic one
	test.That(t, strings.Contains(out, "16.66667 40.00000 20.00000 36.66667 20.00000 30.00000 c"), out)
	test.That(t, strings.Contains(out, "\nh\nS\n"))
}

func fToFixed(x, y float64) fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
}

func TestCanvas(t *testing.T) {
	pdf := newTestPDF()
	cv := NewCanvas(pdf)
	cv.Save()
	cv.Concat(svgpath.Identity.Translate(10, 5).Scale(2, 2))
	cv.ClipRect(svgdraw.Rect{W: 20, H: 10})

	fill := svgdraw.NewFillPaint()
	fill.Color = color.NRGBA{R: 0xff, A: 0x80}
	fill.EvenOdd = true
	cv.DrawPath(svgdraw.Rect{W: 5, H: 5}.Path(), fill)

	stroke := svgdraw.NewStrokePaint()
	stroke.Color = color.NRGBA{B: 0xff, A: 0xff}
	stroke.Cap = svgdraw.RoundCap
	stroke.Join = svgdraw.BevelJoin
	stroke.Dash = &svgdraw.Dash{Intervals: []float64{2, 1}}
	cv.DrawPath(svgdraw.Rect{W: 5, H: 5}.Path(), stroke)
	cv.Restore()
	cv.Restore() // ignored

	out := output(t, pdf)
	// the page is 50pt high: y = 5 maps to 45 - 50
	test.That(t, strings.Contains(out, "2.00000 10.00000 -55.00000 cm"), out)
	test.That(t, strings.Contains(out, "\nW n\n"))
	test.That(t, strings.Contains(out, "1.000 0.000 0.000 rg"))
	test.That(t, strings.Contains(out, "\nf*\n"))
	test.That(t, strings.Contains(out, "0.000 0.000 1.000 RG"))
	test.That(t, strings.Contains(out, "1 J"))
	test.That(t, strings.Contains(out, "2 j"))
	test.That(t, strings.Contains(out, "4.00 M"))
	test.That(t, strings.Contains(out, "[2.00 1.00] 0.00 d"), out)
	test.That(t, strings.Contains(out, "/ca 0.502"), out)
}

func TestLayerOpacity(t *testing.T) {
	pdf := newTestPDF()
	cv := NewCanvas(pdf)
	cv.SaveLayer(0x80)
	cv.SaveLayer(0x80)
	cv.DrawPath(svgdraw.Rect{W: 5, H: 5}.Path(), svgdraw.NewFillPaint())
	cv.Restore()
	test.Float(t, cv.top().alpha, float64(0x80)/0xff)
	cv.Restore()
	test.Float(t, cv.top().alpha, 1)

	out := output(t, pdf)
	test.That(t, strings.Contains(out, "/ca 0.252"), out)
}

func TestFontFamily(t *testing.T) {
	for _, tt := range []struct {
		tf            svgdraw.Typeface
		family, style string
	}{
		{svgdraw.DefaultTypeface, "Helvetica", ""},
		{svgdraw.Typeface{Family: "Courier New", Weight: 700}, "Courier", "B"},
		{svgdraw.Typeface{Family: "serif", Weight: 400, Slant: svgdraw.Italic}, "Times", "I"},
		{svgdraw.Typeface{Family: "DejaVu Sans", Weight: 900, Slant: svgdraw.Oblique}, "Helvetica", "BI"},
	} {
		family, style := fontFamily(tt.tf)
		test.String(t, family, tt.family)
		test.String(t, style, tt.style)
	}
}

func TestText(t *testing.T) {
	pdf := newTestPDF()
	cv := NewCanvas(pdf)
	paint := svgdraw.NewFillPaint()
	paint.TextSize = 10

	w := cv.MeasureText("Hé", paint)
	test.That(t, w > 0)
	cv.DrawText("Hé", 5, 20, paint)

	paint.Style = svgdraw.StrokeStyle
	cv.DrawText("x", 5, 40, paint)

	out := output(t, pdf)
	test.That(t, strings.Contains(out, "BT 5.00 30.00 Td (H\xe9) Tj ET"), out)
	test.That(t, strings.Contains(out, "1 Tr"))
}

func TestImage(t *testing.T) {
	img := image.NewRGBA64(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.White)

	pdf := newTestPDF()
	cv := NewCanvas(pdf)
	cv.DrawImage(img, svgdraw.Rect{X: 10, Y: 10, W: 20, H: 20})
	cv.DrawImage(img, svgdraw.Rect{})

	out := output(t, pdf)
	test.That(t, strings.Contains(out, "/Subtype /Image"))
	test.T(t, cv.images, 1)
}

func TestGradient(t *testing.T) {
	pdf := newTestPDF()
	cv := NewCanvas(pdf)
	paint := svgdraw.NewFillPaint()
	paint.Shader = svgdraw.LinearGradient{
		Start: svgdraw.Point{X: 0, Y: 0},
		End:   svgdraw.Point{X: 10, Y: 0},
		Stops: []svgpath.GradStop{
			{Offset: 0, StopColor: color.NRGBA{R: 0xff, A: 0xff}},
			{Offset: 1, StopColor: color.NRGBA{B: 0xff, A: 0xff}},
		},
	}
	cv.DrawPath(svgdraw.Rect{W: 10, H: 10}.Path(), paint)

	paint.Shader = svgdraw.RadialGradient{Center: svgdraw.Point{X: 5, Y: 5}, Focus: svgdraw.Point{X: 5, Y: 5}, Radius: 5}
	cv.DrawPath(svgdraw.Rect{W: 10, H: 10}.Path(), paint) // no stops

	out := output(t, pdf)
	test.That(t, strings.Contains(out, "/ShadingType 2"), out)
	test.That(t, strings.Contains(out, "/Sh1 sh"))
	test.That(t, !strings.Contains(out, "/ShadingType 3"))
}

func TestRenderSVGToPDF(t *testing.T) {
	var buf bytes.Buffer
	err := RenderSVGToPDF(strings.NewReader(`<svg width="40" height="20" viewBox="0 0 20 10">
		<g opacity="0.5"><rect width="10" height="10" fill="red"/></g>
		<text x="2" y="8">A</text>
	</svg>`), &buf, svgrender.Options{})
	test.Error(t, err)
	test.That(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	err = RenderSVGToPDF(strings.NewReader(`<svg width="0" height="20"/>`), &buf, svgrender.Options{})
	test.That(t, err != nil)

	err = RenderSVGToPDF(strings.NewReader(`<html/>`), &buf, svgrender.Options{})
	test.That(t, err != nil)
}
