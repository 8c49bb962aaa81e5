package alt

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/benoitkugler/pdf/contentstream"
	"github.com/benoitkugler/pdf/model"
	"github.com/benoitkugler/svgpicture/svgdraw"
	"github.com/benoitkugler/svgpicture/svgpath"
	"github.com/benoitkugler/svgpicture/svgrender"
	"github.com/tdewolff/test"
	"golang.org/x/image/math/fixed"
)

func newTestCanvas() (*contentstream.Appearance, *Canvas) {
	ap := contentstream.NewAppearance(100, 50)
	return &ap, NewCanvas(&ap)
}

// content returns the uncompressed content stream.
func content(ap *contentstream.Appearance) string {
	return string(ap.ToXFormObject(false).Content)
}

func fToFixed(x, y float64) fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
}

func TestPather(t *testing.T) {
	ap, _ := newTestCanvas()
	var p svgpath.Path
	p.Start(fToFixed(0, 0))
	p.QuadBezier(fToFixed(30, 0), fToFixed(30, 30))
	p.CubeBezier(fToFixed(30, 40), fToFixed(10, 40), fToFixed(10, 30))
	p.Stop(true)
	p.AddTo(&pather{pdf: ap}, svgpath.Identity)

	out := content(ap)
	test.That(t, strings.HasPrefix(out, "0 0 m "), out)
	// the quadratic curve is elevated to a cubic one
	test.That(t, strings.Contains(out, " 30 30 c "), out)
	test.That(t, strings.Contains(out, "30 40 10 40 10 30 c h "), out)
}

func TestCanvas(t *testing.T) {
	ap, cv := newTestCanvas()
	cv.Save()
	cv.Concat(svgpath.Matrix2D{A: 2, D: 2, E: 10, F: 5})
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

	stroke.StrokeWidth = 0
	cv.DrawPath(svgdraw.Rect{W: 5, H: 5}.Path(), stroke) // nothing drawn
	cv.Restore()
	cv.Restore() // ignored

	out := content(ap)
	test.That(t, strings.HasPrefix(out, "q 2 0 0 2 10 5 cm "), out)
	test.That(t, strings.Contains(out, " W n "))
	test.That(t, strings.Contains(out, "/GS0 gs 1 0 0 rg "), out)
	test.That(t, strings.Contains(out, " f* "))
	test.That(t, strings.Contains(out, "/GS1 gs 0 0 1 RG "), out)
	test.That(t, strings.Contains(out, "1 w 1 J 2 j [2 1] 0 d 4 M "), out)
	test.T(t, strings.Count(out, " S "), 1)
	test.T(t, strings.Count(out, "q "), strings.Count(out, "Q "))

	// opacities are kept in separate fill and stroke states
	test.T(t, len(cv.fillOpacityStates), 1)
	test.T(t, len(cv.strokeOpacityStates), 1)
	gs := cv.fillOpacityStates[float64(0x80)/0xff]
	test.That(t, gs != nil && gs.CA == nil)
	test.Float(t, float64(gs.Ca.(model.ObjFloat)), float64(0x80)/0xff)
}

func TestLayerOpacity(t *testing.T) {
	ap, cv := newTestCanvas()
	cv.SaveLayer(0x80)
	cv.SaveLayer(0x80)
	cv.DrawPath(svgdraw.Rect{W: 5, H: 5}.Path(), svgdraw.NewFillPaint())
	cv.DrawPath(svgdraw.Rect{W: 6, H: 6}.Path(), svgdraw.NewFillPaint())
	cv.Restore()
	test.Float(t, cv.top().alpha, float64(0x80)/0xff)
	cv.Restore()
	test.Float(t, cv.top().alpha, 1)

	// the graphic state is shared by both paths
	test.T(t, len(cv.fillOpacityStates), 1)
	test.T(t, strings.Count(content(ap), "/GS0 gs"), 2)
}

func TestStandardFont(t *testing.T) {
	for _, tt := range []struct {
		tf   svgdraw.Typeface
		name string
	}{
		{svgdraw.DefaultTypeface, "Helvetica"},
		{svgdraw.Typeface{Family: "Courier New", Weight: 700}, "Courier-Bold"},
		{svgdraw.Typeface{Family: "serif", Weight: 400, Slant: svgdraw.Italic}, "Times-Italic"},
		{svgdraw.Typeface{Family: "DejaVu Sans", Weight: 900, Slant: svgdraw.Oblique}, "Helvetica-BoldOblique"},
	} {
		name, _ := standardFont(tt.tf)
		test.String(t, name, tt.name)
	}
}

func TestText(t *testing.T) {
	ap, cv := newTestCanvas()
	paint := svgdraw.NewFillPaint()
	paint.TextSize = 10

	w := cv.MeasureText("Hé", paint)
	test.That(t, w > 0)
	test.Float(t, cv.MeasureText("HéHé", paint), 2*w)
	cv.DrawText("Hé", 5, 20, paint)

	paint.Style = svgdraw.StrokeStyle
	cv.DrawText("x", 5, 40, paint)

	paint.TextSize = 0
	cv.DrawText("y", 5, 40, paint) // nothing drawn

	out := content(ap)
	test.That(t, strings.Contains(out, "BT /FT0 10 Tf 1 0 0 -1 5 20 Tm"), out)
	test.That(t, strings.Contains(out, "1 Tr"))
	test.T(t, strings.Count(out, "BT "), 2)
	test.T(t, len(cv.fonts), 1)
}

func TestImage(t *testing.T) {
	img := image.NewRGBA64(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.White)

	ap, cv := newTestCanvas()
	cv.DrawImage(img, svgdraw.Rect{X: 10, Y: 10, W: 20, H: 20})
	cv.DrawImage(img, svgdraw.Rect{})

	out := content(ap)
	// the image is flipped to the y-down space
	test.That(t, strings.Contains(out, "q 20 0 0 -20 10 30 cm /XO0 Do Q"), out)
	test.T(t, strings.Count(out, " Do"), 1)
}

func TestGradientFunction(t *testing.T) {
	red := color.NRGBA{R: 0xff, A: 0xff}
	blue := color.NRGBA{B: 0xff, A: 0xff}

	fn := gradientFunction([]svgpath.GradStop{{Offset: 0.5, StopColor: red}})
	single, ok := fn.FunctionType.(model.FunctionExpInterpolation)
	test.That(t, ok)
	test.Floats(t, single.C0, []float64{1, 0, 0})
	test.Floats(t, single.C1, []float64{1, 0, 0})

	stops := []svgpath.GradStop{
		{Offset: 0.2, StopColor: red},
		{Offset: 0.5, StopColor: color.NRGBA{G: 0xff, A: 0xff}},
		{Offset: 1, StopColor: blue},
	}
	fn = gradientFunction(stops)
	stitched, ok := fn.FunctionType.(model.FunctionStitching)
	test.That(t, ok)
	// padded with a stop at 0
	test.T(t, len(stitched.Functions), 3)
	test.Floats(t, stitched.Bounds, []float64{0.2, 0.5})
	test.T(t, len(stitched.Encode), 3)
	test.T(t, len(stops), 3)
}

func TestGradient(t *testing.T) {
	ap, cv := newTestCanvas()
	paint := svgdraw.NewFillPaint()
	paint.Shader = svgdraw.LinearGradient{
		Start: svgdraw.Point{X: 0, Y: 0},
		End:   svgdraw.Point{X: 10, Y: 0},
		Stops: []svgpath.GradStop{
			{Offset: 0, StopColor: color.NRGBA{R: 0xff, A: 0xff}},
			{Offset: 1, StopColor: color.NRGBA{B: 0xff, A: 0x80}},
		},
	}
	cv.DrawPath(svgdraw.Rect{W: 10, H: 10}.Path(), paint)

	paint.Shader = svgdraw.RadialGradient{Center: svgdraw.Point{X: 5, Y: 5}, Focus: svgdraw.Point{X: 5, Y: 5}, Radius: 5}
	cv.DrawPath(svgdraw.Rect{W: 10, H: 10}.Path(), paint) // no stops

	out := content(ap)
	test.That(t, strings.HasPrefix(out, "q "), out)
	test.That(t, strings.Contains(out, " W n /GS0 gs /SH0 sh Q "), out)
	test.T(t, strings.Count(out, " sh "), 1)
	// the opacity of the stops is averaged
	test.That(t, cv.fillOpacityStates[float64((0xff+0x80)/2)/0xff] != nil)
}

func TestRenderPicture(t *testing.T) {
	rec := svgdraw.NewRecorder(40, 20)
	rec.SaveLayer(0x80)
	rec.DrawPath(svgdraw.Rect{W: 10, H: 10}.Path(), svgdraw.NewFillPaint())
	rec.Restore()

	var buf bytes.Buffer
	test.Error(t, renderPicture(rec.FinishRecording(), &buf, false))
	test.Error(t, os.WriteFile(filepath.Join(t.TempDir(), "out.pdf"), buf.Bytes(), os.ModePerm))

	out := buf.String()
	test.That(t, strings.HasPrefix(out, "%PDF-"))
	// the page is flipped to the y-down space
	test.That(t, strings.Contains(out, "q 1 0 0 -1 0 20 cm "), out)
	test.That(t, strings.Contains(out, "/ca "), out)
}

func TestRenderSVGToPDF(t *testing.T) {
	var buf bytes.Buffer
	err := RenderSVGToPDF(strings.NewReader(`<svg width="40" height="20" viewBox="0 0 20 10">
		<defs><linearGradient id="g"><stop offset="0" stop-color="red"/><stop offset="1" stop-color="blue"/></linearGradient></defs>
		<g opacity="0.5"><rect width="10" height="10" fill="url(#g)"/></g>
		<text x="2" y="8">A</text>
	</svg>`), &buf, svgrender.Options{})
	test.Error(t, err)
	test.That(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	err = RenderSVGToPDF(strings.NewReader(`<svg width="0" height="20"/>`), &buf, svgrender.Options{})
	test.That(t, err != nil)

	err = RenderSVGToPDF(strings.NewReader(`<html/>`), &buf, svgrender.Options{})
	test.That(t, err != nil)
}
