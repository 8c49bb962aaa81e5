// Package svgpdf implements a PDF backend to render SVG pictures,
// by wrapping github.com/jung-kurt/gofpdf.
package svgpdf

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"github.com/benoitkugler/svgpicture/svgdraw"
	"github.com/benoitkugler/svgpicture/svgpath"
	"github.com/benoitkugler/svgpicture/svgrender"
	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/fixed"
)

var _ svgdraw.Canvas = (*Canvas)(nil) // assert interface conformance

type state struct {
	alpha float64 // accumulated opacity of the enclosing layers
}

// Canvas writes the drawing operations to the current page of a PDF document.
// The transforms and clips are mapped to the PDF graphics state.
//
// PDF transparency groups are not supported: a layer is approximated by
// applying its opacity to each of its operations.
type Canvas struct {
	pdf    *gofpdf.Fpdf
	states []state
	images int // used to name the registered images

	translate func(string) string // UTF-8 to the code page of the core fonts
}

// NewCanvas returns a canvas drawing on the current page of pdf,
// which must have been added.
// Operations modifying the graphics state must be enclosed
// by Save and Restore.
func NewCanvas(pdf *gofpdf.Fpdf) *Canvas {
	return &Canvas{
		pdf:       pdf,
		states:    []state{{alpha: 1}},
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

// RenderPicture writes pic as a single page PDF document, using
// one point per user unit.
func RenderPicture(pic *svgdraw.Picture, out io.Writer) error {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: pic.Width(), Ht: pic.Height()},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	cv := NewCanvas(pdf)
	cv.Save() // gofpdf requires a transformation context
	pic.Playback(cv)
	cv.Restore()
	return pdf.Output(out)
}

// RenderSVGToPDF converts the SVG document read from r and writes it
// to out, as a PDF document.
func RenderSVGToPDF(r io.Reader, out io.Writer, opts svgrender.Options) error {
	res, err := svgrender.Convert(r, opts)
	if err != nil {
		return err
	}
	if res.CanvasSize.IsEmpty() {
		return fmt.Errorf("svgpdf: empty canvas size %v", res.CanvasSize)
	}
	return RenderPicture(res.Picture, out)
}

func (cv *Canvas) top() *state { return &cv.states[len(cv.states)-1] }

func (cv *Canvas) Save() {
	cv.states = append(cv.states, *cv.top())
	cv.pdf.TransformBegin()
}

func (cv *Canvas) SaveLayer(alpha uint8) {
	st := *cv.top()
	st.alpha *= float64(alpha) / 0xff
	cv.states = append(cv.states, st)
	cv.pdf.TransformBegin()
}

func (cv *Canvas) Restore() {
	if len(cv.states) == 1 { // unbalanced Restore
		return
	}
	cv.states = cv.states[:len(cv.states)-1]
	cv.pdf.TransformEnd()
}

// toPDFMatrix expresses m in the PDF page space, where
// the origin is the bottom left corner and the y axis goes up.
func (cv *Canvas) toPDFMatrix(m svgpath.Matrix2D) gofpdf.TransformMatrix {
	k := cv.pdf.GetConversionRatio()
	_, h := cv.pdf.GetPageSize()
	return gofpdf.TransformMatrix{
		A: m.A, B: -m.B, C: -m.C, D: m.D,
		E: k * (m.C*h + m.E),
		F: k * (h - m.D*h - m.F),
	}
}

// Concat must be called between Save and Restore.
func (cv *Canvas) Concat(m svgpath.Matrix2D) {
	cv.pdf.Transform(cv.toPDFMatrix(m))
}

func (cv *Canvas) ClipRect(r svgdraw.Rect) { cv.ClipPath(r.Path()) }

func (cv *Canvas) ClipPath(p svgpath.Path) {
	p.AddTo(&pather{pdf: cv.pdf}, svgpath.Identity)
	cv.pdf.DrawPath("W n")
}

func (cv *Canvas) setAlpha(a uint8) {
	cv.pdf.SetAlpha(float64(a)/0xff*cv.top().alpha, "")
}

func (cv *Canvas) DrawPath(p svgpath.Path, paint *svgdraw.Paint) {
	if paint.Shader != nil && paint.Style == svgdraw.FillStyle {
		cv.fillShader(p, paint)
		return
	}

	c := paint.Color
	cv.setAlpha(c.A)
	switch paint.Style {
	case svgdraw.FillStyle:
		cv.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
		p.AddTo(&pather{pdf: cv.pdf}, svgpath.Identity)
		if paint.EvenOdd {
			cv.pdf.DrawPath("F*")
		} else {
			cv.pdf.DrawPath("F")
		}
	case svgdraw.StrokeStyle:
		if paint.StrokeWidth <= 0 {
			return
		}
		cv.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
		cv.setStroke(paint)
		p.AddTo(&pather{pdf: cv.pdf}, svgpath.Identity)
		cv.pdf.DrawPath("D")
	}
}

var (
	capToStyle = [...]string{
		svgdraw.ButtCap:   "butt",
		svgdraw.RoundCap:  "round",
		svgdraw.SquareCap: "square",
	}
	joinToStyle = [...]string{
		svgdraw.MiterJoin: "miter",
		svgdraw.RoundJoin: "round",
		svgdraw.BevelJoin: "bevel",
	}
)

func (cv *Canvas) setStroke(paint *svgdraw.Paint) {
	cv.pdf.SetLineWidth(paint.StrokeWidth)
	cv.pdf.SetLineCapStyle(capToStyle[paint.Cap])
	cv.pdf.SetLineJoinStyle(joinToStyle[paint.Join])
	if paint.MiterLimit >= 1 {
		cv.pdf.RawWriteStr(fmt.Sprintf("%.2f M", paint.MiterLimit))
	}
	if paint.Dash != nil {
		cv.pdf.SetDashPattern(paint.Dash.Intervals, paint.Dash.Offset)
	} else {
		cv.pdf.SetDashPattern(nil, 0)
	}
}

// fillShader clips to p and paints the gradient over its bounding box.
// Only the first and last stops are used.
func (cv *Canvas) fillShader(p svgpath.Path, paint *svgdraw.Paint) {
	var stops []svgpath.GradStop
	switch sh := paint.Shader.(type) {
	case svgdraw.LinearGradient:
		stops = sh.Stops
	case svgdraw.RadialGradient:
		stops = sh.Stops
	}
	if len(stops) == 0 {
		return
	}
	b := p.Bounds()
	x, y := float64(b.Min.X)/64, float64(b.Min.Y)/64
	w, h := float64(b.Max.X-b.Min.X)/64, float64(b.Max.Y-b.Min.Y)/64
	if w <= 0 || h <= 0 {
		return
	}
	// gradient vectors use the unit square, with the y axis going up
	norm := func(pt svgdraw.Point) (float64, float64) { return (pt.X - x) / w, 1 - (pt.Y-y)/h }

	first, last := stops[0].StopColor, stops[len(stops)-1].StopColor
	cv.pdf.TransformBegin()
	defer cv.pdf.TransformEnd()

	cv.ClipPath(p)
	cv.setAlpha(uint8((int(first.A) + int(last.A)) / 2))
	switch sh := paint.Shader.(type) {
	case svgdraw.LinearGradient:
		x1, y1 := norm(sh.Start)
		x2, y2 := norm(sh.End)
		cv.pdf.LinearGradient(x, y, w, h, int(first.R), int(first.G), int(first.B),
			int(last.R), int(last.G), int(last.B), x1, y1, x2, y2)
	case svgdraw.RadialGradient:
		fx, fy := norm(sh.Focus)
		cx, cy := norm(sh.Center)
		cv.pdf.RadialGradient(x, y, w, h, int(first.R), int(first.G), int(first.B),
			int(last.R), int(last.G), int(last.B), fx, fy, cx, cy, sh.Radius/max(w, h))
	}
}

func (cv *Canvas) DrawImage(img image.Image, dst svgdraw.Rect) {
	if dst.IsEmpty() {
		return
	}
	// gofpdf only supports 8-bit PNG images
	rgba := image.NewNRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return
	}
	cv.images++
	name := fmt.Sprintf("image%d", cv.images)
	opts := gofpdf.ImageOptions{ImageType: "PNG", AllowNegativePosition: true}
	cv.pdf.RegisterImageOptionsReader(name, opts, &buf)
	cv.setAlpha(0xff)
	cv.pdf.ImageOptions(name, dst.X, dst.Y, dst.W, dst.H, false, opts, 0, "")
}

// fontFamily maps the requested family to one of the core PDF fonts.
func fontFamily(tf svgdraw.Typeface) (family, style string) {
	lower := strings.ToLower(tf.Family)
	switch {
	case strings.Contains(lower, "mono") || strings.Contains(lower, "courier"):
		family = "Courier"
	case strings.Contains(lower, "times") || strings.Contains(lower, "serif") && !strings.Contains(lower, "sans"):
		family = "Times"
	default:
		family = "Helvetica"
	}
	if tf.Weight >= 600 {
		style += "B"
	}
	if tf.Slant != svgdraw.Upright {
		style += "I"
	}
	return family, style
}

func (cv *Canvas) setFont(paint *svgdraw.Paint) {
	family, style := fontFamily(paint.Typeface)
	cv.pdf.SetFont(family, style, 0)
	cv.pdf.SetFontUnitSize(paint.TextSize)
}

func (cv *Canvas) DrawText(text string, x, y float64, paint *svgdraw.Paint) {
	if paint.TextSize <= 0 {
		return
	}
	cv.setFont(paint)
	c := paint.Color
	cv.setAlpha(c.A)
	if paint.Style == svgdraw.StrokeStyle {
		cv.pdf.TransformBegin()
		defer cv.pdf.TransformEnd()

		cv.pdf.RawWriteStr("1 Tr") // stroke only
		cv.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
		cv.pdf.SetLineWidth(paint.StrokeWidth)
	}
	cv.pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
	cv.pdf.Text(x, y, cv.translate(text))
}

func (cv *Canvas) MeasureText(text string, paint *svgdraw.Paint) float64 {
	cv.setFont(paint)
	return cv.pdf.GetStringWidth(cv.translate(text))
}

// implements the path commands
type pather struct {
	pdf *gofpdf.Fpdf
	a   fixed.Point26_6 // current point, used to convert quadratic curves
}

func fixedTof(a fixed.Point26_6) (float64, float64) {
	return float64(a.X) / 64, float64(a.Y) / 64
}

func (p *pather) Start(a fixed.Point26_6) {
	p.pdf.MoveTo(fixedTof(a))
	p.a = a
}

func (p *pather) Line(b fixed.Point26_6) {
	p.pdf.LineTo(fixedTof(b))
	p.a = b
}

// QuadBezier is converted to a cubic curve, since
// PDF has no quadratic operator.
func (p *pather) QuadBezier(b fixed.Point26_6, c fixed.Point26_6) {
	x0, y0 := fixedTof(p.a)
	bx, by := fixedTof(b)
	x, y := fixedTof(c)
	p.pdf.CurveBezierCubicTo(x0+2./3*(bx-x0), y0+2./3*(by-y0), x+2./3*(bx-x), y+2./3*(by-y), x, y)
	p.a = c
}

func (p *pather) CubeBezier(b fixed.Point26_6, c fixed.Point26_6, d fixed.Point26_6) {
	cx0, cy0 := fixedTof(b)
	cx1, cy1 := fixedTof(c)
	x, y := fixedTof(d)
	p.pdf.CurveBezierCubicTo(cx0, cy0, cx1, cy1, x, y)
	p.a = d
}

func (p *pather) Stop(closeLoop bool) {
	if closeLoop {
		p.pdf.ClosePath()
	}
}
