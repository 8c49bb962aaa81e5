// Package alt is an alternative PDF backend, writing the content
// stream directly with github.com/benoitkugler/pdf.
package alt

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	"github.com/benoitkugler/pdf/contentstream"
	"github.com/benoitkugler/pdf/fonts"
	"github.com/benoitkugler/pdf/fonts/standardfonts"
	"github.com/benoitkugler/pdf/model"
	"github.com/benoitkugler/svgpicture/svgdraw"
	"github.com/benoitkugler/svgpicture/svgpath"
	"github.com/benoitkugler/svgpicture/svgrender"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/fixed"
)

var _ svgdraw.Canvas = (*Canvas)(nil) // assert interface conformance

type state struct {
	alpha float64 // accumulated opacity of the enclosing layers
}

// Canvas writes the drawing operations to a content stream.
// Save and Restore are mapped to the q and Q operators, and
// opacities to shared graphic state dictionaries.
//
// As for the svgpdf backend, a layer is approximated by applying
// its opacity to each of its operations.
type Canvas struct {
	pdf    *contentstream.Appearance
	states []state

	fillOpacityStates   map[float64]*model.GraphicState
	strokeOpacityStates map[float64]*model.GraphicState
	fonts               map[string]fonts.BuiltFont
}

// NewCanvas returns a canvas appending its operations to pdf.
func NewCanvas(pdf *contentstream.Appearance) *Canvas {
	return &Canvas{
		pdf:                 pdf,
		states:              []state{{alpha: 1}},
		fillOpacityStates:   make(map[float64]*model.GraphicState),
		strokeOpacityStates: make(map[float64]*model.GraphicState),
		fonts:               make(map[string]fonts.BuiltFont),
	}
}

// RenderPicture writes pic as a single page PDF document, using
// one point per user unit.
func RenderPicture(pic *svgdraw.Picture, out io.Writer) error {
	return renderPicture(pic, out, true)
}

func renderPicture(pic *svgdraw.Picture, out io.Writer, compress bool) error {
	h := pic.Height()
	ap := contentstream.NewAppearance(pic.Width(), h)
	cv := NewCanvas(&ap)

	// the picture uses a y-down space
	ap.SaveState()
	ap.Transform(model.Matrix{1, 0, 0, -1, 0, h})
	pic.Playback(cv)
	if err := ap.RestoreState(); err != nil {
		return err
	}

	page := new(model.PageObject)
	ap.ApplyToPageObject(page, compress)
	var doc model.Document
	doc.Catalog.Pages.Kids = append(doc.Catalog.Pages.Kids, page)
	return doc.Write(out, nil)
}

// RenderSVGToPDF converts the SVG document read from r and writes it
// to out, as a PDF document.
func RenderSVGToPDF(r io.Reader, out io.Writer, opts svgrender.Options) error {
	res, err := svgrender.Convert(r, opts)
	if err != nil {
		return err
	}
	if res.CanvasSize.IsEmpty() {
		return fmt.Errorf("svgpdf/alt: empty canvas size %v", res.CanvasSize)
	}
	return RenderPicture(res.Picture, out)
}

func (cv *Canvas) top() *state { return &cv.states[len(cv.states)-1] }

func (cv *Canvas) Save() {
	cv.states = append(cv.states, *cv.top())
	cv.pdf.SaveState()
}

func (cv *Canvas) SaveLayer(alpha uint8) {
	st := *cv.top()
	st.alpha *= float64(alpha) / 0xff
	cv.states = append(cv.states, st)
	cv.pdf.SaveState()
}

func (cv *Canvas) Restore() {
	if len(cv.states) == 1 { // unbalanced Restore
		return
	}
	cv.states = cv.states[:len(cv.states)-1]
	_ = cv.pdf.RestoreState() // balanced with the states stack
}

func (cv *Canvas) Concat(m svgpath.Matrix2D) {
	cv.pdf.Transform(model.Matrix{m.A, m.B, m.C, m.D, m.E, m.F})
}

func (cv *Canvas) ClipRect(r svgdraw.Rect) { cv.ClipPath(r.Path()) }

func (cv *Canvas) ClipPath(p svgpath.Path) {
	p.AddTo(&pather{pdf: cv.pdf}, svgpath.Identity)
	cv.pdf.Ops(contentstream.OpClip{}, contentstream.OpEndPath{})
}

// opacityState returns the graphic state setting the fill (or stroke)
// opacity, reusing the one already registered for this value.
func opacityState(states map[float64]*model.GraphicState, opacity float64, stroke bool) *model.GraphicState {
	gs, ok := states[opacity]
	if !ok {
		gs = &model.GraphicState{BM: []model.Name{"Normal"}}
		if stroke {
			gs.CA = model.ObjFloat(opacity)
		} else {
			gs.Ca = model.ObjFloat(opacity)
		}
		states[opacity] = gs
	}
	return gs
}

func (cv *Canvas) setFillAlpha(a uint8) {
	gs := opacityState(cv.fillOpacityStates, float64(a)/0xff*cv.top().alpha, false)
	cv.pdf.Ops(contentstream.OpSetExtGState{Dict: cv.pdf.AddExtGState(gs)})
}

func (cv *Canvas) setStrokeAlpha(a uint8) {
	gs := opacityState(cv.strokeOpacityStates, float64(a)/0xff*cv.top().alpha, true)
	cv.pdf.Ops(contentstream.OpSetExtGState{Dict: cv.pdf.AddExtGState(gs)})
}

// opaque drops the alpha channel, which is handled by
// the graphic states.
func opaque(c color.NRGBA) color.NRGBA {
	c.A = 0xff
	return c
}

func (cv *Canvas) DrawPath(p svgpath.Path, paint *svgdraw.Paint) {
	if paint.Shader != nil && paint.Style == svgdraw.FillStyle {
		cv.fillShader(p, paint)
		return
	}

	c := paint.Color
	switch paint.Style {
	case svgdraw.FillStyle:
		cv.setFillAlpha(c.A)
		cv.pdf.SetColorFill(opaque(c))
		p.AddTo(&pather{pdf: cv.pdf}, svgpath.Identity)
		if paint.EvenOdd {
			cv.pdf.Ops(contentstream.OpEOFill{})
		} else {
			cv.pdf.Ops(contentstream.OpFill{})
		}
	case svgdraw.StrokeStyle:
		if paint.StrokeWidth <= 0 {
			return
		}
		cv.setStrokeAlpha(c.A)
		cv.pdf.SetColorStroke(opaque(c))
		cv.setStroke(paint)
		p.AddTo(&pather{pdf: cv.pdf}, svgpath.Identity)
		cv.pdf.Ops(contentstream.OpStroke{})
	}
}

var (
	capToStyle = [...]uint8{
		svgdraw.ButtCap:   0,
		svgdraw.RoundCap:  1,
		svgdraw.SquareCap: 2,
	}
	joinToStyle = [...]uint8{
		svgdraw.MiterJoin: 0,
		svgdraw.RoundJoin: 1,
		svgdraw.BevelJoin: 2,
	}
)

func (cv *Canvas) setStroke(paint *svgdraw.Paint) {
	var dash model.DashPattern
	if paint.Dash != nil {
		dash = model.DashPattern{Array: paint.Dash.Intervals, Phase: paint.Dash.Offset}
	}
	cv.pdf.Ops(
		contentstream.OpSetLineWidth{W: paint.StrokeWidth},
		contentstream.OpSetLineCap{Style: capToStyle[paint.Cap]},
		contentstream.OpSetLineJoin{Style: joinToStyle[paint.Join]},
		contentstream.OpSetDash{Dash: dash},
	)
	if paint.MiterLimit >= 1 {
		cv.pdf.Ops(contentstream.OpSetMiterLimit{Limit: paint.MiterLimit})
	}
}

// gradientFunction interpolates between the stops, padded
// so that the offsets cover [0, 1].
func gradientFunction(stops []svgpath.GradStop) model.FunctionDict {
	stops = append([]svgpath.GradStop(nil), stops...)
	if first := stops[0]; first.Offset > 0 {
		stops = append([]svgpath.GradStop{{Offset: 0, StopColor: first.StopColor}}, stops...)
	}
	if last := stops[len(stops)-1]; last.Offset < 1 || len(stops) == 1 {
		stops = append(stops, svgpath.GradStop{Offset: 1, StopColor: last.StopColor})
	}

	rgb := func(c color.NRGBA) []model.Fl {
		return []model.Fl{float64(c.R) / 0xff, float64(c.G) / 0xff, float64(c.B) / 0xff}
	}
	domain := []model.Range{{0, 1}}
	parts := make([]model.FunctionDict, len(stops)-1)
	for i := range parts {
		parts[i] = model.FunctionDict{
			FunctionType: model.FunctionExpInterpolation{
				C0: rgb(stops[i].StopColor),
				C1: rgb(stops[i+1].StopColor),
				N:  1,
			},
			Domain: domain,
		}
	}
	if len(parts) == 1 {
		return parts[0]
	}
	bounds := make([]model.Fl, len(parts)-1)
	for i := range bounds {
		bounds[i] = stops[i+1].Offset
	}
	return model.FunctionDict{
		FunctionType: model.FunctionStitching{
			Functions: parts,
			Bounds:    bounds,
			Encode:    model.FunctionEncodeRepeat(len(parts)),
		},
		Domain: domain,
	}
}

// fillShader clips to p and paints the gradient as a PDF shading.
// The opacity of the stops is averaged, and only the pad
// spread method is supported.
func (cv *Canvas) fillShader(p svgpath.Path, paint *svgdraw.Paint) {
	var (
		stops   []svgpath.GradStop
		shading model.Shading
	)
	switch sh := paint.Shader.(type) {
	case svgdraw.LinearGradient:
		stops = sh.Stops
		if len(stops) == 0 {
			return
		}
		shading = model.ShadingAxial{
			BaseGradient: model.BaseGradient{Function: []model.FunctionDict{gradientFunction(stops)}, Extend: [2]bool{true, true}},
			Coords:       [4]model.Fl{sh.Start.X, sh.Start.Y, sh.End.X, sh.End.Y},
		}
	case svgdraw.RadialGradient:
		stops = sh.Stops
		if len(stops) == 0 {
			return
		}
		shading = model.ShadingRadial{
			BaseGradient: model.BaseGradient{Function: []model.FunctionDict{gradientFunction(stops)}, Extend: [2]bool{true, true}},
			Coords:       [6]model.Fl{sh.Focus.X, sh.Focus.Y, 0, sh.Center.X, sh.Center.Y, sh.Radius},
		}
	default:
		return
	}

	var alpha int
	for _, s := range stops {
		alpha += int(s.StopColor.A)
	}

	cv.pdf.SaveState()
	defer cv.pdf.RestoreState()

	p.AddTo(&pather{pdf: cv.pdf}, svgpath.Identity)
	if paint.EvenOdd {
		cv.pdf.Ops(contentstream.OpEOClip{}, contentstream.OpEndPath{})
	} else {
		cv.pdf.Ops(contentstream.OpClip{}, contentstream.OpEndPath{})
	}
	cv.setFillAlpha(uint8(alpha / len(stops)))
	cv.pdf.Shading(&model.ShadingDict{ColorSpace: model.ColorSpaceRGB, ShadingType: shading})
}

func (cv *Canvas) DrawImage(img image.Image, dst svgdraw.Rect) {
	if dst.IsEmpty() {
		return
	}
	rgba := image.NewNRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return
	}
	obj, _, err := contentstream.ParseImage(&buf, "image/png")
	if err != nil {
		return
	}
	cv.setFillAlpha(0xff)
	// images are drawn in the unit square, with the y axis going up
	cv.pdf.AddXObjectDims(obj, dst.X, dst.Y+dst.H, dst.W, -dst.H)
}

// standardFont maps the requested typeface to one of the core PDF fonts.
func standardFont(tf svgdraw.Typeface) (string, standardfonts.Metrics) {
	lower := strings.ToLower(tf.Family)
	bold, italic := tf.Weight >= 600, tf.Slant != svgdraw.Upright
	switch {
	case strings.Contains(lower, "mono") || strings.Contains(lower, "courier"):
		switch {
		case bold && italic:
			return "Courier-BoldOblique", standardfonts.Courier_BoldOblique
		case bold:
			return "Courier-Bold", standardfonts.Courier_Bold
		case italic:
			return "Courier-Oblique", standardfonts.Courier_Oblique
		}
		return "Courier", standardfonts.Courier
	case strings.Contains(lower, "times") || strings.Contains(lower, "serif") && !strings.Contains(lower, "sans"):
		switch {
		case bold && italic:
			return "Times-BoldItalic", standardfonts.Times_BoldItalic
		case bold:
			return "Times-Bold", standardfonts.Times_Bold
		case italic:
			return "Times-Italic", standardfonts.Times_Italic
		}
		return "Times-Roman", standardfonts.Times_Roman
	}
	switch {
	case bold && italic:
		return "Helvetica-BoldOblique", standardfonts.Helvetica_BoldOblique
	case bold:
		return "Helvetica-Bold", standardfonts.Helvetica_Bold
	case italic:
		return "Helvetica-Oblique", standardfonts.Helvetica_Oblique
	}
	return "Helvetica", standardfonts.Helvetica
}

// font returns the built font for tf, which is cached.
func (cv *Canvas) font(tf svgdraw.Typeface) (fonts.BuiltFont, error) {
	name, metrics := standardFont(tf)
	if f, ok := cv.fonts[name]; ok {
		return f, nil
	}
	f, err := fonts.BuildFont(&model.FontDict{Subtype: metrics.WesternType1Font()})
	if err != nil {
		return fonts.BuiltFont{}, err
	}
	cv.fonts[name] = f
	return f, nil
}

func (cv *Canvas) DrawText(text string, x, y float64, paint *svgdraw.Paint) {
	if paint.TextSize <= 0 {
		return
	}
	font, err := cv.font(paint.Typeface)
	if err != nil {
		return
	}

	cv.pdf.SaveState()
	defer cv.pdf.RestoreState()

	c := paint.Color
	if paint.Style == svgdraw.StrokeStyle {
		cv.setStrokeAlpha(c.A)
		cv.pdf.SetColorStroke(opaque(c))
		cv.pdf.Ops(
			contentstream.OpSetLineWidth{W: paint.StrokeWidth},
			contentstream.OpSetTextRender{Render: 1}, // stroke only
		)
	} else {
		cv.setFillAlpha(c.A)
		cv.pdf.SetColorFill(opaque(c))
	}
	cv.pdf.BeginText()
	cv.pdf.SetFontAndSize(font, paint.TextSize)
	// glyphs are drawn upright in the y-down space
	cv.pdf.SetTextMatrix(1, 0, 0, -1, x, y)
	_ = cv.pdf.ShowText(text) // the font is set
	cv.pdf.EndText()
}

func (cv *Canvas) MeasureText(text string, paint *svgdraw.Paint) float64 {
	font, err := cv.font(paint.Typeface)
	if err != nil {
		return 0
	}
	var w float64
	for _, r := range text {
		w += font.GetWidth(r, paint.TextSize)
	}
	return w
}

// implements the path commands
type pather struct {
	pdf *contentstream.Appearance
	a   fixed.Point26_6 // current point, used to convert quadratic curves
}

func fixedTof(a fixed.Point26_6) (model.Fl, model.Fl) {
	return float64(a.X) / 64, float64(a.Y) / 64
}

func (p *pather) Start(a fixed.Point26_6) {
	x, y := fixedTof(a)
	p.pdf.Ops(contentstream.OpMoveTo{X: x, Y: y})
	p.a = a
}

func (p *pather) Line(b fixed.Point26_6) {
	x, y := fixedTof(b)
	p.pdf.Ops(contentstream.OpLineTo{X: x, Y: y})
	p.a = b
}

// QuadBezier is elevated to a cubic curve.
func (p *pather) QuadBezier(b fixed.Point26_6, c fixed.Point26_6) {
	x0, y0 := fixedTof(p.a)
	bx, by := fixedTof(b)
	x, y := fixedTof(c)
	p.pdf.Ops(contentstream.OpCubicTo{
		X1: x0 + 2./3*(bx-x0), Y1: y0 + 2./3*(by-y0),
		X2: x + 2./3*(bx-x), Y2: y + 2./3*(by-y),
		X3: x, Y3: y,
	})
	p.a = c
}

func (p *pather) CubeBezier(b fixed.Point26_6, c fixed.Point26_6, d fixed.Point26_6) {
	x1, y1 := fixedTof(b)
	x2, y2 := fixedTof(c)
	x3, y3 := fixedTof(d)
	p.pdf.Ops(contentstream.OpCubicTo{X1: x1, Y1: y1, X2: x2, Y2: y2, X3: x3, Y3: y3})
	p.a = d
}

func (p *pather) Stop(closeLoop bool) {
	if closeLoop {
		p.pdf.Ops(contentstream.OpClosePath{})
	}
}
