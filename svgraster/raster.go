// Package svgraster implements a raster backend to render
// SVG pictures, by wrapping rasterx.
package svgraster

import (
	"image"
	"image/color"
	"io"

	"github.com/benoitkugler/svgpicture/svgdraw"
	"github.com/benoitkugler/svgpicture/svgpath"
	"github.com/benoitkugler/svgpicture/svgrender"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

var _ svgdraw.Canvas = (*Canvas)(nil) // assert interface conformance

type state struct {
	matrix svgpath.Matrix2D
	clip   *image.Alpha // nil for no clip
	layer  *image.RGBA  // where to draw

	isLayer bool // true if layer was started by this state
	alpha   uint8
}

// Canvas rasterizes the drawing operations into an RGBA image.
// Group opacity is implemented with offscreen layers, and
// clips with alpha masks.
// Since rasterx only supports the non zero winding rule,
// even-odd fills are approximated.
type Canvas struct {
	dst    *image.RGBA
	states []state

	scanner *rasterx.ScannerGV
	dasher  *rasterx.Dasher // to avoid shared state
	filler  *rasterx.Filler // we use separated instance

	scratch *image.RGBA // used when a clip is active
}

// NewCanvas returns a canvas drawing into dst, with
// the identity transform.
func NewCanvas(dst *image.RGBA) *Canvas {
	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()
	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	return &Canvas{
		dst:     dst,
		states:  []state{{matrix: svgpath.Identity, layer: dst}},
		scanner: scanner,
		dasher:  rasterx.NewDasher(w, h, scanner),
		filler:  rasterx.NewFiller(w, h, scanner),
	}
}

// Rasterize replays pic into a new image of the given size,
// scaling the picture to fit.
func Rasterize(pic *svgdraw.Picture, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	cv := NewCanvas(img)
	if pw, ph := pic.Width(), pic.Height(); pw > 0 && ph > 0 {
		cv.Concat(svgpath.Identity.Scale(float64(width)/pw, float64(height)/ph))
	}
	pic.Playback(cv)
	return img
}

// RasterSVGToImage converts the SVG document read from r and
// renders it into an image, at the size of the picture.
func RasterSVGToImage(r io.Reader, opts svgrender.Options) (*image.RGBA, error) {
	res, err := svgrender.Convert(r, opts)
	if err != nil {
		return nil, err
	}
	w, h := int(res.CanvasSize.W+0.5), int(res.CanvasSize.H+0.5)
	return Rasterize(res.Picture, w, h), nil
}

func (cv *Canvas) top() *state { return &cv.states[len(cv.states)-1] }

func (cv *Canvas) Save() {
	st := *cv.top()
	st.isLayer = false
	cv.states = append(cv.states, st)
}

func (cv *Canvas) SaveLayer(alpha uint8) {
	st := *cv.top()
	st.isLayer, st.alpha = true, alpha
	st.layer = image.NewRGBA(cv.dst.Bounds())
	cv.states = append(cv.states, st)
}

func (cv *Canvas) Restore() {
	if len(cv.states) == 1 { // unbalanced Restore
		return
	}
	st := cv.states[len(cv.states)-1]
	cv.states = cv.states[:len(cv.states)-1]
	if st.isLayer {
		parent := cv.top().layer
		mask := image.NewUniform(color.Alpha{A: st.alpha})
		draw.DrawMask(parent, parent.Bounds(), st.layer, image.Point{}, mask, image.Point{}, draw.Over)
	}
}

func (cv *Canvas) Concat(m svgpath.Matrix2D) {
	st := cv.top()
	st.matrix = st.matrix.Mult(m)
}

func (cv *Canvas) ClipRect(r svgdraw.Rect) { cv.ClipPath(r.Path()) }

func (cv *Canvas) ClipPath(p svgpath.Path) {
	st := cv.top()
	b := cv.dst.Bounds()
	var r vector.Rasterizer
	r.Reset(b.Dx(), b.Dy())
	p.AddTo(maskAdder{&r}, st.matrix)
	mask := image.NewAlpha(b)
	r.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	if st.clip != nil {
		for i, a := range st.clip.Pix {
			mask.Pix[i] = uint8(uint16(mask.Pix[i]) * uint16(a) / 0xff)
		}
	}
	st.clip = mask
}

// maskAdder sends a path to a vector rasterizer,
// which uses the non zero winding rule.
type maskAdder struct {
	r *vector.Rasterizer
}

func fixedTof(a fixed.Point26_6) (float32, float32) {
	return float32(a.X) / 64, float32(a.Y) / 64
}

func (m maskAdder) Start(a fixed.Point26_6) { m.r.MoveTo(fixedTof(a)) }
func (m maskAdder) Line(b fixed.Point26_6)  { m.r.LineTo(fixedTof(b)) }

func (m maskAdder) QuadBezier(b, c fixed.Point26_6) {
	bx, by := fixedTof(b)
	cx, cy := fixedTof(c)
	m.r.QuadTo(bx, by, cx, cy)
}

func (m maskAdder) CubeBezier(b, c, d fixed.Point26_6) {
	bx, by := fixedTof(b)
	cx, cy := fixedTof(c)
	dx, dy := fixedTof(d)
	m.r.CubeTo(bx, by, cx, cy, dx, dy)
}

// Stop always closes the sub-path, as required for filling.
func (m maskAdder) Stop(bool) { m.r.ClosePath() }

// target returns the image the next operation should draw into,
// which is a cleared scratch image when a clip is active.
func (cv *Canvas) target() *image.RGBA {
	st := cv.top()
	if st.clip == nil {
		return st.layer
	}
	if cv.scratch == nil {
		cv.scratch = image.NewRGBA(cv.dst.Bounds())
	} else {
		clear(cv.scratch.Pix)
	}
	return cv.scratch
}

// flush composites the scratch image, if used.
func (cv *Canvas) flush(target *image.RGBA) {
	st := cv.top()
	if target == st.layer {
		return
	}
	draw.DrawMask(st.layer, st.layer.Bounds(), target, image.Point{}, st.clip, image.Point{}, draw.Over)
}

func (cv *Canvas) DrawPath(p svgpath.Path, paint *svgdraw.Paint) {
	st := cv.top()
	target := cv.target()
	cv.scanner.Dest = target
	cv.setPaint(paint, st.matrix)

	switch paint.Style {
	case svgdraw.FillStyle:
		cv.filler.SetWinding(!paint.EvenOdd)
		cv.filler.Clear()
		p.AddTo(cv.filler, st.matrix)
		cv.filler.Draw()
		cv.filler.Clear()
	case svgdraw.StrokeStyle:
		if paint.StrokeWidth <= 0 {
			return
		}
		cv.setStroke(paint, st.matrix.ScaleFactor())
		cv.dasher.Clear()
		p.AddTo(cv.dasher, st.matrix)
		cv.dasher.Draw()
		cv.dasher.Clear()
	}
	cv.flush(target)
}

func (cv *Canvas) DrawImage(img image.Image, dst svgdraw.Rect) {
	b := img.Bounds()
	if dst.IsEmpty() || b.Empty() {
		return
	}
	st := cv.top()
	m := st.matrix.Translate(dst.X, dst.Y).
		Scale(dst.W/float64(b.Dx()), dst.H/float64(b.Dy())).
		Translate(-float64(b.Min.X), -float64(b.Min.Y))
	s2d := f64.Aff3{m.A, m.C, m.E, m.B, m.D, m.F}

	layer := st.layer
	opts := &draw.Options{}
	if st.clip != nil {
		opts.DstMask = st.clip
	}
	draw.CatmullRom.Transform(layer, s2d, img, b, draw.Over, opts)
}

// DrawText only supports the translation and the scale
// of the current transform.
func (cv *Canvas) DrawText(text string, x, y float64, paint *svgdraw.Paint) {
	st := cv.top()
	size := paint.TextSize * st.matrix.ScaleFactor()
	if size <= 0 {
		return
	}
	face, err := svgdraw.NewFace(paint.Typeface, size)
	if err != nil {
		return
	}
	defer face.Close()

	target := cv.target()
	dx, dy := st.matrix.Transform(x, y)
	d := font.Drawer{
		Dst:  target,
		Src:  image.NewUniform(paint.Color),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(dx * 64), Y: fixed.Int26_6(dy * 64)},
	}
	d.DrawString(text)
	cv.flush(target)
}

func (cv *Canvas) MeasureText(text string, paint *svgdraw.Paint) float64 {
	w, err := svgdraw.MeasureText(text, paint)
	if err != nil {
		return 0
	}
	return w
}

// setPaint resolves the color or the shader of paint,
// in device space.
func (cv *Canvas) setPaint(paint *svgdraw.Paint, m svgpath.Matrix2D) {
	if paint.Shader == nil {
		cv.scanner.SetColor(paint.Color)
		return
	}
	grad := toRasterxGradient(paint.Shader, m)
	cv.scanner.SetColor(grad.GetColorFunction(1))
}

// toRasterxGradient maps the user space shader to device space,
// so that the returned gradient uses the identity transform.
func toRasterxGradient(shader svgdraw.Shader, m svgpath.Matrix2D) rasterx.Gradient {
	var (
		points   [5]float64
		stops    []svgpath.GradStop
		spread   svgpath.SpreadMethod
		isRadial bool
	)
	switch sh := shader.(type) {
	case svgdraw.LinearGradient:
		points[0], points[1] = m.Transform(sh.Start.X, sh.Start.Y)
		points[2], points[3] = m.Transform(sh.End.X, sh.End.Y)
		stops, spread = sh.Stops, sh.Spread
	case svgdraw.RadialGradient:
		points[0], points[1] = m.Transform(sh.Center.X, sh.Center.Y)
		points[2], points[3] = m.Transform(sh.Focus.X, sh.Focus.Y)
		points[4] = sh.Radius * m.ScaleFactor()
		stops, spread = sh.Stops, sh.Spread
		isRadial = true
	}
	out := rasterx.Gradient{
		Points:   points,
		Stops:    make([]rasterx.GradStop, len(stops)),
		Matrix:   rasterx.Identity,
		Spread:   rasterx.SpreadMethod(spread),
		Units:    rasterx.UserSpaceOnUse,
		IsRadial: isRadial,
	}
	// not used in user space, but must be invertible
	out.Bounds.W, out.Bounds.H = 1, 1
	for i, s := range stops {
		// the opacity is stored separately
		opaque := s.StopColor
		opaque.A = 0xff
		out.Stops[i] = rasterx.GradStop{StopColor: opaque, Offset: s.Offset, Opacity: float64(s.StopColor.A) / 0xff}
	}
	return out
}

var (
	joinToJoin = [...]rasterx.JoinMode{
		svgdraw.RoundJoin: rasterx.Round,
		svgdraw.BevelJoin: rasterx.Bevel,
		svgdraw.MiterJoin: rasterx.Miter,
	}

	capToFunc = [...]rasterx.CapFunc{
		svgdraw.ButtCap:   rasterx.ButtCap,
		svgdraw.SquareCap: rasterx.SquareCap,
		svgdraw.RoundCap:  rasterx.RoundCap,
	}
)

func (cv *Canvas) setStroke(paint *svgdraw.Paint, scale float64) {
	var (
		dashes []float64
		offset float64
	)
	if paint.Dash != nil {
		dashes = make([]float64, len(paint.Dash.Intervals))
		for i, v := range paint.Dash.Intervals {
			dashes[i] = v * scale
		}
		offset = paint.Dash.Offset * scale
	}
	cv.dasher.SetStroke(
		fixed.Int26_6(paint.StrokeWidth*scale*64), fixed.Int26_6(paint.MiterLimit*64),
		capToFunc[paint.Cap], capToFunc[paint.Cap], rasterx.FlatGap,
		joinToJoin[paint.Join], dashes, offset,
	)
}
