// Package svgrender interprets SVG documents and records
// the resulting drawing operations into an svgdraw.Picture,
// which may then be replayed on any svgdraw.Canvas.
//
// Only a subset of SVG is supported: basic shapes and paths,
// groups (with opacity), use and switch elements, simple text,
// embedded images, linear and radial gradients and clip paths.
// Unsupported constructs are handled according to Options.ErrorMode.
package svgrender

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/benoitkugler/svgpicture/svgdraw"
	"github.com/benoitkugler/svgpicture/svgpath"
	"github.com/go-logr/logr"
)

// maxUseDepth limits the nesting of use elements, protecting
// against reference cycles.
const maxUseDepth = 64

// Size is the size of a canvas, in user units.
type Size struct {
	W, H float64
}

// IsEmpty returns true if one of the dimension is not positive.
func (s Size) IsEmpty() bool { return s.W <= 0 || s.H <= 0 }

// Options configures a Converter.
type Options struct {
	// PixelsPerInch is used to convert absolute units.
	// It defaults to DefaultPixelsPerInch.
	PixelsPerInch float64

	// CanvasSize overrides the size computed from the root
	// "width", "height" and "viewBox" attributes. Each positive
	// dimension is used on its own; the other one is read from the document.
	CanvasSize Size

	ErrorMode ErrorMode

	// Logger receives the warnings and debug messages.
	// It defaults to logr.Discard().
	Logger logr.Logger
}

// Result is the output of a conversion.
type Result struct {
	Picture     *svgdraw.Picture
	ViewBox     svgdraw.Rect
	CanvasSize  Size
	Version     string
	Title       string
	Description string

	// Diagnostics contains one *UnsupportedError for each
	// construct skipped during the conversion.
	Diagnostics []error
}

// Converter walks SVG documents and records them as pictures.
// The caches it holds are reset on every call to Convert, so
// that a Converter may be reused, but not concurrently.
type Converter struct {
	opts   Options
	units  units
	logger logr.Logger

	// per document state
	root        *Element
	canvasSize  Size
	defs        map[string]*Element
	gradients   map[string]*svgpath.Gradient
	clips       map[string]svgpath.Path
	diagnostics []error
	useDepth    int
}

// NewConverter returns a converter using the given options,
// replacing zero values by defaults.
func NewConverter(opts Options) *Converter {
	if opts.PixelsPerInch <= 0 {
		opts.PixelsPerInch = DefaultPixelsPerInch
	}
	if opts.Logger.GetSink() == nil {
		opts.Logger = logr.Discard()
	}
	return &Converter{
		opts:   opts,
		units:  units{ppi: opts.PixelsPerInch},
		logger: opts.Logger,
	}
}

// Convert parses the SVG content of r and converts it.
func Convert(r io.Reader, opts Options) (*Result, error) {
	doc, err := Load(r)
	if err != nil {
		return nil, fmt.Errorf("svgrender: %w", err)
	}
	return NewConverter(opts).Convert(doc)
}

func (c *Converter) reset(doc *Document) {
	c.root = doc.Root
	c.defs = buildIndex(doc.Root)
	c.gradients = make(map[string]*svgpath.Gradient)
	c.clips = make(map[string]svgpath.Path)
	c.diagnostics = nil
	c.useDepth = 0
}

// Convert records the drawing of doc into a picture.
// In strict mode, an error is returned for the first unsupported construct.
func (c *Converter) Convert(doc *Document) (*Result, error) {
	c.reset(doc)
	root := doc.Root

	res := &Result{Version: root.attr("version")}
	if title := root.firstChild("title"); title != nil {
		res.Title = title.Text()
	}
	if desc := root.firstChild("desc"); desc != nil {
		res.Description = desc.Text()
	} else if desc := root.firstChild("description"); desc != nil {
		res.Description = desc.Text()
	}

	viewBoxAttr, ok := root.Attr("viewBox")
	if !ok {
		viewBoxAttr = root.attr("viewPort")
	}
	res.ViewBox = c.readRect(viewBoxAttr)
	res.CanvasSize = c.readCanvasSize(root, res.ViewBox)
	c.canvasSize = res.CanvasSize

	rec := svgdraw.NewRecorder(res.CanvasSize.W, res.CanvasSize.H)
	if err := c.drawRoot(root, res.ViewBox, res.CanvasSize, rec); err != nil {
		return nil, fmt.Errorf("svgrender: %w", err)
	}

	res.Picture = rec.FinishRecording()
	res.Diagnostics = c.diagnostics
	c.logger.V(1).Info("document converted", "width", res.CanvasSize.W, "height", res.CanvasSize.H,
		"commands", len(res.Picture.Commands()), "diagnostics", len(res.Diagnostics))
	return res, nil
}

// readRect reads 4 numbers, returning an empty rectangle
// if there are fewer.
func (c *Converter) readRect(s string) svgdraw.Rect {
	nums := c.units.readNumbers(s)
	if len(nums) < 4 {
		return svgdraw.Rect{}
	}
	return svgdraw.Rect{X: nums[0], Y: nums[1], W: nums[2], H: nums[3]}
}

// readCanvasSize applies the override, or resolves the root
// "width" and "height" against the view box.
func (c *Converter) readCanvasSize(root *Element, viewBox svgdraw.Rect) Size {
	dimension := func(name string, viewBoxDim float64) float64 {
		v, ok := root.Attr(name)
		if !ok {
			return viewBoxDim
		}
		if isPercent(v) {
			return c.units.readNumber(v) * viewBoxDim
		}
		return c.units.readNumber(v)
	}
	size := c.opts.CanvasSize
	if size.W <= 0 {
		size.W = dimension("width", viewBox.W)
	}
	if size.H <= 0 {
		size.H = dimension("height", viewBox.H)
	}
	return size
}

func isPercent(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) != 0 && s[len(s)-1] == '%'
}

// viewBoxTransform maps the view box into the canvas.
func viewBoxTransform(root *Element, viewBox svgdraw.Rect, size Size) svgpath.Matrix2D {
	m := svgpath.Identity
	if !viewBox.IsEmpty() && (viewBox.W != size.W || viewBox.H != size.H) {
		if strings.TrimSpace(root.attr("preserveAspectRatio")) == "none" {
			m = m.Scale(size.W/viewBox.W, size.H/viewBox.H)
		} else {
			scale := math.Min(size.W/viewBox.W, size.H/viewBox.H)
			left := (size.W - viewBox.W*scale) / 2
			top := (size.H - viewBox.H*scale) / 2
			m = m.Translate(left, top).Scale(scale, scale)
		}
	}
	return m.Translate(-viewBox.X, -viewBox.Y)
}

func (c *Converter) drawRoot(root *Element, viewBox svgdraw.Rect, size Size, canvas svgdraw.Canvas) error {
	if m := viewBoxTransform(root, viewBox, size); !m.IsIdentity() {
		canvas.Concat(m)
	}
	if !viewBox.IsEmpty() {
		canvas.ClipRect(viewBox)
	}

	ps, err := c.resolvePaint(readStyle(root), paintState{fill: svgdraw.NewFillPaint()}, true)
	if err != nil {
		return err
	}
	for _, child := range root.Elements() {
		if err := c.drawElement(child, canvas, ps); err != nil {
			return err
		}
	}
	return nil
}
