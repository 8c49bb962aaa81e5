// Package svgdraw defines the drawing surface an interpreted
// SVG document is painted on.
//
// The interpreter never rasterizes by itself: it emits calls to a Canvas,
// which is implemented by a rasterizer (see package svgraster),
// a PDF writer (see package svgpdf), or by a Recorder, producing
// an immutable Picture which can be replayed later on any Canvas.
package svgdraw

import (
	"image"

	"github.com/benoitkugler/svgpicture/svgpath"
)

// Rect is an axis aligned rectangle, in user space.
type Rect struct {
	X, Y, W, H float64
}

// IsEmpty returns true for rectangles without area.
func (r Rect) IsEmpty() bool { return r.W <= 0 || r.H <= 0 }

// Path returns the rectangle as a closed path.
func (r Rect) Path() svgpath.Path {
	var p svgpath.Path
	p.AddRect(r.X, r.Y, r.W, r.H)
	return p
}

// Point is a location in user space.
type Point struct {
	X, Y float64
}

// Canvas knows how to do the actual draw operations
// but doesn't need any SVG knowledge.
// All the coordinates are expressed in the current user space,
// that is, after the transforms accumulated with Concat.
type Canvas interface {
	// Save pushes a copy of the current transform and clip.
	Save()

	// SaveLayer works like Save, but also starts an offscreen layer,
	// composited with the given opacity by the matching Restore.
	SaveLayer(alpha uint8)

	// Restore pops the state pushed by the last Save or SaveLayer.
	Restore()

	// Concat right-multiplies the current transform by m.
	Concat(m svgpath.Matrix2D)

	// ClipRect intersects the current clip with r.
	ClipRect(r Rect)

	// ClipPath intersects the current clip with the inside of p,
	// using the non zero winding rule.
	ClipPath(p svgpath.Path)

	// DrawPath fills or strokes p, according to paint.Style.
	DrawPath(p svgpath.Path, paint *Paint)

	// DrawImage paints img, scaled to fill dst.
	DrawImage(img image.Image, dst Rect)

	// DrawText paints a single line of text, with (x, y) the
	// start of its baseline.
	DrawText(text string, x, y float64, paint *Paint)

	// MeasureText returns the advance width of text.
	MeasureText(text string, paint *Paint) float64
}
