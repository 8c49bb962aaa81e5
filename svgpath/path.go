// Package svgpath implements an abstract representation of
// svg paths and transforms, which can then be consumed
// by a drawing surface.
package svgpath

import (
	"fmt"
	"strings"

	"golang.org/x/image/math/fixed"
)

// Adder interface for types that can accumulate path commands
type Adder interface {
	// Start starts a new curve at the given point.
	Start(a fixed.Point26_6)
	// Line adds a line segment to the path
	Line(b fixed.Point26_6)
	// QuadBezier adds a quadratic bezier curve to the path
	QuadBezier(b, c fixed.Point26_6)
	// CubeBezier adds a cubic bezier curve to the path
	CubeBezier(b, c, d fixed.Point26_6)
	// Stop closes the path to the start point if closeLoop is true
	Stop(closeLoop bool)
}

// Operation groups the different SVG commands
type Operation interface {
	// add the operation to q, after applying the transform
	addTo(q Adder, m Matrix2D)
	// returns the operation transformed by m
	transform(m Matrix2D) Operation
}

// MoveTo starts a new sub-path
type MoveTo fixed.Point26_6

// LineTo adds a straight segment
type LineTo fixed.Point26_6

// QuadTo adds a quadratic bezier segment (control, end)
type QuadTo [2]fixed.Point26_6

// CubicTo adds a cubic bezier segment (control 1, control 2, end)
type CubicTo [3]fixed.Point26_6

// Close closes the current sub-path
type Close struct{}

func (op MoveTo) addTo(q Adder, m Matrix2D) { q.Start(m.TFixed(fixed.Point26_6(op))) }
func (op LineTo) addTo(q Adder, m Matrix2D) { q.Line(m.TFixed(fixed.Point26_6(op))) }
func (op QuadTo) addTo(q Adder, m Matrix2D) { q.QuadBezier(m.TFixed(op[0]), m.TFixed(op[1])) }
func (op CubicTo) addTo(q Adder, m Matrix2D) {
	q.CubeBezier(m.TFixed(op[0]), m.TFixed(op[1]), m.TFixed(op[2]))
}
func (op Close) addTo(q Adder, _ Matrix2D) { q.Stop(true) }

func (op MoveTo) transform(m Matrix2D) Operation { return MoveTo(m.TFixed(fixed.Point26_6(op))) }
func (op LineTo) transform(m Matrix2D) Operation { return LineTo(m.TFixed(fixed.Point26_6(op))) }
func (op QuadTo) transform(m Matrix2D) Operation { return QuadTo{m.TFixed(op[0]), m.TFixed(op[1])} }
func (op CubicTo) transform(m Matrix2D) Operation {
	return CubicTo{m.TFixed(op[0]), m.TFixed(op[1]), m.TFixed(op[2])}
}
func (op Close) transform(Matrix2D) Operation { return op }

// Path describes a sequence of basic SVG operations.
// Higher-level shapes are reduced to a path.
type Path []Operation

// ToSVGPath returns a string representation of the path
func (p Path) ToSVGPath() string {
	chunks := make([]string, len(p))
	for i, op := range p {
		switch op := op.(type) {
		case MoveTo:
			chunks[i] = fmt.Sprintf("M%4.3f,%4.3f", float32(op.X)/64, float32(op.Y)/64)
		case LineTo:
			chunks[i] = fmt.Sprintf("L%4.3f,%4.3f", float32(op.X)/64, float32(op.Y)/64)
		case QuadTo:
			chunks[i] = fmt.Sprintf("Q%4.3f,%4.3f,%4.3f,%4.3f", float32(op[0].X)/64, float32(op[0].Y)/64,
				float32(op[1].X)/64, float32(op[1].Y)/64)
		case CubicTo:
			chunks[i] = fmt.Sprintf("C%4.3f,%4.3f,%4.3f,%4.3f,%4.3f,%4.3f", float32(op[0].X)/64, float32(op[0].Y)/64,
				float32(op[1].X)/64, float32(op[1].Y)/64, float32(op[2].X)/64, float32(op[2].Y)/64)
		case Close:
			chunks[i] = "Z"
		}
	}
	return strings.Join(chunks, " ")
}

// String returns a readable representation of a Path.
func (p Path) String() string {
	return p.ToSVGPath()
}

// Clear zeros the path slice
func (p *Path) Clear() {
	*p = (*p)[:0]
}

// Start starts a new curve at the given point.
func (p *Path) Start(a fixed.Point26_6) {
	*p = append(*p, MoveTo{a.X, a.Y})
}

// Line adds a linear segment to the current curve.
func (p *Path) Line(b fixed.Point26_6) {
	*p = append(*p, LineTo{b.X, b.Y})
}

// QuadBezier adds a quadratic segment to the current curve.
func (p *Path) QuadBezier(b, c fixed.Point26_6) {
	*p = append(*p, QuadTo{b, c})
}

// CubeBezier adds a cubic segment to the current curve.
func (p *Path) CubeBezier(b, c, d fixed.Point26_6) {
	*p = append(*p, CubicTo{b, c, d})
}

// Stop joins the ends of the path
func (p *Path) Stop(closeLoop bool) {
	if closeLoop {
		*p = append(*p, Close{})
	}
}

// Append adds the operations of other to p, so that
// the result is the union of both geometries.
func (p *Path) Append(other Path) {
	*p = append(*p, other...)
}

// Copy returns a deep copy of the path.
func (p Path) Copy() Path {
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Transform returns a new path with every point mapped by m.
func (p Path) Transform(m Matrix2D) Path {
	out := make(Path, len(p))
	for i, op := range p {
		out[i] = op.transform(m)
	}
	return out
}

// AddTo sends the path to q, after applying the transform m.
// A MoveTo implicitly ends the current sub-path.
func (p Path) AddTo(q Adder, m Matrix2D) {
	for i, op := range p {
		if _, isMove := op.(MoveTo); isMove && i > 0 {
			q.Stop(false)
		}
		op.addTo(q, m)
	}
	q.Stop(false)
}
