package svgpath

import (
	"math"

	"golang.org/x/image/math/fixed"
)

// Matrix2D represents an SVG style matrix, mapping (x, y) to
//
//	x' = A*x + C*y + E
//	y' = B*x + D*y + F
type Matrix2D struct {
	A, B, C, D, E, F float64
}

// Identity is the identity matrix
var Identity = Matrix2D{1, 0, 0, 1, 0, 0}

// Transform multiplies the input vector by matrix m and outputs the results vector
// components.
func (m Matrix2D) Transform(x1, y1 float64) (x2, y2 float64) {
	x2 = x1*m.A + y1*m.C + m.E
	y2 = x1*m.B + y1*m.D + m.F
	return
}

// TFixed transforms a fixed.Point26_6 by the matrix
func (m Matrix2D) TFixed(a fixed.Point26_6) (b fixed.Point26_6) {
	b.X = fixed.Int26_6((float64(a.X)*m.A + float64(a.Y)*m.C) + m.E*64)
	b.Y = fixed.Int26_6((float64(a.X)*m.B + float64(a.Y)*m.D) + m.F*64)
	return
}

// Invert returns the inverse matrix. A singular matrix is returned unchanged.
func (m Matrix2D) Invert() Matrix2D {
	d := m.Determinant()
	if d == 0 {
		return m
	}
	return Matrix2D{
		A: m.D / d,
		B: -m.B / d,
		C: -m.C / d,
		D: m.A / d,
		E: (m.C*m.F - m.D*m.E) / d,
		F: (m.B*m.E - m.A*m.F) / d,
	}
}

// Determinant returns A*D - B*C.
func (m Matrix2D) Determinant() float64 {
	return m.A*m.D - m.B*m.C
}

// ScaleFactor returns the mean length scale of the matrix,
// used to map stroke widths and font sizes to device space.
func (m Matrix2D) ScaleFactor() float64 {
	return math.Sqrt(math.Abs(m.Determinant()))
}

// IsIdentity returns true if m is the identity matrix.
func (m Matrix2D) IsIdentity() bool { return m == Identity }

// Mult returns m*b, that is the transformation applying b first, then m.
func (m Matrix2D) Mult(b Matrix2D) Matrix2D {
	return Matrix2D{
		A: m.A*b.A + m.C*b.B,
		B: m.B*b.A + m.D*b.B,
		C: m.A*b.C + m.C*b.D,
		D: m.B*b.C + m.D*b.D,
		E: m.A*b.E + m.C*b.F + m.E,
		F: m.B*b.E + m.D*b.F + m.F,
	}
}

// Scale multiplies the matrix by a scale matrix
func (m Matrix2D) Scale(x, y float64) Matrix2D {
	return m.Mult(Matrix2D{A: x, D: y})
}

// Translate translates the matrix
func (m Matrix2D) Translate(x, y float64) Matrix2D {
	return m.Mult(Matrix2D{A: 1, D: 1, E: x, F: y})
}

// Rotate rotates the matrix by theta, in radians.
func (m Matrix2D) Rotate(theta float64) Matrix2D {
	c, s := math.Cos(theta), math.Sin(theta)
	return m.Mult(Matrix2D{A: c, B: s, C: -s, D: c})
}
