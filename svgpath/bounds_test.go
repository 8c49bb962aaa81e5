package svgpath

import (
	"math/rand"
	"testing"

	"github.com/tdewolff/test"
	"golang.org/x/image/math/fixed"
)

func randPoint(offsetx, offsety int) fixed.Point26_6 {
	x, y := rand.Intn(1100), rand.Intn(1000)
	return fixed.Point26_6{X: fixed.Int26_6(x + offsetx), Y: fixed.Int26_6(y + offsety)}
}

func generateCurve(order int, offsetx, offsety int) bezier {
	a := randPoint(offsetx, offsety)
	b := randPoint(offsetx, offsety)
	switch order {
	case 1:
		return line{a, b}
	case 2:
		c := randPoint(offsetx, offsety)
		return quadBezier{a, b, c}
	default:
		c := randPoint(offsetx, offsety)
		d := randPoint(offsetx, offsety)
		return cubicBezier{a, b, c, d}
	}
}

func TestBoundingBoxContainsCurve(t *testing.T) {
	const tol = 2 // rounding to 26.6
	for i := 0; i < 200; i++ {
		curve := generateCurve(1+rand.Intn(3), 500, 500)
		rect := computeBoundingBox(curve)
		for j := 0; j <= 50; j++ {
			x, y := curve.evaluateCurve(float64(j) / 50)
			fx, fy := fixed.Int26_6(x*64), fixed.Int26_6(y*64)
			if fx < rect.Min.X-tol || fx > rect.Max.X+tol || fy < rect.Min.Y-tol || fy > rect.Max.Y+tol {
				t.Fatalf("point (%v, %v) outside of %v", x, y, rect)
			}
		}
	}
}

func TestPathBounds(t *testing.T) {
	var p Path
	p.AddRect(10, 20, 30, 40)
	test.T(t, p.Bounds(), fixed.R(10, 20, 40, 60))

	var c Path
	c.AddCircle(50, 50, 10)
	b := c.Bounds()
	test.That(t, (b.Min.X-fixed.I(40)).Round() == 0 && (b.Max.X-fixed.I(60)).Round() == 0, "circle bounds", b)
	test.That(t, (b.Min.Y-fixed.I(40)).Round() == 0 && (b.Max.Y-fixed.I(60)).Round() == 0, "circle bounds", b)

	test.T(t, Path(nil).Bounds(), fixed.Rectangle26_6{})
}
