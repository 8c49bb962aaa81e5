package svgpath

import (
	"fmt"
	"math"

	"github.com/tdewolff/parse/v2/strconv"
)

// pathCursor accumulates the segments of an SVG path data string
type pathCursor struct {
	path                   Path
	placeX, placeY         float64
	cntlPtX, cntlPtY       float64
	pathStartX, pathStartY float64
	points                 []float64
	lastKey                byte
	inPath                 bool
}

// ParsePathData translates the SVG path description d into a Path.
// All the SVG path commands are supported; arcs are approximated
// with cubic bezier splines. An invalid description returns an error
// and no geometry.
func ParsePathData(d string) (Path, error) {
	var c pathCursor
	if err := c.compile(d); err != nil {
		return nil, err
	}
	return c.path, nil
}

func reflect(px, py, rx, ry float64) (x, y float64) {
	return px*2 - rx, py*2 - ry
}

func isCommand(k byte) bool {
	switch k {
	case 'M', 'm', 'Z', 'z', 'L', 'l', 'H', 'h', 'V', 'v',
		'C', 'c', 'S', 's', 'Q', 'q', 'T', 't', 'A', 'a':
		return true
	}
	return false
}

func isSeparator(b byte) bool {
	return b == ' ' || b == ',' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}

func skipSeparators(b []byte, i int) int {
	for i < len(b) && isSeparator(b[i]) {
		i++
	}
	return i
}

func (c *pathCursor) compile(d string) error {
	b := []byte(d)
	i := skipSeparators(b, 0)
	if i == len(b) {
		return nil
	}
	if b[i] != 'M' && b[i] != 'm' {
		return fmt.Errorf("path data must start with a moveto, got %q", b[i])
	}
	for i < len(b) {
		k := b[i]
		if !isCommand(k) {
			return fmt.Errorf("%w %q at offset %d", errCommandUnknown, k, i)
		}
		var err error
		i, err = c.readPoints(b, i+1, k == 'a' || k == 'A')
		if err != nil {
			return err
		}
		if err = c.addSeg(k); err != nil {
			return err
		}
	}
	return nil
}

// readPoints reads the numbers following a command, starting at i,
// and returns the position of the next command.
// Arc flags may be packed without separators.
func (c *pathCursor) readPoints(b []byte, i int, isArc bool) (int, error) {
	c.points = c.points[:0]
	for {
		i = skipSeparators(b, i)
		if i == len(b) || isCommand(b[i]) {
			return i, nil
		}
		if isArc && (len(c.points)%7 == 3 || len(c.points)%7 == 4) {
			switch b[i] {
			case '0':
				c.points = append(c.points, 0)
			case '1':
				c.points = append(c.points, 1)
			default:
				return i, fmt.Errorf("%w: invalid arc flag %q", errParamMismatch, b[i])
			}
			i++
			continue
		}
		f, n := strconv.ParseFloat(b[i:])
		if n == 0 {
			return i, fmt.Errorf("%w: invalid number at offset %d", errParamMismatch, i)
		}
		c.points = append(c.points, f)
		i += n
	}
}

func (c *pathCursor) valsToAbs(last float64) {
	for i := 0; i < len(c.points); i++ {
		last += c.points[i]
		c.points[i] = last
	}
}

func (c *pathCursor) pointsToAbs(sz int) {
	lastX := c.placeX
	lastY := c.placeY
	for j := 0; j < len(c.points); j += sz {
		for i := 0; i < sz; i += 2 {
			c.points[i+j] += lastX
			c.points[i+1+j] += lastY
		}
		lastX = c.points[(j+sz)-2]
		lastY = c.points[(j+sz)-1]
	}
}

func (c *pathCursor) hasSetsOrMore(sz int, rel bool) bool {
	if !(len(c.points) >= sz && len(c.points)%sz == 0) {
		return false
	}
	if rel {
		c.pointsToAbs(sz)
	}
	return true
}

// addSeg decodes an SVG segment into equivalent path commands
func (c *pathCursor) addSeg(k byte) error {
	l := len(c.points)
	rel := false
	switch k {
	case 'z', 'Z':
		if l != 0 {
			return errParamMismatch
		}
		if c.inPath {
			c.path.Stop(true)
			c.inPath = false
		}
		c.placeX, c.placeY = c.pathStartX, c.pathStartY
	case 'm':
		rel = true
		fallthrough
	case 'M':
		if !c.hasSetsOrMore(2, rel) {
			return errParamMismatch
		}
		c.pathStartX, c.pathStartY = c.points[0], c.points[1]
		c.inPath = true
		c.path.Start(toFixedP(c.pathStartX, c.pathStartY))
		for i := 2; i < l-1; i += 2 {
			c.path.Line(toFixedP(c.points[i], c.points[i+1]))
		}
		c.placeX = c.points[l-2]
		c.placeY = c.points[l-1]
	case 'l':
		rel = true
		fallthrough
	case 'L':
		if !c.hasSetsOrMore(2, rel) {
			return errParamMismatch
		}
		for i := 0; i < l-1; i += 2 {
			c.path.Line(toFixedP(c.points[i], c.points[i+1]))
		}
		c.placeX = c.points[l-2]
		c.placeY = c.points[l-1]
	case 'v':
		c.valsToAbs(c.placeY)
		fallthrough
	case 'V':
		if !c.hasSetsOrMore(1, false) {
			return errParamMismatch
		}
		for _, p := range c.points {
			c.path.Line(toFixedP(c.placeX, p))
		}
		c.placeY = c.points[l-1]
	case 'h':
		c.valsToAbs(c.placeX)
		fallthrough
	case 'H':
		if !c.hasSetsOrMore(1, false) {
			return errParamMismatch
		}
		for _, p := range c.points {
			c.path.Line(toFixedP(p, c.placeY))
		}
		c.placeX = c.points[l-1]
	case 'q':
		rel = true
		fallthrough
	case 'Q':
		if !c.hasSetsOrMore(4, rel) {
			return errParamMismatch
		}
		for i := 0; i < l-3; i += 4 {
			c.path.QuadBezier(toFixedP(c.points[i], c.points[i+1]), toFixedP(c.points[i+2], c.points[i+3]))
		}
		c.cntlPtX, c.cntlPtY = c.points[l-4], c.points[l-3]
		c.placeX = c.points[l-2]
		c.placeY = c.points[l-1]
	case 't':
		rel = true
		fallthrough
	case 'T':
		if !c.hasSetsOrMore(2, rel) {
			return errParamMismatch
		}
		for i := 0; i < l-1; i += 2 {
			switch c.lastKey {
			case 'q', 'Q', 'T', 't':
				c.cntlPtX, c.cntlPtY = reflect(c.placeX, c.placeY, c.cntlPtX, c.cntlPtY)
			default:
				c.cntlPtX, c.cntlPtY = c.placeX, c.placeY
			}
			c.path.QuadBezier(toFixedP(c.cntlPtX, c.cntlPtY), toFixedP(c.points[i], c.points[i+1]))
			c.lastKey = k
			c.placeX = c.points[i]
			c.placeY = c.points[i+1]
		}
	case 'c':
		rel = true
		fallthrough
	case 'C':
		if !c.hasSetsOrMore(6, rel) {
			return errParamMismatch
		}
		for i := 0; i < l-5; i += 6 {
			c.path.CubeBezier(toFixedP(c.points[i], c.points[i+1]),
				toFixedP(c.points[i+2], c.points[i+3]),
				toFixedP(c.points[i+4], c.points[i+5]))
		}
		c.cntlPtX, c.cntlPtY = c.points[l-4], c.points[l-3]
		c.placeX = c.points[l-2]
		c.placeY = c.points[l-1]
	case 's':
		rel = true
		fallthrough
	case 'S':
		if !c.hasSetsOrMore(4, rel) {
			return errParamMismatch
		}
		for i := 0; i < l-3; i += 4 {
			switch c.lastKey {
			case 'c', 'C', 's', 'S':
				c.cntlPtX, c.cntlPtY = reflect(c.placeX, c.placeY, c.cntlPtX, c.cntlPtY)
			default:
				c.cntlPtX, c.cntlPtY = c.placeX, c.placeY
			}
			c.path.CubeBezier(toFixedP(c.cntlPtX, c.cntlPtY),
				toFixedP(c.points[i], c.points[i+1]),
				toFixedP(c.points[i+2], c.points[i+3]))
			c.lastKey = k
			c.cntlPtX, c.cntlPtY = c.points[i], c.points[i+1]
			c.placeX = c.points[i+2]
			c.placeY = c.points[i+3]
		}
	case 'a', 'A':
		if !c.hasSetsOrMore(7, false) {
			return errParamMismatch
		}
		for i := 0; i < l-6; i += 7 {
			if k == 'a' {
				c.points[i+5] += c.placeX
				c.points[i+6] += c.placeY
			}
			c.addArcFromA(c.points[i : i+7])
		}
	}
	// So we know how to extend some segment types
	c.lastKey = k
	return nil
}

// addArcFromA adds the arc described by the 7 parameters of an 'A' command
// (rx, ry, rotation, large arc flag, sweep flag, x, y), starting at the current point.
func (c *pathCursor) addArcFromA(points []float64) {
	points[0], points[1] = math.Abs(points[0]), math.Abs(points[1])
	if points[0] == 0 || points[1] == 0 {
		// degenerate ellipse
		c.path.Line(toFixedP(points[5], points[6]))
		c.placeX, c.placeY = points[5], points[6]
		return
	}
	if points[5] == c.placeX && points[6] == c.placeY {
		return // no arc to draw
	}
	cx, cy := findEllipseCenter(&points[0], &points[1], points[2]*math.Pi/180, c.placeX,
		c.placeY, points[5], points[6], points[4] == 0, points[3] == 0)
	c.placeX, c.placeY = c.path.addArc(points, cx, cy, c.placeX, c.placeY)
}
