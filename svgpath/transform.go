package svgpath

import (
	"fmt"
	"math"
	"strings"
)

// Reporter is called for transform functions which can't be applied.
// A non nil returned error aborts the parsing.
type Reporter func(detail string) error

func splitTransformArgs(r rune) bool {
	switch r {
	case '(', ',', ' ', '\t', '\r', '\n':
		return true
	}
	return false
}

// ParseTransform composes the transform list v (like "translate(10,20) scale(2)").
// Each call is right-multiplied onto the running matrix, in document order.
// Arguments are converted by readNumber, so that units are accepted.
// Unknown functions and wrong argument counts are sent to report and
// contribute the identity.
func ParseTransform(v string, readNumber func(string) float64, report Reporter) (Matrix2D, error) {
	m := Identity
	if strings.TrimSpace(v) == "" {
		return m, nil
	}
	for _, call := range strings.Split(strings.TrimSpace(v), ")") {
		args := strings.FieldsFunc(call, splitTransformArgs)
		if len(args) == 0 {
			continue
		}
		name := args[0]
		points := make([]float64, len(args)-1)
		for i, a := range args[1:] {
			points[i] = readNumber(a)
		}
		nt, err := readTransformAttr(name, points)
		if err != nil {
			if err := report(fmt.Sprintf("transform %s: %s", name, err)); err != nil {
				return m, err
			}
			continue
		}
		m = m.Mult(nt)
	}
	return m, nil
}

func readTransformAttr(k string, points []float64) (Matrix2D, error) {
	ln := len(points)
	switch k {
	case "rotate":
		switch ln {
		case 1:
			return Identity.Rotate(points[0] * math.Pi / 180), nil
		case 3:
			return Identity.Translate(points[1], points[2]).
				Rotate(points[0]*math.Pi/180).
				Translate(-points[1], -points[2]), nil
		}
	case "translate":
		switch ln {
		case 1:
			return Identity.Translate(points[0], 0), nil
		case 2:
			return Identity.Translate(points[0], points[1]), nil
		}
	case "scale":
		switch ln {
		case 1:
			return Identity.Scale(points[0], points[0]), nil
		case 2:
			return Identity.Scale(points[0], points[1]), nil
		}
	case "matrix":
		if ln == 6 {
			return Matrix2D{
				A: points[0],
				B: points[1],
				C: points[2],
				D: points[3],
				E: points[4],
				F: points[5],
			}, nil
		}
		return Identity, fmt.Errorf("matrices are expected to have 6 elements, this one has %d", ln)
	default:
		return Identity, errCommandUnknown
	}
	return Identity, fmt.Errorf("%w (%d arguments)", errParamMismatch, ln)
}
