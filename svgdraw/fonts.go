package svgdraw

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Slant is the posture of a typeface.
type Slant uint8

const (
	Upright Slant = iota
	Italic
	Oblique
)

// Typeface describes the font requested by a text element.
type Typeface struct {
	Family string // as written in the document, may be empty
	Weight int    // 100 to 900, 400 is normal
	Width  int    // 1 (ultra-condensed) to 9 (ultra-expanded), 5 is normal
	Slant  Slant
}

// DefaultTypeface is the typeface used when nothing is specified.
var DefaultTypeface = Typeface{Weight: 400, Width: 5}

func (tf Typeface) isBold() bool { return tf.Weight >= 600 }

func (tf Typeface) isMonospace() bool {
	family := strings.ToLower(tf.Family)
	return strings.Contains(family, "mono") || strings.Contains(family, "courier")
}

// the Go fonts are used as fallback for every family
func (tf Typeface) fontData() (string, []byte) {
	italic := tf.Slant != Upright
	switch {
	case tf.isMonospace() && tf.isBold() && italic:
		return "gomonobolditalic", gomonobolditalic.TTF
	case tf.isMonospace() && tf.isBold():
		return "gomonobold", gomonobold.TTF
	case tf.isMonospace() && italic:
		return "gomonoitalic", gomonoitalic.TTF
	case tf.isMonospace():
		return "gomono", gomono.TTF
	case tf.isBold() && italic:
		return "gobolditalic", gobolditalic.TTF
	case tf.isBold():
		return "gobold", gobold.TTF
	case italic:
		return "goitalic", goitalic.TTF
	default:
		return "goregular", goregular.TTF
	}
}

var fontCache = struct {
	sync.Mutex
	fonts map[string]*opentype.Font
}{fonts: map[string]*opentype.Font{}}

func loadFont(tf Typeface) (*opentype.Font, error) {
	name, data := tf.fontData()

	fontCache.Lock()
	defer fontCache.Unlock()

	if f, ok := fontCache.fonts[name]; ok {
		return f, nil
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading font %s: %w", name, err)
	}
	fontCache.fonts[name] = f
	return f, nil
}

// NewFace returns a font face matching tf, at the given size (in user space units).
// The returned face must not be shared between goroutines.
func NewFace(tf Typeface, size float64) (font.Face, error) {
	f, err := loadFont(tf)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72, // so that Size is in pixels
		Hinting: font.HintingNone,
	})
}

// MeasureText returns the advance of s, using the typeface and text size of paint.
func MeasureText(s string, paint *Paint) (float64, error) {
	face, err := NewFace(paint.Typeface, paint.TextSize)
	if err != nil {
		return 0, err
	}
	defer face.Close()
	return fixedToFloat(font.MeasureString(face, s)), nil
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }
