package svgdraw

import (
	"bytes"
	"image"

	// supported image formats
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DecodeBitmap decodes an embedded image.
// PNG, JPEG, GIF, BMP, TIFF and WebP are supported.
func DecodeBitmap(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}
