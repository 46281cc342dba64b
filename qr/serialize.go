package qr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// Download metadata for generated images.
const (
	Filename    = "qrcode.png"
	ContentType = "image/png"
)

// Flatten drops the alpha channel, keeping the straight RGB values of each
// pixel, and returns an opaque image.
func Flatten(img image.Image) *image.RGBA {
	src := imaging.Clone(img)
	out := image.NewRGBA(src.Rect)
	for i := 0; i < len(src.Pix); i += 4 {
		copy(out.Pix[i:i+3], src.Pix[i:i+3])
		out.Pix[i+3] = 0xff
	}
	return out
}

// Serialize flattens img and encodes it as PNG.
func Serialize(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	err := imaging.Encode(&buf, Flatten(img), imaging.PNG, imaging.PNGCompressionLevel(png.DefaultCompression))
	if err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
