package qr

import (
	"image"
	"strings"

	"github.com/skip2/go-qrcode"
)

// Symbol is an encoded and rasterized QR code.
type Symbol struct {
	Image   *image.NRGBA
	Version int
	// Modules is the side of the module grid, without the quiet zone.
	Modules int
}

// Encode builds the smallest QR symbol that holds payload at p.Level and
// paints it with a quiet zone of p.Border modules, each module p.BoxSize
// pixels wide.
func Encode(payload string, p Params) (*Symbol, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, ErrEmptyPayload
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	code, err := qrcode.New(payload, p.Level.recoveryLevel())
	if err != nil {
		return nil, &GenerationError{Stage: "encode", Err: err}
	}
	// The quiet zone is drawn below so its width can vary.
	code.DisableBorder = true
	bitmap := code.Bitmap()

	return &Symbol{
		Image:   rasterize(bitmap, p),
		Version: code.VersionNumber,
		Modules: len(bitmap),
	}, nil
}

// rasterize paints bitmap[y][x] modules onto a new image.
func rasterize(bitmap [][]bool, p Params) *image.NRGBA {
	side := (len(bitmap) + 2*p.Border) * p.BoxSize
	img := image.NewNRGBA(image.Rect(0, 0, side, side))

	fg, bg := p.Foreground.NRGBA(), p.Background.NRGBA()
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = bg.R
		img.Pix[i+1] = bg.G
		img.Pix[i+2] = bg.B
		img.Pix[i+3] = bg.A
	}

	offset := p.Border * p.BoxSize
	for y, row := range bitmap {
		for x, dark := range row {
			if !dark {
				continue
			}
			x0 := offset + x*p.BoxSize
			y0 := offset + y*p.BoxSize
			for py := y0; py < y0+p.BoxSize; py++ {
				for px := x0; px < x0+p.BoxSize; px++ {
					img.SetNRGBA(px, py, fg)
				}
			}
		}
	}
	return img
}
