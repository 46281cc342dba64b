package qr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// MaxImagePixels caps the decoded size of an uploaded image.
const MaxImagePixels = 4096 * 4096

// LogoScale is the logo side as a fraction of the QR image width.
const LogoScale = 0.25

var errEmptyImage = errors.New("empty image file")

// LogoSize returns the side of the square logo pasted onto an image of
// width w.
func LogoSize(w int) int {
	return int(float64(w) * LogoScale)
}

// DecodeImage decodes a PNG, JPEG, GIF or WebP image, refusing images
// larger than MaxImagePixels.
func DecodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, errEmptyImage
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unsupported or corrupt image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%s image has no pixels", format)
	}
	if cfg.Width*cfg.Height > MaxImagePixels {
		return nil, fmt.Errorf("%s image too large (%dx%d)", format, cfg.Width, cfg.Height)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}
	return img, nil
}

// Composite pastes the logo, squashed to a square of LogoSize(width), in the
// centre of base using the logo's alpha channel as mask. base is not
// modified. Any failure is returned as a *LogoError.
func Composite(base *image.NRGBA, logo []byte) (*image.NRGBA, error) {
	img, err := DecodeImage(logo)
	if err != nil {
		return nil, &LogoError{Err: err}
	}
	return CompositeImage(base, img)
}

// CompositeImage is Composite for an already decoded logo.
func CompositeImage(base *image.NRGBA, logo image.Image) (out *image.NRGBA, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, &LogoError{Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	w, h := base.Bounds().Dx(), base.Bounds().Dy()
	size := LogoSize(w)
	if size < 1 {
		return nil, &LogoError{Err: fmt.Errorf("image %dx%d too small for a logo", w, h)}
	}

	// Square resize regardless of the logo's aspect ratio.
	resized := imaging.Resize(imaging.Clone(logo), size, size, imaging.Lanczos)
	pos := image.Pt(base.Bounds().Min.X+(w-size)/2, base.Bounds().Min.Y+(h-size)/2)
	return imaging.Overlay(base, resized, pos, 1.0), nil
}
