// Package qr encodes text into QR code images, optionally with a centred
// logo, and serializes them to PNG.
//
// A generation runs three stages in order: Encode builds and paints the
// symbol, Composite pastes the logo, Serialize flattens and encodes PNG.
// A failing logo never fails the generation; the result carries the logo
// error and the logo-less image instead.
package qr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
)

// Request is the input of a single generation.
type Request struct {
	Payload string
	// Logo is the raw uploaded logo file; nil or empty means no logo.
	Logo   []byte
	Params Params
	// Verify decodes the output after a logo was applied and adds a warning
	// when it does not read back as Payload.
	Verify bool
}

// Result is the output of a successful generation.
type Result struct {
	PNG     []byte
	Version int
	Modules int
	Width   int
	Height  int
	// LogoApplied is false when no logo was sent or the logo failed.
	LogoApplied bool
	LogoErr     error
	Warnings    []string
}

// HasLogo reports whether the request carries a logo file.
func (r Request) HasLogo() bool {
	return len(r.Logo) > 0
}

// Generate runs the full pipeline for req.
func Generate(ctx context.Context, req Request) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, &GenerationError{Stage: "generate", Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	sym, err := Encode(req.Payload, req.Params)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, &GenerationError{Stage: "encode", Err: err}
	}

	res = &Result{
		Version: sym.Version,
		Modules: sym.Modules,
		Width:   sym.Image.Bounds().Dx(),
		Height:  sym.Image.Bounds().Dy(),
	}

	var final image.Image = sym.Image
	if req.HasLogo() {
		composed, err := Composite(sym.Image, req.Logo)
		if err != nil {
			res.LogoErr = err
			res.Warnings = append(res.Warnings, LogoWarning(err))
		} else {
			final = composed
			res.LogoApplied = true
		}
	}

	if req.Verify && res.LogoApplied {
		if err := ctx.Err(); err != nil {
			return nil, &GenerationError{Stage: "verify", Err: err}
		}
		if text, err := Decode(final); err != nil || text != strings.TrimSpace(req.Payload) {
			res.Warnings = append(res.Warnings, "The QR code may not scan reliably with this logo. Use High error correction or a smaller logo.")
		}
	}

	res.PNG, err = Serialize(final)
	if err != nil {
		return nil, &GenerationError{Stage: "serialize", Err: err}
	}
	return res, nil
}

// LogoWarning formats a logo failure for display.
func LogoWarning(err error) string {
	var le *LogoError
	if errors.As(err, &le) {
		err = le.Err
	}
	return fmt.Sprintf("Logo processing failed (%v), showing QR without logo.", err)
}
