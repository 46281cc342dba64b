package qr

import (
	"errors"
	"fmt"
)

// ErrEmptyPayload is returned when the payload is empty after trimming
// whitespace. No encoding is attempted.
var ErrEmptyPayload = errors.New("please enter text or a URL")

// ParamsError reports an invalid symbol parameter.
type ParamsError struct {
	Field string
	Msg   string
}

func (e *ParamsError) Error() string {
	return e.Msg
}

// LogoError reports a failure while decoding, resizing or pasting the logo.
// It is never fatal to a generation.
type LogoError struct {
	Err error
}

func (e *LogoError) Error() string {
	return fmt.Sprintf("logo processing failed: %v", e.Err)
}

func (e *LogoError) Unwrap() error {
	return e.Err
}

// GenerationError is the catch-all for failures in the encode, composite or
// serialize stages.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed (%s): %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err was caused by user input that was
// rejected before any encoding work.
func IsValidation(err error) bool {
	var pe *ParamsError
	return errors.Is(err, ErrEmptyPayload) || errors.As(err, &pe)
}
