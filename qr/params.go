package qr

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/skip2/go-qrcode"
)

// Level is the QR error-correction level.
type Level int

const (
	LevelLow Level = iota
	LevelMedium
	LevelQuartile
	LevelHigh
)

// Levels lists every level from least to most redundant.
var Levels = []Level{LevelLow, LevelMedium, LevelQuartile, LevelHigh}

// String returns the single-letter name of the level (L, M, Q or H).
func (l Level) String() string {
	switch l {
	case LevelLow:
		return "L"
	case LevelMedium:
		return "M"
	case LevelQuartile:
		return "Q"
	case LevelHigh:
		return "H"
	}
	return "Level(" + strconv.Itoa(int(l)) + ")"
}

// Label is the human-readable name shown in the web form.
func (l Level) Label() string {
	switch l {
	case LevelLow:
		return "Low (7%)"
	case LevelMedium:
		return "Medium (15%)"
	case LevelQuartile:
		return "Quartile (25%)"
	case LevelHigh:
		return "High (30%)"
	}
	return l.String()
}

func (l Level) recoveryLevel() qrcode.RecoveryLevel {
	switch l {
	case LevelLow:
		return qrcode.Low
	case LevelQuartile:
		return qrcode.High
	case LevelHigh:
		return qrcode.Highest
	}
	return qrcode.Medium
}

// ParseLevel accepts a level letter (L/M/Q/H) or name (low, medium,
// quartile, high), case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "low":
		return LevelLow, nil
	case "m", "medium":
		return LevelMedium, nil
	case "q", "quartile":
		return LevelQuartile, nil
	case "h", "high":
		return LevelHigh, nil
	}
	return 0, &ParamsError{Field: "level", Msg: fmt.Sprintf("unknown error correction level %q", s)}
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(b []byte) error {
	parsed, err := ParseLevel(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Color is an opaque RGB triple.
type Color struct {
	R, G, B uint8
}

var (
	Black = Color{0, 0, 0}
	White = Color{0xff, 0xff, 0xff}
)

// ParseColor parses "#RRGGBB" or "#RGB". The leading '#' is optional.
func ParseColor(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return Color{}, &ParamsError{Field: "color", Msg: fmt.Sprintf("invalid hex color %q", s)}
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, &ParamsError{Field: "color", Msg: fmt.Sprintf("invalid hex color %q", s)}
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Hex formats the color as lower-case "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// NRGBA returns the fully opaque color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(b []byte) error {
	parsed, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Bounds accepted for the module size and quiet zone.
const (
	MinBoxSize = 5
	MaxBoxSize = 20
	MinBorder  = 2
	MaxBorder  = 8
)

// Params are the symbol parameters for a single generation.
type Params struct {
	BoxSize    int   `validate:"min=5,max=20"`
	Border     int   `validate:"min=2,max=8"`
	Level      Level `validate:"min=0,max=3"`
	Foreground Color
	Background Color
}

// DefaultParams returns the parameters the web form starts with.
func DefaultParams() Params {
	return Params{
		BoxSize:    10,
		Border:     4,
		Level:      LevelMedium,
		Foreground: Black,
		Background: White,
	}
}

var validate = validator.New()

var fieldNames = map[string]string{
	"BoxSize": "module size",
	"Border":  "border",
	"Level":   "error correction level",
}

// Validate reports the first out-of-range parameter as a *ParamsError.
func (p Params) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ParamsError{Msg: err.Error()}
	}
	fe := verrs[0]
	name := fieldNames[fe.StructField()]
	switch fe.StructField() {
	case "BoxSize":
		return &ParamsError{Field: name, Msg: fmt.Sprintf("%s must be between %d and %d pixels", name, MinBoxSize, MaxBoxSize)}
	case "Border":
		return &ParamsError{Field: name, Msg: fmt.Sprintf("%s must be between %d and %d modules", name, MinBorder, MaxBorder)}
	case "Level":
		return &ParamsError{Field: name, Msg: fmt.Sprintf("unknown %s %d", name, p.Level)}
	}
	return &ParamsError{Field: fe.Field(), Msg: fe.Error()}
}
