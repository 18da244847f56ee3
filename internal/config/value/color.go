// Package value defines the domain value types carried by settings:
// colors, fonts and syntax styles.
//
// All types are comparable so settings can test for structural equality
// with ==. The zero Color is the "unset" color.
package value

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColor is returned when a string cannot be decoded as a color.
var ErrInvalidColor = errors.New("invalid color")

// Color is an opaque 24-bit RGB color. Alpha is never represented.
type Color struct {
	rgb   uint32
	valid bool
}

// NoColor is the unset color.
var NoColor = Color{}

// RGB builds a color from its components.
func RGB(r, g, b uint8) Color {
	return Color{rgb: uint32(r)<<16 | uint32(g)<<8 | uint32(b), valid: true}
}

// FromRGB builds a color from a packed value. Bits above the low 24
// (alpha included) are discarded.
func FromRGB(v uint32) Color {
	return Color{rgb: v & 0xFFFFFF, valid: true}
}

// FromColorful converts a go-colorful color, clamping out-of-gamut values.
func FromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return RGB(r, g, b)
}

// Valid reports whether the color is set.
func (c Color) Valid() bool {
	return c.valid
}

// Unset reports whether the color is the unset sentinel.
func (c Color) Unset() bool {
	return !c.valid
}

// RGB returns the packed 24-bit value. It is zero for the unset color.
func (c Color) RGB() uint32 {
	return c.rgb
}

// Components returns the red, green and blue channels.
func (c Color) Components() (r, g, b uint8) {
	return uint8(c.rgb >> 16), uint8(c.rgb >> 8), uint8(c.rgb)
}

// Colorful returns the color as a go-colorful value.
func (c Color) Colorful() colorful.Color {
	r, g, b := c.Components()
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// Hex returns the CSS form "#rrggbb", or "" when unset.
func (c Color) Hex() string {
	if !c.valid {
		return ""
	}
	return c.Colorful().Hex()
}

// Blend mixes c toward other by t in [0,1] using the Lab color space.
// An unset operand yields the other operand.
func (c Color) Blend(other Color, t float64) Color {
	switch {
	case !c.valid:
		return other
	case !other.valid:
		return c
	}
	return FromColorful(c.Colorful().BlendLab(other.Colorful(), t))
}

// String returns the persisted form "0x00rrggbb", or "" when unset.
func (c Color) String() string {
	if !c.valid {
		return ""
	}
	return fmt.Sprintf("0x%08x", c.rgb)
}

// ParseColor decodes a color string. Accepted forms:
//
//	0xRRGGBB / 0XRRGGBB / #RRGGBB   hexadecimal, any width up to 64 bits
//	0NNN                            octal
//	NNN                             decimal, optionally signed
//	red, navy, ...                  named colors
//
// Only the low 24 bits of a numeric value are kept.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NoColor, fmt.Errorf("%w: empty", ErrInvalidColor)
	}

	if n, err := decodeInt(s); err == nil {
		return FromRGB(uint32(n)), nil
	}

	if tc := tcell.GetColor(strings.ToLower(s)); tc != tcell.ColorDefault {
		if v := tc.Hex(); v >= 0 {
			return FromRGB(uint32(v)), nil
		}
	}

	return NoColor, fmt.Errorf("%w: %q", ErrInvalidColor, s)
}

// DecodeColor is the total form of ParseColor: failures yield NoColor.
func DecodeColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		return NoColor
	}
	return c
}

// decodeInt accepts the integer literal forms of ParseColor.
func decodeInt(s string) (int64, error) {
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	base := 10
	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		base, s = 16, s[2:]
	case strings.HasPrefix(s, "#"):
		base, s = 16, s[1:]
	case len(s) > 1 && s[0] == '0':
		base, s = 8, s[1:]
	}

	if s == "" || s[0] == '-' || s[0] == '+' {
		return 0, strconv.ErrSyntax
	}
	u, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return 0, err
	}
	n := int64(u)
	if neg {
		n = -n
	}
	return n, nil
}
