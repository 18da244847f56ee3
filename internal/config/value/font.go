package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Font size bounds and defaults.
const (
	MinFontSize     = 6
	MaxFontSize     = 72
	DefaultFontSize = 12
)

// DefaultFontFamily is used when no family is configured.
const DefaultFontFamily = "Monospaced"

// FontStyle is the weight/slant of a font.
type FontStyle uint8

const (
	// StylePlain is the regular style.
	StylePlain FontStyle = iota
	// StyleBold is the bold style.
	StyleBold
	// StyleItalic is the italic style.
	StyleItalic
	// StyleBoldItalic is bold and italic together.
	StyleBoldItalic
)

var fontStyleNames = [...]string{"Plain", "Bold", "Italic", "Bold + Italic"}

// String returns the persisted style name.
func (s FontStyle) String() string {
	if int(s) < len(fontStyleNames) {
		return fontStyleNames[s]
	}
	return fontStyleNames[StylePlain]
}

// Bold reports whether the style is bold.
func (s FontStyle) Bold() bool {
	return s == StyleBold || s == StyleBoldItalic
}

// Italic reports whether the style is italic.
func (s FontStyle) Italic() bool {
	return s == StyleItalic || s == StyleBoldItalic
}

// FontStyleNames returns the persisted style names in style order.
func FontStyleNames() []string {
	out := make([]string, len(fontStyleNames))
	copy(out, fontStyleNames[:])
	return out
}

// ParseFontStyle maps a style name onto a FontStyle. Matching ignores
// case and surrounding space; unknown names yield StylePlain.
func ParseFontStyle(s string) FontStyle {
	s = strings.TrimSpace(s)
	for i, name := range fontStyleNames {
		if strings.EqualFold(s, name) {
			return FontStyle(i)
		}
	}
	// Tolerate "BoldItalic" and "Bold+Italic".
	compact := strings.ReplaceAll(strings.ReplaceAll(strings.ToLower(s), " ", ""), "+", "")
	if compact == "bolditalic" {
		return StyleBoldItalic
	}
	return StylePlain
}

// ParseFontSize parses a point size and clamps it to the allowed range.
// Unparseable input yields DefaultFontSize.
func ParseFontSize(s string) int {
	n, err := ParsePointSize(s)
	if err != nil {
		return DefaultFontSize
	}
	return n
}

// ParsePointSize parses a point size and clamps it to the allowed range.
func ParsePointSize(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid font size %q", s)
	}
	return ClampFontSize(n), nil
}

// FontFamily trims a family name; an empty name yields DefaultFontFamily.
func FontFamily(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultFontFamily
	}
	return s
}

// ClampFontSize limits n to [MinFontSize, MaxFontSize].
func ClampFontSize(n int) int {
	switch {
	case n < MinFontSize:
		return MinFontSize
	case n > MaxFontSize:
		return MaxFontSize
	default:
		return n
	}
}

// Font describes a font by family, style and point size.
type Font struct {
	Family string
	Style  FontStyle
	Size   int
}

// NewFont builds a font from its persisted string parts.
func NewFont(family, style, size string) Font {
	return Font{
		Family: FontFamily(family),
		Style:  ParseFontStyle(style),
		Size:   ParseFontSize(size),
	}
}

// Unset reports whether the font has no family.
func (f Font) Unset() bool {
	return f.Family == ""
}

// Normalized returns f as it is stored: trimmed family and clamped size.
// An unset font stays unset.
func (f Font) Normalized() Font {
	if f.Unset() {
		return f
	}
	f.Family = FontFamily(f.Family)
	if f.Style > StyleBoldItalic {
		f.Style = StylePlain
	}
	f.Size = ClampFontSize(f.Size)
	return f
}

// SizeString returns the persisted size.
func (f Font) SizeString() string {
	return strconv.Itoa(f.Size)
}

// String returns "Family:Style:Size".
func (f Font) String() string {
	return fmt.Sprintf("%s:%s:%d", f.Family, f.Style, f.Size)
}

// ParseFont parses the "Family:Style:Size" form produced by String.
// Style and size may be omitted.
func ParseFont(s string) (Font, error) {
	parts := strings.Split(s, ":")
	if len(parts) > 3 || strings.TrimSpace(parts[0]) == "" {
		return Font{}, fmt.Errorf("invalid font %q: want Family[:Style[:Size]]", s)
	}
	for len(parts) < 3 {
		parts = append(parts, "")
	}
	return NewFont(parts[0], parts[1], parts[2]), nil
}
