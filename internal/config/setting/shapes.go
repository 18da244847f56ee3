package setting

import (
	"strconv"

	"github.com/dshills/prefs/internal/config/value"
)

// Key prefixes of syntax style parts. The token id is appended.
const (
	SyntaxStyleColorPrefix  = "SyntaxStyleColor_"
	SyntaxStyleBoldPrefix   = "SyntaxStyleBold_"
	SyntaxStyleItalicPrefix = "SyntaxStyleItalic_"
)

// Font part key suffixes.
const (
	FontFamilySuffix = "Family"
	FontStyleSuffix  = "Style"
	FontSizeSuffix   = "Size"
)

// NewFont creates a font composite persisted as three strings under
// key+"Family", key+"Style" and key+"Size". Each part compares its parsed
// value, so "bold" and "Bold" or " 12" and "12" are the same default.
// A size that is not an integer is rejected like any unparseable entry.
func NewFont(key, family, style, size string) *Composite[value.Font] {
	fam := NewDerived(key+FontFamilySuffix, family, total(value.FontFamily), identity, equalComparable[string])
	sty := NewDerived(key+FontStyleSuffix, style, total(value.ParseFontStyle), value.FontStyle.String, equalComparable[value.FontStyle])
	sz := NewDerived(key+FontSizeSuffix, size, value.ParsePointSize, strconv.Itoa, equalComparable[int])

	return NewComposite(
		func(l Lookup) value.Font {
			return value.Font{
				Family: Read[string](l, fam),
				Style:  Read[value.FontStyle](l, sty),
				Size:   Read[int](l, sz),
			}
		},
		func(f value.Font) []Assignment {
			f = f.Normalized()
			return []Assignment{
				Assign[string](fam, f.Family),
				Assign[value.FontStyle](sty, f.Style),
				Assign[int](sz, f.Size),
			}
		},
		Member[string](fam), Member[value.FontStyle](sty), Member[int](sz),
	)
}

// NewSyntaxStyle creates the styled-text rule for token. color is given in
// any form value.ParseColor accepts.
func NewSyntaxStyle(token value.Token, color string, italic, bold bool) *Composite[value.SyntaxStyle] {
	id := strconv.Itoa(int(token))
	col := NewColor(SyntaxStyleColorPrefix+id, color)
	b := NewBool(SyntaxStyleBoldPrefix+id, bold)
	it := NewBool(SyntaxStyleItalicPrefix+id, italic)

	return NewComposite(
		func(l Lookup) value.SyntaxStyle {
			return value.SyntaxStyle{
				Color:  Read[value.Color](l, col),
				Bold:   Read[bool](l, b),
				Italic: Read[bool](l, it),
			}
		},
		func(s value.SyntaxStyle) []Assignment {
			return []Assignment{
				Assign[value.Color](col, s.Color),
				Assign[bool](b, s.Bold),
				Assign[bool](it, s.Italic),
			}
		},
		Member[value.Color](col), Member[bool](b), Member[bool](it),
	)
}
