// Package registry provides the settings registry.
//
// The registry holds the definition of every known setting: its persisted
// key, its kind, an optional legacy numeric id, documentation and the
// factory for its backing cell. Definitions are grouped by kind and each
// group keeps registration order.
package registry

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dshills/prefs/internal/config/setting"
	"github.com/dshills/prefs/internal/config/value"
)

// SyntaxStyleKeyPrefix prefixes the token id in syntax style keys.
const SyntaxStyleKeyPrefix = "SyntaxStyle_"

// NoLegacyID marks a definition that has no legacy numeric id.
const NoLegacyID = -1

// Kind is the shape of a setting's value.
type Kind uint8

const (
	// KindBoolean is a true/false flag.
	KindBoolean Kind = iota
	// KindString is free text.
	KindString
	// KindFont is a family, style and size.
	KindFont
	// KindColor is a nullable 24-bit color.
	KindColor
	// KindSyntaxStyle is a styled-text rule for one token category.
	KindSyntaxStyle
)

// Kinds returns every kind in group order.
func Kinds() []Kind {
	return []Kind{KindBoolean, KindString, KindFont, KindColor, KindSyntaxStyle}
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindBoolean:
		return "boolean"
	case KindString:
		return "string"
	case KindFont:
		return "font"
	case KindColor:
		return "color"
	case KindSyntaxStyle:
		return "syntax-style"
	default:
		return "unknown"
	}
}

// ParseKind parses the name returned by Kind.String.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown setting kind %q", s)
}

// Definition describes a setting.
type Definition struct {
	// Key is the persisted key. Composite kinds derive their part keys
	// from it.
	Key string

	// LegacyID is the numeric id used by older callers, or NoLegacyID.
	// Ids are unique within a kind only.
	LegacyID int

	// Kind is the setting's value shape. Set by the typed constructors.
	Kind Kind

	// Description is human-readable documentation.
	Description string

	// Tags for filtering/grouping settings.
	Tags []string

	// CaseInsensitive makes default comparison of a string ignore case.
	CaseInsensitive bool

	// Pattern for text validation (regex), string kinds only.
	Pattern string

	// Minimum for strings holding integers (nil means no minimum).
	Minimum *int

	// Maximum for strings holding integers (nil means no maximum).
	Maximum *int

	// Default is the hardcoded default in text form.
	Default string

	newCell         func() setting.Cell
	compiledPattern *regexp.Regexp
}

// HasLegacyID reports whether the definition carries a legacy id.
func (d *Definition) HasLegacyID() bool {
	return d.LegacyID != NoLegacyID
}

// NewCell builds a fresh cell holding the hardcoded default.
func (d *Definition) NewCell() setting.Cell {
	return d.newCell()
}

// Validate checks text entered for a string setting against the
// definition's pattern and integer range. Other kinds always pass.
func (d *Definition) Validate(text string) error {
	if d.Kind != KindString {
		return nil
	}
	if d.Pattern != "" {
		if err := d.validatePattern(text); err != nil {
			return err
		}
	}
	if d.Minimum != nil || d.Maximum != nil {
		return d.validateRange(text)
	}
	return nil
}

// validateRange checks that text is an integer within the allowed range.
func (d *Definition) validateRange(text string) error {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return fmt.Errorf("value %q is not an integer", text)
	}
	if d.Minimum != nil && n < *d.Minimum {
		return fmt.Errorf("value %d is less than minimum %d", n, *d.Minimum)
	}
	if d.Maximum != nil && n > *d.Maximum {
		return fmt.Errorf("value %d is greater than maximum %d", n, *d.Maximum)
	}
	return nil
}

// validatePattern checks if text matches the required pattern.
func (d *Definition) validatePattern(text string) error {
	if !d.compiledPattern.MatchString(text) {
		return fmt.Errorf("value does not match pattern %s", d.Pattern)
	}
	return nil
}

// Def is a definition whose cells hold values of type T.
type Def[T any] struct {
	*Definition
}

// Bool defines a boolean setting.
func Bool(d Definition, def bool) Def[bool] {
	d.Kind = KindBoolean
	d.Default = strconv.FormatBool(def)
	d.newCell = func() setting.Cell { return setting.NewBool(d.Key, def) }
	return Def[bool]{&d}
}

// String defines a string setting.
func String(d Definition, def string) Def[string] {
	d.Kind = KindString
	d.Default = def
	if d.Pattern != "" {
		d.compiledPattern = regexp.MustCompile(d.Pattern)
	}
	if d.CaseInsensitive {
		d.newCell = func() setting.Cell { return setting.NewCaseInsensitiveString(d.Key, def) }
	} else {
		d.newCell = func() setting.Cell { return setting.NewString(d.Key, def) }
	}
	return Def[string]{&d}
}

// Font defines a font setting persisted under Key+"Family", Key+"Style"
// and Key+"Size".
func Font(d Definition, family, style, size string) Def[value.Font] {
	d.Kind = KindFont
	d.Default = value.NewFont(family, style, size).String()
	d.newCell = func() setting.Cell { return setting.NewFont(d.Key, family, style, size) }
	return Def[value.Font]{&d}
}

// Color defines a color setting. def is any form value.ParseColor
// accepts; "" means no color.
func Color(d Definition, def string) Def[value.Color] {
	d.Kind = KindColor
	d.Default = value.DecodeColor(def).String()
	d.newCell = func() setting.Cell { return setting.NewColor(d.Key, def) }
	return Def[value.Color]{&d}
}

// SyntaxStyle defines the styled-text rule for token. The key and the
// legacy id are derived from the token id.
func SyntaxStyle(d Definition, token value.Token, color string, italic, bold bool) Def[value.SyntaxStyle] {
	d.Kind = KindSyntaxStyle
	d.Key = SyntaxStyleKeyPrefix + strconv.Itoa(int(token))
	d.LegacyID = int(token)
	d.Default = value.SyntaxStyle{Color: value.DecodeColor(color), Italic: italic, Bold: bold}.String()
	d.newCell = func() setting.Cell { return setting.NewSyntaxStyle(token, color, italic, bold) }
	return Def[value.SyntaxStyle]{&d}
}
