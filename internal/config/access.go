package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/prefs/internal/config/registry"
	"github.com/dshills/prefs/internal/config/setting"
	"github.com/dshills/prefs/internal/config/value"
)

// BoolByLegacyID returns the boolean setting with the numeric id.
func (c *Config) BoolByLegacyID(id int) (bool, error) {
	return getByLegacyID[bool](c, registry.KindBoolean, id)
}

// SetBoolByLegacyID sets the boolean setting with the numeric id.
func (c *Config) SetBoolByLegacyID(id int, v bool) error {
	return setByLegacyID(c, registry.KindBoolean, id, v)
}

// StringByLegacyID returns the string setting with the numeric id.
func (c *Config) StringByLegacyID(id int) (string, error) {
	return getByLegacyID[string](c, registry.KindString, id)
}

// SetStringByLegacyID sets the string setting with the numeric id.
func (c *Config) SetStringByLegacyID(id int, v string) error {
	return setByLegacyID(c, registry.KindString, id, v)
}

// ColorByLegacyID returns the color setting with the numeric id.
func (c *Config) ColorByLegacyID(id int) (value.Color, error) {
	return getByLegacyID[value.Color](c, registry.KindColor, id)
}

// DefaultColorByLegacyID returns the default of the color setting with
// the numeric id.
func (c *Config) DefaultColorByLegacyID(id int) (value.Color, error) {
	d, err := c.reg.ByLegacyID(registry.KindColor, id)
	if err != nil {
		return value.NoColor, err
	}
	return GetDefault(c, registry.Def[value.Color]{Definition: d}), nil
}

// SetColorByLegacyID sets the color setting with the numeric id.
func (c *Config) SetColorByLegacyID(id int, v value.Color) error {
	return setByLegacyID(c, registry.KindColor, id, v)
}

// FontByLegacyID returns the font setting with the numeric id.
func (c *Config) FontByLegacyID(id int) (value.Font, error) {
	return getByLegacyID[value.Font](c, registry.KindFont, id)
}

// DefaultFontByLegacyID returns the default of the font setting with the
// numeric id.
func (c *Config) DefaultFontByLegacyID(id int) (value.Font, error) {
	d, err := c.reg.ByLegacyID(registry.KindFont, id)
	if err != nil {
		return value.Font{}, err
	}
	return GetDefault(c, registry.Def[value.Font]{Definition: d}), nil
}

// SetFontByLegacyID sets the font setting with the numeric id.
func (c *Config) SetFontByLegacyID(id int, v value.Font) error {
	return setByLegacyID(c, registry.KindFont, id, v)
}

func getByLegacyID[T any](c *Config, kind registry.Kind, id int) (T, error) {
	d, err := c.reg.ByLegacyID(kind, id)
	if err != nil {
		var zero T
		return zero, err
	}
	return Get(c, registry.Def[T]{Definition: d}), nil
}

func setByLegacyID[T comparable](c *Config, kind registry.Kind, id int, v T) error {
	d, err := c.reg.ByLegacyID(kind, id)
	if err != nil {
		return err
	}
	Set(c, registry.Def[T]{Definition: d}, v)
	return nil
}

// ColorByKey returns the color setting with the given key.
func (c *Config) ColorByKey(key string) (value.Color, error) {
	d, err := c.lookupKind(key, registry.KindColor)
	if err != nil {
		return value.NoColor, err
	}
	return Get(c, registry.Def[value.Color]{Definition: d}), nil
}

// DefaultColorByKey returns the default of the color setting with the
// given key.
func (c *Config) DefaultColorByKey(key string) (value.Color, error) {
	d, err := c.lookupKind(key, registry.KindColor)
	if err != nil {
		return value.NoColor, err
	}
	return GetDefault(c, registry.Def[value.Color]{Definition: d}), nil
}

// SetColorByKey sets the color setting with the given key.
func (c *Config) SetColorByKey(key string, v value.Color) error {
	d, err := c.lookupKind(key, registry.KindColor)
	if err != nil {
		return err
	}
	Set(c, registry.Def[value.Color]{Definition: d}, v)
	return nil
}

// SyntaxStyles returns the current style of every token, indexed by
// token id.
func (c *Config) SyntaxStyles() []value.SyntaxStyle {
	return c.syntaxStyles(Get[value.SyntaxStyle])
}

// DefaultSyntaxStyles returns the default style of every token, indexed
// by token id.
func (c *Config) DefaultSyntaxStyles() []value.SyntaxStyle {
	return c.syntaxStyles(GetDefault[value.SyntaxStyle])
}

func (c *Config) syntaxStyles(get func(*Config, registry.Def[value.SyntaxStyle]) value.SyntaxStyle) []value.SyntaxStyle {
	styles := make([]value.SyntaxStyle, value.TokenCount)
	for i := range styles {
		if d, ok := c.reg.SyntaxStyleForToken(value.Token(i)); ok {
			styles[i] = get(c, d)
		}
	}
	return styles
}

// SetSyntaxStyleByToken sets the style of a token.
func (c *Config) SetSyntaxStyleByToken(token value.Token, style value.SyntaxStyle) error {
	d, ok := c.reg.SyntaxStyleForToken(token)
	if !ok {
		return &registry.LegacyIDError{Kind: registry.KindSyntaxStyle, ID: int(token)}
	}
	Set(c, d, style)
	return nil
}

// FormatText returns the current value of a setting in text form.
func (c *Config) FormatText(key string) (string, error) {
	return c.formatText(key, false)
}

// DefaultText returns the default value of a setting in text form.
func (c *Config) DefaultText(key string) (string, error) {
	return c.formatText(key, true)
}

func (c *Config) formatText(key string, def bool) (string, error) {
	d, err := c.lookup(key)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	switch cell := c.cell(d).(type) {
	case setting.Typed[bool]:
		return strconv.FormatBool(pick(cell, def)), nil
	case setting.Typed[string]:
		return pick(cell, def), nil
	case setting.Typed[value.Color]:
		return pick(cell, def).String(), nil
	case setting.Typed[value.Font]:
		return pick(cell, def).String(), nil
	case setting.Typed[value.SyntaxStyle]:
		return pick(cell, def).String(), nil
	default:
		return "", fmt.Errorf("%w: %q has kind %s", ErrTypeMismatch, key, d.Kind)
	}
}

func pick[T any](cell setting.Typed[T], def bool) T {
	if def {
		return cell.Default()
	}
	return cell.Value()
}

// SetText parses text for the setting's kind and sets it. String
// settings are checked against their pattern and range first.
func (c *Config) SetText(key, text string) error {
	d, err := c.lookup(key)
	if err != nil {
		return err
	}

	switch d.Kind {
	case registry.KindBoolean:
		b, err := strconv.ParseBool(strings.TrimSpace(text))
		if err != nil {
			return &TextError{Key: key, Text: text, Err: err}
		}
		Set(c, registry.Def[bool]{Definition: d}, b)
	case registry.KindString:
		if err := d.Validate(text); err != nil {
			return &TextError{Key: key, Text: text, Err: err}
		}
		Set(c, registry.Def[string]{Definition: d}, text)
	case registry.KindColor:
		col, err := value.ParseColor(text)
		if err != nil {
			return &TextError{Key: key, Text: text, Err: err}
		}
		Set(c, registry.Def[value.Color]{Definition: d}, col)
	case registry.KindFont:
		f, err := value.ParseFont(text)
		if err != nil {
			return &TextError{Key: key, Text: text, Err: err}
		}
		Set(c, registry.Def[value.Font]{Definition: d}, f)
	case registry.KindSyntaxStyle:
		s, err := value.ParseSyntaxStyle(text)
		if err != nil {
			return &TextError{Key: key, Text: text, Err: err}
		}
		Set(c, registry.Def[value.SyntaxStyle]{Definition: d}, s)
	default:
		return fmt.Errorf("%w: %q has kind %s", ErrTypeMismatch, key, d.Kind)
	}
	return nil
}
