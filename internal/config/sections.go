package config

import (
	"strconv"
	"strings"

	"github.com/dshills/prefs/internal/config/registry"
	"github.com/dshills/prefs/internal/config/value"
)

// Section accessor methods return snapshot structs. Mutating the returned
// struct does not modify the underlying configuration. Use Set or the
// Set* methods to update values.

// EditorConfig provides type-safe access to editor settings.
type EditorConfig struct {
	// TabSize is the tab width in characters.
	TabSize int

	// CaretBlinkRate is the blink period in milliseconds; 0 disables blinking.
	CaretBlinkRate int

	// PopupPrefixLength is the number of letters typed before instruction
	// guidance pops up.
	PopupPrefixLength int

	// LineNumbers shows line numbers.
	LineNumbers bool

	// CurrentLineHighlighting highlights the line holding the caret.
	CurrentLineHighlighting bool

	// AutoIndent indents new lines like the previous one.
	AutoIndent bool

	// PopupInstructionGuidance enables the instruction popup.
	PopupInstructionGuidance bool

	// GenericTextEditor replaces the language-aware editor.
	GenericTextEditor bool

	// Font is the editor font.
	Font value.Font
}

// TablesConfig provides type-safe access to table display settings.
type TablesConfig struct {
	// TextColumnOrder is the order of the text segment table columns.
	TextColumnOrder []int

	// AddressesInHex displays addresses in hexadecimal.
	AddressesInHex bool

	// ValuesInHex displays values in hexadecimal.
	ValuesInHex bool

	// EvenRowFont and OddRowFont alternate across table rows.
	EvenRowFont value.Font
	OddRowFont  value.Font
}

// AppearanceConfig provides type-safe access to look-and-feel settings.
type AppearanceConfig struct {
	// Theme is the look-and-feel theme name.
	Theme string

	// FontSizePreset scales fonts, in percent.
	FontSizePreset int

	// AccentColor and SelectionColor are unset when following the system.
	AccentColor    value.Color
	SelectionColor value.Color

	// FollowsSystem reports whether system preferences are honored.
	FollowsSystem bool
}

// Editor returns type-safe access to editor settings.
func (c *Config) Editor() EditorConfig {
	return EditorConfig{
		TabSize:                  c.getIntOr(registry.EditorTabSize),
		CaretBlinkRate:           c.getIntOr(registry.CaretBlinkRate),
		PopupPrefixLength:        c.getIntOr(registry.EditorPopupPrefixLength),
		LineNumbers:              Get(c, registry.EditorLineNumbersDisplayed),
		CurrentLineHighlighting:  Get(c, registry.EditorCurrentLineHighlighting),
		AutoIndent:               Get(c, registry.AutoIndent),
		PopupInstructionGuidance: Get(c, registry.PopupInstructionGuidance),
		GenericTextEditor:        Get(c, registry.GenericTextEditor),
		Font:                     Get(c, registry.EditorFont),
	}
}

// SetEditorTabSize stores the tab width.
func (c *Config) SetEditorTabSize(size int) {
	Set(c, registry.EditorTabSize, strconv.Itoa(size))
}

// SetCaretBlinkRate stores the caret blink period in milliseconds.
func (c *Config) SetCaretBlinkRate(ms int) {
	Set(c, registry.CaretBlinkRate, strconv.Itoa(ms))
}

// SetEditorPopupPrefixLength stores the popup prefix length.
func (c *Config) SetEditorPopupPrefixLength(n int) {
	Set(c, registry.EditorPopupPrefixLength, strconv.Itoa(n))
}

// Tables returns type-safe access to table display settings.
func (c *Config) Tables() TablesConfig {
	return TablesConfig{
		TextColumnOrder: c.textColumnOrder(),
		AddressesInHex:  Get(c, registry.DisplayAddressesInHex),
		ValuesInHex:     Get(c, registry.DisplayValuesInHex),
		EvenRowFont:     Get(c, registry.EvenRowFont),
		OddRowFont:      Get(c, registry.OddRowFont),
	}
}

// SetTextColumnOrder stores the order of the text segment table columns.
func (c *Config) SetTextColumnOrder(order []int) {
	parts := make([]string, len(order))
	for i, n := range order {
		parts[i] = strconv.Itoa(n)
	}
	Set(c, registry.TextColumnOrder, strings.Join(parts, " "))
}

// Appearance returns type-safe access to look-and-feel settings.
func (c *Config) Appearance() AppearanceConfig {
	return AppearanceConfig{
		Theme:          Get(c, registry.LafTheme),
		FontSizePreset: c.getIntOr(registry.LafFontSizePreset),
		AccentColor:    Get(c, registry.LafAccentColor),
		SelectionColor: Get(c, registry.LafSelectionColor),
		FollowsSystem:  Get(c, registry.LafSystemPreferencesEnabled),
	}
}

// Helper methods for section accessors.
// A current value that does not parse falls back to the parsed default,
// then to the hardcoded default.

func (c *Config) getIntOr(d registry.Def[string]) int {
	if n, err := strconv.Atoi(strings.TrimSpace(Get(c, d))); err == nil {
		return n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(GetDefault(c, d))); err == nil {
		return n
	}
	n, _ := strconv.Atoi(d.Default)
	return n
}

func (c *Config) textColumnOrder() []int {
	def := GetDefault(c, registry.TextColumnOrder)
	if order, ok := parseIntList(Get(c, registry.TextColumnOrder)); ok {
		return order
	}
	if order, ok := parseIntList(def); ok {
		return order
	}
	order, _ := parseIntList(registry.TextColumnOrder.Default)
	return order
}

// parseIntList parses space separated integers.
func parseIntList(s string) ([]int, bool) {
	fields := strings.Fields(s)
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}
