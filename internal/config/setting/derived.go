package setting

import (
	"strings"

	"github.com/dshills/prefs/internal/config/store"
	"github.com/dshills/prefs/internal/config/value"
	"golang.org/x/text/cases"
)

// Derived is a value parsed from a wrapped string primitive. The wrapped
// primitive only accepts text that parses, so an unparseable default or
// stored entry leaves the prior value in place.
type Derived[T any] struct {
	inner  *Primitive[string]
	parse  func(string) (T, error)
	format func(T) string
	equal  func(a, b T) bool
}

// NewDerived creates a derived cell stored under key. equal compares parsed
// values for IsDefault.
func NewDerived[T any](key, def string, parse func(string) (T, error), format func(T) string, equal func(a, b T) bool) *Derived[T] {
	codec := Codec[string]{
		Parse: func(s string) (string, error) {
			if _, err := parse(s); err != nil {
				return "", err
			}
			return s, nil
		},
		Format: StringCodec.Format,
		Equal:  StringCodec.Equal,
	}
	return &Derived[T]{inner: NewPrimitive(key, def, codec), parse: parse, format: format, equal: equal}
}

// decode parses text known to be accepted. Only a bad hardcoded default
// can fail here, and it yields the zero value.
func (d *Derived[T]) decode(s string) T {
	v, _ := d.parse(s)
	return v
}

// Key returns the persisted key.
func (d *Derived[T]) Key() string {
	return d.inner.key
}

// Keys implements Cell.
func (d *Derived[T]) Keys() []string {
	return d.inner.Keys()
}

// Raw returns the stored string form of the current value.
func (d *Derived[T]) Raw() string {
	return d.inner.Value()
}

// Value returns the parsed current value.
func (d *Derived[T]) Value() T {
	return d.decode(d.inner.Value())
}

// Default returns the parsed default value.
func (d *Derived[T]) Default() T {
	return d.decode(d.inner.Default())
}

// SetValue formats v into the wrapped primitive.
func (d *Derived[T]) SetValue(v T) {
	d.inner.SetValue(d.format(v))
}

// IsDefault compares parsed values, not stored strings.
func (d *Derived[T]) IsDefault() bool {
	return d.equal(d.decode(d.inner.Value()), d.decode(d.inner.Default()))
}

// SetToDefault implements Cell.
func (d *Derived[T]) SetToDefault() {
	d.inner.SetToDefault()
}

// LoadDefaults implements Cell.
func (d *Derived[T]) LoadDefaults(props map[string]string) {
	d.inner.LoadDefaults(props)
}

// Load implements Cell.
func (d *Derived[T]) Load(s store.Store) {
	d.inner.Load(s)
}

// Write implements Cell.
func (d *Derived[T]) Write(s store.Store) error {
	return d.inner.Write(s)
}

// Remove implements Cell.
func (d *Derived[T]) Remove(s store.Store) error {
	return d.inner.Remove(s)
}

func equalComparable[T comparable](a, b T) bool {
	return a == b
}

// NewColor creates a color setting. The default is given in any form
// value.ParseColor accepts; "" means no color.
func NewColor(key, def string) *Derived[value.Color] {
	return NewDerived(key, def, parseColor, value.Color.String, equalComparable[value.Color])
}

// parseColor accepts "" as the unset color.
func parseColor(s string) (value.Color, error) {
	if strings.TrimSpace(s) == "" {
		return value.NoColor, nil
	}
	return value.ParseColor(s)
}

// NewCaseInsensitiveString creates a string setting whose default
// comparison ignores case.
func NewCaseInsensitiveString(key, def string) *Derived[string] {
	return NewDerived(key, def, total(identity), identity, func(a, b string) bool {
		fold := cases.Fold()
		return fold.String(a) == fold.String(b)
	})
}

func identity(s string) string { return s }

// total adapts a parse that cannot fail.
func total[T any](parse func(string) T) func(string) (T, error) {
	return func(s string) (T, error) { return parse(s), nil }
}

// Bool is a boolean setting. It uses the store's native boolean entry.
type Bool struct {
	*Derived[bool]
}

// NewBool creates a boolean setting.
func NewBool(key string, def bool) *Bool {
	return &Bool{NewDerived(key, formatBool(def), total(parseBool), formatBool, equalComparable[bool])}
}

// Load reads the native boolean entry.
func (b *Bool) Load(s store.Store) {
	b.SetValue(s.GetBool(b.Key(), b.Value()))
}

// Write stores the native boolean entry.
func (b *Bool) Write(s store.Store) error {
	return s.PutBool(b.Key(), b.Value())
}

// parseBool treats anything other than a case-insensitive "true" as false.
func parseBool(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}

func formatBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
