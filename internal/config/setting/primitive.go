package setting

import (
	"github.com/dshills/prefs/internal/config/store"
)

// Codec converts a primitive value to and from its stored string.
type Codec[T any] struct {
	// Parse decodes a stored string. An error leaves the cell unchanged.
	Parse func(s string) (T, error)
	// Format encodes a value for storage.
	Format func(v T) string
	// Equal compares two values. Nil means "compare formatted strings".
	Equal func(a, b T) bool
}

func (c Codec[T]) equal(a, b T) bool {
	if c.Equal != nil {
		return c.Equal(a, b)
	}
	return c.Format(a) == c.Format(b)
}

// StringCodec stores strings verbatim.
var StringCodec = Codec[string]{
	Parse:  func(s string) (string, error) { return s, nil },
	Format: func(v string) string { return v },
	Equal:  func(a, b string) bool { return a == b },
}

// Primitive is a single value persisted under one key.
type Primitive[T any] struct {
	key   string
	codec Codec[T]
	def   T
	cur   T
}

// NewPrimitive creates a primitive cell whose current value starts at def.
func NewPrimitive[T any](key string, def T, codec Codec[T]) *Primitive[T] {
	return &Primitive[T]{key: key, codec: codec, def: def, cur: def}
}

// NewString creates a string primitive.
func NewString(key, def string) *Primitive[string] {
	return NewPrimitive(key, def, StringCodec)
}

// Key returns the persisted key.
func (p *Primitive[T]) Key() string {
	return p.key
}

// Keys implements Cell.
func (p *Primitive[T]) Keys() []string {
	return []string{p.key}
}

// Value returns the current value.
func (p *Primitive[T]) Value() T {
	return p.cur
}

// Default returns the default value.
func (p *Primitive[T]) Default() T {
	return p.def
}

// SetValue replaces the current value.
func (p *Primitive[T]) SetValue(v T) {
	p.cur = v
}

// SetToDefault implements Cell.
func (p *Primitive[T]) SetToDefault() {
	p.cur = p.def
}

// IsDefault implements Cell.
func (p *Primitive[T]) IsDefault() bool {
	return p.codec.equal(p.cur, p.def)
}

// LoadDefaults implements Cell.
func (p *Primitive[T]) LoadDefaults(props map[string]string) {
	raw, ok := props[p.key]
	if !ok {
		return
	}
	v, err := p.codec.Parse(raw)
	if err != nil {
		return
	}
	p.def = v
}

// Load implements Cell.
func (p *Primitive[T]) Load(s store.Store) {
	raw := s.GetString(p.key, missing)
	if raw == missing {
		return
	}
	v, err := p.codec.Parse(raw)
	if err != nil {
		return
	}
	p.cur = v
}

// Write implements Cell.
func (p *Primitive[T]) Write(s store.Store) error {
	return s.PutString(p.key, p.codec.Format(p.cur))
}

// Remove implements Cell.
func (p *Primitive[T]) Remove(s store.Store) error {
	return s.Remove(p.key)
}
