// Package setting implements the backing cells of configurable values.
//
// A cell owns the default and current value of one setting and knows how
// to move them to and from a persisted store. Cells never persist on their
// own: SetValue only changes memory, and the owner decides when to call
// Write or Remove.
//
// Three shapes are provided:
//
//   - Primitive: a single value with a string codec, stored under one key.
//   - Derived: a richer value parsed from a wrapped string Primitive.
//     Default comparison happens on the parsed value.
//   - Composite: a value assembled from several independent cells, each
//     persisted under its own key.
package setting

import (
	"github.com/dshills/prefs/internal/config/store"
)

// Cell is the lifecycle shared by every setting shape.
type Cell interface {
	// IsDefault reports whether the current value equals the default.
	IsDefault() bool

	// SetToDefault replaces the current value with the default.
	SetToDefault()

	// LoadDefaults replaces the default with the entry for this cell's key
	// in props, when present and parseable. Failures leave it untouched.
	LoadDefaults(props map[string]string)

	// Load replaces the current value with the stored entry, when present
	// and parseable.
	Load(s store.Store)

	// Write stores the current value.
	Write(s store.Store) error

	// Remove deletes the stored entry.
	Remove(s store.Store) error

	// Keys returns every persisted key owned by the cell.
	Keys() []string
}

// Typed is a Cell with typed access to its values.
type Typed[T any] interface {
	Cell
	Value() T
	Default() T
	SetValue(v T)
}

// missing is a store fallback no real entry can hold.
const missing = "\x00\x00missing"
