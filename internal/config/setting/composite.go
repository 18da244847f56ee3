package setting

import (
	"errors"

	"github.com/dshills/prefs/internal/config/store"
)

// Lookup is a snapshot of part values taken while assembling a composite.
type Lookup struct {
	values map[Cell]any
}

// Read returns the value snapshotted for part, or the zero value when part
// is not a member of the composite.
func Read[E any](l Lookup, part Typed[E]) E {
	v, _ := l.values[part].(E)
	return v
}

// Assignment sets one part of a composite.
type Assignment func()

// Assign returns an Assignment that sets part to v.
func Assign[E any](part Typed[E], v E) Assignment {
	return func() { part.SetValue(v) }
}

// Part is a member cell of a composite.
type Part struct {
	cell    Cell
	current func() any
	def     func() any
}

// Member registers a typed part for use in a composite.
func Member[E any](c Typed[E]) Part {
	return Part{
		cell:    c,
		current: func() any { return c.Value() },
		def:     func() any { return c.Default() },
	}
}

// Composite is a value assembled from several independently persisted
// parts. Lifecycle operations are applied to every part.
type Composite[T any] struct {
	parts     []Part
	assemble  func(Lookup) T
	decompose func(T) []Assignment
}

// NewComposite creates a composite over parts. assemble builds a value from
// a part snapshot, decompose splits a value into part assignments.
func NewComposite[T any](assemble func(Lookup) T, decompose func(T) []Assignment, parts ...Part) *Composite[T] {
	return &Composite[T]{parts: parts, assemble: assemble, decompose: decompose}
}

// Parts returns the member cells in order.
func (c *Composite[T]) Parts() []Cell {
	cells := make([]Cell, len(c.parts))
	for i, p := range c.parts {
		cells[i] = p.cell
	}
	return cells
}

func (c *Composite[T]) snapshot(get func(Part) any) Lookup {
	values := make(map[Cell]any, len(c.parts))
	for _, p := range c.parts {
		values[p.cell] = get(p)
	}
	return Lookup{values: values}
}

// Value assembles the current part values.
func (c *Composite[T]) Value() T {
	return c.assemble(c.snapshot(func(p Part) any { return p.current() }))
}

// Default assembles the default part values.
func (c *Composite[T]) Default() T {
	return c.assemble(c.snapshot(func(p Part) any { return p.def() }))
}

// SetValue applies every assignment produced by decomposing v.
func (c *Composite[T]) SetValue(v T) {
	for _, assign := range c.decompose(v) {
		assign()
	}
}

// IsDefault reports whether every part is at its default.
func (c *Composite[T]) IsDefault() bool {
	for _, p := range c.parts {
		if !p.cell.IsDefault() {
			return false
		}
	}
	return true
}

// SetToDefault implements Cell.
func (c *Composite[T]) SetToDefault() {
	for _, p := range c.parts {
		p.cell.SetToDefault()
	}
}

// LoadDefaults implements Cell.
func (c *Composite[T]) LoadDefaults(props map[string]string) {
	for _, p := range c.parts {
		p.cell.LoadDefaults(props)
	}
}

// Load implements Cell.
func (c *Composite[T]) Load(s store.Store) {
	for _, p := range c.parts {
		p.cell.Load(s)
	}
}

// Write stores every part. A failing part does not stop the others.
func (c *Composite[T]) Write(s store.Store) error {
	var errs []error
	for _, p := range c.parts {
		errs = append(errs, p.cell.Write(s))
	}
	return errors.Join(errs...)
}

// Remove deletes every part. A failing part does not stop the others.
func (c *Composite[T]) Remove(s store.Store) error {
	var errs []error
	for _, p := range c.parts {
		errs = append(errs, p.cell.Remove(s))
	}
	return errors.Join(errs...)
}

// Keys implements Cell.
func (c *Composite[T]) Keys() []string {
	var keys []string
	for _, p := range c.parts {
		keys = append(keys, p.cell.Keys()...)
	}
	return keys
}
