// Package layer provides defaults layer management.
//
// Every external defaults source (a properties file, a profile, the
// environment) becomes a named layer with a priority. Merging applies the
// layers from lowest to highest priority, so a key present in several
// layers takes the value of the highest one.
package layer

import (
	"maps"
	"time"
)

// Layer represents a single defaults layer.
type Layer struct {
	// Name identifies the layer (e.g., "defaults", "profile:dark").
	Name string

	// Priority determines merge order (higher overrides lower).
	Priority int

	// Source indicates where this layer was loaded from.
	Source Source

	// Path is the file path (if loaded from file).
	Path string

	// Data holds the flat key to text value map.
	Data map[string]string

	// ModTime is when the source was last loaded.
	ModTime time.Time
}

// NewLayer creates a new empty layer.
func NewLayer(name string, source Source, priority int) *Layer {
	return &Layer{
		Name:     name,
		Source:   source,
		Priority: priority,
		Data:     make(map[string]string),
		ModTime:  time.Now(),
	}
}

// NewLayerWithData creates a new layer with initial data.
func NewLayerWithData(name string, source Source, priority int, data map[string]string) *Layer {
	if data == nil {
		data = make(map[string]string)
	}
	return &Layer{
		Name:     name,
		Source:   source,
		Priority: priority,
		Data:     data,
		ModTime:  time.Now(),
	}
}

// Clone creates a copy of the layer.
func (l *Layer) Clone() *Layer {
	return &Layer{
		Name:     l.Name,
		Priority: l.Priority,
		Source:   l.Source,
		Path:     l.Path,
		Data:     maps.Clone(l.Data),
		ModTime:  l.ModTime,
	}
}

// Source indicates where a defaults layer came from.
type Source uint8

const (
	// SourceBuiltin represents defaults compiled into the registry.
	SourceBuiltin Source = iota
	// SourceFile represents a defaults file.
	SourceFile
	// SourceProfile represents an installed profile.
	SourceProfile
	// SourceEnv represents environment variables.
	SourceEnv
	// SourceArgs represents command-line arguments.
	SourceArgs
)

// String returns a human-readable name for the source.
func (s Source) String() string {
	switch s {
	case SourceBuiltin:
		return "builtin"
	case SourceFile:
		return "file"
	case SourceProfile:
		return "profile"
	case SourceEnv:
		return "environment"
	case SourceArgs:
		return "arguments"
	default:
		return "unknown"
	}
}
