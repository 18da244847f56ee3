// Package loader reads external defaults sources.
//
// Every loader produces a flat map from setting key to text value, the
// form the settings engine feeds to its cells. Structured formats (TOML,
// YAML, Lua tables) are flattened by joining a table name directly to the
// keys inside it, so
//
//	[EditorFont]
//	Size = 14
//
// yields "EditorFontSize" = "14". A missing source is not an error: its
// loader returns nil, nil.
package loader

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Loader is the interface for defaults loaders.
type Loader interface {
	// Load reads defaults from the source and returns a flat map.
	// Returns nil, nil if the source doesn't exist (not an error).
	Load() (map[string]string, error)
}

// FileLoader is the interface for loaders that read from files.
type FileLoader interface {
	Loader
	// LoadFrom reads defaults from a specific path.
	LoadFrom(path string) (map[string]string, error)
	// Path returns the configured path.
	Path() string
}

// ReaderLoader is the interface for loaders that read from io.Reader.
type ReaderLoader interface {
	// LoadFromReader reads defaults from a reader.
	LoadFromReader(r io.Reader) (map[string]string, error)
}

// Func adapts a function to the Loader interface.
type Func func() (map[string]string, error)

// Load calls f.
func (f Func) Load() (map[string]string, error) {
	return f()
}

// Static is a Loader returning a fixed map.
type Static map[string]string

// Load returns a copy of the map.
func (s Static) Load() (map[string]string, error) {
	out := make(map[string]string, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out, nil
}

// FileSystem is an abstraction for file system operations.
// This allows for easy testing with in-memory file systems.
type FileSystem interface {
	fs.FS
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// Open implements fs.FS.
func (OSFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the default file system (OS).
func DefaultFS() FileSystem {
	return OSFS{}
}

// ForPath returns a file loader chosen by the extension of path.
// Unknown extensions are read as Java-style properties.
func ForPath(path string) FileLoader {
	return ForPathWithFS(DefaultFS(), path)
}

// ForPathWithFS is ForPath with a custom file system.
func ForPathWithFS(fsys FileSystem, path string) FileLoader {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return NewTOMLLoaderWithFS(fsys, path)
	case ".yaml", ".yml":
		return NewYAMLLoaderWithFS(fsys, path)
	case ".lua":
		return NewLuaLoaderWithFS(fsys, path)
	default:
		return NewPropertiesLoaderWithFS(fsys, path)
	}
}

// readFile reads path, mapping a missing file to nil, nil.
func readFile(fsys FileSystem, path string) ([]byte, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // File doesn't exist, not an error
		}
		return nil, fmt.Errorf("reading defaults file %s: %w", path, err)
	}
	return data, nil
}

// Flatten converts a nested map into flat keys. Nested map keys are joined
// to their parent without a separator; scalars are rendered as text and
// lists as their elements separated by single spaces.
func Flatten(nested map[string]any) map[string]string {
	out := make(map[string]string)
	flattenInto(out, "", nested)
	return out
}

func flattenInto(out map[string]string, prefix string, nested map[string]any) {
	for key, val := range nested {
		full := prefix + key
		if sub, ok := val.(map[string]any); ok {
			flattenInto(out, full, sub)
			continue
		}
		out[full] = FormatScalar(val)
	}
}

// FormatScalar renders a decoded scalar or list as defaults text.
func FormatScalar(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = FormatScalar(item)
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprint(v)
	}
}

// DeepMerge recursively merges src into dst.
// Values in src override values in dst.
// Maps are merged recursively; other types are replaced.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}
	if src == nil {
		return dst
	}

	for key, srcVal := range src {
		dstVal, exists := dst[key]
		if !exists {
			dst[key] = srcVal
			continue
		}

		srcMap, srcIsMap := srcVal.(map[string]any)
		dstMap, dstIsMap := dstVal.(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = DeepMerge(dstMap, srcMap)
		} else {
			dst[key] = srcVal
		}
	}

	return dst
}

// Keys returns the keys of m in sorted order.
func Keys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParseError represents an error while parsing a defaults source.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
