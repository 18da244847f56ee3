package loader

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// TOMLLoader loads defaults from TOML files.
type TOMLLoader struct {
	fs   FileSystem
	path string
}

// NewTOMLLoader creates a new TOML loader for the given path.
func NewTOMLLoader(path string) *TOMLLoader {
	return NewTOMLLoaderWithFS(DefaultFS(), path)
}

// NewTOMLLoaderWithFS creates a TOML loader with a custom file system.
func NewTOMLLoaderWithFS(fs FileSystem, path string) *TOMLLoader {
	return &TOMLLoader{
		fs:   fs,
		path: path,
	}
}

// Path returns the configured path.
func (l *TOMLLoader) Path() string {
	return l.path
}

// Load reads defaults from the configured path, following @include.
func (l *TOMLLoader) Load() (map[string]string, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom reads defaults from a specific path, following @include.
func (l *TOMLLoader) LoadFrom(path string) (map[string]string, error) {
	nested, err := l.LoadWithIncludes(path, maxIncludeDepth)
	if err != nil || nested == nil {
		return nil, err
	}
	return Flatten(nested), nil
}

// LoadFromReader reads defaults from an io.Reader. Includes are not
// followed.
func (l *TOMLLoader) LoadFromReader(r io.Reader) (map[string]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading defaults: %w", err)
	}

	nested, err := l.parse("<reader>", data)
	if err != nil {
		return nil, err
	}
	delete(nested, includeKey)
	return Flatten(nested), nil
}

// parse parses TOML data into a nested map.
func (l *TOMLLoader) parse(source string, data []byte) (map[string]any, error) {
	var config map[string]any
	if err := toml.Unmarshal(data, &config); err != nil {
		perr := &ParseError{
			Path:    source,
			Message: err.Error(),
			Err:     err,
		}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return nil, perr
	}
	if config == nil {
		config = make(map[string]any)
	}

	return config, nil
}

const (
	includeKey      = "@include"
	maxIncludeDepth = 8
)

// LoadWithIncludes loads a TOML file and processes @include directives.
// The maxDepth parameter limits nested includes to prevent infinite loops.
func (l *TOMLLoader) LoadWithIncludes(path string, maxDepth int) (map[string]any, error) {
	if maxDepth <= 0 {
		return nil, fmt.Errorf("include depth exceeded for %s", path)
	}

	data, err := readFile(l.fs, path)
	if err != nil || data == nil {
		return nil, err
	}
	config, err := l.parse(path, data)
	if err != nil {
		return nil, err
	}

	includes, hasIncludes := config[includeKey]
	if !hasIncludes {
		return config, nil
	}
	delete(config, includeKey)

	baseDir := filepath.Dir(path)
	var includeList []string

	switch v := includes.(type) {
	case string:
		includeList = []string{v}
	case []any:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("@include must be string or array of strings")
			}
			includeList = append(includeList, s)
		}
	default:
		return nil, fmt.Errorf("@include must be string or array of strings, got %T", includes)
	}

	// Includes are lower priority than the including file
	for _, inc := range includeList {
		incPath := inc
		if !filepath.IsAbs(inc) {
			incPath = filepath.Join(baseDir, inc)
		}

		incConfig, err := l.LoadWithIncludes(incPath, maxDepth-1)
		if err != nil {
			return nil, fmt.Errorf("loading include %s: %w", incPath, err)
		}

		config = DeepMerge(incConfig, config)
	}

	return config, nil
}
