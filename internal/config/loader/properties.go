package loader

import (
	"fmt"
	"io"

	"github.com/magiconair/properties"
)

// PropertiesLoader loads defaults from Java-style .properties files.
// ${...} references are kept verbatim.
type PropertiesLoader struct {
	fs   FileSystem
	path string
}

// NewPropertiesLoader creates a properties loader for the given path.
func NewPropertiesLoader(path string) *PropertiesLoader {
	return NewPropertiesLoaderWithFS(DefaultFS(), path)
}

// NewPropertiesLoaderWithFS creates a properties loader with a custom file
// system.
func NewPropertiesLoaderWithFS(fs FileSystem, path string) *PropertiesLoader {
	return &PropertiesLoader{fs: fs, path: path}
}

// Path returns the configured path.
func (l *PropertiesLoader) Path() string {
	return l.path
}

// Load reads defaults from the configured path.
func (l *PropertiesLoader) Load() (map[string]string, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom reads defaults from a specific path.
func (l *PropertiesLoader) LoadFrom(path string) (map[string]string, error) {
	data, err := readFile(l.fs, path)
	if err != nil || data == nil {
		return nil, err
	}
	return l.parse(path, data)
}

// LoadFromReader reads defaults from an io.Reader.
func (l *PropertiesLoader) LoadFromReader(r io.Reader) (map[string]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading defaults: %w", err)
	}
	return l.parse("<reader>", data)
}

func (l *PropertiesLoader) parse(source string, data []byte) (map[string]string, error) {
	pl := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := pl.LoadBytes(data)
	if err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	return p.Map(), nil
}
