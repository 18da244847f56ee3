package loader

import (
	"os"
	"strings"
)

// DefaultEnvPrefix is the prefix scanned by NewEnvLoader callers that do
// not pick their own.
const DefaultEnvPrefix = "PREFS_"

// EnvLoader loads defaults from environment variables.
//
// Every variable named prefix+Key contributes Key, so with the prefix
// "PREFS_" the variable PREFS_EditorTabSize sets EditorTabSize. Explicit
// mappings take precedence over the prefix scan.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "PREFS_")
	mapping map[string]string // Env var -> setting key
	environ func() []string
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "PREFS_").
func NewEnvLoader(prefix string) *EnvLoader {
	return NewEnvLoaderWithMapping(prefix, nil)
}

// NewEnvLoaderWithMapping creates a loader with explicit environment
// variable mappings.
func NewEnvLoaderWithMapping(prefix string, mapping map[string]string) *EnvLoader {
	if mapping == nil {
		mapping = make(map[string]string)
	}
	return &EnvLoader{
		prefix:  prefix,
		mapping: mapping,
		environ: os.Environ,
	}
}

// Load reads environment variables and returns defaults.
// Empty values are kept: they set the default to the empty string.
func (l *EnvLoader) Load() (map[string]string, error) {
	out := make(map[string]string)
	vars := make(map[string]string)

	for _, env := range l.environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		vars[name] = value
	}

	// Prefixed variables not in the mapping
	if l.prefix != "" {
		for name, value := range vars {
			if _, mapped := l.mapping[name]; mapped {
				continue
			}
			key, ok := strings.CutPrefix(name, l.prefix)
			if !ok || key == "" {
				continue
			}
			out[key] = value
		}
	}

	// Explicitly mapped variables
	for env, key := range l.mapping {
		if val, ok := vars[env]; ok {
			out[key] = val
		}
	}

	return out, nil
}

// AddMapping adds an environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, key string) {
	l.mapping[envVar] = key
}

// RemoveMapping removes an environment variable mapping.
func (l *EnvLoader) RemoveMapping(envVar string) {
	delete(l.mapping, envVar)
}

// GetEnvOrDefault returns the environment variable value or a default.
func GetEnvOrDefault(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

// ExpandEnvInString expands environment variables in a string.
// Supports both $VAR and ${VAR} syntax.
func ExpandEnvInString(s string) string {
	return os.ExpandEnv(s)
}
