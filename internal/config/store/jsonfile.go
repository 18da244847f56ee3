package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// JSONFile is a Store backed by a single JSON object on disk.
// Writes are buffered in memory and written atomically on Flush.
type JSONFile struct {
	mu    sync.RWMutex
	path  string
	doc   []byte
	dirty bool
}

// OpenJSONFile opens (or prepares to create) the JSON preference file at path.
// A missing file is treated as an empty store.
func OpenJSONFile(path string) (*JSONFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, opError("json", "open", "", classify(err))
		}
		data = []byte("{}")
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		data = []byte("{}")
	}
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return nil, opError("json", "open", "", fmt.Errorf("%s: not a JSON object", path))
	}
	return &JSONFile{path: path, doc: data}, nil
}

// Path returns the backing file path.
func (j *JSONFile) Path() string {
	return j.path
}

// GetString implements Store.
func (j *JSONFile) GetString(key, fallback string) string {
	j.mu.RLock()
	defer j.mu.RUnlock()
	r := gjson.GetBytes(j.doc, escapePath(key))
	if !r.Exists() || r.Type == gjson.Null {
		return fallback
	}
	return r.String()
}

// GetBool implements Store.
func (j *JSONFile) GetBool(key string, fallback bool) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	r := gjson.GetBytes(j.doc, escapePath(key))
	switch r.Type {
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.String:
		if b, err := strconv.ParseBool(r.Str); err == nil {
			return b
		}
	}
	return fallback
}

// PutString implements Store.
func (j *JSONFile) PutString(key, value string) error {
	return j.set(key, value)
}

// PutBool implements Store.
func (j *JSONFile) PutBool(key string, value bool) error {
	return j.set(key, value)
}

func (j *JSONFile) set(key string, value any) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	doc, err := sjson.SetBytes(j.doc, escapePath(key), value)
	if err != nil {
		return opError("json", "put", key, err)
	}
	j.doc = doc
	j.dirty = true
	return nil
}

// Remove implements Store.
func (j *JSONFile) Remove(key string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	path := escapePath(key)
	if !gjson.GetBytes(j.doc, path).Exists() {
		return nil
	}
	doc, err := sjson.DeleteBytes(j.doc, path)
	if err != nil {
		return opError("json", "remove", key, err)
	}
	j.doc = doc
	j.dirty = true
	return nil
}

// Flush implements Store. The document is written to a temporary file in
// the same directory and renamed over the target.
func (j *JSONFile) Flush() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.dirty {
		return nil
	}

	dir := filepath.Dir(j.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return opError("json", "flush", "", classify(err))
	}
	tmp, err := os.CreateTemp(dir, ".prefs-*.json")
	if err != nil {
		return opError("json", "flush", "", classify(err))
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(j.doc); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return opError("json", "flush", "", classify(err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return opError("json", "flush", "", classify(err))
	}
	if err := os.Rename(tmpName, j.path); err != nil {
		os.Remove(tmpName)
		return opError("json", "flush", "", classify(err))
	}
	j.dirty = false
	return nil
}

// escapePath turns a preference key into a single gjson/sjson path component.
func escapePath(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for _, r := range key {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('\\')
		b.WriteRune(r)
	}
	return b.String()
}

// classify maps OS errors onto the package sentinels.
func classify(err error) error {
	switch {
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %v", ErrPermission, err)
	default:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}
