package store

import (
	"strconv"
	"sync"
)

// Memory is an in-process Store. It keeps booleans as their string form,
// so a value written with PutBool reads back through GetString as well.
type Memory struct {
	mu       sync.RWMutex
	data     map[string]string
	writeErr error
	puts     int
	removes  int
	flushes  int
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// NewMemoryWithData creates an in-memory store seeded with data.
func NewMemoryWithData(data map[string]string) *Memory {
	m := NewMemory()
	for k, v := range data {
		m.data[k] = v
	}
	return m
}

// GetString implements Store.
func (m *Memory) GetString(key, fallback string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.data[key]; ok {
		return v
	}
	return fallback
}

// GetBool implements Store.
func (m *Memory) GetBool(key string, fallback bool) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// PutString implements Store.
func (m *Memory) PutString(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return opError("memory", "put", key, m.writeErr)
	}
	m.data[key] = value
	m.puts++
	return nil
}

// PutBool implements Store.
func (m *Memory) PutBool(key string, value bool) error {
	return m.PutString(key, strconv.FormatBool(value))
}

// Remove implements Store.
func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return opError("memory", "remove", key, m.writeErr)
	}
	delete(m.data, key)
	m.removes++
	return nil
}

// Flush implements Store.
func (m *Memory) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return opError("memory", "flush", "", m.writeErr)
	}
	m.flushes++
	return nil
}

// FailWrites makes every subsequent write, remove and flush return err.
// Passing nil restores normal operation. Reads are unaffected.
func (m *Memory) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

// Has reports whether key has a stored entry.
func (m *Memory) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[key]
	return ok
}

// Len returns the number of stored entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Snapshot returns a copy of all stored entries.
func (m *Memory) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.data))
	for k, v := range m.data {
		out[k] = v
	}
	return out
}

// Stats returns the number of successful puts, removes and flushes.
func (m *Memory) Stats() (puts, removes, flushes int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.puts, m.removes, m.flushes
}
