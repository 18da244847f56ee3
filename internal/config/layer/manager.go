package layer

import (
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"
)

// Manager manages defaults layers and provides merged access.
type Manager struct {
	mu     sync.RWMutex
	layers []*Layer          // Sorted by priority (ascending)
	merged map[string]string // Cached merged result
	dirty  bool              // Whether merged cache needs refresh
}

// NewManager creates a new layer manager.
func NewManager() *Manager {
	return &Manager{
		layers: make([]*Layer, 0),
		merged: make(map[string]string),
		dirty:  true,
	}
}

// AddLayer adds a layer to the manager, replacing any layer with the same
// name. Layers are kept sorted by priority; equal priorities keep
// insertion order.
func (m *Manager) AddLayer(layer *Layer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.layers {
		if existing.Name == layer.Name {
			m.layers = append(m.layers[:i], m.layers[i+1:]...)
			break
		}
	}
	m.layers = append(m.layers, layer)
	m.sortLayers()
	m.dirty = true
}

// RemoveLayer removes a layer by name.
// Returns true if the layer was found and removed.
func (m *Manager) RemoveLayer(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, layer := range m.layers {
		if layer.Name == name {
			m.layers = append(m.layers[:i], m.layers[i+1:]...)
			m.dirty = true
			return true
		}
	}
	return false
}

// GetLayer returns a layer by name.
func (m *Manager) GetLayer(name string) *Layer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findLayer(name)
}

// GetLayerByPath returns the first layer loaded from path.
func (m *Manager) GetLayerByPath(path string) *Layer {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, layer := range m.layers {
		if layer.Path != "" && layer.Path == path {
			return layer
		}
	}
	return nil
}

// Layers returns a copy of all layers sorted by priority.
func (m *Manager) Layers() []*Layer {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Layer, len(m.layers))
	copy(result, m.layers)
	return result
}

// LayerCount returns the number of layers.
func (m *Manager) LayerCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.layers)
}

// Merge combines all layers into a single map.
// Results are cached until a layer is added, removed, or updated.
func (m *Manager) Merge() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.dirty && m.merged != nil {
		return maps.Clone(m.merged)
	}

	result := make(map[string]string)

	// Apply layers in priority order (lowest first, highest last)
	for _, layer := range m.layers {
		Overlay(result, layer.Data)
	}

	m.merged = result
	m.dirty = false

	return maps.Clone(result)
}

// Get returns the effective value for a key.
// Returns the value, the layer it came from, and whether it was found.
func (m *Manager) Get(key string) (string, *Layer, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Search layers from highest to lowest priority
	for i := len(m.layers) - 1; i >= 0; i-- {
		layer := m.layers[i]
		if val, ok := layer.Data[key]; ok {
			return val, layer, true
		}
	}

	return "", nil, false
}

// UpdateLayer replaces a layer's data and marks the manager as dirty.
func (m *Manager) UpdateLayer(name string, data map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	layer := m.findLayer(name)
	if layer == nil {
		return fmt.Errorf("layer not found: %s", name)
	}

	layer.Data = maps.Clone(data)
	if layer.Data == nil {
		layer.Data = make(map[string]string)
	}
	layer.ModTime = time.Now()
	m.dirty = true
	return nil
}

// WhichLayer returns the name of the layer that provides a value.
func (m *Manager) WhichLayer(key string) string {
	_, layer, found := m.Get(key)
	if !found {
		return ""
	}
	return layer.Name
}

// Invalidate marks the merged cache as dirty.
// Call this after modifying layer data directly.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirty = true
}

// sortLayers sorts layers by priority (ascending).
func (m *Manager) sortLayers() {
	sort.SliceStable(m.layers, func(i, j int) bool {
		return m.layers[i].Priority < m.layers[j].Priority
	})
}

// findLayer finds a layer by name (must be called with lock held).
func (m *Manager) findLayer(name string) *Layer {
	for _, layer := range m.layers {
		if layer.Name == name {
			return layer
		}
	}
	return nil
}

// Clear removes all layers.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.layers = nil
	m.merged = nil
	m.dirty = true
}
