package layer

import (
	"testing"
)

func TestManager_AddLayer(t *testing.T) {
	m := NewManager()

	m.AddLayer(NewLayer("env", SourceEnv, PriorityEnv))
	m.AddLayer(NewLayer("defaults", SourceFile, PriorityFile))
	m.AddLayer(NewLayer("profile", SourceProfile, PriorityProfile))

	if m.LayerCount() != 3 {
		t.Errorf("LayerCount() = %d, want 3", m.LayerCount())
	}

	// Verify sorted by priority
	layers := m.Layers()
	want := []string{"defaults", "profile", "env"}
	for i, name := range want {
		if layers[i].Name != name {
			t.Errorf("layer %d = %q, want %q", i, layers[i].Name, name)
		}
	}
}

func TestManager_AddLayer_ReplacesSameName(t *testing.T) {
	m := NewManager()
	m.AddLayer(NewLayerWithData("defaults", SourceFile, PriorityFile, map[string]string{"a": "1"}))
	m.AddLayer(NewLayerWithData("defaults", SourceFile, PriorityFile, map[string]string{"a": "2"}))

	if m.LayerCount() != 1 {
		t.Fatalf("LayerCount() = %d, want 1", m.LayerCount())
	}
	if got := m.Merge()["a"]; got != "2" {
		t.Errorf("a = %q, want '2'", got)
	}
}

func TestManager_RemoveLayer(t *testing.T) {
	m := NewManager()
	m.AddLayer(NewLayer("test1", SourceFile, PriorityFile))
	m.AddLayer(NewLayer("test2", SourceEnv, PriorityEnv))

	if !m.RemoveLayer("test1") {
		t.Error("RemoveLayer should return true for existing layer")
	}
	if m.LayerCount() != 1 {
		t.Errorf("LayerCount() = %d, want 1", m.LayerCount())
	}
	if m.RemoveLayer("nonexistent") {
		t.Error("RemoveLayer should return false for non-existing layer")
	}
}

func TestManager_GetLayer(t *testing.T) {
	m := NewManager()
	l := NewLayer("defaults", SourceFile, PriorityFile)
	l.Path = "/etc/prefs/defaults.properties"
	m.AddLayer(l)

	if m.GetLayer("defaults") != l {
		t.Error("GetLayer should return the layer")
	}
	if m.GetLayer("nonexistent") != nil {
		t.Error("GetLayer should return nil for non-existing layer")
	}
	if m.GetLayerByPath("/etc/prefs/defaults.properties") != l {
		t.Error("GetLayerByPath should find the layer")
	}
	if m.GetLayerByPath("") != nil {
		t.Error("GetLayerByPath should ignore layers without a path")
	}
}

func TestManager_Merge(t *testing.T) {
	m := NewManager()

	m.AddLayer(NewLayerWithData("defaults", SourceFile, PriorityFile, map[string]string{
		"EditorTabSize": "8",
		"AutoIndent":    "true",
	}))
	m.AddLayer(NewLayerWithData("profile", SourceProfile, PriorityProfile, map[string]string{
		"EditorTabSize": "4",
	}))

	merged := m.Merge()

	if merged["EditorTabSize"] != "4" {
		t.Errorf("EditorTabSize = %q, want '4'", merged["EditorTabSize"])
	}
	if merged["AutoIndent"] != "true" {
		t.Errorf("AutoIndent = %q, want 'true'", merged["AutoIndent"])
	}
}

func TestManager_Merge_Caching(t *testing.T) {
	m := NewManager()
	m.AddLayer(NewLayerWithData("test", SourceFile, PriorityFile, map[string]string{"k": "v1"}))

	first := m.Merge()
	first["k"] = "mutated"

	if got := m.Merge()["k"]; got != "v1" {
		t.Errorf("Merge() returned shared cache: k = %q", got)
	}

	// Direct modification needs Invalidate
	m.GetLayer("test").Data["k"] = "v2"
	if got := m.Merge()["k"]; got != "v1" {
		t.Errorf("cached value = %q, want 'v1'", got)
	}
	m.Invalidate()
	if got := m.Merge()["k"]; got != "v2" {
		t.Errorf("after Invalidate k = %q, want 'v2'", got)
	}
}

func TestManager_Get(t *testing.T) {
	m := NewManager()
	m.AddLayer(NewLayerWithData("defaults", SourceFile, PriorityFile, map[string]string{"a": "1", "b": "1"}))
	m.AddLayer(NewLayerWithData("env", SourceEnv, PriorityEnv, map[string]string{"a": "2"}))

	val, layer, found := m.Get("a")
	if !found || val != "2" || layer.Name != "env" {
		t.Errorf("Get(a) = %q, %v, %v", val, layer, found)
	}

	if m.WhichLayer("b") != "defaults" {
		t.Errorf("WhichLayer(b) = %q, want 'defaults'", m.WhichLayer("b"))
	}
	if m.WhichLayer("missing") != "" {
		t.Error("WhichLayer should be empty for missing keys")
	}
}

func TestManager_UpdateLayer(t *testing.T) {
	m := NewManager()
	m.AddLayer(NewLayerWithData("defaults", SourceFile, PriorityFile, map[string]string{"a": "1"}))
	_ = m.Merge()

	if err := m.UpdateLayer("defaults", map[string]string{"a": "9"}); err != nil {
		t.Fatalf("UpdateLayer failed: %v", err)
	}
	if got := m.Merge()["a"]; got != "9" {
		t.Errorf("a = %q after update, want '9'", got)
	}

	if err := m.UpdateLayer("missing", nil); err == nil {
		t.Error("expected error for unknown layer")
	}
}

func TestManager_Clear(t *testing.T) {
	m := NewManager()
	m.AddLayer(NewLayerWithData("defaults", SourceFile, PriorityFile, map[string]string{"a": "1"}))

	m.Clear()

	if m.LayerCount() != 0 {
		t.Errorf("LayerCount() = %d after Clear, want 0", m.LayerCount())
	}
	if len(m.Merge()) != 0 {
		t.Error("Merge() should be empty after Clear")
	}
}

func TestManager_PriorityOrder(t *testing.T) {
	m := NewManager()

	m.AddLayer(NewLayerWithData("args", SourceArgs, PriorityArgs, map[string]string{"value": "args"}))
	m.AddLayer(NewLayerWithData("defaults", SourceFile, PriorityFile, map[string]string{"value": "defaults"}))
	m.AddLayer(NewLayerWithData("env", SourceEnv, PriorityEnv, map[string]string{"value": "env"}))

	if got := m.Merge()["value"]; got != "args" {
		t.Errorf("value = %q, want 'args' (highest priority)", got)
	}

	m.RemoveLayer("args")
	if got := m.Merge()["value"]; got != "env" {
		t.Errorf("value = %q, want 'env' (next highest priority)", got)
	}
}

func TestManager_EqualPriorityKeepsInsertionOrder(t *testing.T) {
	m := NewManager()
	m.AddLayer(NewLayerWithData("first", SourceFile, PriorityFile, map[string]string{"k": "first"}))
	m.AddLayer(NewLayerWithData("second", SourceFile, PriorityFile, map[string]string{"k": "second"}))

	if got := m.Merge()["k"]; got != "second" {
		t.Errorf("k = %q, want the later layer to win", got)
	}
}
