package loader

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestPropertiesLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/Settings.properties", `
# MARS default settings
ExtendedAssembler = true
EditorTabSize=4
TextColumnOrder = 0 1 2 3 4
EditorFontFamily: Courier New
ExceptionHandler = ${HOME}/handler.asm
EvenRowBackground = 0x00e0e0e0
`)

	loader := NewPropertiesLoaderWithFS(memfs, "/Settings.properties")
	got, err := loader.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := map[string]string{
		"ExtendedAssembler": "true",
		"EditorTabSize":     "4",
		"TextColumnOrder":   "0 1 2 3 4",
		"EditorFontFamily":  "Courier New",
		"ExceptionHandler":  "${HOME}/handler.asm",
		"EvenRowBackground": "0x00e0e0e0",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
}

func TestPropertiesLoader_Missing(t *testing.T) {
	got, err := NewPropertiesLoaderWithFS(NewMemFS(), "/none.properties").Load()
	if err != nil || got != nil {
		t.Errorf("missing file: got %v, %v", got, err)
	}
}

func TestPropertiesLoader_Reader(t *testing.T) {
	got, err := NewPropertiesLoader("").LoadFromReader(strings.NewReader("LafTheme=dark\n"))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}
	if got["LafTheme"] != "dark" {
		t.Errorf("LafTheme = %q", got["LafTheme"])
	}
}

func TestYAMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/defaults.yaml", `
AutoIndent: false
EditorTabSize: 4
TextColumnOrder: [4, 3, 2, 1, 0]
OddRowFont:
  Family: Courier
  Style: Bold + Italic
LafTheme: null
`)

	got, err := NewYAMLLoaderWithFS(memfs, "/defaults.yaml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := map[string]string{
		"AutoIndent":       "false",
		"EditorTabSize":    "4",
		"TextColumnOrder":  "4 3 2 1 0",
		"OddRowFontFamily": "Courier",
		"OddRowFontStyle":  "Bold + Italic",
		"LafTheme":         "",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
}

func TestYAMLLoader_Invalid(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.yaml", "AutoIndent: [unclosed\n")

	_, err := NewYAMLLoaderWithFS(memfs, "/bad.yaml").Load()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestLuaLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/profile.lua", `
local base = 2
return {
  EditorTabSize = base * 2,
  AutoIndent = false,
  LafTheme = string.lower("FlatDark"),
  EditorFont = { Family = "Courier", Size = 14 },
  TextColumnOrder = { 4, 3, 2, 1, 0 },
  CaretBlinkRate = 250.5,
}
`)

	got, err := NewLuaLoaderWithFS(memfs, "/profile.lua").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := map[string]string{
		"EditorTabSize":    "4",
		"AutoIndent":       "false",
		"LafTheme":         "flatdark",
		"EditorFontFamily": "Courier",
		"EditorFontSize":   "14",
		"TextColumnOrder":  "4 3 2 1 0",
		"CaretBlinkRate":   "250.5",
	}
	if len(got) != len(want) {
		t.Errorf("got %v", got)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
}

func TestLuaLoader_Errors(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"syntax", `return {`},
		{"runtime", `error("no defaults")`},
		{"not a table", `return 42`},
		{"function value", `return { AutoIndent = function() end }`},
		{"numeric key", `return { [1] = "x", AutoIndent = true }`},
		{"sandboxed io", `return { X = io.read() }`},
		{"sandboxed dofile", `dofile("/etc/passwd")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLuaLoader("").LoadFromReader(strings.NewReader(tt.code))
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Errorf("expected ParseError, got %v", err)
			}
		})
	}
}

func TestLuaLoader_Timeout(t *testing.T) {
	l := NewLuaLoader("")
	l.SetTimeout(50 * time.Millisecond)

	start := time.Now()
	_, err := l.LoadFromReader(strings.NewReader(`while true do end`))
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > 5*time.Second {
		t.Error("script was not interrupted")
	}
}
