package registry

import (
	"testing"

	"github.com/dshills/prefs/internal/config/setting"
	"github.com/dshills/prefs/internal/config/value"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		k    Kind
		want string
	}{
		{KindBoolean, "boolean"},
		{KindString, "string"},
		{KindFont, "font"},
		{KindColor, "color"},
		{KindSyntaxStyle, "syntax-style"},
		{Kind(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.k.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseKind("Color"); err != nil {
		t.Errorf("ParseKind should ignore case: %v", err)
	}
	if _, err := ParseKind("integer"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestDefinition_Validate_Range(t *testing.T) {
	d := EditorTabSize.Definition

	tests := []struct {
		text    string
		wantErr bool
	}{
		{"4", false},
		{" 8 ", false},
		{"1", false},
		{"32", false},
		{"0", true},
		{"33", true},
		{"four", true},
	}

	for _, tt := range tests {
		err := d.Validate(tt.text)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%q) error = %v, wantErr %v", tt.text, err, tt.wantErr)
		}
	}
}

func TestDefinition_Validate_Pattern(t *testing.T) {
	d := TextColumnOrder.Definition

	if err := d.Validate("4 3 2 1 0"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := d.Validate("a b"); err == nil {
		t.Error("expected pattern mismatch")
	}
}

func TestDefinition_Validate_OtherKinds(t *testing.T) {
	if err := AutoIndent.Validate("anything"); err != nil {
		t.Errorf("booleans are not validated: %v", err)
	}
	if err := ExceptionHandler.Validate("/tmp/handler.asm"); err != nil {
		t.Errorf("unconstrained string: %v", err)
	}
}

func TestDefinition_HasLegacyID(t *testing.T) {
	if !ExtendedAssembler.HasLegacyID() {
		t.Error("ExtendedAssembler has legacy id 0")
	}
	if LafTheme.HasLegacyID() {
		t.Error("LafTheme has no legacy id")
	}
}

func TestDefinition_NewCell(t *testing.T) {
	cell := EditorFont.NewCell()
	font, ok := cell.(setting.Typed[value.Font])
	if !ok {
		t.Fatalf("EditorFont cell is %T", cell)
	}
	if got := font.Value(); got != (value.Font{Family: "Monospaced", Style: value.StylePlain, Size: 12}) {
		t.Errorf("unexpected font %v", got)
	}

	// Every call yields an independent cell.
	font.SetValue(value.Font{Family: "Courier", Size: 20})
	other := EditorFont.NewCell().(setting.Typed[value.Font])
	if other.Value().Family != "Monospaced" {
		t.Error("cells must not share state")
	}
}

func TestDefinition_NewCell_Kinds(t *testing.T) {
	if _, ok := AutoIndent.NewCell().(setting.Typed[bool]); !ok {
		t.Error("boolean cell")
	}
	if _, ok := LafTheme.NewCell().(setting.Typed[string]); !ok {
		t.Error("string cell")
	}
	if _, ok := LafAccentColor.NewCell().(setting.Typed[value.Color]); !ok {
		t.Error("color cell")
	}
	if _, ok := SyntaxStyleLabel.NewCell().(setting.Typed[value.SyntaxStyle]); !ok {
		t.Error("syntax style cell")
	}
}

func TestCaseInsensitiveString(t *testing.T) {
	cell := LafTheme.NewCell().(setting.Typed[string])
	cell.LoadDefaults(map[string]string{"LafTheme": "FlatDark"})
	cell.SetValue("flatdark")
	if !cell.IsDefault() {
		t.Error("LafTheme comparison should ignore case")
	}
}
