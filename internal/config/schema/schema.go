// Package schema describes the text form of persisted preferences as a
// JSON Schema and validates defaults data against it.
//
// Every property is a string: defaults sources and stores hold text. The
// format keyword names how the text is parsed (boolean, integer, color).
// Composite settings contribute one property per persisted part key.
package schema

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dshills/prefs/internal/config/registry"
	"github.com/dshills/prefs/internal/config/setting"
	"github.com/dshills/prefs/internal/config/value"
)

// DraftURI is the JSON Schema dialect emitted by FromRegistry.
const DraftURI = "https://json-schema.org/draft/2020-12/schema"

// Schema is the subset of JSON Schema used to describe preferences.
type Schema struct {
	// ID is the schema identifier ($id).
	ID string `json:"$id,omitempty"`

	// SchemaVersion is the JSON Schema dialect ($schema).
	SchemaVersion string `json:"$schema,omitempty"`

	// Title is a descriptive title.
	Title string `json:"title,omitempty"`

	// Description provides documentation.
	Description string `json:"description,omitempty"`

	// Type is the JSON type.
	Type string `json:"type,omitempty"`

	// Properties defines object properties (for type: object).
	Properties map[string]*Schema `json:"properties,omitempty"`

	// AdditionalProperties controls whether extra properties are allowed.
	AdditionalProperties *bool `json:"additionalProperties,omitempty"`

	// Enum lists allowed values.
	Enum []string `json:"enum,omitempty"`

	// Default is the hardcoded default in text form.
	Default *string `json:"default,omitempty"`

	// Minimum and Maximum bound integer text.
	Minimum *int `json:"minimum,omitempty"`
	Maximum *int `json:"maximum,omitempty"`

	// Pattern is a regex the text must match.
	Pattern string `json:"pattern,omitempty"`

	// Format names how the text is parsed.
	Format string `json:"format,omitempty"`

	// Setting is the registry key the property belongs to.
	Setting string `json:"x-setting,omitempty"`

	// Kind is the setting's kind.
	Kind string `json:"x-kind,omitempty"`

	// LegacyID is the setting's numeric id, if any.
	LegacyID *int `json:"x-legacy-id,omitempty"`

	// Tags for categorization.
	Tags []string `json:"x-tags,omitempty"`
}

// FromRegistry builds the schema of every persisted key in reg.
func FromRegistry(reg *registry.Registry) *Schema {
	root := Object().
		SchemaVersion(DraftURI).
		ID("prefs.schema.json").
		Title("Preferences").
		AdditionalProperties(false)

	for _, d := range reg.All() {
		for key, prop := range properties(d) {
			root.Property(key, prop)
		}
	}
	return root.Build()
}

// properties returns the schema of each key persisted for d.
func properties(d *registry.Definition) map[string]*Schema {
	base := func(b *Builder) *Schema {
		b.Description(d.Description).Setting(d.Key, d.Kind).Tags(d.Tags...)
		if d.HasLegacyID() {
			b.LegacyID(d.LegacyID)
		}
		return b.Build()
	}

	switch d.Kind {
	case registry.KindBoolean:
		return map[string]*Schema{d.Key: base(String().Format(FormatBoolean).Default(d.Default))}

	case registry.KindString:
		b := String().Default(d.Default).Pattern(d.Pattern)
		if d.Minimum != nil || d.Maximum != nil {
			b.Format(FormatInteger).Range(d.Minimum, d.Maximum)
		}
		return map[string]*Schema{d.Key: base(b)}

	case registry.KindColor:
		return map[string]*Schema{d.Key: base(String().Format(FormatColor).Default(d.Default))}

	case registry.KindFont:
		f, _ := value.ParseFont(d.Default)
		return map[string]*Schema{
			d.Key + setting.FontFamilySuffix: base(String().Default(f.Family)),
			d.Key + setting.FontStyleSuffix:  base(String().Format(FormatFontStyle).Default(f.Style.String())),
			d.Key + setting.FontSizeSuffix:   base(String().Format(FormatInteger).Default(f.SizeString())),
		}

	case registry.KindSyntaxStyle:
		s, _ := value.ParseSyntaxStyle(d.Default)
		id := strconv.Itoa(d.LegacyID)
		return map[string]*Schema{
			setting.SyntaxStyleColorPrefix + id:  base(String().Format(FormatColor).Default(s.Color.String())),
			setting.SyntaxStyleBoldPrefix + id:   base(String().Format(FormatBoolean).Default(strconv.FormatBool(s.Bold))),
			setting.SyntaxStyleItalicPrefix + id: base(String().Format(FormatBoolean).Default(strconv.FormatBool(s.Italic))),
		}
	}
	return nil
}

// Parse parses a JSON Schema from bytes.
func Parse(data []byte) (*Schema, error) {
	s := &Schema{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	return s, nil
}

// Marshal encodes the schema as indented JSON.
func (s *Schema) Marshal() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Property returns the schema of a persisted key, or nil.
func (s *Schema) Property(key string) *Schema {
	if s == nil || s.Properties == nil {
		return nil
	}
	return s.Properties[key]
}

// HasProperty checks if a persisted key is described.
func (s *Schema) HasProperty(key string) bool {
	return s.Property(key) != nil
}

// AllowsAdditionalProperties returns whether undescribed keys are allowed.
func (s *Schema) AllowsAdditionalProperties() bool {
	if s.AdditionalProperties == nil {
		return true // Default is true
	}
	return *s.AdditionalProperties
}
