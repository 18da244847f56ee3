package schema

import "fmt"

// Type names used by preference schemas.
const (
	TypeNameString = "string"
	TypeNameObject = "object"
)

// Formats of preference text.
const (
	FormatBoolean   = "boolean"
	FormatInteger   = "integer"
	FormatColor     = "color"
	FormatFontStyle = "font-style"
)

// Builder provides a fluent API for constructing schemas.
type Builder struct {
	schema *Schema
}

// NewBuilder creates a new schema builder.
func NewBuilder() *Builder {
	return &Builder{
		schema: &Schema{},
	}
}

// Build returns the constructed schema.
func (b *Builder) Build() *Schema {
	return b.schema
}

// ID sets the schema ID.
func (b *Builder) ID(id string) *Builder {
	b.schema.ID = id
	return b
}

// SchemaVersion sets the JSON Schema dialect.
func (b *Builder) SchemaVersion(uri string) *Builder {
	b.schema.SchemaVersion = uri
	return b
}

// Title sets the schema title.
func (b *Builder) Title(title string) *Builder {
	b.schema.Title = title
	return b
}

// Description sets the schema description.
func (b *Builder) Description(desc string) *Builder {
	b.schema.Description = desc
	return b
}

// Type sets the schema type.
func (b *Builder) Type(typ string) *Builder {
	b.schema.Type = typ
	return b
}

// Default sets the default text.
func (b *Builder) Default(text string) *Builder {
	b.schema.Default = &text
	return b
}

// Enum sets the allowed values.
func (b *Builder) Enum(values ...string) *Builder {
	b.schema.Enum = values
	return b
}

// Range sets the integer bounds. Nil leaves a side open.
func (b *Builder) Range(min, max *int) *Builder {
	b.schema.Minimum = min
	b.schema.Maximum = max
	return b
}

// Pattern sets the regex pattern.
func (b *Builder) Pattern(pattern string) *Builder {
	b.schema.Pattern = pattern
	return b
}

// Format sets the text format.
func (b *Builder) Format(format string) *Builder {
	b.schema.Format = format
	return b
}

// Setting records the registry key and kind the property belongs to.
func (b *Builder) Setting(key string, kind fmt.Stringer) *Builder {
	b.schema.Setting = key
	b.schema.Kind = kind.String()
	return b
}

// LegacyID records the setting's numeric id.
func (b *Builder) LegacyID(id int) *Builder {
	b.schema.LegacyID = &id
	return b
}

// Tags sets the categorization tags.
func (b *Builder) Tags(tags ...string) *Builder {
	if len(tags) > 0 {
		b.schema.Tags = tags
	}
	return b
}

// Property adds an object property.
func (b *Builder) Property(name string, schema *Schema) *Builder {
	if b.schema.Properties == nil {
		b.schema.Properties = make(map[string]*Schema)
	}
	b.schema.Properties[name] = schema
	return b
}

// AdditionalProperties sets whether undescribed keys are allowed.
func (b *Builder) AdditionalProperties(allowed bool) *Builder {
	b.schema.AdditionalProperties = &allowed
	return b
}

// String creates a string schema builder.
func String() *Builder {
	return NewBuilder().Type(TypeNameString)
}

// Object creates an object schema builder.
func Object() *Builder {
	return NewBuilder().Type(TypeNameObject)
}
