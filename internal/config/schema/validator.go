package schema

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/dshills/prefs/internal/config/value"
)

// Validator validates preference text against a schema.
type Validator struct {
	schema *Schema

	// Options
	strictMode bool // Fail on unknown keys
	maxErrors  int  // Maximum errors to collect (0 = unlimited)

	// Pattern cache
	patternCache sync.Map // map[string]*regexp.Regexp
}

// NewValidator creates a validator for the given schema.
func NewValidator(schema *Schema) *Validator {
	return &Validator{
		schema:    schema,
		maxErrors: 100,
	}
}

// WithStrictMode enables strict mode (unknown keys are errors).
func (v *Validator) WithStrictMode(strict bool) *Validator {
	v.strictMode = strict
	return v
}

// WithMaxErrors sets the maximum number of errors to collect.
func (v *Validator) WithMaxErrors(max int) *Validator {
	v.maxErrors = max
	return v
}

// Validate checks every entry of data. Keys are visited in sorted order so
// errors are reported deterministically.
func (v *Validator) Validate(data map[string]string) error {
	if v.schema == nil {
		return nil
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	errs := &ValidationErrors{}
	for _, k := range keys {
		if v.maxErrors > 0 && errs.Len() >= v.maxErrors {
			break
		}
		v.validateKey(k, data[k], errs)
	}
	return errs.AsError()
}

// ValidateKey checks the text of a single key.
func (v *Validator) ValidateKey(key, text string) error {
	if v.schema == nil {
		return nil
	}
	errs := &ValidationErrors{}
	v.validateKey(key, text, errs)
	return errs.AsError()
}

func (v *Validator) validateKey(key, text string, errs *ValidationErrors) {
	prop := v.schema.Property(key)
	if prop == nil {
		if v.strictMode || !v.schema.AllowsAdditionalProperties() {
			errs.AddError(NewUnknownKeyError(key))
		}
		return
	}

	if len(prop.Enum) > 0 {
		v.validateEnum(key, text, prop.Enum, errs)
	}
	if prop.Pattern != "" && !v.matchPattern(text, prop.Pattern) {
		errs.AddError(NewPatternError(key, text, prop.Pattern))
	}
	if prop.Format != "" {
		v.validateFormat(key, text, prop, errs)
	}
}

// validateEnum checks if text is one of the allowed values.
func (v *Validator) validateEnum(key, text string, allowed []string, errs *ValidationErrors) {
	for _, a := range allowed {
		if text == a {
			return
		}
	}
	errs.AddError(NewEnumError(key, text, allowed))
}

// validateFormat checks that text parses the way the format says.
func (v *Validator) validateFormat(key, text string, prop *Schema, errs *ValidationErrors) {
	switch prop.Format {
	case FormatBoolean:
		if _, err := strconv.ParseBool(strings.TrimSpace(text)); err != nil {
			errs.AddError(NewFormatError(key, text, prop.Format))
		}
	case FormatInteger:
		n, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			errs.AddError(NewFormatError(key, text, prop.Format))
			return
		}
		if (prop.Minimum != nil && n < *prop.Minimum) || (prop.Maximum != nil && n > *prop.Maximum) {
			errs.AddError(NewRangeError(key, n, prop.Minimum, prop.Maximum))
		}
	case FormatColor:
		// Empty text means no color.
		if strings.TrimSpace(text) == "" {
			return
		}
		if _, err := value.ParseColor(text); err != nil {
			errs.AddError(NewFormatError(key, text, prop.Format))
		}
	case FormatFontStyle:
		if !isFontStyle(text) {
			errs.AddError(NewFormatError(key, text, prop.Format))
		}
	}
}

// isFontStyle reports whether text names a style rather than falling back
// to plain.
func isFontStyle(text string) bool {
	if value.ParseFontStyle(text) != value.StylePlain {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(text), value.StylePlain.String())
}

// matchPattern checks if text matches a regex pattern.
func (v *Validator) matchPattern(text, pattern string) bool {
	if cached, ok := v.patternCache.Load(pattern); ok {
		return cached.(*regexp.Regexp).MatchString(text)
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}

	v.patternCache.Store(pattern, re)
	return re.MatchString(text)
}

func formatBound(p *int) string {
	if p == nil {
		return "∞"
	}
	return fmt.Sprint(*p)
}
