package schema

import (
	"fmt"
	"strings"
)

// ValidationError represents a single validation failure.
type ValidationError struct {
	// Key is the persisted key of the invalid entry.
	Key string

	// Message describes what's wrong.
	Message string

	// Value is the invalid text.
	Value string

	// Expected describes what was expected.
	Expected string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Key == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Key, e.Message)
}

// ValidationErrors collects multiple validation errors.
type ValidationErrors struct {
	Errors []*ValidationError
}

// Error implements the error interface.
func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var msgs []string
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(e.Errors), strings.Join(msgs, "\n  - "))
}

// Add adds a validation error.
func (e *ValidationErrors) Add(key, message string) {
	e.Errors = append(e.Errors, &ValidationError{
		Key:     key,
		Message: message,
	})
}

// AddError adds an existing ValidationError.
func (e *ValidationErrors) AddError(err *ValidationError) {
	e.Errors = append(e.Errors, err)
}

// HasErrors returns true if there are any errors.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// Len returns the number of errors.
func (e *ValidationErrors) Len() int {
	return len(e.Errors)
}

// AsError returns nil if no errors, otherwise returns self.
func (e *ValidationErrors) AsError() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

// ErrorsForKey returns all errors for a specific key.
func (e *ValidationErrors) ErrorsForKey(key string) []*ValidationError {
	var result []*ValidationError
	for _, err := range e.Errors {
		if err.Key == key {
			result = append(result, err)
		}
	}
	return result
}

// NewFormatError creates an error for text that does not parse.
func NewFormatError(key, text, format string) *ValidationError {
	return &ValidationError{
		Key:      key,
		Message:  fmt.Sprintf("%q is not a valid %s", text, format),
		Value:    text,
		Expected: format,
	}
}

// NewEnumError creates an error for a value outside the allowed set.
func NewEnumError(key, text string, allowed []string) *ValidationError {
	return &ValidationError{
		Key:      key,
		Message:  fmt.Sprintf("%q is not one of %s", text, strings.Join(allowed, ", ")),
		Value:    text,
		Expected: strings.Join(allowed, "|"),
	}
}

// NewRangeError creates an error for an integer out of bounds.
func NewRangeError(key string, n int, min, max *int) *ValidationError {
	bounds := fmt.Sprintf("[%s, %s]", formatBound(min), formatBound(max))
	return &ValidationError{
		Key:      key,
		Message:  fmt.Sprintf("%d is outside %s", n, bounds),
		Value:    fmt.Sprint(n),
		Expected: bounds,
	}
}

// NewPatternError creates an error for text not matching a pattern.
func NewPatternError(key, text, pattern string) *ValidationError {
	return &ValidationError{
		Key:      key,
		Message:  fmt.Sprintf("%q does not match pattern %s", text, pattern),
		Value:    text,
		Expected: pattern,
	}
}

// NewUnknownKeyError creates an error for a key no setting persists.
func NewUnknownKeyError(key string) *ValidationError {
	return &ValidationError{
		Key:     key,
		Message: "unknown preference key",
	}
}
