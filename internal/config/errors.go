package config

import (
	"errors"
	"fmt"

	"github.com/dshills/prefs/internal/config/loader"
	"github.com/dshills/prefs/internal/config/registry"
	"github.com/dshills/prefs/internal/config/store"
)

// Errors returned by configuration operations.
var (
	// ErrInvalidLegacyID indicates no setting of the requested kind carries
	// the numeric id. It is a caller bug, never an environment problem.
	ErrInvalidLegacyID = registry.ErrInvalidLegacyID

	// ErrUnsetValue indicates a session value was the unset sentinel.
	ErrUnsetValue = errors.New("value must not be unset")

	// ErrUnknownSetting indicates the key is not registered.
	ErrUnknownSetting = errors.New("unknown setting")

	// ErrTypeMismatch indicates the setting holds a different kind of value.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrStoreUnavailable indicates the persisted store cannot be reached.
	ErrStoreUnavailable = store.ErrUnavailable

	// ErrPermission indicates the persisted store refused a write.
	ErrPermission = store.ErrPermission

	// ErrClosed indicates the Config was closed.
	ErrClosed = errors.New("config closed")
)

// ParseError represents an error while parsing a defaults source.
type ParseError = loader.ParseError

// StoreError describes a failed store operation.
type StoreError = store.Error

// TypeError is returned when a setting is accessed as the wrong kind.
type TypeError struct {
	// Key is the setting key.
	Key string
	// Expected is the requested kind.
	Expected registry.Kind
	// Actual is the setting's kind.
	Actual registry.Kind
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	return fmt.Sprintf("type error for %s: expected %s, got %s", e.Key, e.Expected, e.Actual)
}

// Is implements error matching for TypeError.
func (e *TypeError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// TextError is returned when text cannot be applied to a setting.
type TextError struct {
	// Key is the setting key.
	Key string
	// Text is the rejected input.
	Text string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *TextError) Error() string {
	return fmt.Sprintf("invalid value %q for %s: %v", e.Text, e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *TextError) Unwrap() error {
	return e.Err
}
