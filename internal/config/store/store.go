// Package store provides persisted-store backends for preferences.
//
// A Store is an opaque key/value backend holding user overrides. Every
// value is kept as a string except booleans, which use a native boolean
// entry when the backend has one. Reads never fail: a missing or
// unreadable entry yields the caller's fallback. Writes may fail for
// permission or availability reasons and report it through their error.
package store

import (
	"errors"
	"fmt"
)

// Store is the persisted key/value backend used by settings.
type Store interface {
	// GetString returns the string stored at key, or fallback if absent.
	GetString(key, fallback string) string

	// GetBool returns the boolean stored at key, or fallback if absent.
	GetBool(key string, fallback bool) bool

	// PutString stores a string value at key.
	PutString(key, value string) error

	// PutBool stores a boolean value at key.
	PutBool(key string, value bool) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error

	// Flush makes pending writes durable.
	Flush() error
}

// Closer is implemented by backends that hold connections or files.
type Closer interface {
	Close() error
}

// Errors returned by store backends.
var (
	// ErrUnavailable indicates the backend cannot be reached.
	ErrUnavailable = errors.New("store unavailable")

	// ErrPermission indicates the backend refused the write.
	ErrPermission = errors.New("store permission denied")

	// ErrClosed indicates the backend was already closed.
	ErrClosed = errors.New("store closed")
)

// Error describes a failed store operation.
type Error struct {
	// Backend names the store implementation (e.g. "sqlite").
	Backend string
	// Op is the failed operation ("put", "remove", "flush").
	Op string
	// Key is the affected key, empty for flush.
	Key string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s %s: %v", e.Backend, e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s %q: %v", e.Backend, e.Op, e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

func opError(backend, op, key string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Backend: backend, Op: op, Key: key, Err: err}
}
