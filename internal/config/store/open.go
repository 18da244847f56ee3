package store

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownBackend is returned by Open for an unrecognized kind.
var ErrUnknownBackend = errors.New("unknown store backend")

// Kinds accepted by Open.
const (
	KindMemory = "mem"
	KindJSON   = "json"
	KindSQLite = "sqlite"
	KindRedis  = "redis"
	KindNATS   = "nats"
)

// Open creates a store from a "kind:target" spec:
//
//	mem                     in-memory, nothing persists
//	json:PATH               JSON document at PATH
//	sqlite:PATH             SQLite database at PATH (or :memory:)
//	redis:ADDR              Redis hash on the server at ADDR
//	nats:URL                JetStream KV bucket on the server at URL
//
// Network kinds also accept URL form: redis://host:6379 names the address
// host:6379 and nats://host:4222 is passed to the client unchanged.
//
// The caller closes the store if it implements Closer.
func Open(spec string) (Store, error) {
	kind, target := splitSpec(spec)
	if kind != KindMemory && target == "" {
		return nil, fmt.Errorf("store %q: missing target", spec)
	}

	var (
		s   Store
		err error
	)
	switch kind {
	case KindMemory:
		return NewMemory(), nil
	case KindJSON:
		s, err = OpenJSONFile(target)
	case KindSQLite:
		s, err = OpenSQLite(target)
	case KindRedis:
		s, err = NewRedis(RedisConfig{Addr: target})
	case KindNATS:
		s, err = NewNATSKV(NATSConfig{URL: target})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, kind)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// splitSpec splits an Open spec into its kind and backend target.
func splitSpec(spec string) (kind, target string) {
	kind, target, _ = strings.Cut(spec, ":")
	rest, isURL := strings.CutPrefix(target, "//")
	if !isURL {
		return kind, target
	}
	switch kind {
	case KindNATS:
		return kind, spec
	case KindRedis:
		return kind, rest
	}
	return kind, target
}
