package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// NATSConfig holds NATS JetStream key/value configuration.
type NATSConfig struct {
	URL string `yaml:"url"`
	// Bucket is the KV bucket name (default "prefs").
	Bucket string `yaml:"bucket"`
	// Timeout bounds every round trip (default 2s).
	Timeout time.Duration `yaml:"timeout"`
}

// NATSKV is a Store backed by a JetStream key/value bucket.
type NATSKV struct {
	conn    *nats.Conn
	bucket  jetstream.KeyValue
	timeout time.Duration
}

// NewNATSKV connects to NATS and opens (or creates) the KV bucket.
func NewNATSKV(cfg NATSConfig) (*NATSKV, error) {
	url := cfg.URL
	if url == "" {
		url = nats.DefaultURL
	}
	bucketName := cfg.Bucket
	if bucketName == "" {
		bucketName = "prefs"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	conn, err := nats.Connect(url, nats.Timeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open JetStream: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	bucket, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucketName,
		Description: "user preference overrides",
		History:     1,
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open KV bucket %s: %w", bucketName, err)
	}

	slog.Info("NATS preference store initialized", "url", url, "bucket", bucketName)
	return &NATSKV{conn: conn, bucket: bucket, timeout: timeout}, nil
}

func (n *NATSKV) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), n.timeout)
}

func (n *NATSKV) lookup(key string) (string, bool) {
	ctx, cancel := n.ctx()
	defer cancel()
	entry, err := n.bucket.Get(ctx, kvKey(key))
	if err != nil {
		if !errors.Is(err, jetstream.ErrKeyNotFound) {
			slog.Debug("nats preference read failed", "key", key, "error", err)
		}
		return "", false
	}
	return string(entry.Value()), true
}

// GetString implements Store.
func (n *NATSKV) GetString(key, fallback string) string {
	if v, ok := n.lookup(key); ok {
		return v
	}
	return fallback
}

// GetBool implements Store.
func (n *NATSKV) GetBool(key string, fallback bool) bool {
	v, ok := n.lookup(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// PutString implements Store.
func (n *NATSKV) PutString(key, value string) error {
	ctx, cancel := n.ctx()
	defer cancel()
	if _, err := n.bucket.PutString(ctx, kvKey(key), value); err != nil {
		return opError("nats", "put", key, fmt.Errorf("%w: %v", ErrUnavailable, err))
	}
	return nil
}

// PutBool implements Store.
func (n *NATSKV) PutBool(key string, value bool) error {
	return n.PutString(key, strconv.FormatBool(value))
}

// Remove implements Store. The key is purged so no delete marker lingers.
func (n *NATSKV) Remove(key string) error {
	ctx, cancel := n.ctx()
	defer cancel()
	err := n.bucket.Purge(ctx, kvKey(key))
	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return opError("nats", "remove", key, fmt.Errorf("%w: %v", ErrUnavailable, err))
	}
	return nil
}

// Flush implements Store.
func (n *NATSKV) Flush() error {
	if err := n.conn.Flush(); err != nil {
		return opError("nats", "flush", "", fmt.Errorf("%w: %v", ErrUnavailable, err))
	}
	return nil
}

// Close drains and closes the connection.
func (n *NATSKV) Close() error {
	return n.conn.Drain()
}

// kvKey maps a preference key onto the KV key alphabet
// ([-/_=.a-zA-Z0-9]); anything else is hex-escaped with '='.
func kvKey(key string) string {
	var b strings.Builder
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_', c == '/':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "=%02X", c)
		}
	}
	return b.String()
}
