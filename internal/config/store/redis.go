package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// Hash is the Redis hash holding all preferences (default "prefs:settings").
	Hash string `yaml:"hash"`
	// Timeout bounds every round trip (default 2s).
	Timeout time.Duration `yaml:"timeout"`
}

// Redis is a Store backed by a single Redis hash.
type Redis struct {
	client  *redis.Client
	hash    string
	timeout time.Duration
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(cfg RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	r := newRedisWithClient(client, cfg)

	ctx, cancel := r.ctx()
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("Redis preference store initialized", "addr", cfg.Addr, "hash", r.hash)
	return r, nil
}

func newRedisWithClient(client *redis.Client, cfg RedisConfig) *Redis {
	hash := cfg.Hash
	if hash == "" {
		hash = "prefs:settings"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Redis{client: client, hash: hash, timeout: timeout}
}

func (r *Redis) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.timeout)
}

func (r *Redis) lookup(key string) (string, bool) {
	ctx, cancel := r.ctx()
	defer cancel()
	v, err := r.client.HGet(ctx, r.hash, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Debug("redis preference read failed", "key", key, "error", err)
		}
		return "", false
	}
	return v, true
}

// GetString implements Store.
func (r *Redis) GetString(key, fallback string) string {
	if v, ok := r.lookup(key); ok {
		return v
	}
	return fallback
}

// GetBool implements Store.
func (r *Redis) GetBool(key string, fallback bool) bool {
	v, ok := r.lookup(key)
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
func (r *Redis) PutString(key, value string) error {
	ctx, cancel := r.ctx()
	defer cancel()
	if err := r.client.HSet(ctx, r.hash, key, value).Err(); err != nil {
		return opError("redis", "put", key, fmt.Errorf("%w: %v", ErrUnavailable, err))
	}
	return nil
}

// PutBool implements Store.
func (r *Redis) PutBool(key string, value bool) error {
	return r.PutString(key, strconv.FormatBool(value))
}

// Remove implements Store.
func (r *Redis) Remove(key string) error {
	ctx, cancel := r.ctx()
	defer cancel()
	if err := r.client.HDel(ctx, r.hash, key).Err(); err != nil {
		return opError("redis", "remove", key, fmt.Errorf("%w: %v", ErrUnavailable, err))
	}
	return nil
}

// Flush implements Store. Redis writes are applied immediately, so Flush
// only confirms the server is still reachable.
func (r *Redis) Flush() error {
	ctx, cancel := r.ctx()
	defer cancel()
	if err := r.client.Ping(ctx).Err(); err != nil {
		return opError("redis", "flush", "", fmt.Errorf("%w: %v", ErrUnavailable, err))
	}
	return nil
}

// Close closes the client connection.
func (r *Redis) Close() error {
	return r.client.Close()
}
