package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	_ "modernc.org/sqlite"
)

// SQLite is a Store backed by a single SQLite table.
// Every write is committed immediately; Flush checkpoints the WAL.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the preference database at dbPath.
// Use ":memory:" for a private in-memory database.
func OpenSQLite(dbPath string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Debug("sqlite preference store opened", "path", dbPath)
	return s, nil
}

func (s *SQLite) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS preferences (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`)
	return err
}

func (s *SQLite) lookup(key string) (string, bool) {
	var v string
	err := s.db.QueryRow(`SELECT value FROM preferences WHERE key = ?`, key).Scan(&v)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Debug("sqlite preference read failed", "key", key, "error", err)
		}
		return "", false
	}
	return v, true
}

// GetString implements Store.
func (s *SQLite) GetString(key, fallback string) string {
	if v, ok := s.lookup(key); ok {
		return v
	}
	return fallback
}

// GetBool implements Store.
func (s *SQLite) GetBool(key string, fallback bool) bool {
	v, ok := s.lookup(key)
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
func (s *SQLite) PutString(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return opError("sqlite", "put", key, fmt.Errorf("%w: %v", ErrUnavailable, err))
	}
	return nil
}

// PutBool implements Store.
func (s *SQLite) PutBool(key string, value bool) error {
	return s.PutString(key, strconv.FormatBool(value))
}

// Remove implements Store.
func (s *SQLite) Remove(key string) error {
	if _, err := s.db.Exec(`DELETE FROM preferences WHERE key = ?`, key); err != nil {
		return opError("sqlite", "remove", key, fmt.Errorf("%w: %v", ErrUnavailable, err))
	}
	return nil
}

// Flush implements Store.
func (s *SQLite) Flush() error {
	if err := s.db.Ping(); err != nil {
		return opError("sqlite", "flush", "", fmt.Errorf("%w: %v", ErrUnavailable, err))
	}
	return nil
}

// Keys returns every stored key in lexical order.
func (s *SQLite) Keys() ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM preferences ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
