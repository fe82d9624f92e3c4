// Package sqlite provides a ports.StateBag backed by an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/senglish/pkg/domain"
	_ "modernc.org/sqlite"
)

// Bag implements ports.StateBag on a single SQLite table.
// Several bags may share one database by using distinct scopes.
type Bag struct {
	db    *sql.DB
	scope string
}

// Open opens (and creates if needed) the database at path and ensures the
// state table exists. Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if path == ":memory:" {
		// Each connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(pctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy_timeout: %w", err)
	}
	if path != ":memory:" {
		// Readers keep working while a session writes.
		var mode string
		if err := db.QueryRowContext(pctx, "PRAGMA journal_mode = WAL;").Scan(&mode); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set journal_mode: %w", err)
		}
	}
	if err := bootstrap(pctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func bootstrap(ctx context.Context, db *sql.DB) error {
	const stmt = `CREATE TABLE IF NOT EXISTS state_bag (
  scope      TEXT NOT NULL,
  key        TEXT NOT NULL,
  value      JSON NOT NULL,
  updated_at TEXT NOT NULL,
  PRIMARY KEY (scope, key)
);`
	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("bootstrap sqlite: %w", err)
	}
	return nil
}

// NewBag returns a bag bound to scope on an opened database.
func NewBag(db *sql.DB, scope string) *Bag {
	return &Bag{db: db, scope: scope}
}

// Set upserts the JSON-encoded value.
func (b *Bag) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for %q: %w", key, err)
	}

	_, err = b.db.ExecContext(ctx, `
INSERT INTO state_bag (scope, key, value, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT(scope, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		b.scope, key, string(data), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save state %q: %w", key, err)
	}
	return nil
}

// Get reads a value.
func (b *Bag) Get(ctx context.Context, key string) (any, error) {
	var raw string
	err := b.db.QueryRowContext(ctx,
		`SELECT value FROM state_bag WHERE scope = ? AND key = ?`, b.scope, key).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrKeyNotFound
		}
		return nil, fmt.Errorf("load state %q: %w", key, err)
	}

	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal value for %q: %w", key, err)
	}
	return v, nil
}

// Delete removes the key.
func (b *Bag) Delete(ctx context.Context, key string) error {
	if _, err := b.db.ExecContext(ctx,
		`DELETE FROM state_bag WHERE scope = ? AND key = ?`, b.scope, key); err != nil {
		return fmt.Errorf("delete state %q: %w", key, err)
	}
	return nil
}

// Keys lists the keys of this scope, ordered.
func (b *Bag) Keys(ctx context.Context) ([]string, error) {
	rows, err := b.db.QueryContext(ctx,
		`SELECT key FROM state_bag WHERE scope = ? ORDER BY key`, b.scope)
	if err != nil {
		return nil, fmt.Errorf("list state: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan state key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
